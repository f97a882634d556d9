package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateNeedRequest is the web intake form for a buyer need.
type CreateNeedRequest struct {
	City             string            `json:"city" validate:"required,min=1,max=100"`
	State            string            `json:"state" validate:"required,len=2"`
	RadiusMiles      float64           `json:"radiusMiles" validate:"omitempty,gte=0,lte=500"`
	MinSqft          *float64          `json:"minSqft,omitempty" validate:"omitempty,gt=0"`
	MaxSqft          *float64          `json:"maxSqft,omitempty" validate:"omitempty,gt=0"`
	UseType          string            `json:"useType" validate:"required,min=1,max=50"`
	NeededFrom       string            `json:"neededFrom,omitempty" validate:"max=30"`
	DurationMonths   int               `json:"durationMonths" validate:"omitempty,gte=0,lte=120"`
	MaxBudgetPerSqft *float64          `json:"maxBudgetPerSqft,omitempty" validate:"omitempty,gt=0"`
	Requirements     map[string]string `json:"requirements,omitempty"`
}

// NeedResponse is a buyer need as rendered to clients.
type NeedResponse struct {
	ID               uuid.UUID         `json:"id"`
	BuyerID          uuid.UUID         `json:"buyerId"`
	City             string            `json:"city"`
	State            string            `json:"state"`
	Lat              *float64          `json:"lat,omitempty"`
	Lng              *float64          `json:"lng,omitempty"`
	RadiusMiles      float64           `json:"radiusMiles"`
	MinSqft          *float64          `json:"minSqft,omitempty"`
	MaxSqft          *float64          `json:"maxSqft,omitempty"`
	UseType          string            `json:"useType"`
	NeededFrom       string            `json:"neededFrom,omitempty"`
	DurationMonths   int               `json:"durationMonths"`
	MaxBudgetPerSqft *float64          `json:"maxBudgetPerSqft,omitempty"`
	Requirements     map[string]string `json:"requirements,omitempty"`
	Source           string            `json:"source"`
	Status           string            `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
}
