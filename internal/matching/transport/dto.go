package transport

import (
	"time"

	"github.com/google/uuid"
)

// MatchResponse is a scored match as rendered to clients.
type MatchResponse struct {
	ID                         uuid.UUID  `json:"id"`
	NeedID                     uuid.UUID  `json:"needId"`
	WarehouseID                uuid.UUID  `json:"warehouseId"`
	Rank                       int        `json:"rank"`
	CompositeScore             float64    `json:"compositeScore"`
	LocationScore              float64    `json:"locationScore"`
	SizeScore                  float64    `json:"sizeScore"`
	UseTypeScore               float64    `json:"useTypeScore"`
	FeatureScore               float64    `json:"featureScore"`
	TimingScore                float64    `json:"timingScore"`
	BudgetScore                float64    `json:"budgetScore"`
	DistanceMiles              *float64   `json:"distanceMiles,omitempty"`
	WithinBudget               bool       `json:"withinBudget"`
	BudgetStretchPct           float64    `json:"budgetStretchPct"`
	BudgetAlternativeAvailable bool       `json:"budgetAlternativeAvailable,omitempty"`
	UseTypeCallouts            []string   `json:"useTypeCallouts,omitempty"`
	FeatureScoredAt            *time.Time `json:"featureScoredAt,omitempty"`
	CreatedAt                  time.Time  `json:"createdAt"`
}

// ClearResultResponse summarizes a clearing run.
type ClearResultResponse struct {
	NeedID     uuid.UUID       `json:"needId"`
	Candidates int             `json:"candidates"`
	Matches    []MatchResponse `json:"matches"`
}
