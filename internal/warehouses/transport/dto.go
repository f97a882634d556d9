package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateWarehouseRequest is the supplier onboarding form for a warehouse.
type CreateWarehouseRequest struct {
	Name           string   `json:"name" validate:"required,min=1,max=200"`
	AddressLine    string   `json:"addressLine" validate:"required,min=1,max=300"`
	City           string   `json:"city" validate:"required,min=1,max=100"`
	State          string   `json:"state" validate:"required,len=2"`
	Zip            string   `json:"zip" validate:"required,min=3,max=12"`
	ActivityTier   string   `json:"activityTier" validate:"required,min=1,max=50"`
	TotalSqft      *float64 `json:"totalSqft,omitempty" validate:"omitempty,gt=0"`
	HasOfficeSpace bool     `json:"hasOfficeSpace"`
	HasSprinkler   bool     `json:"hasSprinkler"`
	DockDoors      int      `json:"dockDoors" validate:"gte=0"`
	DriveInDoors   int      `json:"driveInDoors" validate:"gte=0"`
	ParkingSpaces  int      `json:"parkingSpaces" validate:"gte=0"`
}

// UpsertListingTermsRequest declares or updates the listable terms.
type UpsertListingTermsRequest struct {
	MinListableSqft     *float64   `json:"minListableSqft,omitempty" validate:"omitempty,gt=0"`
	MaxListableSqft     *float64   `json:"maxListableSqft,omitempty" validate:"omitempty,gt=0"`
	SupplierRatePerSqft *float64   `json:"supplierRatePerSqft,omitempty" validate:"omitempty,gt=0"`
	AvailableFrom       *time.Time `json:"availableFrom,omitempty"`
}

// PhotoUploadRequest asks for a presigned upload slot for a listing photo.
type PhotoUploadRequest struct {
	FileName    string `json:"fileName" validate:"required,min=1,max=255"`
	ContentType string `json:"contentType" validate:"required"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

// ConfirmPhotoRequest records a completed photo upload.
type ConfirmPhotoRequest struct {
	FileKey     string `json:"fileKey" validate:"required,min=1,max=500"`
	ContentType string `json:"contentType" validate:"required"`
}

// WarehouseResponse is a warehouse as rendered to its supplier.
type WarehouseResponse struct {
	ID             uuid.UUID             `json:"id"`
	SupplierID     uuid.UUID             `json:"supplierId"`
	Name           string                `json:"name"`
	AddressLine    string                `json:"addressLine"`
	City           string                `json:"city"`
	State          string                `json:"state"`
	Zip            string                `json:"zip"`
	Lat            *float64              `json:"lat,omitempty"`
	Lng            *float64              `json:"lng,omitempty"`
	ActivityTier   string                `json:"activityTier"`
	TotalSqft      *float64              `json:"totalSqft,omitempty"`
	HasOfficeSpace bool                  `json:"hasOfficeSpace"`
	HasSprinkler   bool                  `json:"hasSprinkler"`
	DockDoors      int                   `json:"dockDoors"`
	DriveInDoors   int                   `json:"driveInDoors"`
	ParkingSpaces  int                   `json:"parkingSpaces"`
	Description    *string               `json:"description,omitempty"`
	Status         string                `json:"status"`
	ListingTerms   *ListingTermsResponse `json:"listingTerms,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// ListingTermsResponse renders the declared terms plus the derived buyer rate.
type ListingTermsResponse struct {
	MinListableSqft     *float64   `json:"minListableSqft,omitempty"`
	MaxListableSqft     *float64   `json:"maxListableSqft,omitempty"`
	SupplierRatePerSqft *float64   `json:"supplierRatePerSqft,omitempty"`
	BuyerRatePerSqft    *float64   `json:"buyerRatePerSqft,omitempty"`
	AvailableFrom       *time.Time `json:"availableFrom,omitempty"`
}

// PhotoResponse is a listing photo with a time-limited download URL.
type PhotoResponse struct {
	ID          uuid.UUID `json:"id"`
	ContentType string    `json:"contentType"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}
