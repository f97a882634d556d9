// Package service provides business logic for supplier warehouses.
package service

import (
	"context"
	"strings"
	"time"

	"wex_backend/internal/events"
	"wex_backend/internal/pricing"
	"wex_backend/internal/storage"
	"wex_backend/internal/warehouses/repository"
	"wex_backend/internal/warehouses/transport"
	"wex_backend/platform/apperr"
	"wex_backend/platform/logger"

	"github.com/google/uuid"
)

// Warehouse statuses.
const (
	StatusDraft    = "draft"
	StatusListable = "listable"
	StatusDelisted = "delisted"
)

// Geocoder resolves an address to coordinates. Nil when not configured.
type Geocoder interface {
	GeocodeAddress(ctx context.Context, addressLine, city, state, zip string) (lat, lng float64, err error)
}

// ListingFacts are the warehouse facts handed to the description generator.
type ListingFacts struct {
	Name           string
	City           string
	State          string
	ActivityTier   string
	TotalSqft      *float64
	HasOfficeSpace bool
	HasSprinkler   bool
	DockDoors      int
	DriveInDoors   int
	ParkingSpaces  int
}

// Describer generates a listing description from warehouse facts.
// Nil when the agent is not configured.
type Describer interface {
	DescribeListing(ctx context.Context, facts ListingFacts) (string, error)
}

// Service provides business logic for warehouses
type Service struct {
	repo      *repository.Repository
	storage   storage.Service
	bucket    string
	geocoder  Geocoder
	describer Describer
	eventBus  events.Bus
	log       *logger.Logger
}

// New creates a new warehouses service
func New(repo *repository.Repository, store storage.Service, bucket string, geocoder Geocoder, describer Describer, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		storage:   store,
		bucket:    bucket,
		geocoder:  geocoder,
		describer: describer,
		eventBus:  eventBus,
		log:       log,
	}
}

// Create records a supplier warehouse in draft status and geocodes its
// address.
func (s *Service) Create(ctx context.Context, supplierID uuid.UUID, req transport.CreateWarehouseRequest) (*transport.WarehouseResponse, error) {
	now := time.Now().UTC()
	w := &repository.Warehouse{
		ID:             uuid.New(),
		SupplierID:     supplierID,
		Name:           strings.TrimSpace(req.Name),
		AddressLine:    strings.TrimSpace(req.AddressLine),
		City:           strings.TrimSpace(req.City),
		State:          strings.ToUpper(strings.TrimSpace(req.State)),
		Zip:            strings.TrimSpace(req.Zip),
		ActivityTier:   strings.ToLower(strings.TrimSpace(req.ActivityTier)),
		TotalSqft:      req.TotalSqft,
		HasOfficeSpace: req.HasOfficeSpace,
		HasSprinkler:   req.HasSprinkler,
		DockDoors:      req.DockDoors,
		DriveInDoors:   req.DriveInDoors,
		ParkingSpaces:  req.ParkingSpaces,
		Status:         StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if s.geocoder != nil {
		if lat, lng, err := s.geocoder.GeocodeAddress(ctx, w.AddressLine, w.City, w.State, w.Zip); err != nil {
			s.log.Warn("warehouse geocoding failed", "warehouseId", w.ID, "error", err)
		} else {
			w.Lat = &lat
			w.Lng = &lng
		}
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, w)
}

// GetByID retrieves a warehouse owned by the caller (admin sees any).
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string) (*transport.WarehouseResponse, error) {
	w, err := s.ownedWarehouse(ctx, id, userID, role)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, w)
}

// ListForSupplier retrieves the caller's warehouses.
func (s *Service) ListForSupplier(ctx context.Context, supplierID uuid.UUID) ([]transport.WarehouseResponse, error) {
	ws, err := s.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.WarehouseResponse, 0, len(ws))
	for i := range ws {
		resp, err := s.toResponse(ctx, &ws[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// UpsertTerms declares or updates the listing terms. A warehouse with
// complete terms becomes listable and enters the clearing pool.
func (s *Service) UpsertTerms(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string, req transport.UpsertListingTermsRequest) (*transport.WarehouseResponse, error) {
	w, err := s.ownedWarehouse(ctx, id, userID, role)
	if err != nil {
		return nil, err
	}

	if req.MinListableSqft != nil && req.MaxListableSqft != nil && *req.MinListableSqft > *req.MaxListableSqft {
		return nil, apperr.Validation("minListableSqft cannot exceed maxListableSqft")
	}

	terms := &repository.ListingTerms{
		WarehouseID:         w.ID,
		MinListableSqft:     req.MinListableSqft,
		MaxListableSqft:     req.MaxListableSqft,
		SupplierRatePerSqft: req.SupplierRatePerSqft,
		AvailableFrom:       req.AvailableFrom,
	}
	if err := s.repo.UpsertListingTerms(ctx, terms); err != nil {
		return nil, err
	}

	if w.Status == StatusDraft && req.SupplierRatePerSqft != nil {
		if err := s.repo.UpdateStatus(ctx, w.ID, StatusListable); err != nil {
			return nil, err
		}
		w.Status = StatusListable
		s.eventBus.Publish(ctx, events.WarehouseListed{
			BaseEvent:   events.NewBaseEvent(),
			WarehouseID: w.ID,
			SupplierID:  w.SupplierID,
			City:        w.City,
			State:       w.State,
		})
	}

	return s.toResponse(ctx, w)
}

// Delist pulls a warehouse out of the clearing pool.
func (s *Service) Delist(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string) error {
	w, err := s.ownedWarehouse(ctx, id, userID, role)
	if err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, w.ID, StatusDelisted)
}

// RequestPhotoUpload hands out a presigned upload slot for a listing photo.
func (s *Service) RequestPhotoUpload(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string, req transport.PhotoUploadRequest) (*storage.PresignedURL, error) {
	w, err := s.ownedWarehouse(ctx, id, userID, role)
	if err != nil {
		return nil, err
	}
	folder := "warehouses/" + w.ID.String()
	return s.storage.GenerateUploadURL(ctx, s.bucket, folder, req.FileName, req.ContentType, req.SizeBytes)
}

// ConfirmPhoto records a completed upload against the warehouse.
func (s *Service) ConfirmPhoto(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string, req transport.ConfirmPhotoRequest) error {
	w, err := s.ownedWarehouse(ctx, id, userID, role)
	if err != nil {
		return err
	}
	return s.repo.AddPhoto(ctx, &repository.Photo{
		ID:          uuid.New(),
		WarehouseID: w.ID,
		FileKey:     req.FileKey,
		ContentType: req.ContentType,
		CreatedAt:   time.Now().UTC(),
	})
}

// ListPhotos retrieves the listing photos with presigned download URLs.
func (s *Service) ListPhotos(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string) ([]transport.PhotoResponse, error) {
	w, err := s.ownedWarehouse(ctx, id, userID, role)
	if err != nil {
		return nil, err
	}

	photos, err := s.repo.ListPhotos(ctx, w.ID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.PhotoResponse, 0, len(photos))
	for _, p := range photos {
		url, err := s.storage.GenerateDownloadURL(ctx, s.bucket, p.FileKey)
		if err != nil {
			return nil, err
		}
		out = append(out, transport.PhotoResponse{
			ID:          p.ID,
			ContentType: p.ContentType,
			URL:         url,
			CreatedAt:   p.CreatedAt,
		})
	}
	return out, nil
}

// DeletePhoto removes a listing photo from the record and from storage.
func (s *Service) DeletePhoto(ctx context.Context, id, photoID uuid.UUID, userID uuid.UUID, role string) error {
	w, err := s.ownedWarehouse(ctx, id, userID, role)
	if err != nil {
		return err
	}

	fileKey, err := s.repo.DeletePhoto(ctx, photoID, w.ID)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteObject(ctx, s.bucket, fileKey); err != nil {
		s.log.Warn("failed to delete photo object", "fileKey", fileKey, "error", err)
	}
	return nil
}

// GenerateDescription drafts a listing description from the warehouse facts
// and stores it.
func (s *Service) GenerateDescription(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string) (*transport.WarehouseResponse, error) {
	w, err := s.ownedWarehouse(ctx, id, userID, role)
	if err != nil {
		return nil, err
	}
	if s.describer == nil {
		return nil, apperr.Validation("description generation is not configured")
	}

	description, err := s.describer.DescribeListing(ctx, ListingFacts{
		Name:           w.Name,
		City:           w.City,
		State:          w.State,
		ActivityTier:   w.ActivityTier,
		TotalSqft:      w.TotalSqft,
		HasOfficeSpace: w.HasOfficeSpace,
		HasSprinkler:   w.HasSprinkler,
		DockDoors:      w.DockDoors,
		DriveInDoors:   w.DriveInDoors,
		ParkingSpaces:  w.ParkingSpaces,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateDescription(ctx, w.ID, description); err != nil {
		return nil, err
	}
	w.Description = &description

	return s.toResponse(ctx, w)
}

func (s *Service) ownedWarehouse(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string) (*repository.Warehouse, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != "admin" && w.SupplierID != userID {
		return nil, apperr.Forbidden("warehouse does not belong to this supplier")
	}
	return w, nil
}

func (s *Service) toResponse(ctx context.Context, w *repository.Warehouse) (*transport.WarehouseResponse, error) {
	resp := &transport.WarehouseResponse{
		ID:             w.ID,
		SupplierID:     w.SupplierID,
		Name:           w.Name,
		AddressLine:    w.AddressLine,
		City:           w.City,
		State:          w.State,
		Zip:            w.Zip,
		Lat:            w.Lat,
		Lng:            w.Lng,
		ActivityTier:   w.ActivityTier,
		TotalSqft:      w.TotalSqft,
		HasOfficeSpace: w.HasOfficeSpace,
		HasSprinkler:   w.HasSprinkler,
		DockDoors:      w.DockDoors,
		DriveInDoors:   w.DriveInDoors,
		ParkingSpaces:  w.ParkingSpaces,
		Description:    w.Description,
		Status:         w.Status,
		CreatedAt:      w.CreatedAt,
	}

	terms, err := s.repo.GetListingTerms(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	if terms != nil {
		tr := &transport.ListingTermsResponse{
			MinListableSqft:     terms.MinListableSqft,
			MaxListableSqft:     terms.MaxListableSqft,
			SupplierRatePerSqft: terms.SupplierRatePerSqft,
			AvailableFrom:       terms.AvailableFrom,
		}
		if terms.SupplierRatePerSqft != nil {
			buyerRate := pricing.DefaultBuyerRate(*terms.SupplierRatePerSqft)
			tr.BuyerRatePerSqft = &buyerRate
		}
		resp.ListingTerms = tr
	}

	return resp, nil
}
