package adapters

import (
	"context"

	engagementssvc "wex_backend/internal/engagements/service"

	"github.com/google/uuid"
)

// HoldCheckerAdapter lets the clearing engine ask the engagements module
// whether a warehouse is tied up in a live deal. It is bound late because the
// matching and engagements modules reference each other; until Bind is
// called, every warehouse is reported free.
type HoldCheckerAdapter struct {
	svc *engagementssvc.Service
}

func NewHoldCheckerAdapter() *HoldCheckerAdapter {
	return &HoldCheckerAdapter{}
}

func (a *HoldCheckerAdapter) Bind(svc *engagementssvc.Service) {
	a.svc = svc
}

func (a *HoldCheckerAdapter) HasActiveEngagement(ctx context.Context, warehouseID uuid.UUID) (bool, error) {
	if a.svc == nil {
		return false, nil
	}
	return a.svc.HasActiveEngagement(ctx, warehouseID)
}
