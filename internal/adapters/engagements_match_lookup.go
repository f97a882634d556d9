package adapters

import (
	"context"

	engagementssvc "wex_backend/internal/engagements/service"
	matchingsvc "wex_backend/internal/matching/service"

	"github.com/google/uuid"
)

// MatchLookupAdapter lets the engagements module resolve the parties behind a
// match without importing the matching module directly.
type MatchLookupAdapter struct {
	matching *matchingsvc.Service
}

func NewMatchLookupAdapter(matching *matchingsvc.Service) *MatchLookupAdapter {
	return &MatchLookupAdapter{matching: matching}
}

func (a *MatchLookupAdapter) GetMatchParties(ctx context.Context, matchID uuid.UUID) (*engagementssvc.MatchParties, error) {
	parties, err := a.matching.GetParties(ctx, matchID)
	if err != nil {
		return nil, err
	}

	return &engagementssvc.MatchParties{
		MatchID:     parties.MatchID,
		NeedID:      parties.NeedID,
		WarehouseID: parties.WarehouseID,
		BuyerID:     parties.BuyerID,
		SupplierID:  parties.SupplierID,
	}, nil
}
