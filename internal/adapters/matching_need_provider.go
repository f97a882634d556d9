package adapters

import (
	"context"

	matchingsvc "wex_backend/internal/matching/service"
	needssvc "wex_backend/internal/needs/service"

	"github.com/google/uuid"
)

// NeedProviderAdapter exposes stored needs to the clearing engine.
// It implements the matching service's NeedProvider interface.
type NeedProviderAdapter struct {
	needs *needssvc.Service
}

func NewNeedProviderAdapter(needs *needssvc.Service) *NeedProviderAdapter {
	return &NeedProviderAdapter{needs: needs}
}

func (a *NeedProviderAdapter) GetNeedForClearing(ctx context.Context, needID uuid.UUID) (*matchingsvc.ClearingNeed, error) {
	need, err := a.needs.GetRaw(ctx, needID)
	if err != nil {
		return nil, err
	}

	return &matchingsvc.ClearingNeed{
		ID:               need.ID,
		BuyerID:          need.BuyerID,
		City:             need.City,
		State:            need.State,
		Lat:              need.Lat,
		Lng:              need.Lng,
		RadiusMiles:      need.RadiusMiles,
		MinSqft:          need.MinSqft,
		MaxSqft:          need.MaxSqft,
		UseType:          need.UseType,
		NeededFrom:       need.NeededFrom,
		DurationMonths:   need.DurationMonths,
		MaxBudgetPerSqft: need.MaxBudgetPerSqft,
		Requirements:     need.Requirements,
	}, nil
}
