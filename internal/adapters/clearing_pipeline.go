package adapters

import (
	"context"

	matchingsvc "wex_backend/internal/matching/service"
	needssvc "wex_backend/internal/needs/service"

	"github.com/google/uuid"
)

// ClearingPipeline runs a clearing pass for a need and marks the need cleared
// once matches are persisted. It implements the scheduler's ClearingRunner
// interface.
type ClearingPipeline struct {
	matching *matchingsvc.Service
	needs    *needssvc.Service
}

func NewClearingPipeline(matching *matchingsvc.Service, needs *needssvc.Service) *ClearingPipeline {
	return &ClearingPipeline{matching: matching, needs: needs}
}

func (p *ClearingPipeline) RunClearing(ctx context.Context, needID uuid.UUID) error {
	if _, err := p.matching.Clear(ctx, needID); err != nil {
		return err
	}
	return p.needs.MarkCleared(ctx, needID)
}
