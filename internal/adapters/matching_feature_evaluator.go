package adapters

import (
	"context"

	"wex_backend/internal/agent"
	matchingsvc "wex_backend/internal/matching/service"
)

// FeatureEvaluatorAdapter hands match feature facts to the model client.
// It implements the matching service's FeatureEvaluator interface.
type FeatureEvaluatorAdapter struct {
	agent *agent.Client
}

func NewFeatureEvaluatorAdapter(client *agent.Client) *FeatureEvaluatorAdapter {
	return &FeatureEvaluatorAdapter{agent: client}
}

func (a *FeatureEvaluatorAdapter) EvaluateFeatures(ctx context.Context, facts matchingsvc.FeatureFacts) (int, error) {
	return a.agent.EvaluateFeatures(ctx, agent.FeatureFacts{
		Requirements:   facts.Requirements,
		ActivityTier:   facts.ActivityTier,
		HasOfficeSpace: facts.HasOfficeSpace,
		HasSprinkler:   facts.HasSprinkler,
		DockDoors:      facts.DockDoors,
		DriveInDoors:   facts.DriveInDoors,
		ParkingSpaces:  facts.ParkingSpaces,
	})
}
