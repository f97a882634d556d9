// Package matching provides the clearing and match-scoring domain module.
package matching

import (
	"wex_backend/internal/events"
	apphttp "wex_backend/internal/http"
	"wex_backend/internal/matching/handler"
	"wex_backend/internal/matching/repository"
	"wex_backend/internal/matching/service"
	"wex_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the matching domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new matching module with all dependencies wired
func NewModule(pool *pgxpool.Pool, needs service.NeedProvider, holds service.HoldChecker, features service.FeatureScorer, evaluator service.FeatureEvaluator, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, needs, holds, features, evaluator, eventBus, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "matching"
}

// RegisterRoutes registers the module's routes under /api/v1/matches
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	matches := ctx.Protected.Group("/matches")
	m.handler.RegisterRoutes(matches)

	adminMatches := ctx.Admin.Group("/matches")
	m.handler.RegisterAdminRoutes(adminMatches)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
