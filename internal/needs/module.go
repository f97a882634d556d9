// Package needs provides the buyer-need intake domain module.
package needs

import (
	"wex_backend/internal/events"
	apphttp "wex_backend/internal/http"
	"wex_backend/internal/needs/handler"
	"wex_backend/internal/needs/repository"
	"wex_backend/internal/needs/service"
	"wex_backend/platform/logger"
	"wex_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the needs domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new needs module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator, geocoder service.Geocoder, clearing service.ClearScheduler, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, geocoder, clearing, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "needs"
}

// RegisterRoutes registers the module's routes under /api/v1/needs
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	needs := ctx.Protected.Group("/needs")
	m.handler.RegisterRoutes(needs)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
