// Package engagements provides the engagement lifecycle domain module.
package engagements

import (
	"wex_backend/internal/engagements/handler"
	"wex_backend/internal/engagements/repository"
	"wex_backend/internal/engagements/service"
	"wex_backend/internal/events"
	apphttp "wex_backend/internal/http"
	"wex_backend/platform/logger"
	"wex_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the engagements domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new engagements module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator, matches service.MatchLookup, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, matches, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "engagements"
}

// RegisterRoutes registers the module's routes under /api/v1/engagements
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	engagements := ctx.Protected.Group("/engagements")
	m.handler.RegisterRoutes(engagements)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
