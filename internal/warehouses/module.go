// Package warehouses provides the supplier warehouse domain module.
package warehouses

import (
	"wex_backend/internal/events"
	apphttp "wex_backend/internal/http"
	"wex_backend/internal/storage"
	"wex_backend/internal/warehouses/handler"
	"wex_backend/internal/warehouses/repository"
	"wex_backend/internal/warehouses/service"
	"wex_backend/platform/logger"
	"wex_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the warehouses domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new warehouses module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator, store storage.Service, bucket string, geocoder service.Geocoder, describer service.Describer, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, bucket, geocoder, describer, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "warehouses"
}

// RegisterRoutes registers the module's routes under /api/v1/warehouses
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	warehouses := ctx.Protected.Group("/warehouses")
	m.handler.RegisterRoutes(warehouses)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
