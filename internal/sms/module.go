package sms

import (
	apphttp "wex_backend/internal/http"
	"wex_backend/platform/config"
	"wex_backend/platform/logger"
)

// Module wires the inbound SMS webhook into the public API surface.
type Module struct {
	handler *Handler
	Service *Service
}

func NewModule(cfg config.SMSConfig, dedup *DedupCache, buyers BuyerResolver, needs NeedIntake, log *logger.Logger) (*Module, error) {
	templates, err := LoadTemplates(cfg.GetSMSTemplatePath())
	if err != nil {
		return nil, err
	}

	svc := NewService(dedup, buyers, needs, templates, log)
	h := NewHandler(svc, cfg.GetTwilioAuthToken(), log)

	return &Module{handler: h, Service: svc}, nil
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "sms"
}

// RegisterRoutes registers the webhook under /api/v1/webhooks/sms. The route
// is unauthenticated; the Twilio signature check guards it instead.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	webhooks := ctx.V1.Group("/webhooks/sms")
	m.handler.RegisterRoutes(webhooks)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
