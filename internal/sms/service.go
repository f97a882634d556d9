package sms

import (
	"context"

	"wex_backend/internal/needs/transport"
	"wex_backend/platform/apperr"
	"wex_backend/platform/logger"
	"wex_backend/platform/phone"

	"github.com/google/uuid"
)

const sourceSMS = "sms"

// BuyerResolver maps an inbound phone number onto a registered buyer.
// Implemented by the auth module.
type BuyerResolver interface {
	ResolveBuyerByPhone(ctx context.Context, phoneE164 string) (uuid.UUID, error)
}

// NeedIntake accepts parsed needs. Implemented by the needs module's service.
type NeedIntake interface {
	Create(ctx context.Context, buyerID uuid.UUID, source string, req transport.CreateNeedRequest) (*transport.NeedResponse, error)
}

// Service turns inbound SMS into need intakes and picks the reply text.
type Service struct {
	dedup     *DedupCache
	buyers    BuyerResolver
	needs     NeedIntake
	templates *Templates
	log       *logger.Logger
}

func NewService(dedup *DedupCache, buyers BuyerResolver, needs NeedIntake, templates *Templates, log *logger.Logger) *Service {
	return &Service{
		dedup:     dedup,
		buyers:    buyers,
		needs:     needs,
		templates: templates,
		log:       log,
	}
}

// HandleInbound processes one webhook delivery and returns the reply body,
// or "" when no reply should be sent (duplicate deliveries).
func (s *Service) HandleInbound(ctx context.Context, from, body, messageSID string) (string, error) {
	if s.dedup != nil {
		fresh, err := s.dedup.Claim(ctx, messageSID)
		if err != nil {
			// Redis being down should not drop intakes; log and continue.
			s.log.Warn("sms dedup unavailable", "error", err)
		} else if !fresh {
			s.log.Info("duplicate sms delivery dropped", "message_sid", messageSID)
			return "", nil
		}
	}

	normalized := phone.NormalizeE164(from)
	buyerID, err := s.buyers.ResolveBuyerByPhone(ctx, normalized)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return s.render("unknown_sender", nil)
		}
		return "", err
	}

	req, parseErr := parseNeedMessage(body)
	if parseErr != nil {
		s.log.Info("sms need parse failed", "from", normalized, "error", parseErr)
		return s.render("need_parse_failed", nil)
	}

	need, err := s.needs.Create(ctx, buyerID, sourceSMS, req)
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			return s.render("need_parse_failed", nil)
		}
		return "", err
	}

	s.log.Info("need created from sms", "need_id", need.ID, "buyer_id", buyerID)
	return s.render("need_received", map[string]string{"city": need.City})
}

func (s *Service) render(name string, vars map[string]string) (string, error) {
	text, err := s.templates.Render(name, vars)
	if err != nil {
		return "", err
	}
	return text, nil
}
