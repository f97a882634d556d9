// Package notification fans domain events out to email and SMS. Domain
// modules publish events and never touch delivery channels directly.
package notification

import (
	"context"
	"fmt"

	"wex_backend/internal/email"
	"wex_backend/internal/events"
	"wex_backend/internal/sms"
	"wex_backend/platform/logger"

	"github.com/google/uuid"
)

// Contact is the delivery endpoints for one user. Empty fields mean the
// channel is not available for that user.
type Contact struct {
	Email string
	Phone string
}

// ContactReader resolves a user's delivery endpoints. Implemented by the
// auth module.
type ContactReader interface {
	GetContact(ctx context.Context, userID uuid.UUID) (Contact, error)
}

// Module subscribes to domain events and sends notifications. Either channel
// may be nil when not configured; sends on missing channels are dropped.
type Module struct {
	contacts ContactReader
	email    email.Sender
	sms      *sms.Client
	log      *logger.Logger
}

func NewModule(bus events.Bus, contacts ContactReader, emailSender email.Sender, smsClient *sms.Client, log *logger.Logger) *Module {
	m := &Module{
		contacts: contacts,
		email:    emailSender,
		sms:      smsClient,
		log:      log,
	}

	bus.Subscribe(events.MatchesCleared{}.EventName(), events.HandlerFunc(m.onMatchesCleared))
	bus.Subscribe(events.EngagementTransitioned{}.EventName(), events.HandlerFunc(m.onEngagementTransitioned))
	bus.Subscribe(events.EngagementExpired{}.EventName(), events.HandlerFunc(m.onEngagementExpired))

	return m
}

func (m *Module) onMatchesCleared(ctx context.Context, event events.Event) error {
	e, ok := event.(events.MatchesCleared)
	if !ok {
		return nil
	}
	if e.MatchCount == 0 {
		return nil
	}

	contact, err := m.contacts.GetContact(ctx, e.BuyerID)
	if err != nil {
		return err
	}

	if m.email != nil && contact.Email != "" {
		if err := m.email.SendMatchesReady(ctx, contact.Email, e.City, e.MatchCount); err != nil {
			m.log.Error("matches-ready email failed", "buyer_id", e.BuyerID, "error", err)
		}
	}
	m.sendSMS(ctx, contact.Phone,
		fmt.Sprintf("We found %d matching warehouse spaces for your search. Log in to review them.", e.MatchCount))

	return nil
}

func (m *Module) onEngagementTransitioned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.EngagementTransitioned)
	if !ok {
		return nil
	}

	switch e.ToStatus {
	case "AGREEMENT_SENT":
		contact, err := m.contacts.GetContact(ctx, e.BuyerID)
		if err != nil {
			return err
		}
		if m.email != nil && contact.Email != "" {
			if err := m.email.SendAgreementSent(ctx, contact.Email); err != nil {
				m.log.Error("agreement-sent email failed", "engagement_id", e.EngagementID, "error", err)
			}
		}
		m.sendSMS(ctx, contact.Phone, "Your lease agreement is ready to sign. You have 7 days.")

	case "AGREEMENT_SIGNED", "ACTIVE":
		for _, userID := range []uuid.UUID{e.BuyerID, e.SupplierID} {
			contact, err := m.contacts.GetContact(ctx, userID)
			if err != nil {
				m.log.Error("contact lookup failed", "user_id", userID, "error", err)
				continue
			}
			if m.email != nil && contact.Email != "" {
				var sendErr error
				if e.ToStatus == "AGREEMENT_SIGNED" {
					sendErr = m.email.SendAgreementSigned(ctx, contact.Email)
				} else {
					sendErr = m.email.SendEngagementUpdate(ctx, contact.Email, e.ToStatus)
				}
				if sendErr != nil {
					m.log.Error("engagement email failed", "engagement_id", e.EngagementID, "error", sendErr)
				}
			}
		}

	case "TOUR_CONFIRMED":
		contact, err := m.contacts.GetContact(ctx, e.BuyerID)
		if err != nil {
			return err
		}
		m.sendSMS(ctx, contact.Phone, "Your warehouse tour is confirmed. See you there.")
	}

	return nil
}

func (m *Module) onEngagementExpired(ctx context.Context, event events.Event) error {
	e, ok := event.(events.EngagementExpired)
	if !ok {
		return nil
	}

	contact, err := m.contacts.GetContact(ctx, e.BuyerID)
	if err != nil {
		return err
	}

	if m.email != nil && contact.Email != "" {
		if err := m.email.SendEngagementLapsed(ctx, contact.Email, e.ToStatus); err != nil {
			m.log.Error("lapsed email failed", "engagement_id", e.EngagementID, "error", err)
		}
	}
	m.sendSMS(ctx, contact.Phone, "A deadline passed and your warehouse deal expired. You can start a new search any time.")

	return nil
}

func (m *Module) sendSMS(ctx context.Context, phoneNumber, body string) {
	if m.sms == nil || phoneNumber == "" {
		return
	}
	if err := m.sms.Send(ctx, phoneNumber, body); err != nil {
		m.log.SMSEvent("outbound", phoneNumber, false)
		return
	}
	m.log.SMSEvent("outbound", phoneNumber, true)
}
