// Package email delivers transactional notices over SMTP.
package email

import (
	"context"
	"fmt"
	"time"

	"wex_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// Sender is the outbound email surface the notification handlers use.
type Sender interface {
	SendMatchesReady(ctx context.Context, toEmail, city string, matchCount int) error
	SendEngagementUpdate(ctx context.Context, toEmail, status string) error
	SendEngagementLapsed(ctx context.Context, toEmail, status string) error
	SendAgreementSent(ctx context.Context, toEmail string) error
	SendAgreementSigned(ctx context.Context, toEmail string) error
}

// SMTPSender implements Sender with a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUser(),
		password:  cfg.GetSMTPPassword(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendMatchesReady(ctx context.Context, toEmail, city string, matchCount int) error {
	content, err := renderEmailTemplate("matches_ready.html", matchesReadyEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectMatchesReady,
			Heading: "Your matches are ready",
		},
		City:       city,
		MatchCount: matchCount,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectMatchesReady, content)
}

func (s *SMTPSender) SendEngagementUpdate(ctx context.Context, toEmail, status string) error {
	return s.sendNotice(ctx, toEmail, subjectEngagementUpdate, "Your deal moved forward",
		fmt.Sprintf("Your warehouse deal is now in status %q. Log in for the next step.", status))
}

func (s *SMTPSender) SendEngagementLapsed(ctx context.Context, toEmail, status string) error {
	return s.sendNotice(ctx, toEmail, subjectEngagementLapsed, "Your deal has expired",
		fmt.Sprintf("A deadline passed and your warehouse deal moved to %q. You can start a new search any time.", status))
}

func (s *SMTPSender) SendAgreementSent(ctx context.Context, toEmail string) error {
	return s.sendNotice(ctx, toEmail, subjectAgreementSent, "Agreement ready to sign",
		"Your lease agreement is ready. Review and sign it within 7 days to keep the deal moving.")
}

func (s *SMTPSender) SendAgreementSigned(ctx context.Context, toEmail string) error {
	return s.sendNotice(ctx, toEmail, subjectAgreementSigned, "Agreement fully executed",
		"Both parties have signed. Onboarding starts now; we'll reach out with move-in details.")
}

func (s *SMTPSender) sendNotice(ctx context.Context, toEmail, subject, heading, body string) error {
	content, err := renderEmailTemplate("notice.html", baseEmailData{
		Title:   subject,
		Heading: heading,
		Body:    body,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}
