// Package sms provides the Twilio-shaped inbound webhook and the
// fire-and-forget outbound sender used for lifecycle notifications.
package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wex_backend/platform/config"
	"wex_backend/platform/logger"
	"wex_backend/platform/phone"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// Client sends outbound SMS through the Twilio messages API. A nil client is
// safe to use and drops every send, so callers never branch on configuration.
type Client struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	http       *http.Client
	log        *logger.Logger
}

func NewClient(cfg config.SMSConfig, log *logger.Logger) *Client {
	if !cfg.GetSMSEnabled() {
		return nil
	}

	return &Client{
		accountSID: cfg.GetTwilioAccountSID(),
		authToken:  cfg.GetTwilioAuthToken(),
		from:       cfg.GetTwilioFromNumber(),
		baseURL:    twilioBaseURL,
		http:       &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Send delivers a single message. Failures are returned but callers treat
// sending as fire-and-forget; nothing downstream depends on delivery.
func (c *Client) Send(ctx context.Context, to string, body string) error {
	if c == nil {
		return nil
	}

	normalized := phone.NormalizeE164(to)
	if normalized == "" {
		return fmt.Errorf("sms: invalid recipient number")
	}

	form := url.Values{}
	form.Set("To", normalized)
	form.Set("From", c.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sms: send failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	return nil
}
