// Package agent wraps the Gemini API for the two generation tasks the
// clearinghouse delegates to an LLM: scoring a warehouse's features against a
// buyer's free-form requirements, and drafting listing descriptions.
package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"wex_backend/platform/config"
	"wex_backend/platform/logger"

	"google.golang.org/genai"
)

// Client wraps a Gemini model for feature evaluation and listing copy.
type Client struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// NewClient creates a new agent client. Returns an error when the API key is
// missing; callers treat a nil client as "agent disabled".
func NewClient(ctx context.Context, cfg config.AgentConfig, log *logger.Logger) (*Client, error) {
	if cfg.GetGeminiAPIKey() == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := cfg.GetAgentModel()
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &Client{client: client, model: model, log: log}, nil
}

// FeatureFacts describe one warehouse against one need's requirements.
type FeatureFacts struct {
	Requirements   map[string]string
	ActivityTier   string
	HasOfficeSpace bool
	HasSprinkler   bool
	DockDoors      int
	DriveInDoors   int
	ParkingSpaces  int
}

// EvaluateFeatures asks the model how well the warehouse's feature set covers
// the buyer's free-form requirements, on a 0-100 scale.
func (c *Client) EvaluateFeatures(ctx context.Context, facts FeatureFacts) (int, error) {
	var sb strings.Builder
	sb.WriteString("Rate how well this warehouse's features cover the buyer's requirements.\n")
	sb.WriteString("Reply with a single integer between 0 and 100 and nothing else.\n\n")
	sb.WriteString("Buyer requirements:\n")
	if len(facts.Requirements) == 0 {
		sb.WriteString("- none stated\n")
	}
	for key, value := range facts.Requirements {
		fmt.Fprintf(&sb, "- %s: %s\n", key, value)
	}
	sb.WriteString("\nWarehouse features:\n")
	fmt.Fprintf(&sb, "- activity tier: %s\n", facts.ActivityTier)
	fmt.Fprintf(&sb, "- office space: %t\n", facts.HasOfficeSpace)
	fmt.Fprintf(&sb, "- sprinkler system: %t\n", facts.HasSprinkler)
	fmt.Fprintf(&sb, "- dock doors: %d\n", facts.DockDoors)
	fmt.Fprintf(&sb, "- drive-in doors: %d\n", facts.DriveInDoors)
	fmt.Fprintf(&sb, "- parking spaces: %d\n", facts.ParkingSpaces)

	text, err := c.generate(ctx, sb.String())
	if err != nil {
		return 0, err
	}

	score, err := parseScore(text)
	if err != nil {
		c.log.Warn("unparseable feature score from model", "raw", text)
		return 0, err
	}
	return score, nil
}

// Describe drafts a short listing description from the provided facts prompt.
func (c *Client) Describe(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("model returned an empty response")
	}
	return text, nil
}

// parseScore extracts the leading integer from the model's reply and clamps
// it into 0-100.
func parseScore(text string) (int, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty score reply")
	}
	raw := strings.TrimSuffix(fields[0], ".")
	score, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("score is not an integer: %q", text)
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}
