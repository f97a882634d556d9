package sms

import (
	"strings"
	"testing"
)

func TestParseNeedMessageFull(t *testing.T) {
	req, err := parseNeedMessage("NEED 5,000-10,000 sqft storage in Austin, TX for 12 months budget 1.25")
	if err != nil {
		t.Fatalf("parseNeedMessage: %v", err)
	}

	if req.City != "Austin" || req.State != "TX" {
		t.Errorf("location = %q, %q; want Austin, TX", req.City, req.State)
	}
	if req.MinSqft == nil || *req.MinSqft != 5000 {
		t.Errorf("MinSqft = %v, want 5000", req.MinSqft)
	}
	if req.MaxSqft == nil || *req.MaxSqft != 10000 {
		t.Errorf("MaxSqft = %v, want 10000", req.MaxSqft)
	}
	if req.UseType != "storage" {
		t.Errorf("UseType = %q, want storage", req.UseType)
	}
	if req.DurationMonths != 12 {
		t.Errorf("DurationMonths = %d, want 12", req.DurationMonths)
	}
	if req.MaxBudgetPerSqft == nil || *req.MaxBudgetPerSqft != 1.25 {
		t.Errorf("MaxBudgetPerSqft = %v, want 1.25", req.MaxBudgetPerSqft)
	}
}

func TestParseNeedMessageVariants(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		city    string
		state   string
		useType string
		wantErr bool
	}{
		{
			name:    "minimal location only",
			body:    "looking for space in Memphis TN",
			city:    "Memphis",
			state:   "TN",
			useType: "storage",
		},
		{
			name:    "single size with use type",
			body:    "need 8000 sf distribution in Fort Worth, TX",
			city:    "Fort Worth",
			state:   "TX",
			useType: "distribution",
		},
		{
			name:    "ecommerce hyphen normalized",
			body:    "2000 sqft e-commerce in Reno, NV",
			city:    "Reno",
			state:   "NV",
			useType: "ecommerce",
		},
		{
			name:    "no location",
			body:    "need 5000 sqft asap",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := parseNeedMessage(tt.body)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseNeedMessage: %v", err)
			}
			if req.City != tt.city || req.State != tt.state {
				t.Errorf("location = %q, %q; want %q, %q", req.City, req.State, tt.city, tt.state)
			}
			if req.UseType != tt.useType {
				t.Errorf("UseType = %q, want %q", req.UseType, tt.useType)
			}
		})
	}
}

func TestRenderTemplatePlaceholders(t *testing.T) {
	templates, err := LoadTemplates("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}

	out, err := templates.Render("need_received", map[string]string{"city": "Austin"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "Austin") {
		t.Errorf("rendered template missing city: %q", out)
	}

	if _, err := templates.Render("no_such_template", nil); err == nil {
		t.Error("unknown template should error")
	}
}
