package sms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"wex_backend/internal/needs/transport"
)

// Inbound need messages follow a loose grammar:
//
//	NEED 5000-10000 sqft storage in Austin, TX for 12 months budget 1.25
//
// Only the location is mandatory. Size, use type, duration, and budget are
// picked up when present.
var (
	sizeRangeRe = regexp.MustCompile(`(?i)\b(\d[\d,]*)\s*(?:-|to)\s*(\d[\d,]*)\s*(?:sq\.?\s?ft|sqft|sf)\b`)
	sizeRe      = regexp.MustCompile(`(?i)\b(\d[\d,]*)\s*(?:sq\.?\s?ft|sqft|sf)\b`)
	locationRe  = regexp.MustCompile(`(?i)\bin\s+([a-z .'-]+?)\s*,?\s+([a-z]{2})(?:\b|$)`)
	durationRe  = regexp.MustCompile(`(?i)\bfor\s+(\d{1,3})\s+months?\b`)
	budgetRe    = regexp.MustCompile(`(?i)\bbudget\s+\$?(\d+(?:\.\d+)?)\b`)
	useTypeRe   = regexp.MustCompile(`(?i)\b(storage|distribution|manufacturing|ecommerce|e-commerce|flex|cold storage)\b`)
)

// parseNeedMessage turns a raw inbound SMS body into a need intake request.
func parseNeedMessage(body string) (transport.CreateNeedRequest, error) {
	var req transport.CreateNeedRequest

	loc := locationRe.FindStringSubmatch(body)
	if loc == nil {
		return req, fmt.Errorf("no city/state found")
	}
	req.City = strings.TrimSpace(loc[1])
	req.State = strings.ToUpper(loc[2])

	if m := sizeRangeRe.FindStringSubmatch(body); m != nil {
		minSqft := parseSqft(m[1])
		maxSqft := parseSqft(m[2])
		req.MinSqft = &minSqft
		req.MaxSqft = &maxSqft
	} else if m := sizeRe.FindStringSubmatch(body); m != nil {
		minSqft := parseSqft(m[1])
		req.MinSqft = &minSqft
	}

	if m := useTypeRe.FindStringSubmatch(body); m != nil {
		req.UseType = strings.ToLower(strings.ReplaceAll(m[1], "-", ""))
	} else {
		req.UseType = "storage"
	}

	if m := durationRe.FindStringSubmatch(body); m != nil {
		months, _ := strconv.Atoi(m[1])
		req.DurationMonths = months
	}

	if m := budgetRe.FindStringSubmatch(body); m != nil {
		budget, _ := strconv.ParseFloat(m[1], 64)
		req.MaxBudgetPerSqft = &budget
	}

	return req, nil
}

func parseSqft(raw string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	return v
}
