package adapters

import (
	"context"
	"fmt"
	"strings"

	"wex_backend/internal/agent"
	warehousessvc "wex_backend/internal/warehouses/service"
)

// ListingDescriberAdapter turns warehouse facts into a generation prompt for
// the model client. It implements the warehouses service's Describer interface.
type ListingDescriberAdapter struct {
	agent *agent.Client
}

func NewListingDescriberAdapter(client *agent.Client) *ListingDescriberAdapter {
	return &ListingDescriberAdapter{agent: client}
}

func (a *ListingDescriberAdapter) DescribeListing(ctx context.Context, facts warehousessvc.ListingFacts) (string, error) {
	var sb strings.Builder
	sb.WriteString("Write a short, factual marketplace listing description for a warehouse space. ")
	sb.WriteString("Two to three sentences, no superlatives, no contact details.\n\n")
	fmt.Fprintf(&sb, "Location: %s, %s\n", facts.City, facts.State)
	if facts.Name != "" {
		fmt.Fprintf(&sb, "Name: %s\n", facts.Name)
	}
	if facts.TotalSqft != nil {
		fmt.Fprintf(&sb, "Total size: %.0f sqft\n", *facts.TotalSqft)
	}
	if facts.ActivityTier != "" {
		fmt.Fprintf(&sb, "Permitted activity tier: %s\n", facts.ActivityTier)
	}
	fmt.Fprintf(&sb, "Office space: %t\n", facts.HasOfficeSpace)
	fmt.Fprintf(&sb, "Sprinkler system: %t\n", facts.HasSprinkler)
	fmt.Fprintf(&sb, "Dock doors: %d, drive-in doors: %d, parking spaces: %d\n",
		facts.DockDoors, facts.DriveInDoors, facts.ParkingSpaces)

	return a.agent.Describe(ctx, sb.String())
}
