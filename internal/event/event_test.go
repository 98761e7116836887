package event

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/affilidash-backend/pkg/enums"
)

func TestNormalizeNetworkID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Amazon Associates", "amazon-associates"},
		{"shareasale", "shareasale"},
		{"  CJ Affiliate  ", "cj-affiliate"},
		{"Rakuten  Advertising", "rakuten-advertising"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeNetworkID(tt.raw); got != tt.want {
			t.Fatalf("NormalizeNetworkID(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizedPreservesDisplayName(t *testing.T) {
	ev := Event{Network: "Impact Radius"}
	got := ev.Normalized()
	if got.Network != "impact-radius" {
		t.Fatalf("unexpected slug %q", got.Network)
	}
	if got.NetworkName != "Impact Radius" {
		t.Fatalf("display name should keep the raw string, got %q", got.NetworkName)
	}
}

func TestMonetaryValuePrefersCommissionAmount(t *testing.T) {
	commission := decimal.NewFromFloat(12.5)
	ev := Event{
		Kind:             enums.EventKindConversion,
		Amount:           decimal.NewFromInt(200),
		CommissionAmount: &commission,
	}
	if !ev.MonetaryValue().Equal(commission) {
		t.Fatalf("expected commission amount, got %s", ev.MonetaryValue())
	}

	ev.CommissionAmount = nil
	if !ev.MonetaryValue().Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected base amount fallback, got %s", ev.MonetaryValue())
	}
}

func TestValidateRejectsMissingNetwork(t *testing.T) {
	ev := Event{ID: "evt-1", Kind: enums.EventKindClick}
	if err := ev.Validate(); err == nil {
		t.Fatal("expected validation error for empty network")
	}

	ev.Network = "shareasale"
	if err := ev.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEventDecodesWireFormat(t *testing.T) {
	raw := []byte(`{
		"id": "evt-42",
		"type": "commission",
		"network": "ShareASale",
		"campaign": "Prime Deals",
		"status": "Pending",
		"amount": 45.75,
		"commissionAmount": 45.75,
		"timestamp": "2026-08-30T12:00:00Z"
	}`)

	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if ev.Kind != enums.EventKindCommission {
		t.Fatalf("unexpected kind %q", ev.Kind)
	}
	if !ev.Amount.Equal(decimal.NewFromFloat(45.75)) {
		t.Fatalf("unexpected amount %s", ev.Amount)
	}
	if ev.CommissionAmount == nil {
		t.Fatal("commissionAmount should decode")
	}
}

func TestTrackedCampaigns(t *testing.T) {
	for _, campaign := range TrackedCampaigns {
		if !IsTrackedCampaign(campaign) {
			t.Fatalf("campaign %q should be tracked", campaign)
		}
	}
	if IsTrackedCampaign("Untracked Experiment") {
		t.Fatal("unexpected campaign accepted")
	}
}
