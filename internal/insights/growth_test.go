package insights

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestGrowthPercent(t *testing.T) {
	got := Growth(decimal.NewFromInt(150), decimal.NewFromInt(100))
	if got == nil || *got != 50 {
		t.Fatalf("expected 50%% growth, got %v", got)
	}

	got = Growth(decimal.NewFromInt(75), decimal.NewFromInt(100))
	if got == nil || *got != -25 {
		t.Fatalf("expected -25%% growth, got %v", got)
	}
}

func TestGrowthNewRevenueHasNoBaseline(t *testing.T) {
	if got := Growth(decimal.NewFromInt(10), decimal.Zero); got != nil {
		t.Fatalf("expected nil (N/A) growth, got %v", *got)
	}
}

func TestGrowthBothZeroIsFlat(t *testing.T) {
	got := Growth(decimal.Zero, decimal.Zero)
	if got == nil || *got != 0 {
		t.Fatalf("expected flat zero growth, got %v", got)
	}
}

func TestGrowthRounding(t *testing.T) {
	got := Growth(decimal.NewFromInt(1), decimal.NewFromInt(3))
	if got == nil || *got != -66.67 {
		t.Fatalf("expected -66.67, got %v", got)
	}
}
