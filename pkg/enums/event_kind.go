package enums

import "fmt"

// EventKind identifies the affiliate event types emitted by the networks.
type EventKind string

const (
	EventKindImpression EventKind = "impression"
	EventKindClick      EventKind = "click"
	EventKindConversion EventKind = "conversion"
	EventKindCommission EventKind = "commission"
	EventKindPayout     EventKind = "payout"
)

var validEventKinds = []EventKind{
	EventKindImpression,
	EventKindClick,
	EventKindConversion,
	EventKindCommission,
	EventKindPayout,
}

// IsValid checks whether the given kind matches the canonical enum.
func (e EventKind) IsValid() bool {
	for _, candidate := range validEventKinds {
		if candidate == e {
			return true
		}
	}
	return false
}

// IsMonetary reports whether the kind carries earnings for the wallet ledger.
func (e EventKind) IsMonetary() bool {
	return e == EventKindCommission || e == EventKindConversion
}

// ParseEventKind converts raw strings into EventKind.
func ParseEventKind(value string) (EventKind, error) {
	for _, candidate := range validEventKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event kind %q", value)
}
