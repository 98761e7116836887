package event

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/enums"
)

// Event is one affiliate activity record as emitted by a network channel or
// returned by the snapshot backlog. Amounts stay decimal end to end; payout
// amounts may arrive negative and are normalized at the ledger boundary.
type Event struct {
	ID               string           `json:"id"`
	Kind             enums.EventKind  `json:"type"`
	Network          string           `json:"network"`
	NetworkName      string           `json:"network_name,omitempty"`
	Campaign         string           `json:"campaign,omitempty"`
	Product          string           `json:"product,omitempty"`
	Status           string           `json:"status,omitempty"`
	Amount           decimal.Decimal  `json:"amount"`
	CommissionAmount *decimal.Decimal `json:"commissionAmount,omitempty"`
	Clicks           int64            `json:"clicks,omitempty"`
	Impressions      int64            `json:"impressions,omitempty"`
	Conversions      int64            `json:"conversions,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
}

const StatusCompleted = "Completed"
const StatusPending = "Pending"

// MonetaryValue returns the commission amount when present, the base amount
// otherwise. Conversion events report their earnings via commissionAmount.
func (e Event) MonetaryValue() decimal.Decimal {
	if e.CommissionAmount != nil {
		return *e.CommissionAmount
	}
	return e.Amount
}

// AbsoluteAmount normalizes upstream payout amounts, which arrive negative.
func (e Event) AbsoluteAmount() decimal.Decimal {
	return e.Amount.Abs()
}

// Validate rejects events that cannot be folded. An event without a network
// is unroutable and gets dropped before it reaches the store.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Network) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "event is missing a network").
			WithDetails(map[string]any{"event_id": e.ID, "kind": string(e.Kind)})
	}
	return nil
}

// NormalizeNetworkID turns a display name into its slug form:
// "Amazon Associates" becomes "amazon-associates". Values that already look
// like slugs pass through unchanged.
func NormalizeNetworkID(raw string) string {
	slug := strings.ToLower(strings.TrimSpace(raw))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}

// Normalized returns a copy of the event with its network id in slug form and
// the display name preserved for synthesis of unknown networks.
func (e Event) Normalized() Event {
	out := e
	raw := strings.TrimSpace(e.Network)
	out.Network = NormalizeNetworkID(raw)
	if out.NetworkName == "" {
		out.NetworkName = raw
	}
	return out
}
