package notify

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a raw notification as delivered by the upstream API and the
// stream channels.
type Record struct {
	ID               string           `json:"_id"`
	UserID           string           `json:"user_id,omitempty"`
	Type             string           `json:"type"`
	Message          string           `json:"message"`
	Network          string           `json:"network,omitempty"`
	Campaign         string           `json:"campaign,omitempty"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	CommissionAmount *decimal.Decimal `json:"commissionAmount,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	Read             bool             `json:"read"`
}
