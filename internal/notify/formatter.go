package notify

import (
	"fmt"
	"net/url"
	"time"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/pkg/enums"
)

// Formatted is a notification ready for the inbox UI: fixed title and
// routing per event kind, display amount, priority and a relative timestamp.
type Formatted struct {
	ID        string                     `json:"id"`
	Type      string                     `json:"type"`
	Title     string                     `json:"title"`
	Message   string                     `json:"message"`
	Amount    string                     `json:"amount,omitempty"`
	Network   string                     `json:"network"`
	Category  enums.NotificationCategory `json:"category"`
	Priority  enums.NotificationPriority `json:"priority"`
	ActionURL string                     `json:"actionUrl"`
	Time      string                     `json:"time"`
	CreatedAt time.Time                  `json:"createdAt"`
	Read      bool                       `json:"read"`
}

const defaultMessage = "An update has been received."

// Format maps a raw record onto the fixed notification table.
func Format(rec Record, now time.Time) Formatted {
	message := rec.Message
	if message == "" {
		message = defaultMessage
	}
	networkName := rec.Network
	if networkName == "" {
		networkName = "Unknown Network"
	}

	out := Formatted{
		ID:        rec.ID,
		Type:      rec.Type,
		Message:   message,
		Network:   networkName,
		Category:  enums.NotificationCategorySystem,
		Priority:  enums.PriorityForType(rec.Type),
		ActionURL: "/dashboard",
		Time:      relativeTime(rec.CreatedAt, now),
		CreatedAt: rec.CreatedAt,
		Read:      rec.Read,
	}

	switch rec.Type {
	case string(enums.EventKindCommission):
		out.Title = "New Commission Earned"
		if rec.Amount != nil {
			out.Amount = fmt.Sprintf("$%.2f", rec.Amount.InexactFloat64())
		}
		out.ActionURL = "/dashboard?network=" + event.NormalizeNetworkID(networkName)
		out.Category = enums.NotificationCategoryEarnings
	case string(enums.EventKindPayout):
		out.Title = "Payment Status Update"
		if rec.Amount != nil {
			out.Amount = fmt.Sprintf("$%.2f", rec.Amount.Abs().InexactFloat64())
		}
		out.ActionURL = "/payments"
		out.Category = enums.NotificationCategoryPayments
	case string(enums.EventKindClick):
		out.Title = "New Clicks on Campaign"
		out.ActionURL = "/analytics?campaign=" + url.QueryEscape(rec.Campaign)
		out.Category = enums.NotificationCategoryPerformance
	case string(enums.EventKindImpression):
		out.Title = "New Impressions Recorded"
		out.ActionURL = "/analytics?campaign=" + url.QueryEscape(rec.Campaign)
		out.Category = enums.NotificationCategoryPerformance
	case string(enums.EventKindConversion):
		out.Title = "New Conversion"
		if rec.CommissionAmount != nil {
			out.Amount = fmt.Sprintf("$%.2f", rec.CommissionAmount.InexactFloat64())
		}
		out.ActionURL = "/dashboard?network=" + event.NormalizeNetworkID(networkName)
		out.Category = enums.NotificationCategoryEarnings
	default:
		out.Title = "System Update"
	}

	return out
}

// relativeTime buckets the record age the way the inbox displays it.
func relativeTime(createdAt, now time.Time) string {
	if createdAt.IsZero() {
		return "just now"
	}
	diff := now.Sub(createdAt)
	minutes := int(diff.Minutes())
	hours := minutes / 60
	days := hours / 24

	switch {
	case minutes > 0 && minutes < 60:
		return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
	case hours > 0 && hours < 24:
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case days > 0:
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	}
	return "just now"
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
