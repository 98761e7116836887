package stream

import (
	"strings"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/internal/notify"
)

// inbound is the wire shape pushed by a network channel: an event/notification
// pair on the happy path, or a bare error report.
type inbound struct {
	Event        *event.Event   `json:"event"`
	Notification *notify.Record `json:"notification"`
	Error        string         `json:"error"`
}

// merge folds the pair into one canonical event. The notification's id and
// created_at win over the event's own fields when present, since the upstream
// stamps the notification at emit time.
func (in inbound) merge() (event.Event, *notify.Record, bool) {
	if in.Event == nil {
		return event.Event{}, nil, false
	}
	ev := *in.Event
	if rec := in.Notification; rec != nil {
		if rec.ID != "" {
			ev.ID = rec.ID
		}
		if !rec.CreatedAt.IsZero() {
			ev.Timestamp = rec.CreatedAt
		}
	}
	return ev, in.Notification, true
}

// isAuthError matches the upstream's token rejection messages. Credentials
// are shared across channels, so one rejection invalidates the whole session.
func isAuthError(msg string) bool {
	return strings.Contains(msg, "Invalid token") || strings.Contains(msg, "No token")
}
