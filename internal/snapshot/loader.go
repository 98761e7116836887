// Package snapshot fetches the historical event set from the upstream
// aggregator API and hands it to the session for seeding.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/internal/notify"
	"github.com/angelmondragon/affilidash-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

const (
	eventsPath        = "/api/affiliate/events"
	notificationsPath = "/api/affiliate/notifications"
)

// Snapshot is one historical pull from the upstream API.
type Snapshot struct {
	Events        []event.Event
	Notifications []notify.Record
}

// Loader pulls snapshots over HTTP with a bearer credential.
type Loader struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logg       *logger.Logger
}

func NewLoader(cfg config.UpstreamConfig, logg *logger.Logger) *Loader {
	return &Loader{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.APIBaseURL,
		token:      cfg.Token,
		logg:       logg,
	}
}

type eventsEnvelope struct {
	Events []event.Event `json:"events"`
}

type notificationsEnvelope struct {
	Notifications []notify.Record `json:"notifications"`
}

// Load fetches the event history and the notification backlog. Transport
// failures degrade to an empty snapshot so the caller can continue with
// zero state. A rejected credential is the one failure that propagates,
// since the whole session has to re-authenticate.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	var events eventsEnvelope
	if err := l.get(ctx, eventsPath, &events); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnauthorized {
			return Snapshot{}, err
		}
		l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "event snapshot unavailable, continuing with zero state")
		return Snapshot{}, nil
	}
	snap.Events = events.Events

	var notifications notificationsEnvelope
	if err := l.get(ctx, notificationsPath, &notifications); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnauthorized {
			return Snapshot{}, err
		}
		// The event history is still usable without the backlog.
		l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "notification backlog unavailable")
		return snap, nil
	}
	snap.Notifications = notifications.Notifications

	return snap, nil
}

func (l *Loader) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+path, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building snapshot request")
	}
	req.Header.Set("Authorization", "Bearer "+l.token)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "snapshot request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "snapshot credentials rejected")
	case resp.StatusCode >= 300:
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("snapshot request returned %d", resp.StatusCode)).
			WithDetails(map[string]any{"path": path, "status": resp.StatusCode})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding snapshot payload")
	}
	return nil
}
