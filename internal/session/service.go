// Package session owns one dashboard session: it seeds the aggregation
// store from a snapshot, folds stream events as they arrive, and exposes
// the derived views the API serves.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/affilidash-backend/internal/aggregate"
	"github.com/angelmondragon/affilidash-backend/internal/baseline"
	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/internal/insights"
	"github.com/angelmondragon/affilidash-backend/internal/notify"
	"github.com/angelmondragon/affilidash-backend/internal/snapshot"
	"github.com/angelmondragon/affilidash-backend/pkg/auth"
	"github.com/angelmondragon/affilidash-backend/pkg/config"
	"github.com/angelmondragon/affilidash-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
	"github.com/angelmondragon/affilidash-backend/pkg/metrics"
)

// SnapshotLoader pulls the historical event set.
type SnapshotLoader interface {
	Load(ctx context.Context) (snapshot.Snapshot, error)
}

// BaselineStore persists campaign comparison points across restarts.
type BaselineStore interface {
	Save(ctx context.Context, campaigns map[string]baseline.CampaignBaseline) error
	Load(ctx context.Context) (map[string]baseline.CampaignBaseline, error)
}

// NotificationManager mutates notification state on the upstream API.
type NotificationManager interface {
	MarkRead(ctx context.Context, ids []string) error
	MarkUnread(ctx context.Context, ids []string) error
	Delete(ctx context.Context, ids []string) error
}

// Archiver persists folded events. Optional.
type Archiver interface {
	Insert(ctx context.Context, ev event.Event) error
}

// EventPublisher fans folded events out to downstream consumers. Optional.
type EventPublisher interface {
	Enabled() bool
	Publish(ctx context.Context, ev event.Event) error
}

// Streamer is the push-channel multiplexer the session drives.
type Streamer interface {
	Start(ctx context.Context)
	AuthFailure() <-chan struct{}
	Close() error
}

type ServiceParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	Store         *aggregate.Store
	Inbox         *notify.Inbox
	Loader        SnapshotLoader
	Baseline      BaselineStore
	Notifications NotificationManager
	Credential    *auth.Credential
	Archive       Archiver
	Fanout        EventPublisher
	Metrics       *metrics.EngineMetrics
}

type Service struct {
	cfg           *config.Config
	logg          *logger.Logger
	store         *aggregate.Store
	inbox         *notify.Inbox
	loader        SnapshotLoader
	baseline      BaselineStore
	notifications NotificationManager
	credential    *auth.Credential
	archive       Archiver
	fanout        EventPublisher
	mtr           *metrics.EngineMetrics
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Store == nil {
		return nil, errors.New("aggregation store is required")
	}
	if params.Inbox == nil {
		return nil, errors.New("notification inbox is required")
	}
	if params.Loader == nil {
		return nil, errors.New("snapshot loader is required")
	}
	if params.Baseline == nil {
		return nil, errors.New("baseline store is required")
	}
	if params.Notifications == nil {
		return nil, errors.New("notification manager is required")
	}
	if params.Credential == nil {
		return nil, errors.New("credential is required")
	}

	return &Service{
		cfg:           params.Config,
		logg:          params.Logger,
		store:         params.Store,
		inbox:         params.Inbox,
		loader:        params.Loader,
		baseline:      params.Baseline,
		notifications: params.Notifications,
		credential:    params.Credential,
		archive:       params.Archive,
		fanout:        params.Fanout,
		mtr:           params.Metrics,
	}, nil
}

// Refresh pulls a fresh snapshot and reseeds every aggregate from it. A slow
// refresh that lands after newer stream events wins wholesale; interleaved
// folding keeps the outcome consistent either way. The campaign baseline is
// written exactly once per load, including the degraded empty-snapshot path,
// so growth math always has a defined comparison point.
func (s *Service) Refresh(ctx context.Context) error {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		s.mtr.IncSnapshotLoad("unauthorized")
		s.credential.Invalidate()
		return err
	}

	s.store.Seed(snap.Events)
	s.inbox.Seed(snap.Notifications)

	if len(snap.Events) == 0 {
		s.mtr.IncSnapshotLoad("empty")
	} else {
		s.mtr.IncSnapshotLoad("success")
	}

	if err := s.saveBaseline(ctx); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "campaign baseline write failed")
	}
	return nil
}

func (s *Service) saveBaseline(ctx context.Context) error {
	state := s.store.Snapshot()
	snapshot := make(map[string]baseline.CampaignBaseline, len(state.Campaigns))
	for _, campaign := range state.Campaigns {
		snapshot[campaign.Name] = baseline.CampaignBaseline{
			Revenue:     campaign.Revenue,
			Commissions: campaign.Commissions,
		}
	}
	return s.baseline.Save(ctx, snapshot)
}

// HandleStreamEvent folds one pushed event and runs the side effects:
// archive, fan-out, and the notification inbox.
func (s *Service) HandleStreamEvent(ctx context.Context, ev event.Event, rec *notify.Record) {
	logCtx := s.logg.WithEventID(s.logg.WithNetwork(ctx, ev.Network), ev.ID)

	if err := ev.Validate(); err != nil {
		s.mtr.IncRejected("missing_network")
		s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "dropping unroutable event")
		return
	}

	start := time.Now()
	s.store.Apply(ev)
	s.mtr.ObserveApply(string(ev.Kind), time.Since(start))
	s.mtr.IncApplied(string(ev.Kind), event.NormalizeNetworkID(ev.Network))

	if s.archive != nil {
		if err := s.archive.Insert(ctx, ev); err != nil {
			s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "event archive write failed")
		}
	}
	if s.fanout != nil && s.fanout.Enabled() {
		if err := s.fanout.Publish(ctx, ev); err != nil {
			s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "event fan-out failed")
		}
	}
	if rec != nil {
		s.inbox.Add(*rec)
	}
}

// Run blocks until the context ends or the shared credential is rejected.
// A rejected credential is the one failure that surfaces to the caller;
// everything else degrades in place.
func (s *Service) Run(ctx context.Context, stream Streamer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if stream == nil {
		return errors.New("streamer is required")
	}

	stream.Start(ctx)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "session context canceled")
			return ctx.Err()
		case <-stream.AuthFailure():
			s.credential.Invalidate()
			s.logg.Warn(ctx, "stream credentials rejected, session needs re-authentication")
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "session credentials rejected")
		case <-ticker.C:
			// s.logg.Info(ctx, "session.heartbeat")
		}
	}
}

// Dashboard returns the current aggregate state.
func (s *Service) Dashboard() aggregate.State {
	return s.store.Snapshot()
}

// Network returns one network's aggregate, false when unknown.
func (s *Service) Network(id string) (aggregate.NetworkState, bool) {
	return s.store.Network(id)
}

// Summary computes the windowed metrics for one time range.
func (s *Service) Summary(rng enums.TimeRange, now time.Time) insights.Summary {
	state := s.store.Snapshot()
	return insights.Summarize(s.store.Events(), state.Totals, rng, now)
}

// Leaderboard ranks campaigns against the persisted baseline.
func (s *Service) Leaderboard(ctx context.Context) ([]insights.CampaignRank, error) {
	stored, err := s.baseline.Load(ctx)
	if err != nil {
		return nil, err
	}
	state := s.store.Snapshot()
	return insights.Leaderboard(state.Campaigns, baseline.Revenues(stored)), nil
}

// Wallet derives the balance ledger from the full event history.
func (s *Service) Wallet() insights.Wallet {
	return insights.ComputeWallet(s.store.Events())
}

// NextPayout returns the next scheduled withdrawal date, nil when disabled.
func (s *Service) NextPayout(now time.Time) *time.Time {
	return insights.NextPayoutDate(s.cfg.Payout.AutoPayoutEnabled, s.cfg.Payout.PayoutDayOfMonth, now)
}

// Forecast projects revenue from the folded history.
func (s *Service) Forecast(now time.Time) insights.Forecast {
	state := s.store.Snapshot()
	return insights.ComputeForecast(s.store.Events(), state.Campaigns, now)
}

// Notifications returns the inbox in display form, newest first.
func (s *Service) Notifications(now time.Time) []notify.Formatted {
	records := s.inbox.List()
	formatted := make([]notify.Formatted, 0, len(records))
	for _, rec := range records {
		formatted = append(formatted, notify.Format(rec, now))
	}
	return formatted
}

// SetNotificationsRead flips the read flag upstream first, then locally.
func (s *Service) SetNotificationsRead(ctx context.Context, ids []string, read bool) error {
	var err error
	if read {
		err = s.notifications.MarkRead(ctx, ids)
	} else {
		err = s.notifications.MarkUnread(ctx, ids)
	}
	if err != nil {
		return s.checkAuth(err)
	}
	s.inbox.MarkRead(ids, read)
	return nil
}

// DeleteNotifications removes notifications upstream first, then locally.
func (s *Service) DeleteNotifications(ctx context.Context, ids []string) error {
	if err := s.notifications.Delete(ctx, ids); err != nil {
		return s.checkAuth(err)
	}
	s.inbox.Remove(ids)
	return nil
}

// NeedsReauth reports whether the shared credential has been invalidated.
func (s *Service) NeedsReauth() bool {
	return s.credential.Invalidated()
}

func (s *Service) checkAuth(err error) error {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnauthorized {
		s.credential.Invalidate()
	}
	return err
}
