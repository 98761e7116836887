// Package baseline persists campaign revenue snapshots so growth
// percentages survive process restarts.
package baseline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
	"github.com/angelmondragon/affilidash-backend/pkg/redis"
)

const campaignScope = "campaigns"

// CampaignBaseline is the persisted comparison point for one campaign.
type CampaignBaseline struct {
	Revenue     decimal.Decimal `json:"revenue"`
	Commissions int64           `json:"commissions"`
}

// kvStore narrows the redis client to what the store needs.
type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	BaselineKey(scope string) string
}

// Store reads and writes campaign revenue baselines.
type Store struct {
	kv   kvStore
	logg *logger.Logger
}

func NewStore(kv kvStore, logg *logger.Logger) *Store {
	return &Store{kv: kv, logg: logg}
}

// Save overwrites the persisted campaign baseline with the given snapshot.
// Missing campaigns are written as zero so every tracked campaign always
// has a comparison point.
func (s *Store) Save(ctx context.Context, campaigns map[string]CampaignBaseline) error {
	if s.kv == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "baseline store not initialized")
	}

	snapshot := zeroBaseline()
	for name, entry := range campaigns {
		snapshot[name] = entry
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding campaign baseline")
	}
	if err := s.kv.Set(ctx, s.kv.BaselineKey(campaignScope), string(payload), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting campaign baseline")
	}
	return nil
}

// Load returns the persisted campaign baseline. A missing key yields an
// all-zero baseline rather than an error.
func (s *Store) Load(ctx context.Context) (map[string]CampaignBaseline, error) {
	if s.kv == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "baseline store not initialized")
	}

	raw, err := s.kv.Get(ctx, s.kv.BaselineKey(campaignScope))
	if err != nil {
		if redis.IsNotFound(err) {
			return zeroBaseline(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading campaign baseline")
	}

	baseline := make(map[string]CampaignBaseline)
	if err := json.Unmarshal([]byte(raw), &baseline); err != nil {
		// A corrupt baseline is not worth failing a boot over.
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "discarding unreadable campaign baseline")
		return zeroBaseline(), nil
	}
	for _, name := range event.TrackedCampaigns {
		if _, ok := baseline[name]; !ok {
			baseline[name] = CampaignBaseline{Revenue: decimal.Zero}
		}
	}
	return baseline, nil
}

// Revenues projects the baseline down to the revenue figures used by
// growth calculations.
func Revenues(baseline map[string]CampaignBaseline) map[string]decimal.Decimal {
	revenues := make(map[string]decimal.Decimal, len(baseline))
	for name, entry := range baseline {
		revenues[name] = entry.Revenue
	}
	return revenues
}

func zeroBaseline() map[string]CampaignBaseline {
	baseline := make(map[string]CampaignBaseline, len(event.TrackedCampaigns))
	for _, name := range event.TrackedCampaigns {
		baseline[name] = CampaignBaseline{Revenue: decimal.Zero}
	}
	return baseline
}
