package aggregate

import (
	"math"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/pkg/enums"
)

// NetworkState is the folded activity for one affiliate network.
type NetworkState struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Revenue        decimal.Decimal `json:"revenue"`
	Pending        decimal.Decimal `json:"pendingPayment"`
	Clicks         int64           `json:"clicks"`
	Commissions    int64           `json:"commissions"`
	Conversions    int64           `json:"conversions"`
	ConversionRate float64         `json:"conversionRate"`
}

// CampaignState is the folded activity for one allow-listed campaign.
type CampaignState struct {
	Name           string          `json:"name"`
	Revenue        decimal.Decimal `json:"revenue"`
	Commissions    int64           `json:"commissions"`
	Conversions    int64           `json:"conversions"`
	Clicks         int64           `json:"clicks"`
	ConversionRate float64         `json:"conversionRate"`
}

// Totals carries the lifetime counters folded across every network.
type Totals struct {
	Revenue     decimal.Decimal `json:"totalRevenue"`
	Commissions int64           `json:"totalCommissions"`
	Clicks      int64           `json:"totalClicks"`
	Conversions int64           `json:"totalConversions"`
	Withdrawals decimal.Decimal `json:"totalWithdrawals"`
}

// State is a deep copy of the folded aggregates handed to readers.
type State struct {
	Networks  []NetworkState  `json:"networks"`
	Campaigns []CampaignState `json:"campaigns"`
	Totals    Totals          `json:"totals"`
}

// Store folds affiliate events into per-network and per-campaign aggregates.
// Folding is commutative: any ordering of the same events lands on the same
// state. Seeding resets and refolds, so a re-seed with identical input is a
// no-op observable-state-wise.
type Store struct {
	mu        sync.RWMutex
	networks  map[string]*NetworkState
	campaigns map[string]*CampaignState
	totals    Totals
	history   []event.Event
}

func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.networks = make(map[string]*NetworkState, len(event.KnownNetworks))
	for _, info := range event.KnownNetworks {
		s.networks[info.ID] = &NetworkState{
			ID:      info.ID,
			Name:    info.Name,
			Revenue: decimal.Zero,
			Pending: decimal.Zero,
		}
	}
	// Campaign aggregates are eager-zeroed so the leaderboard always lists
	// the full allow-list, traffic or not.
	s.campaigns = make(map[string]*CampaignState, len(event.TrackedCampaigns))
	for _, name := range event.TrackedCampaigns {
		s.campaigns[name] = &CampaignState{
			Name:    name,
			Revenue: decimal.Zero,
		}
	}
	s.totals = Totals{Revenue: decimal.Zero, Withdrawals: decimal.Zero}
	s.history = nil
}

// Seed resets all aggregates and folds the backlog. Last write wins: a seed
// discards whatever stream applies landed before it.
func (s *Store) Seed(events []event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	for _, ev := range events {
		s.fold(ev)
	}
}

// Apply folds a single event into the aggregates.
func (s *Store) Apply(ev event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fold(ev)
}

func (s *Store) fold(ev event.Event) {
	// Events arrive with display names ("ShareASale") or slugs; folding always
	// lands on the slug bucket so seeded and streamed traffic share state.
	ev = ev.Normalized()
	state := s.networkFor(ev)
	if state == nil {
		return
	}
	s.history = append(s.history, ev)

	switch ev.Kind {
	case enums.EventKindCommission:
		s.foldEarning(state, ev.Campaign, ev.Amount)
		state.Commissions++
		s.totals.Commissions++
	case enums.EventKindConversion:
		value := ev.MonetaryValue()
		s.foldEarning(state, ev.Campaign, value)
		state.Commissions++
		state.Conversions++
		s.totals.Commissions++
		s.totals.Conversions++
		if camp := s.campaignFor(ev); camp != nil {
			camp.Conversions++
		}
	case enums.EventKindPayout:
		if ev.Status == event.StatusCompleted {
			amount := ev.AbsoluteAmount()
			state.Pending = state.Pending.Sub(amount)
			if state.Pending.IsNegative() {
				state.Pending = decimal.Zero
			}
			s.totals.Withdrawals = s.totals.Withdrawals.Add(amount)
		}
	case enums.EventKindClick:
		state.Clicks += ev.Clicks
		s.totals.Clicks += ev.Clicks
		if event.IsTrackedCampaign(ev.Campaign) {
			camp := s.campaigns[ev.Campaign]
			camp.Clicks += ev.Clicks
			camp.ConversionRate = conversionRate(camp.Commissions, camp.Clicks)
		}
	case enums.EventKindImpression:
		// The clicks counter absorbs impressions; lifetime click totals
		// only count real click events.
		state.Clicks += ev.Impressions
	default:
		// unknown kinds fold as no-ops
	}

	state.ConversionRate = conversionRate(state.Commissions, state.Clicks)
}

func (s *Store) foldEarning(state *NetworkState, campaign string, value decimal.Decimal) {
	state.Revenue = state.Revenue.Add(value)
	state.Pending = state.Pending.Add(value)
	s.totals.Revenue = s.totals.Revenue.Add(value)

	if event.IsTrackedCampaign(campaign) && value.IsPositive() {
		camp := s.campaigns[campaign]
		camp.Revenue = camp.Revenue.Add(value)
		camp.Commissions++
		camp.ConversionRate = conversionRate(camp.Commissions, camp.Clicks)
	}
}

func (s *Store) campaignFor(ev event.Event) *CampaignState {
	if !event.IsTrackedCampaign(ev.Campaign) || !ev.MonetaryValue().IsPositive() {
		return nil
	}
	return s.campaigns[ev.Campaign]
}

// networkFor resolves the aggregate bucket, synthesizing unseen networks with
// the raw display name as received.
func (s *Store) networkFor(ev event.Event) *NetworkState {
	if ev.Network == "" {
		return nil
	}
	if state, ok := s.networks[ev.Network]; ok {
		return state
	}
	name := ev.NetworkName
	if name == "" {
		name = ev.Network
	}
	state := &NetworkState{
		ID:      ev.Network,
		Name:    name,
		Revenue: decimal.Zero,
		Pending: decimal.Zero,
	}
	s.networks[ev.Network] = state
	return state
}

func conversionRate(commissions, clicks int64) float64 {
	if clicks == 0 {
		return 0
	}
	rate := float64(commissions) / float64(clicks) * 100
	return math.Round(rate*100) / 100
}

// Snapshot returns a deep copy of the folded state, networks and campaigns
// sorted by id/name for stable output.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := State{
		Networks:  make([]NetworkState, 0, len(s.networks)),
		Campaigns: make([]CampaignState, 0, len(s.campaigns)),
		Totals:    s.totals,
	}
	for _, state := range s.networks {
		out.Networks = append(out.Networks, *state)
	}
	sort.Slice(out.Networks, func(i, j int) bool { return out.Networks[i].ID < out.Networks[j].ID })

	for _, camp := range s.campaigns {
		out.Campaigns = append(out.Campaigns, *camp)
	}
	sort.Slice(out.Campaigns, func(i, j int) bool { return out.Campaigns[i].Name < out.Campaigns[j].Name })

	return out
}

// Network returns a copy of one network's aggregate and whether it exists.
func (s *Store) Network(id string) (NetworkState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.networks[id]
	if !ok {
		return NetworkState{}, false
	}
	return *state, true
}

// Events returns a copy of the folded event history in fold order.
func (s *Store) Events() []event.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]event.Event, len(s.history))
	copy(out, s.history)
	return out
}
