package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/pkg/enums"
)

// Wallet is the payments ledger derived from the full event history.
type Wallet struct {
	AvailableBalance decimal.Decimal  `json:"availableBalance"`
	PendingBalance   decimal.Decimal  `json:"pendingBalance"`
	TotalEarnings    decimal.Decimal  `json:"totalEarnings"`
	TotalWithdrawals decimal.Decimal  `json:"totalWithdrawals"`
	Networks         []NetworkBalance `json:"networks"`
}

// NetworkBalance is the per-network slice of the ledger, limited to the
// first-party integrations that actually saw traffic.
type NetworkBalance struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
	Pending decimal.Decimal `json:"pending"`
}

// ComputeWallet walks the history and buckets earnings into available vs
// pending, globally and per network. A conversion only settles once its
// status reads Completed; completed payouts withdraw their absolute amount
// from the issuing network. Payouts in any other status are ignored until
// they settle. Balances never go below zero.
func ComputeWallet(events []event.Event) Wallet {
	available := decimal.Zero
	pending := decimal.Zero
	earnings := decimal.Zero
	withdrawals := decimal.Zero
	buckets := make(map[string]*NetworkBalance)

	bucket := func(id string) *NetworkBalance {
		if id == "" {
			return nil
		}
		if nb, ok := buckets[id]; ok {
			return nb
		}
		nb := &NetworkBalance{ID: id, Balance: decimal.Zero, Pending: decimal.Zero}
		buckets[id] = nb
		return nb
	}

	for _, raw := range events {
		ev := raw.Normalized()
		if ev.Kind == enums.EventKindPayout {
			if ev.Status != event.StatusCompleted {
				continue
			}
			amount := ev.AbsoluteAmount()
			withdrawals = withdrawals.Add(amount)
			if nb := bucket(ev.Network); nb != nil {
				nb.Balance = nb.Balance.Sub(amount)
				if nb.Balance.IsNegative() {
					nb.Balance = decimal.Zero
				}
			}
			continue
		}
		if !ev.Kind.IsMonetary() {
			continue
		}

		earned := ev.MonetaryValue()
		earnings = earnings.Add(earned)

		nb := bucket(ev.Network)
		if isPendingEarning(ev) {
			pending = pending.Add(earned)
			if nb != nil {
				nb.Pending = nb.Pending.Add(earned)
			}
		} else {
			available = available.Add(earned)
			if nb != nil {
				nb.Balance = nb.Balance.Add(earned)
			}
		}
	}

	available = available.Sub(withdrawals)
	if available.IsNegative() {
		available = decimal.Zero
	}

	return Wallet{
		AvailableBalance: available,
		PendingBalance:   pending,
		TotalEarnings:    earnings,
		TotalWithdrawals: withdrawals,
		Networks:         networkBreakdown(buckets),
	}
}

// networkBreakdown keeps only the known integrations that appeared in the
// history, named from the catalog and sorted by id for stable output.
func networkBreakdown(buckets map[string]*NetworkBalance) []NetworkBalance {
	out := make([]NetworkBalance, 0, len(buckets))
	for _, info := range event.KnownNetworks {
		if nb, ok := buckets[info.ID]; ok {
			nb.Name = info.Name
			out = append(out, *nb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func isPendingEarning(ev event.Event) bool {
	if ev.Status == event.StatusPending {
		return true
	}
	return ev.Kind == enums.EventKindConversion && ev.Status != event.StatusCompleted
}
