package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/affilidash-backend/api/responses"
	"github.com/angelmondragon/affilidash-backend/internal/insights"
	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

// WalletService derives the balance ledger and the payout schedule.
type WalletService interface {
	Wallet() insights.Wallet
	NextPayout(now time.Time) *time.Time
}

type walletPayload struct {
	insights.Wallet
	NextPayoutDate *time.Time `json:"nextPayoutDate"`
}

// Wallet returns the derived balances plus the next scheduled payout date,
// null when automatic payouts are disabled.
func Wallet(svc WalletService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}

		responses.WriteSuccess(w, walletPayload{
			Wallet:         svc.Wallet(),
			NextPayoutDate: svc.NextPayout(time.Now().UTC()),
		})
	}
}
