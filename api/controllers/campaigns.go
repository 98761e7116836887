package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/affilidash-backend/api/responses"
	"github.com/angelmondragon/affilidash-backend/internal/insights"
	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

// LeaderboardService ranks tracked campaigns against their stored baseline.
type LeaderboardService interface {
	Leaderboard(ctx context.Context) ([]insights.CampaignRank, error)
}

// CampaignLeaderboard returns the tracked campaigns ranked by revenue,
// with growth computed against the persisted comparison point.
func CampaignLeaderboard(svc LeaderboardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "leaderboard service unavailable"))
			return
		}

		ranks, err := svc.Leaderboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ranks)
	}
}
