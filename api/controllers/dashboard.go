package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/affilidash-backend/api/responses"
	"github.com/angelmondragon/affilidash-backend/internal/aggregate"
	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

// DashboardService exposes the live aggregate state.
type DashboardService interface {
	Dashboard() aggregate.State
	Network(id string) (aggregate.NetworkState, bool)
}

// Dashboard returns the full aggregate: every network, tracked campaigns,
// and the cross-network totals.
func Dashboard(svc DashboardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Dashboard())
	}
}

// DashboardNetwork returns a single network's aggregate by its slug.
func DashboardNetwork(svc DashboardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		networkID := strings.TrimSpace(chi.URLParam(r, "networkId"))
		if networkID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "network id is required"))
			return
		}

		network, ok := svc.Network(networkID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "network not connected"))
			return
		}
		responses.WriteSuccess(w, network)
	}
}
