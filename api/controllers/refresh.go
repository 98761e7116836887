package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/affilidash-backend/api/responses"
	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

// RefreshService reseeds every aggregate from a fresh snapshot.
type RefreshService interface {
	Refresh(ctx context.Context) error
	NeedsReauth() bool
}

// Refresh pulls a fresh snapshot and rebuilds the aggregates from it.
func Refresh(svc RefreshService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		if err := svc.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"refreshed": true})
	}
}

// SessionStatus reports whether the shared credential still works.
func SessionStatus(svc RefreshService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"needsReauth": svc.NeedsReauth()})
	}
}
