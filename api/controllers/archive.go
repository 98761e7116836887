package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/affilidash-backend/api/responses"
	"github.com/angelmondragon/affilidash-backend/api/validators"
	"github.com/angelmondragon/affilidash-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

// ArchiveReader reads the persisted event history.
type ArchiveReader interface {
	ListRecent(ctx context.Context, limit int) ([]models.EventRecord, error)
	ListByNetwork(ctx context.Context, networkID string, limit int) ([]models.EventRecord, error)
}

// ArchiveEvents returns the most recently folded events, newest first.
func ArchiveEvents(repo ArchiveReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event archive unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := repo.ListRecent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// ArchiveNetworkEvents returns one network's persisted events, newest first.
func ArchiveNetworkEvents(repo ArchiveReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event archive unavailable"))
			return
		}

		networkID := strings.TrimSpace(chi.URLParam(r, "networkId"))
		if networkID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "network id is required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := repo.ListByNetwork(r.Context(), networkID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}
