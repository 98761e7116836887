package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/affilidash-backend/api/responses"
	"github.com/angelmondragon/affilidash-backend/internal/insights"
	"github.com/angelmondragon/affilidash-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

// SummaryService computes windowed earnings metrics.
type SummaryService interface {
	Summary(rng enums.TimeRange, now time.Time) insights.Summary
}

// Summary returns the windowed earnings view. The range defaults to 30d
// and must be one of the canonical reporting windows.
func Summary(svc SummaryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "summary service unavailable"))
			return
		}

		rng := enums.TimeRange30D
		if raw := strings.TrimSpace(r.URL.Query().Get("range")); raw != "" {
			parsed, err := enums.ParseTimeRange(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid time range").WithDetails(map[string]any{"field": "range"}))
				return
			}
			rng = parsed
		}

		responses.WriteSuccess(w, svc.Summary(rng, time.Now().UTC()))
	}
}
