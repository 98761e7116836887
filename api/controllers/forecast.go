package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/affilidash-backend/api/responses"
	"github.com/angelmondragon/affilidash-backend/internal/insights"
	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

// ForecastService projects revenue from the folded history.
type ForecastService interface {
	Forecast(now time.Time) insights.Forecast
}

// Forecast returns the six-month revenue projection and its scenarios.
func Forecast(svc ForecastService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "forecast service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Forecast(time.Now().UTC()))
	}
}
