package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/affilidash-backend/api/controllers"
	"github.com/angelmondragon/affilidash-backend/api/middleware"
	"github.com/angelmondragon/affilidash-backend/internal/session"
	"github.com/angelmondragon/affilidash-backend/pkg/config"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

// NewRouter wires the dashboard API. Every data route reads from the one
// session service; the archive routes are optional and disabled when nil.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	svc *session.Service,
	archiveRepo controllers.ArchiveReader,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/healthz/live", controllers.HealthLive(cfg))
	r.Get("/healthz/ready", controllers.HealthReady(cfg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", controllers.Dashboard(svc, logg))
		r.Get("/dashboard/networks/{networkId}", controllers.DashboardNetwork(svc, logg))
		r.Get("/summary", controllers.Summary(svc, logg))
		r.Get("/campaigns/leaderboard", controllers.CampaignLeaderboard(svc, logg))
		r.Get("/wallet", controllers.Wallet(svc, logg))
		r.Get("/forecast", controllers.Forecast(svc, logg))

		r.Get("/notifications", controllers.ListNotifications(svc, logg))
		r.Post("/notifications/mark-read", controllers.MarkNotificationsRead(svc, logg))
		r.Post("/notifications/mark-unread", controllers.MarkNotificationsUnread(svc, logg))
		r.Post("/notifications/delete", controllers.DeleteNotifications(svc, logg))

		r.Post("/session/refresh", controllers.Refresh(svc, logg))
		r.Get("/session/status", controllers.SessionStatus(svc, logg))

		if archiveRepo != nil {
			r.Get("/archive/events", controllers.ArchiveEvents(archiveRepo, logg))
			r.Get("/archive/networks/{networkId}/events", controllers.ArchiveNetworkEvents(archiveRepo, logg))
		}
	})

	return r
}
