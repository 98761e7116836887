package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/affilidash-backend/api/controllers"
	"github.com/angelmondragon/affilidash-backend/api/routes"
	"github.com/angelmondragon/affilidash-backend/internal/aggregate"
	"github.com/angelmondragon/affilidash-backend/internal/archive"
	"github.com/angelmondragon/affilidash-backend/internal/baseline"
	"github.com/angelmondragon/affilidash-backend/internal/fanout"
	"github.com/angelmondragon/affilidash-backend/internal/notify"
	"github.com/angelmondragon/affilidash-backend/internal/session"
	"github.com/angelmondragon/affilidash-backend/internal/snapshot"
	"github.com/angelmondragon/affilidash-backend/internal/stream"
	"github.com/angelmondragon/affilidash-backend/pkg/auth"
	"github.com/angelmondragon/affilidash-backend/pkg/config"
	"github.com/angelmondragon/affilidash-backend/pkg/db"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
	"github.com/angelmondragon/affilidash-backend/pkg/metrics"
	"github.com/angelmondragon/affilidash-backend/pkg/migrate"
	"github.com/angelmondragon/affilidash-backend/pkg/pubsub"
	"github.com/angelmondragon/affilidash-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var archiveRepo *archive.Repo
	if cfg.Archive.Enabled {
		dbClient, err := db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()

		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
		archiveRepo = archive.NewRepo(dbClient.DB())
	}

	var eventsFanout *fanout.Publisher
	if cfg.PubSub.EventsTopic != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		eventsFanout = fanout.New(pubsubClient.EventsPublisher(), logg)
	}

	engineMetrics := metrics.NewEngineMetrics(prometheus.DefaultRegisterer)
	credential := auth.NewCredential(cfg.Upstream.Token)

	svc, err := session.NewService(session.ServiceParams{
		Config:        cfg,
		Logger:        logg,
		Store:         aggregate.NewStore(),
		Inbox:         notify.NewInbox(),
		Loader:        snapshot.NewLoader(cfg.Upstream, logg),
		Baseline:      baseline.NewStore(redisClient, logg),
		Notifications: notify.NewClient(cfg.Upstream, logg),
		Credential:    credential,
		Archive:       archiveRepo,
		Fanout:        eventsFanout,
		Metrics:       engineMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := svc.Refresh(ctx); err != nil {
		logg.Error(ctx, "initial snapshot load failed", err)
		os.Exit(1)
	}

	mux, err := stream.NewMux(stream.Options{
		Upstream: cfg.Upstream,
		Stream:   cfg.Stream,
		Handler:  svc.HandleStreamEvent,
		Logger:   logg,
		Metrics:  engineMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create stream mux", err)
		os.Exit(1)
	}
	defer func() {
		if err := mux.Close(); err != nil {
			logg.Error(context.Background(), "error closing stream channels", err)
		}
	}()

	var archiveReader controllers.ArchiveReader
	if archiveRepo != nil {
		archiveReader = archiveRepo
	}

	rootMux := http.NewServeMux()
	rootMux.Handle("/metrics", promhttp.Handler())
	rootMux.Handle("/", routes.NewRouter(cfg, logg, svc, archiveReader))

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: rootMux,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	engineErr := make(chan error, 1)
	go func() {
		engineErr <- svc.Run(ctx, mux)
	}()

	select {
	case err := <-serverErr:
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	case err := <-engineErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "session engine stopped unexpectedly", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(context.Background(), "error shutting down api server", err)
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
