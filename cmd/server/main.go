package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/campuskit/catalog-system/internal/api"
	"github.com/campuskit/catalog-system/internal/api/handler"
	"github.com/campuskit/catalog-system/internal/api/session"
	"github.com/campuskit/catalog-system/internal/core/service"
	"github.com/campuskit/catalog-system/internal/infrastructure/db/postgres"
	redisdb "github.com/campuskit/catalog-system/internal/infrastructure/db/redis"
	"github.com/campuskit/catalog-system/internal/infrastructure/queue"
	"github.com/campuskit/catalog-system/internal/pkg/config"
	"github.com/campuskit/catalog-system/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("configuration")
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	// The service refuses to start without both stores: sessions cannot be
	// resolved without Redis and nothing works without Postgres.
	pool, err := postgres.Connect(ctx, postgres.Config{
		DSN:     cfg.Postgres.DSN,
		Timeout: cfg.Postgres.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("postgres migrate")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := postgres.NewUserRepository(pool, log)
	itemRepo := postgres.NewItemRepository(pool, log)
	auditRepo := postgres.NewAuditRepository(pool, log)

	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, log)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, dispatcher, log)
	itemService := service.NewItemService(itemRepo, dispatcher, log)

	sessions := session.NewManager(
		redisdb.NewSessionStore(rdb, cfg.SessionTTL),
		cfg.SessionSecret,
		cfg.SessionTTL,
	)

	e := api.NewRouter(api.Handlers{
		Auth:      handler.NewAuthHandler(authService, sessions, cfg.IsProduction(), log),
		Users:     handler.NewUserHandler(userService, log),
		Items:     handler.NewItemHandler(itemService, log),
		Dashboard: handler.NewDashboardHandler(userService, itemService),
		Health:    handler.NewHealthHandler(pool, rdb),
	}, sessions, api.Prometheus{
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	}, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
