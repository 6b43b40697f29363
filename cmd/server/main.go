package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sammy440/Habit-tracker/config"
	"github.com/sammy440/Habit-tracker/internal/api"
	"github.com/sammy440/Habit-tracker/internal/service"
	"github.com/sammy440/Habit-tracker/internal/storage"
	"github.com/sammy440/Habit-tracker/pkg/db"
	"github.com/sammy440/Habit-tracker/pkg/logger"
	pkgmq "github.com/sammy440/Habit-tracker/pkg/mq"
	pkgredis "github.com/sammy440/Habit-tracker/pkg/redis"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	backend := cfg.Storage.Backend
	if backend == "" {
		backend = "file"
	}

	log.Info("Starting habit tracker...",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_backend", backend),
	)

	// Storage
	var store storage.Store
	var ready func(ctx context.Context) error

	switch backend {
	case "file":
		store = storage.NewFileStore(cfg.Storage.Path, log)
	case "postgres":
		pool, err := db.NewConnection(cfg.DB, log)
		if err != nil {
			log.Fatal("Failed to init DB", zap.Error(err))
		}
		pgStore, err := storage.NewPostgresStore(context.Background(), pool, log)
		if err != nil {
			log.Fatal("Failed to init PostgreSQL store", zap.Error(err))
		}
		store = pgStore
		ready = func(ctx context.Context) error { return pool.Ping(ctx) }
	case "redis":
		rdb, err := pkgredis.NewRedisClient(cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to init Redis", zap.Error(err))
		}
		store = storage.NewRedisStore(rdb, log)
		ready = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	default:
		log.Fatal("Unknown storage backend", zap.String("backend", backend))
	}
	defer store.Close()

	// Event publisher (optional)
	var publisher *pkgmq.Publisher
	if cfg.MQ.URL != "" {
		publisher, err = pkgmq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Warn("RabbitMQ unavailable, events disabled", zap.Error(err))
			publisher = nil
		} else {
			defer publisher.Close()
			log.Info("Event publisher connected")
		}
	}

	// Service
	tracker := service.NewTrackerService(store, backend, publisher, log)

	hydrateCtx, hydrateCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := tracker.Hydrate(hydrateCtx); err != nil {
		hydrateCancel()
		log.Fatal("Failed to load habit collection", zap.Error(err))
	}
	hydrateCancel()

	// HTTP server
	habitHandler := api.NewHabitHandler(tracker)
	authHandler := api.NewAuthHandler(cfg.Auth)
	router := api.NewRouter(habitHandler, authHandler, cfg.Auth, ready, publisher)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("Shutdown complete")
}
