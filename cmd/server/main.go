package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"challengehub/internal/cache"
	"challengehub/internal/config"
	"challengehub/internal/database"
	"challengehub/internal/events"
	"challengehub/internal/repositories"
	"challengehub/internal/router"
	"challengehub/internal/services"
)

func main() {
	logger, err := initLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	logger.Info("Starting ChallengeHub")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(&cfg.Database); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	healthCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.Health(healthCtx); err != nil {
		cancel()
		logger.Fatal("Database is not healthy", zap.Error(err))
	}
	cancel()
	logger.Info("Database ready")

	store, err := newCache(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer store.Close()

	bus := events.NewInMemoryEventBus(events.DefaultEventBusConfig(), logger.Named("events"))
	if err := bus.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start event bus", zap.Error(err))
	}

	repos := services.Repositories{
		Users:    repositories.NewUserRepository(db, logger),
		Missions: repositories.NewMissionRepository(db, logger),
		Opinions: repositories.NewOpinionRepository(db, logger),
		Badges:   repositories.NewBadgeRepository(db, logger),
	}
	collection := services.NewCollection(repos, store, bus, cfg, logger)

	handler := router.New(router.Dependencies{
		Services:  collection,
		JWTSecret: cfg.Auth.JWTSecret,
		Logger:    logger,
		Health: func(r *http.Request) error {
			return db.Health(r.Context())
		},
	})

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		logger.Error("Event bus forced to stop", zap.Error(err))
	}
	logger.Info("Shutdown completed")
}

func newCache(cfg *config.Config, logger *zap.Logger) (cache.Cache, error) {
	cacheCfg := cache.DefaultConfig()
	if cfg.Redis.URL != "" {
		cacheCfg.Provider = "redis"
		cacheCfg.RedisURL = cfg.Redis.URL
		cacheCfg.RedisDB = cfg.Redis.DB
		cacheCfg.RedisPassword = cfg.Redis.Password
		cacheCfg.PoolSize = cfg.Redis.PoolSize
	}
	return cache.New(cacheCfg, logger.Named("cache"))
}

// initLogger initializes the structured logger based on environment
func initLogger() (*zap.Logger, error) {
	var zapCfg zap.Config
	switch os.Getenv("GO_ENV") {
	case "production":
		zapCfg = zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "staging":
		zapCfg = zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	default:
		zapCfg = zap.NewDevelopmentConfig()
	}
	return zapCfg.Build()
}
