package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/assessment-paper-service/internal/config"
	"github.com/SAP-F-2025/assessment-paper-service/internal/events"
	"github.com/SAP-F-2025/assessment-paper-service/internal/monitoring"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/assessment-paper-service/internal/services"
	"github.com/SAP-F-2025/assessment-paper-service/internal/storage"
	"github.com/SAP-F-2025/assessment-paper-service/internal/utils"
	"github.com/SAP-F-2025/assessment-paper-service/pkg"
)

// app holds everything a command needs; close releases it in reverse order.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *gorm.DB
	redis    *redis.Client
	repos    repositories.RepositoryManager
	services services.ServiceManager
	metrics  *monitoring.Metrics
}

func loadConfig(envFile, port string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfigFrom(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if port != "" {
		cfg.Port = port
	}
	logger := utils.NewJSONLogger(cfg.LogLevel, cfg.LogFile)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, metrics: monitoring.NewMetrics()}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	a.db = db

	if cfg.RedisURL != "" {
		client, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, caching disabled", "error", err)
		} else {
			a.redis = client
		}
	}

	a.repos = postgres.NewRepositoryManager(postgres.RepositoryConfig{DB: db, RedisClient: a.redis})
	if err := a.repos.Initialize(); err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	publisher, err := events.NewWatermillPublisher(cfg.Events.KafkaBrokers, cfg.Events.TopicPrefix, logger)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	blobs, err := storage.NewBlobStore(ctx, cfg.Storage)
	if err != nil {
		publisher.Close()
		a.close(ctx)
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}

	a.services = services.NewServiceManager(services.Dependencies{
		Repo:          a.repos.GetRepository(),
		Logger:        logger,
		Publisher:     publisher,
		Blobs:         blobs,
		EventObserver: a.metrics.ObserveEvent,
	}, services.ServiceManagerConfig{DemoAccountsEnabled: cfg.DemoAccountsEnabled})
	if err := a.services.Initialize(ctx); err != nil {
		publisher.Close()
		a.close(ctx)
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return a, nil
}

func (a *app) close(ctx context.Context) {
	if a.services != nil {
		if err := a.services.Shutdown(ctx); err != nil {
			a.logger.Error("Failed to shut down services", "error", err)
		}
	}
	// the repository owns the db and redis handles once initialized
	if a.repos != nil && a.repos.GetRepository() != nil {
		if err := a.repos.Shutdown(ctx); err != nil {
			a.logger.Error("Failed to close repositories", "error", err)
		}
		return
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
