package workerapp

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AmolBhalerao8/dechico/internal/app/storage"
	"github.com/AmolBhalerao8/dechico/internal/config"
	"github.com/AmolBhalerao8/dechico/internal/jobs/erasure"
)

const defaultErasureInterval = time.Hour

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	stores     *storage.Stores
	redis      *goredis.Client
	erasureJob *erasure.Job
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	stores, err := storage.Open(ctx, cfg, logger, nil)
	if err != nil {
		return nil, fmt.Errorf("open storage for worker: %w", err)
	}
	redisClient, cooldownIndex := storage.OpenCooldownIndex(ctx, cfg, logger)

	job := erasure.New(stores.Profiles, stores.Decisions, stores.Matches, cfg.Erasure.BatchSize, logger.Named("erasure"))
	if cooldownIndex != nil {
		job.AttachIndex(cooldownIndex)
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		stores:     stores,
		redis:      redisClient,
		erasureJob: job,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("worker app started")

	interval := a.cfg.Erasure.Interval
	if interval <= 0 {
		interval = defaultErasureInterval
	}

	a.runErasure(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("worker app stopped")
			return nil
		case <-ticker.C:
			a.runErasure(ctx)
		}
	}
}

func (a *App) runErasure(ctx context.Context) {
	if err := a.erasureJob.Run(ctx); err != nil && ctx.Err() == nil {
		a.logger.Error("erasure run failed", zap.Error(err))
	}
}

func (a *App) Close() {
	a.stores.Close()
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
