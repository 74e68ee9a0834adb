package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AmolBhalerao8/dechico/internal/config"
	"github.com/AmolBhalerao8/dechico/internal/domain/model"
	memrepo "github.com/AmolBhalerao8/dechico/internal/repo/memory"
	pgrepo "github.com/AmolBhalerao8/dechico/internal/repo/postgres"
	redrepo "github.com/AmolBhalerao8/dechico/internal/repo/redis"
	analyticsvc "github.com/AmolBhalerao8/dechico/internal/services/analytics"
	feedsvc "github.com/AmolBhalerao8/dechico/internal/services/feed"
	matchessvc "github.com/AmolBhalerao8/dechico/internal/services/matches"
	swipesvc "github.com/AmolBhalerao8/dechico/internal/services/swipes"
)

const redisPingTimeout = 2 * time.Second

type DecisionStore interface {
	swipesvc.DecisionStore
	matchessvc.LikeLookup
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type MatchStore interface {
	matchessvc.MatchStore
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type ProfileStore interface {
	feedsvc.ProfileStore
	ListPendingErasure(ctx context.Context, limit int) ([]string, error)
	MarkErased(ctx context.Context, userID string, at time.Time) error
}

type RetryObserver interface {
	StorageRetry(op string)
}

// Stores groups the engine's persistence for the configured driver. Events
// is nil for the memory driver.
type Stores struct {
	Decisions DecisionStore
	Matches   MatchStore
	Profiles  ProfileStore
	Events    analyticsvc.Store
	Pool      *pgxpool.Pool
}

func Open(ctx context.Context, cfg config.Config, log *zap.Logger, retries RetryObserver) (*Stores, error) {
	if log == nil {
		log = zap.NewNop()
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case config.StorageDriverMemory:
		return openMemory(cfg, log)
	case config.StorageDriverPostgres:
		return openPostgres(ctx, cfg, log, retries)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func (s *Stores) Close() {
	if s != nil && s.Pool != nil {
		s.Pool.Close()
	}
}

func openMemory(cfg config.Config, log *zap.Logger) (*Stores, error) {
	profiles := memrepo.NewProfileStore()
	if path := strings.TrimSpace(cfg.Storage.SeedPath); path != "" {
		loaded, err := profiles.LoadSeedFile(path)
		if err != nil {
			return nil, err
		}
		log.Info("seeded memory profile store", zap.String("path", path), zap.Int("profiles", loaded))
	}

	return &Stores{
		Decisions: memrepo.NewDecisionStore(),
		Matches:   memrepo.NewMatchStore(),
		Profiles:  profiles,
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Config, log *zap.Logger, retries RetryObserver) (*Stores, error) {
	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.Postgres.AutoMigrate {
		if err := pgrepo.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}

	policy := pgrepo.RetryPolicy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
	}
	if retries != nil {
		policy.OnRetry = func(op string) {
			retries.StorageRetry(op)
			log.Debug("retrying transient storage error", zap.String("op", op))
		}
	}

	profiles := pgrepo.NewProfileRepo(pool, policy)
	if path := strings.TrimSpace(cfg.Storage.SeedPath); path != "" {
		if err := seedProfiles(ctx, path, profiles); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("seeded postgres profiles", zap.String("path", path))
	}

	return &Stores{
		Decisions: pgrepo.NewDecisionRepo(pool, policy),
		Matches:   pgrepo.NewMatchRepo(pool, policy),
		Profiles:  profiles,
		Events:    pgrepo.NewEventRepo(pool),
		Pool:      pool,
	}, nil
}

type profileUpserter interface {
	Upsert(ctx context.Context, profile model.Profile) error
}

func seedProfiles(ctx context.Context, path string, store profileUpserter) error {
	profiles, err := memrepo.ReadSeedFile(path)
	if err != nil {
		return err
	}
	for _, profile := range profiles {
		if err := store.Upsert(ctx, profile); err != nil {
			return fmt.Errorf("seed profile %s: %w", profile.UserID, err)
		}
	}
	return nil
}

// OpenCooldownIndex returns nil values when Redis is not configured or not
// reachable; the engine then reads cooldowns from the decision store only.
func OpenCooldownIndex(ctx context.Context, cfg config.Config, log *zap.Logger) (*goredis.Client, *redrepo.CooldownRepo) {
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, nil
	}

	client := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, cooldown index disabled", zap.Error(err))
		_ = client.Close()
		return nil, nil
	}

	return client, redrepo.NewCooldownRepo(client, cfg.Swipes.Cooldown)
}
