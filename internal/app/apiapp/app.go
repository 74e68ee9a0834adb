package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AmolBhalerao8/dechico/internal/app/storage"
	"github.com/AmolBhalerao8/dechico/internal/config"
	"github.com/AmolBhalerao8/dechico/internal/infra/metrics"
	s3infra "github.com/AmolBhalerao8/dechico/internal/infra/s3"
	analyticsvc "github.com/AmolBhalerao8/dechico/internal/services/analytics"
	authsvc "github.com/AmolBhalerao8/dechico/internal/services/auth"
	feedsvc "github.com/AmolBhalerao8/dechico/internal/services/feed"
	matchessvc "github.com/AmolBhalerao8/dechico/internal/services/matches"
	mediasvc "github.com/AmolBhalerao8/dechico/internal/services/media"
	swipesvc "github.com/AmolBhalerao8/dechico/internal/services/swipes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	stores     *storage.Stores
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	appMetrics := metrics.New()

	stores, err := storage.Open(ctx, cfg, log, appMetrics)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	redisClient, cooldownIndex := storage.OpenCooldownIndex(ctx, cfg, log)

	photoResolver := newPhotoResolver(cfg, log)

	var events *analyticsvc.Service
	if stores.Events != nil {
		events = analyticsvc.NewService(stores.Events, analyticsvc.Config{MaxBatchSize: 100})
	}

	matchDeps := matchessvc.Dependencies{
		Likes:    stores.Decisions,
		Matches:  stores.Matches,
		Profiles: stores.Profiles,
		Photos:   photoResolver,
		Metrics:  appMetrics,
		Logger:   log.Named("matches"),
	}
	if events != nil {
		matchDeps.Events = events
	}
	matchService := matchessvc.NewService(matchDeps)

	swipeDeps := swipesvc.Dependencies{
		Decisions: stores.Decisions,
		Matches:   matchService,
		Metrics:   appMetrics,
		Logger:    log.Named("swipes"),
	}
	if cooldownIndex != nil {
		swipeDeps.Index = cooldownIndex
	}
	if events != nil {
		swipeDeps.Events = events
	}
	swipeService := swipesvc.NewService(swipeDeps, swipesvc.Config{
		Cooldown: cfg.Swipes.Cooldown,
	})

	feedService := feedsvc.NewService(stores.Profiles, swipeService, feedsvc.Config{
		DefaultBatchSize: cfg.Swipes.CandidateBatchSize,
		MaxBatchSize:     cfg.Swipes.CandidateMaxBatch,
		OverfetchMargin:  cfg.Swipes.OverfetchMargin,
	})
	feedService.AttachPhotoResolver(photoResolver)
	feedService.AttachObservability(log.Named("feed"), appMetrics)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, cfg.Auth.AllowedEmailDomain)

	RegisterRoutes(r, Dependencies{
		AuthService:  authService,
		FeedService:  feedService,
		MatchService: matchService,
		SwipeService: swipeService,
		Metrics:      appMetrics,
		Logger:       log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	log.Info("api app configured",
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Bool("cooldown_index", cooldownIndex != nil),
		zap.Bool("analytics", events != nil),
	)

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		stores:     stores,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

// newPhotoResolver presigns object keys through minio. Without a usable S3
// config only absolute photo URLs are served.
func newPhotoResolver(cfg config.Config, log *zap.Logger) *mediasvc.PhotoResolver {
	client, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		log.Warn("s3 init failed, photo keys will not be presigned", zap.Error(err))
		return mediasvc.NewPhotoResolver(nil, cfg.S3.PhotoURLTTL, log.Named("media"))
	}

	objects := mediasvc.NewS3Storage(client, cfg.S3.Bucket)
	return mediasvc.NewPhotoResolver(objects, cfg.S3.PhotoURLTTL, log.Named("media"))
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	a.stores.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
