package apiapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AmolBhalerao8/dechico/internal/infra/metrics"
	authsvc "github.com/AmolBhalerao8/dechico/internal/services/auth"
	feedsvc "github.com/AmolBhalerao8/dechico/internal/services/feed"
	matchessvc "github.com/AmolBhalerao8/dechico/internal/services/matches"
	swipesvc "github.com/AmolBhalerao8/dechico/internal/services/swipes"
	"github.com/AmolBhalerao8/dechico/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService  *authsvc.Service
	FeedService  *feedsvc.Service
	MatchService *matchessvc.Service
	SwipeService *swipesvc.Service
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	candidatesHandler := handlers.NewCandidatesHandler(deps.FeedService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	registerEngineRoutes := func(r chi.Router) {
		r.With(authMW).Post("/swipe", swipeHandler.Handle)
		r.With(authMW).Get("/candidates", candidatesHandler.List)
		r.With(authMW).Get("/matches", matchesHandler.List)
	}

	registerEngineRoutes(r)
	r.Route("/v1", registerEngineRoutes)
}
