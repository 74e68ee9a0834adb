package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AmolBhalerao8/dechico/internal/domain/model"
	memrepo "github.com/AmolBhalerao8/dechico/internal/repo/memory"
	authsvc "github.com/AmolBhalerao8/dechico/internal/services/auth"
	feedsvc "github.com/AmolBhalerao8/dechico/internal/services/feed"
	matchessvc "github.com/AmolBhalerao8/dechico/internal/services/matches"
	swipesvc "github.com/AmolBhalerao8/dechico/internal/services/swipes"
)

type testEnv struct {
	swipes     *SwipeHandler
	candidates *CandidatesHandler
	matches    *MatchesHandler
}

func newTestEnv(t *testing.T, profiles ...model.Profile) testEnv {
	t.Helper()

	decisions := memrepo.NewDecisionStore()
	matchStore := memrepo.NewMatchStore()
	profileStore := memrepo.NewProfileStore(profiles...)

	matchService := matchessvc.NewService(matchessvc.Dependencies{
		Likes:    decisions,
		Matches:  matchStore,
		Profiles: profileStore,
	})
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Decisions: decisions,
		Matches:   matchService,
	}, swipesvc.Config{})
	feedService := feedsvc.NewService(profileStore, swipeService, feedsvc.Config{})

	return testEnv{
		swipes:     NewSwipeHandler(swipeService),
		candidates: NewCandidatesHandler(feedService),
		matches:    NewMatchesHandler(matchService),
	}
}

func swipeProfile(id, name string) model.Profile {
	return model.Profile{
		UserID:          id,
		Email:           id + "@csuchico.edu",
		Name:            name,
		ProfileComplete: true,
		Photos:          []string{"https://cdn.example.com/" + id + ".jpg"},
	}
}

func withIdentity(req *http.Request, userID string) *http.Request {
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: userID,
		Email:  userID + "@csuchico.edu",
	}))
}

func performSwipeRequest(t *testing.T, h *SwipeHandler, actorID string, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal swipe payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/swipe", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if actorID != "" {
		req = withIdentity(req, actorID)
	}

	rr := httptest.NewRecorder()
	h.Handle(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rr.Body.String())
	}
}
