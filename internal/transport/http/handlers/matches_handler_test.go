package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMatchesHandlerListsCounterpartSummary(t *testing.T) {
	env := newTestEnv(t,
		swipeProfile("u-1", "Avery"),
		swipeProfile("u-2", "Blake"),
	)

	performSwipeRequest(t, env.swipes, "u-1", map[string]any{"targetId": "u-2", "direction": "like"})
	performSwipeRequest(t, env.swipes, "u-2", map[string]any{"targetId": "u-1", "direction": "like"})

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/matches", nil), "u-1")
	rr := httptest.NewRecorder()
	env.matches.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload struct {
		Success bool `json:"success"`
		Matches []struct {
			MatchID     string `json:"matchId"`
			UserID      string `json:"userId"`
			Email       string `json:"email"`
			DisplayName string `json:"displayName"`
			Alias       string `json:"alias"`
			Photo       string `json:"photo"`
		} `json:"matches"`
	}
	decodeBody(t, rr, &payload)

	if !payload.Success || len(payload.Matches) != 1 {
		t.Fatalf("unexpected matches payload: %+v", payload)
	}
	got := payload.Matches[0]
	if got.UserID != "u-2" || got.DisplayName != "Blake" || got.Alias != "Wildcat" {
		t.Fatalf("unexpected counterpart summary: %+v", got)
	}
	if got.Photo != "https://cdn.example.com/u-2.jpg" || got.Email != "u-2@csuchico.edu" {
		t.Fatalf("unexpected counterpart contact: %+v", got)
	}
}

func TestMatchesHandlerRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.matches.List(rr, httptest.NewRequest(http.MethodGet, "/matches", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}
