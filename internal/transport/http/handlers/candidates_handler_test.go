package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCandidatesHandlerExcludesDecidedAndSelf(t *testing.T) {
	env := newTestEnv(t,
		swipeProfile("u-1", "Viewer"),
		swipeProfile("u-2", "Blake"),
		swipeProfile("u-3", "Casey"),
		swipeProfile("u-4", "Drew"),
	)

	if rr := performSwipeRequest(t, env.swipes, "u-1", map[string]any{"targetId": "u-2", "direction": "pass"}); rr.Code != http.StatusOK {
		t.Fatalf("unexpected swipe status: %d", rr.Code)
	}

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/candidates?count=10", nil), "u-1")
	rr := httptest.NewRecorder()
	env.candidates.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload struct {
		Success    bool `json:"success"`
		Candidates []struct {
			UserID string   `json:"userId"`
			Photos []string `json:"photos"`
		} `json:"candidates"`
	}
	decodeBody(t, rr, &payload)

	if !payload.Success || len(payload.Candidates) != 2 {
		t.Fatalf("unexpected candidates: %+v", payload)
	}
	for _, c := range payload.Candidates {
		if c.UserID == "u-1" || c.UserID == "u-2" {
			t.Fatalf("candidate %s should be excluded", c.UserID)
		}
		if len(c.Photos) == 0 {
			t.Fatalf("candidate %s has no photos", c.UserID)
		}
	}
}

func TestCandidatesHandlerReturnsEmptyListNotNull(t *testing.T) {
	env := newTestEnv(t, swipeProfile("u-1", "Viewer"))

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/candidates", nil), "u-1")
	rr := httptest.NewRecorder()
	env.candidates.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
	want := `{"success":true,"candidates":[]}` + "\n"
	if rr.Body.String() != want {
		t.Fatalf("unexpected body: got %q want %q", rr.Body.String(), want)
	}
}
