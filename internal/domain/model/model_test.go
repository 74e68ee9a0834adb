package model

import (
	"errors"
	"testing"
	"time"

	"github.com/AmolBhalerao8/dechico/internal/domain/enums"
)

func TestNewDecisionRejectsSelfAndEmptyIDs(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []DecisionParams{
		{ActorID: "u1", TargetID: "u1", Direction: enums.DirectionLike, RecordedAt: now},
		{ActorID: "", TargetID: "u2", Direction: enums.DirectionLike, RecordedAt: now},
		{ActorID: "u1", TargetID: "  ", Direction: enums.DirectionPass, RecordedAt: now},
	}
	for _, params := range cases {
		if _, err := NewDecision(params); !errors.Is(err, ErrInvalidDecision) {
			t.Fatalf("expected ErrInvalidDecision for %+v, got %v", params, err)
		}
	}

	_, err := NewDecision(DecisionParams{ActorID: "u1", TargetID: "u2", Direction: "SUPERLIKE", RecordedAt: now})
	if !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
}

func TestNewDecisionSetsCooldownUntil(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	d, err := NewDecision(DecisionParams{ID: "d1", ActorID: "u1", TargetID: "u2", Direction: enums.DirectionPass, RecordedAt: now})
	if err != nil {
		t.Fatalf("new decision: %v", err)
	}
	if !d.CooldownUntil.Equal(now.Add(240 * time.Hour)) {
		t.Fatalf("unexpected cooldown until: %v", d.CooldownUntil)
	}
	if !d.ActiveAt(d.CooldownUntil) || d.ActiveAt(d.CooldownUntil.Add(time.Second)) {
		t.Fatalf("unexpected activity around cooldown boundary")
	}
}

func TestNewMatchCanonicalizesPair(t *testing.T) {
	m, err := NewMatch("m1", "zed", "amy", time.Now())
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	if m.UserA != "amy" || m.UserB != "zed" {
		t.Fatalf("unexpected pair order: %s, %s", m.UserA, m.UserB)
	}
	if other, ok := m.Counterpart("zed"); !ok || other != "amy" {
		t.Fatalf("unexpected counterpart: %q %v", other, ok)
	}
	if PairKey("zed", "amy") != PairKey("amy", "zed") {
		t.Fatalf("pair key must not depend on order")
	}
	if _, err := NewMatch("m2", "amy", "amy", time.Now()); !errors.Is(err, ErrInvalidMatch) {
		t.Fatalf("expected ErrInvalidMatch for self pair, got %v", err)
	}
}

func TestProfileDisplayFallbacks(t *testing.T) {
	p := Profile{FirstName: "Ada", LastName: "Lovelace"}
	if p.DisplayName() != "Ada Lovelace" {
		t.Fatalf("unexpected display name: %q", p.DisplayName())
	}
	if p.AliasOrDefault() != DefaultAlias {
		t.Fatalf("unexpected alias: %q", p.AliasOrDefault())
	}
	if p.FirstPhoto() != "" {
		t.Fatalf("expected empty first photo")
	}
	if p.Swipeable() {
		t.Fatalf("incomplete profile without photos must not be swipeable")
	}
}
