package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/AmolBhalerao8/dechico/internal/domain/enums"
	"github.com/AmolBhalerao8/dechico/internal/domain/model"
	matchessvc "github.com/AmolBhalerao8/dechico/internal/services/matches"
	swipesvc "github.com/AmolBhalerao8/dechico/internal/services/swipes"
)

func mustDecision(t *testing.T, id, actor, target string, direction enums.Direction, at time.Time) model.Decision {
	t.Helper()
	d, err := model.NewDecision(model.DecisionParams{
		ID:         id,
		ActorID:    actor,
		TargetID:   target,
		Direction:  direction,
		RecordedAt: at,
	})
	if err != nil {
		t.Fatalf("new decision: %v", err)
	}
	return d
}

func TestDecisionStoreRejectsActiveCooldown(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := mustDecision(t, "d1", "u-a", "u-b", enums.DirectionPass, now)
	if _, err := store.InsertUnlessCooling(ctx, first, now); err != nil {
		t.Fatalf("insert first decision: %v", err)
	}

	second := mustDecision(t, "d2", "u-a", "u-b", enums.DirectionLike, now.Add(time.Hour))
	_, err := store.InsertUnlessCooling(ctx, second, now.Add(time.Hour))
	cd, ok := swipesvc.IsCooldownActive(err)
	if !ok {
		t.Fatalf("expected cooldown error, got %v", err)
	}
	if !cd.CooldownUntil.Equal(first.CooldownUntil) {
		t.Fatalf("unexpected cooldown until: got %s want %s", cd.CooldownUntil, first.CooldownUntil)
	}

	// The reverse direction is a different ordered pair.
	reverse := mustDecision(t, "d3", "u-b", "u-a", enums.DirectionLike, now)
	if _, err := store.InsertUnlessCooling(ctx, reverse, now); err != nil {
		t.Fatalf("insert reverse decision: %v", err)
	}
}

func TestDecisionStoreAllowsDecisionAfterExpiry(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := mustDecision(t, "d1", "u-a", "u-b", enums.DirectionPass, start)
	if _, err := store.InsertUnlessCooling(ctx, first, start); err != nil {
		t.Fatalf("insert first decision: %v", err)
	}

	if _, err := store.InsertUnlessCooling(ctx, mustDecision(t, "d2", "u-a", "u-b", enums.DirectionLike, first.CooldownUntil), first.CooldownUntil); err == nil {
		t.Fatalf("expected cooldown to be active at the exact expiry instant")
	}

	later := start.Add(11 * 24 * time.Hour)
	if _, err := store.InsertUnlessCooling(ctx, mustDecision(t, "d3", "u-a", "u-b", enums.DirectionLike, later), later); err != nil {
		t.Fatalf("insert after expiry: %v", err)
	}

	targets, err := store.ActiveTargets(ctx, "u-a", later)
	if err != nil {
		t.Fatalf("active targets: %v", err)
	}
	if len(targets) != 1 || targets[0].ID != "d3" {
		t.Fatalf("unexpected active targets: %+v", targets)
	}

	liked, err := store.HasLike(ctx, "u-a", "u-b")
	if err != nil || !liked {
		t.Fatalf("expected like to be found: liked=%v err=%v", liked, err)
	}
}

func TestDecisionStoreConcurrentInsertsKeepOneActivePerDirection(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	const workers = 32
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	decisions := make([]model.Decision, workers)
	for i := range decisions {
		actor, target := "u-a", "u-b"
		if i%2 == 1 {
			actor, target = "u-b", "u-a"
		}
		decisions[i] = mustDecision(t, fmt.Sprintf("d-%d", i), actor, target, enums.DirectionLike, now)
	}

	for _, d := range decisions {
		wg.Add(1)
		go func(d model.Decision) {
			defer wg.Done()
			if _, err := store.InsertUnlessCooling(ctx, d, now); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(d)
	}
	wg.Wait()

	if accepted != 2 {
		t.Fatalf("unexpected accepted inserts: got %d want one per direction", accepted)
	}
}

func TestDecisionStoreDeleteByUserRemovesBothSides(t *testing.T) {
	store := NewDecisionStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, d := range []model.Decision{
		mustDecision(t, "d1", "u-a", "u-b", enums.DirectionLike, now),
		mustDecision(t, "d2", "u-b", "u-a", enums.DirectionLike, now),
		mustDecision(t, "d3", "u-c", "u-b", enums.DirectionPass, now),
	} {
		if _, err := store.InsertUnlessCooling(ctx, d, now); err != nil {
			t.Fatalf("insert %s: %v", d.ID, err)
		}
	}

	deleted, err := store.DeleteByUser(ctx, "u-a")
	if err != nil {
		t.Fatalf("delete by user: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("unexpected deleted count: got %d want 2", deleted)
	}

	if liked, _ := store.HasLike(ctx, "u-b", "u-a"); liked {
		t.Fatalf("expected target-side decision to be removed")
	}
	targets, _ := store.ActiveTargets(ctx, "u-c", now)
	if len(targets) != 1 {
		t.Fatalf("unrelated decisions should survive: %+v", targets)
	}
}

func TestMatchStoreRejectsDuplicatePair(t *testing.T) {
	store := NewMatchStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	m, err := model.NewMatch("m1", "u-b", "u-a", now)
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	if err := store.Insert(ctx, m); err != nil {
		t.Fatalf("insert match: %v", err)
	}

	dup, _ := model.NewMatch("m2", "u-a", "u-b", now)
	if err := store.Insert(ctx, dup); !errors.Is(err, matchessvc.ErrMatchConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	got, err := store.GetByPair(ctx, "u-b", "u-a")
	if err != nil {
		t.Fatalf("get by pair: %v", err)
	}
	if got.ID != "m1" {
		t.Fatalf("unexpected match id: got %s want m1", got.ID)
	}

	if _, err := store.GetByPair(ctx, "u-a", "u-c"); !errors.Is(err, matchessvc.ErrMatchNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	list, err := store.ListByUser(ctx, "u-b")
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected list: %+v err=%v", list, err)
	}

	deleted, err := store.DeleteByUser(ctx, "u-a")
	if err != nil || deleted != 1 {
		t.Fatalf("unexpected delete result: %d err=%v", deleted, err)
	}
}
