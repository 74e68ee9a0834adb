package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AmolBhalerao8/dechico/internal/domain/enums"
	"github.com/AmolBhalerao8/dechico/internal/domain/model"
	swipesvc "github.com/AmolBhalerao8/dechico/internal/services/swipes"
)

// DecisionStore keeps the decision log in process. Writers for the same
// unordered pair are serialised by a per-pair mutex.
type DecisionStore struct {
	pairLocks sync.Map

	mu      sync.RWMutex
	byActor map[string][]model.Decision
}

func NewDecisionStore() *DecisionStore {
	return &DecisionStore{byActor: make(map[string][]model.Decision)}
}

func (s *DecisionStore) InsertUnlessCooling(_ context.Context, decision model.Decision, now time.Time) (model.Decision, error) {
	if decision.ID == "" || decision.ActorID == "" || decision.TargetID == "" {
		return model.Decision{}, fmt.Errorf("invalid decision payload")
	}

	lock := s.pairLock(decision.ActorID, decision.TargetID)
	lock.Lock()
	defer lock.Unlock()

	if active, ok := s.latestActive(decision.ActorID, decision.TargetID, now); ok {
		return model.Decision{}, swipesvc.CooldownActiveError{CooldownUntil: active.CooldownUntil}
	}

	s.mu.Lock()
	s.byActor[decision.ActorID] = append(s.byActor[decision.ActorID], decision)
	s.mu.Unlock()

	return decision, nil
}

func (s *DecisionStore) LatestActive(_ context.Context, actorID, targetID string, now time.Time) (model.Decision, bool, error) {
	decision, ok := s.latestActive(actorID, targetID, now)
	return decision, ok, nil
}

func (s *DecisionStore) ActiveTargets(_ context.Context, actorID string, now time.Time) ([]model.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]model.Decision)
	for _, d := range s.byActor[actorID] {
		if !d.ActiveAt(now) {
			continue
		}
		if prev, ok := latest[d.TargetID]; ok && !d.CooldownUntil.After(prev.CooldownUntil) {
			continue
		}
		latest[d.TargetID] = d
	}

	out := make([]model.Decision, 0, len(latest))
	for _, d := range latest {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetID < out[j].TargetID })
	return out, nil
}

// HasLike ignores cooldown expiry: any recorded like counts.
func (s *DecisionStore) HasLike(_ context.Context, actorID, targetID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.byActor[actorID] {
		if d.TargetID == targetID && d.Direction == enums.DirectionLike {
			return true, nil
		}
	}
	return false, nil
}

func (s *DecisionStore) DeleteByUser(_ context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, fmt.Errorf("invalid user id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := int64(len(s.byActor[userID]))
	delete(s.byActor, userID)

	for actor, items := range s.byActor {
		kept := items[:0]
		for _, d := range items {
			if d.TargetID == userID {
				deleted++
				continue
			}
			kept = append(kept, d)
		}
		s.byActor[actor] = kept
	}

	return deleted, nil
}

func (s *DecisionStore) latestActive(actorID, targetID string, now time.Time) (model.Decision, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best  model.Decision
		found bool
	)
	for _, d := range s.byActor[actorID] {
		if d.TargetID != targetID || !d.ActiveAt(now) {
			continue
		}
		if !found || d.CooldownUntil.After(best.CooldownUntil) {
			best, found = d, true
		}
	}
	return best, found
}

func (s *DecisionStore) pairLock(actorID, targetID string) *sync.Mutex {
	lock, _ := s.pairLocks.LoadOrStore(model.PairKey(actorID, targetID), &sync.Mutex{})
	return lock.(*sync.Mutex)
}
