package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/AmolBhalerao8/dechico/internal/domain/model"
	matchessvc "github.com/AmolBhalerao8/dechico/internal/services/matches"
)

// MatchStore is keyed by the canonical pair so a second insert for the same
// pair fails with ErrMatchConflict.
type MatchStore struct {
	mu     sync.RWMutex
	byPair map[string]model.Match
}

func NewMatchStore() *MatchStore {
	return &MatchStore{byPair: make(map[string]model.Match)}
}

func (s *MatchStore) GetByPair(_ context.Context, userA, userB string) (model.Match, error) {
	a, b, err := model.CanonicalPair(userA, userB)
	if err != nil {
		return model.Match{}, fmt.Errorf("invalid match pair: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	match, ok := s.byPair[model.PairKey(a, b)]
	if !ok {
		return model.Match{}, matchessvc.ErrMatchNotFound
	}
	return match, nil
}

func (s *MatchStore) Insert(_ context.Context, match model.Match) error {
	if match.ID == "" || match.UserA == "" || match.UserB == "" || match.UserA >= match.UserB {
		return fmt.Errorf("invalid match payload")
	}

	key := model.PairKey(match.UserA, match.UserB)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byPair[key]; exists {
		return matchessvc.ErrMatchConflict
	}
	s.byPair[key] = match
	return nil
}

func (s *MatchStore) ListByUser(_ context.Context, userID string) ([]model.Match, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("invalid user id")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Match, 0)
	for _, match := range s.byPair {
		if match.UserA == userID || match.UserB == userID {
			out = append(out, match)
		}
	}
	return out, nil
}

func (s *MatchStore) DeleteByUser(_ context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, fmt.Errorf("invalid user id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key, match := range s.byPair {
		if match.UserA == userID || match.UserB == userID {
			delete(s.byPair, key)
			deleted++
		}
	}
	return deleted, nil
}
