package memory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AmolBhalerao8/dechico/internal/domain/model"
)

type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]model.Profile
	order    []string
	erased   map[string]time.Time
}

func NewProfileStore(profiles ...model.Profile) *ProfileStore {
	s := &ProfileStore{
		profiles: make(map[string]model.Profile),
		erased:   make(map[string]time.Time),
	}
	for _, p := range profiles {
		s.Put(p)
	}
	return s
}

// Put inserts or replaces a profile. Insertion order is kept for listing.
func (s *ProfileStore) Put(profile model.Profile) {
	id := strings.TrimSpace(profile.UserID)
	if id == "" {
		return
	}
	profile.UserID = id

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[id]; !exists {
		s.order = append(s.order, id)
	}
	s.profiles[id] = cloneProfile(profile)
}

func (s *ProfileStore) GetProfile(_ context.Context, userID string) (model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[strings.TrimSpace(userID)]
	if !ok {
		return model.Profile{}, model.ErrProfileNotFound
	}
	return cloneProfile(profile), nil
}

func (s *ProfileStore) ListComplete(_ context.Context, limit int) ([]model.Profile, error) {
	if limit <= 0 {
		return []model.Profile{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Profile, 0, limit)
	for _, id := range s.order {
		if len(out) >= limit {
			break
		}
		profile := s.profiles[id]
		if !profile.Swipeable() {
			continue
		}
		out = append(out, cloneProfile(profile))
	}
	return out, nil
}

func (s *ProfileStore) ListPendingErasure(_ context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]model.Profile, 0)
	for _, id := range s.order {
		profile := s.profiles[id]
		if profile.DeletedAt == nil {
			continue
		}
		if _, done := s.erased[id]; done {
			continue
		}
		pending = append(pending, profile)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].DeletedAt.Before(*pending[j].DeletedAt)
	})

	ids := make([]string, 0, limit)
	for _, profile := range pending {
		if len(ids) >= limit {
			break
		}
		ids = append(ids, profile.UserID)
	}
	return ids, nil
}

func (s *ProfileStore) MarkErased(_ context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[userID]; !ok {
		return model.ErrProfileNotFound
	}
	s.erased[userID] = at.UTC()
	return nil
}

type seedFile struct {
	Profiles []model.Profile `yaml:"profiles"`
}

// ReadSeedFile parses a YAML document with a top-level "profiles" list.
// Entries without a user_id are skipped.
func ReadSeedFile(path string) ([]model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("unmarshal seed yaml: %w", err)
	}

	out := make([]model.Profile, 0, len(seed.Profiles))
	for _, profile := range seed.Profiles {
		if strings.TrimSpace(profile.UserID) == "" {
			continue
		}
		out = append(out, profile)
	}
	return out, nil
}

// LoadSeedFile stores every profile from the seed file and returns how many
// were loaded.
func (s *ProfileStore) LoadSeedFile(path string) (int, error) {
	profiles, err := ReadSeedFile(path)
	if err != nil {
		return 0, err
	}
	for _, profile := range profiles {
		s.Put(profile)
	}
	return len(profiles), nil
}

func cloneProfile(p model.Profile) model.Profile {
	p.Interests = append([]string(nil), p.Interests...)
	p.Photos = append([]string(nil), p.Photos...)
	if p.DeletedAt != nil {
		at := *p.DeletedAt
		p.DeletedAt = &at
	}
	return p
}
