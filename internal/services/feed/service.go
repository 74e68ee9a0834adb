package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/AmolBhalerao8/dechico/internal/domain/model"
)

const (
	defaultBatchSize       = 10
	maxBatchSize           = 50
	defaultOverfetchMargin = 10
)

var ErrValidation = errors.New("validation error")

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	ListComplete(ctx context.Context, limit int) ([]model.Profile, error)
}

type CooldownSource interface {
	ListActiveCooldownTargets(ctx context.Context, actorID string) (map[string]struct{}, error)
}

type PhotoResolver interface {
	Resolve(ctx context.Context, ref string) (string, bool)
}

type Observer interface {
	CandidatesServed(n int)
}

type Config struct {
	DefaultBatchSize int
	MaxBatchSize     int
	OverfetchMargin  int
}

type Candidate struct {
	UserID      string
	Email       string
	DisplayName string
	Alias       string
	Age         int
	Bio         string
	Interests   []string
	Gender      string
	Ethnicity   string
	Photos      []string
}

type Service struct {
	profiles  ProfileStore
	cooldowns CooldownSource
	photos    PhotoResolver
	metrics   Observer
	logger    *zap.Logger
	cfg       Config
	shuffle   func([]Candidate)
}

func NewService(profiles ProfileStore, cooldowns CooldownSource, cfg Config) *Service {
	if cfg.DefaultBatchSize <= 0 {
		cfg.DefaultBatchSize = defaultBatchSize
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = maxBatchSize
	}
	if cfg.DefaultBatchSize > cfg.MaxBatchSize {
		cfg.DefaultBatchSize = cfg.MaxBatchSize
	}
	if cfg.OverfetchMargin <= 0 {
		cfg.OverfetchMargin = defaultOverfetchMargin
	}

	return &Service{
		profiles:  profiles,
		cooldowns: cooldowns,
		logger:    zap.NewNop(),
		cfg:       cfg,
		shuffle:   shuffleCandidates,
	}
}

func (s *Service) AttachPhotoResolver(photos PhotoResolver) {
	s.photos = photos
}

func (s *Service) AttachObservability(logger *zap.Logger, metrics Observer) {
	if logger != nil {
		s.logger = logger
	}
	s.metrics = metrics
}

// SelectCandidates returns up to batchSize swipeable profiles for userID in
// random order. No survivors is an empty result, not an error.
func (s *Service) SelectCandidates(ctx context.Context, userID string, batchSize int) ([]Candidate, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrValidation
	}
	if s.profiles == nil || s.cooldowns == nil {
		return nil, fmt.Errorf("candidate dependencies are not configured")
	}
	batchSize = s.normalizeBatchSize(batchSize)

	preference, err := s.viewerPreference(ctx, userID)
	if err != nil {
		return nil, err
	}

	active, err := s.cooldowns.ListActiveCooldownTargets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active cooldown targets: %w", err)
	}
	excluded := make(map[string]struct{}, len(active)+1)
	for id := range active {
		excluded[id] = struct{}{}
	}
	excluded[userID] = struct{}{}

	pool, err := s.profiles.ListComplete(ctx, batchSize+len(excluded)+s.cfg.OverfetchMargin)
	if err != nil {
		return nil, fmt.Errorf("list candidate pool: %w", err)
	}

	out := make([]Candidate, 0, batchSize)
	for _, profile := range pool {
		if len(out) >= batchSize {
			break
		}
		if _, skip := excluded[profile.UserID]; skip {
			continue
		}
		if !profile.Swipeable() {
			continue
		}
		if !matchesPreference(preference, profile.Gender) {
			continue
		}

		photos := s.resolvePhotos(ctx, profile.Photos)
		if len(photos) == 0 {
			continue
		}
		out = append(out, toCandidate(profile, photos))
	}

	s.shuffle(out)
	if s.metrics != nil {
		s.metrics.CandidatesServed(len(out))
	}

	return out, nil
}

func (s *Service) normalizeBatchSize(batchSize int) int {
	if batchSize <= 0 {
		return s.cfg.DefaultBatchSize
	}
	if batchSize > s.cfg.MaxBatchSize {
		return s.cfg.MaxBatchSize
	}
	return batchSize
}

func (s *Service) viewerPreference(ctx context.Context, userID string) (string, error) {
	viewer, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			s.logger.Debug("viewer profile missing, using open preference", zap.String("user_id", userID))
			return "", nil
		}
		return "", fmt.Errorf("load viewer profile: %w", err)
	}
	return normalizePreference(viewer.GenderPreference), nil
}

func (s *Service) resolvePhotos(ctx context.Context, refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		if s.photos == nil {
			out = append(out, ref)
			continue
		}
		if resolved, ok := s.photos.Resolve(ctx, ref); ok {
			out = append(out, resolved)
		}
	}
	return out
}

// normalizePreference returns "" when every gender is acceptable.
func normalizePreference(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "", "both", "everyone", "any", "all":
		return ""
	default:
		return value
	}
}

func matchesPreference(preference, gender string) bool {
	if preference == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(gender), preference)
}

func toCandidate(profile model.Profile, photos []string) Candidate {
	return Candidate{
		UserID:      profile.UserID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName(),
		Alias:       profile.AliasOrDefault(),
		Age:         profile.Age,
		Bio:         profile.Bio,
		Interests:   append([]string(nil), profile.Interests...),
		Gender:      profile.Gender,
		Ethnicity:   profile.Ethnicity,
		Photos:      photos,
	}
}

func shuffleCandidates(items []Candidate) {
	rand.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
