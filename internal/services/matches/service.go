package matches

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AmolBhalerao8/dechico/internal/domain/enums"
	"github.com/AmolBhalerao8/dechico/internal/domain/model"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrMatchConflict   = errors.New("match already exists for pair")
	ErrMatchNotFound   = errors.New("match not found")
	ErrProfileNotFound = model.ErrProfileNotFound
)

// LikeLookup answers whether actorID has ever liked targetID. Expired
// decisions count.
type LikeLookup interface {
	HasLike(ctx context.Context, actorID, targetID string) (bool, error)
}

// MatchStore must reject a second match for the same canonical pair with
// ErrMatchConflict.
type MatchStore interface {
	GetByPair(ctx context.Context, userA, userB string) (model.Match, error)
	Insert(ctx context.Context, match model.Match) error
	ListByUser(ctx context.Context, userID string) ([]model.Match, error)
}

type ProfileLookup interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
}

type PhotoResolver interface {
	Resolve(ctx context.Context, ref string) (string, bool)
}

type EventRecorder interface {
	Track(ctx context.Context, userID, name string, props map[string]any) error
}

type Observer interface {
	MatchCreated()
}

type Dependencies struct {
	Likes    LikeLookup
	Matches  MatchStore
	Profiles ProfileLookup
	Photos   PhotoResolver
	Events   EventRecorder
	Metrics  Observer
	Logger   *zap.Logger
}

type Evaluation struct {
	IsMatch bool
	MatchID string
}

type MatchItem struct {
	MatchID     string
	UserID      string
	Email       string
	DisplayName string
	Alias       string
	Photo       string
	MatchedAt   time.Time
}

type Service struct {
	likes    LikeLookup
	matches  MatchStore
	profiles ProfileLookup
	photos   PhotoResolver
	events   EventRecorder
	metrics  Observer
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		likes:    deps.Likes,
		matches:  deps.Matches,
		profiles: deps.Profiles,
		photos:   deps.Photos,
		events:   deps.Events,
		metrics:  deps.Metrics,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// EvaluateForMatch runs after the actor's decision has been recorded. Only a
// LIKE can produce a match, and only if the target liked the actor before.
func (s *Service) EvaluateForMatch(ctx context.Context, actorID, targetID string, direction enums.Direction) (Evaluation, error) {
	actorID = strings.TrimSpace(actorID)
	targetID = strings.TrimSpace(targetID)
	if actorID == "" || targetID == "" || actorID == targetID {
		return Evaluation{}, ErrValidation
	}
	if direction != enums.DirectionLike {
		return Evaluation{}, nil
	}
	if s.likes == nil {
		return Evaluation{}, fmt.Errorf("like lookup is not configured")
	}

	reciprocal, err := s.likes.HasLike(ctx, targetID, actorID)
	if err != nil {
		return Evaluation{}, fmt.Errorf("lookup reciprocal like: %w", err)
	}
	if !reciprocal {
		return Evaluation{}, nil
	}

	match, err := s.CreateMatchIfAbsent(ctx, actorID, targetID)
	if err != nil {
		return Evaluation{}, err
	}

	return Evaluation{IsMatch: true, MatchID: match.ID}, nil
}

// CreateMatchIfAbsent returns the pair's match, creating it when missing.
// When a concurrent insert wins the race the winner's match is returned.
func (s *Service) CreateMatchIfAbsent(ctx context.Context, userA, userB string) (model.Match, error) {
	a, b, err := model.CanonicalPair(userA, userB)
	if err != nil {
		return model.Match{}, ErrValidation
	}
	if s.matches == nil {
		return model.Match{}, fmt.Errorf("match store is not configured")
	}

	existing, err := s.matches.GetByPair(ctx, a, b)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrMatchNotFound) {
		return model.Match{}, err
	}

	match, err := model.NewMatch(s.newID(), a, b, s.now())
	if err != nil {
		return model.Match{}, ErrValidation
	}

	if err := s.matches.Insert(ctx, match); err != nil {
		if !errors.Is(err, ErrMatchConflict) {
			return model.Match{}, err
		}
		winner, getErr := s.matches.GetByPair(ctx, a, b)
		if getErr != nil {
			return model.Match{}, fmt.Errorf("read match after conflict: %w", getErr)
		}
		return winner, nil
	}

	if s.metrics != nil {
		s.metrics.MatchCreated()
	}
	s.track(ctx, match)

	return match, nil
}

// ListForUser returns the user's matches, newest first. Matches whose
// counterpart profile cannot be loaded are left out.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]MatchItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrValidation
	}
	if s.matches == nil || s.profiles == nil {
		return nil, fmt.Errorf("match list dependencies are not configured")
	}

	rows, err := s.matches.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].MatchedAt.Equal(rows[j].MatchedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].MatchedAt.After(rows[j].MatchedAt)
	})

	items := make([]MatchItem, 0, len(rows))
	for _, row := range rows {
		counterpartID, ok := row.Counterpart(userID)
		if !ok {
			continue
		}

		profile, err := s.profiles.GetProfile(ctx, counterpartID)
		if err != nil {
			s.logger.Warn("skip match with unreadable counterpart",
				zap.String("match_id", row.ID),
				zap.String("counterpart_id", counterpartID),
				zap.Error(err),
			)
			continue
		}
		if profile.DeletedAt != nil {
			continue
		}

		items = append(items, MatchItem{
			MatchID:     row.ID,
			UserID:      counterpartID,
			Email:       profile.Email,
			DisplayName: summaryName(profile),
			Alias:       profile.AliasOrDefault(),
			Photo:       s.firstPhoto(ctx, profile),
			MatchedAt:   row.MatchedAt,
		})
	}

	return items, nil
}

func (s *Service) firstPhoto(ctx context.Context, profile model.Profile) string {
	ref := profile.FirstPhoto()
	if ref == "" || s.photos == nil {
		return ref
	}
	resolved, ok := s.photos.Resolve(ctx, ref)
	if !ok {
		return ""
	}
	return resolved
}

func (s *Service) track(ctx context.Context, match model.Match) {
	if s.events == nil {
		return
	}
	if err := s.events.Track(ctx, match.UserA, "match_created", map[string]any{
		"match_id": match.ID,
		"user_a":   match.UserA,
		"user_b":   match.UserB,
	}); err != nil {
		s.logger.Warn("track match event failed", zap.Error(err))
	}
}

func summaryName(profile model.Profile) string {
	if name := profile.DisplayName(); name != "" {
		return name
	}
	if alias := strings.TrimSpace(profile.Alias); alias != "" {
		return alias
	}
	return model.UnknownDisplayName
}
