package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AmolBhalerao8/dechico/internal/domain/enums"
	"github.com/AmolBhalerao8/dechico/internal/domain/model"
	"github.com/AmolBhalerao8/dechico/internal/domain/rules"
	matchessvc "github.com/AmolBhalerao8/dechico/internal/services/matches"
)

// DecisionStore is the durable decision log. InsertUnlessCooling must check
// for an active decision and insert atomically for the unordered pair and
// return CooldownActiveError when one exists.
type DecisionStore interface {
	InsertUnlessCooling(ctx context.Context, decision model.Decision, now time.Time) (model.Decision, error)
	LatestActive(ctx context.Context, actorID, targetID string, now time.Time) (model.Decision, bool, error)
	ActiveTargets(ctx context.Context, actorID string, now time.Time) ([]model.Decision, error)
}

type CooldownIndex interface {
	Remember(ctx context.Context, actorID, targetID string, until, now time.Time) error
	ActiveTargets(ctx context.Context, actorID string, now time.Time) (map[string]struct{}, bool, error)
	Warm(ctx context.Context, actorID string, decisions []model.Decision, now time.Time) error
	Forget(ctx context.Context, actorID string) error
}

type MatchEvaluator interface {
	EvaluateForMatch(ctx context.Context, actorID, targetID string, direction enums.Direction) (matchessvc.Evaluation, error)
}

type EventRecorder interface {
	Track(ctx context.Context, userID, name string, props map[string]any) error
}

type Observer interface {
	DecisionRecorded(direction string)
	CooldownRejected()
	CooldownIndexLookup(hit bool)
}

type Config struct {
	Cooldown time.Duration
}

type Dependencies struct {
	Decisions DecisionStore
	Index     CooldownIndex
	Matches   MatchEvaluator
	Events    EventRecorder
	Metrics   Observer
	Logger    *zap.Logger
}

type DecisionInput struct {
	ActorID     string
	ActorEmail  string
	TargetID    string
	TargetEmail string
	Direction   string
}

type SwipeResult struct {
	Decision model.Decision
	IsMatch  bool
	MatchID  string
}

type Service struct {
	decisions DecisionStore
	index     CooldownIndex
	matches   MatchEvaluator
	events    EventRecorder
	metrics   Observer
	logger    *zap.Logger
	cfg       Config
	now       func() time.Time
	newID     func() string
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = rules.CooldownDuration
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		decisions: deps.Decisions,
		index:     deps.Index,
		matches:   deps.Matches,
		events:    deps.Events,
		metrics:   deps.Metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Swipe records the decision and, for likes, checks for a reciprocal like.
// A failed match evaluation does not undo the recorded decision.
func (s *Service) Swipe(ctx context.Context, input DecisionInput) (SwipeResult, error) {
	decision, err := s.RecordDecision(ctx, input)
	if err != nil {
		return SwipeResult{}, err
	}

	result := SwipeResult{Decision: decision}
	if decision.Direction != enums.DirectionLike || s.matches == nil {
		return result, nil
	}

	evaluation, err := s.matches.EvaluateForMatch(ctx, decision.ActorID, decision.TargetID, decision.Direction)
	if err != nil {
		return result, fmt.Errorf("evaluate match: %w", err)
	}
	result.IsMatch = evaluation.IsMatch
	result.MatchID = evaluation.MatchID
	return result, nil
}

func (s *Service) RecordDecision(ctx context.Context, input DecisionInput) (model.Decision, error) {
	actorID := strings.TrimSpace(input.ActorID)
	targetID := strings.TrimSpace(input.TargetID)
	if actorID == "" || targetID == "" || actorID == targetID {
		return model.Decision{}, ErrValidation
	}

	direction, ok := enums.ParseDirection(input.Direction)
	if !ok {
		return model.Decision{}, ErrUnsupportedDirection
	}
	if s.decisions == nil {
		return model.Decision{}, fmt.Errorf("decision store is not configured")
	}

	now := s.now().UTC()
	decision, err := model.NewDecision(model.DecisionParams{
		ID:          s.newID(),
		ActorID:     actorID,
		ActorEmail:  input.ActorEmail,
		TargetID:    targetID,
		TargetEmail: input.TargetEmail,
		Direction:   direction,
		RecordedAt:  now,
		Cooldown:    s.cfg.Cooldown,
	})
	if err != nil {
		return model.Decision{}, ErrValidation
	}

	stored, err := s.decisions.InsertUnlessCooling(ctx, decision, now)
	if err != nil {
		if cd, ok := IsCooldownActive(err); ok {
			if s.metrics != nil {
				s.metrics.CooldownRejected()
			}
			return model.Decision{}, cd.At(now)
		}
		return model.Decision{}, err
	}

	if s.metrics != nil {
		s.metrics.DecisionRecorded(string(stored.Direction))
	}
	s.rememberCooldown(ctx, stored, now)
	s.track(ctx, stored)

	return stored, nil
}

func (s *Service) IsUnderCooldown(ctx context.Context, actorID, targetID string) (bool, error) {
	actorID = strings.TrimSpace(actorID)
	targetID = strings.TrimSpace(targetID)
	if actorID == "" || targetID == "" {
		return false, ErrValidation
	}
	if actorID == targetID {
		return false, nil
	}
	if s.decisions == nil {
		return false, fmt.Errorf("decision store is not configured")
	}

	_, found, err := s.decisions.LatestActive(ctx, actorID, targetID, s.now().UTC())
	if err != nil {
		return false, err
	}
	return found, nil
}

// ListActiveCooldownTargets returns every target the actor decided on whose
// cooldown has not expired, regardless of direction.
func (s *Service) ListActiveCooldownTargets(ctx context.Context, actorID string) (map[string]struct{}, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, ErrValidation
	}
	if s.decisions == nil {
		return nil, fmt.Errorf("decision store is not configured")
	}

	now := s.now().UTC()
	if s.index != nil {
		targets, hit, err := s.index.ActiveTargets(ctx, actorID, now)
		switch {
		case err != nil:
			s.logger.Warn("cooldown index lookup failed", zap.String("actor_id", actorID), zap.Error(err))
		case hit:
			s.observeIndex(true)
			return targets, nil
		default:
			s.observeIndex(false)
		}
	}

	decisions, err := s.decisions.ActiveTargets(ctx, actorID, now)
	if err != nil {
		return nil, err
	}

	targets := make(map[string]struct{}, len(decisions))
	for _, decision := range decisions {
		targets[decision.TargetID] = struct{}{}
	}

	if s.index != nil {
		if err := s.index.Warm(ctx, actorID, decisions, now); err != nil {
			s.logger.Warn("cooldown index warm failed", zap.String("actor_id", actorID), zap.Error(err))
		}
	}

	return targets, nil
}

func (s *Service) rememberCooldown(ctx context.Context, decision model.Decision, now time.Time) {
	if s.index == nil {
		return
	}
	err := s.index.Remember(ctx, decision.ActorID, decision.TargetID, decision.CooldownUntil, now)
	if err == nil {
		return
	}
	s.logger.Warn("cooldown index write failed", zap.String("actor_id", decision.ActorID), zap.Error(err))
	if forgetErr := s.index.Forget(ctx, decision.ActorID); forgetErr != nil && !errors.Is(forgetErr, context.Canceled) {
		s.logger.Error("cooldown index invalidate failed", zap.String("actor_id", decision.ActorID), zap.Error(forgetErr))
	}
}

func (s *Service) track(ctx context.Context, decision model.Decision) {
	if s.events == nil {
		return
	}
	if err := s.events.Track(ctx, decision.ActorID, "swipe_recorded", map[string]any{
		"decision_id": decision.ID,
		"target_id":   decision.TargetID,
		"direction":   string(decision.Direction),
	}); err != nil {
		s.logger.Warn("track swipe event failed", zap.Error(err))
	}
}

func (s *Service) observeIndex(hit bool) {
	if s.metrics != nil {
		s.metrics.CooldownIndexLookup(hit)
	}
}
