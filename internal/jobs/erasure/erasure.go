package erasure

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultBatchSize = 100

type ProfileSource interface {
	ListPendingErasure(ctx context.Context, limit int) ([]string, error)
	MarkErased(ctx context.Context, userID string, at time.Time) error
}

type DecisionEraser interface {
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type MatchEraser interface {
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type IndexForgetter interface {
	Forget(ctx context.Context, actorID string) error
}

// Job removes the decisions and matches of deleted accounts. A profile is
// marked erased only after both deletes succeed, so failures are retried on
// the next run.
type Job struct {
	profiles  ProfileSource
	decisions DecisionEraser
	matches   MatchEraser
	index     IndexForgetter
	batchSize int
	now       func() time.Time
	logger    *zap.Logger
}

func New(profiles ProfileSource, decisions DecisionEraser, matches MatchEraser, batchSize int, logger *zap.Logger) *Job {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		profiles:  profiles,
		decisions: decisions,
		matches:   matches,
		batchSize: batchSize,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) AttachIndex(index IndexForgetter) {
	j.index = index
}

func (j *Job) Run(ctx context.Context) error {
	if j.profiles == nil || j.decisions == nil || j.matches == nil {
		return nil
	}

	userIDs, err := j.profiles.ListPendingErasure(ctx, j.batchSize)
	if err != nil {
		return fmt.Errorf("list profiles pending erasure: %w", err)
	}
	if len(userIDs) == 0 {
		return nil
	}

	var (
		erased           int
		decisionsRemoved int64
		matchesRemoved   int64
	)
	for _, userID := range userIDs {
		decisions, matches, err := j.eraseUser(ctx, userID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			j.logger.Warn("erase user engine data failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		erased++
		decisionsRemoved += decisions
		matchesRemoved += matches
	}

	j.logger.Info("erasure run completed",
		zap.Int("pending", len(userIDs)),
		zap.Int("erased", erased),
		zap.Int64("decisions_deleted", decisionsRemoved),
		zap.Int64("matches_deleted", matchesRemoved),
	)
	return nil
}

func (j *Job) eraseUser(ctx context.Context, userID string) (int64, int64, error) {
	decisions, err := j.decisions.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("delete decisions: %w", err)
	}
	matches, err := j.matches.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("delete matches: %w", err)
	}
	if j.index != nil {
		if err := j.index.Forget(ctx, userID); err != nil {
			j.logger.Warn("forget cooldown index failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	if err := j.profiles.MarkErased(ctx, userID, j.now().UTC()); err != nil {
		return 0, 0, fmt.Errorf("mark erased: %w", err)
	}
	return decisions, matches, nil
}
