package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AmolBhalerao8/dechico/internal/domain/enums"
	"github.com/AmolBhalerao8/dechico/internal/domain/model"
	swipesvc "github.com/AmolBhalerao8/dechico/internal/services/swipes"
)

type DecisionRepo struct {
	pool  *pgxpool.Pool
	retry RetryPolicy
}

func NewDecisionRepo(pool *pgxpool.Pool, retry RetryPolicy) *DecisionRepo {
	return &DecisionRepo{pool: pool, retry: retry}
}

const decisionColumns = `id, actor_id, actor_email, target_id, target_email, direction, recorded_at, cooldown_until`

// InsertUnlessCooling serialises writers for the unordered pair with a
// transaction-scoped advisory lock, then checks and inserts.
func (r *DecisionRepo) InsertUnlessCooling(ctx context.Context, decision model.Decision, now time.Time) (model.Decision, error) {
	if r.pool == nil {
		return model.Decision{}, fmt.Errorf("postgres pool is nil")
	}
	if decision.ID == "" || decision.ActorID == "" || decision.TargetID == "" {
		return model.Decision{}, fmt.Errorf("invalid decision payload")
	}

	var stored model.Decision
	err := WithRetryTx(ctx, r.pool, r.retry, "insert_decision", func(txCtx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(txCtx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
			model.PairKey(decision.ActorID, decision.TargetID)); err != nil {
			return fmt.Errorf("lock decision pair: %w", err)
		}

		var until time.Time
		err := tx.QueryRow(txCtx, `
SELECT cooldown_until
FROM decisions
WHERE actor_id = $1 AND target_id = $2 AND cooldown_until >= $3
ORDER BY cooldown_until DESC
LIMIT 1
`, decision.ActorID, decision.TargetID, now.UTC()).Scan(&until)
		if err == nil {
			return swipesvc.CooldownActiveError{CooldownUntil: until.UTC()}
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("lookup active decision: %w", err)
		}

		row := tx.QueryRow(txCtx, `
INSERT INTO decisions (`+decisionColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+decisionColumns,
			decision.ID,
			decision.ActorID,
			decision.ActorEmail,
			decision.TargetID,
			decision.TargetEmail,
			string(decision.Direction),
			decision.RecordedAt.UTC(),
			decision.CooldownUntil.UTC(),
		)
		stored, err = scanDecision(row)
		if err != nil {
			return fmt.Errorf("insert decision: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Decision{}, err
	}

	return stored, nil
}

func (r *DecisionRepo) LatestActive(ctx context.Context, actorID, targetID string, now time.Time) (model.Decision, bool, error) {
	if r.pool == nil {
		return model.Decision{}, false, fmt.Errorf("postgres pool is nil")
	}

	var (
		decision model.Decision
		found    bool
	)
	err := r.retry.Do(ctx, "latest_active_decision", func() error {
		row := r.pool.QueryRow(ctx, `
SELECT `+decisionColumns+`
FROM decisions
WHERE actor_id = $1 AND target_id = $2 AND cooldown_until >= $3
ORDER BY cooldown_until DESC
LIMIT 1
`, actorID, targetID, now.UTC())
		d, err := scanDecision(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				found = false
				return nil
			}
			return fmt.Errorf("get latest active decision: %w", err)
		}
		decision, found = d, true
		return nil
	})
	if err != nil {
		return model.Decision{}, false, err
	}

	return decision, found, nil
}

func (r *DecisionRepo) ActiveTargets(ctx context.Context, actorID string, now time.Time) ([]model.Decision, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	var items []model.Decision
	err := r.retry.Do(ctx, "active_cooldown_targets", func() error {
		rows, err := r.pool.Query(ctx, `
SELECT DISTINCT ON (target_id) `+decisionColumns+`
FROM decisions
WHERE actor_id = $1 AND cooldown_until >= $2
ORDER BY target_id, cooldown_until DESC
`, actorID, now.UTC())
		if err != nil {
			return fmt.Errorf("list active decisions: %w", err)
		}
		defer rows.Close()

		items = items[:0]
		for rows.Next() {
			d, err := scanDecision(rows)
			if err != nil {
				return fmt.Errorf("scan active decision: %w", err)
			}
			items = append(items, d)
		}
		if rows.Err() != nil {
			return fmt.Errorf("iterate active decisions: %w", rows.Err())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// HasLike ignores cooldown expiry: any recorded like counts.
func (r *DecisionRepo) HasLike(ctx context.Context, actorID, targetID string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	err := r.retry.Do(ctx, "has_like", func() error {
		return r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1
	FROM decisions
	WHERE actor_id = $1 AND target_id = $2 AND direction = $3
)
`, actorID, targetID, string(enums.DirectionLike)).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("lookup like: %w", err)
	}

	return exists, nil
}

func (r *DecisionRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var deleted int64
	err := r.retry.Do(ctx, "delete_decisions", func() error {
		tag, err := r.pool.Exec(ctx, `
DELETE FROM decisions
WHERE actor_id = $1 OR target_id = $1
`, userID)
		if err != nil {
			return fmt.Errorf("delete decisions: %w", err)
		}
		deleted = tag.RowsAffected()
		return nil
	})
	return deleted, err
}

func scanDecision(row pgx.Row) (model.Decision, error) {
	var (
		d         model.Decision
		direction string
	)
	if err := row.Scan(
		&d.ID,
		&d.ActorID,
		&d.ActorEmail,
		&d.TargetID,
		&d.TargetEmail,
		&direction,
		&d.RecordedAt,
		&d.CooldownUntil,
	); err != nil {
		return model.Decision{}, err
	}
	d.Direction = enums.Direction(direction)
	d.RecordedAt = d.RecordedAt.UTC()
	d.CooldownUntil = d.CooldownUntil.UTC()
	return d, nil
}
