package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AmolBhalerao8/dechico/internal/domain/model"
	matchessvc "github.com/AmolBhalerao8/dechico/internal/services/matches"
)

type MatchRepo struct {
	pool  *pgxpool.Pool
	retry RetryPolicy
}

func NewMatchRepo(pool *pgxpool.Pool, retry RetryPolicy) *MatchRepo {
	return &MatchRepo{pool: pool, retry: retry}
}

func (r *MatchRepo) GetByPair(ctx context.Context, userA, userB string) (model.Match, error) {
	a, b, err := model.CanonicalPair(userA, userB)
	if err != nil {
		return model.Match{}, fmt.Errorf("invalid match pair: %w", err)
	}
	if r.pool == nil {
		return model.Match{}, fmt.Errorf("postgres pool is nil")
	}

	var match model.Match
	err = r.retry.Do(ctx, "get_match", func() error {
		return r.pool.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, matched_at
FROM matches
WHERE user_a_id = $1 AND user_b_id = $2
`, a, b).Scan(&match.ID, &match.UserA, &match.UserB, &match.MatchedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, matchessvc.ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get match by pair: %w", err)
	}
	match.MatchedAt = match.MatchedAt.UTC()

	return match, nil
}

// Insert relies on the (user_a_id, user_b_id) unique constraint to keep a
// single match per pair.
func (r *MatchRepo) Insert(ctx context.Context, match model.Match) error {
	if match.ID == "" || match.UserA == "" || match.UserB == "" || match.UserA >= match.UserB {
		return fmt.Errorf("invalid match payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	err := r.retry.Do(ctx, "insert_match", func() error {
		_, err := r.pool.Exec(ctx, `
INSERT INTO matches (
	id,
	user_a_id,
	user_b_id,
	matched_at
) VALUES ($1, $2, $3, $4)
`, match.ID, match.UserA, match.UserB, match.MatchedAt.UTC())
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return matchessvc.ErrMatchConflict
		}
		return fmt.Errorf("create match: %w", err)
	}

	return nil
}

func (r *MatchRepo) ListByUser(ctx context.Context, userID string) ([]model.Match, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	var items []model.Match
	err := r.retry.Do(ctx, "list_matches", func() error {
		rows, err := r.pool.Query(ctx, `
SELECT id, user_a_id, user_b_id, matched_at
FROM matches
WHERE user_a_id = $1 OR user_b_id = $1
ORDER BY matched_at DESC, id DESC
`, userID)
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		defer rows.Close()

		items = make([]model.Match, 0)
		for rows.Next() {
			var item model.Match
			if err := rows.Scan(&item.ID, &item.UserA, &item.UserB, &item.MatchedAt); err != nil {
				return fmt.Errorf("scan match: %w", err)
			}
			item.MatchedAt = item.MatchedAt.UTC()
			items = append(items, item)
		}
		if rows.Err() != nil {
			return fmt.Errorf("iterate matches: %w", rows.Err())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MatchRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var deleted int64
	err := r.retry.Do(ctx, "delete_matches", func() error {
		tag, err := r.pool.Exec(ctx, `
DELETE FROM matches
WHERE user_a_id = $1 OR user_b_id = $1
`, userID)
		if err != nil {
			return fmt.Errorf("delete matches: %w", err)
		}
		deleted = tag.RowsAffected()
		return nil
	})
	return deleted, err
}
