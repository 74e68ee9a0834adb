package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AmolBhalerao8/dechico/internal/domain/model"
)

type ProfileRepo struct {
	pool  *pgxpool.Pool
	retry RetryPolicy
}

func NewProfileRepo(pool *pgxpool.Pool, retry RetryPolicy) *ProfileRepo {
	return &ProfileRepo{pool: pool, retry: retry}
}

const profileColumns = `
	user_id,
	email,
	name,
	first_name,
	last_name,
	alias,
	age,
	bio,
	interests,
	gender,
	gender_preference,
	ethnicity,
	photos,
	profile_complete,
	deleted_at`

func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Profile{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	var profile model.Profile
	err := r.retry.Do(ctx, "get_profile", func() error {
		p, err := scanProfile(r.pool.QueryRow(ctx, `
SELECT`+profileColumns+`
FROM profiles
WHERE user_id = $1
`, userID))
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

// ListComplete returns live complete profiles that have at least one photo.
// The remaining candidate filters run in the feed service.
func (r *ProfileRepo) ListComplete(ctx context.Context, limit int) ([]model.Profile, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 {
		return []model.Profile{}, nil
	}

	var items []model.Profile
	err := r.retry.Do(ctx, "list_complete_profiles", func() error {
		rows, err := r.pool.Query(ctx, `
SELECT`+profileColumns+`
FROM profiles
WHERE profile_complete = TRUE
	AND deleted_at IS NULL
	AND COALESCE(array_length(photos, 1), 0) > 0
ORDER BY created_at, user_id
LIMIT $1
`, limit)
		if err != nil {
			return fmt.Errorf("list complete profiles: %w", err)
		}
		defer rows.Close()

		items = make([]model.Profile, 0, limit)
		for rows.Next() {
			p, err := scanProfile(rows)
			if err != nil {
				return fmt.Errorf("scan profile: %w", err)
			}
			items = append(items, p)
		}
		if rows.Err() != nil {
			return fmt.Errorf("iterate profiles: %w", rows.Err())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *ProfileRepo) ListPendingErasure(ctx context.Context, limit int) ([]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 {
		limit = 100
	}

	var ids []string
	err := r.retry.Do(ctx, "list_pending_erasure", func() error {
		rows, err := r.pool.Query(ctx, `
SELECT user_id
FROM profiles
WHERE deleted_at IS NOT NULL AND erased_at IS NULL
ORDER BY deleted_at
LIMIT $1
`, limit)
		if err != nil {
			return fmt.Errorf("list profiles pending erasure: %w", err)
		}
		defer rows.Close()

		ids = make([]string, 0, limit)
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("scan profile pending erasure: %w", err)
			}
			ids = append(ids, id)
		}
		if rows.Err() != nil {
			return fmt.Errorf("iterate profiles pending erasure: %w", rows.Err())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *ProfileRepo) MarkErased(ctx context.Context, userID string, at time.Time) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	return r.retry.Do(ctx, "mark_profile_erased", func() error {
		if _, err := r.pool.Exec(ctx, `
UPDATE profiles
SET erased_at = $2, updated_at = NOW()
WHERE user_id = $1
`, userID, at.UTC()); err != nil {
			return fmt.Errorf("mark profile erased: %w", err)
		}
		return nil
	})
}

// Upsert backs the seed loader; profile editing itself lives elsewhere.
func (r *ProfileRepo) Upsert(ctx context.Context, profile model.Profile) error {
	if strings.TrimSpace(profile.UserID) == "" {
		return fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO profiles (`+profileColumns+`
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (user_id) DO UPDATE SET
	email = EXCLUDED.email,
	name = EXCLUDED.name,
	first_name = EXCLUDED.first_name,
	last_name = EXCLUDED.last_name,
	alias = EXCLUDED.alias,
	age = EXCLUDED.age,
	bio = EXCLUDED.bio,
	interests = EXCLUDED.interests,
	gender = EXCLUDED.gender,
	gender_preference = EXCLUDED.gender_preference,
	ethnicity = EXCLUDED.ethnicity,
	photos = EXCLUDED.photos,
	profile_complete = EXCLUDED.profile_complete,
	deleted_at = EXCLUDED.deleted_at,
	updated_at = NOW()
`,
		profile.UserID,
		profile.Email,
		profile.Name,
		profile.FirstName,
		profile.LastName,
		profile.Alias,
		profile.Age,
		profile.Bio,
		nonNilStrings(profile.Interests),
		profile.Gender,
		profile.GenderPreference,
		profile.Ethnicity,
		nonNilStrings(profile.Photos),
		profile.ProfileComplete,
		profile.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var p model.Profile
	if err := row.Scan(
		&p.UserID,
		&p.Email,
		&p.Name,
		&p.FirstName,
		&p.LastName,
		&p.Alias,
		&p.Age,
		&p.Bio,
		&p.Interests,
		&p.Gender,
		&p.GenderPreference,
		&p.Ethnicity,
		&p.Photos,
		&p.ProfileComplete,
		&p.DeletedAt,
	); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
