package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AmolBhalerao8/dechico/internal/domain/model"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) InsertBatch(ctx context.Context, events []model.Event) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if len(events) == 0 {
		return nil
	}

	const query = `
INSERT INTO events (
	user_id,
	name,
	payload,
	occurred_at,
	created_at
) VALUES (
	$1,
	$2,
	$3::jsonb,
	$4,
	NOW()
)
`

	batch := &pgx.Batch{}
	for _, event := range events {
		payload, err := json.Marshal(event.Props)
		if err != nil {
			return fmt.Errorf("marshal event props: %w", err)
		}

		var uid any
		if id := strings.TrimSpace(event.UserID); id != "" {
			uid = id
		}

		occurredAt := event.OccurredAt.UTC()
		if occurredAt.IsZero() {
			occurredAt = time.Now().UTC()
		}
		batch.Queue(query, uid, event.Name, string(payload), occurredAt)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(events); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert event batch item #%d: %w", i, err)
		}
	}

	return nil
}
