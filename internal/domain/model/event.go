package model

import "time"

type Event struct {
	UserID     string         `json:"user_id"`
	Name       string         `json:"name"`
	Props      map[string]any `json:"props"`
	OccurredAt time.Time      `json:"occurred_at"`
}
