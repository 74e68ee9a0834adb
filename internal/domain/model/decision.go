package model

import (
	"errors"
	"strings"
	"time"

	"github.com/AmolBhalerao8/dechico/internal/domain/enums"
	"github.com/AmolBhalerao8/dechico/internal/domain/rules"
)

var (
	ErrInvalidDecision  = errors.New("invalid decision")
	ErrInvalidDirection = errors.New("invalid direction")
)

type Decision struct {
	ID            string          `json:"id"`
	ActorID       string          `json:"actor_id"`
	ActorEmail    string          `json:"actor_email,omitempty"`
	TargetID      string          `json:"target_id"`
	TargetEmail   string          `json:"target_email,omitempty"`
	Direction     enums.Direction `json:"direction"`
	RecordedAt    time.Time       `json:"recorded_at"`
	CooldownUntil time.Time       `json:"cooldown_until"`
}

type DecisionParams struct {
	ID          string
	ActorID     string
	ActorEmail  string
	TargetID    string
	TargetEmail string
	Direction   enums.Direction
	RecordedAt  time.Time
	Cooldown    time.Duration
}

func NewDecision(p DecisionParams) (Decision, error) {
	actor := strings.TrimSpace(p.ActorID)
	target := strings.TrimSpace(p.TargetID)
	if actor == "" || target == "" || actor == target {
		return Decision{}, ErrInvalidDecision
	}
	if !p.Direction.Valid() {
		return Decision{}, ErrInvalidDirection
	}

	recordedAt := p.RecordedAt.UTC()
	return Decision{
		ID:            p.ID,
		ActorID:       actor,
		ActorEmail:    strings.TrimSpace(p.ActorEmail),
		TargetID:      target,
		TargetEmail:   strings.TrimSpace(p.TargetEmail),
		Direction:     p.Direction,
		RecordedAt:    recordedAt,
		CooldownUntil: rules.CooldownUntil(recordedAt, p.Cooldown),
	}, nil
}

func (d Decision) ActiveAt(now time.Time) bool {
	return rules.CooldownActive(d.CooldownUntil, now)
}
