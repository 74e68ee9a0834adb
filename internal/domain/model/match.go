package model

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidMatch = errors.New("invalid match")

// Match always stores its pair ordered so that UserA < UserB.
type Match struct {
	ID        string    `json:"id"`
	UserA     string    `json:"user_a"`
	UserB     string    `json:"user_b"`
	MatchedAt time.Time `json:"matched_at"`
}

func NewMatch(id, first, second string, matchedAt time.Time) (Match, error) {
	a, b, err := CanonicalPair(first, second)
	if err != nil {
		return Match{}, err
	}
	return Match{
		ID:        id,
		UserA:     a,
		UserB:     b,
		MatchedAt: matchedAt.UTC(),
	}, nil
}

func CanonicalPair(first, second string) (string, string, error) {
	a := strings.TrimSpace(first)
	b := strings.TrimSpace(second)
	if a == "" || b == "" || a == b {
		return "", "", ErrInvalidMatch
	}
	if a > b {
		a, b = b, a
	}
	return a, b, nil
}

// PairKey identifies the unordered pair; callers must pass non-empty ids.
func PairKey(first, second string) string {
	if first > second {
		first, second = second, first
	}
	return first + "|" + second
}

func (m Match) Counterpart(userID string) (string, bool) {
	switch userID {
	case m.UserA:
		return m.UserB, true
	case m.UserB:
		return m.UserA, true
	default:
		return "", false
	}
}
