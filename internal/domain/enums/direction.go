package enums

import "strings"

type Direction string

const (
	DirectionPass Direction = "PASS"
	DirectionLike Direction = "LIKE"
)

// ParseDirection accepts LIKE/PASS and the legacy RIGHT/LEFT swipe names.
func ParseDirection(raw string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "LIKE", "RIGHT":
		return DirectionLike, true
	case "PASS", "LEFT":
		return DirectionPass, true
	default:
		return "", false
	}
}

func (d Direction) Valid() bool {
	return d == DirectionPass || d == DirectionLike
}
