package swipes

import (
	"errors"
	"fmt"
	"time"

	"github.com/AmolBhalerao8/dechico/internal/domain/rules"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrUnsupportedDirection = fmt.Errorf("%w: unsupported direction", ErrValidation)
)

// CooldownActiveError is returned when the actor already decided on the
// target and that decision has not expired.
type CooldownActiveError struct {
	CooldownUntil time.Time
	now           time.Time
}

func (e CooldownActiveError) Error() string {
	return fmt.Sprintf("decision cooldown active until %s", e.CooldownUntil.UTC().Format(time.RFC3339))
}

func (e CooldownActiveError) RetryAfter() int64 {
	now := e.now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return rules.RetryAfterSec(e.CooldownUntil, now)
}

func (e CooldownActiveError) At(now time.Time) CooldownActiveError {
	e.now = now
	return e
}

func IsCooldownActive(err error) (CooldownActiveError, bool) {
	var target CooldownActiveError
	if errors.As(err, &target) {
		return target, true
	}
	return CooldownActiveError{}, false
}
