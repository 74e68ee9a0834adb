package rules

import "time"

const CooldownDuration = 10 * 24 * time.Hour

func CooldownUntil(recordedAt time.Time, cooldown time.Duration) time.Time {
	if cooldown <= 0 {
		cooldown = CooldownDuration
	}
	return recordedAt.UTC().Add(cooldown)
}

// CooldownExpired reports whether now is strictly past until. At the exact
// instant of until the decision still blocks.
func CooldownExpired(until, now time.Time) bool {
	return now.After(until)
}

func CooldownActive(until, now time.Time) bool {
	return !CooldownExpired(until, now)
}

func RetryAfterSec(until, now time.Time) int64 {
	if !until.After(now) {
		return 0
	}
	remaining := until.Sub(now)
	sec := int64(remaining / time.Second)
	if remaining%time.Second != 0 {
		sec++
	}
	return sec
}
