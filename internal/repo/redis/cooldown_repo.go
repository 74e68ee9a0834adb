package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AmolBhalerao8/dechico/internal/domain/model"
)

const (
	cooldownKeyPrefix = "cooldown:targets:"
	warmMember        = "__warm__"
	// Far enough in the future that the marker survives every prune.
	warmScore = float64(1 << 53)
)

// rememberScript adds the target and extends the key ttl, never shortening it.
var rememberScript = goredis.NewScript(`
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[2])
local ttl = tonumber(ARGV[3])
if redis.call('PTTL', KEYS[1]) < ttl then
	redis.call('PEXPIRE', KEYS[1], ttl)
end
return 1
`)

// CooldownRepo caches, per actor, the targets whose cooldown has not
// expired. Each set is a sorted set scored by cooldown expiry in
// microseconds. A set only counts as complete once Warm has added the
// warm marker; targets remembered before that are kept and merged. The
// decision store stays the source of truth.
type CooldownRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewCooldownRepo(client *goredis.Client, ttl time.Duration) *CooldownRepo {
	return &CooldownRepo{client: client, ttl: ttl}
}

func (r *CooldownRepo) Remember(ctx context.Context, actorID, targetID string, until, now time.Time) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if actorID == "" || targetID == "" {
		return fmt.Errorf("invalid cooldown index payload")
	}

	ttl := until.Sub(now)
	if ttl < r.ttl {
		ttl = r.ttl
	}
	if ttl <= 0 {
		return nil
	}

	err := rememberScript.Run(ctx, r.client, []string{cooldownKey(actorID)},
		until.UnixMicro(),
		targetID,
		ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("remember cooldown target: %w", err)
	}
	return nil
}

// ActiveTargets reports hit=false when the actor's index is cold.
func (r *CooldownRepo) ActiveTargets(ctx context.Context, actorID string, now time.Time) (map[string]struct{}, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}

	key := cooldownKey(actorID)
	nowScore := strconv.FormatInt(now.UnixMicro(), 10)

	var (
		marker  *goredis.FloatCmd
		members *goredis.StringSliceCmd
	)
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		marker = pipe.ZScore(ctx, key, warmMember)
		pipe.ZRemRangeByScore(ctx, key, "-inf", "("+nowScore)
		members = pipe.ZRangeByScore(ctx, key, &goredis.ZRangeBy{Min: nowScore, Max: "+inf"})
		return nil
	})
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, false, fmt.Errorf("read cooldown index: %w", err)
	}
	if errors.Is(marker.Err(), goredis.Nil) {
		return nil, false, nil
	}
	if marker.Err() != nil {
		return nil, false, fmt.Errorf("read cooldown index marker: %w", marker.Err())
	}
	if members.Err() != nil {
		return nil, false, fmt.Errorf("read cooldown index members: %w", members.Err())
	}

	targets := make(map[string]struct{}, len(members.Val()))
	for _, member := range members.Val() {
		if member == warmMember {
			continue
		}
		targets[member] = struct{}{}
	}
	return targets, true, nil
}

// Warm merges the given active decisions into the actor's index and marks it
// complete. Targets remembered while the snapshot was being read survive.
func (r *CooldownRepo) Warm(ctx context.Context, actorID string, decisions []model.Decision, now time.Time) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if r.ttl <= 0 {
		return nil
	}

	key := cooldownKey(actorID)
	entries := make([]goredis.Z, 0, len(decisions)+1)
	entries = append(entries, goredis.Z{Score: warmScore, Member: warmMember})
	for _, d := range decisions {
		if !d.ActiveAt(now) {
			continue
		}
		entries = append(entries, goredis.Z{Score: float64(d.CooldownUntil.UnixMicro()), Member: d.TargetID})
	}

	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZAdd(ctx, key, entries...)
		pipe.PExpire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("warm cooldown index: %w", err)
	}
	return nil
}

func (r *CooldownRepo) Forget(ctx context.Context, actorID string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, cooldownKey(actorID)).Err(); err != nil {
		return fmt.Errorf("forget cooldown index: %w", err)
	}
	return nil
}

func cooldownKey(actorID string) string {
	return cooldownKeyPrefix + actorID
}
