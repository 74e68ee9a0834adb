package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultRetryAttempts = 3
	defaultRetryInterval = 50 * time.Millisecond
	maxRetryInterval     = time.Second
)

type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	OnRetry         func(op string)
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultRetryAttempts
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = defaultRetryInterval
	}
	return p
}

// Do runs fn up to MaxAttempts times. Only transient database errors are
// retried; everything else is returned as is on the first failure.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func() error) error {
	p = p.normalized()

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = p.InitialInterval
	expo.MaxInterval = maxRetryInterval
	expo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(p.MaxAttempts-1)), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		if p.OnRetry != nil && attempt < p.MaxAttempts {
			p.OnRetry(op)
		}
		return err
	}, policy)
}

// IsTransient reports serialization failures, deadlocks and connection
// errors that are safe to retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "57P01", "08000", "08003", "08006":
			return true
		default:
			return false
		}
	}

	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
