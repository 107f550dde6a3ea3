package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/lasty-backend/internal/config"
)

// Retryer re-runs store operations that failed with a transient error,
// using exponential backoff. Non-transient errors (constraint violations,
// not-found, validation) are returned immediately.
type Retryer struct {
	maxAttempts int
	baseWait    time.Duration
}

// NewRetryer creates a Retryer from database configuration.
func NewRetryer(cfg config.DatabaseConfig) *Retryer {
	return &Retryer{
		maxAttempts: cfg.RetryAttempts,
		baseWait:    cfg.RetryBaseWait,
	}
}

// Do executes op, retrying transient failures up to the configured number
// of attempts. The context cancels both the operation and the waits
// between attempts.
func (r *Retryer) Do(ctx context.Context, op func(ctx context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.baseWait

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(r.maxAttempts-1)), ctx)

	return backoff.Retry(func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

// Transient PostgreSQL error codes: connection exceptions (class 08),
// serialization_failure, deadlock_detected, cannot_connect_now.
var transientCodes = map[string]bool{
	"40001": true,
	"40P01": true,
	"57P03": true,
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || transientCodes[pgErr.Code]
	}

	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}
