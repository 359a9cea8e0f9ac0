// Package retry decorates a source with bounded exponential backoff for
// transient storage failures. Non-transient errors pass through unchanged.
package retry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"example.com/assettrack/internal/domain"
	"example.com/assettrack/internal/source"
)

// Policy bounds the retry behaviour applied to each adapter call.
type Policy struct {
	MaxAttempts     int           // total tries, including the first
	InitialInterval time.Duration
	MaxInterval     time.Duration
	CallTimeout     time.Duration // per-attempt deadline; 0 disables
}

// DefaultPolicy matches the connection-pool exhaustion profile this wrapper
// exists for: short waits, few attempts.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		CallTimeout:     5 * time.Second,
	}
}

// Wrap returns a Source whose Count and Page calls retry transiently failing
// storage operations under the given policy.
func Wrap(inner source.Source, policy Policy) source.Source {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &retrySource{inner: inner, policy: policy}
}

// WrapAll decorates every source in the slice with the same policy.
func WrapAll(sources []source.Source, policy Policy) []source.Source {
	out := make([]source.Source, len(sources))
	for i, src := range sources {
		out[i] = Wrap(src, policy)
	}
	return out
}

type retrySource struct {
	inner  source.Source
	policy Policy
}

func (s *retrySource) Kind() domain.ActivityType { return s.inner.Kind() }

func (s *retrySource) Count(ctx context.Context) (int, error) {
	return do(ctx, s.policy, func(ctx context.Context) (int, error) {
		return s.inner.Count(ctx)
	})
}

func (s *retrySource) Page(ctx context.Context, offset, limit int) ([]source.RawRecord, error) {
	return do(ctx, s.policy, func(ctx context.Context) ([]source.RawRecord, error) {
		return s.inner.Page(ctx, offset, limit)
	})
}

func do[T any](ctx context.Context, policy Policy, op func(context.Context) (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.InitialInterval
	bo.MaxInterval = policy.MaxInterval
	bo.Multiplier = 1.6
	bo.RandomizationFactor = 0.2

	attempt := func() (T, error) {
		callCtx := ctx
		cancel := func() {}
		if policy.CallTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, policy.CallTimeout)
		}
		defer cancel()

		value, err := op(callCtx)
		if err == nil {
			return value, nil
		}

		var zero T
		// A dead parent context means the caller is gone; do not spin.
		if ctx.Err() != nil || !IsTransient(err) {
			return zero, backoff.Permanent(err)
		}
		return zero, err
	}

	value, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(policy.MaxAttempts)),
	)
	if err != nil && IsTransient(err) && ctx.Err() == nil {
		var zero T
		return zero, &unavailableError{err: err}
	}
	return value, err
}

// unavailableError brands a transiently failing call that exhausted its
// retry budget while keeping the storage error reachable via Unwrap.
type unavailableError struct {
	err error
}

func (e *unavailableError) Error() string {
	return domain.ErrStorageUnavailable.Error() + ": " + e.err.Error()
}

func (e *unavailableError) Unwrap() error { return e.err }

func (e *unavailableError) Is(target error) bool {
	return target == domain.ErrStorageUnavailable
}

// Transient SQLSTATEs: connection slots exhausted, configured connection
// limit exceeded, server starting up.
var transientCodes = map[string]struct{}{
	"53300": {},
	"53400": {},
	"57P03": {},
}

// IsTransient reports whether err looks like connection-pool or
// connection-limit exhaustion worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := transientCodes[pgErr.Code]; ok {
			return true
		}
		// Class 08: connection exceptions.
		return strings.HasPrefix(pgErr.Code, "08")
	}

	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
