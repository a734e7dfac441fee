package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreerrors "github.com/steamopera/steamsync/internal/core/errors"
	"github.com/steamopera/steamsync/internal/metrics"
)

const (
	defaultMaxAttempts = 10
	defaultBaseDelay   = time.Second
	defaultMaxDelay    = 5 * time.Minute
	defaultMultiplier  = 2.0
)

// Policy bounds how a source call is retried.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64

	// Sleep blocks for d or until ctx is done. Nil means a real timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy returns 10 attempts starting at 1s, doubling up to 5m.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
		MaxDelay:    defaultMaxDelay,
		Multiplier:  defaultMultiplier,
	}
}

func (p Policy) normalized() Policy {
	n := p
	if n.MaxAttempts <= 0 {
		n.MaxAttempts = defaultMaxAttempts
	}
	if n.BaseDelay < 0 {
		n.BaseDelay = defaultBaseDelay
	}
	if n.MaxDelay <= 0 {
		n.MaxDelay = defaultMaxDelay
	}
	if n.MaxDelay < n.BaseDelay {
		n.MaxDelay = n.BaseDelay
	}
	if n.Multiplier < 1 {
		n.Multiplier = defaultMultiplier
	}
	if n.Sleep == nil {
		n.Sleep = sleepContext
	}
	return n
}

// Backoff returns the wait before retry number attempt (0-based):
// BaseDelay * Multiplier^attempt, capped at MaxDelay. The sequence never
// decreases.
func (p Policy) Backoff(attempt int) time.Duration {
	p = p.normalized()
	backoff := p.BaseDelay
	for i := 0; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * p.Multiplier)
		if backoff >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return backoff
}

// Do runs call until it succeeds, fails permanently, or the attempt budget is
// spent on transient failures.
//
// Errors wrapping coreerrors.ErrTransient are retried. Anything else is
// permanent and returned at once wrapped in ErrSourceUnavailable. Exhausting
// the budget returns ErrRetryExhausted wrapping the last cause. A cancelled
// ctx returns the context error, never a source miss.
func Do[T any](ctx context.Context, op string, p Policy, call func(ctx context.Context) (T, error)) (T, error) {
	p = p.normalized()
	var zero T
	var lastErr error

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		result, err := call(ctx)
		if err == nil {
			metrics.SourceCalls.WithLabelValues(op, "success").Inc()
			return result, nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, fmt.Errorf("%s: %w", op, ctxErr)
		}

		if !errors.Is(err, coreerrors.ErrTransient) {
			metrics.SourceCalls.WithLabelValues(op, "permanent").Inc()
			metrics.SourceGiveUps.WithLabelValues(op, "unavailable").Inc()
			return zero, fmt.Errorf("%s: %w: %w", op, coreerrors.ErrSourceUnavailable, err)
		}
		metrics.SourceCalls.WithLabelValues(op, "transient").Inc()

		if attempt == p.MaxAttempts-1 {
			break
		}

		wait := p.Backoff(attempt)
		slog.Debug("[Retry] Transient failure, backing off",
			"operation", op,
			"attempt", attempt+1,
			"max_attempts", p.MaxAttempts,
			"backoff", wait,
			"error", err,
		)
		if err := p.Sleep(ctx, wait); err != nil {
			return zero, fmt.Errorf("%s: %w", op, err)
		}
	}

	metrics.SourceGiveUps.WithLabelValues(op, "exhausted").Inc()
	return zero, fmt.Errorf("%s: %w after %d attempts: %w", op, coreerrors.ErrRetryExhausted, p.MaxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
