package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	coreerrors "github.com/steamopera/steamsync/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleep captures the requested waits without blocking.
type recordingSleep struct {
	waits []time.Duration
}

func (r *recordingSleep) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func testPolicy(s *recordingSleep) Policy {
	p := DefaultPolicy()
	p.Sleep = s.sleep
	return p
}

func TestDo_TransientThenSuccess(t *testing.T) {
	s := &recordingSleep{}
	calls := 0

	got, err := Do(context.Background(), "fetch_friends", testPolicy(s), func(context.Context) (string, error) {
		calls++
		if calls <= 3 {
			return "", fmt.Errorf("timeout: %w", coreerrors.ErrTransient)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, s.waits)
}

func TestDo_PermanentIsNotRetried(t *testing.T) {
	s := &recordingSleep{}
	calls := 0
	cause := fmt.Errorf("status 404: %w", coreerrors.ErrPermanent)

	_, err := Do(context.Background(), "fetch_playtime", testPolicy(s), func(context.Context) (int, error) {
		calls++
		return 0, cause
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, s.waits)
	assert.ErrorIs(t, err, coreerrors.ErrSourceUnavailable)
	assert.ErrorIs(t, err, coreerrors.ErrPermanent)
	assert.True(t, coreerrors.IsSourceMiss(err))
}

func TestDo_UnclassifiedErrorIsPermanent(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), "fetch_profiles", testPolicy(&recordingSleep{}), func(context.Context) (int, error) {
		calls++
		return 0, errors.New("boom")
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, coreerrors.ErrSourceUnavailable)
}

func TestDo_ExhaustsBudget(t *testing.T) {
	s := &recordingSleep{}
	p := testPolicy(s)
	p.MaxAttempts = 4
	calls := 0

	_, err := Do(context.Background(), "fetch_friends", p, func(context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("429: %w", coreerrors.ErrTransient)
	})

	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.Len(t, s.waits, 3)
	assert.ErrorIs(t, err, coreerrors.ErrRetryExhausted)
	assert.ErrorIs(t, err, coreerrors.ErrTransient)
	assert.NotErrorIs(t, err, coreerrors.ErrSourceUnavailable)
	assert.True(t, coreerrors.IsSourceMiss(err))
}

func TestDo_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := DefaultPolicy()
	p.Sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	calls := 0
	_, err := Do(ctx, "fetch_friends", p, func(context.Context) (int, error) {
		calls++
		return 0, coreerrors.ErrTransient
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff_MonotonicAndCapped(t *testing.T) {
	p := Policy{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 30 * time.Second, Multiplier: 2}

	assert.Equal(t, time.Second, p.Backoff(0))
	assert.Equal(t, 2*time.Second, p.Backoff(1))
	assert.Equal(t, 16*time.Second, p.Backoff(4))
	assert.Equal(t, 30*time.Second, p.Backoff(5))
	assert.Equal(t, 30*time.Second, p.Backoff(20))

	prev := time.Duration(0)
	for i := 0; i < 64; i++ {
		cur := p.Backoff(i)
		assert.GreaterOrEqual(t, cur, prev, "attempt %d", i)
		prev = cur
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 10, p.MaxAttempts)
	assert.Equal(t, time.Second, p.BaseDelay)
	assert.Equal(t, 5*time.Minute, p.MaxDelay)
	assert.Equal(t, 2.0, p.Multiplier)
}

func TestDo_CancelledContextIsNotASourceMiss(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, "fetch_profiles", testPolicy(&recordingSleep{}), func(ctx context.Context) (int, error) {
		return 0, ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, coreerrors.IsSourceMiss(err))
}
