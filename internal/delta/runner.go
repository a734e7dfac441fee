package delta

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
	"github.com/steamopera/steamsync/internal/batch"
	"github.com/steamopera/steamsync/internal/core/bucket"
	"github.com/steamopera/steamsync/internal/metrics"
)

const defaultChunkSize = 200

// Store is the subset of storage.Store the delta pass needs.
type Store interface {
	PlaytimeSnapshotIDs(ctx context.Context, key bucket.Key) ([]string, error)
	FindPlaytimeSnapshots(ctx context.Context, steamIDs []string, key bucket.Key) ([]v1.PlaytimeSnapshot, error)
	UpsertPlaytimeDeltas(ctx context.Context, deltas []v1.PlaytimeDelta) error
}

// Summary reports one delta pass.
type Summary struct {
	Bucket       bucket.Key
	Players      int
	Deltas       int
	NoPrevious   int
	TotalMinutes int64
}

// Runner computes deltas for every player with a snapshot in a bucket.
type Runner struct {
	store Store
	opts  batch.Options
}

// NewRunner returns a Runner. A zero ChunkSize defaults to 200.
func NewRunner(store Store, opts batch.Options) *Runner {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	return &Runner{store: store, opts: opts}
}

// Run derives the deltas of key against the bucket right before it and
// upserts them. Players without a snapshot in the previous bucket are skipped.
// Store failures are fatal.
func (r *Runner) Run(ctx context.Context, key bucket.Key, now time.Time) (Summary, error) {
	if err := key.Validate(); err != nil {
		return Summary{}, fmt.Errorf("delta: %w", err)
	}
	prev := key.Previous()

	ids, err := r.store.PlaytimeSnapshotIDs(ctx, key)
	if err != nil {
		return Summary{}, fmt.Errorf("delta: list players in %s: %w", key, err)
	}

	slog.Info("[Delta] Starting pass",
		"bucket", key.String(),
		"previous", prev.String(),
		"players", len(ids))

	var (
		mu      sync.Mutex
		summary = Summary{Bucket: key, Players: len(ids)}
	)

	driver := batch.New("delta", r.opts, func(ctx context.Context, deltas []v1.PlaytimeDelta) error {
		if err := r.store.UpsertPlaytimeDeltas(ctx, deltas); err != nil {
			return err
		}
		metrics.Upserts.WithLabelValues("playtime_delta").Add(float64(len(deltas)))
		return nil
	})

	_, err = driver.Run(ctx, ids, func(ctx context.Context, chunk []string, emit batch.Emit[v1.PlaytimeDelta]) error {
		current, err := r.store.FindPlaytimeSnapshots(ctx, chunk, key)
		if err != nil {
			return fmt.Errorf("find %s snapshots: %w", key, err)
		}
		previous, err := r.store.FindPlaytimeSnapshots(ctx, chunk, prev)
		if err != nil {
			return fmt.Errorf("find %s snapshots: %w", prev, err)
		}

		before := make(map[string]v1.PlaytimeSnapshot, len(previous))
		for _, s := range previous {
			before[s.SteamID] = s
		}

		var computed, skipped int
		var minutes int64
		for _, cur := range current {
			p, ok := before[cur.SteamID]
			if !ok {
				skipped++
				continue
			}
			d := Compute(cur, p, now)
			computed++
			minutes += d.TotalDeltaMinutes
			if err := emit(d); err != nil {
				return err
			}
		}

		mu.Lock()
		summary.Deltas += computed
		summary.NoPrevious += skipped
		summary.TotalMinutes += minutes
		mu.Unlock()
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("delta: %w", err)
	}

	slog.Info("[Delta] Pass complete",
		"bucket", key.String(),
		"deltas", summary.Deltas,
		"no_previous", summary.NoPrevious,
		"total_minutes", summary.TotalMinutes)
	return summary, nil
}
