package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
	"github.com/steamopera/steamsync/internal/batch"
	"github.com/steamopera/steamsync/internal/core/bucket"
	coreerrors "github.com/steamopera/steamsync/internal/core/errors"
	"github.com/steamopera/steamsync/internal/core/freshness"
	"github.com/steamopera/steamsync/internal/core/retry"
	"github.com/steamopera/steamsync/internal/core/storage"
	"github.com/steamopera/steamsync/internal/metrics"
	"github.com/steamopera/steamsync/internal/reconcile"
)

const defaultProfileChunkSize = 100

// Options tunes a Syncer.
type Options struct {
	Frequency bucket.Frequency
	Retry     retry.Policy
	// Batch applies to friend lists, playtime and catalog entries.
	Batch batch.Options
	// ProfileChunkSize is the number of profiles fetched per source call.
	ProfileChunkSize int
}

func (o Options) normalized() Options {
	n := o
	if n.Frequency == "" {
		n.Frequency = bucket.Month
	}
	if n.Retry.MaxAttempts == 0 {
		sleep := n.Retry.Sleep
		n.Retry = retry.DefaultPolicy()
		n.Retry.Sleep = sleep
	}
	if n.ProfileChunkSize <= 0 {
		n.ProfileChunkSize = defaultProfileChunkSize
	}
	return n
}

// Syncer refreshes each entity type for a list of identities. Every method
// only fetches what is not fresh for the current period.
type Syncer struct {
	source Source
	store  storage.Store
	opts   Options
}

// NewSyncer returns a Syncer.
func NewSyncer(source Source, store storage.Store, opts Options) *Syncer {
	return &Syncer{source: source, store: store, opts: opts.normalized()}
}

// Bucket returns the snapshot bucket that contains now.
func (s *Syncer) Bucket(now time.Time) bucket.Key {
	return bucket.For(now, s.opts.Frequency)
}

// SyncProfiles refreshes stale profiles. A profile the source no longer
// returns keeps its data and is flagged missing-in-action. A chunk whose
// fetch exhausts its retries is skipped for this run.
func (s *Syncer) SyncProfiles(ctx context.Context, steamIDs []string, now time.Time) (reconcile.Stats, error) {
	fresh := freshness.Func[v1.Profile](s.opts.Frequency, now)
	opts := s.opts.Batch
	opts.ChunkSize = s.opts.ProfileChunkSize

	var acc statsAccumulator
	driver := batch.New("profiles", opts, upsertSink("profile", s.store.UpsertProfiles))
	_, err := driver.Run(ctx, steamIDs, func(ctx context.Context, chunk []string, emit batch.Emit[v1.Profile]) error {
		persisted, err := s.store.FindProfiles(ctx, chunk)
		if err != nil {
			return err
		}
		known := reconcile.Index(persisted)

		var stale []string
		for _, id := range chunk {
			if p, ok := known[id]; !ok || !fresh(p) {
				stale = append(stale, id)
			}
		}

		var fetched []v1.Profile
		if len(stale) > 0 {
			fetched, err = retry.Do(ctx, "fetch_profiles", s.opts.Retry, func(ctx context.Context) ([]v1.Profile, error) {
				return s.source.FetchProfiles(ctx, stale)
			})
			switch {
			case errors.Is(err, coreerrors.ErrRetryExhausted):
				return err
			case coreerrors.IsSourceMiss(err):
				fetched = nil
			case err != nil:
				return err
			}
		}

		res := reconcile.Reconcile(reconcile.Input[v1.Profile]{
			Identities: chunk,
			Persisted:  known,
			Fetched:    reconcile.Index(onlyRequested(fetched, stale)),
			Fresh:      fresh,
		}, now)
		acc.add(res.Stats)
		return emit(res.Upserts...)
	})
	return acc.finish("profile"), err
}

// SyncFriendLists fetches a friend list for every identity without a
// snapshot in the current bucket.
func (s *Syncer) SyncFriendLists(ctx context.Context, steamIDs []string, now time.Time) (reconcile.Stats, error) {
	key := s.Bucket(now)

	var acc statsAccumulator
	driver := batch.New("friend_lists", s.opts.Batch, upsertSink("friend_snapshot", s.store.UpsertFriendSnapshots))
	_, err := driver.Run(ctx, steamIDs, func(ctx context.Context, chunk []string, emit batch.Emit[v1.FriendSnapshot]) error {
		existing, err := s.store.ExistingFriendSnapshotIDs(ctx, chunk, key)
		if err != nil {
			return err
		}

		missing := without(chunk, existing)
		fetched := make(map[string]v1.FriendSnapshot, len(missing))
		for _, id := range missing {
			friends, ok, err := fetchOne(ctx, "fetch_friends", s.opts.Retry, func(ctx context.Context) ([]v1.Friend, error) {
				return s.source.FetchFriends(ctx, id)
			})
			if err != nil {
				return err
			}
			if ok {
				fetched[id] = v1.FriendSnapshot{SteamID: id, Friends: friends, Bucket: key}
			}
		}

		res := reconcile.Reconcile(reconcile.Input[v1.FriendSnapshot]{
			Identities: missing,
			Fetched:    fetched,
		}, now)
		res.Stats.KeptFresh += len(chunk) - len(missing)
		acc.add(res.Stats)
		return emit(res.Upserts...)
	})
	return acc.finish("friend_snapshot"), err
}

// SyncPlaytime fetches owned-games playtime for every identity without a
// snapshot in the current bucket.
func (s *Syncer) SyncPlaytime(ctx context.Context, steamIDs []string, now time.Time) (reconcile.Stats, error) {
	key := s.Bucket(now)

	var acc statsAccumulator
	driver := batch.New("playtime", s.opts.Batch, upsertSink("playtime_snapshot", s.store.UpsertPlaytimeSnapshots))
	_, err := driver.Run(ctx, steamIDs, func(ctx context.Context, chunk []string, emit batch.Emit[v1.PlaytimeSnapshot]) error {
		existing, err := s.store.ExistingPlaytimeSnapshotIDs(ctx, chunk, key)
		if err != nil {
			return err
		}

		missing := without(chunk, existing)
		fetched := make(map[string]v1.PlaytimeSnapshot, len(missing))
		for _, id := range missing {
			items, ok, err := fetchOne(ctx, "fetch_playtime", s.opts.Retry, func(ctx context.Context) ([]v1.PlaytimeItem, error) {
				return s.source.FetchPlaytime(ctx, id)
			})
			if err != nil {
				return err
			}
			if ok {
				fetched[id] = v1.PlaytimeSnapshot{SteamID: id, Items: items, Bucket: key}
			}
		}

		res := reconcile.Reconcile(reconcile.Input[v1.PlaytimeSnapshot]{
			Identities: missing,
			Fetched:    fetched,
		}, now)
		res.Stats.KeptFresh += len(chunk) - len(missing)
		acc.add(res.Stats)
		return emit(res.Upserts...)
	})
	return acc.finish("playtime_snapshot"), err
}

// SyncCatalog refreshes stale catalog entries. An entry the store no longer
// serves keeps its data and records the failed attempt.
func (s *Syncer) SyncCatalog(ctx context.Context, appIDs []string, now time.Time) (reconcile.Stats, error) {
	fresh := freshness.Func[v1.CatalogEntry](s.opts.Frequency, now)

	var acc statsAccumulator
	driver := batch.New("catalog", s.opts.Batch, upsertSink("catalog_entry", s.store.UpsertCatalogEntries))
	_, err := driver.Run(ctx, appIDs, func(ctx context.Context, chunk []string, emit batch.Emit[v1.CatalogEntry]) error {
		persisted, err := s.store.FindCatalogEntries(ctx, chunk)
		if err != nil {
			return err
		}
		known := reconcile.Index(persisted)

		fetched := make(map[string]v1.CatalogEntry)
		for _, id := range chunk {
			if c, ok := known[id]; ok && fresh(c) {
				continue
			}
			entry, ok, err := fetchOne(ctx, "fetch_catalog_entry", s.opts.Retry, func(ctx context.Context) (*v1.CatalogEntry, error) {
				return s.source.FetchCatalogEntry(ctx, id)
			})
			if err != nil {
				return err
			}
			if ok && entry != nil {
				fetched[id] = *entry
			}
		}

		res := reconcile.Reconcile(reconcile.Input[v1.CatalogEntry]{
			Identities: chunk,
			Persisted:  known,
			Fetched:    fetched,
			Fresh:      fresh,
		}, now)
		acc.add(res.Stats)
		return emit(res.Upserts...)
	})
	return acc.finish("catalog_entry"), err
}

// fetchOne retries call and folds a source miss into ok == false.
func fetchOne[T any](ctx context.Context, op string, p retry.Policy, call func(context.Context) (T, error)) (T, bool, error) {
	v, err := retry.Do(ctx, op, p, call)
	if err == nil {
		return v, true, nil
	}
	if coreerrors.IsSourceMiss(err) {
		slog.Debug("[Scraper] Source returned no data", "operation", op, "error", err)
		var zero T
		return zero, false, nil
	}
	return v, false, err
}

func upsertSink[T any](entity string, upsert func(context.Context, []T) error) batch.Sink[T] {
	return func(ctx context.Context, items []T) error {
		if err := upsert(ctx, items); err != nil {
			return fmt.Errorf("upsert %s: %w", entity, err)
		}
		metrics.Upserts.WithLabelValues(entity).Add(float64(len(items)))
		return nil
	}
}

// onlyRequested drops records for ids that were not asked for, such as fresh
// ids a bulk endpoint returned anyway.
func onlyRequested(items []v1.Profile, ids []string) []v1.Profile {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := items[:0:0]
	for _, p := range items {
		if _, ok := want[p.SteamID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func without(ids []string, drop map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

type statsAccumulator struct {
	mu    sync.Mutex
	stats reconcile.Stats
}

func (a *statsAccumulator) add(s reconcile.Stats) {
	a.mu.Lock()
	a.stats.Merge(s)
	a.mu.Unlock()
}

func (a *statsAccumulator) finish(entity string) reconcile.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats.Observe(entity)
	return a.stats
}
