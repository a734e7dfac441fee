package reconcile

import (
	"sort"
	"time"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
	"github.com/steamopera/steamsync/internal/metrics"
)

// Entity is a mirrored record the reconciler can restamp.
type Entity[T any] interface {
	EntityID() string
	Stamps() v1.Timestamps
	WithStamps(ts v1.Timestamps) T
	WithRefreshFailure(now time.Time) T
}

// Outcome is the case an identity fell into.
type Outcome int

const (
	// Absent: neither persisted nor fetched.
	Absent Outcome = iota
	// Created: new record, first seen now.
	Created
	// MarkedMissing: stale record the source did not return this time.
	MarkedMissing
	// KeptFresh: fresh record the source did not return. Not written.
	KeptFresh
	// Refreshed: stale record replaced by fetched data.
	Refreshed
	// Unchanged: fresh record that was also fetched. Not written.
	Unchanged
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case MarkedMissing:
		return "marked_missing"
	case KeptFresh:
		return "kept_fresh"
	case Refreshed:
		return "refreshed"
	case Unchanged:
		return "unchanged"
	default:
		return "absent"
	}
}

// Stats counts outcomes of one reconcile pass.
type Stats struct {
	Absent        int
	Created       int
	MarkedMissing int
	KeptFresh     int
	Refreshed     int
	Unchanged     int
}

func (s *Stats) add(o Outcome) {
	switch o {
	case Created:
		s.Created++
	case MarkedMissing:
		s.MarkedMissing++
	case KeptFresh:
		s.KeptFresh++
	case Refreshed:
		s.Refreshed++
	case Unchanged:
		s.Unchanged++
	default:
		s.Absent++
	}
}

// Writes is the number of records the pass emitted.
func (s Stats) Writes() int {
	return s.Created + s.MarkedMissing + s.Refreshed
}

// Merge adds other into s.
func (s *Stats) Merge(other Stats) {
	s.Absent += other.Absent
	s.Created += other.Created
	s.MarkedMissing += other.MarkedMissing
	s.KeptFresh += other.KeptFresh
	s.Refreshed += other.Refreshed
	s.Unchanged += other.Unchanged
}

// Observe publishes the counts under the given entity label.
func (s Stats) Observe(entity string) {
	for o, n := range map[Outcome]int{
		Absent:        s.Absent,
		Created:       s.Created,
		MarkedMissing: s.MarkedMissing,
		KeptFresh:     s.KeptFresh,
		Refreshed:     s.Refreshed,
		Unchanged:     s.Unchanged,
	} {
		if n > 0 {
			metrics.ReconcileOutcomes.WithLabelValues(entity, o.String()).Add(float64(n))
		}
	}
}

// Input is one batch to reconcile.
type Input[T any] struct {
	// Identities requested this pass. Persisted and Fetched keys are added to
	// this set, so it may be empty.
	Identities []string
	Persisted  map[string]T
	Fetched    map[string]T
	// Fresh reports whether a persisted record is current for this period.
	Fresh func(T) bool
}

// Result is the write set of one pass, ordered by identity.
type Result[T any] struct {
	Upserts []T
	Stats   Stats
}

// Reconcile merges fetched records into persisted ones and returns the
// records that must be written. Every identity yields at most one record.
//
//	persisted  fetched  fresh  result
//	   no        no       -    nothing
//	   no        yes      -    fetched, created = updated = now
//	   yes       no       no   persisted, failed attempt at now
//	   yes       no       yes  nothing
//	   yes       yes      no   fetched, created kept, updated = now
//	   yes       yes      yes  nothing
func Reconcile[T Entity[T]](in Input[T], now time.Time) Result[T] {
	ids := union(in.Identities, in.Persisted, in.Fetched)

	var res Result[T]
	for _, id := range ids {
		out, outcome := classify(id, in, now)
		res.Stats.add(outcome)
		if out != nil {
			res.Upserts = append(res.Upserts, *out)
		}
	}
	return res
}

func classify[T Entity[T]](id string, in Input[T], now time.Time) (*T, Outcome) {
	persisted, inStore := in.Persisted[id]
	fetched, inSource := in.Fetched[id]

	switch {
	case !inStore && !inSource:
		return nil, Absent

	case !inStore:
		out := fetched.WithStamps(v1.Created(now))
		return &out, Created

	case !inSource:
		if in.Fresh != nil && in.Fresh(persisted) {
			return nil, KeptFresh
		}
		out := persisted.WithRefreshFailure(now)
		return &out, MarkedMissing

	default:
		if in.Fresh != nil && in.Fresh(persisted) {
			return nil, Unchanged
		}
		out := fetched.WithStamps(persisted.Stamps().Refreshed(now))
		return &out, Refreshed
	}
}

func union[T any](ids []string, persisted, fetched map[string]T) []string {
	seen := make(map[string]struct{}, len(ids)+len(persisted)+len(fetched))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for id := range persisted {
		seen[id] = struct{}{}
	}
	for id := range fetched {
		seen[id] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Index keys records by their identity. Later duplicates win.
func Index[T interface{ EntityID() string }](items []T) map[string]T {
	out := make(map[string]T, len(items))
	for _, item := range items {
		out[item.EntityID()] = item
	}
	return out
}
