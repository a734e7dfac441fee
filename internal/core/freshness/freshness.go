package freshness

import (
	"time"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
	"github.com/steamopera/steamsync/internal/core/bucket"
)

// IsFresh decides whether a non-bucketed record (Profile, CatalogEntry) is
// current enough to skip a re-fetch this period.
//
// Month mode looks at CreatedAt while year mode looks at UpdatedAt. Both also
// accept a failed attempt in the same period so a record is tried at most once
// per period.
func IsFresh(ts v1.Timestamps, freq bucket.Frequency, now time.Time) bool {
	switch freq {
	case bucket.Year:
		if ts.UpdatedAt.Year() == now.Year() {
			return true
		}
		return ts.LastFailedUpdateAttempt != nil && ts.LastFailedUpdateAttempt.Year() == now.Year()
	default:
		if sameMonth(ts.CreatedAt, now) {
			return true
		}
		return ts.LastFailedUpdateAttempt != nil && sameMonth(*ts.LastFailedUpdateAttempt, now)
	}
}

// SnapshotFresh decides freshness for bucketed snapshots structurally: a row
// persisted under the current bucket is fresh, anything else is not.
func SnapshotFresh(persisted bucket.Key, freq bucket.Frequency, now time.Time) bool {
	return persisted == bucket.For(now, freq)
}

// Func adapts IsFresh to the reconcile fresh-predicate shape.
func Func[T interface{ Stamps() v1.Timestamps }](freq bucket.Frequency, now time.Time) func(T) bool {
	return func(e T) bool {
		return IsFresh(e.Stamps(), freq, now)
	}
}

func sameMonth(t, now time.Time) bool {
	return t.Year() == now.Year() && t.Month() == now.Month()
}
