package v1

import "time"

// Timestamps is shared by every mirrored entity.
//
// CreatedAt is written once, on the first persist, and never overwritten.
// UpdatedAt moves forward on every successful refresh from the source.
// LastFailedUpdateAttempt records the last refresh that came back empty.
type Timestamps struct {
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
	LastFailedUpdateAttempt *time.Time `json:"last_failed_update_attempt,omitempty"`
}

// Created returns stamps for a record persisted for the first time.
func Created(now time.Time) Timestamps {
	return Timestamps{CreatedAt: now, UpdatedAt: now}
}

// Refreshed keeps the first-seen time and the last failure marker of ts and
// moves UpdatedAt to now.
func (ts Timestamps) Refreshed(now time.Time) Timestamps {
	return Timestamps{
		CreatedAt:               ts.CreatedAt,
		UpdatedAt:               now,
		LastFailedUpdateAttempt: copyTime(ts.LastFailedUpdateAttempt),
	}
}

// Failed records a refresh attempt at now that returned nothing usable.
func (ts Timestamps) Failed(now time.Time) Timestamps {
	at := now
	return Timestamps{
		CreatedAt:               ts.CreatedAt,
		UpdatedAt:               ts.UpdatedAt,
		LastFailedUpdateAttempt: &at,
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
