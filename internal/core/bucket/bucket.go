package bucket

import (
	"fmt"
	"strings"
	"time"
)

// Frequency selects how snapshots are partitioned over time.
type Frequency string

const (
	Month Frequency = "month"
	Year  Frequency = "year"
)

// ParseFrequency accepts "month" or "year" (case-insensitive).
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case Month:
		return Month, nil
	case Year:
		return Year, nil
	}
	return "", fmt.Errorf("invalid frequency %q (must be month or year)", s)
}

// Key is the persisted partition of a snapshot-type entity.
// Year buckets carry Month == 0.
type Key struct {
	Year  int `json:"bucket_year"`
	Month int `json:"bucket_month"`
}

// For returns the bucket that contains now.
func For(now time.Time, freq Frequency) Key {
	if freq == Year {
		return Key{Year: now.Year()}
	}
	return Key{Year: now.Year(), Month: int(now.Month())}
}

// IsYear reports whether k is a year-only bucket.
func (k Key) IsYear() bool {
	return k.Month == 0
}

// Previous returns the bucket immediately before k.
// January wraps to December of the previous year.
func (k Key) Previous() Key {
	if k.IsYear() {
		return Key{Year: k.Year - 1}
	}
	if k.Month == 1 {
		return Key{Year: k.Year - 1, Month: 12}
	}
	return Key{Year: k.Year, Month: k.Month - 1}
}

// Validate rejects keys that cannot be persisted.
func (k Key) Validate() error {
	if k.Year <= 0 {
		return fmt.Errorf("bucket year must be > 0, got %d", k.Year)
	}
	if k.Month < 0 || k.Month > 12 {
		return fmt.Errorf("bucket month must be 0-12, got %d", k.Month)
	}
	return nil
}

func (k Key) String() string {
	if k.IsYear() {
		return fmt.Sprintf("%04d", k.Year)
	}
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}
