package v1

import (
	"time"

	"github.com/steamopera/steamsync/internal/core/bucket"
)

// DeltaItem is the positive playtime gained on one app between two buckets.
type DeltaItem struct {
	AppID        string `json:"app_id"`
	DeltaMinutes int64  `json:"delta_minutes"`
}

// PlaytimeDelta is derived from two consecutive PlaytimeSnapshots and is never
// fetched from the source. Keyed by (SteamID, Bucket) for idempotent upserts.
type PlaytimeDelta struct {
	SteamID           string      `json:"steam_id"`
	Items             []DeltaItem `json:"items"`
	TotalDeltaMinutes int64       `json:"total_delta_minutes"`
	Bucket            bucket.Key  `json:"bucket"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}
