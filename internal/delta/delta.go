package delta

import (
	"time"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
)

// Compute returns the playtime gained between previous and current.
//
// Apps missing from previous count from zero. Only strictly positive deltas
// are kept; resets and corrections are dropped. Items keep current's order.
func Compute(current, previous v1.PlaytimeSnapshot, now time.Time) v1.PlaytimeDelta {
	before := make(map[string]int64, len(previous.Items))
	for _, item := range previous.Items {
		before[item.AppID] = item.MinutesPlayed
	}

	items := make([]v1.DeltaItem, 0, len(current.Items))
	var total int64
	for _, item := range current.Items {
		d := item.MinutesPlayed - before[item.AppID]
		if d <= 0 {
			continue
		}
		items = append(items, v1.DeltaItem{AppID: item.AppID, DeltaMinutes: d})
		total += d
	}

	return v1.PlaytimeDelta{
		SteamID:           current.SteamID,
		Items:             items,
		TotalDeltaMinutes: total,
		Bucket:            current.Bucket,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
