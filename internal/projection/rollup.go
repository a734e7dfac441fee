package projection

import (
	"sort"

	"github.com/shopspring/decimal"
	v1 "github.com/steamopera/steamsync/internal/api/v1"
)

var minutesPerHour = decimal.NewFromInt(60)

// Hours converts minutes to hours rounded to two places.
func Hours(minutes int64) decimal.Decimal {
	return decimal.NewFromInt(minutes).Div(minutesPerHour).Round(2)
}

// convertBuckets keeps the delta order and each delta's item order.
func convertBuckets(deltas []v1.PlaytimeDelta) []DeltaBucket {
	out := make([]DeltaBucket, 0, len(deltas))
	for _, d := range deltas {
		apps := make([]AppPlaytime, 0, len(d.Items))
		for _, item := range d.Items {
			apps = append(apps, AppPlaytime{
				AppID:   item.AppID,
				Minutes: item.DeltaMinutes,
				Hours:   Hours(item.DeltaMinutes),
			})
		}
		out = append(out, DeltaBucket{
			Bucket:       d.Bucket.String(),
			TotalMinutes: d.TotalDeltaMinutes,
			TotalHours:   Hours(d.TotalDeltaMinutes),
			Apps:         apps,
		})
	}
	return out
}

// rollupApps sums every delta per app. Apps are ordered by minutes gained,
// most first, then by app id.
func rollupApps(deltas []v1.PlaytimeDelta) ([]AppPlaytime, int64) {
	totals := make(map[string]int64)
	var total int64
	for _, d := range deltas {
		for _, item := range d.Items {
			totals[item.AppID] += item.DeltaMinutes
			total += item.DeltaMinutes
		}
	}

	apps := make([]AppPlaytime, 0, len(totals))
	for id, minutes := range totals {
		apps = append(apps, AppPlaytime{AppID: id, Minutes: minutes, Hours: Hours(minutes)})
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Minutes != apps[j].Minutes {
			return apps[i].Minutes > apps[j].Minutes
		}
		return apps[i].AppID < apps[j].AppID
	})
	return apps, total
}
