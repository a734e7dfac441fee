package projection

import (
	"time"

	"github.com/shopspring/decimal"
	v1 "github.com/steamopera/steamsync/internal/api/v1"
)

// ProfileResponse is a mirrored profile plus whether it is current for the
// configured sync frequency.
type ProfileResponse struct {
	v1.Profile
	Fresh bool `json:"fresh"`
}

// FriendListResponse is the most recent persisted friend list of a player.
type FriendListResponse struct {
	SteamID   string      `json:"steam_id"`
	Bucket    string      `json:"bucket"`
	Friends   []v1.Friend `json:"friends"`
	Count     int         `json:"count"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// DeltaQueryRequest selects the deltas of one player, optionally one year.
type DeltaQueryRequest struct {
	SteamID string
	Year    int // 0 means every year
}

// AppPlaytime is playtime gained on one app.
type AppPlaytime struct {
	AppID   string          `json:"app_id"`
	Minutes int64           `json:"minutes"`
	Hours   decimal.Decimal `json:"hours"`
}

// DeltaBucket is one persisted delta.
type DeltaBucket struct {
	Bucket       string          `json:"bucket"`
	TotalMinutes int64           `json:"total_minutes"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	Apps         []AppPlaytime   `json:"apps"`
}

// DeltaHistoryResponse lists deltas oldest first and rolls them up per app.
type DeltaHistoryResponse struct {
	SteamID      string          `json:"steam_id"`
	Buckets      []DeltaBucket   `json:"buckets"`
	Apps         []AppPlaytime   `json:"apps"`
	TotalMinutes int64           `json:"total_minutes"`
	TotalHours   decimal.Decimal `json:"total_hours"`
}
