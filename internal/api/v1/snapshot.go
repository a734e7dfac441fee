package v1

import (
	"fmt"
	"time"

	"github.com/steamopera/steamsync/internal/core/bucket"
)

// Friend is one edge of a player's friend list.
type Friend struct {
	SteamID     string    `json:"steam_id"`
	FriendSince time.Time `json:"friend_since"`
}

// FriendSnapshot is a player's friend list as seen in one bucket.
// Friends keep the order the source returned them in.
type FriendSnapshot struct {
	SteamID string     `json:"steam_id"`
	Friends []Friend   `json:"friends"`
	Bucket  bucket.Key `json:"bucket"`

	Timestamps
}

// FriendIDs returns the friend SteamIDs in snapshot order.
func (s FriendSnapshot) FriendIDs() []string {
	ids := make([]string, 0, len(s.Friends))
	for _, f := range s.Friends {
		ids = append(ids, f.SteamID)
	}
	return ids
}

func (s FriendSnapshot) EntityID() string   { return s.SteamID }
func (s FriendSnapshot) Stamps() Timestamps { return s.Timestamps }

func (s FriendSnapshot) WithStamps(ts Timestamps) FriendSnapshot {
	s.Timestamps = ts
	return s
}

func (s FriendSnapshot) WithRefreshFailure(now time.Time) FriendSnapshot {
	s.Timestamps = s.Timestamps.Failed(now)
	return s
}

// PlaytimeItem is the accumulated playtime of one app.
type PlaytimeItem struct {
	AppID         string     `json:"app_id"`
	MinutesPlayed int64      `json:"minutes_played"`
	LastPlayedAt  *time.Time `json:"last_played_at,omitempty"`
}

// PlaytimeSnapshot is a player's owned-games playtime as seen in one bucket.
// Consecutive snapshots are the input of the delta pass.
type PlaytimeSnapshot struct {
	SteamID string         `json:"steam_id"`
	Items   []PlaytimeItem `json:"items"`
	Bucket  bucket.Key     `json:"bucket"`

	Timestamps
}

// AppIDs returns the app ids in snapshot order.
func (s PlaytimeSnapshot) AppIDs() []string {
	ids := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		ids = append(ids, item.AppID)
	}
	return ids
}

func (s PlaytimeSnapshot) EntityID() string   { return s.SteamID }
func (s PlaytimeSnapshot) Stamps() Timestamps { return s.Timestamps }

func (s PlaytimeSnapshot) WithStamps(ts Timestamps) PlaytimeSnapshot {
	s.Timestamps = ts
	return s
}

func (s PlaytimeSnapshot) WithRefreshFailure(now time.Time) PlaytimeSnapshot {
	s.Timestamps = s.Timestamps.Failed(now)
	return s
}

// ValidateSnapshot checks the identity and bucket shared by both snapshot kinds.
func ValidateSnapshot(steamID string, key bucket.Key) error {
	if steamID == "" {
		return fmt.Errorf("steam_id is required")
	}
	if err := key.Validate(); err != nil {
		return err
	}
	return nil
}
