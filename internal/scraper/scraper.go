package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
	"github.com/steamopera/steamsync/internal/core/bucket"
	"github.com/steamopera/steamsync/internal/reconcile"
)

// ErrTargetNotFound is returned when the target player has no persisted
// profile after the profile pass.
var ErrTargetNotFound = errors.New("target player not found")

// Target is one player to scrape around.
type Target struct {
	SteamID string `yaml:"steam_id"`
	// FetchFriends extends the playtime and catalog passes to every friend.
	FetchFriends bool `yaml:"fetch_friends"`
}

// Summary reports what one Run touched.
type Summary struct {
	SteamID        string
	PersonaName    string
	Bucket         bucket.Key
	Friends        int
	CatalogEntries int

	Profiles    reconcile.Stats
	FriendLists reconcile.Stats
	Playtime    reconcile.Stats
	Catalog     reconcile.Stats
}

// Run scrapes a target player and the neighbourhood around it: the target's
// profile, friend list, playtime and the catalog entries of its apps, then the
// profiles and friend lists of its friends. With FetchFriends set, friends'
// playtime and their remaining apps follow.
func (s *Syncer) Run(ctx context.Context, target Target, now time.Time) (Summary, error) {
	key := s.Bucket(now)
	sum := Summary{SteamID: target.SteamID, Bucket: key}
	self := []string{target.SteamID}

	slog.Info("[Scraper] Starting run",
		"steam_id", target.SteamID,
		"bucket", key.String(),
		"fetch_friends", target.FetchFriends,
	)

	stats, err := s.SyncProfiles(ctx, self, now)
	sum.Profiles.Merge(stats)
	if err != nil {
		return sum, fmt.Errorf("sync target profile: %w", err)
	}

	profiles, err := s.store.FindProfiles(ctx, self)
	if err != nil {
		return sum, fmt.Errorf("load target profile: %w", err)
	}
	if len(profiles) == 0 {
		slog.Warn("[Scraper] Target profile was not retrieved", "steam_id", target.SteamID)
		return sum, fmt.Errorf("%s: %w", target.SteamID, ErrTargetNotFound)
	}
	sum.PersonaName = profiles[0].PersonaName

	if stats, err = s.SyncFriendLists(ctx, self, now); err != nil {
		return sum, fmt.Errorf("sync target friend list: %w", err)
	}
	sum.FriendLists.Merge(stats)

	if stats, err = s.SyncPlaytime(ctx, self, now); err != nil {
		return sum, fmt.Errorf("sync target playtime: %w", err)
	}
	sum.Playtime.Merge(stats)

	done := make(map[string]struct{})
	targetApps, err := s.appsInBucket(ctx, self, key)
	if err != nil {
		return sum, err
	}
	if len(targetApps) > 0 {
		if stats, err = s.SyncCatalog(ctx, targetApps, now); err != nil {
			return sum, fmt.Errorf("sync target catalog: %w", err)
		}
		sum.Catalog.Merge(stats)
		for _, id := range targetApps {
			done[id] = struct{}{}
		}
	}

	friends, err := s.friendsInBucket(ctx, target.SteamID, key)
	if err != nil {
		return sum, err
	}
	sum.Friends = len(friends)

	if len(friends) == 0 {
		slog.Info("[Scraper] Friend list empty, skipping friends", "steam_id", target.SteamID)
	} else {
		if stats, err = s.SyncProfiles(ctx, friends, now); err != nil {
			return sum, fmt.Errorf("sync friend profiles: %w", err)
		}
		sum.Profiles.Merge(stats)

		if stats, err = s.SyncFriendLists(ctx, friends, now); err != nil {
			return sum, fmt.Errorf("sync friends' friend lists: %w", err)
		}
		sum.FriendLists.Merge(stats)

		if target.FetchFriends {
			if stats, err = s.SyncPlaytime(ctx, friends, now); err != nil {
				return sum, fmt.Errorf("sync friends' playtime: %w", err)
			}
			sum.Playtime.Merge(stats)

			friendApps, err := s.appsInBucket(ctx, friends, key)
			if err != nil {
				return sum, err
			}
			remaining := without(friendApps, done)
			if len(remaining) > 0 {
				if stats, err = s.SyncCatalog(ctx, remaining, now); err != nil {
					return sum, fmt.Errorf("sync friends' catalog: %w", err)
				}
				sum.Catalog.Merge(stats)
				for _, id := range remaining {
					done[id] = struct{}{}
				}
			}
		}
	}
	sum.CatalogEntries = len(done)

	slog.Info("[Scraper] Run complete",
		"steam_id", target.SteamID,
		"persona_name", sum.PersonaName,
		"friends", sum.Friends,
		"catalog_entries", sum.CatalogEntries,
		"profile_writes", sum.Profiles.Writes(),
		"friend_list_writes", sum.FriendLists.Writes(),
		"playtime_writes", sum.Playtime.Writes(),
		"catalog_writes", sum.Catalog.Writes(),
	)
	return sum, nil
}

func (s *Syncer) friendsInBucket(ctx context.Context, steamID string, key bucket.Key) ([]string, error) {
	snapshots, err := s.store.FindFriendSnapshots(ctx, []string{steamID}, key)
	if err != nil {
		return nil, fmt.Errorf("load friend list: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, nil
	}
	return snapshots[0].FriendIDs(), nil
}

// appsInBucket returns the distinct app ids owned by steamIDs, sorted.
func (s *Syncer) appsInBucket(ctx context.Context, steamIDs []string, key bucket.Key) ([]string, error) {
	snapshots, err := s.store.FindPlaytimeSnapshots(ctx, steamIDs, key)
	if err != nil {
		return nil, fmt.Errorf("load playtime: %w", err)
	}
	return distinctApps(snapshots), nil
}

func distinctApps(snapshots []v1.PlaytimeSnapshot) []string {
	seen := make(map[string]struct{})
	for _, snap := range snapshots {
		for _, id := range snap.AppIDs() {
			seen[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
