package storage

import (
	"context"
	"errors"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
	"github.com/steamopera/steamsync/internal/core/bucket"
	coreerrors "github.com/steamopera/steamsync/internal/core/errors"
)

// ErrNotFound is returned by single-record lookups with no matching row.
var ErrNotFound = errors.New("record not found")

// DeleteFilter scopes a destructive delete. Zero fields are ignored, and at
// least one field must be set.
type DeleteFilter struct {
	SteamID     string
	BucketYear  int
	BucketMonth int
}

// IsEmpty reports whether the filter would match every row.
func (f DeleteFilter) IsEmpty() bool {
	return f.SteamID == "" && f.BucketYear == 0 && f.BucketMonth == 0
}

// Validate rejects an empty filter with ErrInvalidDeletionFilter.
func (f DeleteFilter) Validate() error {
	if f.IsEmpty() {
		return coreerrors.ErrInvalidDeletionFilter
	}
	return nil
}

// ProfileStore persists player profiles, one row per SteamID.
type ProfileStore interface {
	FindProfiles(ctx context.Context, steamIDs []string) ([]v1.Profile, error)
	UpsertProfiles(ctx context.Context, profiles []v1.Profile) error
}

// CatalogStore persists store pages, one row per AppID.
type CatalogStore interface {
	FindCatalogEntries(ctx context.Context, appIDs []string) ([]v1.CatalogEntry, error)
	UpsertCatalogEntries(ctx context.Context, entries []v1.CatalogEntry) error
}

// FriendStore persists friend lists, one row per SteamID and bucket.
type FriendStore interface {
	FindFriendSnapshots(ctx context.Context, steamIDs []string, key bucket.Key) ([]v1.FriendSnapshot, error)
	ExistingFriendSnapshotIDs(ctx context.Context, steamIDs []string, key bucket.Key) (map[string]struct{}, error)
	UpsertFriendSnapshots(ctx context.Context, snapshots []v1.FriendSnapshot) error
	DeleteFriendSnapshots(ctx context.Context, filter DeleteFilter) (int64, error)

	// LatestFriendSnapshot returns the most recent bucket for steamID or ErrNotFound.
	LatestFriendSnapshot(ctx context.Context, steamID string) (*v1.FriendSnapshot, error)
}

// PlaytimeStore persists owned-games playtime, one row per SteamID and bucket.
type PlaytimeStore interface {
	FindPlaytimeSnapshots(ctx context.Context, steamIDs []string, key bucket.Key) ([]v1.PlaytimeSnapshot, error)
	ExistingPlaytimeSnapshotIDs(ctx context.Context, steamIDs []string, key bucket.Key) (map[string]struct{}, error)
	UpsertPlaytimeSnapshots(ctx context.Context, snapshots []v1.PlaytimeSnapshot) error
	DeletePlaytimeSnapshots(ctx context.Context, filter DeleteFilter) (int64, error)

	// PlaytimeSnapshotIDs lists every SteamID with a snapshot in key, ordered.
	PlaytimeSnapshotIDs(ctx context.Context, key bucket.Key) ([]string, error)
}

// DeltaStore persists derived playtime deltas, one row per SteamID and bucket.
type DeltaStore interface {
	FindPlaytimeDeltas(ctx context.Context, steamID string) ([]v1.PlaytimeDelta, error)
	UpsertPlaytimeDeltas(ctx context.Context, deltas []v1.PlaytimeDelta) error
	DeletePlaytimeDeltas(ctx context.Context, filter DeleteFilter) (int64, error)
}

// Store is everything the sync engine reads and writes.
// Every error returned by an implementation wraps coreerrors.ErrPersistence,
// except ErrInvalidDeletionFilter and ErrNotFound.
type Store interface {
	ProfileStore
	CatalogStore
	FriendStore
	PlaytimeStore
	DeltaStore
}
