package projection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
	"github.com/steamopera/steamsync/internal/core/bucket"
	"github.com/steamopera/steamsync/internal/core/freshness"
	"github.com/steamopera/steamsync/internal/core/storage"
)

var (
	// ErrInvalidQuery marks request validation errors that should return HTTP 400.
	ErrInvalidQuery = errors.New("invalid mirror query")

	// ErrNotFound marks a player the mirror has no data for.
	ErrNotFound = errors.New("not found in mirror")
)

// Reader is the read side of the mirror store.
type Reader interface {
	FindProfiles(ctx context.Context, steamIDs []string) ([]v1.Profile, error)
	LatestFriendSnapshot(ctx context.Context, steamID string) (*v1.FriendSnapshot, error)
	FindPlaytimeDeltas(ctx context.Context, steamID string) ([]v1.PlaytimeDelta, error)
}

// Service answers read-only queries over the persisted mirror.
type Service struct {
	store Reader
	freq  bucket.Frequency
	nowFn func() time.Time
}

// NewService creates a query service. freq decides the reported freshness.
func NewService(store Reader, freq bucket.Frequency) *Service {
	return &Service{
		store: store,
		freq:  freq,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// GetProfile returns one mirrored profile.
func (s *Service) GetProfile(ctx context.Context, steamID string) (*ProfileResponse, error) {
	steamID, err := requireSteamID(steamID)
	if err != nil {
		return nil, err
	}

	profiles, err := s.store.FindProfiles(ctx, []string{steamID})
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile %s: %w", steamID, ErrNotFound)
	}

	p := profiles[0]
	return &ProfileResponse{
		Profile: p,
		Fresh:   freshness.IsFresh(p.Timestamps, s.freq, s.nowFn()),
	}, nil
}

// GetFriends returns the latest persisted friend list of a player.
func (s *Service) GetFriends(ctx context.Context, steamID string) (*FriendListResponse, error) {
	steamID, err := requireSteamID(steamID)
	if err != nil {
		return nil, err
	}

	snap, err := s.store.LatestFriendSnapshot(ctx, steamID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("friend list %s: %w", steamID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest friend snapshot: %w", err)
	}

	friends := snap.Friends
	if friends == nil {
		friends = []v1.Friend{}
	}
	return &FriendListResponse{
		SteamID:   snap.SteamID,
		Bucket:    snap.Bucket.String(),
		Friends:   friends,
		Count:     len(friends),
		UpdatedAt: snap.UpdatedAt,
	}, nil
}

// GetPlaytimeDeltas returns a player's deltas oldest first with per-app
// totals. A player without deltas yields an empty history, not ErrNotFound.
func (s *Service) GetPlaytimeDeltas(ctx context.Context, req DeltaQueryRequest) (*DeltaHistoryResponse, error) {
	steamID, err := requireSteamID(req.SteamID)
	if err != nil {
		return nil, err
	}
	if req.Year < 0 || req.Year > 9999 {
		return nil, invalidQueryf("invalid year: %d", req.Year)
	}

	deltas, err := s.store.FindPlaytimeDeltas(ctx, steamID)
	if err != nil {
		return nil, fmt.Errorf("find playtime deltas: %w", err)
	}

	if req.Year != 0 {
		kept := deltas[:0:0]
		for _, d := range deltas {
			if d.Bucket.Year == req.Year {
				kept = append(kept, d)
			}
		}
		deltas = kept
	}
	sort.SliceStable(deltas, func(i, j int) bool {
		a, b := deltas[i].Bucket, deltas[j].Bucket
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})

	apps, total := rollupApps(deltas)
	return &DeltaHistoryResponse{
		SteamID:      steamID,
		Buckets:      convertBuckets(deltas),
		Apps:         apps,
		TotalMinutes: total,
		TotalHours:   Hours(total),
	}, nil
}

func requireSteamID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", invalidQueryf("steam_id is required")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", invalidQueryf("steam_id must be numeric: %q", id)
		}
	}
	return id, nil
}

func invalidQueryf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
