package delta

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
	"github.com/steamopera/steamsync/internal/batch"
	"github.com/steamopera/steamsync/internal/core/bucket"
	coreerrors "github.com/steamopera/steamsync/internal/core/errors"
	storagemocks "github.com/steamopera/steamsync/internal/mocks/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	now     = time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	jan2024 = bucket.Key{Year: 2024, Month: 1}
	dec2023 = bucket.Key{Year: 2023, Month: 12}
)

func snapshot(id string, key bucket.Key, minutes map[string]int64, order ...string) v1.PlaytimeSnapshot {
	s := v1.PlaytimeSnapshot{SteamID: id, Bucket: key}
	for _, app := range order {
		s.Items = append(s.Items, v1.PlaytimeItem{AppID: app, MinutesPlayed: minutes[app]})
	}
	return s
}

func TestCompute_PositiveDeltasAndNewApps(t *testing.T) {
	current := snapshot("p1", jan2024, map[string]int64{"app1": 120, "app2": 50}, "app1", "app2")
	previous := snapshot("p1", dec2023, map[string]int64{"app1": 100}, "app1")

	d := Compute(current, previous, now)

	assert.Equal(t, []v1.DeltaItem{{AppID: "app1", DeltaMinutes: 20}, {AppID: "app2", DeltaMinutes: 50}}, d.Items)
	assert.Equal(t, int64(70), d.TotalDeltaMinutes)
	assert.Equal(t, "p1", d.SteamID)
	assert.Equal(t, jan2024, d.Bucket)
	assert.Equal(t, now, d.CreatedAt)
	assert.Equal(t, now, d.UpdatedAt)
}

func TestCompute_NegativeIsDroppedNotClamped(t *testing.T) {
	current := snapshot("p1", jan2024, map[string]int64{"app1": 80}, "app1")
	previous := snapshot("p1", dec2023, map[string]int64{"app1": 100}, "app1")

	d := Compute(current, previous, now)

	assert.Empty(t, d.Items)
	assert.NotNil(t, d.Items)
	assert.Zero(t, d.TotalDeltaMinutes)
}

func TestCompute_ZeroDeltaIsDropped(t *testing.T) {
	current := snapshot("p1", jan2024, map[string]int64{"app1": 100, "app2": 5}, "app1", "app2")
	previous := snapshot("p1", dec2023, map[string]int64{"app1": 100, "app3": 10}, "app1", "app3")

	d := Compute(current, previous, now)

	assert.Equal(t, []v1.DeltaItem{{AppID: "app2", DeltaMinutes: 5}}, d.Items)
	assert.Equal(t, int64(5), d.TotalDeltaMinutes)
}

func TestRunner_UsesPreviousBucketAcrossYearBoundary(t *testing.T) {
	store := storagemocks.NewStore(t)
	store.EXPECT().PlaytimeSnapshotIDs(mock.Anything, jan2024).Return([]string{"p1", "p2"}, nil).Once()
	store.EXPECT().FindPlaytimeSnapshots(mock.Anything, []string{"p1", "p2"}, jan2024).Return([]v1.PlaytimeSnapshot{
		snapshot("p1", jan2024, map[string]int64{"app1": 120, "app2": 50}, "app1", "app2"),
		snapshot("p2", jan2024, map[string]int64{"app9": 10}, "app9"),
	}, nil).Once()
	store.EXPECT().FindPlaytimeSnapshots(mock.Anything, []string{"p1", "p2"}, dec2023).Return([]v1.PlaytimeSnapshot{
		snapshot("p1", dec2023, map[string]int64{"app1": 100}, "app1"),
	}, nil).Once()

	var saved []v1.PlaytimeDelta
	store.EXPECT().UpsertPlaytimeDeltas(mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).([]v1.PlaytimeDelta)...)
		}).
		Return(nil).
		Once()

	summary, err := NewRunner(store, batch.Options{}).Run(context.Background(), jan2024, now)
	require.NoError(t, err)

	require.Len(t, saved, 1)
	assert.Equal(t, "p1", saved[0].SteamID)
	assert.Equal(t, int64(70), saved[0].TotalDeltaMinutes)
	assert.Equal(t, Summary{Bucket: jan2024, Players: 2, Deltas: 1, NoPrevious: 1, TotalMinutes: 70}, summary)
}

func TestRunner_ChunksPlayers(t *testing.T) {
	store := storagemocks.NewStore(t)
	store.EXPECT().PlaytimeSnapshotIDs(mock.Anything, jan2024).Return([]string{"a", "b", "c"}, nil).Once()
	for _, chunk := range [][]string{{"a", "b"}, {"c"}} {
		store.EXPECT().FindPlaytimeSnapshots(mock.Anything, chunk, jan2024).Return([]v1.PlaytimeSnapshot(nil), nil).Once()
		store.EXPECT().FindPlaytimeSnapshots(mock.Anything, chunk, dec2023).Return([]v1.PlaytimeSnapshot(nil), nil).Once()
	}

	summary, err := NewRunner(store, batch.Options{ChunkSize: 2}).Run(context.Background(), jan2024, now)
	require.NoError(t, err)
	assert.Zero(t, summary.Deltas)
}

func TestRunner_StoreFailureIsFatal(t *testing.T) {
	store := storagemocks.NewStore(t)
	store.EXPECT().PlaytimeSnapshotIDs(mock.Anything, jan2024).Return([]string{"p1"}, nil).Once()
	store.EXPECT().FindPlaytimeSnapshots(mock.Anything, []string{"p1"}, jan2024).
		Return(nil, fmt.Errorf("find playtime snapshots: %w: %w", coreerrors.ErrPersistence, errors.New("conn refused"))).
		Once()

	_, err := NewRunner(store, batch.Options{}).Run(context.Background(), jan2024, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, coreerrors.ErrPersistence)
}

func TestRunner_RejectsInvalidBucket(t *testing.T) {
	store := storagemocks.NewStore(t)

	_, err := NewRunner(store, batch.Options{}).Run(context.Background(), bucket.Key{Year: 2024, Month: 13}, now)
	require.Error(t, err)
}
