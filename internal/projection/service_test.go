package projection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	v1 "github.com/steamopera/steamsync/internal/api/v1"
	"github.com/steamopera/steamsync/internal/core/bucket"
	storagemocks "github.com/steamopera/steamsync/internal/mocks/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, freq bucket.Frequency, now time.Time) (*Service, *storagemocks.Store) {
	t.Helper()
	store := storagemocks.NewStore(t)
	svc := NewService(store, freq)
	svc.nowFn = func() time.Time { return now }
	return svc, store
}

func TestService_GetProfile_ReportsFreshness(t *testing.T) {
	now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		freq      bucket.Frequency
		stamps    v1.Timestamps
		wantFresh bool
	}{
		{
			name:      "created this month is fresh",
			freq:      bucket.Month,
			stamps:    v1.Created(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
			wantFresh: true,
		},
		{
			name:      "created last month is stale",
			freq:      bucket.Month,
			stamps:    v1.Created(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)),
			wantFresh: false,
		},
		{
			name: "updated this year is fresh in year mode",
			freq: bucket.Year,
			stamps: v1.Timestamps{
				CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			},
			wantFresh: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, store := newTestService(t, tc.freq, now)
			store.EXPECT().FindProfiles(mock.Anything, []string{"42"}).
				Return([]v1.Profile{{SteamID: "42", Timestamps: tc.stamps}}, nil).Once()

			resp, err := svc.GetProfile(context.Background(), " 42 ")
			require.NoError(t, err)
			require.Equal(t, "42", resp.SteamID)
			require.Equal(t, tc.wantFresh, resp.Fresh)
		})
	}
}

func TestService_GetProfile_EmptyIDIsInvalid(t *testing.T) {
	svc, _ := newTestService(t, bucket.Month, time.Now())

	_, err := svc.GetProfile(context.Background(), "")
	require.True(t, errors.Is(err, ErrInvalidQuery))
}

func TestService_GetFriends_NilListBecomesEmpty(t *testing.T) {
	svc, store := newTestService(t, bucket.Month, time.Now())
	store.EXPECT().LatestFriendSnapshot(mock.Anything, "42").
		Return(&v1.FriendSnapshot{SteamID: "42", Bucket: bucket.Key{Year: 2024}}, nil).Once()

	resp, err := svc.GetFriends(context.Background(), "42")
	require.NoError(t, err)
	require.NotNil(t, resp.Friends)
	require.Zero(t, resp.Count)
	require.Equal(t, "2024", resp.Bucket)
}

func TestService_GetPlaytimeDeltas_FiltersSortsAndRollsUp(t *testing.T) {
	svc, store := newTestService(t, bucket.Month, time.Now())
	store.EXPECT().FindPlaytimeDeltas(mock.Anything, "42").Return([]v1.PlaytimeDelta{
		{
			SteamID:           "42",
			Bucket:            bucket.Key{Year: 2024, Month: 2},
			Items:             []v1.DeltaItem{{AppID: "570", DeltaMinutes: 30}},
			TotalDeltaMinutes: 30,
		},
		{
			SteamID:           "42",
			Bucket:            bucket.Key{Year: 2023, Month: 12},
			Items:             []v1.DeltaItem{{AppID: "730", DeltaMinutes: 500}},
			TotalDeltaMinutes: 500,
		},
		{
			SteamID: "42",
			Bucket:  bucket.Key{Year: 2024, Month: 1},
			Items: []v1.DeltaItem{
				{AppID: "730", DeltaMinutes: 45},
				{AppID: "570", DeltaMinutes: 15},
			},
			TotalDeltaMinutes: 60,
		},
	}, nil).Once()

	resp, err := svc.GetPlaytimeDeltas(context.Background(), DeltaQueryRequest{SteamID: "42", Year: 2024})
	require.NoError(t, err)

	require.Len(t, resp.Buckets, 2)
	require.Equal(t, "2024-01", resp.Buckets[0].Bucket)
	require.Equal(t, "2024-02", resp.Buckets[1].Bucket)
	require.Equal(t, int64(90), resp.TotalMinutes)
	require.True(t, decimal.RequireFromString("1.5").Equal(resp.TotalHours))

	require.Len(t, resp.Apps, 2)
	require.Equal(t, "570", resp.Apps[0].AppID)
	require.Equal(t, int64(45), resp.Apps[0].Minutes)
	require.Equal(t, "730", resp.Apps[1].AppID)
}

func TestHours_RoundsToTwoPlaces(t *testing.T) {
	require.True(t, decimal.RequireFromString("0.33").Equal(Hours(20)))
	require.True(t, decimal.RequireFromString("2").Equal(Hours(120)))
	require.True(t, decimal.Zero.Equal(Hours(0)))
}
