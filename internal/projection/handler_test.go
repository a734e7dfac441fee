package projection

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	v1 "github.com/steamopera/steamsync/internal/api/v1"
	"github.com/steamopera/steamsync/internal/core/bucket"
	coreerrors "github.com/steamopera/steamsync/internal/core/errors"
	"github.com/steamopera/steamsync/internal/core/storage"
	storagemocks "github.com/steamopera/steamsync/internal/mocks/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_Handlers_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		configure      func(store *storagemocks.Store)
	}{
		{
			name:           "non numeric id returns 400",
			path:           "/v1/profiles/abc",
			expectedStatus: http.StatusBadRequest,
			configure:      func(_ *storagemocks.Store) {},
		},
		{
			name:           "unknown profile returns 404",
			path:           "/v1/profiles/42",
			expectedStatus: http.StatusNotFound,
			configure: func(store *storagemocks.Store) {
				store.EXPECT().FindProfiles(mock.Anything, []string{"42"}).Return(nil, nil).Once()
			},
		},
		{
			name:           "profile store error returns 500",
			path:           "/v1/profiles/42",
			expectedStatus: http.StatusInternalServerError,
			configure: func(store *storagemocks.Store) {
				store.EXPECT().FindProfiles(mock.Anything, []string{"42"}).
					Return(nil, fmt.Errorf("find profiles: %w", coreerrors.ErrPersistence)).Once()
			},
		},
		{
			name:           "profile returns 200",
			path:           "/v1/profiles/42",
			expectedStatus: http.StatusOK,
			configure: func(store *storagemocks.Store) {
				store.EXPECT().FindProfiles(mock.Anything, []string{"42"}).
					Return([]v1.Profile{{SteamID: "42"}}, nil).Once()
			},
		},
		{
			name:           "missing friend list returns 404",
			path:           "/v1/players/42/friends",
			expectedStatus: http.StatusNotFound,
			configure: func(store *storagemocks.Store) {
				store.EXPECT().LatestFriendSnapshot(mock.Anything, "42").Return(nil, storage.ErrNotFound).Once()
			},
		},
		{
			name:           "friend list returns 200",
			path:           "/v1/players/42/friends",
			expectedStatus: http.StatusOK,
			configure: func(store *storagemocks.Store) {
				store.EXPECT().LatestFriendSnapshot(mock.Anything, "42").Return(&v1.FriendSnapshot{
					SteamID: "42",
					Bucket:  bucket.Key{Year: 2024, Month: 3},
					Friends: []v1.Friend{{SteamID: "7"}},
				}, nil).Once()
			},
		},
		{
			name:           "bad year returns 400",
			path:           "/v1/players/42/playtime-deltas?year=abc",
			expectedStatus: http.StatusBadRequest,
			configure:      func(_ *storagemocks.Store) {},
		},
		{
			name:           "deltas return 200 even when empty",
			path:           "/v1/players/42/playtime-deltas?year=2024",
			expectedStatus: http.StatusOK,
			configure: func(store *storagemocks.Store) {
				store.EXPECT().FindPlaytimeDeltas(mock.Anything, "42").Return(nil, nil).Once()
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := storagemocks.NewStore(t)
			tc.configure(store)

			svc := NewService(store, bucket.Month)
			svc.nowFn = func() time.Time { return time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC) }

			router := gin.New()
			svc.RegisterRoutes(router)

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
		})
	}
}
