package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/steamopera/steamsync/internal/metrics"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name           string
		db             HealthChecker
		expectedStatus int
	}{
		{name: "no database", db: nil, expectedStatus: http.StatusOK},
		{name: "database up", db: pingerFunc(func(context.Context) error { return nil }), expectedStatus: http.StatusOK},
		{
			name:           "database down",
			db:             pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New("127.0.0.1:0", tc.db, "release")

			rec := httptest.NewRecorder()
			s.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.Upserts.WithLabelValues("profile").Add(1)
	s := New("127.0.0.1:0", nil, "release")

	rec := httptest.NewRecorder()
	s.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "steamsync_"), rec.Body.String())
}
