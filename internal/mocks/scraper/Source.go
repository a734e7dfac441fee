package scrapermocks

import (
	"context"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
	"github.com/stretchr/testify/mock"
)

// Source is a mock of scraper.Source.
type Source struct {
	mock.Mock
}

// Source_Expecter records typed expectations.
type Source_Expecter struct {
	mock *mock.Mock
}

func (_m *Source) EXPECT() *Source_Expecter {
	return &Source_Expecter{mock: &_m.Mock}
}

// NewSource creates a Source mock and asserts its expectations on cleanup.
func NewSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *Source {
	m := &Source{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func value[T any](ret mock.Arguments, i int) T {
	v, _ := ret.Get(i).(T)
	return v
}

func (_m *Source) FetchProfiles(ctx context.Context, steamIDs []string) ([]v1.Profile, error) {
	ret := _m.Called(ctx, steamIDs)
	return value[[]v1.Profile](ret, 0), ret.Error(1)
}

func (_e *Source_Expecter) FetchProfiles(ctx, steamIDs interface{}) *mock.Call {
	return _e.mock.On("FetchProfiles", ctx, steamIDs)
}

func (_m *Source) FetchFriends(ctx context.Context, steamID string) ([]v1.Friend, error) {
	ret := _m.Called(ctx, steamID)
	return value[[]v1.Friend](ret, 0), ret.Error(1)
}

func (_e *Source_Expecter) FetchFriends(ctx, steamID interface{}) *mock.Call {
	return _e.mock.On("FetchFriends", ctx, steamID)
}

func (_m *Source) FetchPlaytime(ctx context.Context, steamID string) ([]v1.PlaytimeItem, error) {
	ret := _m.Called(ctx, steamID)
	return value[[]v1.PlaytimeItem](ret, 0), ret.Error(1)
}

func (_e *Source_Expecter) FetchPlaytime(ctx, steamID interface{}) *mock.Call {
	return _e.mock.On("FetchPlaytime", ctx, steamID)
}

func (_m *Source) FetchCatalogEntry(ctx context.Context, appID string) (*v1.CatalogEntry, error) {
	ret := _m.Called(ctx, appID)
	return value[*v1.CatalogEntry](ret, 0), ret.Error(1)
}

func (_e *Source_Expecter) FetchCatalogEntry(ctx, appID interface{}) *mock.Call {
	return _e.mock.On("FetchCatalogEntry", ctx, appID)
}
