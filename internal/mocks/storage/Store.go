package storagemocks

import (
	"context"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
	"github.com/steamopera/steamsync/internal/core/bucket"
	"github.com/steamopera/steamsync/internal/core/storage"
	"github.com/stretchr/testify/mock"
)

// Store is a mock of storage.Store.
type Store struct {
	mock.Mock
}

var _ storage.Store = (*Store)(nil)

// Store_Expecter records typed expectations.
type Store_Expecter struct {
	mock *mock.Mock
}

func (_m *Store) EXPECT() *Store_Expecter {
	return &Store_Expecter{mock: &_m.Mock}
}

// NewStore creates a Store mock and asserts its expectations on cleanup.
func NewStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *Store {
	m := &Store{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func value[T any](ret mock.Arguments, i int) T {
	v, _ := ret.Get(i).(T)
	return v
}

func (_m *Store) FindProfiles(ctx context.Context, steamIDs []string) ([]v1.Profile, error) {
	ret := _m.Called(ctx, steamIDs)
	return value[[]v1.Profile](ret, 0), ret.Error(1)
}

func (_e *Store_Expecter) FindProfiles(ctx, steamIDs interface{}) *mock.Call {
	return _e.mock.On("FindProfiles", ctx, steamIDs)
}

func (_m *Store) UpsertProfiles(ctx context.Context, profiles []v1.Profile) error {
	return _m.Called(ctx, profiles).Error(0)
}

func (_e *Store_Expecter) UpsertProfiles(ctx, profiles interface{}) *mock.Call {
	return _e.mock.On("UpsertProfiles", ctx, profiles)
}

func (_m *Store) FindCatalogEntries(ctx context.Context, appIDs []string) ([]v1.CatalogEntry, error) {
	ret := _m.Called(ctx, appIDs)
	return value[[]v1.CatalogEntry](ret, 0), ret.Error(1)
}

func (_e *Store_Expecter) FindCatalogEntries(ctx, appIDs interface{}) *mock.Call {
	return _e.mock.On("FindCatalogEntries", ctx, appIDs)
}

func (_m *Store) UpsertCatalogEntries(ctx context.Context, entries []v1.CatalogEntry) error {
	return _m.Called(ctx, entries).Error(0)
}

func (_e *Store_Expecter) UpsertCatalogEntries(ctx, entries interface{}) *mock.Call {
	return _e.mock.On("UpsertCatalogEntries", ctx, entries)
}

func (_m *Store) FindFriendSnapshots(ctx context.Context, steamIDs []string, key bucket.Key) ([]v1.FriendSnapshot, error) {
	ret := _m.Called(ctx, steamIDs, key)
	return value[[]v1.FriendSnapshot](ret, 0), ret.Error(1)
}

func (_e *Store_Expecter) FindFriendSnapshots(ctx, steamIDs, key interface{}) *mock.Call {
	return _e.mock.On("FindFriendSnapshots", ctx, steamIDs, key)
}

func (_m *Store) ExistingFriendSnapshotIDs(ctx context.Context, steamIDs []string, key bucket.Key) (map[string]struct{}, error) {
	ret := _m.Called(ctx, steamIDs, key)
	return value[map[string]struct{}](ret, 0), ret.Error(1)
}

func (_e *Store_Expecter) ExistingFriendSnapshotIDs(ctx, steamIDs, key interface{}) *mock.Call {
	return _e.mock.On("ExistingFriendSnapshotIDs", ctx, steamIDs, key)
}

func (_m *Store) UpsertFriendSnapshots(ctx context.Context, snapshots []v1.FriendSnapshot) error {
	return _m.Called(ctx, snapshots).Error(0)
}

func (_e *Store_Expecter) UpsertFriendSnapshots(ctx, snapshots interface{}) *mock.Call {
	return _e.mock.On("UpsertFriendSnapshots", ctx, snapshots)
}

func (_m *Store) DeleteFriendSnapshots(ctx context.Context, filter storage.DeleteFilter) (int64, error) {
	ret := _m.Called(ctx, filter)
	return value[int64](ret, 0), ret.Error(1)
}

func (_e *Store_Expecter) DeleteFriendSnapshots(ctx, filter interface{}) *mock.Call {
	return _e.mock.On("DeleteFriendSnapshots", ctx, filter)
}

func (_m *Store) LatestFriendSnapshot(ctx context.Context, steamID string) (*v1.FriendSnapshot, error) {
	ret := _m.Called(ctx, steamID)
	return value[*v1.FriendSnapshot](ret, 0), ret.Error(1)
}

func (_e *Store_Expecter) LatestFriendSnapshot(ctx, steamID interface{}) *mock.Call {
	return _e.mock.On("LatestFriendSnapshot", ctx, steamID)
}

func (_m *Store) FindPlaytimeSnapshots(ctx context.Context, steamIDs []string, key bucket.Key) ([]v1.PlaytimeSnapshot, error) {
	ret := _m.Called(ctx, steamIDs, key)
	return value[[]v1.PlaytimeSnapshot](ret, 0), ret.Error(1)
}

func (_e *Store_Expecter) FindPlaytimeSnapshots(ctx, steamIDs, key interface{}) *mock.Call {
	return _e.mock.On("FindPlaytimeSnapshots", ctx, steamIDs, key)
}

func (_m *Store) ExistingPlaytimeSnapshotIDs(ctx context.Context, steamIDs []string, key bucket.Key) (map[string]struct{}, error) {
	ret := _m.Called(ctx, steamIDs, key)
	return value[map[string]struct{}](ret, 0), ret.Error(1)
}

func (_e *Store_Expecter) ExistingPlaytimeSnapshotIDs(ctx, steamIDs, key interface{}) *mock.Call {
	return _e.mock.On("ExistingPlaytimeSnapshotIDs", ctx, steamIDs, key)
}

func (_m *Store) UpsertPlaytimeSnapshots(ctx context.Context, snapshots []v1.PlaytimeSnapshot) error {
	return _m.Called(ctx, snapshots).Error(0)
}

func (_e *Store_Expecter) UpsertPlaytimeSnapshots(ctx, snapshots interface{}) *mock.Call {
	return _e.mock.On("UpsertPlaytimeSnapshots", ctx, snapshots)
}

func (_m *Store) DeletePlaytimeSnapshots(ctx context.Context, filter storage.DeleteFilter) (int64, error) {
	ret := _m.Called(ctx, filter)
	return value[int64](ret, 0), ret.Error(1)
}

func (_e *Store_Expecter) DeletePlaytimeSnapshots(ctx, filter interface{}) *mock.Call {
	return _e.mock.On("DeletePlaytimeSnapshots", ctx, filter)
}

func (_m *Store) PlaytimeSnapshotIDs(ctx context.Context, key bucket.Key) ([]string, error) {
	ret := _m.Called(ctx, key)
	return value[[]string](ret, 0), ret.Error(1)
}

func (_e *Store_Expecter) PlaytimeSnapshotIDs(ctx, key interface{}) *mock.Call {
	return _e.mock.On("PlaytimeSnapshotIDs", ctx, key)
}

func (_m *Store) FindPlaytimeDeltas(ctx context.Context, steamID string) ([]v1.PlaytimeDelta, error) {
	ret := _m.Called(ctx, steamID)
	return value[[]v1.PlaytimeDelta](ret, 0), ret.Error(1)
}

func (_e *Store_Expecter) FindPlaytimeDeltas(ctx, steamID interface{}) *mock.Call {
	return _e.mock.On("FindPlaytimeDeltas", ctx, steamID)
}

func (_m *Store) UpsertPlaytimeDeltas(ctx context.Context, deltas []v1.PlaytimeDelta) error {
	return _m.Called(ctx, deltas).Error(0)
}

func (_e *Store_Expecter) UpsertPlaytimeDeltas(ctx, deltas interface{}) *mock.Call {
	return _e.mock.On("UpsertPlaytimeDeltas", ctx, deltas)
}

func (_m *Store) DeletePlaytimeDeltas(ctx context.Context, filter storage.DeleteFilter) (int64, error) {
	ret := _m.Called(ctx, filter)
	return value[int64](ret, 0), ret.Error(1)
}

func (_e *Store_Expecter) DeletePlaytimeDeltas(ctx, filter interface{}) *mock.Call {
	return _e.mock.On("DeletePlaytimeDeltas", ctx, filter)
}
