package scraper

import (
	"context"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
)

// Source reads the external platform. Implementations perform one attempt
// per call and wrap failures in coreerrors.ErrTransient or ErrPermanent.
type Source interface {
	FetchProfiles(ctx context.Context, steamIDs []string) ([]v1.Profile, error)
	FetchFriends(ctx context.Context, steamID string) ([]v1.Friend, error)
	FetchPlaytime(ctx context.Context, steamID string) ([]v1.PlaytimeItem, error)
	FetchCatalogEntry(ctx context.Context, appID string) (*v1.CatalogEntry, error)
}
