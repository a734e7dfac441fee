package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/steamopera/steamsync/internal/core/storage"
)

// Prunable row kinds.
const (
	pruneFriendList    = "friend_list"
	pruneGameplayInfo  = "gameplay_info"
	pruneGameplayDelta = "gameplay_delta"
)

// Pruner is the delete side of the store.
type Pruner interface {
	DeleteFriendSnapshots(ctx context.Context, filter storage.DeleteFilter) (int64, error)
	DeletePlaytimeSnapshots(ctx context.Context, filter storage.DeleteFilter) (int64, error)
	DeletePlaytimeDeltas(ctx context.Context, filter storage.DeleteFilter) (int64, error)
}

func newPruneCmd(a *app) *cobra.Command {
	var (
		kind   string
		filter storage.DeleteFilter
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete bucketed rows matching a filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := filter.Validate(); err != nil {
				return err
			}
			return instrument(cmd.Context(), a.cfg, "prune", func(ctx context.Context) error {
				store, err := openStore(ctx, a.cfg.Database)
				if err != nil {
					return err
				}
				defer store.Close()

				deleted, err := prune(ctx, store, kind, filter)
				if err != nil {
					return err
				}
				slog.Info("[Prune] Done",
					"type", kind,
					"steam_id", filter.SteamID,
					"bucket_year", filter.BucketYear,
					"bucket_month", filter.BucketMonth,
					"deleted", deleted,
				)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "type", "", "friend_list | gameplay_info | gameplay_delta")
	cmd.Flags().StringVar(&filter.SteamID, "player", "", "Only rows of this SteamID")
	cmd.Flags().IntVar(&filter.BucketYear, "year", 0, "Only rows of this bucket year")
	cmd.Flags().IntVar(&filter.BucketMonth, "month", 0, "Only rows of this bucket month")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func prune(ctx context.Context, store Pruner, kind string, filter storage.DeleteFilter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	switch kind {
	case pruneFriendList:
		return store.DeleteFriendSnapshots(ctx, filter)
	case pruneGameplayInfo:
		return store.DeletePlaytimeSnapshots(ctx, filter)
	case pruneGameplayDelta:
		return store.DeletePlaytimeDeltas(ctx, filter)
	default:
		return 0, fmt.Errorf("unknown prune type %q (must be %s, %s or %s)",
			kind, pruneFriendList, pruneGameplayInfo, pruneGameplayDelta)
	}
}
