package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/steamopera/steamsync/internal/core/bucket"
	"github.com/steamopera/steamsync/internal/delta"
	"github.com/steamopera/steamsync/internal/projection"
)

func newDeltaCmd(a *app) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "delta",
		Short: "Derive playtime deltas for a bucket against the one before it",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			key, err := deltaBucket(now, a.cfg.Sync.Freq(), year, month)
			if err != nil {
				return err
			}

			return instrument(cmd.Context(), a.cfg, "delta", func(ctx context.Context) error {
				store, err := openStore(ctx, a.cfg.Database)
				if err != nil {
					return err
				}
				defer store.Close()

				sum, err := delta.NewRunner(store, a.cfg.Sync.DeltaOptions()).Run(ctx, key, now)
				if err != nil {
					return err
				}
				slog.Info("[Delta] Summary",
					"bucket", sum.Bucket.String(),
					"players", sum.Players,
					"deltas", sum.Deltas,
					"hours", projection.Hours(sum.TotalMinutes).String(),
				)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Bucket year (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "Bucket month (default: current, ignored in year mode)")
	return cmd
}

// deltaBucket resolves the target bucket from flags, defaulting to the bucket
// containing now.
func deltaBucket(now time.Time, freq bucket.Frequency, year, month int) (bucket.Key, error) {
	key := bucket.For(now, freq)
	if year != 0 {
		key.Year = year
	}
	if month != 0 && !key.IsYear() {
		key.Month = month
	}
	if err := key.Validate(); err != nil {
		return bucket.Key{}, fmt.Errorf("invalid bucket: %w", err)
	}
	return key, nil
}
