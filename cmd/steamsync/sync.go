package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	corecfg "github.com/steamopera/steamsync/internal/core/config"
	"github.com/steamopera/steamsync/internal/logging"
	"github.com/steamopera/steamsync/internal/scraper"
	"github.com/steamopera/steamsync/internal/steam"
)

func newSyncCmd(a *app) *cobra.Command {
	var (
		fetchFriends bool
		targetsFile  string
	)

	cmd := &cobra.Command{
		Use:   "sync [player_id...]",
		Short: "Scrape players and their friends into the mirror",
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetsFile == "" {
				targetsFile = a.cfg.Sync.TargetsFile
			}
			targets, err := collectTargets(args, fetchFriends, targetsFile)
			if err != nil {
				return err
			}
			if err := a.cfg.Steam.RequireAPIKey(); err != nil {
				return err
			}
			return instrument(cmd.Context(), a.cfg, "sync", func(ctx context.Context) error {
				return runSync(ctx, a.cfg, targets)
			})
		},
	}
	cmd.Flags().BoolVar(&fetchFriends, "fetch-friends", false, "Also sync playtime and catalog of every friend")
	cmd.Flags().StringVar(&targetsFile, "targets", "", "YAML file listing players to sync")
	return cmd
}

// collectTargets merges command line ids with the targets file. The file
// wins for an id listed in both.
func collectTargets(args []string, fetchFriends bool, targetsFile string) ([]scraper.Target, error) {
	var targets []scraper.Target
	seen := make(map[string]int)

	if targetsFile != "" {
		fromFile, err := corecfg.LoadTargets(targetsFile)
		if err != nil {
			return nil, err
		}
		for _, t := range fromFile {
			seen[t.SteamID] = len(targets)
			targets = append(targets, t)
		}
	}
	for _, id := range args {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = len(targets)
		targets = append(targets, scraper.Target{SteamID: id, FetchFriends: fetchFriends})
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no players to sync: pass player ids or a targets file")
	}
	return targets, nil
}

func runSync(ctx context.Context, cfg *corecfg.Config, targets []scraper.Target) error {
	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	client := steam.New(steam.Config{
		APIKey:       cfg.Steam.APIKey,
		APIBaseURL:   cfg.Steam.APIBaseURL,
		StoreBaseURL: cfg.Steam.StoreBaseURL,
		RequestDelay: cfg.Steam.RequestDelay,
		Timeout:      cfg.Steam.Timeout,
		CountryCode:  cfg.Steam.CountryCode,
		Language:     cfg.Steam.Language,
	}, steam.NewHTTPClient(cfg.Steam.Timeout))

	syncer := scraper.NewSyncer(client, store, scraper.Options{
		Frequency:        cfg.Sync.Freq(),
		Retry:            cfg.Retry.Policy(),
		Batch:            cfg.Sync.BatchOptions(),
		ProfileChunkSize: cfg.Sync.ProfileChunkSize,
	})

	now := time.Now().UTC()
	slog.Info("[Sync] Starting",
		"targets", len(targets),
		"frequency", cfg.Sync.Frequency,
		"bucket", syncer.Bucket(now).String(),
		"api_key", logging.MaskKey(cfg.Steam.APIKey),
	)

	var missing int
	for _, target := range targets {
		if _, err := syncer.Run(ctx, target, now); err != nil {
			if errors.Is(err, scraper.ErrTargetNotFound) {
				missing++
				continue
			}
			return fmt.Errorf("sync %s: %w", target.SteamID, err)
		}
	}

	slog.Info("[Sync] Done", "targets", len(targets), "not_found", missing)
	return nil
}
