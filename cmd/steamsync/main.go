package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	corecfg "github.com/steamopera/steamsync/internal/core/config"
	"github.com/steamopera/steamsync/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once the config is loaded.
type app struct {
	configPath string
	cfg        *corecfg.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "steamsync",
		Short:         "Keep a Steam player mirror fresh",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := corecfg.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			slog.SetDefault(logging.New(cfg.Log.Level, cfg.Log.Format))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to configuration file")

	root.AddCommand(
		newSyncCmd(a),
		newDeltaCmd(a),
		newPruneCmd(a),
		newMigrateCmd(a),
		newServeCmd(a),
	)
	return root
}
