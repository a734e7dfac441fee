package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/steamopera/steamsync/internal/metrics"
	"github.com/steamopera/steamsync/internal/projection"
	"github.com/steamopera/steamsync/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only mirror query API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx, a.cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			metrics.EnableRuntimeCollectors()

			projectionSvc := projection.NewService(store, a.cfg.Sync.Freq())
			srv := server.New(fmtAddr(a.cfg.Server.Host, a.cfg.Server.Port), store.DB(), a.cfg.Server.Mode)
			projectionSvc.RegisterRoutes(srv.Engine)

			if err := srv.Run(ctx); err != nil {
				slog.Error("[Server] Stopped with error", "error", err)
				return err
			}
			slog.Info("[Server] Shutdown complete")
			return nil
		},
	}
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
