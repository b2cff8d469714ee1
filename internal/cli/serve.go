package cli

import (
	"github.com/spf13/cobra"

	"newssense/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP query API",
		Long: `Start an HTTP server exposing the query pipeline.

Endpoints:
  POST /api/v1/query        answer a question
  GET  /api/v1/instruments  list the instrument universe
  GET  /health              liveness check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.Config.Server.Addr
			}

			srv := server.New(app.Pipeline, app.Instruments, server.Config{
				Addr:           addr,
				AllowedOrigins: app.Config.Server.AllowedOrigins,
			}, app.Logger)

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config)")
	return cmd
}
