package main

import (
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epeers/reservoirs/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if cfg.AdminToken == "" {
			log.Warn("ADMIN_TOKEN not set; admin endpoints are disabled")
		}

		if err := server.New(cfg, a.svcs).Run(ctx); err != nil {
			return err
		}
		log.Info("Server exited")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "", "port to listen on (overrides PORT)")
}
