package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-ats/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server that exposes parsing, scoring, tailoring and streaming analysis endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			o, assistant, cleanup, err := a.orchestrator(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			cfg := server.Config{
				Port:           a.cfg.Server.Port,
				MaxUploadBytes: a.cfg.Server.MaxUploadBytes,
				AllowedOrigins: a.cfg.Server.AllowedOrigins,
				RateLimit:      a.cfg.Server.RateLimit,
				Burst:          a.cfg.Server.Burst,
				Industry:       a.cfg.Industry,
				Dictionary:     a.dict,
				Orchestrator:   o,
				Logger:         a.logger,
			}
			if assistant != nil {
				cfg.JobExtractor = assistant
			}

			srv, err := server.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default from config, 8080)")
	return cmd
}
