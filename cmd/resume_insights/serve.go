package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-insights/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  "Starts the REST API for uploading resumes and reading back their analyses.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			p, err := a.pipeline(st, nil)
			if err != nil {
				return err
			}

			srv, err := server.New(a.cfg.Server, server.Deps{
				Pipeline: p,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}

			a.logger.Info("starting server",
				zap.Int("port", a.cfg.Server.Port),
				zap.String("storage", a.cfg.Storage.Backend))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8000, "Port to listen on (overrides server.port)")

	return cmd
}
