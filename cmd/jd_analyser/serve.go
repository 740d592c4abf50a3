package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-analyser/internal/analysis"
	"github.com/jonathan/jd-analyser/internal/llm"
	"github.com/jonathan/jd-analyser/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server that exposes POST /analyse and GET /health.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := root.loadEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				env.Port = port
			}
			logger, err := newLogger(env)
			if err != nil {
				return err
			}

			provider := llm.SelectedProvider(env)
			if env.IsProduction() {
				provider = llm.ProviderOpenAI
			}
			logger.WithField("production", env.IsProduction()).
				WithField("provider", provider).
				Info("analyser configured")

			svc := analysis.NewService(env, analysis.WithLogger(logger))
			srv, err := server.New(server.Config{
				Port:     env.Port,
				Analyser: svc,
				Logger:   logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			return srv.Start()
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides PORT)")
	return cmd
}
