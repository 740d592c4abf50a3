// Package main provides the entry point for the job description analyser CLI
// and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/jd-analyser/internal/config"
	"github.com/jonathan/jd-analyser/internal/logging"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "jd_analyser",
		Short:         "Job description analyser",
		Long:          "Extracts hard skills, soft skills, resume improvements and a cover letter snippet from a job description, redacting personal data before and after the model call.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Optional JSON config file; environment variables take precedence")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newAnalyseCmd(opts))
	cmd.AddCommand(newRedactCmd())
	return cmd
}

// loadEnv reads configuration from the environment and, when given, the
// config file.
func (o *rootOptions) loadEnv() (config.Env, error) {
	env := config.Load()
	if o.configPath != "" {
		var err error
		if env, err = config.LoadWithFile(o.configPath); err != nil {
			return config.Env{}, err
		}
	}
	if err := env.Validate(); err != nil {
		return config.Env{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return env, nil
}

func newLogger(env config.Env) (*logrus.Logger, error) {
	logger, err := logging.New(env.LogLevel, env.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
