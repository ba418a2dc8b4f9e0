package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/systmms/awsconf/cmd/awsconf/commands"
	"github.com/systmms/awsconf/internal/config"
	"github.com/systmms/awsconf/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFiles     []string
		properties      []string
		envPrefix       string
		noColor         bool
		debug           bool
		metricsTextfile string
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "awsconf",
		Short: "Layered application configuration with AWS Secrets Manager overlays",
		Long: `awsconf builds an application configuration tree from YAML files,
environment variables and property overrides, then merges secrets from
AWS Secrets Manager on top of it.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Logger = logging.New(debug, noColor)
			cfg.Paths = configFiles
			cfg.Properties = properties
			cfg.EnvPrefix = envPrefix
			if metricsTextfile != "" {
				cfg.Metrics = prometheus.NewRegistry()
			}
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Metrics == nil {
				return nil
			}
			if err := prometheus.WriteToTextfile(metricsTextfile, cfg.Metrics); err != nil {
				return fmt.Errorf("failed to write metrics to %s: %w", metricsTextfile, err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Config file path (repeatable, later files win)")
	rootCmd.PersistentFlags().StringArrayVar(&properties, "set", nil, "Override a config value, key.path=value (repeatable)")
	rootCmd.PersistentFlags().StringVar(&envPrefix, "env-prefix", config.DefaultEnvPrefix, "Prefix of environment variables mapped onto the config")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(
		commands.NewConfigCommand(cfg),
		commands.NewCredentialsCommand(cfg),
		commands.NewSecretsCommand(cfg),
		commands.NewS3Command(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
