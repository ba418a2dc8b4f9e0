package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/awsconf/internal/config"
	dserrors "github.com/systmms/awsconf/internal/errors"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command group
func NewConfigCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the merged configuration",
	}
	cmd.AddCommand(newConfigPrintCommand(cfg))
	return cmd
}

func newConfigPrintCommand(cfg *config.Config) *cobra.Command {
	var (
		showSecrets bool
		format      string
	)

	cmd := &cobra.Command{
		Use:   "print [path]",
		Short: "Print the fully merged configuration tree",
		Long: `Run every configuration source (files, environment, --set overrides and
AWS secrets) and print the resulting tree.

Values whose key looks sensitive (password, secret, token, access key) are
redacted unless --show-secrets is given.

Examples:
  # Print everything
  awsconf -c app.yaml config print

  # Print one section as JSON
  awsconf -c app.yaml config print jdbc.main --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := cfg.Load(cmd.Context())
			if err != nil {
				return err
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			node, ok := tree.Get(path)
			if !ok {
				return dserrors.ConfigError{
					Field:      "path",
					Value:      path,
					Message:    "no such configuration path",
					Suggestion: "Run 'awsconf config print' to see the whole tree",
				}
			}

			if !showSecrets {
				node = redactNode(lastSegment(path), node)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(node); err != nil {
					return fmt.Errorf("failed to encode YAML: %w", err)
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(node); err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
				return nil
			default:
				return dserrors.UserError{
					Message:    fmt.Sprintf("Unknown output format '%s'", format),
					Suggestion: "Use --format yaml or --format json",
				}
			}
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print sensitive values instead of [REDACTED]")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")

	return cmd
}

func lastSegment(path string) string {
	return path[strings.LastIndex(path, ".")+1:]
}
