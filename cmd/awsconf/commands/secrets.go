package commands

import (
	"fmt"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
	"github.com/systmms/awsconf/internal/config"
	"github.com/systmms/awsconf/pkg/awssecrets"
)

// NewSecretsCommand creates the secrets command group
func NewSecretsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Work with AWS Secrets Manager secrets",
	}
	cmd.AddCommand(newSecretsGetCommand(cfg))
	return cmd
}

func newSecretsGetCommand(cfg *config.Config) *cobra.Command {
	var (
		properties  bool
		mergePath   string
		transformer string
	)

	cmd := &cobra.Command{
		Use:   "get <name-or-arn>",
		Short: "Fetch one secret",
		Long: `Fetch one secret through the configured Secrets Manager client
(aws and awssecrets.endpointOverride settings apply).

By default the raw secret value is printed. With --properties, or when a
transformer or merge path is given, the secret is run through the same
transform and flatten steps the configuration loader uses and printed as
key=value lines.

Examples:
  # Raw value
  awsconf secrets get prod/rds/main

  # What the loader would merge
  awsconf secrets get prod/rds/main --transformer rds-to-hikari-datasource --merge-path jdbc.main`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := cfg.SecretStore(ctx)
			if err != nil {
				return err
			}

			if !properties && mergePath == "" && transformer == "" {
				raw, err := store.GetSecretValue(ctx, args[0])
				if err != nil {
					return err
				}
				defer memguard.WipeBytes(raw)

				_, err = out.Write(raw)
				return err
			}

			d := awssecrets.Descriptor{
				ID:              "cli",
				AWSName:         args[0],
				MergePath:       mergePath,
				JSONTransformer: transformer,
			}
			props, err := d.Properties(ctx, store, awssecrets.DefaultTransformers(cfg.Logger))
			if err != nil {
				return err
			}
			for _, k := range sortedKeys(props) {
				fmt.Fprintf(out, "%s=%s\n", k, props[k])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&properties, "properties", false, "Print the flattened key=value properties")
	cmd.Flags().StringVar(&mergePath, "merge-path", "", "Prefix property keys with this path")
	cmd.Flags().StringVar(&transformer, "transformer", "", "Apply a named JSON transformer first")

	return cmd
}
