package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/awsconf/internal/config"
	dserrors "github.com/systmms/awsconf/internal/errors"
	"github.com/systmms/awsconf/internal/logging"
)

// NewCredentialsCommand creates the credentials command group
func NewCredentialsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Inspect the effective AWS credentials",
	}
	cmd.AddCommand(
		newCredentialsCheckCommand(cfg),
		newCredentialsWhoamiCommand(cfg),
	)
	return cmd
}

func newCredentialsCheckCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Resolve credentials and show where they came from",
		Long: `Resolve the effective credentials the same way the secrets loader does:
explicit keys or a profile from aws.credentials, otherwise the first working
source among environment, shared profile, container and instance role.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			awsCfg, err := cfg.AWS(ctx)
			if err != nil {
				return err
			}

			creds, err := awsCfg.Credentials.Retrieve(ctx)
			if err != nil {
				return dserrors.UserError{
					Message:    "Failed to retrieve AWS credentials",
					Details:    err.Error(),
					Suggestion: "Configure aws.credentials, set AWS_PROFILE, or export AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY",
					Err:        err,
				}
			}

			region := awsCfg.DefaultRegion
			if region == "" {
				region = "(SDK default)"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source:      %s\n", creds.Source)
			fmt.Fprintf(out, "Access key:  %s\n", logging.MaskAccessKey(creds.AccessKeyID))
			fmt.Fprintf(out, "Session:     %t\n", creds.SessionToken != "")
			fmt.Fprintf(out, "Region:      %s\n", region)
			if creds.CanExpire {
				fmt.Fprintf(out, "Expires:     %s\n", creds.Expires.Format("2006-01-02 15:04:05 MST"))
			}

			cfg.Logger.Info("Credentials resolved")
			return nil
		},
	}
}

func newCredentialsWhoamiCommand(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the STS caller identity of the effective credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			awsCfg, err := cfg.AWS(ctx)
			if err != nil {
				return err
			}

			identity, err := awsCfg.CallerIdentity(ctx, cfg.STS)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]string{
					"account": identity.Account,
					"arn":     identity.ARN,
					"userId":  identity.UserID,
				})
			}

			fmt.Fprintf(out, "Account: %s\n", identity.Account)
			fmt.Fprintf(out, "ARN:     %s\n", identity.ARN)
			fmt.Fprintf(out, "UserId:  %s\n", identity.UserID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
