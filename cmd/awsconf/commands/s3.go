package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/awsconf/internal/config"
	"github.com/systmms/awsconf/pkg/s3client"
)

// NewS3Command creates the s3 command group
func NewS3Command(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "s3",
		Short: "Check the configured S3 client",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "buckets",
		Short: "List buckets visible to the configured S3 client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cfg.S3Client(cmd.Context())
			if err != nil {
				return err
			}

			names, err := s3client.ListBuckets(cmd.Context(), client)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				cfg.Logger.Warn("No buckets found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})
	return cmd
}
