package cli

import (
	"context"
	"fmt"

	"github.com/caarlos0/spin"
	"github.com/dustin/go-humanize"
	"github.com/getdepot/depot/api/storage/client"
	"github.com/getdepot/depot/cmd"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var bucketCmd = &cobra.Command{
	Use: "bucket",
	Aliases: []string{
		"buckets",
	},
	Short:             "Bucket management",
	Long:              `Manages storage buckets.`,
	Args:              cobra.ExactArgs(0),
	PersistentPreRunE: ensureClient,
}

var bucketListCmd = &cobra.Command{
	Use: "list",
	Aliases: []string{
		"ls",
	},
	Short: "List all buckets",
	Long:  `Lists all buckets.`,
	Args:  cobra.ExactArgs(0),
	RunE: func(c *cobra.Command, args []string) error {
		bucks, err := clients.ListBuckets(context.Background())
		if err != nil {
			return err
		}
		return renderBuckets(c.OutOrStdout(), bucks)
	},
}

var bucketCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a bucket",
	Long:  `Creates a bucket. Visibility defaults to private.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		opts, err := bucketOptions(c)
		if err != nil {
			return err
		}
		public, err := c.Flags().GetBool("public")
		if err != nil {
			return err
		}
		opts = append(opts, client.WithPublic(public))
		buck, err := clients.CreateBucket(context.Background(), args[0], opts...)
		if err != nil {
			return err
		}
		return renderBucket(c.OutOrStdout(), buck)
	},
}

var bucketGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show bucket details",
	Long:  `Shows the details of a single bucket.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		buck, err := clients.GetBucket(context.Background(), args[0])
		if err != nil {
			return err
		}
		return renderBucket(c.OutOrStdout(), buck)
	},
}

var bucketUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update a bucket",
	Long: `Updates a bucket's visibility and constraints.

Unlike create, visibility has no default here: --public must be supplied
explicitly, e.g. --public=false to make a bucket private.`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		if !c.Flags().Changed("public") {
			return fmt.Errorf("the --public flag is required for update (use --public=false to make the bucket private)")
		}
		public, err := c.Flags().GetBool("public")
		if err != nil {
			return err
		}
		opts, err := bucketOptions(c)
		if err != nil {
			return err
		}
		buck, err := clients.UpdateBucket(context.Background(), args[0], public, opts...)
		if err != nil {
			return err
		}
		return renderBucket(c.OutOrStdout(), buck)
	},
}

var bucketEmptyCmd = &cobra.Command{
	Use:   "empty <name>",
	Short: "Remove all objects from a bucket",
	Long:  `Removes all objects from a bucket. The bucket itself is kept.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		if err := confirm(c, fmt.Sprintf("Empty bucket %s", args[0])); err != nil {
			return err
		}
		var s *spin.Spinner
		if !jsonOutput() {
			s = spin.New("%s Emptying bucket")
			s.Start()
		}
		err := clients.EmptyBucket(context.Background(), args[0])
		if s != nil {
			s.Stop()
		}
		if err != nil {
			return err
		}
		return renderMessage(c.OutOrStdout(), "Emptied bucket %s", args[0])
	},
}

var bucketDeleteCmd = &cobra.Command{
	Use: "delete <name>",
	Aliases: []string{
		"rm",
	},
	Short: "Delete a bucket",
	Long:  `Deletes a bucket. The service rejects deletion of non-empty buckets.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		if err := confirm(c, fmt.Sprintf("Delete bucket %s", args[0])); err != nil {
			return err
		}
		if err := clients.DeleteBucket(context.Background(), args[0]); err != nil {
			return err
		}
		return renderMessage(c.OutOrStdout(), "Deleted bucket %s", args[0])
	},
}

// bucketOptions collects the constraint flags shared by create and update.
func bucketOptions(c *cobra.Command) ([]client.BucketOption, error) {
	var opts []client.BucketOption
	maxSize, err := c.Flags().GetString("max-size")
	if err != nil {
		return nil, err
	}
	if maxSize != "" {
		limit, err := humanize.ParseBytes(maxSize)
		if err != nil {
			return nil, fmt.Errorf("parsing --max-size: %v", err)
		}
		opts = append(opts, client.WithFileSizeLimit(int64(limit)))
	}
	types, err := c.Flags().GetStringSlice("allowed-types")
	if err != nil {
		return nil, err
	}
	if len(types) > 0 {
		opts = append(opts, client.WithAllowedMimeTypes(types...))
	}
	return opts, nil
}

// confirm prompts before a destructive action unless --yes was given.
func confirm(c *cobra.Command, label string) error {
	yes, err := c.Flags().GetBool("yes")
	if err != nil {
		return err
	}
	if yes {
		return nil
	}
	cmd.Warn("This action cannot be undone.")
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		return fmt.Errorf("aborted")
	}
	return nil
}

func init() {
	bucketCreateCmd.Flags().Bool("public", false, "Allow anonymous read access")
	bucketCreateCmd.Flags().String("max-size", "", "Maximum object size, e.g. 5MB")
	bucketCreateCmd.Flags().StringSlice("allowed-types", nil, "Allowed content types")

	bucketUpdateCmd.Flags().Bool("public", false, "Allow anonymous read access (required)")
	bucketUpdateCmd.Flags().String("max-size", "", "Maximum object size, e.g. 5MB")
	bucketUpdateCmd.Flags().StringSlice("allowed-types", nil, "Allowed content types")

	bucketEmptyCmd.Flags().BoolP("yes", "y", false, "Skips the confirmation prompt if true")
	bucketDeleteCmd.Flags().BoolP("yes", "y", false, "Skips the confirmation prompt if true")
}
