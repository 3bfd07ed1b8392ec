package cli

import (
	"context"
	"time"

	"github.com/getdepot/depot/api/storage/client"
	"github.com/spf13/cobra"
)

const defaultExpiry = 3600

var urlCmd = &cobra.Command{
	Use: "url",
	Aliases: []string{
		"urls",
	},
	Short:             "URL generation",
	Long:              `Generates public and signed URLs for stored objects.`,
	Args:              cobra.ExactArgs(0),
	PersistentPreRunE: ensureClient,
}

var urlPublicCmd = &cobra.Command{
	Use:   "public <bucket> <path>",
	Short: "Print the public URL of an object",
	Long: `Prints the credential-free URL of an object in a public bucket.

The URL is derived from the endpoint; no request is made. Objects in
private buckets are not reachable through it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		return renderURL(c.OutOrStdout(), clients.PublicObjectURL(args[0], args[1]))
	},
}

var urlSignedCmd = &cobra.Command{
	Use:   "signed <bucket> <path>",
	Short: "Generate a signed URL for an object",
	Long:  `Generates a time-limited URL granting read access to one object.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		expires, err := c.Flags().GetInt64("expires")
		if err != nil {
			return err
		}
		var opts []client.SignOption
		download, err := c.Flags().GetString("download")
		if err != nil {
			return err
		}
		if download != "" {
			opts = append(opts, client.WithDownload(download))
		}
		signed, err := clients.SignObjectURL(context.Background(), args[0], args[1], time.Duration(expires)*time.Second, opts...)
		if err != nil {
			return err
		}
		return renderURL(c.OutOrStdout(), signed)
	},
}

var urlSignedUploadCmd = &cobra.Command{
	Use:   "signed-upload <bucket> <path>",
	Short: "Generate a signed upload URL",
	Long:  `Generates a time-limited URL granting write access to one object path.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		signed, err := clients.SignUploadURL(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		return renderURL(c.OutOrStdout(), signed)
	},
}

var urlSignedURLsCmd = &cobra.Command{
	Use:   "signed-urls <bucket> <path>...",
	Short: "Generate signed URLs for many objects",
	Long: `Generates time-limited read URLs for many objects in one request.

Each path succeeds or fails independently; a tally of generated URLs is
printed after the per-path report.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		expires, err := c.Flags().GetInt64("expires")
		if err != nil {
			return err
		}
		signed, err := clients.SignObjectURLs(context.Background(), args[0], args[1:], time.Duration(expires)*time.Second)
		if err != nil {
			return err
		}
		return renderSignedURLs(c.OutOrStdout(), signed)
	},
}

func init() {
	urlSignedCmd.Flags().Int64("expires", defaultExpiry, "Expiration in seconds")
	urlSignedCmd.Flags().String("download", "", "Force download under the given file name")

	urlSignedURLsCmd.Flags().Int64("expires", defaultExpiry, "Expiration in seconds")
}
