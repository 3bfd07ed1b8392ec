package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/getdepot/depot/api/storage/client"
	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use: "file",
	Aliases: []string{
		"files",
	},
	Short:             "File management",
	Long:              `Manages files stored in a bucket.`,
	Args:              cobra.ExactArgs(0),
	PersistentPreRunE: ensureClient,
}

var fileUploadCmd = &cobra.Command{
	Use:   "upload <bucket>",
	Short: "Upload a file to a bucket",
	Long: `Uploads a local file to a bucket.

The remote path defaults to the source file's base name. Existing objects
are only overwritten with --upsert.`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runUpload(c, args[0], false)
	},
}

var fileUpdateCmd = &cobra.Command{
	Use:   "update <bucket>",
	Short: "Overwrite a file in a bucket",
	Long: `Overwrites an existing object with the contents of a local file.

The remote path defaults to the source file's base name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runUpload(c, args[0], true)
	},
}

var fileDownloadCmd = &cobra.Command{
	Use:   "download <bucket> <path>",
	Short: "Download a file from a bucket",
	Long: `Downloads an object to a local file.

The local path defaults to the object's base name.`,
	Args: cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		bucket, pth := args[0], args[1]
		output, err := c.Flags().GetString("output")
		if err != nil {
			return err
		}
		if output == "" {
			output = filepath.Base(pth)
		}
		r, size, err := clients.DownloadObject(context.Background(), bucket, pth)
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		src := r
		bar := startProgress(size)
		if bar != nil {
			src = bar.NewProxyReader(r)
			defer bar.Finish()
		}
		written, err := io.Copy(f, src)
		if err != nil {
			return fmt.Errorf("writing %s: %v", output, err)
		}
		return renderDownloaded(c.OutOrStdout(), bucket, pth, output, written)
	},
}

var fileListCmd = &cobra.Command{
	Use: "list <bucket>",
	Aliases: []string{
		"ls",
	},
	Short: "List files in a bucket",
	Long:  `Lists objects in a bucket, optionally filtered by prefix and search term.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		var opts []client.ListOption
		prefix, err := c.Flags().GetString("prefix")
		if err != nil {
			return err
		}
		if prefix != "" {
			opts = append(opts, client.WithPrefix(prefix))
		}
		search, err := c.Flags().GetString("search")
		if err != nil {
			return err
		}
		if search != "" {
			opts = append(opts, client.WithSearch(search))
		}
		limit, err := c.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		opts = append(opts, client.WithLimit(limit))
		objects, err := clients.ListObjects(context.Background(), args[0], opts...)
		if err != nil {
			return err
		}
		return renderObjects(c.OutOrStdout(), objects)
	},
}

var fileDeleteCmd = &cobra.Command{
	Use: "delete <bucket> <path>...",
	Aliases: []string{
		"rm",
	},
	Short: "Delete files from a bucket",
	Long:  `Deletes one or more objects from a bucket in a single request.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		removed, err := clients.RemoveObjects(context.Background(), args[0], args[1:])
		if err != nil {
			return err
		}
		return renderRemoved(c.OutOrStdout(), removed)
	},
}

var fileMoveCmd = &cobra.Command{
	Use: "move <bucket>",
	Aliases: []string{
		"mv",
	},
	Short: "Move a file within a bucket",
	Long:  `Moves an object from one path to another within a bucket.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		from, to, err := fromToFlags(c)
		if err != nil {
			return err
		}
		if err := clients.MoveObject(context.Background(), args[0], from, to); err != nil {
			return err
		}
		return renderMessage(c.OutOrStdout(), "Moved %s to %s", from, to)
	},
}

var fileCopyCmd = &cobra.Command{
	Use: "copy <bucket>",
	Aliases: []string{
		"cp",
	},
	Short: "Copy a file within a bucket",
	Long:  `Copies an object from one path to another within a bucket.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		from, to, err := fromToFlags(c)
		if err != nil {
			return err
		}
		key, err := clients.CopyObject(context.Background(), args[0], from, to)
		if err != nil {
			return err
		}
		return renderMessage(c.OutOrStdout(), "Copied %s to %s", from, key)
	},
}

var fileInfoCmd = &cobra.Command{
	Use:   "info <bucket> <path>",
	Short: "Show file metadata",
	Long:  `Shows the metadata of a single object.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		obj, err := clients.ObjectInfo(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		return renderObject(c.OutOrStdout(), obj)
	},
}

var fileExistsCmd = &cobra.Command{
	Use:   "exists <bucket> <path>",
	Short: "Check whether a file exists",
	Long:  `Reports whether an object is present without fetching it.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		exists, err := clients.ObjectExists(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		return renderExists(c.OutOrStdout(), args[1], exists)
	},
}

// runUpload implements upload and update, which differ only in overwrite
// semantics.
func runUpload(c *cobra.Command, bucket string, update bool) error {
	source, err := c.Flags().GetString("file")
	if err != nil {
		return err
	}
	remote, err := c.Flags().GetString("path")
	if err != nil {
		return err
	}
	if remote == "" {
		remote = filepath.Base(source)
	}
	f, err := os.Open(source)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	var src io.Reader = f
	bar := startProgress(info.Size())
	if bar != nil {
		src = bar.NewProxyReader(f)
		defer bar.Finish()
	}
	var obj *client.Object
	if update {
		obj, err = clients.UpdateObject(context.Background(), bucket, remote, src, info.Size())
	} else {
		upsert, err2 := c.Flags().GetBool("upsert")
		if err2 != nil {
			return err2
		}
		obj, err = clients.UploadObject(context.Background(), bucket, remote, src, info.Size(), client.WithUpsert(upsert))
	}
	if err != nil {
		return err
	}
	return renderUploaded(c.OutOrStdout(), bucket, obj)
}

func fromToFlags(c *cobra.Command) (string, string, error) {
	from, err := c.Flags().GetString("from")
	if err != nil {
		return "", "", err
	}
	to, err := c.Flags().GetString("to")
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

func init() {
	fileUploadCmd.Flags().StringP("file", "f", "", "Local source path (required)")
	fileUploadCmd.Flags().String("path", "", "Remote destination path (defaults to the source base name)")
	fileUploadCmd.Flags().Bool("upsert", false, "Overwrite the object if it already exists")
	_ = fileUploadCmd.MarkFlagRequired("file")

	fileUpdateCmd.Flags().StringP("file", "f", "", "Local source path (required)")
	fileUpdateCmd.Flags().String("path", "", "Remote destination path (defaults to the source base name)")
	_ = fileUpdateCmd.MarkFlagRequired("file")

	fileDownloadCmd.Flags().StringP("output", "o", "", "Local destination path (defaults to the object base name)")

	fileListCmd.Flags().String("prefix", "", "Path prefix to list under")
	fileListCmd.Flags().String("search", "", "Free-text search term")
	fileListCmd.Flags().Int("limit", client.DefaultListLimit, "Maximum number of results")

	fileMoveCmd.Flags().String("from", "", "Source path (required)")
	fileMoveCmd.Flags().String("to", "", "Destination path (required)")
	_ = fileMoveCmd.MarkFlagRequired("from")
	_ = fileMoveCmd.MarkFlagRequired("to")

	fileCopyCmd.Flags().String("from", "", "Source path (required)")
	fileCopyCmd.Flags().String("to", "", "Destination path (required)")
	_ = fileCopyCmd.MarkFlagRequired("from")
	_ = fileCopyCmd.MarkFlagRequired("to")
}
