package cli

import (
	"github.com/spf13/cobra"
)

// Version is set by the release build.
var Version = "git"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Long:  `Shows the CLI version.`,
	Args:  cobra.ExactArgs(0),
	RunE: func(c *cobra.Command, args []string) error {
		return renderMessage(c.OutOrStdout(), "%s version %s", Name, Version)
	},
}
