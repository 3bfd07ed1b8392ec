package main

import (
	"github.com/spf13/cobra"

	"github.com/getdepot/depot/cmd"
	depot "github.com/getdepot/depot/cmd/depot/cli"
)

func init() {
	cobra.OnInitialize(cmd.InitConfig(depot.Config()))
	depot.Init(rootCmd)

	rootCmd.PersistentFlags().String("url", depot.Config().Flags["url"].DefValue.(string),
		"Storage API endpoint (STORAGE_URL)")
	rootCmd.PersistentFlags().String("key", "",
		"Service key used to authenticate (STORAGE_SERVICE_KEY)")
	rootCmd.PersistentFlags().Bool("json", false,
		"Print results as indented JSON")
	err := cmd.BindFlags(depot.Config().Viper, rootCmd, depot.Config().Flags)
	cmd.ErrCheck(err)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cmd.Fatal(err)
	}
}

var rootCmd = &cobra.Command{
	Use:   depot.Name,
	Short: "Storage client",
	Long: `The Depot storage client.

Manages buckets, files, and access URLs on a storage service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ExactArgs(0),
}
