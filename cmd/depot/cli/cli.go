package cli

import (
	"fmt"
	"runtime"

	"github.com/getdepot/depot/api/storage/client"
	"github.com/getdepot/depot/cmd"
	aurora2 "github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Name = "depot"

	defaultTarget = "http://127.0.0.1:5000"
)

var aurora = aurora2.NewAurora(runtime.GOOS != "windows")

var config = &cmd.Config{
	Viper: viper.New(),
	Flags: map[string]cmd.Flag{
		"url": {
			Key:      "url",
			DefValue: defaultTarget,
		},
		"key": {
			Key:      "service_key",
			DefValue: "",
		},
		"json": {
			Key:      "json",
			DefValue: false,
		},
	},
	EnvPre: "STORAGE",
}

var clients *client.Client

func Init(rootCmd *cobra.Command) {
	rootCmd.AddCommand(bucketCmd, fileCmd, urlCmd, versionCmd)
	bucketCmd.AddCommand(
		bucketListCmd,
		bucketCreateCmd,
		bucketGetCmd,
		bucketUpdateCmd,
		bucketEmptyCmd,
		bucketDeleteCmd,
	)
	fileCmd.AddCommand(
		fileUploadCmd,
		fileDownloadCmd,
		fileListCmd,
		fileDeleteCmd,
		fileMoveCmd,
		fileCopyCmd,
		fileInfoCmd,
		fileExistsCmd,
		fileUpdateCmd,
	)
	urlCmd.AddCommand(
		urlPublicCmd,
		urlSignedCmd,
		urlSignedUploadCmd,
		urlSignedURLsCmd,
	)
}

func Config() *cmd.Config {
	return config
}

// SetClient overrides the client constructed from config. Used by tests.
func SetClient(c *client.Client) {
	clients = c
}

// ensureClient resolves the connection config and constructs the storage
// client. It fails before any network I/O when the service key is absent.
func ensureClient(c *cobra.Command, args []string) error {
	cmd.ExpandConfigVars(config.Viper, config.Flags)
	if clients != nil {
		return nil
	}
	key := config.Viper.GetString("service_key")
	if key == "" {
		return fmt.Errorf("missing service key: set STORAGE_SERVICE_KEY or pass --key")
	}
	var err error
	clients, err = client.NewClient(config.Viper.GetString("url"), key)
	return err
}

func jsonOutput() bool {
	return config.Viper.GetBool("json")
}
