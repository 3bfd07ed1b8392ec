package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getdepot/depot/api/storage/client"
	"github.com/getdepot/depot/cmd"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// serve starts a stub storage service and returns a client bound to it.
func serve(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	cl, err := client.NewClient(ts.URL, "test-key")
	require.NoError(t, err)
	t.Cleanup(func() { _ = cl.Close() })
	return cl
}

// testRoot is built once: the subcommand tree is global and cobra caches
// merged persistent flags per command, so a fresh root per run would leave
// subcommands parsing into stale flag objects that viper is not bound to.
var testRoot *cobra.Command

// runCommand executes the CLI against a pre-built client and captures its
// output. The command tree is global, so flags are reset between runs.
func runCommand(t *testing.T, cl *client.Client, args ...string) (string, error) {
	t.Helper()
	cmd.InitConfig(config)()
	SetClient(cl)
	t.Cleanup(func() { SetClient(nil) })

	if testRoot == nil {
		testRoot = &cobra.Command{
			Use:           Name,
			SilenceUsage:  true,
			SilenceErrors: true,
		}
		Init(testRoot)
		testRoot.PersistentFlags().String("url", defaultTarget, "")
		testRoot.PersistentFlags().String("key", "", "")
		testRoot.PersistentFlags().Bool("json", false, "")
	}
	root := testRoot
	resetFlags(root)
	require.NoError(t, cmd.BindFlags(config.Viper, root, config.Flags))

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func resetFlags(c *cobra.Command) {
	c.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
