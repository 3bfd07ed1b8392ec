package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag describes a viper-backed config value with a default.
type Flag struct {
	Key      string
	DefValue interface{}
}

// Config holds the CLI's viper instance and its flag bindings.
type Config struct {
	Viper  *viper.Viper
	Flags  map[string]Flag
	EnvPre string
}

// InitConfig returns a function that wires environment variables into conf.
// Values resolve in order: flag > environment > default.
func InitConfig(conf *Config) func() {
	return func() {
		v := conf.Viper
		v.SetEnvPrefix(conf.EnvPre)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
}

// BindFlags binds root's persistent flags to their viper keys and
// installs defaults.
func BindFlags(v *viper.Viper, root *cobra.Command, flags map[string]Flag) error {
	for n, f := range flags {
		if err := v.BindPFlag(f.Key, root.PersistentFlags().Lookup(n)); err != nil {
			return err
		}
		v.SetDefault(f.Key, f.DefValue)
	}
	return nil
}

// ExpandConfigVars expands shell-style variables in string config values.
func ExpandConfigVars(v *viper.Viper, flags map[string]Flag) {
	for _, f := range flags {
		if f.Key != "" {
			if str, ok := v.Get(f.Key).(string); ok {
				v.Set(f.Key, os.ExpandEnv(str))
			}
		}
	}
}
