package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mrftool/mrf/logging"
)

const envPrefix = "MRFV"

// app is the state shared by all subcommands of one invocation.
type app struct {
	stderr io.Writer
	conf   *viper.Viper
	log    logging.Logger
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}
	root := &cobra.Command{
		Use:           "mrfv",
		Short:         "Validate and download machine-readable json files",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Flags())
		},
	}
	root.SetErr(stderr)
	root.SetOut(stderr)

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (yaml, json or toml)")
	pf.String("log-level", "info", "log level: debug, info, error")
	pf.String("log-format", "text", "log format: text or json")

	root.AddCommand(a.validateCmd(), a.fetchCmd())
	return root
}

// init layers configuration as flag > environment > config file > default
// and builds the logger.
func (a *app) init(flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %q: %w", path, err)
		}
	}

	lvl, err := logging.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}
	format := v.GetString("log-format")
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format %q", format)
	}
	a.conf = v
	a.log = logging.Zerolog(logging.New(a.stderr, lvl, format))
	return nil
}
