package main

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayusman/aircursor/internal/config"
)

// newRootCmd builds the command tree around a fresh viper instance. Bare
// "aircursor" behaves like "aircursor run".
func newRootCmd() *cobra.Command {
	return newRootCmdWithViper(viper.New())
}

func newRootCmdWithViper(v *viper.Viper) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "aircursor",
		Short:         "Control the mouse pointer with your hand",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.Init(v, cfgFile)
		},
	}
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default ./aircursor.yaml or ~/.aircursor/aircursor.yaml)")
	flags.Int("camera", 0, "camera device index")
	flags.Int("fps", 30, "frames processed per second")
	flags.Bool("no-display", false, "do not open the preview window")
	flags.String("server", "", "serve status and telemetry on this address")
	flags.Bool("tray", false, "show a system tray menu")
	flags.String("journal", "", "sqlite file to journal actions into")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("backend", config.BackendRobotgo, "action backend: robotgo or noop")

	mustBind(v, "camera.device", root, "camera")
	mustBind(v, "loop.fps", root, "fps")
	mustBind(v, "tray.enabled", root, "tray")
	mustBind(v, "journal.path", root, "journal")
	mustBind(v, "logger.level", root, "log-level")
	mustBind(v, "actions.backend", root, "backend")

	run := newRunCmd(v)
	root.RunE = run.RunE
	root.AddCommand(run, newHistoryCmd(v), newPluginsCmd(v), newVersionCmd())
	return root
}

func mustBind(v *viper.Viper, key string, cmd *cobra.Command, flag string) {
	if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// resolveConfig unmarshals v and applies the flags that do not map onto a
// single key.
func resolveConfig(cmd *cobra.Command, v *viper.Viper) (*config.Config, error) {
	if f := cmd.Flag("no-display"); f != nil && f.Changed {
		noDisplay, err := strconv.ParseBool(f.Value.String())
		if err != nil {
			return nil, err
		}
		v.Set("display.enabled", !noDisplay)
	}
	if f := cmd.Flag("server"); f != nil && f.Changed {
		addr := f.Value.String()
		v.Set("server.enabled", addr != "")
		if addr != "" {
			v.Set("server.addr", addr)
		}
	}

	return config.NewConfigFromViper(v)
}
