package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayusman/aircursor/internal/config"
	"github.com/ayusman/aircursor/internal/plugin"
)

func newPluginsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List window action plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return err
			}

			mgr := plugin.NewManager(cfg.Actions.PluginDir, nil)
			if err := mgr.Discover(); err != nil {
				return err
			}

			plugins := mgr.List()
			if len(plugins) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "no plugins in %s\n", mgr.Dir())
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tACTIONS\tACTIVE")
			for _, p := range plugins {
				active := ""
				if p.Manifest.Name == cfg.Actions.WindowPlugin {
					active = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Manifest.Name, p.Manifest.Version, strings.Join(p.Manifest.Actions, ","), active)
			}
			return w.Flush()
		},
	}
}
