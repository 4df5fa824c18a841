package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayusman/aircursor/internal/config"
	"github.com/ayusman/aircursor/internal/store"
)

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	var (
		limit   int
		session string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled clicks and window actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return err
			}
			if cfg.Journal.Path == "" {
				return errors.New("no journal configured (set --journal or journal.path)")
			}
			if _, err := os.Stat(cfg.Journal.Path); err != nil {
				return fmt.Errorf("journal: %w", err)
			}

			st, err := store.New(cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer st.Close()

			var events []*store.Event
			if session != "" {
				events, err = st.Events().BySession(cmd.Context(), session)
			} else {
				events, err = st.Events().Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tSESSION\tACTION\tX\tY\tERROR")
			for _, e := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					e.CreatedAt.Local().Format(time.DateTime), shortID(e.SessionID), e.Kind, e.X, e.Y, e.Error)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().StringVar(&session, "session", "", "show every entry of one session")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
