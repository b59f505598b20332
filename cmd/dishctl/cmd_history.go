package main

import (
	"fmt"
	"strings"
	"time"

	"dish-recommender/internal/app"
	"dish-recommender/internal/core/history"
	"dish-recommender/internal/pkg/common"

	"github.com/spf13/cobra"
)

func newHistoryCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear the recommendation history",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List history entries, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd, root, asJSON)
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				a.History.Load(cmd.Context())
				n := a.History.Len()
				a.History.Clear(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %d entries\n", n)
				return nil
			})
		},
	}

	cmd.AddCommand(list, clear)
	return cmd
}

func runHistoryList(cmd *cobra.Command, root *rootFlags, asJSON bool) error {
	m, err := parseModeFlag(root.mode)
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app.App) error {
		a.History.Load(cmd.Context())
		var entries []history.Entry
		if m != nil {
			entries = a.History.ByMode(*m)
		} else {
			entries = a.History.Entries()
		}

		out := cmd.OutOrStdout()
		if asJSON {
			s, err := common.ToIndentedJSON(entries)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, s)
			return nil
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "no history")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %s  %-12s %-28s tags=%s\n",
				e.Time().UTC().Format(time.RFC3339), e.ID, e.Mode, e.Dish.Name, strings.Join(e.UserTags, ","))
			for _, n := range e.Annotations {
				fmt.Fprintf(out, "    %s: %s\n", n.Tag, n.Note)
			}
		}
		return nil
	})
}
