package main

import (
	"fmt"
	"strings"

	"dish-recommender/internal/app"
	"dish-recommender/internal/core/matching"
	"dish-recommender/internal/pkg/common"

	"github.com/spf13/cobra"
)

type rankFlags struct {
	tags   []string
	limit  int
	asJSON bool
}

func newRankCmd(root *rootFlags) *cobra.Command {
	flags := &rankFlags{}
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the dishes of a mode against a set of tags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRank(cmd, root, flags)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&flags.tags, "tags", nil, "Comma-separated tags (required)")
	f.IntVar(&flags.limit, "limit", 10, "Maximum number of results; 0 prints all")
	f.BoolVar(&flags.asJSON, "json", false, "Print JSON")
	_ = cmd.MarkFlagRequired("tags")
	return cmd
}

func runRank(cmd *cobra.Command, root *rootFlags, flags *rankFlags) error {
	m, err := parseModeFlag(root.mode)
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app.App) error {
		current := a.Modes.Load(cmd.Context())
		if m != nil {
			current = *m
		}

		c, err := a.Loader.Load(cmd.Context(), current.String())
		if err != nil {
			return err
		}
		results, err := matching.NewScorer(a.Config.Matching.PenaltyWeight).Rank(flags.tags, c.Dishes)
		if err != nil {
			return err
		}
		if flags.limit > 0 && flags.limit < len(results) {
			results = results[:flags.limit]
		}

		out := cmd.OutOrStdout()
		if flags.asJSON {
			s, err := common.ToIndentedJSON(results)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, s)
			return nil
		}

		fmt.Fprintf(out, "mode: %s  tags: %s\n", current, strings.Join(flags.tags, ","))
		for i, r := range results {
			fmt.Fprintf(out, "%2d. %6.2f  %-28s matched=%s missing=%s extra=%s\n",
				i+1, r.Score, r.Dish.Name,
				strings.Join(r.MatchedTags, "|"),
				strings.Join(r.MissingTags, "|"),
				strings.Join(r.ExtraTags, "|"),
			)
		}
		return nil
	})
}
