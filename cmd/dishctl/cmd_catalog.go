package main

import (
	"fmt"
	"sort"

	"dish-recommender/internal/app"
	"dish-recommender/internal/core/catalog"
	"dish-recommender/internal/core/mode"

	"github.com/spf13/cobra"
)

func newCatalogCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Load and check the catalog of each mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogValidate(cmd, root)
		},
	})
	return cmd
}

func runCatalogValidate(cmd *cobra.Command, root *rootFlags) error {
	only, err := parseModeFlag(root.mode)
	if err != nil {
		return err
	}
	modes := mode.All
	if only != nil {
		modes = []mode.Mode{*only}
	}

	return withApp(cmd.Context(), func(a *app.App) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, m := range modes {
			c, err := a.Loader.Load(cmd.Context(), m.String())
			if err != nil {
				failed++
				fmt.Fprintf(out, "%-12s FAIL  %v\n", m, err)
				continue
			}
			fmt.Fprintf(out, "%-12s OK    ingredients=%d dishes=%d quips=%d picky=%d\n",
				m, len(c.Ingredients), len(c.Dishes), len(c.Quips), len(c.PickyQuips))
			for _, tag := range unreachableTags(c) {
				fmt.Fprintf(out, "%-12s WARN  tag %q is used by dishes but no ingredient offers it\n", m, tag)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d catalog(s) failed validation", failed)
		}
		return nil
	})
}

// unreachableTags 菜色用到但沒有任何食材能選出的 tag
func unreachableTags(c *catalog.Catalog) []string {
	offered := make(map[string]struct{}, len(c.Ingredients))
	for _, ing := range c.Ingredients {
		offered[ing.Tag] = struct{}{}
	}
	missing := map[string]struct{}{}
	for _, d := range c.Dishes {
		for _, t := range d.Tags {
			if _, ok := offered[t]; !ok {
				missing[t] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(missing))
	for t := range missing {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
