// dishctl 是菜單與歷史紀錄的維運工具。
//
// Usage:
//
//	dishctl catalog validate [--mode=experimental|serious]
//	dishctl rank --tags=kure,ryze [--mode=serious] [--limit=5] [--json]
//	dishctl history list [--mode=serious] [--json]
//	dishctl history clear
package main

import (
	"context"
	"fmt"
	"os"

	"dish-recommender/internal/app"
	"dish-recommender/internal/core/mode"
	"dish-recommender/internal/infrastructure/config"
	"dish-recommender/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version 於建置時以 -ldflags 設定
var version = "dev"

type rootFlags struct {
	mode    string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "dishctl",
		Short:         "Inspect dish catalogs and recommendation history",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if flags.verbose {
				common.SetLogger(zap.Must(zap.NewDevelopment()))
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.mode, "mode", "", "Mode to operate on (experimental|serious, A|B); empty means all or the saved mode")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(newCatalogCmd(flags))
	root.AddCommand(newRankCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	return root
}

// withApp 載入設定並組裝元件，結束後關閉儲存
func withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// parseModeFlag 空字串回傳 nil
func parseModeFlag(raw string) (*mode.Mode, error) {
	if raw == "" {
		return nil, nil
	}
	m, err := mode.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
