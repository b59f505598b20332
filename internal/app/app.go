// Package app 依設定組裝儲存、菜單與推薦服務，供 HTTP 服務與 CLI 共用。
package app

import (
	"context"
	"fmt"

	"dish-recommender/internal/core/catalog"
	"dish-recommender/internal/core/history"
	"dish-recommender/internal/core/kv"
	"dish-recommender/internal/core/mode"
	"dish-recommender/internal/core/recipe"
	"dish-recommender/internal/infrastructure/config"
	"dish-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// App 組裝好的元件
type App struct {
	Config  *config.Config
	Store   kv.Store
	Loader  *catalog.Loader
	History *history.Store
	Modes   *mode.Store
	Assets  *mode.Assets
	Service *recipe.Service
}

// NewSource 依設定選擇菜單來源
func NewSource(cfg config.CatalogConfig) (catalog.Source, error) {
	switch cfg.Source {
	case "", "dir":
		return catalog.NewDirSource(cfg.Dir), nil
	case "http":
		return catalog.NewHTTPSource(cfg.BaseURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

// Build 建立所有元件；菜單不在這裡載入
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := kv.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	source, err := NewSource(cfg.Catalog)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	loader, err := catalog.NewLoader(source, cfg.Catalog.CacheSize)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Store:   store,
		Loader:  loader,
		History: history.NewStore(store, cfg.Storage.HistoryKey, cfg.History.Capacity),
		Modes:   mode.NewStore(store, cfg.Storage.ModeKey),
		Assets:  mode.NewAssets(cfg.Assets.Base),
	}

	a.Service, err = recipe.NewService(a.Loader, a.History, a.Modes, a.Assets, recipe.OptionsFromConfig(cfg))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	common.LogInfo("元件已組裝",
		zap.String("storage", cfg.Storage.Backend),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.Int("history_capacity", cfg.History.Capacity),
	)
	return a, nil
}

// Close 釋放儲存
func (a *App) Close() error {
	return a.Store.Close()
}
