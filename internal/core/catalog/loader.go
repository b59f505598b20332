package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"dish-recommender/internal/pkg/common"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Loader 依模式載入菜單並以 LRU 快取結果
type Loader struct {
	source Source
	cache  *lru.Cache[string, *Catalog]
}

// NewLoader 創建載入器；cacheSize 為可同時保留的模式數
func NewLoader(source Source, cacheSize int) (*Loader, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New[string, *Catalog](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Loader{source: source, cache: cache}, nil
}

// Load 回傳某模式的菜單，已載入則直接使用快取
func (l *Loader) Load(ctx context.Context, mode string) (*Catalog, error) {
	if c, ok := l.cache.Get(mode); ok {
		return c, nil
	}

	c, err := l.load(ctx, mode)
	if err != nil {
		common.LogError("菜單載入失敗", zap.String("mode", mode), zap.Error(err))
		return nil, err
	}

	l.cache.Add(mode, c)
	common.LogInfo("菜單已載入",
		zap.String("mode", mode),
		zap.Int("ingredients", len(c.Ingredients)),
		zap.Int("dishes", len(c.Dishes)),
		zap.Int("quips", len(c.Quips)),
		zap.Int("picky_quips", len(c.PickyQuips)),
	)
	return c, nil
}

// Cached 回傳已載入的菜單，不觸發 I/O
func (l *Loader) Cached(mode string) (*Catalog, bool) {
	return l.cache.Peek(mode)
}

// Invalidate 移除某模式的快取，下次 Load 重新讀取
func (l *Loader) Invalidate(mode string) {
	l.cache.Remove(mode)
}

func (l *Loader) load(ctx context.Context, mode string) (*Catalog, error) {
	c := &Catalog{Mode: mode}

	var err error
	if c.Ingredients, err = fetchParse(ctx, l.source, mode, FileIngredients, parseIngredients); err != nil {
		return nil, err
	}
	if c.Dishes, err = fetchParse(ctx, l.source, mode, FileDishes, parseDishes); err != nil {
		return nil, err
	}
	if c.Quips, err = fetchParse(ctx, l.source, mode, FileQuips, parseQuips); err != nil {
		return nil, err
	}
	if c.PickyQuips, err = fetchParse(ctx, l.source, mode, FilePickyQuips, parseQuips); err != nil {
		return nil, err
	}

	if !c.Ready() {
		return nil, common.ErrInvalidCatalog.Wrap(fmt.Errorf("mode %q: %d ingredients, %d dishes", mode, len(c.Ingredients), len(c.Dishes)))
	}
	return c, nil
}

func fetchParse[T any](ctx context.Context, src Source, mode, name string, parse func(io.Reader, string) ([]T, error)) ([]T, error) {
	data, err := src.Fetch(ctx, mode, name)
	if err != nil {
		return nil, common.ErrCatalogNotReady.Wrap(err)
	}
	items, err := parse(bytes.NewReader(data), name)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, common.ErrCatalogParseFailed.Wrap(pe)
		}
		return nil, common.ErrCatalogParseFailed.Wrap(err)
	}
	return items, nil
}
