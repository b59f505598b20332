package mode

import (
	"context"

	"dish-recommender/internal/core/kv"
	"dish-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 記住上次使用的模式
type Store struct {
	kv  kv.Store
	key string
}

// NewStore 建立模式儲存
func NewStore(store kv.Store, key string) *Store {
	return &Store{kv: store, key: key}
}

// Load 讀取上次的模式；不存在、無法辨識或讀取失敗時回傳預設模式
func (s *Store) Load(ctx context.Context) Mode {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		common.LogPersistence(common.ErrPersistenceReadCorrupt, s.key, err)
		return Default
	}
	if !ok {
		return Default
	}
	m, err := Parse(raw)
	if err != nil {
		common.LogWarn("無法辨識的模式，使用預設值", zap.String("value", raw))
		return Default
	}
	return m
}

// Save 寫入目前模式；失敗只記錄日誌
func (s *Store) Save(ctx context.Context, m Mode) {
	if err := s.kv.Set(ctx, s.key, m.String()); err != nil {
		common.LogPersistence(common.ErrPersistenceWriteFailed, s.key, err)
	}
}
