// Package kv 提供字串鍵值儲存，供歷史紀錄與模式偏好持久化使用。
package kv

import (
	"context"
	"errors"
	"fmt"

	"dish-recommender/internal/infrastructure/config"
)

// ErrClosed 儲存已關閉
var ErrClosed = errors.New("kv: store is closed")

// Store 鍵值儲存介面；key 不存在時 ok 為 false 且 err 為 nil
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// 後端名稱
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// New 依設定建立儲存後端
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case BackendBadger:
		return NewBadgerStore(cfg.Badger)
	default:
		return nil, fmt.Errorf("kv: unknown backend %q", cfg.Backend)
	}
}
