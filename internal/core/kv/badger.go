package kv

import (
	"context"
	"errors"
	"fmt"

	"dish-recommender/internal/infrastructure/config"
	"dish-recommender/internal/pkg/common"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// BadgerStore 以 Badger 嵌入式資料庫為後端的儲存
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore 開啟資料庫；InMemory 時忽略 Path
func NewBadgerStore(cfg config.BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	common.LogInfo("Badger 儲存已開啟", zap.String("path", cfg.Path), zap.Bool("in_memory", cfg.InMemory))
	return &BadgerStore{db: db}, nil
}

// Get 讀取值
func (s *BadgerStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return string(val), true, nil
}

// Set 寫入值
func (s *BadgerStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete 刪除值
func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close 關閉資料庫
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger 將 Badger 日誌導向 zap
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	common.LogError(fmt.Sprintf(format, args...), zap.String("component", "badger"))
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	common.LogWarn(fmt.Sprintf(format, args...), zap.String("component", "badger"))
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	common.LogDebug(fmt.Sprintf(format, args...), zap.String("component", "badger"))
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	common.LogDebug(fmt.Sprintf(format, args...), zap.String("component", "badger"))
}
