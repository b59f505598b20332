package kv

import (
	"context"
	"sync"
	"time"

	"dish-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore 行程內的鍵值儲存，重啟後資料消失
type MemoryStore struct {
	mu     sync.RWMutex
	store  map[string]memoryEntry
	stats  memoryStats
	closed bool
}

// memoryEntry 儲存條目
type memoryEntry struct {
	value       string
	updatedAt   time.Time
	accessCount int
}

// memoryStats 存取統計
type memoryStats struct {
	hits    int64
	misses  int64
	writes  int64
	deletes int64
}

// NewMemoryStore 建立記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[string]memoryEntry)}
}

// Get 讀取值
func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", false, ErrClosed
	}
	entry, ok := m.store[key]
	if !ok {
		m.stats.misses++
		return "", false, nil
	}
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++
	return entry.value, true, nil
}

// Set 寫入值
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.store[key] = memoryEntry{value: value, updatedAt: time.Now()}
	m.stats.writes++
	return nil
}

// Delete 刪除值；不存在時不視為錯誤
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.store, key)
	m.stats.deletes++
	return nil
}

// GetStats 取得存取統計
func (m *MemoryStore) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"size":    len(m.store),
		"hits":    m.stats.hits,
		"misses":  m.stats.misses,
		"writes":  m.stats.writes,
		"deletes": m.stats.deletes,
	}
}

// Close 關閉儲存並清空資料
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = make(map[string]memoryEntry)
	m.closed = true
	common.LogInfo("記憶體儲存已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("寫入次數", m.stats.writes),
	)
	return nil
}
