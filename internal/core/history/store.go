package history

import (
	"context"
	"sync"

	"dish-recommender/internal/core/kv"
	"dish-recommender/internal/core/mode"
	"dish-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 有容量上限的歷史紀錄，寫入 KV 時為 best-effort
type Store struct {
	mu       sync.RWMutex
	writeMu  sync.Mutex // KV 寫入與記憶體更新同序
	kv       kv.Store
	key      string
	capacity int
	entries  []Entry
}

// NewStore 建立歷史紀錄；capacity <= 0 時使用預設值
func NewStore(store kv.Store, key string, capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		kv:       store,
		key:      key,
		capacity: capacity,
		entries:  []Entry{},
	}
}

// Load 從 KV 讀取紀錄；不存在或損壞時為空
func (s *Store) Load(ctx context.Context) []Entry {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entries := s.read(ctx)

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	common.LogInfo("歷史紀錄已載入", zap.String("key", s.key), zap.Int("筆數", len(entries)))
	return cloneEntries(entries)
}

func (s *Store) read(ctx context.Context) []Entry {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		common.LogPersistence(common.ErrPersistenceReadCorrupt, s.key, err)
		return []Entry{}
	}
	if !ok || raw == "" {
		return []Entry{}
	}

	var decoded []storedEntry
	if err := common.ParseJSON(raw, &decoded); err != nil {
		common.LogPersistence(common.ErrPersistenceReadCorrupt, s.key, err)
		return []Entry{}
	}

	entries := make([]Entry, 0, len(decoded))
	for _, d := range decoded {
		entries = append(entries, d.upgrade())
	}
	if len(entries) > s.capacity {
		entries = entries[:s.capacity]
	}
	return entries
}

// Append 新增一筆到最前面，超過容量時丟棄最舊的
func (s *Store) Append(ctx context.Context, e Entry) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next := make([]Entry, 0, s.capacity)
	next = append(next, migrate(e))
	next = append(next, s.entries...)
	if len(next) > s.capacity {
		next = next[:s.capacity]
	}
	s.entries = next
	snapshot := cloneEntries(next)
	s.mu.Unlock()

	s.persist(ctx, snapshot)
}

func (s *Store) persist(ctx context.Context, entries []Entry) {
	data, err := common.ToJSON(entries)
	if err != nil {
		common.LogPersistence(common.ErrPersistenceWriteFailed, s.key, err)
		return
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		common.LogPersistence(common.ErrPersistenceWriteFailed, s.key, err)
	}
}

// Entries 回傳所有紀錄，最新的在前
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.entries)
}

// ByMode 只回傳某模式的紀錄
func (s *Store) ByMode(m mode.Mode) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Entry{}
	for _, e := range s.entries {
		if e.Mode == m {
			out = append(out, cloneEntry(e))
		}
	}
	return out
}

// Len 紀錄筆數
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Capacity 容量上限
func (s *Store) Capacity() int { return s.capacity }

// Clear 清空記憶體與 KV 中的紀錄
func (s *Store) Clear(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.entries = []Entry{}
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, s.key); err != nil {
		common.LogPersistence(common.ErrPersistenceWriteFailed, s.key, err)
	}
}

func cloneEntries(in []Entry) []Entry {
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = cloneEntry(e)
	}
	return out
}

func cloneEntry(e Entry) Entry {
	out := e
	out.Dish = e.Dish.Clone()
	out.UserTags = common.CloneStrings(e.UserTags)
	out.MatchedTags = common.CloneStrings(e.MatchedTags)
	out.MissingTags = common.CloneStrings(e.MissingTags)
	out.ExtraTags = common.CloneStrings(e.ExtraTags)
	out.Annotations = make([]Annotation, len(e.Annotations))
	copy(out.Annotations, e.Annotations)
	return out
}
