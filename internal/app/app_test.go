package app

import (
	"context"
	"testing"

	"dish-recommender/internal/core/catalog"
	"dish-recommender/internal/core/kv"
	"dish-recommender/internal/infrastructure/config"
	"dish-recommender/internal/pkg/common"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig(t *testing.T) *config.Config {
	return &config.Config{
		Catalog: config.CatalogConfig{Source: "dir", Dir: t.TempDir(), CacheSize: 2},
		Storage: config.StorageConfig{
			Backend:    kv.BackendMemory,
			HistoryKey: "h",
			ModeKey:    "m",
		},
		Elicitation: config.ElicitationConfig{PairedTarget: 3, MultiCap: 5, MultiRoundSize: 3, Seed: 1},
		Matching:    config.MatchingConfig{PenaltyWeight: 0.1},
		History:     config.HistoryConfig{Capacity: 50},
	}
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(config.CatalogConfig{Source: "dir", Dir: "."})
	require.NoError(t, err)
	assert.IsType(t, &catalog.DirSource{}, src)

	src, err = NewSource(config.CatalogConfig{Source: "http", BaseURL: "http://localhost"})
	require.NoError(t, err)
	assert.IsType(t, &catalog.HTTPSource{}, src)

	_, err = NewSource(config.CatalogConfig{Source: "ftp"})
	assert.Error(t, err)
}

func TestBuildMemory(t *testing.T) {
	a, err := Build(context.Background(), baseConfig(t))
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &kv.MemoryStore{}, a.Store)
	require.NotNil(t, a.Service)
	// empty catalog dir: not ready yet
	assert.ErrorIs(t, a.Service.Ready(context.Background()), common.ErrCatalogNotReady)
}

func TestBuildRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig(t)
	cfg.Storage.Backend = kv.BackendRedis
	cfg.Storage.Redis.Addr = mr.Addr()

	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.IsType(t, &kv.RedisStore{}, a.Store)
}

func TestBuildBadStorage(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Storage.Backend = "floppy"
	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)
}
