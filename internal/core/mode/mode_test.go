package mode

import (
	"context"
	"errors"
	"testing"

	"dish-recommender/internal/core/elicitation"
	"dish-recommender/internal/core/kv"
	"dish-recommender/internal/infrastructure/config"
	"dish-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (brokenStore) Set(context.Context, string, string) error { return errors.New("disk on fire") }
func (brokenStore) Delete(context.Context, string) error      { return errors.New("disk on fire") }
func (brokenStore) Close() error                              { return nil }

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"experimental", Experimental, false},
		{" Serious ", Serious, false},
		{"A", Experimental, false},
		{"b", Serious, false},
		{"chaotic", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrategyAndRules(t *testing.T) {
	assert.Equal(t, elicitation.Paired, Experimental.Strategy())
	assert.Equal(t, elicitation.MultiSelect, Serious.Strategy())
	assert.Equal(t, "A", Experimental.Letter())
	assert.Equal(t, "B", Serious.Letter())

	r := Experimental.Rules(config.ElicitationConfig{})
	assert.Equal(t, elicitation.DefaultRules(elicitation.Paired), r)

	r = Serious.Rules(config.ElicitationConfig{MultiCap: 4, MultiRoundSize: 2})
	assert.Equal(t, 4, r.TagTarget)
	assert.Equal(t, 2, r.RoundSize)
	assert.True(t, r.AllowFinish)
}

func TestImagePath(t *testing.T) {
	a := NewAssets("./data/")
	assert.Equal(t, "./data/serious/dish-img/kure.png", a.ImagePath(Serious, "kure.webp"))
	assert.Equal(t, "./data/experimental/dish-img/buchta.jpg", a.ImagePath(Experimental, "buchta.jpg"))
	assert.Equal(t, "./data/experimental/dish-img/x.png", a.ImagePath(Mode("nope"), "x.webp"))
	assert.Equal(t, "", a.ImagePath(Serious, ""))

	assert.Equal(t, "serious/dish-img/a.png", NewAssets("").ImagePath(Serious, "a.webp"))
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	s := NewStore(mem, "mode")

	assert.Equal(t, Default, s.Load(ctx))

	s.Save(ctx, Serious)
	raw, ok, err := mem.Get(ctx, "mode")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "serious", raw)
	assert.Equal(t, Serious, s.Load(ctx))

	require.NoError(t, mem.Set(ctx, "mode", "gourmet"))
	assert.Equal(t, Default, s.Load(ctx))
}

func TestStoreFailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	common.SetLogger(zap.New(core))
	t.Cleanup(func() { common.SetLogger(nil) })

	s := NewStore(brokenStore{}, "mode")
	assert.Equal(t, Default, s.Load(context.Background()))
	s.Save(context.Background(), Serious)

	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, common.ErrCodePersistenceWriteFailed, logs.All()[1].ContextMap()["code"])
}
