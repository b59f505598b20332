package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dish-recommender/internal/core/catalog"
	"dish-recommender/internal/core/history"
	"dish-recommender/internal/core/kv"
	"dish-recommender/internal/core/matching"
	"dish-recommender/internal/core/mode"
	"dish-recommender/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var files = map[string]string{
	catalog.FileIngredients: "id;label;tag\n1;Chicken;kure\n2;Rice;ryze\n",
	catalog.FileDishes: "id;name;tags;image;description\n" +
		"1;Chicken rice;kure|ryze;a.webp;Plain\n" +
		"2;Truffle soup;lanyz;b.webp;Fancy\n",
	catalog.FileQuips:      "id;text\n1;It looked lonely\n",
	catalog.FilePickyQuips: "id;text\n1;Go hungry then\n",
}

// setupEnv 建立菜單目錄與 badger 路徑，回傳 badger 路徑
func setupEnv(t *testing.T, modes ...mode.Mode) string {
	t.Helper()
	root := t.TempDir()
	for _, m := range modes {
		dir := filepath.Join(root, m.String())
		require.NoError(t, os.MkdirAll(dir, 0o755))
		for name, body := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
		}
	}
	badgerPath := t.TempDir()
	t.Setenv("CATALOG_DIR", root)
	t.Setenv("STORAGE_BACKEND", kv.BackendBadger)
	t.Setenv("BADGER_PATH", badgerPath)
	return badgerPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCatalogValidate(t *testing.T) {
	setupEnv(t, mode.Experimental, mode.Serious)

	out, err := run(t, "catalog", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "experimental OK    ingredients=2 dishes=2 quips=1 picky=1")
	assert.Contains(t, out, "serious      OK")
	assert.Contains(t, out, `tag "lanyz" is used by dishes but no ingredient offers it`)
}

func TestCatalogValidateMissingMode(t *testing.T) {
	setupEnv(t, mode.Experimental)

	out, err := run(t, "catalog", "validate")
	require.Error(t, err)
	assert.Contains(t, out, "serious      FAIL")

	_, err = run(t, "catalog", "validate", "--mode", "A")
	assert.NoError(t, err)
}

func TestCatalogValidateBadMode(t *testing.T) {
	setupEnv(t, mode.Experimental)

	_, err := run(t, "catalog", "validate", "--mode", "gourmet")
	assert.Error(t, err)
}

func TestRank(t *testing.T) {
	setupEnv(t, mode.Experimental)

	out, err := run(t, "rank", "--tags", "kure,ryze")
	require.NoError(t, err)
	assert.Contains(t, out, "mode: experimental  tags: kure,ryze")
	assert.Contains(t, out, " 1.   2.00  Chicken rice")
	assert.Contains(t, out, " 2.  -0.30  Truffle soup")

	out, err = run(t, "rank", "--tags", "kure", "--limit", "1", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"matched_tags"`)
	assert.NotContains(t, out, "Truffle soup")
}

func TestRankRequiresTags(t *testing.T) {
	setupEnv(t, mode.Experimental)

	_, err := run(t, "rank")
	assert.Error(t, err)
}

func TestHistoryListAndClear(t *testing.T) {
	badgerPath := setupEnv(t, mode.Experimental)

	// 先寫入一筆紀錄再關閉，讓命令重新開啟
	store, err := kv.NewBadgerStore(config.BadgerConfig{Path: badgerPath})
	require.NoError(t, err)
	hist := history.NewStore(store, "dish-recommender:history", 50)
	dish := catalog.Dish{ID: 1, Name: "Chicken rice", Tags: []string{"kure", "ryze"}}
	result := matching.Result{Dish: dish, MatchedTags: []string{"kure", "ryze"}, MissingTags: []string{}, ExtraTags: []string{}}
	hist.Append(context.Background(), history.NewEntry(result, []string{"kure", "ryze"}, nil, mode.Serious, time.UnixMilli(1_700_000_000_000)))
	require.NoError(t, store.Close())

	out, err := run(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2023-11-14T22:13:20Z")
	assert.Contains(t, out, "Chicken rice")
	assert.Contains(t, out, "tags=kure,ryze")

	out, err = run(t, "history", "list", "--mode", "experimental")
	require.NoError(t, err)
	assert.Contains(t, out, "no history")

	out, err = run(t, "history", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"user_tags"`)

	out, err = run(t, "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared 1 entries")

	out, err = run(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no history")
}
