package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"dish-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleFiles = map[string]string{
	FileIngredients: "id;label;tag\n1;Chicken;kure\n2;Rice;ryze\n3;Chilli;chilli\n",
	FileDishes:      "id;name;tags;image;description\n1;Chilli chicken;kure|ryze|chilli;chicken.webp;Hot\n",
	FileQuips:       "id;text\n1;I forgot it\n",
	FilePickyQuips:  "id;text\n1;Nothing? Really?\n",
}

func writeCatalog(t *testing.T, root, mode string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, mode)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

type countingSource struct {
	inner Source
	calls atomic.Int32
}

func (c *countingSource) Fetch(ctx context.Context, mode, name string) ([]byte, error) {
	c.calls.Add(1)
	return c.inner.Fetch(ctx, mode, name)
}

func TestLoaderFromDir(t *testing.T) {
	root := t.TempDir()
	writeCatalog(t, root, "experimental", sampleFiles)

	src := &countingSource{inner: NewDirSource(root)}
	loader, err := NewLoader(src, 2)
	require.NoError(t, err)

	c, err := loader.Load(context.Background(), "experimental")
	require.NoError(t, err)
	assert.True(t, c.Ready())
	assert.Equal(t, "experimental", c.Mode)
	assert.Len(t, c.Ingredients, 3)
	assert.Len(t, c.Dishes, 1)
	assert.Len(t, c.Quips, 1)
	assert.Len(t, c.PickyQuips, 1)
	assert.Equal(t, int32(4), src.calls.Load())

	// second load is served from cache
	again, err := loader.Load(context.Background(), "experimental")
	require.NoError(t, err)
	assert.Same(t, c, again)
	assert.Equal(t, int32(4), src.calls.Load())

	cached, ok := loader.Cached("experimental")
	assert.True(t, ok)
	assert.Same(t, c, cached)

	loader.Invalidate("experimental")
	_, ok = loader.Cached("experimental")
	assert.False(t, ok)
}

func TestLoaderMissingFile(t *testing.T) {
	root := t.TempDir()
	writeCatalog(t, root, "serious", map[string]string{FileIngredients: sampleFiles[FileIngredients]})

	loader, err := NewLoader(NewDirSource(root), 1)
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), "serious")
	assert.ErrorIs(t, err, common.ErrCatalogNotReady)
}

func TestLoaderEmptyCatalog(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for k, v := range sampleFiles {
		files[k] = v
	}
	files[FileDishes] = "id;name;tags;image;description\n"
	writeCatalog(t, root, "experimental", files)

	loader, err := NewLoader(NewDirSource(root), 1)
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), "experimental")
	assert.ErrorIs(t, err, common.ErrInvalidCatalog)
}

func TestLoaderParseError(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for k, v := range sampleFiles {
		files[k] = v
	}
	files[FileDishes] = "id;name;tags;image;description\nnope;Soup;voda;soup.webp;Wet\n"
	writeCatalog(t, root, "experimental", files)

	loader, err := NewLoader(NewDirSource(root), 1)
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), "experimental")
	require.ErrorIs(t, err, common.ErrCatalogParseFailed)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, FileDishes, pe.File)
	assert.Equal(t, 2, pe.Line)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/serious/"+FileQuips {
			_, _ = w.Write([]byte(sampleFiles[FileQuips]))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", 2*time.Second)

	data, err := src.Fetch(context.Background(), "serious", FileQuips)
	require.NoError(t, err)
	assert.Equal(t, sampleFiles[FileQuips], string(data))

	_, err = src.Fetch(context.Background(), "serious", FileDishes)
	assert.Error(t, err)
}

func TestDirSourceCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDirSource(t.TempDir()).Fetch(ctx, "experimental", FileDishes)
	assert.ErrorIs(t, err, context.Canceled)
}
