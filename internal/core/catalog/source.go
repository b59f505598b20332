package catalog

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dish-recommender/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// 每個模式目錄下的檔名
const (
	FileIngredients = "ingredients.csv"
	FileDishes      = "dishes.csv"
	FileQuips       = "quips.csv"
	FilePickyQuips  = "picky-quips.csv"
)

// Source 取得某模式下某個菜單檔的原始內容
type Source interface {
	Fetch(ctx context.Context, mode, name string) ([]byte, error)
}

// DirSource 從本機目錄讀取：<root>/<mode>/<name>
type DirSource struct {
	root string
}

// NewDirSource 創建目錄來源
func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

// Fetch 讀取檔案
func (s *DirSource) Fetch(ctx context.Context, mode, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.root, mode, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// HTTPSource 從靜態網站讀取：<baseURL>/<mode>/<name>
type HTTPSource struct {
	client *resty.Client
}

// NewHTTPSource 創建 HTTP 來源
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "text/csv, text/plain")

	return &HTTPSource{client: client}
}

// Fetch 發送 GET 請求取得檔案
func (s *HTTPSource) Fetch(ctx context.Context, mode, name string) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"mode": mode, "name": name}).
		Get("/{mode}/{name}")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s/%s: %w", mode, name, err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("菜單檔下載失敗",
			zap.String("mode", mode),
			zap.String("file", name),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, fmt.Errorf("fetch %s/%s: unexpected status %d", mode, name, resp.StatusCode())
	}

	return resp.Body(), nil
}
