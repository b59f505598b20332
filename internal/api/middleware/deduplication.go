package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"dish-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deduplicator 擋下短時間內重複送出的相同 POST（例如連點兩次作答）
type Deduplicator struct {
	mu       sync.Mutex
	requests map[string]time.Time
	window   time.Duration
	now      func() time.Time
	exempt   map[string]struct{}
}

// NewDeduplicator 建立去重器；window <= 0 時為一秒
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = time.Second
	}
	return &Deduplicator{
		requests: make(map[string]time.Time),
		window:   window,
		now:      time.Now,
		exempt:   make(map[string]struct{}),
	}
}

// Exempt 不對這些路徑去重；適用於由請求內容自行判斷重複的端點
func (d *Deduplicator) Exempt(paths ...string) *Deduplicator {
	for _, p := range paths {
		d.exempt[p] = struct{}{}
	}
	return d
}

// seen 記錄指紋並回報是否為視窗內的重複請求
func (d *Deduplicator) seen(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now

	// 清理過期指紋
	for k, t := range d.requests {
		if now.Sub(t) > 10*d.window {
			delete(d.requests, k)
		}
	}
	return false
}

// Handler 請求去重中間件
func (d *Deduplicator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if _, ok := d.exempt[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		// 計算請求體哈希
		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					abortWithError(c, common.ErrRequestTooLarge)
					return
				}
				common.LogError("Failed to read request body", zap.Error(err))
				abortWithError(c, common.ErrInvalidRequest.Wrap(err))
				return
			}

			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		// 生成請求指紋
		fingerprint := c.Request.Method + ":" + c.Request.URL.Path + ":" + bodyHash
		if d.seen(fingerprint) {
			common.LogWarn("Duplicate request rejected", zap.String("path", c.Request.URL.Path))
			abortWithError(c, common.ErrTooManyRequests.Wrap(errors.New("duplicate request")))
			return
		}

		c.Next()
	}
}
