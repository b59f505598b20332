package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"dish-recommender/internal/infrastructure/config"
	"dish-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReadinessChecker 回報服務是否可以處理請求
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Mode      string                 `json:"mode"`
	Storage   string                 `json:"storage"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理器
type Handler struct {
	cfg   *config.Config
	ready ReadinessChecker
	mode  func() string
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config, ready ReadinessChecker, mode func() string) *Handler {
	return &Handler{cfg: cfg, ready: ready, mode: mode}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Mode:      h.mode(),
		Storage:   h.cfg.Storage.Backend,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 目前模式的菜單可載入時才算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.ready.Ready(c.Request.Context()); err != nil {
		status, resp := common.ToResponse(err, h.cfg.App.Debug)
		if status < http.StatusInternalServerError {
			status, resp = common.ToResponse(common.ErrServiceUnavailable.Wrap(err), h.cfg.App.Debug)
		}
		common.LogWarn("Service not ready", zap.Error(err))
		c.JSON(status, gin.H{
			"status": "not_ready",
			"error":  resp,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
