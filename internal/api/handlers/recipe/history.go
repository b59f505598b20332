package recipe

import (
	"net/http"

	"dish-recommender/internal/core/history"
	"dish-recommender/internal/core/mode"
	"dish-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// HistoryItem 歷史紀錄加上以該筆模式解析的圖片路徑
type HistoryItem struct {
	history.Entry
	Image string `json:"image"`
}

// HandleListHistory 列出歷史紀錄，可用 ?mode= 篩選
func (h *Handler) HandleListHistory(c *gin.Context) {
	var filter *mode.Mode
	if raw := c.Query("mode"); raw != "" {
		m, err := mode.Parse(raw)
		if err != nil {
			h.respondError(c, "模式無效", common.ErrInvalidRequest.Wrap(err))
			return
		}
		filter = &m
	}

	entries := h.svc.History(filter)
	items := make([]HistoryItem, len(entries))
	for i, e := range entries {
		items[i] = HistoryItem{Entry: e, Image: h.svc.ImagePath(e.Mode, e.Dish.Image)}
	}
	c.JSON(http.StatusOK, gin.H{
		"total":   len(items),
		"entries": items,
	})
}

// HandleClearHistory 清空歷史紀錄
func (h *Handler) HandleClearHistory(c *gin.Context) {
	h.svc.ClearHistory(c.Request.Context())
	c.Status(http.StatusNoContent)
}
