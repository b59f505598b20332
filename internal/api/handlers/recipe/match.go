package recipe

import (
	"errors"
	"net/http"

	"dish-recommender/internal/core/matching"
	"dish-recommender/internal/core/mode"
	"dish-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// MatchRequest 直接以 tag 配對
type MatchRequest struct {
	Tags  []string `json:"tags"`
	Limit int      `json:"limit,omitempty"`
}

// MatchItem 配對結果加上圖片路徑
type MatchItem struct {
	matching.Result
	Image string `json:"image"`
}

// MatchResponse 配對結果
type MatchResponse struct {
	Mode    mode.Mode   `json:"mode"`
	Total   int         `json:"total"`
	Results []MatchItem `json:"results"`
}

// ModeRequest 切換模式
type ModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// HandleMatch 對目前模式的菜單排序
func (h *Handler) HandleMatch(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "請求格式無效", common.ErrInvalidRequest.Wrap(err))
		return
	}
	if req.Limit < 0 {
		h.respondError(c, "請求格式無效", common.ErrInvalidRequest.Wrap(errors.New("limit must not be negative")))
		return
	}

	m := h.svc.Mode()
	results, err := h.svc.Match(c.Request.Context(), req.Tags)
	if err != nil {
		h.respondError(c, "配對失敗", err)
		return
	}

	resp := MatchResponse{Mode: m, Total: len(results)}
	if req.Limit > 0 && req.Limit < len(results) {
		results = results[:req.Limit]
	}
	resp.Results = make([]MatchItem, len(results))
	for i, r := range results {
		resp.Results[i] = MatchItem{Result: r, Image: h.svc.ImagePath(m, r.Dish.Image)}
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGetMode 取得目前模式
func (h *Handler) HandleGetMode(c *gin.Context) {
	m := h.svc.Mode()
	c.JSON(http.StatusOK, gin.H{
		"mode":     m,
		"letter":   m.Letter(),
		"strategy": m.Strategy().String(),
	})
}

// HandleSetMode 切換模式；進行中的問答會被放棄
func (h *Handler) HandleSetMode(c *gin.Context) {
	var req ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "請求格式無效", common.ErrInvalidRequest.Wrap(err))
		return
	}
	m, err := mode.Parse(req.Mode)
	if err != nil {
		h.respondError(c, "模式無效", common.ErrInvalidRequest.Wrap(err))
		return
	}
	if err := h.svc.SetMode(c.Request.Context(), m); err != nil {
		h.respondError(c, "切換模式失敗", err)
		return
	}
	h.HandleGetMode(c)
}
