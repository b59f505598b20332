package recipe

import (
	"net/http"

	"dish-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// AnswerRequest 作答；round 為畫面上的輪次，ids 為空代表都不要
type AnswerRequest struct {
	Round int   `json:"round" binding:"required,min=1"`
	IDs   []int `json:"ids"`
}

// HandleStart 開始新的問答
func (h *Handler) HandleStart(c *gin.Context) {
	view, err := h.svc.Start(c.Request.Context())
	if err != nil {
		h.respondError(c, "問答開始失敗", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleCurrent 取得目前問答狀態
func (h *Handler) HandleCurrent(c *gin.Context) {
	view, err := h.svc.Current()
	if err != nil {
		h.respondError(c, "取得問答狀態失敗", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleAnswer 回答目前這一輪
func (h *Handler) HandleAnswer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "請求格式無效", common.ErrInvalidRequest.Wrap(err))
		return
	}

	view, err := h.svc.Answer(c.Request.Context(), req.Round, req.IDs)
	if err != nil {
		h.respondError(c, "作答失敗", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleFinish 提前結束問答
func (h *Handler) HandleFinish(c *gin.Context) {
	view, err := h.svc.Finish(c.Request.Context())
	if err != nil {
		h.respondError(c, "結束問答失敗", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleNext 顯示下一道相近的菜色
func (h *Handler) HandleNext(c *gin.Context) {
	view, err := h.svc.Next(c.Request.Context())
	if err != nil {
		h.respondError(c, "切換菜色失敗", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleClose 關閉結果並寫入歷史紀錄
func (h *Handler) HandleClose(c *gin.Context) {
	res, err := h.svc.Close(c.Request.Context())
	if err != nil {
		h.respondError(c, "關閉問答失敗", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
