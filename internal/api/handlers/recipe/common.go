package recipe

import (
	"context"

	"dish-recommender/internal/core/history"
	"dish-recommender/internal/core/matching"
	"dish-recommender/internal/core/mode"
	recipeService "dish-recommender/internal/core/recipe"
	"dish-recommender/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recommender 處理程序依賴的推薦服務
type Recommender interface {
	Mode() mode.Mode
	SetMode(ctx context.Context, m mode.Mode) error
	Start(ctx context.Context) (recipeService.View, error)
	Current() (recipeService.View, error)
	Answer(ctx context.Context, round int, ids []int) (recipeService.View, error)
	Finish(ctx context.Context) (recipeService.View, error)
	Next(ctx context.Context) (recipeService.View, error)
	Close(ctx context.Context) (recipeService.CloseResult, error)
	Match(ctx context.Context, tags []string) ([]matching.Result, error)
	ImagePath(m mode.Mode, image string) string
	History(m *mode.Mode) []history.Entry
	ClearHistory(ctx context.Context)
}

// Handler 推薦相關的處理程序
type Handler struct {
	svc   Recommender
	debug bool
}

// NewHandler 創建新的處理程序；debug 時錯誤響應附上原始錯誤
func NewHandler(svc Recommender, debug bool) *Handler {
	return &Handler{svc: svc, debug: debug}
}

// Register 註冊路由
func (h *Handler) Register(api *gin.RouterGroup) {
	api.GET("/mode", h.HandleGetMode)
	api.PUT("/mode", h.HandleSetMode)

	quiz := api.Group("/quiz")
	{
		quiz.GET("", h.HandleCurrent)
		quiz.POST("/start", h.HandleStart)
		quiz.POST("/answer", h.HandleAnswer)
		quiz.POST("/finish", h.HandleFinish)
		quiz.POST("/next", h.HandleNext)
		quiz.POST("/close", h.HandleClose)
	}

	api.POST("/match", h.HandleMatch)
	api.GET("/history", h.HandleListHistory)
	api.DELETE("/history", h.HandleClearHistory)
}

// respondError 記錄並回傳帶代碼的錯誤
func (h *Handler) respondError(c *gin.Context, msg string, err error) {
	status, resp := common.ToResponse(err, h.debug)
	fields := []zap.Field{
		zap.Error(err),
		zap.String("code", resp.Code),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= 500 {
		common.LogError(msg, fields...)
	} else {
		common.LogWarn(msg, fields...)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}
