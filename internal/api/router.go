package api

import (
	"context"
	"errors"
	"time"

	"dish-recommender/internal/api/handlers/health"
	recipeHandler "dish-recommender/internal/api/handlers/recipe"
	"dish-recommender/internal/api/middleware"
	recipeService "dish-recommender/internal/core/recipe"
	"dish-recommender/internal/infrastructure/config"
	"dish-recommender/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 15 * time.Second
	// 請求體大小預設上限
	defaultMaxBodySize = 64 << 10
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc *recipeService.Service) (*gin.Engine, error) {
	if cfg == nil || svc == nil {
		return nil, errors.New("api: config and service are required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID))) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	maxBody := cfg.Server.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}
	router.Use(middleware.BodySizeLimit(maxBody))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, svc, func() string { return svc.Mode().String() })
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組；作答以輪次判斷重複，切換菜色可以連點，其餘 POST 以去重中間件擋下
	api := router.Group("/api/v1")
	api.Use(middleware.NewDeduplicator(cfg.DedupWindow).
		Exempt("/api/v1/quiz/answer", "/api/v1/quiz/next").
		Handler())
	recipeHandler.NewHandler(svc, cfg.App.Debug).Register(api)

	router.NoRoute(middleware.NotFound())

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBody),
	)

	return router, nil
}
