package api

import (
	"MoodCheckin/internal/api/middleware"
	"MoodCheckin/internal/pkg/logger"
	"MoodCheckin/internal/pkg/ratelimit"
	"MoodCheckin/internal/pkg/response"
	"MoodCheckin/internal/pkg/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RouterOptions 路由层依赖的配置
type RouterOptions struct {
	BasePath     string
	CORSOrigins  []string
	MaxBodyBytes int64
	APIKey       string
	// Limiter 为 nil 时不限流
	Limiter ratelimit.Limiter
	Diag    *logger.Cooldown
}

func SetupRouter(group *HandlersGroup, opts RouterOptions) *gin.Engine {
	util.SetupBindingValidator()
	if opts.Diag == nil {
		opts.Diag = logger.NewCooldown(time.Minute)
	}

	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	// TraceId & Logger & 安全头 & CORS
	r.Use(middleware.TraceMiddleware())
	logger.SetupGin(r)
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(opts.CORSOrigins))
	r.Use(middleware.BodyLimitMiddleware(opts.MaxBodyBytes))
	if opts.Limiter != nil {
		r.Use(middleware.RateLimitMiddleware(opts.Limiter, opts.Diag))
	}

	r.GET("/health", group.HealthHandler.Health)

	apiGroup := r.Group(opts.BasePath)
	apiGroup.Use(middleware.APIKeyMiddleware(opts.APIKey, opts.Diag))
	{
		apiGroup.POST("/mood", group.MoodHandler.Create)
		apiGroup.GET("/mood/:user_id", group.MoodHandler.List)
		apiGroup.GET("/summary/:user_id", group.SummaryHandler.Summary)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.MsgNotFound)
	})

	return r
}
