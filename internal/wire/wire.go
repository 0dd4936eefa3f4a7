package wire

import (
	"MoodCheckin/internal/api"
	"MoodCheckin/internal/api/config"
	"MoodCheckin/internal/api/handler"
	"MoodCheckin/internal/pkg/logger"
	"MoodCheckin/internal/pkg/ratelimit"
	"MoodCheckin/internal/repository"
	"MoodCheckin/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

// BuildApplication redisEnabled 为 false 时不启用统计缓存与限流
func BuildApplication(db *gorm.DB, cfg *config.Config, redisEnabled bool) (*ApplicationContainer, error) {
	moodRepo := repository.NewMoodRepo(db)

	var summaryCache service.SummaryCache = service.NoopSummaryCache{}
	var limiter ratelimit.Limiter
	if redisEnabled {
		summaryCache = service.NewRedisSummaryCache(cfg.Mood.SummaryCacheTTL)
		if cfg.RateLimit.Enabled {
			limiter = ratelimit.NewFixedWindow(cfg.RateLimit.Limit, cfg.RateLimit.Window)
		}
	}

	moodService := service.NewMoodService(moodRepo, summaryCache, service.PageConfig{
		DefaultSize: cfg.Mood.DefaultPageSize,
		MaxSize:     cfg.Mood.MaxPageSize,
	})
	summaryService := service.NewSummaryService(moodRepo, summaryCache)

	handlers := &api.HandlersGroup{
		HealthHandler:  handler.NewHealthHandler(),
		MoodHandler:    handler.NewMoodHandler(moodService),
		SummaryHandler: handler.NewSummaryHandler(summaryService),
	}

	router := api.SetupRouter(handlers, api.RouterOptions{
		BasePath:     cfg.Server.BasePath,
		CORSOrigins:  cfg.Server.CORSOrigins,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		APIKey:       cfg.Security.APIKey,
		Limiter:      limiter,
		Diag:         logger.NewCooldown(cfg.Security.WarnCooldown),
	})

	return &ApplicationContainer{
		Router: router,
		DB:     db,
	}, nil
}
