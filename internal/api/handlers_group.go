package api

import "MoodCheckin/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	HealthHandler  *handler.HealthHandler
	MoodHandler    *handler.MoodHandler
	SummaryHandler *handler.SummaryHandler
}
