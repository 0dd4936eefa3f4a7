package handler

import (
	"MoodCheckin/internal/pkg/consts"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Health 存活探针，不访问存储
func (s *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"service": consts.ServiceName,
		"ts":      s.now().UTC().Format(time.RFC3339Nano),
	})
}
