package handler

import (
	"MoodCheckin/internal/api/dto"
	"MoodCheckin/internal/pkg/response"
	"MoodCheckin/internal/service"

	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	summarySvc service.SummaryService
}

func NewSummaryHandler(summarySvc service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summarySvc: summarySvc,
	}
}

// Summary 按周或按月的心情统计
func (s *SummaryHandler) Summary(c *gin.Context) {
	var req dto.MoodSummaryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.summarySvc.Summarize(c.Request.Context(), c.Param("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Rows(c, result.Rows, gin.H{"period": result.Period})
}
