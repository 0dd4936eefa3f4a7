package handler

import (
	"MoodCheckin/internal/api/dto"
	"MoodCheckin/internal/pkg/response"
	"MoodCheckin/internal/service"

	"github.com/gin-gonic/gin"
)

type MoodHandler struct {
	moodSvc service.MoodService
}

func NewMoodHandler(moodSvc service.MoodService) *MoodHandler {
	return &MoodHandler{
		moodSvc: moodSvc,
	}
}

// Create 新建或覆盖某日心情
func (s *MoodHandler) Create(c *gin.Context) {
	var req dto.MoodCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.moodSvc.Upsert(c.Request.Context(), &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"upserted": true})
}

// List 历史记录，支持日期范围与分页
func (s *MoodHandler) List(c *gin.Context) {
	var req dto.MoodListDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.moodSvc.List(c.Request.Context(), c.Param("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	extra := gin.H{
		"total":  result.Total,
		"limit":  result.Limit,
		"offset": result.Offset,
	}
	if result.Page != nil {
		extra["page"] = *result.Page
		extra["per_page"] = *result.PerPage
	}
	response.Rows(c, result.Rows, extra)
}
