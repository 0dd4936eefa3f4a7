package dto

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// UserID 兼容字符串与正整数两种传参
type UserID string

func (u *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*u = UserID(strings.TrimSpace(s))
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil || n <= 0 {
		return &json.UnmarshalTypeError{
			Value: "number " + string(b),
			Type:  reflect.TypeOf(*u),
		}
	}
	*u = UserID(strconv.FormatInt(n, 10))
	return nil
}

// MoodCreateDTO 提交/覆盖某日心情
type MoodCreateDTO struct {
	UserID    UserID  `json:"user_id" binding:"required,min=1,max=128"`
	Date      string  `json:"date" binding:"required,datetime=2006-01-02"`
	MoodScore int     `json:"mood_score" binding:"required,min=1,max=5"`
	MoodLabel *string `json:"mood_label" binding:"omitempty,max=50"`
	Notes     *string `json:"notes" binding:"omitempty,max=2000"`
}

// DateRangeDTO 日期范围，from/to 优先于 start_date/end_date
type DateRangeDTO struct {
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// Bounds 返回生效的起止日期
func (r *DateRangeDTO) Bounds() (string, string) {
	from, to := r.From, r.To
	if from == "" {
		from = r.StartDate
	}
	if to == "" {
		to = r.EndDate
	}
	return from, to
}

// MoodListDTO 历史记录查询，支持 page/per_page 或 limit/offset 两种分页
type MoodListDTO struct {
	DateRangeDTO
	Page    *int   `form:"page" binding:"omitnil,min=1"`
	PerPage *int   `form:"per_page" binding:"omitnil,min=1"`
	Limit   *int   `form:"limit" binding:"omitnil,min=1"`
	Offset  *int   `form:"offset" binding:"omitnil,min=0"`
	Order   string `form:"order" binding:"omitempty,oneofci=asc desc"`
}

// MoodSummaryDTO 周期统计查询
type MoodSummaryDTO struct {
	DateRangeDTO
	Period string `form:"period" binding:"omitempty,oneof=week month"`
}

// MoodEntryDTO 单条心情记录
type MoodEntryDTO struct {
	ID        uint64    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	MoodScore int       `json:"mood_score"`
	MoodLabel *string   `json:"mood_label"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MoodListResult 分页结果
type MoodListResult struct {
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Page    *int            `json:"page,omitempty"`
	PerPage *int            `json:"per_page,omitempty"`
	Rows    []*MoodEntryDTO `json:"rows"`
}

// SummaryRowDTO 单个周期桶的统计
type SummaryRowDTO struct {
	Period    string  `json:"period"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Entries   int     `json:"entries"`
	AvgMood   float64 `json:"avg_mood"`
	MinMood   int     `json:"min_mood"`
	MaxMood   int     `json:"max_mood"`
}

// MoodSummaryResult 周期统计结果
type MoodSummaryResult struct {
	Period string           `json:"period"`
	Rows   []*SummaryRowDTO `json:"rows"`
}
