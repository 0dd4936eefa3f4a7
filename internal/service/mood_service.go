package service

import (
	"MoodCheckin/internal/api/dto"
	"MoodCheckin/internal/model"
	"MoodCheckin/internal/pkg/util"
	"MoodCheckin/internal/repository"
	"context"
	log "log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jinzhu/copier"
)

const maxUserIDLen = 128

type MoodService interface {
	Upsert(ctx context.Context, req *dto.MoodCreateDTO) error
	List(ctx context.Context, userID string, req *dto.MoodListDTO) (*dto.MoodListResult, error)
}

// PageConfig 分页参数
type PageConfig struct {
	DefaultSize int
	MaxSize     int
}

type moodServiceImpl struct {
	moodRepo repository.MoodRepo
	cache    SummaryCache
	page     PageConfig
}

func NewMoodService(moodRepo repository.MoodRepo, cache SummaryCache, page PageConfig) MoodService {
	if cache == nil {
		cache = NoopSummaryCache{}
	}
	return &moodServiceImpl{
		moodRepo: moodRepo,
		cache:    cache,
		page:     page,
	}
}

func (s *moodServiceImpl) Upsert(ctx context.Context, req *dto.MoodCreateDTO) error {
	req.UserID = dto.UserID(strings.TrimSpace(string(req.UserID)))
	if err := util.ValidateDTO(req); err != nil {
		return newValidationError(err)
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		return newValidationError(err)
	}

	entry := &model.MoodEntry{
		UserID:    string(req.UserID),
		Date:      date,
		MoodScore: req.MoodScore,
		MoodLabel: trimOptional(req.MoodLabel),
		Notes:     trimOptional(req.Notes),
	}
	if err = s.moodRepo.UpsertEntry(ctx, entry); err != nil {
		if isDataError(err) {
			return &ValidationError{Cause: ErrInvalidEntry}
		}
		return err
	}

	if err = s.cache.Invalidate(ctx, entry.UserID); err != nil {
		log.WarnContext(ctx, "invalidate summary cache failed", "user_id", entry.UserID, "err", err)
	}
	return nil
}

func (s *moodServiceImpl) List(ctx context.Context, userID string, req *dto.MoodListDTO) (*dto.MoodListResult, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	if err := util.ValidateDTO(req); err != nil {
		return nil, newValidationError(err)
	}
	filter, err := buildFilter(userID, &req.DateRangeDTO)
	if err != nil {
		return nil, err
	}

	result := &dto.MoodListResult{}
	if req.Page != nil || req.PerPage != nil {
		page, perPage := 1, s.page.DefaultSize
		if req.Page != nil {
			page = *req.Page
		}
		if req.PerPage != nil {
			perPage = *req.PerPage
		}
		perPage = s.clamp(perPage)
		if page-1 > math.MaxInt/perPage {
			return nil, pageOutOfRange()
		}
		result.Page, result.PerPage = util.PtrInt(page), util.PtrInt(perPage)
		result.Limit, result.Offset = perPage, (page-1)*perPage
	} else {
		result.Limit = s.page.DefaultSize
		if req.Limit != nil {
			result.Limit = *req.Limit
		}
		result.Limit = s.clamp(result.Limit)
		if req.Offset != nil {
			result.Offset = *req.Offset
		}
	}

	desc := !strings.EqualFold(req.Order, "asc")
	entries, total, err := s.moodRepo.ListEntries(ctx, filter, result.Limit, result.Offset, desc)
	if err != nil {
		return nil, err
	}

	result.Total = total
	result.Rows = make([]*dto.MoodEntryDTO, 0, len(entries))
	for _, entry := range entries {
		item := &dto.MoodEntryDTO{}
		if err = copier.CopyWithOption(item, entry, copyOption); err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, item)
	}
	return result, nil
}

func (s *moodServiceImpl) clamp(limit int) int {
	if limit <= 0 {
		limit = s.page.DefaultSize
	}
	if limit > s.page.MaxSize {
		return s.page.MaxSize
	}
	return limit
}

// copyOption 日期字段以 YYYY-MM-DD 输出
var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: time.Time{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				return util.FormatDate(src.(time.Time)), nil
			},
		},
	},
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func checkUserID(userID string) error {
	var rule string
	switch n := utf8.RuneCountInString(userID); {
	case n == 0:
		rule = "required"
	case n > maxUserIDLen:
		rule = "max"
	default:
		return nil
	}
	return &ValidationError{
		Cause: ErrInvalidUserID,
		Details: []dto.FieldError{{
			Field:   "user_id",
			Rule:    rule,
			Message: ErrInvalidUserID.Error(),
		}},
	}
}

func pageOutOfRange() *ValidationError {
	return &ValidationError{
		Cause: ErrParamInvalid,
		Details: []dto.FieldError{{
			Field:   "page",
			Rule:    "max",
			Message: "page is too large",
		}},
	}
}

func buildFilter(userID string, r *dto.DateRangeDTO) (repository.MoodFilter, error) {
	filter := repository.MoodFilter{UserID: userID}
	from, to := r.Bounds()
	var err error
	if filter.From, err = util.ParseOptionalDate(from); err != nil {
		return filter, newValidationError(err)
	}
	if filter.To, err = util.ParseOptionalDate(to); err != nil {
		return filter, newValidationError(err)
	}
	return filter, nil
}
