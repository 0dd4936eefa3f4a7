package service

import (
	"MoodCheckin/internal/api/dto"
	"MoodCheckin/internal/model"
	"MoodCheckin/internal/pkg/util"
	"MoodCheckin/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"

	DefaultPeriod = PeriodMonth
)

type SummaryService interface {
	Summarize(ctx context.Context, userID string, req *dto.MoodSummaryDTO) (*dto.MoodSummaryResult, error)
}

type summaryServiceImpl struct {
	moodRepo repository.MoodRepo
	cache    SummaryCache
	group    singleflight.Group
}

func NewSummaryService(moodRepo repository.MoodRepo, cache SummaryCache) SummaryService {
	if cache == nil {
		cache = NoopSummaryCache{}
	}
	return &summaryServiceImpl{
		moodRepo: moodRepo,
		cache:    cache,
	}
}

// Summarize 按周(ISO 周年)或自然月分桶，最近的周期在前
func (s *summaryServiceImpl) Summarize(ctx context.Context, userID string, req *dto.MoodSummaryDTO) (*dto.MoodSummaryResult, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	period := req.Period
	if period == "" {
		period = DefaultPeriod
	}
	if period != PeriodWeek && period != PeriodMonth {
		return nil, &ValidationError{Cause: ErrInvalidPeriod}
	}
	if err := util.ValidateDTO(req); err != nil {
		return nil, newValidationError(err)
	}
	filter, err := buildFilter(userID, &req.DateRangeDTO)
	if err != nil {
		return nil, err
	}

	from, to := req.Bounds()
	field := strings.Join([]string{period, from, to}, "|")

	// 代数须在读库之前取得，读库期间发生的打卡会让本次写入落在旧代数下
	gen, genErr := s.cache.Generation(ctx, userID)
	if genErr != nil {
		log.WarnContext(ctx, "read summary generation failed", "user_id", userID, "err", genErr)
		gen = -1
	} else {
		rows, hit, err := s.cache.Get(ctx, userID, gen, field)
		if err != nil {
			log.WarnContext(ctx, "read summary cache failed", "user_id", userID, "err", err)
		}
		if hit {
			return &dto.MoodSummaryResult{Period: period, Rows: rows}, nil
		}
	}

	key := fmt.Sprintf("%s|%d|%s", userID, gen, field)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// 结果由同 key 的所有请求共享，不随发起者取消
		ctx := context.WithoutCancel(ctx)
		scores, err := s.moodRepo.ListScores(ctx, filter)
		if err != nil {
			return nil, err
		}
		rows, err := Aggregate(scores, period)
		if err != nil {
			return nil, err
		}
		if gen >= 0 {
			if err = s.cache.Put(ctx, userID, gen, field, rows); err != nil {
				log.WarnContext(ctx, "write summary cache failed", "user_id", userID, "err", err)
			}
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.MoodSummaryResult{Period: period, Rows: v.([]*dto.SummaryRowDTO)}, nil
}

type bucket struct {
	key      string
	start    time.Time
	end      time.Time
	count    int
	sum      int
	min, max int
}

// Aggregate 将打卡记录分桶并计算条数、均值(两位小数)、最小值与最大值
func Aggregate(scores []*model.MoodScore, period string) ([]*dto.SummaryRowDTO, error) {
	keyOf, err := bucketFunc(period)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*bucket)
	for _, sc := range scores {
		key, start, end := keyOf(sc.Date)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{key: key, start: start, end: end, min: sc.MoodScore, max: sc.MoodScore}
			buckets[key] = b
		}
		b.count++
		b.sum += sc.MoodScore
		b.min = min(b.min, sc.MoodScore)
		b.max = max(b.max, sc.MoodScore)
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	slices.SortFunc(ordered, func(a, b *bucket) int {
		return b.start.Compare(a.start)
	})

	rows := make([]*dto.SummaryRowDTO, 0, len(ordered))
	for _, b := range ordered {
		rows = append(rows, &dto.SummaryRowDTO{
			Period:    b.key,
			StartDate: util.FormatDate(b.start),
			EndDate:   util.FormatDate(b.end),
			Entries:   b.count,
			AvgMood:   round2(float64(b.sum) / float64(b.count)),
			MinMood:   b.min,
			MaxMood:   b.max,
		})
	}
	return rows, nil
}

func bucketFunc(period string) (func(time.Time) (string, time.Time, time.Time), error) {
	switch period {
	case PeriodWeek:
		return weekBucket, nil
	case PeriodMonth:
		return monthBucket, nil
	default:
		return nil, ErrInvalidPeriod
	}
}

// weekBucket ISO-8601：周一开始，年份取 ISO 周年而非自然年
func weekBucket(t time.Time) (string, time.Time, time.Time) {
	t = dateOf(t)
	year, week := t.ISOWeek()
	start := t.AddDate(0, 0, -((int(t.Weekday()) + 6) % 7))
	return fmt.Sprintf("%04d-W%02d", year, week), start, start.AddDate(0, 0, 6)
}

func monthBucket(t time.Time) (string, time.Time, time.Time) {
	t = dateOf(t)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start.Format("2006-01"), start, start.AddDate(0, 1, -1)
}

// dateOf 丢弃时间与时区，只保留日历日期
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
