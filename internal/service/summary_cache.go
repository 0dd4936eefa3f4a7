package service

import (
	"MoodCheckin/internal/api/dto"
	"MoodCheckin/internal/pkg/consts"
	"MoodCheckin/internal/pkg/redis"
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// SummaryCache 按用户缓存周期统计
// 每次打卡递增用户的代数，缓存按代数隔离，旧代数下的写入不会再被读到
type SummaryCache interface {
	Generation(ctx context.Context, userID string) (int64, error)
	Get(ctx context.Context, userID string, gen int64, field string) ([]*dto.SummaryRowDTO, bool, error)
	Put(ctx context.Context, userID string, gen int64, field string, rows []*dto.SummaryRowDTO) error
	Invalidate(ctx context.Context, userID string) error
}

type redisSummaryCache struct {
	ttl time.Duration
}

func NewRedisSummaryCache(ttl time.Duration) SummaryCache {
	return &redisSummaryCache{ttl: ttl}
}

func summaryKey(userID string, gen int64) string {
	return consts.MoodSummaryKey + userID + ":" + strconv.FormatInt(gen, 10)
}

func (s *redisSummaryCache) Generation(ctx context.Context, userID string) (int64, error) {
	value, err := redis.GetValue(ctx, consts.MoodSummaryGenKey+userID)
	if err != nil || value == "" {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}

func (s *redisSummaryCache) Get(ctx context.Context, userID string, gen int64, field string) ([]*dto.SummaryRowDTO, bool, error) {
	value, err := redis.HGetValue(ctx, summaryKey(userID, gen), field)
	if err != nil || value == "" {
		return nil, false, err
	}
	rows := make([]*dto.SummaryRowDTO, 0)
	if err = json.Unmarshal([]byte(value), &rows); err != nil {
		return nil, false, err
	}
	return rows, true, nil
}

func (s *redisSummaryCache) Put(ctx context.Context, userID string, gen int64, field string, rows []*dto.SummaryRowDTO) error {
	b, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return redis.HSetWithExpiration(ctx, summaryKey(userID, gen), field, string(b), s.ttl)
}

// Invalidate 代数计数不设过期，避免归零后旧代数的缓存重新生效
func (s *redisSummaryCache) Invalidate(ctx context.Context, userID string) error {
	_, err := redis.Incr(ctx, consts.MoodSummaryGenKey+userID)
	return err
}

// NoopSummaryCache 未配置 Redis 时使用
type NoopSummaryCache struct{}

func (NoopSummaryCache) Generation(context.Context, string) (int64, error) {
	return 0, nil
}

func (NoopSummaryCache) Get(context.Context, string, int64, string) ([]*dto.SummaryRowDTO, bool, error) {
	return nil, false, nil
}

func (NoopSummaryCache) Put(context.Context, string, int64, string, []*dto.SummaryRowDTO) error {
	return nil
}

func (NoopSummaryCache) Invalidate(context.Context, string) error {
	return nil
}
