package ratelimit

import (
	"MoodCheckin/internal/pkg/consts"
	"MoodCheckin/internal/pkg/redis"
	"context"
	"strconv"
	"time"
)

// Result 单次请求的限流结果
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// FixedWindow 基于 Redis 计数的固定窗口限流，窗口编号拼进 key，过期后自然清理
type FixedWindow struct {
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewFixedWindow window 非正时退回一分钟
func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	if window <= 0 {
		window = time.Minute
	}
	return &FixedWindow{limit: limit, window: window, now: time.Now}
}

func (s *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	now := s.now()
	idx := now.UnixNano() / int64(s.window)
	windowEnd := time.Unix(0, (idx+1)*int64(s.window))

	count, err := redis.IncrWithExpiration(ctx, consts.RateLimitKey+key+":"+strconv.FormatInt(idx, 10), s.window)
	if err != nil {
		return nil, err
	}
	return Evaluate(count, s.limit, windowEnd.Sub(now)), nil
}

// Evaluate 根据窗口内计数计算结果
func Evaluate(count int64, limit int, reset time.Duration) *Result {
	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: int(remaining),
		Reset:     reset,
	}
}
