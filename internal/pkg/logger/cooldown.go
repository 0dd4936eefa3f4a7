package logger

import (
	"context"
	log "log/slog"
	"sync"
	"time"
)

// Cooldown 同一类诊断日志在冷却窗口内只输出一次，并附带期间被抑制的次数
type Cooldown struct {
	window time.Duration
	now    func() time.Time

	mu         sync.Mutex
	last       map[string]time.Time
	suppressed map[string]int
}

func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{
		window:     window,
		now:        time.Now,
		last:       make(map[string]time.Time),
		suppressed: make(map[string]int),
	}
}

// Allow 返回本次是否应输出，以及上次输出以来被抑制的次数
func (c *Cooldown) Allow(key string) (bool, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if last, ok := c.last[key]; ok && now.Sub(last) < c.window {
		c.suppressed[key]++
		return false, 0
	}
	n := c.suppressed[key]
	c.last[key] = now
	c.suppressed[key] = 0
	return true, n
}

func (c *Cooldown) Warn(ctx context.Context, key, msg string, args ...any) {
	c.emit(ctx, log.LevelWarn, key, msg, args...)
}

func (c *Cooldown) Error(ctx context.Context, key, msg string, args ...any) {
	c.emit(ctx, log.LevelError, key, msg, args...)
}

func (c *Cooldown) emit(ctx context.Context, level log.Level, key, msg string, args ...any) {
	ok, n := c.Allow(key)
	if !ok {
		return
	}
	if n > 0 {
		args = append(args, "suppressed", n)
	}
	log.Log(ctx, level, msg, args...)
}
