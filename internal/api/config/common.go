package config

import "time"

// Config 配置主体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Security  SecurityConfig  `mapstructure:"security"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Mood      MoodConfig      `mapstructure:"mood"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	BasePath        string        `mapstructure:"base_path"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN           string        `mapstructure:"dsn"`
	MaxIdle       int           `mapstructure:"max_idle"`
	MaxOpen       int           `mapstructure:"max_open"`
	MaxLifetime   int           `mapstructure:"max_lifetime"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

// RedisConfig Redis配置，Addr 为空时不启用缓存与限流
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// SecurityConfig 鉴权配置
type SecurityConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	WarnCooldown time.Duration `mapstructure:"warn_cooldown"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Window  time.Duration `mapstructure:"window"`
	Limit   int           `mapstructure:"limit"`
}

// MoodConfig 业务配置
type MoodConfig struct {
	DefaultPageSize int           `mapstructure:"default_page_size"`
	MaxPageSize     int           `mapstructure:"max_page_size"`
	SummaryCacheTTL time.Duration `mapstructure:"summary_cache_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}
