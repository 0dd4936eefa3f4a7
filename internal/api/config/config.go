package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// envAliases 兼容旧部署使用的环境变量名
var envAliases = map[string][]string{
	"security.api_key":    {"API_KEY"},
	"server.port":         {"PORT"},
	"server.cors_origins": {"CORS_ORIGIN"},
	"database.dsn":        {"DB_DSN", "DATABASE_URL"},
	"redis.addr":          {"REDIS_ADDR"},
}

const (
	defaultRateWindow = 15 * time.Minute
	defaultRateLimit  = 300
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.base_path", "")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.max_body_bytes", 256*1024)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.max_open", 20)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)

	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("security.warn_cooldown", time.Minute)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.window", defaultRateWindow)
	v.SetDefault("rate_limit.limit", defaultRateLimit)

	v.SetDefault("mood.default_page_size", 20)
	v.SetDefault("mood.max_page_size", 100)
	v.SetDefault("mood.summary_cache_ttl", 10*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// LoadConfig 依次加载 .env、配置文件、环境变量与命令行参数并填充到 Cfg
// configDir 下的 config.yaml 是可选的
func LoadConfig(configDir string, flags *pflag.FlagSet) error {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key, strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)...); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", key, err)
		}
	}

	if flags != nil {
		if f := flags.Lookup("port"); f != nil {
			if err := v.BindPFlag("server.port", f); err != nil {
				return fmt.Errorf("failed to bind flag: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(&cfg)

	Cfg = &cfg

	return nil
}

func normalize(cfg *Config) {
	// CORS_ORIGIN 以逗号分隔传入时拆分
	origins := make([]string, 0, len(cfg.Server.CORSOrigins))
	for _, o := range cfg.Server.CORSOrigins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	cfg.Server.CORSOrigins = origins

	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = defaultRateWindow
	}
	if cfg.RateLimit.Limit <= 0 {
		cfg.RateLimit.Limit = defaultRateLimit
	}

	cfg.Server.BasePath = strings.TrimRight(cfg.Server.BasePath, "/")
	if cfg.Mood.MaxPageSize <= 0 {
		cfg.Mood.MaxPageSize = 100
	}
	if cfg.Mood.DefaultPageSize <= 0 || cfg.Mood.DefaultPageSize > cfg.Mood.MaxPageSize {
		cfg.Mood.DefaultPageSize = min(20, cfg.Mood.MaxPageSize)
	}
}
