package logger

import (
	"MoodCheckin/internal/api/config"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"strings"
)

var LogWriter io.Writer = os.Stdout

// InitLogger 初始化 slog，默认输出到 stdout，配置了 file 时同时写入文件
func InitLogger(cfg config.LogConfig) (io.Closer, error) {
	opts := &log.HandlerOptions{Level: ParseLevel(cfg.Level)}

	hStdout := newHandler(os.Stdout, cfg.Format, opts)
	var finalHandler log.Handler = hStdout
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		finalHandler = &TeeHandler{
			handlers: []log.Handler{hStdout, log.NewJSONHandler(f, opts)},
		}
		LogWriter = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	logger := log.New(&ContextHandler{finalHandler})
	log.SetDefault(logger)
	return closer, nil
}

func newHandler(w io.Writer, format string, opts *log.HandlerOptions) log.Handler {
	if strings.EqualFold(format, "text") {
		return log.NewTextHandler(w, opts)
	}
	return log.NewJSONHandler(w, opts)
}

// ParseLevel 未识别的级别按 info 处理
func ParseLevel(level string) log.Level {
	var l log.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return log.LevelInfo
	}
	return l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
