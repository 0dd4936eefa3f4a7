package main

import (
	"MoodCheckin/internal/api/config"
	"MoodCheckin/internal/pkg/database"
	"MoodCheckin/internal/pkg/logger"
	"MoodCheckin/internal/pkg/redis"
	"MoodCheckin/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func main() {
	flags := pflag.NewFlagSet("mood-checkin-api", pflag.ExitOnError)
	configDir := flags.String("config-dir", "./configs", "directory containing config.yaml")
	initDB := flags.Bool("init-db", false, "apply the database schema and exit")
	flags.Int("port", 8080, "HTTP listen port")
	_ = flags.Parse(os.Args[1:])

	// 加载配置
	if err := config.LoadConfig(*configDir, flags); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		os.Exit(1)
	}
	cfg := config.Cfg

	// 初始化日志
	logCloser, err := logger.InitLogger(cfg.Log)
	if err != nil {
		log.Error("Fatal error: failed to initialize logger", "err", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	// 数据库连接
	dbCfg := cfg.DB
	db, err := database.NewGormDB(&dbCfg)
	if err != nil {
		log.Error("Fatal error: failed to create database connection", "err", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if *initDB {
		if err = database.ApplySchema(context.Background(), db); err != nil {
			log.Error("Fatal error: failed to initialize database", "err", err)
			os.Exit(1)
		}
		log.Info("Database initialized.")
		return
	}

	if cfg.Security.APIKey == "" {
		log.Warn("security.api_key is not set, protected routes will answer 500")
	}

	// Redis 连接，未配置时关闭缓存与限流
	redisEnabled := cfg.Redis.Addr != ""
	if redisEnabled {
		if err = redis.InitRedis(cfg.Redis); err != nil {
			log.Error("Fatal error: failed to create redis connection", "err", err)
			os.Exit(1)
		}
		defer redis.Close()
	} else {
		log.Warn("redis.addr is not set, summary cache and rate limiting are disabled")
	}

	gin.SetMode(cfg.Server.Mode)

	// 依赖注入
	app, err := wire.BuildApplication(db, cfg, redisEnabled)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// HTTP 服务器
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: app.Router,
	}
	g.Go(func() error {
		log.Info("Mood Check-In API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅退出
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig)
			cancel()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
	}
	log.Info("App exited successfully.")
}
