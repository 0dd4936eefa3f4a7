package database

import (
	"context"
	_ "embed"
	"fmt"
	log "log/slog"
	"strings"

	"gorm.io/gorm"
)

//go:embed schema.sql
var schemaSQL string

// Statements 将建表脚本按分号拆分为单条语句
func Statements() []string {
	parts := strings.Split(schemaSQL, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			stmts = append(stmts, p)
		}
	}
	return stmts
}

// ApplySchema 执行建表脚本，语句均为 IF NOT EXISTS，可重复执行
func ApplySchema(ctx context.Context, db *gorm.DB) error {
	for _, stmt := range Statements() {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	log.InfoContext(ctx, "Database schema applied.")
	return nil
}
