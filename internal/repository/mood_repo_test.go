package repository

import (
	"MoodCheckin/internal/model"
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

// sqliteSchema 与 schema.sql 等价的 SQLite 建表语句，SQLite 默认按字节比较文本
var sqliteSchema = []string{
	`CREATE TABLE users (
		id         VARCHAR(128) NOT NULL PRIMARY KEY,
		created_at DATETIME
	)`,
	`CREATE TABLE mood_entries (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    VARCHAR(128) NOT NULL REFERENCES users (id),
		date       DATE NOT NULL,
		mood_score TINYINT NOT NULL CHECK (mood_score BETWEEN 1 AND 5),
		mood_label VARCHAR(50),
		notes      TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		CONSTRAINT uk_mood_user_date UNIQUE (user_id, date)
	)`,
}

func newTestDB(t *testing.T, clock *testClock) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: clock.Now,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// 内存库每个连接独立，固定为单连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range sqliteSchema {
		if err = db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func date(s string) time.Time {
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func label(s string) *string { return &s }

func seed(t *testing.T, repo MoodRepo, userID string, days ...string) {
	t.Helper()
	for i, d := range days {
		entry := &model.MoodEntry{UserID: userID, Date: date(d), MoodScore: i%5 + 1}
		if err := repo.UpsertEntry(context.Background(), entry); err != nil {
			t.Fatalf("seed %s: %v", d, err)
		}
	}
}

func TestUpsertEntryOverwritesSameDay(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)}
	db := newTestDB(t, clock)
	repo := NewMoodRepo(db)
	ctx := context.Background()

	first := &model.MoodEntry{UserID: "u1", Date: date("2024-01-05"), MoodScore: 2, Notes: label("rough morning")}
	if err := repo.UpsertEntry(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	createdAt := clock.now

	clock.now = clock.now.Add(2 * time.Hour)
	second := &model.MoodEntry{UserID: "u1", Date: date("2024-01-05"), MoodScore: 4, MoodLabel: label("calm")}
	if err := repo.UpsertEntry(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	entries, total, err := repo.ListEntries(ctx, MoodFilter{UserID: "u1"}, 10, 0, true)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Fatalf("expected a single row, got total=%d len=%d", total, len(entries))
	}

	got := entries[0]
	if got.MoodScore != 4 || got.MoodLabel == nil || *got.MoodLabel != "calm" {
		t.Errorf("row not overwritten: %+v", got)
	}
	if got.Notes != nil {
		t.Errorf("notes should be replaced by null, got %q", *got.Notes)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Errorf("created_at changed: %v, want %v", got.CreatedAt, createdAt)
	}
	if !got.UpdatedAt.Equal(clock.now) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, clock.now)
	}

	var users int64
	if err = db.Model(&model.User{}).Where("id = ?", "u1").Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 1 {
		t.Errorf("expected one user marker, got %d", users)
	}
}

func TestListEntriesRangeAndPagination(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	repo := NewMoodRepo(newTestDB(t, clock))
	ctx := context.Background()

	seed(t, repo, "u1", "2024-01-01", "2024-01-05", "2024-01-10", "2024-01-15")
	seed(t, repo, "u2", "2024-01-05")

	entries, total, err := repo.ListEntries(ctx, MoodFilter{
		UserID: "u1",
		From:   datePtr("2024-01-05"),
		To:     datePtr("2024-01-10"),
	}, 10, 0, false)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if total != 2 || len(entries) != 2 {
		t.Fatalf("inclusive range should match 2 rows, got total=%d len=%d", total, len(entries))
	}
	if !entries[0].Date.Equal(date("2024-01-05")) || !entries[1].Date.Equal(date("2024-01-10")) {
		t.Errorf("unexpected ascending order: %v, %v", entries[0].Date, entries[1].Date)
	}

	entries, total, err = repo.ListEntries(ctx, MoodFilter{UserID: "u1"}, 2, 1, true)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if total != 4 {
		t.Errorf("total should ignore pagination, got %d", total)
	}
	if len(entries) != 2 || !entries[0].Date.Equal(date("2024-01-10")) || !entries[1].Date.Equal(date("2024-01-05")) {
		t.Errorf("unexpected descending page: %+v", entries)
	}

	entries, total, err = repo.ListEntries(ctx, MoodFilter{UserID: "u1", From: datePtr("2024-02-01"), To: datePtr("2024-01-01")}, 10, 0, true)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if total != 0 || len(entries) != 0 {
		t.Errorf("reversed range should be empty, got total=%d len=%d", total, len(entries))
	}
}

func TestListEntriesUnknownUser(t *testing.T) {
	repo := NewMoodRepo(newTestDB(t, &testClock{now: time.Now().UTC()}))

	entries, total, err := repo.ListEntries(context.Background(), MoodFilter{UserID: "nobody"}, 20, 0, true)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if total != 0 || entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil rows, got total=%d rows=%#v", total, entries)
	}
}

func TestListScoresAscending(t *testing.T) {
	repo := NewMoodRepo(newTestDB(t, &testClock{now: time.Now().UTC()}))
	seed(t, repo, "u1", "2024-03-10", "2024-03-01", "2024-03-05")

	scores, err := repo.ListScores(context.Background(), MoodFilter{UserID: "u1", To: datePtr("2024-03-05")})
	if err != nil {
		t.Fatalf("ListScores: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if !scores[0].Date.Equal(date("2024-03-01")) || scores[0].MoodScore != 2 {
		t.Errorf("unexpected first score: %+v", scores[0])
	}
	if !scores[1].Date.Equal(date("2024-03-05")) || scores[1].MoodScore != 3 {
		t.Errorf("unexpected second score: %+v", scores[1])
	}
}

func TestUserIDsDifferingInCaseStaySeparate(t *testing.T) {
	db := newTestDB(t, &testClock{now: time.Now().UTC()})
	repo := NewMoodRepo(db)
	ctx := context.Background()

	for _, e := range []*model.MoodEntry{
		{UserID: "alice", Date: date("2024-01-05"), MoodScore: 2},
		{UserID: "Alice", Date: date("2024-01-05"), MoodScore: 5},
		{UserID: "José", Date: date("2024-01-05"), MoodScore: 4},
		{UserID: "Jose", Date: date("2024-01-05"), MoodScore: 1},
	} {
		if err := repo.UpsertEntry(ctx, e); err != nil {
			t.Fatalf("upsert %s: %v", e.UserID, err)
		}
	}

	want := map[string]int{"alice": 2, "Alice": 5, "José": 4, "Jose": 1}
	for userID, score := range want {
		entries, total, err := repo.ListEntries(ctx, MoodFilter{UserID: userID}, 10, 0, true)
		if err != nil {
			t.Fatalf("ListEntries %s: %v", userID, err)
		}
		if total != 1 || len(entries) != 1 || entries[0].MoodScore != score {
			t.Errorf("%s: got total=%d rows=%+v, want one row with score %d", userID, total, entries, score)
		}
	}

	var users int64
	if err := db.Model(&model.User{}).Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 4 {
		t.Errorf("expected 4 distinct users, got %d", users)
	}
}
