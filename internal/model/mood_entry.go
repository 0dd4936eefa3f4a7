package model

import "time"

type MoodEntry struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    string    `gorm:"type:varchar(128) COLLATE utf8mb4_bin;not null;uniqueIndex:uk_mood_user_date,priority:1"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uk_mood_user_date,priority:2"`
	MoodScore int       `gorm:"type:tinyint;not null"`
	MoodLabel *string   `gorm:"type:varchar(50)"`
	Notes     *string   `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MoodEntry) TableName() string {
	return "mood_entries"
}

// MoodScore 聚合统计只需要日期与分数
type MoodScore struct {
	Date      time.Time
	MoodScore int
}
