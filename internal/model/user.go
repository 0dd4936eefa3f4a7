package model

import "time"

// User 用户存在标记，首次打卡时惰性创建
// id 按字节比较，大小写或重音不同即为不同用户
type User struct {
	ID        string `gorm:"primaryKey;type:varchar(128) COLLATE utf8mb4_bin"`
	CreatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
