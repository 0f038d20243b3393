package models

import (
	"time"
)

type User struct {
	ID         uint   `gorm:"primaryKey"`
	TelegramID int64  `gorm:"uniqueIndex;not null"`
	Username   string `gorm:"size:255"`
	Language   string `gorm:"size:16"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
