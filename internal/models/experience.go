package models

import (
	"time"
)

// Experience is a testimony shared on the community board.
type Experience struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Author    string `gorm:"size:255"`
	Text      string `gorm:"type:text;not null"`
	Reference string `gorm:"size:255"`
	Category  string `gorm:"size:32;default:'fé'"`
	Likes     int    `gorm:"default:0"`
	CreatedAt time.Time
}
