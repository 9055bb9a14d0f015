package models

import "time"

// TelegramUser is a chat that shared a phone number matching a swimmer.
type TelegramUser struct {
	ID             uint  `gorm:"primarykey"`
	TelegramUserID int64 `gorm:"uniqueIndex"`
	ChatID         int64
	Username       string
	FirstName      string
	Phone          string
	SwimmerID      *uint `gorm:"index"`
	LinkedAt       *time.Time
	Deliverable    bool `gorm:"default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
