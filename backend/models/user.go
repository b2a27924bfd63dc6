package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"default:user"` // user, admin
}

// UserStreak holds the consecutive-day learning streak. LastActiveDate is
// truncated to midnight; comparisons are calendar-day only.
type UserStreak struct {
	gorm.Model
	UserID         uint `gorm:"uniqueIndex"`
	Streak         int  `gorm:"default:0"`
	LastActiveDate time.Time
}

type LoginHistory struct {
	gorm.Model
	UserID    uint
	LoginTime time.Time
}
