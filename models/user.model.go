package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ProfileImage        string `gorm:"default:''"`
	Name                string `gorm:"default:''"`
	Email               string `gorm:"unique;not null"`
	Role                string `gorm:"default:'USER'"` // USER, ADMIN
	Password            string `gorm:"not null"`
	IsEmailVerified     bool   `gorm:"default:false"`
	LastLogin           *time.Time
	FailedLoginAttempts int `gorm:"default:0"`
	IsBlocked           bool `gorm:"default:false"`
	BlockedUntil        *time.Time
	IsDeleted           bool `gorm:"default:false"`
}

// NameForCertificate returns the display name printed on certificates,
// falling back to the mailbox part of the email when no name is set.
func (u *User) NameForCertificate() string {
	name := strings.TrimSpace(u.Name)
	if name != "" {
		return name
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}
