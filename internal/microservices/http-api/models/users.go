package models

import (
	"time"
)

// User is the only persistent entity: one row per registered account.
type User struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName         string     `gorm:"column:first_name;not null" json:"firstName"`
	LastName          string     `gorm:"column:last_name;not null" json:"lastName"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string     `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	EmailVerified     bool       `gorm:"column:email_verified;not null;default:false" json:"emailVerified"`
	VerificationToken *string    `gorm:"column:verification_token" json:"-"` // nil once consumed
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	LastLogin         *time.Time `gorm:"column:last_login" json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// PendingVerification reports whether a verification token is still waiting
// to be consumed.
func (u *User) PendingVerification() bool {
	return !u.EmailVerified && u.VerificationToken != nil
}
