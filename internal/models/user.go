package models

import "time"

// User is an account of the identity store.
type User struct {
	ID                string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email             string      `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	PasswordHash      string      `json:"-" gorm:"type:varchar(255)"`
	EmailConfirmed    bool        `json:"email_confirmed"`
	LockoutEnabled    bool        `json:"-"`
	LockoutEnd        *time.Time  `json:"-"`
	AccessFailedCount int         `json:"-"`
	Claims            []UserClaim `json:"claims,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Roles             []UserRole  `json:"roles,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// IsLockedOut reports whether the account is locked at the given instant.
func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnabled && u.LockoutEnd != nil && u.LockoutEnd.After(now)
}

// UserClaim is a type/value assertion attached to a user and copied into issued tokens.
type UserClaim struct {
	ID     uint   `json:"-" gorm:"primaryKey"`
	UserID string `json:"-" gorm:"index;type:varchar(36)"`
	Type   string `json:"type" gorm:"type:varchar(100)"`
	Value  string `json:"value" gorm:"type:varchar(255)"`
}

// UserRole is a named role held by a user.
type UserRole struct {
	ID     uint   `json:"-" gorm:"primaryKey"`
	UserID string `json:"-" gorm:"index;type:varchar(36)"`
	Name   string `json:"name" gorm:"type:varchar(100)"`
}
