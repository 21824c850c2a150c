package models

import (
	"time"
)

// Role constants
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a local account. The JSON form is what the user cache stores and
// never includes the password hash.
type User struct {
	ID           string `gorm:"primaryKey"                       json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null"    json:"email"` // stored lowercased
	Name         string `gorm:"size:255;not null"                json:"name"`
	Phone        string `gorm:"size:20"                          json:"phone,omitempty"`
	PasswordHash string `gorm:"not null"                         json:"-"`
	Role         string `gorm:"size:20;not null;default:'admin'" json:"role"` // "admin" or "user"

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
