package models

import (
	"time"
)

// XeroToken is the deployment's Xero credential. At most one row is active;
// older rows are kept as history and never deleted.
type XeroToken struct {
	ID           uint      `gorm:"primaryKey"`
	AccessToken  string    `gorm:"type:text;not null"`
	RefreshToken string    `gorm:"type:text;not null"`
	ExpiresAt    time.Time `gorm:"not null"`
	TenantID     string    `gorm:"size:64;not null"`
	Active       bool      `gorm:"not null;default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name used by XeroToken to `xero_tokens`
func (XeroToken) TableName() string {
	return "xero_tokens"
}

// IsExpired reports whether the access token can no longer be used at now.
// A token expiring exactly at now counts as expired.
func (t *XeroToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// XeroTokenUpdate carries the fields rewritten by a refresh. TenantID is not
// part of it; a refresh never changes the addressed organisation.
type XeroTokenUpdate struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
