package model

import "time"

// UserProfile holds the per-user profile record. Exactly one profile exists
// per user; it is provisioned together with the user row.
type UserProfile struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Avatar    string    `json:"avatar" gorm:"size:255"` // stored object name, empty means placeholder
	Bio       string    `json:"bio" gorm:"size:500"`
	Phone     string    `json:"phone" gorm:"size:20"`
	Location  string    `json:"location" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAvatar reports whether a user-uploaded avatar file is referenced.
func (p *UserProfile) HasAvatar() bool {
	return p.Avatar != ""
}
