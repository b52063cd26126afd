package models

import (
	"time"
)

// SharedList is a tokenized, expiring share link for a shopping list.
// Resolution is public; the token is the only credential.
type SharedList struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"type:char(36);uniqueIndex;not null" json:"token"`
	ListID    uint64    `gorm:"not null;index" json:"list_id"`
	UserID    string    `gorm:"type:char(36);not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name for SharedList
func (SharedList) TableName() string {
	return "shared_lists"
}
