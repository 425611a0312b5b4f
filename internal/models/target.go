package models

import "time"

// Target is a personal goal; owner-only, like Note.
type Target struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Text      string    `gorm:"type:varchar(500);not null" json:"text"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
