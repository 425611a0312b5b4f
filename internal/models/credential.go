package models

import "time"

// Credential is the authentication provider's record: the login secret,
// kept separate from the User profile so that partner enrollment can
// create and compensate (delete) it independently.
type Credential struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
