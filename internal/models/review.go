package models

import "time"

// Review is written by a partner against their assigned project. Visible
// to admins, the authoring partner, and clients holding at least one task
// in the project; deletable by admins only.
type Review struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	ProjectID  uint64    `gorm:"not null;index" json:"project_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	AuthorID   uint64    `gorm:"not null" json:"author_id"`
	AuthorRole Role      `gorm:"type:varchar(20);not null" json:"author_role"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Author  User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
