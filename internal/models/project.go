package models

import "time"

type Project struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Code      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Tasks   []Task   `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Reviews []Review `gorm:"foreignKey:ProjectID" json:"reviews,omitempty"`
}
