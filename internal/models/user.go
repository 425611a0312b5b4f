package models

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleClient  Role = "client"
	RolePartner Role = "partner"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleClient || r == RolePartner
}

// User is the profile document. AssignedProjectID is set if and only if
// the role is partner and enrollment completed.
type User struct {
	ID                uint64    `gorm:"primarykey" json:"id"`
	Name              string    `gorm:"type:varchar(255);not null" json:"name"`
	Email             string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role              Role      `gorm:"type:varchar(20);not null;default:'client'" json:"role"`
	AssignedProjectID *uint64   `json:"assigned_project_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Relations
	Tasks   []Task   `gorm:"foreignKey:AssignedTo" json:"-"`
	Notes   []Note   `gorm:"foreignKey:UserID" json:"-"`
	Targets []Target `gorm:"foreignKey:UserID" json:"-"`
}
