package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "inprogress"
	TaskStatusDone       TaskStatus = "done"
)

// ValidTaskStatus reports whether s names one of the three board columns.
func ValidTaskStatus(s TaskStatus) bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress || s == TaskStatusDone
}

// StatusRank orders the board columns: todo < inprogress < done.
// Column order on the board is derived purely from status.
func StatusRank(s TaskStatus) int {
	switch s {
	case TaskStatusTodo:
		return 1
	case TaskStatusInProgress:
		return 2
	case TaskStatusDone:
		return 3
	default:
		return 4
	}
}

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	AssignedTo  uint64     `gorm:"not null;index" json:"assigned_to"`
	ProjectID   uint64     `gorm:"not null;index" json:"project_id"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Assignee User    `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Project  Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
