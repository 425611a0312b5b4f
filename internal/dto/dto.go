package dto

import (
	"time"

	"github.com/DevKano98/Web24kanban/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID                uint64      `json:"id"`
	Name              string      `json:"name"`
	Email             string      `json:"email"`
	Role              models.Role `json:"role"`
	AssignedProjectID *uint64     `json:"assigned_project_id,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
}

// DirectoryEntryDTO is the reduced user record non-admins see.
type DirectoryEntryDTO struct {
	ID   uint64      `json:"id"`
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	AssignedTo  uint64            `json:"assigned_to"`
	ProjectID   uint64            `json:"project_id"`
	Deadline    *time.Time        `json:"deadline"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Assignee    *UserDTO          `json:"assignee,omitempty"`
}

// NoteDTO represents a note in API responses
type NoteDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TargetDTO represents a target in API responses
type TargetDTO struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewDTO represents a project review in API responses
type ReviewDTO struct {
	ID         uint64      `json:"id"`
	ProjectID  uint64      `json:"project_id"`
	Text       string      `json:"text"`
	AuthorID   uint64      `json:"author_id"`
	AuthorRole models.Role `json:"author_role"`
	AuthorName string      `json:"author_name,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Role:              user.Role,
		AssignedProjectID: user.AssignedProjectID,
		CreatedAt:         user.CreatedAt,
	}
}

// ToDirectoryEntryDTO converts a User model to its directory projection
func ToDirectoryEntryDTO(user models.User) DirectoryEntryDTO {
	return DirectoryEntryDTO{
		ID:   user.ID,
		Name: user.Name,
		Role: user.Role,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:        project.ID,
		Name:      project.Name,
		Code:      project.Code,
		CreatedAt: project.CreatedAt,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		AssignedTo:  task.AssignedTo,
		ProjectID:   task.ProjectID,
		Deadline:    task.Deadline,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Assignee.ID != 0 {
		assignee := ToUserDTO(task.Assignee)
		dto.Assignee = &assignee
	}
	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}

// ToNoteDTO converts a Note model to NoteDTO
func ToNoteDTO(note models.Note) NoteDTO {
	return NoteDTO{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// ToTargetDTO converts a Target model to TargetDTO
func ToTargetDTO(target models.Target) TargetDTO {
	return TargetDTO{
		ID:        target.ID,
		Text:      target.Text,
		Completed: target.Completed,
		CreatedAt: target.CreatedAt,
	}
}

// ToReviewDTO converts a Review model to ReviewDTO
func ToReviewDTO(review models.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:         review.ID,
		ProjectID:  review.ProjectID,
		Text:       review.Text,
		AuthorID:   review.AuthorID,
		AuthorRole: review.AuthorRole,
		CreatedAt:  review.CreatedAt,
	}
	if review.Author.ID != 0 {
		dto.AuthorName = review.Author.Name
	}
	return dto
}

// ToReviewDTOs converts a slice of reviews
func ToReviewDTOs(reviews []models.Review) []ReviewDTO {
	dtos := make([]ReviewDTO, len(reviews))
	for i, r := range reviews {
		dtos[i] = ToReviewDTO(r)
	}
	return dtos
}
