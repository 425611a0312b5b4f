package repository

import (
	"github.com/DevKano98/Web24kanban/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks in board order: status rank todo < inprogress <
// done, then creation time within a column.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	query := r.db.Model(&models.Task{})

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("tasks.assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	var tasks []models.Task
	err := query.
		Order("CASE tasks.status WHEN 'todo' THEN 1 WHEN 'inprogress' THEN 2 WHEN 'done' THEN 3 ELSE 4 END").
		Order("tasks.created_at ASC").
		Preload("Assignee").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// UpdateStatus updates the status column and nothing else.
func (r *GormTaskRepository) UpdateStatus(id uint64, status models.TaskStatus) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// HasTaskInProject reports whether the user holds at least one task in
// the project.
func (r *GormTaskRepository) HasTaskInProject(userID, projectID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("assigned_to = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ProjectIDsForUser lists the distinct projects the user has tasks in
func (r *GormTaskRepository) ProjectIDsForUser(userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.Task{}).
		Where("assigned_to = ?", userID).
		Distinct().
		Pluck("project_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
