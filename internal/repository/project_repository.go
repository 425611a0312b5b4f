package repository

import (
	"github.com/DevKano98/Web24kanban/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIdentifier finds a project by the exact name or the partner code
// handed out by the admin.
func (r *GormProjectRepository) FindByIdentifier(identifier string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("name = ? OR code = ?", identifier, identifier).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves all projects
func (r *GormProjectRepository) List() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Order("created_at ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Delete removes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Delete the project's tasks and reviews
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}

		// Partners pointing at the project lose their assignment
		if err := tx.Model(&models.User{}).
			Where("assigned_project_id = ?", id).
			Update("assigned_project_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}
