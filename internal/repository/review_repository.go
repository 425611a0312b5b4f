package repository

import (
	"github.com/DevKano98/Web24kanban/internal/database"
	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/utils"
	"gorm.io/gorm"
)

// GormReviewRepository is a GORM implementation of ReviewRepository
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create creates a new review
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(id uint64) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByProject lists a project's reviews newest-first
func (r *GormReviewRepository) ListByProject(projectID uint64) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Preload("Author").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// List lists all reviews newest-first with pagination
func (r *GormReviewRepository) List(page, pageSize int) ([]models.Review, int64, error) {
	query := r.db.Model(&models.Review{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  pageSize,
			Offset: (page - 1) * pageSize,
		}))
	}

	var reviews []models.Review
	if err := listQuery.Preload("Author").Preload("Project").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// Delete removes a review
func (r *GormReviewRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Review{}, id).Error
}
