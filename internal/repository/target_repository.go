package repository

import (
	"github.com/DevKano98/Web24kanban/internal/models"
	"gorm.io/gorm"
)

// GormTargetRepository is a GORM implementation of TargetRepository
type GormTargetRepository struct {
	db *gorm.DB
}

// NewTargetRepository creates a new TargetRepository
func NewTargetRepository(db *gorm.DB) TargetRepository {
	return &GormTargetRepository{db: db}
}

func (r *GormTargetRepository) Create(target *models.Target) error {
	return r.db.Create(target).Error
}

func (r *GormTargetRepository) FindByID(id uint64) (*models.Target, error) {
	var target models.Target
	if err := r.db.First(&target, id).Error; err != nil {
		return nil, err
	}
	return &target, nil
}

func (r *GormTargetRepository) ListByUser(userID uint64) ([]models.Target, error) {
	var targets []models.Target
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&targets).Error; err != nil {
		return nil, err
	}
	return targets, nil
}

func (r *GormTargetRepository) Update(target *models.Target) error {
	return r.db.Save(target).Error
}

func (r *GormTargetRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Target{}, id).Error
}
