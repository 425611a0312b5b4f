package repository

import (
	"github.com/DevKano98/Web24kanban/internal/models"
	"gorm.io/gorm"
)

// GormCredentialRepository is a GORM implementation of CredentialRepository
type GormCredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new CredentialRepository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &GormCredentialRepository{db: db}
}

// Create creates a new credential
func (r *GormCredentialRepository) Create(cred *models.Credential) error {
	return r.db.Create(cred).Error
}

// FindByEmail finds a credential by email
func (r *GormCredentialRepository) FindByEmail(email string) (*models.Credential, error) {
	var cred models.Credential
	if err := r.db.Where("email = ?", email).First(&cred).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}

// Delete removes a credential
func (r *GormCredentialRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Credential{}, id).Error
}
