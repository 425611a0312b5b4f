package repository

import (
	"github.com/DevKano98/Web24kanban/internal/models"
	"gorm.io/gorm"
)

// GormNoteRepository is a GORM implementation of NoteRepository
type GormNoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &GormNoteRepository{db: db}
}

func (r *GormNoteRepository) Create(note *models.Note) error {
	return r.db.Create(note).Error
}

func (r *GormNoteRepository) FindByID(id uint64) (*models.Note, error) {
	var note models.Note
	if err := r.db.First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *GormNoteRepository) ListByUser(userID uint64) ([]models.Note, error) {
	var notes []models.Note
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *GormNoteRepository) Update(note *models.Note) error {
	return r.db.Save(note).Error
}

func (r *GormNoteRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Note{}, id).Error
}
