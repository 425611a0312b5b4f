package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNoteTitleRequired = errors.New("note title is required")
	ErrNoteNotFound      = errors.New("note not found")
	ErrNotNoteOwner      = errors.New("notes are owner-only")
)

// NoteService: strictly owner-scoped CRUD. Even admins do not read other
// users' notes.
type NoteService struct {
	noteRepo repository.NoteRepository
	notifier Notifier
}

// NewNoteService creates a new NoteService.
func NewNoteService(noteRepo repository.NoteRepository, notifier Notifier) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		notifier: notifier,
	}
}

// ListNotes returns the caller's notes.
func (s *NoteService) ListNotes(id policy.Identity) ([]models.Note, error) {
	notes, err := s.noteRepo.ListByUser(id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// CreateNote creates a note owned by the caller.
func (s *NoteService) CreateNote(id policy.Identity, title, content string) (*models.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrNoteTitleRequired
	}

	note := &models.Note{
		Title:   title,
		Content: content,
		UserID:  id.UserID,
	}
	if err := s.noteRepo.Create(note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.notifier.Invalidate(CollectionNotes)
	return note, nil
}

// UpdateNote updates title/content of a note the caller owns.
func (s *NoteService) UpdateNote(id policy.Identity, noteID uint64, title, content string) (*models.Note, error) {
	note, err := s.ownedNote(id, noteID)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrNoteTitleRequired
	}

	note.Title = title
	note.Content = content
	if err := s.noteRepo.Update(note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	s.notifier.Invalidate(CollectionNotes)
	return note, nil
}

// DeleteNote removes a note the caller owns.
func (s *NoteService) DeleteNote(id policy.Identity, noteID uint64) error {
	if _, err := s.ownedNote(id, noteID); err != nil {
		return err
	}

	if err := s.noteRepo.Delete(noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.notifier.Invalidate(CollectionNotes)
	return nil
}

func (s *NoteService) ownedNote(id policy.Identity, noteID uint64) (*models.Note, error) {
	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	if note.UserID != id.UserID {
		return nil, ErrNotNoteOwner
	}
	return note, nil
}
