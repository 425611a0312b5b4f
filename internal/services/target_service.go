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
	ErrTargetTextRequired = errors.New("target text is required")
	ErrTargetNotFound     = errors.New("target not found")
	ErrNotTargetOwner     = errors.New("targets are owner-only")
)

// TargetService: owner-scoped personal goals with a completion toggle.
type TargetService struct {
	targetRepo repository.TargetRepository
	notifier   Notifier
}

// NewTargetService creates a new TargetService.
func NewTargetService(targetRepo repository.TargetRepository, notifier Notifier) *TargetService {
	return &TargetService{
		targetRepo: targetRepo,
		notifier:   notifier,
	}
}

// ListTargets returns the caller's targets.
func (s *TargetService) ListTargets(id policy.Identity) ([]models.Target, error) {
	targets, err := s.targetRepo.ListByUser(id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	return targets, nil
}

// CreateTarget creates a target owned by the caller.
func (s *TargetService) CreateTarget(id policy.Identity, text string) (*models.Target, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTargetTextRequired
	}

	target := &models.Target{
		Text:   text,
		UserID: id.UserID,
	}
	if err := s.targetRepo.Create(target); err != nil {
		return nil, fmt.Errorf("failed to create target: %w", err)
	}

	s.notifier.Invalidate(CollectionTargets)
	return target, nil
}

// UpdateTargetInput carries the optional mutations of a PATCH.
type UpdateTargetInput struct {
	Text      *string
	Completed *bool
}

// UpdateTarget updates text and/or the completed flag of an owned target.
func (s *TargetService) UpdateTarget(id policy.Identity, targetID uint64, input UpdateTargetInput) (*models.Target, error) {
	target, err := s.ownedTarget(id, targetID)
	if err != nil {
		return nil, err
	}

	if input.Text != nil {
		text := strings.TrimSpace(*input.Text)
		if text == "" {
			return nil, ErrTargetTextRequired
		}
		target.Text = text
	}
	if input.Completed != nil {
		target.Completed = *input.Completed
	}

	if err := s.targetRepo.Update(target); err != nil {
		return nil, fmt.Errorf("failed to update target: %w", err)
	}

	s.notifier.Invalidate(CollectionTargets)
	return target, nil
}

// DeleteTarget removes a target the caller owns.
func (s *TargetService) DeleteTarget(id policy.Identity, targetID uint64) error {
	if _, err := s.ownedTarget(id, targetID); err != nil {
		return err
	}

	if err := s.targetRepo.Delete(targetID); err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}

	s.notifier.Invalidate(CollectionTargets)
	return nil
}

func (s *TargetService) ownedTarget(id policy.Identity, targetID uint64) (*models.Target, error) {
	target, err := s.targetRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("failed to find target: %w", err)
	}

	if target.UserID != id.UserID {
		return nil, ErrNotTargetOwner
	}
	return target, nil
}
