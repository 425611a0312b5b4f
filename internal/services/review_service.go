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
	ErrReviewTextRequired       = errors.New("review text is required")
	ErrReviewNotFound           = errors.New("review not found")
	ErrReviewPermissionDenied   = errors.New("no permission for this review operation")
	ErrReviewVisibilityDenied   = errors.New("no access to this project's reviews")
	ErrReviewProjectUnavailable = errors.New("project not found")
)

// ReviewService enforces the review visibility rule: admins always,
// the assigned partner, and clients holding at least one task in the
// project.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	notifier    Notifier
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	notifier Notifier,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		notifier:    notifier,
	}
}

// CanView resolves the visibility rule for one (identity, project) pair.
func (s *ReviewService) CanView(id policy.Identity, projectID uint64) (bool, error) {
	hasTask := false
	if id.Role == models.RoleClient {
		var err error
		hasTask, err = s.taskRepo.HasTaskInProject(id.UserID, projectID)
		if err != nil {
			return false, fmt.Errorf("failed to check project membership: %w", err)
		}
	}
	return policy.CanViewReviews(id, projectID, hasTask), nil
}

// ListByProject returns a project's reviews newest-first, subject to the
// visibility rule.
func (s *ReviewService) ListByProject(id policy.Identity, projectID uint64) ([]models.Review, error) {
	ok, err := s.CanView(id, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrReviewVisibilityDenied
	}

	reviews, err := s.reviewRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ListAll returns every review, paginated; admin console only.
func (s *ReviewService) ListAll(id policy.Identity, page, pageSize int) ([]models.Review, int64, error) {
	if !id.IsAdmin() {
		return nil, 0, ErrReviewPermissionDenied
	}
	return s.reviewRepo.List(page, pageSize)
}

// AddReview creates a review; partners only, against their assigned
// project only. Nothing is written when the guard fails.
func (s *ReviewService) AddReview(id policy.Identity, projectID uint64, text string) (*models.Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrReviewTextRequired
	}

	if !policy.CanAddReview(id, projectID) {
		return nil, ErrReviewPermissionDenied
	}

	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewProjectUnavailable
		}
		return nil, fmt.Errorf("failed to verify project: %w", err)
	}

	review := &models.Review{
		ProjectID:  projectID,
		Text:       text,
		AuthorID:   id.UserID,
		AuthorRole: id.Role,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.notifier.Invalidate(CollectionReviews)
	return review, nil
}

// DeleteReview removes a review; admin only.
func (s *ReviewService) DeleteReview(id policy.Identity, reviewID uint64) error {
	if !policy.CanDeleteReview(id) {
		return ErrReviewPermissionDenied
	}

	if _, err := s.reviewRepo.FindByID(reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to find review: %w", err)
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.notifier.Invalidate(CollectionReviews)
	return nil
}
