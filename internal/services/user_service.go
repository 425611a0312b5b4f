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
	ErrUserPermissionDenied = errors.New("only admins can manage users")
	ErrCannotDeleteSelf     = errors.New("cannot delete your own account")
	ErrUserNameRequired     = errors.New("name cannot be empty")
)

// UserService backs the admin console's user management plus the name
// directory the board screens use for display.
type UserService struct {
	userRepo repository.UserRepository
	notifier Notifier
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, notifier Notifier) *UserService {
	return &UserService{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// ListUsers lists users, optionally filtered by role; admin only.
func (s *UserService) ListUsers(id policy.Identity, role *models.Role, page, pageSize int) ([]models.User, int64, error) {
	if !id.IsAdmin() {
		return nil, 0, ErrUserPermissionDenied
	}
	if role != nil && !models.ValidRole(*role) {
		return nil, 0, fmt.Errorf("unknown role %q", *role)
	}
	return s.userRepo.List(role, page, pageSize)
}

// Directory returns every user for name lookup on the boards. All
// authenticated roles may call it; the handler layer projects it down to
// id/name/role before responding.
func (s *UserService) Directory() ([]models.User, error) {
	users, _, err := s.userRepo.List(nil, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load user directory: %w", err)
	}
	return users, nil
}

// RenameUser updates a user's display name; admin only.
func (s *UserService) RenameUser(id policy.Identity, userID uint64, name string) (*models.User, error) {
	if !id.IsAdmin() {
		return nil, ErrUserPermissionDenied
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrUserNameRequired
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Name = name
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.notifier.Invalidate(CollectionUsers)
	return user, nil
}

// DeleteUser removes a user's profile, credential and personal
// documents; admin only, and admins cannot delete themselves.
func (s *UserService) DeleteUser(id policy.Identity, userID uint64) error {
	if !id.IsAdmin() {
		return ErrUserPermissionDenied
	}
	if userID == id.UserID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.notifier.Invalidate(CollectionUsers)
	s.notifier.Invalidate(CollectionNotes)
	s.notifier.Invalidate(CollectionTargets)
	return nil
}
