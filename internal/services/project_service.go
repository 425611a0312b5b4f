package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/repository"
	"github.com/DevKano98/Web24kanban/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNameRequired     = errors.New("project name cannot be empty")
	ErrProjectNameTaken        = errors.New("a project with this name already exists")
	ErrProjectCodeGenFailed    = errors.New("failed to generate project code")
	ErrProjectPermissionDenied = errors.New("only admins can manage projects")
)

// ProjectService provides project operations for the admin console and
// role-scoped listings for the other screens.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	notifier    Notifier
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, notifier Notifier) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		notifier:    notifier,
	}
}

// CreateProject creates a project with a generated partner code; admin only.
func (s *ProjectService) CreateProject(id policy.Identity, name string) (*models.Project, error) {
	if !id.IsAdmin() {
		return nil, ErrProjectPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	if _, err := s.projectRepo.FindByIdentifier(name); err == nil {
		return nil, ErrProjectNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}

	code, err := utils.GenerateProjectCode()
	if err != nil {
		return nil, ErrProjectCodeGenFailed
	}

	project := &models.Project{
		Name: name,
		Code: code,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.notifier.Invalidate(CollectionProjects)
	return project, nil
}

// ListProjects returns the projects visible to the caller: all of them
// for admins and partners (partners need the directory for names), and
// for clients only the projects they hold tasks in.
func (s *ProjectService) ListProjects(id policy.Identity) ([]models.Project, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	if id.Role != models.RoleClient {
		return projects, nil
	}

	ids, err := s.taskRepo.ProjectIDsForUser(id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve client projects: %w", err)
	}

	member := make(map[uint64]bool, len(ids))
	for _, pid := range ids {
		member[pid] = true
	}

	visible := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if member[p.ID] {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// GetProject returns one project; used by the partner dashboard.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// DeleteProject removes a project and cascades to its tasks and reviews;
// admin only.
func (s *ProjectService) DeleteProject(id policy.Identity, projectID uint64) error {
	if !id.IsAdmin() {
		return ErrProjectPermissionDenied
	}

	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.notifier.Invalidate(CollectionProjects)
	s.notifier.Invalidate(CollectionTasks)
	s.notifier.Invalidate(CollectionReviews)
	s.notifier.Invalidate(CollectionUsers)
	return nil
}
