package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired      = errors.New("title is required")
	ErrProjectRequired    = errors.New("project is required")
	ErrAssigneeNotFound   = errors.New("assignee does not exist")
	ErrAssigneeNotClient  = errors.New("tasks can only be assigned to clients")
	ErrProjectMissing     = errors.New("project does not exist")
	ErrPartnerNotAssigned = errors.New("partner has no assigned project")
)

// TaskService handles task CRUD under the role policy. Status moves live
// in BoardService.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	notifier    Notifier
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// ListTasks returns the caller's board, optionally narrowed to one
// project. Admins see every task; clients see tasks assigned to them;
// partners see their assigned project's tasks read-only.
func (s *TaskService) ListTasks(id policy.Identity, projectID *uint64) ([]models.Task, error) {
	filter := repository.TaskFilter{ProjectID: projectID}

	switch id.Role {
	case models.RoleAdmin:
		// no additional scoping
	case models.RoleClient:
		filter.AssignedTo = &id.UserID
	case models.RolePartner:
		if id.AssignedProjectID == nil {
			return []models.Task{}, nil
		}
		if projectID != nil && *projectID != *id.AssignedProjectID {
			return []models.Task{}, nil
		}
		filter.ProjectID = id.AssignedProjectID
	default:
		return []models.Task{}, nil
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a single task if the caller may view it.
func (s *TaskService) GetTask(id policy.Identity, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignee", "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanViewTask(id, *task) {
		return nil, ErrTaskPermissionDenied
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	AssignedTo  uint64
	ProjectID   uint64
	Deadline    *time.Time
}

// CreateTask creates a task. Admins pick any client assignee; clients
// may only assign to themselves; partners may not create tasks at all.
func (s *TaskService) CreateTask(id policy.Identity, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.ProjectID == 0 {
		return nil, ErrProjectRequired
	}

	assignee := input.AssignedTo
	if id.Role == models.RoleClient {
		assignee = id.UserID
	}

	if !policy.CanCreateTask(id, assignee) {
		return nil, ErrTaskPermissionDenied
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectMissing
		}
		return nil, fmt.Errorf("failed to verify project: %w", err)
	}

	assigneeUser, err := s.userRepo.FindByID(assignee)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to verify assignee: %w", err)
	}
	if id.Role == models.RoleAdmin && assigneeUser.Role != models.RoleClient {
		return nil, ErrAssigneeNotClient
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidColumn
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		AssignedTo:  assignee,
		ProjectID:   input.ProjectID,
		Deadline:    input.Deadline,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.notifier.Invalidate(CollectionTasks)

	return s.taskRepo.FindByID(task.ID, "Assignee", "Project")
}

// DeleteTask deletes a task; admin only.
func (s *TaskService) DeleteTask(id policy.Identity, taskID uint64) error {
	if !policy.CanDeleteTask(id) {
		return ErrTaskPermissionDenied
	}

	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.notifier.Invalidate(CollectionTasks)
	return nil
}
