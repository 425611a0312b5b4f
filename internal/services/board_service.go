package services

import (
	"errors"
	"fmt"

	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrInvalidColumn        = errors.New("invalid board column")
	ErrTaskPermissionDenied = errors.New("no permission to modify this task")
)

// BoardService is the task status state machine: a drop event names
// (taskID, destination column) and the only effect is a single-column
// status update.
type BoardService struct {
	taskRepo repository.TaskRepository
	notifier Notifier
}

// NewBoardService creates a new BoardService.
func NewBoardService(taskRepo repository.TaskRepository, notifier Notifier) *BoardService {
	return &BoardService{
		taskRepo: taskRepo,
		notifier: notifier,
	}
}

// Move applies a drop. Guards: destination must be a valid column and
// the mover must be admin or the task's assignee. A same-column drop is
// a no-op that issues zero writes; position within a column is never
// persisted because column order derives from status alone.
func (s *BoardService) Move(id policy.Identity, taskID uint64, dest models.TaskStatus) (*models.Task, error) {
	if !models.ValidTaskStatus(dest) {
		return nil, ErrInvalidColumn
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanMoveTask(id, *task) {
		return nil, ErrTaskPermissionDenied
	}

	if task.Status == dest {
		return task, nil
	}

	if err := s.taskRepo.UpdateStatus(taskID, dest); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	task.Status = dest
	s.notifier.Invalidate(CollectionTasks)

	return task, nil
}
