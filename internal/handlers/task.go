package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DevKano98/Web24kanban/internal/dto"
	apierrors "github.com/DevKano98/Web24kanban/internal/errors"
	"github.com/DevKano98/Web24kanban/internal/middleware"
	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/services"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService  *services.TaskService
	boardService *services.BoardService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, boardService *services.BoardService) *TaskHandler {
	return &TaskHandler{
		taskService:  taskService,
		boardService: boardService,
	}
}

// ListTasks returns the caller's board, optionally narrowed by project.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var projectID *uint64
	if raw := c.Query("project_id"); raw != "" {
		pid, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			return
		}
		projectID = &pid
	}

	tasks, err := h.taskService.ListTasks(id, projectID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// GetTask returns a single task.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(id, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task on the board.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		AssignedTo  uint64     `json:"assigned_to"`
		ProjectID   uint64     `json:"project_id" binding:"required"`
		Deadline    *time.Time `json:"deadline"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(id, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		AssignedTo:  req.AssignedTo,
		ProjectID:   req.ProjectID,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// MoveTask applies a board drop: the destination column is the only
// field that changes.
func (h *TaskHandler) MoveTask(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type MoveTaskRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.boardService.Move(id, taskID, models.TaskStatus(req.Status))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task; admin only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(id, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrInvalidColumn):
		apierrors.BadRequest(c, "Invalid board column")
	case errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.PermissionDenied(c, "")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, "Title is required")
	case errors.Is(err, services.ErrProjectRequired):
		apierrors.BadRequest(c, "Project is required")
	case errors.Is(err, services.ErrProjectMissing):
		apierrors.RespondWithError(c, http.StatusNotFound,
			apierrors.NewAPIError(apierrors.ErrCodeProjectNotFound, "Project not found"))
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.BadRequest(c, "Assignee does not exist")
	case errors.Is(err, services.ErrAssigneeNotClient):
		apierrors.BadRequest(c, "Tasks can only be assigned to clients")
	default:
		apierrors.InternalError(c, "")
	}
}
