package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/DevKano98/Web24kanban/internal/errors"
	"github.com/DevKano98/Web24kanban/internal/middleware"
	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/services"
)

// PermissionsHandler exposes the composed affordance table so client
// views render exactly what the server will allow.
type PermissionsHandler struct {
	taskService   *services.TaskService
	reviewService *services.ReviewService
}

// NewPermissionsHandler creates a new PermissionsHandler.
func NewPermissionsHandler(taskService *services.TaskService, reviewService *services.ReviewService) *PermissionsHandler {
	return &PermissionsHandler{
		taskService:   taskService,
		reviewService: reviewService,
	}
}

// GetPermissions composes the permission set for an optional
// (task_id, project_id) context. With no context, task-scoped entries
// come out false for non-admins.
func (h *PermissionsHandler) GetPermissions(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var task models.Task
	if raw := c.Query("task_id"); raw != "" {
		taskID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}
		t, err := h.taskService.GetTask(id, taskID)
		switch {
		case err == nil:
			task = *t
		case errors.Is(err, services.ErrTaskPermissionDenied):
			// Composed entries stay false for an invisible task.
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
			return
		default:
			apierrors.InternalError(c, "")
			return
		}
	}

	var projectID uint64
	hasProjectAccess := false
	if raw := c.Query("project_id"); raw != "" {
		pid, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			return
		}
		projectID = pid
		hasProjectAccess, err = h.reviewService.CanView(id, pid)
		if err != nil {
			apierrors.InternalError(c, "")
			return
		}
	}

	perms := policy.Compose(id, task, projectID, hasProjectAccess)
	c.JSON(http.StatusOK, gin.H{
		"role":        id.Role,
		"permissions": perms,
	})
}
