package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DevKano98/Web24kanban/internal/dto"
	apierrors "github.com/DevKano98/Web24kanban/internal/errors"
	"github.com/DevKano98/Web24kanban/internal/middleware"
	"github.com/DevKano98/Web24kanban/internal/services"
)

// ProjectHandler coordinates project-related HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects returns the projects visible to the caller.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListProjects(id)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	dtos := make([]dto.ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = dto.ToProjectDTO(p)
	}
	c.JSON(http.StatusOK, gin.H{"projects": dtos})
}

// GetProject returns one project.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetProject(projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// CreateProject creates a project; admin only.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(id, req.Name)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project and everything hanging off it; admin only.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	if err := h.projectService.DeleteProject(id, projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.RespondWithError(c, http.StatusNotFound,
			apierrors.NewAPIError(apierrors.ErrCodeProjectNotFound, "Project not found"))
	case errors.Is(err, services.ErrProjectNameRequired):
		apierrors.BadRequest(c, "Project name cannot be empty")
	case errors.Is(err, services.ErrProjectNameTaken):
		apierrors.Conflict(c, "A project with this name already exists")
	case errors.Is(err, services.ErrProjectPermissionDenied):
		apierrors.PermissionDenied(c, "Only admins can manage projects")
	default:
		apierrors.InternalError(c, "")
	}
}
