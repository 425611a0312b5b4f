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

// TargetHandler coordinates target-related HTTP handlers.
type TargetHandler struct {
	targetService *services.TargetService
}

// NewTargetHandler creates a new TargetHandler.
func NewTargetHandler(targetService *services.TargetService) *TargetHandler {
	return &TargetHandler{targetService: targetService}
}

// ListTargets returns the caller's targets.
func (h *TargetHandler) ListTargets(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	targets, err := h.targetService.ListTargets(id)
	if err != nil {
		respondTargetError(c, err)
		return
	}

	dtos := make([]dto.TargetDTO, len(targets))
	for i, t := range targets {
		dtos[i] = dto.ToTargetDTO(t)
	}
	c.JSON(http.StatusOK, gin.H{"targets": dtos})
}

// CreateTarget creates a target owned by the caller.
func (h *TargetHandler) CreateTarget(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTargetRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req CreateTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	target, err := h.targetService.CreateTarget(id, req.Text)
	if err != nil {
		respondTargetError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTargetDTO(*target))
}

// UpdateTarget patches text and/or the completed flag.
func (h *TargetHandler) UpdateTarget(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid target ID")
		return
	}

	type UpdateTargetRequest struct {
		Text      *string `json:"text"`
		Completed *bool   `json:"completed"`
	}

	var req UpdateTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	target, err := h.targetService.UpdateTarget(id, targetID, services.UpdateTargetInput{
		Text:      req.Text,
		Completed: req.Completed,
	})
	if err != nil {
		respondTargetError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTargetDTO(*target))
}

// DeleteTarget removes a target the caller owns.
func (h *TargetHandler) DeleteTarget(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid target ID")
		return
	}

	if err := h.targetService.DeleteTarget(id, targetID); err != nil {
		respondTargetError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Target deleted successfully"})
}

func respondTargetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTargetNotFound):
		apierrors.NotFound(c, "Target not found")
	case errors.Is(err, services.ErrNotTargetOwner):
		apierrors.PermissionDenied(c, "")
	case errors.Is(err, services.ErrTargetTextRequired):
		apierrors.BadRequest(c, "Target text is required")
	default:
		apierrors.InternalError(c, "")
	}
}
