package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DevKano98/Web24kanban/internal/dto"
	apierrors "github.com/DevKano98/Web24kanban/internal/errors"
	"github.com/DevKano98/Web24kanban/internal/middleware"
	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/services"
	"github.com/DevKano98/Web24kanban/internal/utils"
)

// UserHandler coordinates user management and the name directory.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns users for the admin console, optionally filtered by
// role.
func (h *UserHandler) ListUsers(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var role *models.Role
	if raw := c.Query("role"); raw != "" {
		r := models.Role(raw)
		if !models.ValidRole(r) {
			apierrors.BadRequest(c, "Unknown role")
			return
		}
		role = &r
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.userService.ListUsers(id, role, params.Page, params.Limit)
	if err != nil {
		respondUserError(c, err)
		return
	}

	dtos := make([]dto.UserDTO, len(users))
	for i, u := range users {
		dtos[i] = dto.ToUserDTO(u)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dtos,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Directory returns the id/name/role projection every authenticated role
// may read for display names on the boards.
func (h *UserHandler) Directory(c *gin.Context) {
	if _, ok := middleware.GetIdentity(c); !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	users, err := h.userService.Directory()
	if err != nil {
		respondUserError(c, err)
		return
	}

	entries := make([]dto.DirectoryEntryDTO, len(users))
	for i, u := range users {
		entries[i] = dto.ToDirectoryEntryDTO(u)
	}
	c.JSON(http.StatusOK, gin.H{"users": entries})
}

// RenameUser updates a user's display name; admin only.
func (h *UserHandler) RenameUser(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type RenameRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.RenameUser(id, userID, req.Name)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a user; admin only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(id, userID); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrUserPermissionDenied):
		apierrors.PermissionDenied(c, "Only admins can manage users")
	case errors.Is(err, services.ErrCannotDeleteSelf):
		apierrors.BadRequest(c, "Cannot delete your own account")
	case errors.Is(err, services.ErrUserNameRequired):
		apierrors.BadRequest(c, "Name cannot be empty")
	default:
		apierrors.InternalError(c, "")
	}
}
