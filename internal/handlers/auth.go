package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/DevKano98/Web24kanban/internal/constants"
	"github.com/DevKano98/Web24kanban/internal/dto"
	apierrors "github.com/DevKano98/Web24kanban/internal/errors"
	"github.com/DevKano98/Web24kanban/internal/middleware"
	"github.com/DevKano98/Web24kanban/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService       *services.AuthService
	enrollmentService *services.EnrollmentService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, enrollmentService *services.EnrollmentService) *AuthHandler {
	return &AuthHandler{
		authService:       authService,
		enrollmentService: enrollmentService,
	}
}

// Signup registers an admin or client account.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusCreated, userDTO)
}

// PartnerSignup runs the partner enrollment flow. On success no session
// is established; the partner logs in explicitly afterwards.
func (h *AuthHandler) PartnerSignup(c *gin.Context) {
	type PartnerSignupRequest struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Project  string `json:"project" binding:"required"`
	}

	var req PartnerSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.enrollmentService.Enroll(services.EnrollInput{
		Name:              req.Name,
		Email:             req.Email,
		Password:          req.Password,
		ProjectIdentifier: req.Project,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusCreated, userDTO)
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, userDTO)
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, userDTO)
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email is already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.RespondWithError(c, http.StatusUnauthorized,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, "Invalid email or password"))
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, "Password must be at least 6 characters")
	case errors.Is(err, services.ErrInvalidEmail):
		apierrors.BadRequest(c, "Invalid email address")
	case errors.Is(err, services.ErrNameRequired):
		apierrors.BadRequest(c, "Name is required")
	case errors.Is(err, services.ErrProjectIdentifierRequired):
		apierrors.BadRequest(c, "Project name or code is required")
	case errors.Is(err, services.ErrDomainNotAllowed):
		apierrors.DomainNotAllowed(c, "Email domain is not allowed to register")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.RespondWithError(c, http.StatusNotFound,
			apierrors.NewAPIError(apierrors.ErrCodeProjectNotFound, "Project not found"))
	case errors.Is(err, services.ErrRegistrationIncomplete):
		apierrors.RespondWithError(c, http.StatusServiceUnavailable,
			apierrors.NewAPIError(apierrors.ErrCodeRegistrationIncomplete, "Registration could not be completed, please try again"))
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		apierrors.InternalError(c, "")
	}
}
