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
	"github.com/DevKano98/Web24kanban/internal/utils"
)

// ReviewHandler coordinates review-related HTTP handlers.
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ListProjectReviews returns a project's reviews newest-first, subject
// to the visibility rule.
func (h *ReviewHandler) ListProjectReviews(c *gin.Context) {
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

	reviews, err := h.reviewService.ListByProject(id, projectID)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": dto.ToReviewDTOs(reviews)})
}

// ListAllReviews returns every review paginated; admin console only.
func (h *ReviewHandler) ListAllReviews(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewService.ListAll(id, params.Page, params.Limit)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": dto.ToReviewDTOs(reviews),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// AddReview creates a review against a project; assigned partner only.
func (h *ReviewHandler) AddReview(c *gin.Context) {
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

	type AddReviewRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.reviewService.AddReview(id, projectID, req.Text)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReviewDTO(*review))
}

// DeleteReview removes a review; admin only.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid review ID")
		return
	}

	if err := h.reviewService.DeleteReview(id, reviewID); err != nil {
		respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

func respondReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		apierrors.NotFound(c, "Review not found")
	case errors.Is(err, services.ErrReviewTextRequired):
		apierrors.BadRequest(c, "Review text is required")
	case errors.Is(err, services.ErrReviewPermissionDenied):
		apierrors.PermissionDenied(c, "")
	case errors.Is(err, services.ErrReviewVisibilityDenied):
		apierrors.PermissionDenied(c, "No access to this project's reviews")
	case errors.Is(err, services.ErrReviewProjectUnavailable):
		apierrors.RespondWithError(c, http.StatusNotFound,
			apierrors.NewAPIError(apierrors.ErrCodeProjectNotFound, "Project not found"))
	default:
		apierrors.InternalError(c, "")
	}
}
