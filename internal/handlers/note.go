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

// NoteHandler coordinates note-related HTTP handlers.
type NoteHandler struct {
	noteService *services.NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// ListNotes returns the caller's notes.
func (h *NoteHandler) ListNotes(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	notes, err := h.noteService.ListNotes(id)
	if err != nil {
		respondNoteError(c, err)
		return
	}

	dtos := make([]dto.NoteDTO, len(notes))
	for i, n := range notes {
		dtos[i] = dto.ToNoteDTO(n)
	}
	c.JSON(http.StatusOK, gin.H{"notes": dtos})
}

// CreateNote creates a note owned by the caller.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type NoteRequest struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content"`
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.noteService.CreateNote(id, req.Title, req.Content)
	if err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToNoteDTO(*note))
}

// UpdateNote updates a note the caller owns.
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	noteID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid note ID")
		return
	}

	type NoteRequest struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content"`
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.noteService.UpdateNote(id, noteID, req.Title, req.Content)
	if err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNoteDTO(*note))
}

// DeleteNote removes a note the caller owns.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	noteID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid note ID")
		return
	}

	if err := h.noteService.DeleteNote(id, noteID); err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}

func respondNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoteNotFound):
		apierrors.NotFound(c, "Note not found")
	case errors.Is(err, services.ErrNotNoteOwner):
		apierrors.PermissionDenied(c, "")
	case errors.Is(err, services.ErrNoteTitleRequired):
		apierrors.BadRequest(c, "Note title is required")
	default:
		apierrors.InternalError(c, "")
	}
}
