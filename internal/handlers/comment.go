package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/clemlesne/feedback-fountain/internal/models"
	"github.com/clemlesne/feedback-fountain/internal/services"
	"github.com/clemlesne/feedback-fountain/internal/store"
)

type CommentHandler struct {
	svc *services.CommentService
	log *slog.Logger
}

func NewCommentHandler(svc *services.CommentService, log *slog.Logger) *CommentHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CommentHandler{svc: svc, log: log}
}

// --- GET /comment?related=<uuid> ---

func (h *CommentHandler) ListByRelated(w http.ResponseWriter, r *http.Request) {
	related, err := uuid.Parse(r.URL.Query().Get("related"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "related query parameter must be a uuid")
		return
	}

	comments, err := h.svc.ListByRelated(r.Context(), related)
	if err != nil {
		h.log.Error("listing comments failed", "related", related, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, models.SearchComment{Comments: comments})
}

// --- POST /comment ---

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var comment models.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if comment.Related == uuid.Nil || comment.User == uuid.Nil {
		writeError(w, http.StatusBadRequest, "related and user are required")
		return
	}
	if comment.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	created, err := h.svc.Create(r.Context(), &comment)
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "comment already exists")
		return
	}
	if err != nil {
		h.log.Error("creating comment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
