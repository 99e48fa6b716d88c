package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clemlesne/feedback-fountain/internal/models"
	"github.com/clemlesne/feedback-fountain/internal/services"
	"github.com/clemlesne/feedback-fountain/internal/store"
)

type FeedbackHandler struct {
	svc *services.FeedbackService
	log *slog.Logger
}

func NewFeedbackHandler(svc *services.FeedbackService, log *slog.Logger) *FeedbackHandler {
	if log == nil {
		log = slog.Default()
	}
	return &FeedbackHandler{svc: svc, log: log}
}

// --- GET /feedback ---

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.svc.List(r.Context())
	if err != nil {
		h.log.Error("listing feedbacks failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if feedbacks == nil {
		feedbacks = []models.Feedback{}
	}
	writeJSON(w, http.StatusOK, models.SearchFeedback{Feedbacks: feedbacks})
}

// --- GET /feedback/{id} ---

func (h *FeedbackHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid feedback id")
		return
	}

	feedback, err := h.svc.GetOne(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "feedback not found")
		return
	}
	if err != nil {
		h.log.Error("reading feedback failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

// --- POST /feedback ---

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var feedback models.Feedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if feedback.Owner == uuid.Nil {
		writeError(w, http.StatusBadRequest, "owner is required")
		return
	}
	if feedback.Title == "" || feedback.Content == "" {
		writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}
	if feedback.Tags == nil {
		feedback.Tags = []string{}
	}

	created, err := h.svc.Create(r.Context(), &feedback)
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "feedback already exists")
		return
	}
	if err != nil {
		h.log.Error("creating feedback failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if created == nil {
		// Blocked by moderation: empty success, the reason is never disclosed.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
