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

type LikeHandler struct {
	svc *services.LikeService
	log *slog.Logger
}

func NewLikeHandler(svc *services.LikeService, log *slog.Logger) *LikeHandler {
	if log == nil {
		log = slog.Default()
	}
	return &LikeHandler{svc: svc, log: log}
}

// --- GET /like?related=<uuid> ---

func (h *LikeHandler) ListByRelated(w http.ResponseWriter, r *http.Request) {
	related, err := uuid.Parse(r.URL.Query().Get("related"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "related query parameter must be a uuid")
		return
	}

	likes, err := h.svc.ListByRelated(r.Context(), related)
	if err != nil {
		h.log.Error("listing likes failed", "related", related, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if likes == nil {
		likes = []models.Like{}
	}
	writeJSON(w, http.StatusOK, models.SearchLike{Likes: likes})
}

// --- POST /like ---

func (h *LikeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var like models.Like
	if err := json.NewDecoder(r.Body).Decode(&like); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if like.Related == uuid.Nil || like.User == uuid.Nil {
		writeError(w, http.StatusBadRequest, "related and user are required")
		return
	}

	created, err := h.svc.Create(r.Context(), &like)
	if errors.Is(err, store.ErrConflict) {
		h.log.Warn("like already exists", "related", like.Related, "user", like.User)
		writeError(w, http.StatusConflict, "like already exists")
		return
	}
	if err != nil {
		h.log.Error("creating like failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
