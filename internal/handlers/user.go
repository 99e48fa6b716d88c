package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/clemlesne/feedback-fountain/internal/models"
	"github.com/clemlesne/feedback-fountain/internal/services"
	"github.com/clemlesne/feedback-fountain/internal/store"
)

type UserHandler struct {
	svc *services.UserService
	log *slog.Logger
}

func NewUserHandler(svc *services.UserService, log *slog.Logger) *UserHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{svc: svc, log: log}
}

// --- GET /user ---

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.log.Error("listing users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, models.SearchUser{Users: users})
}

// --- POST /user ---

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if user.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	created, err := h.svc.Create(r.Context(), &user)
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "user already exists")
		return
	}
	if err != nil {
		h.log.Error("creating user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
