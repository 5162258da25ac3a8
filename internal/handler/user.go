package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/richu337/codex-ai-assistant/internal/middleware"
	"github.com/richu337/codex-ai-assistant/internal/model"
	"github.com/richu337/codex-ai-assistant/pkg/logger"
)

// ProfileService serves profile, preferences and stats.
type ProfileService interface {
	Profile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.User, error)
	Preferences(ctx context.Context, userID string) (*model.Preferences, error)
	UpdatePreferences(ctx context.Context, userID string, req *model.UpdatePreferencesRequest) (*model.Preferences, error)
	Stats(ctx context.Context, userID string) (*model.Stats, error)
}

// UserHandler handles user profile endpoints.
type UserHandler struct {
	service ProfileService
	logger  *logger.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc ProfileService, log *logger.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: log}
}

// GetProfile handles GET /api/user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	user, err := h.service.Profile(ctx, userID)
	if err != nil {
		h.logger.Error("failed to fetch profile")
		writeServiceError(w, err, "failed to fetch profile")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/user/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(ctx, userID, &req)
	if err != nil {
		h.logger.Error("failed to update profile")
		writeServiceError(w, err, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// GetPreferences handles GET /api/user/preferences
func (h *UserHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	prefs, err := h.service.Preferences(ctx, userID)
	if err != nil {
		h.logger.Error("failed to fetch preferences")
		writeServiceError(w, err, "failed to fetch preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /api/user/preferences
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req model.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateInterests(req.Interests); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	prefs, err := h.service.UpdatePreferences(ctx, userID, &req)
	if err != nil {
		h.logger.Error("failed to update preferences")
		writeServiceError(w, err, "failed to update preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

// GetStats handles GET /api/user/stats
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	stats, err := h.service.Stats(ctx, userID)
	if err != nil {
		h.logger.Error("failed to fetch stats")
		writeServiceError(w, err, "failed to fetch stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
