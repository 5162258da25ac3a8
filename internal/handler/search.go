package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/richu337/codex-ai-assistant/internal/middleware"
	"github.com/richu337/codex-ai-assistant/internal/model"
	"github.com/richu337/codex-ai-assistant/pkg/logger"
)

// Searcher serves AI search and its history.
type Searcher interface {
	Search(ctx context.Context, userID, query string) (*model.SearchResponse, error)
	History(ctx context.Context, userID string, limit, offset int) (*model.SearchHistoryResponse, error)
	DeleteHistory(ctx context.Context, userID, entryID string) error
}

// SearchHandler handles search endpoints.
type SearchHandler struct {
	service Searcher
	logger  *logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(svc Searcher, log *logger.Logger) *SearchHandler {
	return &SearchHandler{service: svc, logger: log}
}

// Search handles GET /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	query := r.URL.Query().Get("q")

	if err := middleware.ValidateSearchQuery(query); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Search(ctx, userID, query)
	if err != nil {
		h.logger.Error("search failed")
		writeServiceError(w, err, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /api/search/history
func (h *SearchHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	limit, offset := pageParams(r, 20)

	resp, err := h.service.History(ctx, userID, limit, offset)
	if err != nil {
		h.logger.Error("failed to fetch search history")
		writeServiceError(w, err, "failed to fetch search history")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// DeleteHistory handles DELETE /api/search/history/{id}
func (h *SearchHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	entryID := chi.URLParam(r, "id")

	if err := middleware.ValidateSearchEntryID(entryID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.DeleteHistory(ctx, userID, entryID); err != nil {
		writeServiceError(w, err, "failed to delete search history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "search history deleted"})
}
