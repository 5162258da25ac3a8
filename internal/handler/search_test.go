package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richu337/codex-ai-assistant/internal/handler"
	"github.com/richu337/codex-ai-assistant/internal/model"
	"github.com/richu337/codex-ai-assistant/internal/service"
	"github.com/richu337/codex-ai-assistant/pkg/logger"
)

type stubSearcher struct {
	searchResp  *model.SearchResponse
	historyResp *model.SearchHistoryResponse
	err         error

	gotQuery string
	deleted  []string
}

func (s *stubSearcher) Search(_ context.Context, _, query string) (*model.SearchResponse, error) {
	s.gotQuery = query
	return s.searchResp, s.err
}

func (s *stubSearcher) History(_ context.Context, _ string, _, _ int) (*model.SearchHistoryResponse, error) {
	return s.historyResp, s.err
}

func (s *stubSearcher) DeleteHistory(_ context.Context, _, entryID string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, entryID)
	return nil
}

func searchRouter(svc handler.Searcher) http.Handler {
	h := handler.NewSearchHandler(svc, logger.NewNop())
	r := chi.NewRouter()
	r.Get("/api/search", h.Search)
	r.Get("/api/search/history", h.History)
	r.Delete("/api/search/history/{id}", h.DeleteHistory)
	return r
}

func TestSearch(t *testing.T) {
	svc := &stubSearcher{
		searchResp: &model.SearchResponse{Query: "capital of France", Answer: "Paris"},
	}
	router := searchRouter(svc)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/search?q="+url.QueryEscape("capital of France"), nil), "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "capital of France", svc.gotQuery)

	var resp model.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Paris", resp.Answer)
}

func TestSearchValidation(t *testing.T) {
	svc := &stubSearcher{searchResp: &model.SearchResponse{}}
	router := searchRouter(svc)

	for _, target := range []string{
		"/api/search",
		"/api/search?q=",
		"/api/search?q=" + url.QueryEscape(strings.Repeat("q", 2001)),
	} {
		req := asUser(httptest.NewRequest(http.MethodGet, target, nil), "user-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
	assert.Empty(t, svc.gotQuery)
}

func TestSearchUpstreamError(t *testing.T) {
	svc := &stubSearcher{err: fmt.Errorf("%w: provider down", service.ErrUpstream)}
	router := searchRouter(svc)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/search?q=hello", nil), "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "provider down")
}

func TestSearchHistoryEndpoint(t *testing.T) {
	svc := &stubSearcher{
		historyResp: &model.SearchHistoryResponse{
			History: []model.SearchEntry{{ID: "s1", Query: "q", Result: "r"}},
		},
	}
	router := searchRouter(svc)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/search/history", nil), "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.SearchHistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.History, 1)
}

func TestDeleteSearchHistory(t *testing.T) {
	svc := &stubSearcher{}
	router := searchRouter(svc)

	entryID := uuid.Must(uuid.NewV7()).String()
	req := asUser(httptest.NewRequest(http.MethodDelete, "/api/search/history/"+entryID, nil), "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{entryID}, svc.deleted)

	req = asUser(httptest.NewRequest(http.MethodDelete, "/api/search/history/nope", nil), "user-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
