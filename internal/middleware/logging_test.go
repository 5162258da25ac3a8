package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richu337/codex-ai-assistant/internal/middleware"
	"github.com/richu337/codex-ai-assistant/pkg/logger"
)

func newLoggingHandler() (http.Handler, *string) {
	var gotRequestID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = middleware.GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return middleware.Logging(logger.NewNop())(handler), &gotRequestID
}

func TestLoggingEchoesRequestID(t *testing.T) {
	handler, gotRequestID := newLoggingHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "req-123", *gotRequestID)
}

func TestLoggingGeneratesRequestID(t *testing.T) {
	handler, gotRequestID := newLoggingHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	generated := rec.Header().Get("X-Request-Id")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, *gotRequestID)
}

func TestGetRequestIDMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, middleware.GetRequestID(req.Context()))
}
