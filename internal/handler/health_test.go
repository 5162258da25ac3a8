package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richu337/codex-ai-assistant/internal/handler"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping() error { return p.err }

type stubConn struct{ connected bool }

func (c stubConn) IsConnected() bool { return c.connected }

func TestHealth(t *testing.T) {
	h := handler.NewHealthHandler(stubPinger{}, nil)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["timestamp"])
}

func TestReady(t *testing.T) {
	h := handler.NewHealthHandler(stubPinger{}, nil)

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyDatabaseDown(t *testing.T) {
	h := handler.NewHealthHandler(stubPinger{err: errors.New("connection refused")}, nil)

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadyEventStream(t *testing.T) {
	h := handler.NewHealthHandler(stubPinger{}, stubConn{connected: false})

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = handler.NewHealthHandler(stubPinger{}, stubConn{connected: true})
	rec = httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
