package flow

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pytake/flowengine/internal/flow/engine"
)

func newTestHandler(t *testing.T) (*Handler, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := newTestService(t, `{
		"nodes": [
			{"id":"start","type":"startNode","data":{}},
			{"id":"hi","type":"textMessage","data":{"text":"hi"}}
		],
		"edges": [{"source":"start","target":"hi"}]
	}`)
	return NewHandler(s, s.log), s
}

func newTestRouter(h *Handler) *gin.Engine {
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func TestHandlerProcessMessageMissingSenderID(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/process_message", bytes.NewBufferString(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "sender_id é obrigatório", body["error"])
}

func TestHandlerProcessMessageReturnsPayload(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/process_message", bytes.NewBufferString(`{"sender_id":"u1","message":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		ResponsePayload *engine.Payload `json:"response_payload"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.ResponsePayload)
	assert.Equal(t, "hi", body.ResponsePayload.Text)
}

func TestHandlerHealthDegradedWithoutDB(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// store is nil in this fixture; PingDB reports it as unreachable
	// rather than panicking, so /health must still report degraded.
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, details["flow_loaded"])
	assert.Equal(t, false, details["db_connection"])
	assert.NotEmpty(t, details["db_error"])
}

func TestHandlerRootBanner(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandlerReloadFlowFailsWithoutStore(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/reload_flow", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// No store is wired in this fixture, so Reload fails; the surface
	// must report 500 with success:false rather than panicking.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}
