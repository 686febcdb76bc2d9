package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"peerlink/internal/core/services"
	"peerlink/internal/infrastructure/middleware"
	"peerlink/internal/infrastructure/monitoring"
	"peerlink/internal/infrastructure/repositories/memory"
	"peerlink/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// one collector for the package; promauto registers globally
var testMetrics = monitoring.NewRelayCollector()

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zaptest.NewLogger(t).Sugar()

	messageLog := memory.NewMemoryMessageLog(100)
	sessionRepo := memory.NewMemorySessionRepository(time.Hour)
	svc := services.NewSignalingService(messageLog, sessionRepo, log)

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	router.Use(middleware.CORSMiddleware())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.Error(errors.NewMethodNotSupportedError(c.Request.Method))
	})

	NewSignalingHandler(svc, testMetrics, log).SetupRoutes(router)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitReturnsMessageID(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/signaling",
		`{"type":"offer","sessionId":"abc123","from":"alice","sdp":"v=0"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.MessageID)
}

func TestSubmitMissingEnvelopeFields(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"no sessionId", `{"type":"offer"}`},
		{"no type", `{"sessionId":"abc123"}`},
		{"unknown type", `{"type":"bye","sessionId":"abc123"}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/signaling", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, "INVALID_REQUEST", resp.Error)
		})
	}
}

func TestDrainReturnsMessagesAndCursor(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/signaling",
		`{"type":"join-request","sessionId":"abc123","from":"bob"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/signaling?session=abc123&since=0", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages  []map[string]interface{} `json:"messages"`
		Timestamp int64                    `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "join-request", resp.Messages[0]["type"])
	assert.Equal(t, "bob", resp.Messages[0]["from"])
	assert.Greater(t, resp.Timestamp, int64(0))

	// Cursor returned by the drain excludes everything already seen.
	w = doJSON(router, http.MethodGet,
		"/signaling?session=abc123&since="+jsonNumber(resp.Timestamp), "")
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Messages)
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestDrainEmptySessionIsEmptyArray(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/signaling?session=nothing-here", "")
	require.Equal(t, http.StatusOK, w.Code)

	// messages must be [] in the body, never null
	assert.Contains(t, w.Body.String(), `"messages":[]`)
}

func TestDrainRequiresSessionParam(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/signaling", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/signaling?session=s1&since=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnsupportedMethodIs405(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodDelete, "/signaling", "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "METHOD_NOT_SUPPORTED")
}

func TestCORSHeadersAndPreflight(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/signaling?session=s1", "")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = doJSON(router, http.MethodOptions, "/signaling", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownPayloadFieldsRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/signaling",
		`{"type":"ice-candidate","sessionId":"rt","candidate":"candidate:0","sdpMLineIndex":0,"weird":{"deep":[null,true]}}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/signaling?session=rt&since=0", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []json.RawMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)

	var wire map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Messages[0], &wire))
	assert.JSONEq(t, `"candidate:0"`, string(wire["candidate"]))
	assert.JSONEq(t, `0`, string(wire["sdpMLineIndex"]))
	assert.JSONEq(t, `{"deep":[null,true]}`, string(wire["weird"]))
}
