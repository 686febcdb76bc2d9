package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"peerlink/internal/infrastructure/middleware"
	"peerlink/internal/infrastructure/uploads"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newUploadRouter(t *testing.T, maxBytes int64) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := uploads.NewFileStore(dir)
	require.NoError(t, err)

	log := zaptest.NewLogger(t).Sugar()
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))

	NewUploadHandler(store, maxBytes, testMetrics, log).SetupRoutes(router)
	return router, dir
}

func multipartImage(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

// jpegBytes returns data that sniffs as image/jpeg.
func jpegBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return data
}

func TestUploadStoresJPEG(t *testing.T) {
	router, dir := newUploadRouter(t, 5<<20)

	body, contentType := multipartImage(t, "image", jpegBytes(1024))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success   bool   `json:"success"`
		ImagePath string `json:"imagePath"`
		Filename  string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Regexp(t, `^customer_[0-9a-f-]+\.jpg$`, resp.Filename)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, resp.Filename, entries[0].Name())
}

func TestUploadRejectsNonJPEG(t *testing.T) {
	router, dir := newUploadRouter(t, 5<<20)

	// PNG magic bytes
	png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 100)...)

	body, contentType := multipartImage(t, "image", png)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadRejectsOversize(t *testing.T) {
	router, _ := newUploadRouter(t, 512)

	body, contentType := multipartImage(t, "image", jpegBytes(2048))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRequiresImageField(t *testing.T) {
	router, _ := newUploadRouter(t, 5<<20)

	body, contentType := multipartImage(t, "wrong_field", jpegBytes(128))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
