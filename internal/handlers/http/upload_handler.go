package http

import (
	"fmt"
	"io"
	"net/http"

	"peerlink/internal/infrastructure/monitoring"
	"peerlink/internal/infrastructure/uploads"
	"peerlink/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UploadHandler struct {
	store    *uploads.FileStore
	maxBytes int64
	metrics  *monitoring.RelayCollector
	logger   *zap.SugaredLogger
}

func NewUploadHandler(store *uploads.FileStore, maxBytes int64, metrics *monitoring.RelayCollector, logger *zap.SugaredLogger) *UploadHandler {
	return &UploadHandler{
		store:    store,
		maxBytes: maxBytes,
		metrics:  metrics,
		logger:   logger,
	}
}

func (h *UploadHandler) SetupRoutes(router *gin.Engine) {
	router.POST("/api/v1/uploads", h.Upload)
}

// Upload stores a customer photo. Only JPEG images up to the configured size
// are accepted; the stored name is generated server-side.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.metrics.RecordInvalidRequest()
		c.Error(errors.NewInvalidRequestError("image file is required"))
		return
	}

	if fileHeader.Size > h.maxBytes {
		h.metrics.RecordInvalidRequest()
		c.Error(errors.NewInvalidRequestError(fmt.Sprintf("image exceeds the %d byte limit", h.maxBytes)))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(errors.NewInternalError("failed to open uploaded file"))
		return
	}
	defer file.Close()

	// Sniff the content rather than trusting the declared type.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		c.Error(errors.NewInternalError("failed to read uploaded file"))
		return
	}
	if http.DetectContentType(head[:n]) != "image/jpeg" {
		h.metrics.RecordInvalidRequest()
		c.Error(errors.NewInvalidRequestError("only JPEG images are accepted"))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		c.Error(errors.NewInternalError("failed to rewind uploaded file"))
		return
	}

	filename := "customer_" + uuid.NewString() + ".jpg"
	path, err := h.store.Save(c.Request.Context(), filename, io.LimitReader(file, h.maxBytes))
	if err != nil {
		h.logger.Errorw("failed to store upload", "filename", filename, "error", err)
		c.Error(errors.NewInternalError("failed to store image"))
		return
	}

	h.metrics.RecordUpload()
	h.logger.Infow("photo stored", "filename", filename, "size", fileHeader.Size)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"imagePath": path,
		"filename":  filename,
	})
}
