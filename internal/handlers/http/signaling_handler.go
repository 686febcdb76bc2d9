package http

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"peerlink/internal/core/domain"
	"peerlink/internal/core/ports"
	"peerlink/internal/infrastructure/monitoring"
	"peerlink/pkg/errors"
	"peerlink/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxSignalingBody caps the accepted request body. SDP offers run a few KB;
// anything near this limit is garbage.
const maxSignalingBody = 1 << 20

type SignalingHandler struct {
	service ports.SignalingService
	metrics *monitoring.RelayCollector
	logger  *zap.SugaredLogger
}

func NewSignalingHandler(service ports.SignalingService, metrics *monitoring.RelayCollector, logger *zap.SugaredLogger) *SignalingHandler {
	return &SignalingHandler{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

func (h *SignalingHandler) SetupRoutes(router *gin.Engine) {
	router.POST("/signaling", h.Submit)
	router.GET("/signaling", h.Drain)
	router.OPTIONS("/signaling", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// Submit accepts one signaling message. Envelope fields are validated by the
// service; every other field in the body rides along opaquely.
func (h *SignalingHandler) Submit(c *gin.Context) {
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSignalingBody))
	if err != nil {
		h.metrics.RecordInvalidRequest()
		c.Error(errors.NewInvalidRequestError("unable to read request body"))
		return
	}

	var msg domain.SignalingMessage
	if err := msg.UnmarshalJSON(body); err != nil {
		h.metrics.RecordInvalidRequest()
		c.Error(errors.NewInvalidRequestError("request body is not valid JSON"))
		return
	}

	ctx, span := tracing.StartSpan(c.Request.Context(), "signaling.submit")
	span.SetAttributes(
		tracing.SessionIDKey.String(string(msg.SessionID)),
		tracing.MessageTypeKey.String(string(msg.Type)),
	)
	defer span.End()

	id, err := h.service.Submit(ctx, &msg)
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil && appErr.Code == errors.ErrCodeInvalidRequest {
			h.metrics.RecordInvalidRequest()
		}
		tracing.RecordError(ctx, err)
		c.Error(err)
		return
	}

	h.metrics.RecordSubmit(msg.Type)
	h.metrics.RecordRequestDuration(http.MethodPost, "/signaling", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"messageId": id,
	})
}

// Drain returns the retained messages for a session newer than the caller's
// cursor. The returned timestamp is the relay's current time and is the value
// the caller must pass as since on its next poll.
func (h *SignalingHandler) Drain(c *gin.Context) {
	start := time.Now()

	sessionID := c.Query("session")
	if sessionID == "" {
		h.metrics.RecordInvalidRequest()
		c.Error(errors.NewInvalidRequestError("session query parameter is required"))
		return
	}

	since := int64(0)
	if raw := c.Query("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.metrics.RecordInvalidRequest()
			c.Error(errors.NewInvalidRequestError("since must be an integer timestamp"))
			return
		}
		since = parsed
	}

	ctx, span := tracing.StartSpan(c.Request.Context(), "signaling.drain")
	span.SetAttributes(tracing.SessionIDKey.String(sessionID))
	defer span.End()

	messages, now, err := h.service.Drain(ctx, domain.SessionID(sessionID), since)
	if err != nil {
		tracing.RecordError(ctx, err)
		c.Error(err)
		return
	}

	h.metrics.RecordDrain(len(messages))
	h.metrics.RecordRequestDuration(http.MethodGet, "/signaling", time.Since(start))

	// messages must serialize as [] when empty, not null.
	if messages == nil {
		messages = []*domain.SignalingMessage{}
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":  messages,
		"timestamp": now,
	})
}
