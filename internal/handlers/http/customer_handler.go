package http

import (
	"net/http"

	"peerlink/internal/core/domain"
	"peerlink/internal/core/ports"
	"peerlink/internal/infrastructure/monitoring"
	"peerlink/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	service ports.CustomerService
	metrics *monitoring.RelayCollector
	logger  *zap.SugaredLogger
}

func NewCustomerHandler(service ports.CustomerService, metrics *monitoring.RelayCollector, logger *zap.SugaredLogger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

func (h *CustomerHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/customers")
	{
		api.POST("", h.Save)
		api.GET("", h.List)
		api.GET("/:email", h.GetByEmail)
	}
}

type SaveCustomerRequest struct {
	LastName  string `json:"lastname"`
	FirstName string `json:"firstname"`
	Email     string `json:"email"`
	City      string `json:"city"`
	Country   string `json:"country"`
	ImagePath string `json:"image_path"`
}

// Save creates the customer, or updates the existing row when the email is
// already known.
func (h *CustomerHandler) Save(c *gin.Context) {
	var req SaveCustomerRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidRequestError("invalid request format"))
		return
	}

	customer := &domain.Customer{
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Email:     req.Email,
		City:      req.City,
		Country:   req.Country,
		ImagePath: req.ImagePath,
	}

	created, err := h.service.Save(c.Request.Context(), customer)
	if err != nil {
		c.Error(err)
		return
	}

	h.metrics.RecordCustomerSaved(created)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"success":  true,
		"created":  created,
		"customer": customer,
	})
}

func (h *CustomerHandler) GetByEmail(c *gin.Context) {
	customer, err := h.service.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"customer": customer,
	})
}

func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	if customers == nil {
		customers = []*domain.Customer{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"customers": customers,
	})
}
