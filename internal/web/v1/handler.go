package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/duynhne/customer-service/internal/core/domain"
	logicv1 "github.com/duynhne/customer-service/internal/logic/v1"
	"github.com/duynhne/customer-service/middleware"
)

// CustomerHandler handles HTTP requests for customer operations
type CustomerHandler struct {
	service *logicv1.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(service *logicv1.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// successResponse is the body shape for mutating operations.
type successResponse struct {
	Type     string           `json:"type"`
	Customer *domain.Customer `json:"customer,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// errorResponse is the body shape for all failures.
type errorResponse struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// ListCustomers handles GET /api/customers/
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	customers, err := h.service.ListCustomers(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to list customers", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorResponse{Type: "error", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer handles GET /api/customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	id, ok := h.customerID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("customer.id", id))

	customer, err := h.service.GetCustomer(ctx, id)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to get customer", zap.Error(err), zap.Int("customer_id", id))
		h.writeError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// CreateCustomer handles POST /api/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Type: "error", Message: "Authentication required"})
		return
	}

	var payload domain.CustomerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Error("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorResponse{Type: "error", Message: "Customer data is missing for customer."})
		return
	}

	customer, err := h.service.CreateCustomer(ctx, &payload, principal)
	if err != nil {
		span.RecordError(err)

		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			logger.Info("Customer validation failed", zap.Strings("violations", validationErr.Messages()))
			c.JSON(http.StatusBadRequest, errorResponse{
				Type:    "validation_error",
				Message: "There was a validation error!",
				Errors:  validationErr.Messages(),
			})
		case errors.Is(err, domain.ErrMalformedPayload):
			c.JSON(http.StatusBadRequest, errorResponse{Type: "error", Message: "Customer data is missing for customer."})
		default:
			logger.Error("Failed to create customer", zap.Error(err))
			c.JSON(http.StatusBadRequest, errorResponse{Type: "error", Message: sanitizeError(err)})
		}
		return
	}

	logger.Info("Customer created", zap.Int("customer_id", customer.ID))
	c.JSON(http.StatusCreated, successResponse{Type: "success", Customer: customer})
}

// UpdateCustomer handles PUT /api/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Type: "error", Message: "Authentication required"})
		return
	}

	id, ok := h.customerID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("customer.id", id))

	// An unparsable body does not short-circuit: look-up and ownership
	// decide the status first, so a bad body on a missing or foreign
	// customer still yields 404/403.
	payload := &domain.CustomerPayload{}
	if err := c.ShouldBindJSON(payload); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Error("Invalid request body", zap.Error(err))
		payload = nil
	}

	customer, err := h.service.UpdateCustomer(ctx, id, payload, principal)
	if err != nil {
		span.RecordError(err)

		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			logger.Info("Customer validation failed", zap.Strings("violations", validationErr.Messages()))
			c.JSON(http.StatusBadRequest, errorResponse{
				Type:    "validation_error",
				Message: "There was a validation error!",
				Errors:  validationErr.Messages(),
			})
		case errors.Is(err, domain.ErrMalformedPayload):
			c.JSON(http.StatusBadRequest, errorResponse{
				Type:    "error",
				Message: fmt.Sprintf("Customer data is missing for customer with ID: %d.", id),
			})
		default:
			logger.Error("Failed to update customer", zap.Error(err), zap.Int("customer_id", id))
			h.writeError(c, id, err)
		}
		return
	}

	logger.Info("Customer updated", zap.Int("customer_id", customer.ID))
	c.JSON(http.StatusCreated, successResponse{Type: "success", Customer: customer})
}

// DeleteCustomer handles DELETE /api/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Type: "error", Message: "Authentication required"})
		return
	}

	id, ok := h.customerID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("customer.id", id))

	if err := h.service.DeleteCustomer(ctx, id, principal); err != nil {
		span.RecordError(err)
		logger.Error("Failed to delete customer", zap.Error(err), zap.Int("customer_id", id))
		h.writeError(c, id, err)
		return
	}

	logger.Info("Customer deleted", zap.Int("customer_id", id))
	// net/http strips the body on 204; clients over the wire only see
	// the status line, the body survives in recorded test responses.
	c.JSON(http.StatusNoContent, successResponse{Type: "success", Message: "Customer deleted"})
}

// customerID parses the :id route parameter. A non-numeric id can
// never match an existing customer, so it reports not found.
func (h *CustomerHandler) customerID(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse{
			Type:    "error",
			Message: fmt.Sprintf("Customer with ID: %s not exist.", raw),
		})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors onto the documented status codes.
func (h *CustomerHandler) writeError(c *gin.Context, id int, err error) {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, errorResponse{
			Type:    "error",
			Message: fmt.Sprintf("Customer with ID: %d not exist.", id),
		})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse{Type: "error", Message: "Access denied"})
	default:
		c.JSON(http.StatusBadRequest, errorResponse{Type: "error", Message: sanitizeError(err)})
	}
}
