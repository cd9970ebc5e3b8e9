package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/duynhne/customer-service/internal/core/domain"
	logicv1 "github.com/duynhne/customer-service/internal/logic/v1"
	"github.com/duynhne/customer-service/middleware"
)

// AuthHandler handles login requests.
type AuthHandler struct {
	service *logicv1.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *logicv1.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Type  string       `json:"type"`
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, errorResponse{Type: "error", Message: "Email and password are required"})
		return
	}

	token, user, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrInvalidCredentials) {
			logger.Info("Login rejected", zap.String("email", req.Email))
			c.JSON(http.StatusUnauthorized, errorResponse{Type: "error", Message: "Invalid credentials"})
			return
		}
		logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorResponse{Type: "error", Message: sanitizeError(err)})
		return
	}

	logger.Info("User logged in", zap.Int("user_id", user.ID))
	c.JSON(http.StatusOK, loginResponse{Type: "success", Token: token, User: user})
}
