package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/models"
)

// Handler serves the registration and login endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type credentialsBody struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		return
	}

	token, user, err := h.service.Register(c.Request.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists."})
		case errors.Is(err, models.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and a password of at least 6 characters are required."})
		default:
			h.logger.Error("Registration failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed."})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
