package trips

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/middleware"
	"github.com/tripflow/tripflow/internal/app/models"
)

// Handler serves the bearer-protected saved-itinerary endpoints.
type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Save handles POST /api/itinerary/save.
func (h *Handler) Save(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var doc models.ItineraryDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid itinerary body."})
		return
	}
	if doc.Destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Destination is required."})
		return
	}

	trip, err := h.repo.Save(c.Request.Context(), userID, &doc)
	if err != nil {
		h.logger.Error("Saving trip failed", zap.String("userID", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save itinerary."})
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// Mine handles GET /api/itinerary/mine.
func (h *Handler) Mine(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	list, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Listing trips failed", zap.String("userID", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list itineraries."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": list})
}

func authenticatedUser(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(middleware.UserIDKey)
	userID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required."})
		return uuid.Nil, false
	}
	return userID, true
}
