package planner

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/models"
)

const assistantGreeting = "Hi! I can plan your next trip. Tell me where you want to go, " +
	"for how long, and roughly what budget you have in mind."

// Handler serves the chat endpoints backed by the planning pipeline.
type Handler struct {
	planner Service
	logger  *zap.Logger
}

func NewHandler(planner Service, logger *zap.Logger) *Handler {
	return &Handler{planner: planner, logger: logger}
}

// Chat handles POST /api/chat with a static assistant greeting. It never
// invokes the pipeline.
func (h *Handler) Chat(c *gin.Context) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": assistantGreeting})
}

// Itinerary handles POST /api/chat/itinerary: a partial trip request plus an
// optional free-form message, answered with a full itinerary document.
func (h *Handler) Itinerary(c *gin.Context) {
	var req models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	doc, err := h.planner.Plan(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Destination is required."})
		default:
			// Raw model text stays out of responses.
			h.logger.Error("Itinerary pipeline failed",
				zap.String("destination", req.Destination),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate itinerary."})
		}
		return
	}

	c.JSON(http.StatusOK, doc)
}
