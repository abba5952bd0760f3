package attractions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/domain/geo"
	"github.com/tripflow/tripflow/internal/app/models"
)

// Handler serves the attractions lookup endpoint.
type Handler struct {
	geo         geo.Service
	attractions Service
	logger      *zap.Logger
}

func NewHandler(geoService geo.Service, attractionsService Service, logger *zap.Logger) *Handler {
	return &Handler{
		geo:         geoService,
		attractions: attractionsService,
		logger:      logger,
	}
}

// List handles GET /api/attractions?city=<name>.
func (h *Handler) List(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "City query parameter is required."})
		return
	}

	point, err := h.geo.Resolve(c.Request.Context(), city)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "City query parameter is required."})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Could not find the requested city."})
		default:
			h.logger.Error("Geocoding failed", zap.String("city", city), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attractions."})
		}
		return
	}

	list, err := h.attractions.NearbyAttractions(c.Request.Context(), point)
	if err != nil {
		h.logger.Error("Attraction listing failed", zap.String("city", city), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attractions."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"city":        point.Name,
		"coordinates": gin.H{"lat": point.Lat, "lon": point.Lon},
		"attractions": list,
	})
}
