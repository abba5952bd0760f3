package attractions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/models"
)

type mockGeo struct{ mock.Mock }

func (m *mockGeo) Resolve(ctx context.Context, cityName string) (*models.GeoPoint, error) {
	args := m.Called(ctx, cityName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GeoPoint), args.Error(1)
}

type mockAttractions struct{ mock.Mock }

func (m *mockAttractions) NearbyAttractions(ctx context.Context, point *models.GeoPoint) ([]models.Attraction, error) {
	args := m.Called(ctx, point)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attraction), args.Error(1)
}

func performList(h *Handler, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/attractions", h.List)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestListRequiresCity(t *testing.T) {
	h := NewHandler(new(mockGeo), new(mockAttractions), zap.NewNop())

	w := performList(h, "/api/attractions")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"City query parameter is required."}`, w.Body.String())
}

func TestListUnknownCity(t *testing.T) {
	geoSvc := new(mockGeo)
	geoSvc.On("Resolve", mock.Anything, "Atlantis").Return(nil, models.ErrNotFound)
	h := NewHandler(geoSvc, new(mockAttractions), zap.NewNop())

	w := performList(h, "/api/attractions?city=Atlantis")
	assert.Equal(t, http.StatusNotFound, w.Code)
	geoSvc.AssertExpectations(t)
}

func TestListHappyPath(t *testing.T) {
	point := &models.GeoPoint{Name: "Goa", Lat: 15.3, Lon: 74.1}
	geoSvc := new(mockGeo)
	geoSvc.On("Resolve", mock.Anything, "Goa").Return(point, nil)

	attractionsSvc := new(mockAttractions)
	attractionsSvc.On("NearbyAttractions", mock.Anything, point).Return([]models.Attraction{
		{Name: "Fort Aguada", Rating: 3, DistanceLabel: "5.2 km"},
	}, nil)

	h := NewHandler(geoSvc, attractionsSvc, zap.NewNop())

	w := performList(h, "/api/attractions?city=Goa")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		City        string `json:"city"`
		Coordinates struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coordinates"`
		Attractions []models.Attraction `json:"attractions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Goa", body.City)
	assert.InDelta(t, 15.3, body.Coordinates.Lat, 1e-9)
	require.Len(t, body.Attractions, 1)
	assert.Equal(t, "Fort Aguada", body.Attractions[0].Name)

	geoSvc.AssertExpectations(t)
	attractionsSvc.AssertExpectations(t)
}

func TestListEmptyAttractions(t *testing.T) {
	point := &models.GeoPoint{Name: "Goa", Lat: 15.3, Lon: 74.1}
	geoSvc := new(mockGeo)
	geoSvc.On("Resolve", mock.Anything, "Goa").Return(point, nil)

	attractionsSvc := new(mockAttractions)
	attractionsSvc.On("NearbyAttractions", mock.Anything, point).Return([]models.Attraction{}, nil)

	h := NewHandler(geoSvc, attractionsSvc, zap.NewNop())

	w := performList(h, "/api/attractions?city=Goa")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"attractions":[]`)
}

func TestListUpstreamFailure(t *testing.T) {
	point := &models.GeoPoint{Name: "Goa"}
	geoSvc := new(mockGeo)
	geoSvc.On("Resolve", mock.Anything, "Goa").Return(point, nil)

	attractionsSvc := new(mockAttractions)
	attractionsSvc.On("NearbyAttractions", mock.Anything, point).Return(nil, models.ErrUpstreamUnavailable)

	h := NewHandler(geoSvc, attractionsSvc, zap.NewNop())

	w := performList(h, "/api/attractions?city=Goa")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
