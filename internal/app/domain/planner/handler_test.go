package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/models"
)

type mockPlanner struct{ mock.Mock }

func (m *mockPlanner) Plan(ctx context.Context, req *models.TripRequest) (*models.ItineraryDocument, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItineraryDocument), args.Error(1)
}

func newChatRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/chat", h.Chat)
	router.POST("/api/chat/itinerary", h.Itinerary)
	return router
}

func postJSON(router *gin.Engine, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestChatGreeting(t *testing.T) {
	router := newChatRouter(NewHandler(new(mockPlanner), zap.NewNop()))

	w := postJSON(router, "/api/chat", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["reply"])
}

func TestItineraryHappyPath(t *testing.T) {
	planner := new(mockPlanner)
	doc := &models.ItineraryDocument{
		Summary:      "Three days in Goa.",
		Destination:  "Goa",
		DurationDays: 3,
		Days: []models.DayPlan{
			{Day: 1, Activities: []string{"Arrive"}},
			{Day: 2, Activities: []string{"Beach"}},
			{Day: 3, Activities: []string{"Depart"}},
		},
	}
	planner.On("Plan", mock.Anything, mock.MatchedBy(func(r *models.TripRequest) bool {
		return r.Destination == "Goa" && r.DurationDays == 3
	})).Return(doc, nil)

	router := newChatRouter(NewHandler(planner, zap.NewNop()))
	w := postJSON(router, "/api/chat/itinerary", `{"destination":"Goa","durationDays":3}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.ItineraryDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Goa", got.Destination)
	assert.Len(t, got.Days, 3)
	planner.AssertExpectations(t)
}

func TestItineraryMissingDestination(t *testing.T) {
	planner := new(mockPlanner)
	planner.On("Plan", mock.Anything, mock.Anything).Return(nil, models.ErrInvalidInput)

	router := newChatRouter(NewHandler(planner, zap.NewNop()))
	w := postJSON(router, "/api/chat/itinerary", `{"message":"plan something nice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Destination is required."}`, w.Body.String())
}

func TestItineraryUnresolvableDestination(t *testing.T) {
	planner := new(mockPlanner)
	planner.On("Plan", mock.Anything, mock.Anything).Return(nil, models.ErrNotFound)

	router := newChatRouter(NewHandler(planner, zap.NewNop()))
	w := postJSON(router, "/api/chat/itinerary", `{"destination":"Atlantis"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItineraryPipelineFailure(t *testing.T) {
	planner := new(mockPlanner)
	planner.On("Plan", mock.Anything, mock.Anything).Return(nil, models.ErrModelOutput)

	router := newChatRouter(NewHandler(planner, zap.NewNop()))
	w := postJSON(router, "/api/chat/itinerary", `{"destination":"Goa"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate itinerary."}`, w.Body.String())
}

func TestItineraryRejectsMalformedBody(t *testing.T) {
	router := newChatRouter(NewHandler(new(mockPlanner), zap.NewNop()))

	w := postJSON(router, "/api/chat/itinerary", `{"destination":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
