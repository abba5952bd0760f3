package trip

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/models"
)

const threeDayResponse = `{
  "summary": "Three laid-back days in Goa.",
  "estimated_transport": "Overnight bus from Mumbai, around 1500 INR.",
  "itinerary": [
    {"day": 1, "plan": ["Arrive", "Check in"]},
    {"day": 2, "plan": ["Fort Aguada", "Baga Beach"]},
    {"day": 3, "plan": ["Depart"]}
  ],
  "alternative_hotels": [],
  "total_estimated_cost": "9000 INR"
}`

func TestSynthesizeThreeDayTrip(t *testing.T) {
	gen := &stubGenerator{response: threeDayResponse}
	s := NewSynthesizer(gen, zap.NewNop())

	attractions := []models.Attraction{{Name: "Fort Aguada", Category: "Fortifications", DistanceLabel: "5.2 km", CostLabel: "₹450", Rating: 3}}
	req := &models.TripRequest{Destination: "Goa", DurationDays: 3, StartDate: "2026-11-02", Budget: 10000}

	doc, err := s.Synthesize(context.Background(), req, attractions)
	require.NoError(t, err)

	assert.Equal(t, "Goa", doc.Destination)
	assert.Equal(t, 3, doc.DurationDays)
	assert.Equal(t, 1, doc.TravelDays)
	assert.Equal(t, 2, doc.SightseeingDays)
	assert.Equal(t, "2026-11-02", doc.StartDate)
	assert.Equal(t, "2026-11-04", doc.EndDate)
	assert.Equal(t, float64(10000), doc.Budget)
	assert.Equal(t, attractions, doc.RealAttractions)

	require.Len(t, doc.Days, 3)
	for i, day := range doc.Days {
		assert.Equal(t, i+1, day.Day)
	}
	assert.Equal(t, "2026-11-02", doc.Days[0].Date)
	assert.Equal(t, "2026-11-04", doc.Days[2].Date)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "1. Fort Aguada (Fortifications, 5.2 km, ₹450, rating: 3.0)")
	assert.Contains(t, prompt, "3 days total (1 travel day(s)")
	assert.Contains(t, prompt, "Total budget: 10000 INR")
}

func TestSynthesizeFiveDaySplit(t *testing.T) {
	gen := &stubGenerator{response: `{"summary": "ok", "itinerary": []}`}
	s := NewSynthesizer(gen, zap.NewNop())

	doc, err := s.Synthesize(context.Background(), &models.TripRequest{Destination: "Goa", DurationDays: 5}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.TravelDays)
	assert.Equal(t, 3, doc.SightseeingDays)
	assert.Equal(t, doc.DurationDays, doc.TravelDays+doc.SightseeingDays)
}

func TestSynthesizeDurationFromDateRange(t *testing.T) {
	gen := &stubGenerator{response: `{"summary": "ok", "itinerary": []}`}
	s := NewSynthesizer(gen, zap.NewNop())

	req := &models.TripRequest{Destination: "Goa", StartDate: "2026-12-01", EndDate: "2026-12-05"}
	doc, err := s.Synthesize(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, doc.DurationDays)
	assert.Len(t, doc.Days, 5)
}

func TestSynthesizePadsAndTruncatesDays(t *testing.T) {
	gen := &stubGenerator{response: `{"summary": "ok", "itinerary": [{"day": 7, "plan": ["Everything at once"]}]}`}
	s := NewSynthesizer(gen, zap.NewNop())

	doc, err := s.Synthesize(context.Background(), &models.TripRequest{Destination: "Goa", DurationDays: 3}, nil)
	require.NoError(t, err)
	require.Len(t, doc.Days, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{doc.Days[0].Day, doc.Days[1].Day, doc.Days[2].Day})
	assert.Equal(t, []string{"Everything at once"}, doc.Days[0].Activities)
	assert.Contains(t, doc.Days[1].Activities[0], "Free time to explore Goa")
}

func TestSynthesizeSourceMatchingDestinationIsDropped(t *testing.T) {
	gen := &stubGenerator{response: `{"summary": "ok", "itinerary": []}`}
	s := NewSynthesizer(gen, zap.NewNop())

	req := &models.TripRequest{Source: "Goa", Destination: "goa", DurationDays: 3}
	doc, err := s.Synthesize(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Source)
	assert.NotContains(t, gen.prompts[0], "Traveling from")
}

func TestSynthesizePlaceholderSourceIsDropped(t *testing.T) {
	gen := &stubGenerator{response: `{"summary": "ok", "itinerary": []}`}
	s := NewSynthesizer(gen, zap.NewNop())

	req := &models.TripRequest{Source: "Your Location", Destination: "Goa", DurationDays: 3}
	doc, err := s.Synthesize(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Source)
}

func TestSynthesizeMissingDestination(t *testing.T) {
	s := NewSynthesizer(&stubGenerator{}, zap.NewNop())

	_, err := s.Synthesize(context.Background(), &models.TripRequest{Destination: "  "}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestSynthesizeUnparsableModelOutput(t *testing.T) {
	gen := &stubGenerator{response: "The weather is lovely this time of year."}
	s := NewSynthesizer(gen, zap.NewNop())

	_, err := s.Synthesize(context.Background(), &models.TripRequest{Destination: "Goa"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrModelOutput))
}

func TestSynthesizeModelFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model unavailable")}
	s := NewSynthesizer(gen, zap.NewNop())

	_, err := s.Synthesize(context.Background(), &models.TripRequest{Destination: "Goa"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSynthesis))
}

func TestSplitDays(t *testing.T) {
	tests := []struct {
		duration, travel, sightseeing int
	}{
		{1, 1, 1},
		{2, 1, 1},
		{3, 1, 2},
		{4, 2, 2},
		{5, 2, 3},
		{10, 2, 8},
	}
	for _, tc := range tests {
		travel, sightseeing := splitDays(tc.duration)
		assert.Equal(t, tc.travel, travel, "duration %d", tc.duration)
		assert.Equal(t, tc.sightseeing, sightseeing, "duration %d", tc.duration)
	}
}

func TestDeriveDates(t *testing.T) {
	start, end := deriveDates(&models.TripRequest{StartDate: "2026-11-02"}, 3)
	assert.Equal(t, "2026-11-02", start)
	assert.Equal(t, "2026-11-04", end)

	start, end = deriveDates(&models.TripRequest{EndDate: "2026-11-04"}, 3)
	assert.Equal(t, "2026-11-02", start)
	assert.Equal(t, "2026-11-04", end)

	start, end = deriveDates(&models.TripRequest{}, 3)
	assert.Empty(t, start)
	assert.Empty(t, end)
}
