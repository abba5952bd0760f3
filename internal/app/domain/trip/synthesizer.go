package trip

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/tripflow/tripflow/internal/app/models"
	"github.com/tripflow/tripflow/internal/pkg/ai"
	"github.com/tripflow/tripflow/internal/pkg/jsonrepair"
)

const (
	dateLayout          = "2006-01-02"
	defaultDurationDays = 3
)

var _ Synthesizer = (*SynthesizerImpl)(nil)

// Synthesizer produces a full itinerary document for a trip request,
// grounded in the given attractions.
type Synthesizer interface {
	Synthesize(ctx context.Context, req *models.TripRequest, attractions []models.Attraction) (*models.ItineraryDocument, error)
}

type SynthesizerImpl struct {
	generator ai.Generator
	logger    *zap.Logger
}

func NewSynthesizer(generator ai.Generator, logger *zap.Logger) *SynthesizerImpl {
	return &SynthesizerImpl{generator: generator, logger: logger}
}

func (s *SynthesizerImpl) Synthesize(ctx context.Context, req *models.TripRequest, attractions []models.Attraction) (*models.ItineraryDocument, error) {
	ctx, span := otel.Tracer("TripSynthesizer").Start(ctx, "Synthesize")
	defer span.End()

	if strings.TrimSpace(req.Destination) == "" {
		err := fmt.Errorf("destination is required: %w", models.ErrInvalidInput)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Missing destination")
		return nil, err
	}

	duration := deriveDuration(req)
	travelDays, sightseeingDays := splitDays(duration)
	startDate, endDate := deriveDates(req, duration)
	span.SetAttributes(
		attribute.String("trip.destination", req.Destination),
		attribute.Int("trip.duration_days", duration),
	)

	prompt := synthesisPrompt(req, duration, travelDays, sightseeingDays, sourceProvided(req), attractions)
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 8192,
	}
	raw, err := s.generator.GenerateResponse(ctx, prompt, config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Synthesis model call failed")
		return nil, fmt.Errorf("%w: %v", models.ErrSynthesis, err)
	}

	doc := &models.ItineraryDocument{}
	if err := jsonrepair.DecodeInto(raw, doc); err != nil {
		s.logger.Warn("Itinerary response was not parseable",
			zap.String("destination", req.Destination),
			zap.Int("response_length", len(raw)),
			zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Itinerary response unparsable")
		return nil, fmt.Errorf("%w: %v", models.ErrModelOutput, err)
	}

	doc.Destination = req.Destination
	if sourceProvided(req) {
		doc.Source = req.Source
	} else {
		doc.Source = ""
	}
	doc.StartDate = startDate
	doc.EndDate = endDate
	doc.DurationDays = duration
	doc.Budget = req.Budget
	doc.TravelDays = travelDays
	doc.SightseeingDays = sightseeingDays
	doc.RealAttractions = attractions
	if doc.Summary == "" {
		doc.Summary = fmt.Sprintf("A %d-day trip to %s.", duration, req.Destination)
	}
	normalizeDays(doc, startDate)

	span.SetStatus(codes.Ok, "Itinerary synthesized")
	return doc, nil
}

// deriveDuration prefers an explicit duration, then the date range, then a
// default. A date-range duration counts both endpoints.
func deriveDuration(req *models.TripRequest) int {
	if req.DurationDays > 0 {
		return req.DurationDays
	}
	start, errStart := time.Parse(dateLayout, req.StartDate)
	end, errEnd := time.Parse(dateLayout, req.EndDate)
	if errStart == nil && errEnd == nil {
		days := int(math.Round(end.Sub(start).Hours()/24)) + 1
		if days < 1 {
			days = 1
		}
		return days
	}
	return defaultDurationDays
}

// splitDays reserves days for arrival and departure. Short trips give up
// only one day to travel.
func splitDays(duration int) (travelDays, sightseeingDays int) {
	travelDays = 1
	if duration > 3 {
		travelDays = 2
	}
	sightseeingDays = duration - travelDays
	if sightseeingDays < 1 {
		sightseeingDays = 1
	}
	return travelDays, sightseeingDays
}

// deriveDates fills whichever endpoint can be computed from the other plus
// the duration.
func deriveDates(req *models.TripRequest, duration int) (startDate, endDate string) {
	startDate, endDate = req.StartDate, req.EndDate
	start, errStart := time.Parse(dateLayout, startDate)
	if errStart == nil && endDate == "" {
		endDate = start.AddDate(0, 0, duration-1).Format(dateLayout)
	}
	end, errEnd := time.Parse(dateLayout, endDate)
	if errEnd == nil && startDate == "" {
		startDate = end.AddDate(0, 0, -(duration - 1)).Format(dateLayout)
	}
	return startDate, endDate
}

// sourceProvided reports whether the request names a usable origin: present,
// not the client's "your location" placeholder, and not the destination
// itself.
func sourceProvided(req *models.TripRequest) bool {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		return false
	}
	if strings.EqualFold(source, "your location") {
		return false
	}
	return !strings.EqualFold(source, strings.TrimSpace(req.Destination))
}

// normalizeDays forces the day list to exactly durationDays entries with
// 1-based contiguous numbering and dates walked forward from the start date.
// The model is asked for the right count but does not always comply.
func normalizeDays(doc *models.ItineraryDocument, startDate string) {
	if len(doc.Days) > doc.DurationDays {
		doc.Days = doc.Days[:doc.DurationDays]
	}
	for len(doc.Days) < doc.DurationDays {
		doc.Days = append(doc.Days, models.DayPlan{
			Activities: []string{fmt.Sprintf("Free time to explore %s at your own pace.", doc.Destination)},
		})
	}

	start, err := time.Parse(dateLayout, startDate)
	for i := range doc.Days {
		doc.Days[i].Day = i + 1
		if err == nil {
			doc.Days[i].Date = start.AddDate(0, 0, i).Format(dateLayout)
		}
		if doc.Days[i].Activities == nil {
			doc.Days[i].Activities = []string{}
		}
	}
}
