// Package planner sequences the itinerary pipeline: parameter extraction,
// geocoding, attraction enrichment and itinerary synthesis.
package planner

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/domain/attractions"
	"github.com/tripflow/tripflow/internal/app/domain/geo"
	"github.com/tripflow/tripflow/internal/app/domain/trip"
	"github.com/tripflow/tripflow/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// Service runs the full planning pipeline for one request.
type Service interface {
	Plan(ctx context.Context, req *models.TripRequest) (*models.ItineraryDocument, error)
}

type ServiceImpl struct {
	extractor   trip.Extractor
	geocoder    geo.Service
	attractions attractions.Service
	synthesizer trip.Synthesizer
	logger      *zap.Logger
}

func NewService(extractor trip.Extractor, geocoder geo.Service, attractionsService attractions.Service, synthesizer trip.Synthesizer, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		extractor:   extractor,
		geocoder:    geocoder,
		attractions: attractionsService,
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// Plan runs extraction (when needed), geocoding, enrichment and synthesis in
// sequence. Extraction is skipped when the caller already supplied both a
// destination and a start date; when it runs, its output is the source of
// truth and caller fields only fill the gaps.
func (s *ServiceImpl) Plan(ctx context.Context, req *models.TripRequest) (*models.ItineraryDocument, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "Plan")
	defer span.End()

	if (req.Destination == "" || req.StartDate == "") && strings.TrimSpace(req.RawMessage) != "" {
		extracted, err := s.extractor.Extract(ctx, req.RawMessage)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Extraction failed")
			return nil, err
		}
		req = merge(extracted, req)
	}

	if strings.TrimSpace(req.Destination) == "" {
		err := fmt.Errorf("destination is required: %w", models.ErrInvalidInput)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Missing destination")
		return nil, err
	}
	span.SetAttributes(attribute.String("trip.destination", req.Destination))

	point, err := s.geocoder.Resolve(ctx, req.Destination)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Geocoding failed")
		return nil, err
	}

	// Enrichment failures degrade to an itinerary without real attractions.
	list, err := s.attractions.NearbyAttractions(ctx, point)
	if err != nil {
		s.logger.Warn("Attraction enrichment failed, continuing without attractions",
			zap.String("destination", req.Destination),
			zap.Error(err))
		list = nil
	}

	doc, err := s.synthesizer.Synthesize(ctx, req, list)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Synthesis failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Itinerary planned")
	return doc, nil
}

// merge prefers extracted fields and falls back to the caller's values for
// anything extraction left empty.
func merge(extracted, caller *models.TripRequest) *models.TripRequest {
	out := *extracted
	if out.Source == "" {
		out.Source = caller.Source
	}
	if out.Destination == "" {
		out.Destination = caller.Destination
	}
	if out.DurationDays == 0 {
		out.DurationDays = caller.DurationDays
	}
	if out.Budget == 0 {
		out.Budget = caller.Budget
	}
	if len(out.Interests) == 0 {
		out.Interests = caller.Interests
	}
	if out.StartDate == "" {
		out.StartDate = caller.StartDate
	}
	if out.EndDate == "" {
		out.EndDate = caller.EndDate
	}
	return &out
}
