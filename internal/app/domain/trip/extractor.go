// Package trip turns free-form travel requests into structured parameters
// and synthesizes day-by-day itineraries grounded in real attractions.
package trip

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/tripflow/tripflow/internal/app/models"
	"github.com/tripflow/tripflow/internal/pkg/ai"
	"github.com/tripflow/tripflow/internal/pkg/jsonrepair"
)

// interestKeywords is the vocabulary used to backfill interests directly
// from the message when the model extraction returns none.
var interestKeywords = []string{
	"beaches", "beach", "culture", "food", "nightlife", "adventure",
	"history", "nature", "shopping", "art", "temples", "museums",
	"trekking", "hiking", "wildlife", "relaxation", "photography",
}

var _ Extractor = (*ExtractorImpl)(nil)

// Extractor pulls trip parameters out of a free-form message. Fields the
// message does not state are left at their zero values.
type Extractor interface {
	Extract(ctx context.Context, message string) (*models.TripRequest, error)
}

type ExtractorImpl struct {
	generator ai.Generator
	logger    *zap.Logger
	matcher   ahocorasick.AhoCorasick
}

func NewExtractor(generator ai.Generator, logger *zap.Logger) *ExtractorImpl {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return &ExtractorImpl{
		generator: generator,
		logger:    logger,
		matcher:   builder.Build(interestKeywords),
	}
}

func (e *ExtractorImpl) Extract(ctx context.Context, message string) (*models.TripRequest, error) {
	ctx, span := otel.Tracer("TripExtractor").Start(ctx, "Extract")
	defer span.End()

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.1),
		MaxOutputTokens: 1024,
	}
	raw, err := e.generator.GenerateResponse(ctx, extractionPrompt(message), config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Extraction model call failed")
		return nil, fmt.Errorf("%w: %v", models.ErrExtraction, err)
	}

	fields, err := jsonrepair.Parse(raw)
	if err != nil {
		e.logger.Warn("Extraction response was not parseable",
			zap.Int("response_length", len(raw)),
			zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Extraction response unparsable")
		return nil, fmt.Errorf("%w: %v", models.ErrExtraction, err)
	}

	req := &models.TripRequest{
		Source:       asString(fields["source"]),
		Destination:  asString(fields["destination"]),
		StartDate:    asString(fields["startDate"]),
		EndDate:      asString(fields["endDate"]),
		DurationDays: asInt(fields["durationDays"]),
		Budget:       asBudget(fields["budget"]),
		Interests:    asStringSlice(fields["interests"]),
		RawMessage:   message,
	}
	if req.Budget < 0 {
		return nil, fmt.Errorf("%w: negative budget %.0f", models.ErrExtraction, req.Budget)
	}

	if len(req.Interests) == 0 {
		req.Interests = e.matchInterests(message)
	}

	span.SetStatus(codes.Ok, "Parameters extracted")
	return req, nil
}

// matchInterests scans the raw message for known interest keywords,
// preserving order of first appearance.
func (e *ExtractorImpl) matchInterests(message string) []string {
	var interests []string
	seen := make(map[int]struct{})
	for _, m := range e.matcher.FindAll(message) {
		if _, ok := seen[m.Pattern()]; ok {
			continue
		}
		seen[m.Pattern()] = struct{}{}
		interests = append(interests, interestKeywords[m.Pattern()])
	}
	return interests
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func asInt(v any) int {
	return int(asBudget(v))
}

// asBudget coerces numbers the model may emit as strings, including
// shorthand like "10k" and digit-grouped "10,000".
func asBudget(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		s := strings.ToLower(strings.TrimSpace(n))
		s = strings.NewReplacer(",", "", "₹", "", "$", "", " ", "").Replace(s)
		multiplier := 1.0
		if strings.HasSuffix(s, "k") {
			s = strings.TrimSuffix(s, "k")
			multiplier = 1000
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f * multiplier
	default:
		return 0
	}
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
