// Package geo resolves free-text place names to coordinates using a primary
// provider (OpenTripMap geoname lookup) with a secondary free-text fallback
// (Nominatim). Each provider call is fault-isolated: a provider failure
// never aborts the fallback chain.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/models"
	"github.com/tripflow/tripflow/internal/pkg/config"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the geocoding contract.
type Service interface {
	// Resolve maps a city name to coordinates. It fails with
	// models.ErrInvalidInput for names shorter than 2 trimmed characters
	// and with models.ErrNotFound when no provider yields coordinates.
	Resolve(ctx context.Context, cityName string) (*models.GeoPoint, error)
}

type ServiceImpl struct {
	providers config.ProvidersConfig
	client    *http.Client
	logger    *zap.Logger
}

func NewService(providers config.ProvidersConfig, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		providers: providers,
		client:    &http.Client{Timeout: providers.RequestTimeout},
		logger:    logger,
	}
}

func (s *ServiceImpl) Resolve(ctx context.Context, cityName string) (*models.GeoPoint, error) {
	ctx, span := otel.Tracer("GeoService").Start(ctx, "Resolve")
	defer span.End()

	city := strings.TrimSpace(cityName)
	span.SetAttributes(attribute.String("city.name", city))

	if utf8.RuneCountInString(city) < 2 {
		err := fmt.Errorf("city name %q is too short: %w", city, models.ErrInvalidInput)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid city name")
		return nil, err
	}

	if point, err := s.lookupGeoname(ctx, city); err == nil {
		span.SetStatus(codes.Ok, "Resolved via primary provider")
		return point, nil
	} else {
		s.logger.Warn("Primary geocoding lookup failed, falling back",
			zap.String("city", city),
			zap.Error(err))
	}

	if point, err := s.searchNominatim(ctx, city); err == nil {
		span.SetStatus(codes.Ok, "Resolved via fallback provider")
		return point, nil
	} else {
		s.logger.Warn("Fallback geocoding search failed",
			zap.String("city", city),
			zap.Error(err))
	}

	err := fmt.Errorf("could not resolve coordinates for %q: %w", city, models.ErrNotFound)
	span.RecordError(err)
	span.SetStatus(codes.Error, "No provider yielded coordinates")
	return nil, err
}

// lookupGeoname queries the OpenTripMap geoname endpoint by exact name.
func (s *ServiceImpl) lookupGeoname(ctx context.Context, city string) (*models.GeoPoint, error) {
	params := url.Values{}
	params.Set("name", city)
	params.Set("apikey", s.providers.OpenTripMapKey)

	var result struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := s.getJSON(ctx, s.providers.OpenTripMapBaseURL+"/places/geoname?"+params.Encode(), nil, &result); err != nil {
		return nil, err
	}

	if result.Lat == 0 && result.Lon == 0 {
		return nil, fmt.Errorf("geoname lookup returned no coordinates for %q", city)
	}

	return &models.GeoPoint{
		Name:    result.Name,
		Lat:     result.Lat,
		Lon:     result.Lon,
		Country: result.Country,
	}, nil
}

// searchNominatim free-text searches Nominatim and takes the first
// candidate. Nominatim types lat/lon as strings.
func (s *ServiceImpl) searchNominatim(ctx context.Context, city string) (*models.GeoPoint, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("format", "json")
	params.Set("limit", "1")

	var results []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
	}
	headers := map[string]string{"User-Agent": "tripflow/1.0"}
	if err := s.getJSON(ctx, s.providers.NominatimBaseURL+"/search?"+params.Encode(), headers, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no candidates for %q", city)
	}

	first := results[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude %q: %w", first.Lat, err)
	}
	lon, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude %q: %w", first.Lon, err)
	}

	segments := strings.Split(first.DisplayName, ",")
	point := &models.GeoPoint{
		Name: strings.TrimSpace(segments[0]),
		Lat:  lat,
		Lon:  lon,
	}
	if len(segments) > 1 {
		point.Country = strings.TrimSpace(segments[len(segments)-1])
	}
	return point, nil
}

func (s *ServiceImpl) getJSON(ctx context.Context, rawURL string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", models.ErrUpstreamUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
