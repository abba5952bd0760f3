// Package attractions lists real points of interest near a destination and
// enriches them with descriptions, images and display metadata.
package attractions

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tripflow/tripflow/internal/app/models"
	"github.com/tripflow/tripflow/internal/pkg/cache"
	"github.com/tripflow/tripflow/internal/pkg/config"
)

const (
	searchRadiusMeters = 10000
	listingLimit       = 30
	maxEnriched        = 10
	maxDescriptionLen  = 300

	// Shown when neither the place detail nor the stock-photo search
	// yields an image.
	placeholderImageURL = "https://upload.wikimedia.org/wikipedia/commons/a/ac/No_image_available.svg"
)

var _ Service = (*ServiceImpl)(nil)

// Service lists enriched attractions around a resolved place. An empty
// slice is a valid answer, including when every provider call fails.
type Service interface {
	NearbyAttractions(ctx context.Context, point *models.GeoPoint) ([]models.Attraction, error)
}

type ServiceImpl struct {
	otm    *openTripMapClient
	pexels *pexelsClient
	images *cache.ImageCache
	logger *zap.Logger

	costMu   sync.Mutex
	costRand *rand.Rand
}

func NewService(providers config.ProvidersConfig, images *cache.ImageCache, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		otm:      newOpenTripMapClient(providers),
		pexels:   newPexelsClient(providers),
		images:   images,
		logger:   logger,
		costRand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NearbyAttractions lists named places around the point, deduplicates them
// by name, and enriches the top entries concurrently. Failures degrade
// instead of propagating: a failed listing yields an empty slice, and
// enrichment failures for individual places fall back to defaults.
func (s *ServiceImpl) NearbyAttractions(ctx context.Context, point *models.GeoPoint) ([]models.Attraction, error) {
	ctx, span := otel.Tracer("AttractionsService").Start(ctx, "NearbyAttractions")
	defer span.End()
	span.SetAttributes(attribute.String("place.name", point.Name))

	places, err := s.otm.PlacesNearby(ctx, point.Lat, point.Lon, searchRadiusMeters, listingLimit)
	if err != nil {
		s.logger.Warn("Place listing failed, returning no attractions",
			zap.String("place", point.Name),
			zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Place listing failed")
		return []models.Attraction{}, nil
	}

	unique := dedupeByName(places)
	if len(unique) > maxEnriched {
		unique = unique[:maxEnriched]
	}

	results := make([]models.Attraction, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)
	for i, place := range unique {
		g.Go(func() error {
			results[i] = s.enrich(gctx, place, point.Name)
			return nil
		})
	}
	_ = g.Wait()

	span.SetAttributes(attribute.Int("attractions.count", len(results)))
	span.SetStatus(codes.Ok, "Attractions enriched")
	return results, nil
}

// dedupeByName keeps the first occurrence of each non-empty name.
func dedupeByName(places []radiusPlace) []radiusPlace {
	seen := make(map[string]struct{}, len(places))
	unique := make([]radiusPlace, 0, len(places))
	for _, p := range places {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		p.Name = name
		unique = append(unique, p)
	}
	return unique
}

func (s *ServiceImpl) enrich(ctx context.Context, place radiusPlace, cityName string) models.Attraction {
	attraction := models.Attraction{
		Name:          place.Name,
		Category:      s.humanizeCategory(place.Kinds),
		Rating:        place.Rate,
		DistanceLabel: distanceLabel(place.Dist),
		CostLabel:     s.costLabel(),
	}

	var detail *placeDetail
	if place.XID != "" {
		d, err := s.otm.PlaceDetail(ctx, place.XID)
		if err != nil {
			s.logger.Warn("Place detail lookup failed",
				zap.String("xid", place.XID),
				zap.String("name", place.Name),
				zap.Error(err))
		} else {
			detail = d
		}
	}

	attraction.Description = s.description(detail, cityName)
	attraction.ImageURL = s.resolveImage(ctx, detail, place.Name, firstKind(place.Kinds))
	return attraction
}

// description prefers the wikipedia extract, then the provider blurb, then a
// generic line mentioning the city.
func (s *ServiceImpl) description(detail *placeDetail, cityName string) string {
	if detail != nil {
		if detail.WikipediaExtracts.HTML != "" {
			if text := stripHTML(detail.WikipediaExtracts.HTML); text != "" {
				return truncate(text, maxDescriptionLen)
			}
		}
		if detail.WikipediaExtracts.Text != "" {
			return truncate(detail.WikipediaExtracts.Text, maxDescriptionLen)
		}
		if detail.Info.Descr != "" {
			return truncate(stripHTML(detail.Info.Descr), maxDescriptionLen)
		}
	}
	return fmt.Sprintf("A popular attraction in %s.", cityName)
}

// resolveImage picks the place's own photo, then a cached or fresh stock
// photo, then the placeholder.
func (s *ServiceImpl) resolveImage(ctx context.Context, detail *placeDetail, name, kind string) string {
	if detail != nil && detail.Preview.Source != "" {
		return detail.Preview.Source
	}

	query := strings.TrimSpace(name + " " + kind)
	if url, ok := s.images.Get(query); ok {
		return url
	}

	url, err := s.pexels.SearchPhoto(ctx, query)
	if err != nil {
		s.logger.Debug("Stock photo search failed",
			zap.String("query", query),
			zap.Error(err))
		return placeholderImageURL
	}
	s.images.Set(query, url)
	return url
}

// humanizeCategory turns the first kind token ("historic_architecture") into
// a display label ("Historic Architecture"). cases.Caser is stateful and must
// not be shared across the enrichment goroutines.
func (s *ServiceImpl) humanizeCategory(kinds string) string {
	kind := firstKind(kinds)
	if kind == "" {
		return "Attraction"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(kind, "_", " "))
}

func firstKind(kinds string) string {
	kind, _, _ := strings.Cut(kinds, ",")
	return strings.TrimSpace(kind)
}

// costLabel synthesizes a display-only entry cost between 200 and 1000.
func (s *ServiceImpl) costLabel() string {
	s.costMu.Lock()
	n := 200 + s.costRand.Intn(801)
	s.costMu.Unlock()
	return fmt.Sprintf("₹%d", n)
}

func distanceLabel(meters float64) string {
	if meters <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

func stripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
