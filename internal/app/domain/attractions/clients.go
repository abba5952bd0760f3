package attractions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tripflow/tripflow/internal/app/models"
	"github.com/tripflow/tripflow/internal/pkg/config"
)

// searchKinds restricts the radius listing to tourist-relevant categories.
const searchKinds = "interesting_places,tourist_facilities,cultural,beaches,natural,architecture"

// radiusPlace is one entry from the OpenTripMap radius listing.
type radiusPlace struct {
	XID   string        `json:"xid"`
	Name  string        `json:"name"`
	Dist  float64       `json:"dist"`
	Kinds string        `json:"kinds"`
	Rate  models.Rating `json:"rate"`
}

// placeDetail is the OpenTripMap per-place detail payload. Only the fields
// the enricher consumes are decoded.
type placeDetail struct {
	WikipediaExtracts struct {
		HTML string `json:"html"`
		Text string `json:"text"`
	} `json:"wikipedia_extracts"`
	Info struct {
		Descr string `json:"descr"`
	} `json:"info"`
	Preview struct {
		Source string `json:"source"`
	} `json:"preview"`
}

// openTripMapClient talks to the OpenTripMap places API.
type openTripMapClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func newOpenTripMapClient(providers config.ProvidersConfig) *openTripMapClient {
	return &openTripMapClient{
		baseURL: providers.OpenTripMapBaseURL,
		apiKey:  providers.OpenTripMapKey,
		client:  &http.Client{Timeout: providers.RequestTimeout},
	}
}

// PlacesNearby lists named places within radiusMeters of the point.
func (c *openTripMapClient) PlacesNearby(ctx context.Context, lat, lon float64, radiusMeters, limit int) ([]radiusPlace, error) {
	params := url.Values{}
	params.Set("radius", strconv.Itoa(radiusMeters))
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("kinds", searchKinds)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("apikey", c.apiKey)

	var places []radiusPlace
	if err := getJSON(ctx, c.client, c.baseURL+"/places/radius?"+params.Encode(), nil, &places); err != nil {
		return nil, fmt.Errorf("radius listing: %w", err)
	}
	return places, nil
}

// PlaceDetail fetches the detail record for a place by its xid.
func (c *openTripMapClient) PlaceDetail(ctx context.Context, xid string) (*placeDetail, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)

	var detail placeDetail
	if err := getJSON(ctx, c.client, c.baseURL+"/places/xid/"+url.PathEscape(xid)+"?"+params.Encode(), nil, &detail); err != nil {
		return nil, fmt.Errorf("detail for %s: %w", xid, err)
	}
	return &detail, nil
}

// pexelsClient searches stock photos as the image fallback.
type pexelsClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func newPexelsClient(providers config.ProvidersConfig) *pexelsClient {
	return &pexelsClient{
		baseURL: providers.PexelsBaseURL,
		apiKey:  providers.PexelsKey,
		client:  &http.Client{Timeout: providers.RequestTimeout},
	}
}

// SearchPhoto returns the medium-size URL of the top photo for the query,
// or an error when the search yields nothing.
func (c *pexelsClient) SearchPhoto(ctx context.Context, query string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("pexels API key not configured")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")

	var result struct {
		Photos []struct {
			Src struct {
				Medium string `json:"medium"`
			} `json:"src"`
		} `json:"photos"`
	}
	headers := map[string]string{"Authorization": c.apiKey}
	if err := getJSON(ctx, c.client, c.baseURL+"/search?"+params.Encode(), headers, &result); err != nil {
		return "", fmt.Errorf("photo search: %w", err)
	}
	if len(result.Photos) == 0 || result.Photos[0].Src.Medium == "" {
		return "", fmt.Errorf("no photos for %q", query)
	}
	return result.Photos[0].Src.Medium, nil
}

func getJSON(ctx context.Context, client *http.Client, rawURL string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
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
