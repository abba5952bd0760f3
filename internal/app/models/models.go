package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TripRequest is the normalized set of parameters driving itinerary
// generation. Fields left zero are treated as absent; RawMessage carries the
// free-form user text for server-side extraction.
type TripRequest struct {
	Source       string   `json:"source,omitempty"`
	Destination  string   `json:"destination"`
	DurationDays int      `json:"durationDays,omitempty"`
	Budget       float64  `json:"budget,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	RawMessage   string   `json:"message,omitempty"`
}

// GeoPoint is a resolved place. Produced once per request and immutable
// afterwards.
type GeoPoint struct {
	Name    string  `json:"name,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country,omitempty"`
}

// Rating is a provider rating that serializes as a number, or as the string
// "N/A" when the provider reported none. Some providers rate heritage sites
// with values like "3h"; the numeric prefix is kept, anything else counts as
// unrated.
type Rating float64

func (r Rating) MarshalJSON() ([]byte, error) {
	if r <= 0 {
		return []byte(`"N/A"`), nil
	}
	return json.Marshal(float64(r))
}

func (r *Rating) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*r = 0
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimRight(strings.TrimSpace(str), "h")
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			*r = Rating(f)
		} else {
			*r = 0
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = Rating(f)
	return nil
}

// Attraction is a point of interest near a destination, enriched with
// image, description, cost and distance metadata. The cost label is a
// synthetic display heuristic, not a real price.
type Attraction struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	DistanceLabel string `json:"distance"`
	Category      string `json:"kinds"`
	Rating        Rating `json:"rating"`
	CostLabel     string `json:"cost"`
	ImageURL      string `json:"image"`
}

// HotelOffer is a hotel suggestion inside an itinerary.
type HotelOffer struct {
	Name       string  `json:"name"`
	PriceLabel string  `json:"price"`
	Rating     float64 `json:"rating"`
	ImageURL   string  `json:"image"`
	Location   string  `json:"location"`
}

// DayPlan is one day of an itinerary. Day numbers are 1-based and
// contiguous.
type DayPlan struct {
	Day        int         `json:"day"`
	Date       string      `json:"date,omitempty"`
	Activities []string    `json:"plan"`
	Hotel      *HotelOffer `json:"hotel,omitempty"`
}

// ItineraryDocument is the pipeline's output. The JSON field names are the
// wire contract consumed by the browser client.
type ItineraryDocument struct {
	Summary            string       `json:"summary"`
	Source             string       `json:"source,omitempty"`
	Destination        string       `json:"destination"`
	StartDate          string       `json:"startDate,omitempty"`
	EndDate            string       `json:"endDate,omitempty"`
	DurationDays       int          `json:"durationDays"`
	Budget             float64      `json:"budget"`
	EstimatedTransport string       `json:"estimated_transport"`
	Days               []DayPlan    `json:"itinerary"`
	AlternativeHotels  []HotelOffer `json:"alternative_hotels"`
	TotalEstimatedCost string       `json:"total_estimated_cost"`
	RealAttractions    []Attraction `json:"real_attractions"`
	TravelDays         int          `json:"travelDays"`
	SightseeingDays    int          `json:"sightseeingDays"`
}

// UserAuth is an account row. The password hash never leaves the server.
type UserAuth struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SavedTrip is a persisted itinerary document owned by a user.
type SavedTrip struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	Destination  string          `json:"destination"`
	DurationDays int             `json:"durationDays"`
	Budget       float64         `json:"budget"`
	Document     json.RawMessage `json:"document"`
	CreatedAt    time.Time       `json:"createdAt"`
}
