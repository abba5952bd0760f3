package trip

import (
	"fmt"
	"strings"

	"github.com/tripflow/tripflow/internal/app/models"
)

// extractionPrompt instructs the model to emit only a JSON object with the
// trip parameters it can find in the message.
func extractionPrompt(message string) string {
	var b strings.Builder
	b.WriteString("You are a travel-planning parameter extractor.\n")
	b.WriteString("Extract trip parameters from the user message below and respond with ONLY a JSON object, no prose, no markdown fencing.\n\n")
	b.WriteString("The JSON object must use exactly these keys:\n")
	b.WriteString(`{"source": string, "destination": string, "durationDays": number, "budget": number, "interests": [string], "startDate": "YYYY-MM-DD", "endDate": "YYYY-MM-DD"}`)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Omit or use an empty value for anything the message does not state. Never invent a destination.\n")
	b.WriteString("- Convert shorthand budgets to plain numbers: \"10k\" means 10000, \"1.5k\" means 1500.\n")
	b.WriteString("- If two of start date, end date and duration are given, compute the third.\n")
	b.WriteString("- Collect interest keywords the user mentions (beaches, food, culture, nightlife, ...).\n\n")
	b.WriteString("User message:\n")
	b.WriteString(message)
	return b.String()
}

// synthesisPrompt builds the grounding prompt: trip constraints plus the
// numbered list of real attractions the plan must draw from.
func synthesisPrompt(req *models.TripRequest, duration, travelDays, sightseeingDays int, sourceProvided bool, attractions []models.Attraction) string {
	var b strings.Builder
	b.WriteString("You are an expert travel planner. Create a day-by-day itinerary as a single JSON object.\n\n")

	fmt.Fprintf(&b, "Destination: %s\n", req.Destination)
	if sourceProvided {
		fmt.Fprintf(&b, "Traveling from: %s\n", req.Source)
	}
	if req.StartDate != "" {
		fmt.Fprintf(&b, "Start date: %s\n", req.StartDate)
	}
	if req.EndDate != "" {
		fmt.Fprintf(&b, "End date: %s\n", req.EndDate)
	}
	fmt.Fprintf(&b, "Trip length: %d days total (%d travel day(s) for arrival/departure, %d sightseeing day(s))\n",
		duration, travelDays, sightseeingDays)
	if req.Budget > 0 {
		fmt.Fprintf(&b, "Total budget: %.0f INR. The plan must stay within it.\n", req.Budget)
	}
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "Traveler interests: %s\n", strings.Join(req.Interests, ", "))
	} else {
		b.WriteString("Traveler interests: general travel\n")
	}

	if len(attractions) > 0 {
		b.WriteString("\nBase the sightseeing days on these real attractions. Do not invent other sights:\n")
		for i, a := range attractions {
			rating := "N/A"
			if a.Rating > 0 {
				rating = fmt.Sprintf("%.1f", float64(a.Rating))
			}
			fmt.Fprintf(&b, "%d. %s (%s, %s, %s, rating: %s)\n",
				i+1, a.Name, a.Category, a.DistanceLabel, a.CostLabel, rating)
		}
	}

	b.WriteString("\nRespond with ONLY a JSON object in exactly this shape, no prose, no markdown fencing:\n")
	b.WriteString(`{
  "summary": "one-paragraph overview of the trip",
  "estimated_transport": "how to get there and rough fare",
  "itinerary": [
    {"day": 1, "date": "YYYY-MM-DD", "plan": ["activity", "activity"], "hotel": {"name": "", "price": "", "rating": 4.0, "image": "", "location": ""}}
  ],
  "alternative_hotels": [{"name": "", "price": "", "rating": 4.0, "image": "", "location": ""}],
  "total_estimated_cost": "rough total in INR"
}`)
	fmt.Fprintf(&b, "\nThe itinerary array must contain exactly %d entries, one per day, numbered 1 to %d.\n", duration, duration)
	return b.String()
}
