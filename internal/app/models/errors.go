package models

import "errors"

// Pipeline error taxonomy. Handlers map these onto HTTP statuses:
// invalid input -> 400, everything else -> 500 with a short message.
var (
	// ErrInvalidInput marks bad user-supplied parameters (too-short city
	// name, missing destination).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when no geocoding provider yields coordinates.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable marks a failed or timed-out external provider
	// call. Absorbed by fallback chains wherever one exists.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNoJSONFound means the model output contained no {...} span at all.
	ErrNoJSONFound = errors.New("no JSON found in response")

	// ErrUnparsableJSON means both the strict parse and the repaired parse
	// of a model response failed.
	ErrUnparsableJSON = errors.New("unparsable JSON in response")

	// ErrExtraction wraps failures of the trip-parameter extraction call.
	ErrExtraction = errors.New("trip extraction failed")

	// ErrSynthesis wraps failures of the itinerary synthesis call.
	ErrSynthesis = errors.New("itinerary synthesis failed")

	// ErrModelOutput means the model answered but with nothing usable.
	ErrModelOutput = errors.New("model returned no usable output")

	ErrUnauthenticated = errors.New("unauthenticated")
	ErrDuplicateEmail  = errors.New("email already registered")
)
