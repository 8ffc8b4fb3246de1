package ports

import "context"

// Contract for retrieving travel time between two locations.
type TravelTimeProvider interface {
	// Return travel time in minutes from origin to destination.
	TravelMinutes(ctx context.Context, origin string, destination string) (int, error)
}

// Optional extension of TravelTimeProvider that supports batched lookups.
type TravelTimeMatrixProvider interface {
	TravelTimeProvider
	// Return travel minutes from one origin to many destinations.
	// Destinations that cannot be reached are omitted from the result.
	TravelMinutesMany(ctx context.Context, origin string, destinations []string) (map[string]int, error)
}
