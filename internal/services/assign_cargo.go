package services

import (
	"cmp"
	"errors"
	"fmt"
	"logistics-network-service/internal/domain"
	"slices"
)

// AssignCargoByTravelTime assigns cargo to vehicles using a simple heuristic.
//
// Destinations are sorted by travel time from the sorting center and chunked
// across vehicles, so each vehicle serves a contiguous band of the network.
// Within a band, higher-priority cargo is loaded first.
func AssignCargoByTravelTime(
	vehicles []*domain.Vehicle,
	cargoByDest map[string][]*domain.Cargo,
	hubMinutes map[string]int,
	destinations []string,
) error {
	if len(vehicles) == 0 {
		return errors.New("assign cargo: vehicle list must not be empty")
	}

	slices.SortFunc(destinations, func(a, b string) int {
		if c := cmp.Compare(hubMinutes[a], hubMinutes[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	nVehicles := len(vehicles)
	nDests := len(destinations)

	// Ceiling division: distribute destinations as evenly as possible across vehicles.
	chunkSize := (nDests + nVehicles - 1) / nVehicles

	for vi := 0; vi < nVehicles; vi++ {
		start := vi * chunkSize
		if start >= nDests {
			break
		}
		end := min(start+chunkSize, nDests)

		var band []*domain.Cargo
		for _, d := range destinations[start:end] {
			band = append(band, cargoByDest[d]...)
		}
		slices.SortStableFunc(band, func(a, b *domain.Cargo) int {
			return cmp.Compare(b.Priority, a.Priority)
		})

		// If capacity is exceeded, assignment fails fast rather than rebalancing.
		for _, c := range band {
			if err := vehicles[vi].Load(c); err != nil {
				return fmt.Errorf("assign cargo: vehicle %s: %w", vehicles[vi].Plate, err)
			}
		}
	}

	return nil
}
