package services

import (
	"errors"
	"fmt"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/graph"
	"math"
	"strconv"
	"time"
)

// pairKey indexes the pairwise travel-time table. Both names are quoted,
// so distinct pairs never share a key even when names contain "|".
func pairKey(from, to string) string { return strconv.Quote(from) + "|" + strconv.Quote(to) }

// Plan a delivery route using a greedy nearest-neighbor algorithm.
//
// At each step the closest remaining destination (by shortest travel time
// in the network) is visited next. This is not a global optimization.
// pairwise holds only reachable pairs; a missing entry means "unreachable".
func NearestNeighborRoute(
	vehicle *domain.Vehicle,
	departAt time.Time,
	pairwise map[string]int,
	returnToStart bool,
) (*domain.RoutePlan, error) {
	startLocation := vehicle.StartLocation
	if startLocation == "" {
		return nil, errors.New("plan route: startLocation must be non-empty")
	}

	if len(vehicle.Cargo) == 0 {
		return &domain.RoutePlan{
			Plate:    vehicle.Plate,
			DepartAt: departAt,
			Stops:    []domain.RouteStop{},
		}, nil
	}

	byDestination := make(map[string][]int)
	for _, c := range vehicle.Cargo {
		byDestination[c.Destination] = append(byDestination[c.Destination], c.CargoID)
	}

	remainingDestinations := make(map[string]struct{})
	for dest := range byDestination {
		remainingDestinations[dest] = struct{}{}
	}

	currentTime := departAt
	currentLocation := startLocation

	stops := []domain.RouteStop{}
	totalMinutes := 0

	for len(remainingDestinations) > 0 {
		var bestDestination string
		minMinutes := math.MaxInt

		for d := range remainingDestinations {
			minutes, ok := pairwise[pairKey(currentLocation, d)]
			if !ok {
				continue
			}
			// Tie-breaker ensures deterministic ordering when times are equal.
			if minutes < minMinutes || (minutes == minMinutes && (bestDestination == "" || d < bestDestination)) {
				minMinutes = minutes
				bestDestination = d
			}
		}

		if bestDestination == "" {
			return nil, fmt.Errorf(
				"plan route: no remaining destination reachable from %q: %w",
				currentLocation, graph.ErrNoPath,
			)
		}

		currentTime = currentTime.Add(time.Duration(minMinutes) * time.Minute)
		totalMinutes += minMinutes

		stops = append(stops, domain.RouteStop{
			Destination: bestDestination,
			ArriveAt:    currentTime,
			CargoIDs:    byDestination[bestDestination],
		})

		delete(remainingDestinations, bestDestination)
		currentLocation = bestDestination
	}

	// Optionally includes the return leg to the sorting center.
	if returnToStart {
		back, ok := pairwise[pairKey(currentLocation, startLocation)]
		if !ok {
			return nil, fmt.Errorf(
				"plan route: return leg from %q to %q: %w",
				currentLocation, startLocation, graph.ErrNoPath,
			)
		}
		totalMinutes += back
	}

	return &domain.RoutePlan{
		Plate:        vehicle.Plate,
		DepartAt:     departAt,
		Stops:        stops,
		TotalMinutes: totalMinutes,
		LoadKg:       vehicle.LoadKg(),
	}, nil
}
