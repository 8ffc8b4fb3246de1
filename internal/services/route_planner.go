package services

import (
	"context"
	"errors"
	"fmt"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/graph"
	"logistics-network-service/internal/ports"
	"math"
	"time"
)

// Plan a delivery route for cargo starting at startLocation, querying
// travel times from provider as the route is built.
//
// Same greedy nearest-neighbor strategy as NearestNeighborRoute, for callers
// that have not precomputed a pairwise table. Destinations the provider
// reports as unreachable (graph.ErrNoPath) are deferred to later steps.
func PlanRoute(
	ctx context.Context,
	plate string,
	departAt time.Time,
	startLocation string,
	cargo []*domain.Cargo,
	provider ports.TravelTimeProvider,
	returnToStart bool,
) (*domain.RoutePlan, error) {
	if startLocation == "" {
		return nil, errors.New("plan route: startLocation must be non-empty")
	}

	if len(cargo) == 0 {
		return &domain.RoutePlan{
			Plate:    plate,
			DepartAt: departAt,
			Stops:    []domain.RouteStop{},
		}, nil
	}

	byDestination := make(map[string][]int)
	loadKg := 0
	for _, c := range cargo {
		byDestination[c.Destination] = append(byDestination[c.Destination], c.CargoID)
		loadKg += c.WeightKg
	}

	remaining := make(map[string]struct{}, len(byDestination))
	for dest := range byDestination {
		remaining[dest] = struct{}{}
	}

	currentTime := departAt
	currentLocation := startLocation
	stops := []domain.RouteStop{}
	totalMinutes := 0

	for len(remaining) > 0 {
		destinations := make([]string, 0, len(remaining))
		for d := range remaining {
			destinations = append(destinations, d)
		}

		var (
			results map[string]int
			err     error
		)

		// Prefer batched lookups when supported: one shortest-path run per step.
		if mp, ok := provider.(ports.TravelTimeMatrixProvider); ok {
			results, err = mp.TravelMinutesMany(ctx, currentLocation, destinations)
			if err != nil {
				return nil, fmt.Errorf("plan route: travel times from %q: %w", currentLocation, err)
			}
		} else {
			results = make(map[string]int, len(destinations))
			for _, d := range destinations {
				m, e := provider.TravelMinutes(ctx, currentLocation, d)
				if errors.Is(e, graph.ErrNoPath) {
					continue
				}
				if e != nil {
					return nil, fmt.Errorf("plan route: travel time from %q to %q: %w", currentLocation, d, e)
				}
				results[d] = m
			}
		}

		var best string
		minMinutes := math.MaxInt
		for _, d := range destinations {
			m, ok := results[d]
			if !ok {
				continue
			}
			if m < minMinutes || (m == minMinutes && (best == "" || d < best)) {
				minMinutes = m
				best = d
			}
		}

		if best == "" {
			return nil, fmt.Errorf("plan route: no remaining destination reachable from %q: %w", currentLocation, graph.ErrNoPath)
		}

		currentTime = currentTime.Add(time.Duration(minMinutes) * time.Minute)
		totalMinutes += minMinutes
		stops = append(stops, domain.RouteStop{
			Destination: best,
			ArriveAt:    currentTime,
			CargoIDs:    byDestination[best],
		})

		delete(remaining, best)
		currentLocation = best
	}

	if returnToStart {
		back, err := provider.TravelMinutes(ctx, currentLocation, startLocation)
		if err != nil {
			return nil, fmt.Errorf("plan route: return leg from %q to %q: %w", currentLocation, startLocation, err)
		}
		totalMinutes += back
	}

	return &domain.RoutePlan{
		Plate:        plate,
		DepartAt:     departAt,
		Stops:        stops,
		TotalMinutes: totalMinutes,
		LoadKg:       loadKg,
	}, nil
}

// Create a RoutePlan for the cargo currently loaded on vehicle.
func PlanVehicleRoute(
	ctx context.Context,
	vehicle *domain.Vehicle,
	departAt time.Time,
	provider ports.TravelTimeProvider,
	returnToStart bool,
) (*domain.RoutePlan, error) {
	if vehicle == nil {
		return nil, errors.New("plan vehicle route: vehicle must be non-nil")
	}

	if vehicle.StartLocation == "" {
		return nil, fmt.Errorf("plan vehicle route: vehicle %s startLocation must be non-empty", vehicle.Plate)
	}

	plan, err := PlanRoute(ctx, vehicle.Plate, departAt, vehicle.StartLocation, vehicle.Cargo, provider, returnToStart)
	if err != nil {
		return nil, fmt.Errorf("plan vehicle route: for vehicle %s: %w", vehicle.Plate, err)
	}
	return plan, nil
}
