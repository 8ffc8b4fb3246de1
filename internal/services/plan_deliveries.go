package services

import (
	"context"
	"errors"
	"fmt"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/graph"
	"logistics-network-service/internal/platform/obs"
	"logistics-network-service/internal/ports"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const pairwiseConcurrency = 5

// VehicleSpec describes a vehicle available for dispatch.
type VehicleSpec struct {
	Plate      string
	CapacityKg int
}

type PlanDeliveriesRequest struct {
	SortingCenter string
	Vehicles      []VehicleSpec
	DepartAt      time.Time
	ReturnToStart bool
}

// PlanDeliveries loads the cargo waiting at the sorting center, assigns it
// to the requested vehicles and plans one route per vehicle over network.
func PlanDeliveries(
	ctx context.Context,
	req PlanDeliveriesRequest,
	repo ports.NetworkRepository,
	network ports.TravelTimeMatrixProvider,
) (_ []*domain.RoutePlan, err error) {
	defer obs.Time(ctx, "services.PlanDeliveries")(&err)

	hub := strings.TrimSpace(req.SortingCenter)
	if hub == "" {
		return nil, errors.New("plan deliveries: sorting center must be non-empty")
	}
	if len(req.Vehicles) == 0 {
		return nil, errors.New("plan deliveries: at least one vehicle is required")
	}

	all, err := repo.ListCargo(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: list cargo: %w", err)
	}

	cargoByDest := make(map[string][]*domain.Cargo)
	for _, c := range all {
		if c.SortingCenter != hub {
			continue
		}
		d := strings.TrimSpace(c.Destination)
		if d == "" {
			return nil, fmt.Errorf("plan deliveries: cargo_id=%d has empty destination", c.CargoID)
		}
		cargoByDest[d] = append(cargoByDest[d], c)
	}

	destinations := make([]string, 0, len(cargoByDest))
	for d := range cargoByDest {
		destinations = append(destinations, d)
	}
	if len(destinations) == 0 {
		return []*domain.RoutePlan{}, nil
	}

	hubMinutes, err := network.TravelMinutesMany(ctx, hub, destinations)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: travel times from sorting center: %w", err)
	}
	for _, d := range destinations {
		if _, ok := hubMinutes[d]; !ok {
			return nil, fmt.Errorf("plan deliveries: destination %q from %q: %w", d, hub, graph.ErrNoPath)
		}
	}

	vehicles := make([]*domain.Vehicle, 0, len(req.Vehicles))
	for _, spec := range req.Vehicles {
		vehicles = append(vehicles, domain.NewVehicle(spec.Plate, spec.CapacityKg, hub))
	}

	// Assign cargo to vehicles before computing individual routes.
	if err := AssignCargoByTravelTime(vehicles, cargoByDest, hubMinutes, destinations); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	pairwise, err := pairwiseMinutes(ctx, network, hub, destinations, hubMinutes)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	plans := make([]*domain.RoutePlan, 0, len(vehicles))
	for _, v := range vehicles {
		plan, err := NearestNeighborRoute(v, req.DepartAt, pairwise, req.ReturnToStart)
		if err != nil {
			return nil, fmt.Errorf("plan deliveries: vehicle %s: %w", v.Plate, err)
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

// pairwiseMinutes builds "origin|destination" → minutes for every pair the
// nearest-neighbor planner may ask about: hub to each destination, and each
// destination to every other destination and back to the hub.
// Unreachable pairs are left out of the table.
func pairwiseMinutes(
	ctx context.Context,
	network ports.TravelTimeMatrixProvider,
	hub string,
	destinations []string,
	hubMinutes map[string]int,
) (map[string]int, error) {
	pairwise := make(map[string]int, len(destinations)*(len(destinations)+1))
	for _, d := range destinations {
		pairwise[pairKey(hub, d)] = hubMinutes[d]
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pairwiseConcurrency)

	for _, origin := range destinations {
		origin := origin
		g.Go(func() error {
			targets := make([]string, 0, len(destinations))
			for _, t := range destinations {
				if t != origin {
					targets = append(targets, t)
				}
			}

			res, err := network.TravelMinutesMany(ctx, origin, targets)
			if err != nil {
				return fmt.Errorf("pairwise travel times from %q: %w", origin, err)
			}
			back, err := network.TravelMinutes(ctx, origin, hub)
			if err != nil && !errors.Is(err, graph.ErrNoPath) {
				return fmt.Errorf("return travel time from %q: %w", origin, err)
			}
			hasBack := err == nil

			mu.Lock()
			defer mu.Unlock()
			for t, m := range res {
				pairwise[pairKey(origin, t)] = m
			}
			if hasBack {
				pairwise[pairKey(origin, hub)] = back
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pairwise, nil
}
