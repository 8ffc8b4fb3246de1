package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrOverCapacity is returned when loading would exceed a vehicle's capacity.
var ErrOverCapacity = errors.New("vehicle over capacity")

type VehicleStatus int

const (
	StatusAvailable VehicleStatus = iota + 1
	StatusInTransit
	StatusMaintenance
)

func (s VehicleStatus) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusInTransit:
		return "in_transit"
	case StatusMaintenance:
		return "maintenance"
	default:
		return "unknown"
	}
}

// Delivery vehicle aggregate holding cargo and producing/applying RoutePlans.
type Vehicle struct {
	Plate         string
	CapacityKg    int
	Status        VehicleStatus
	StartLocation string
	DepartAt      *time.Time
	Cargo         []*Cargo
}

func NewVehicle(plate string, capacityKg int, start string) *Vehicle {
	return &Vehicle{
		Plate:         plate,
		CapacityKg:    capacityKg,
		Status:        StatusAvailable,
		StartLocation: start,
	}
}

// LoadKg returns the total weight currently on board.
func (v *Vehicle) LoadKg() int {
	total := 0
	for _, c := range v.Cargo {
		total += c.WeightKg
	}
	return total
}

// Load a single cargo item onto the vehicle.
func (v *Vehicle) Load(c *Cargo) error {
	if v.Status != StatusAvailable {
		return fmt.Errorf("load vehicle: vehicle %s is %s", v.Plate, v.Status)
	}
	if c.WeightKg <= 0 {
		return fmt.Errorf("load vehicle: cargo %d has non-positive weight %d", c.CargoID, c.WeightKg)
	}
	if load := v.LoadKg(); load+c.WeightKg > v.CapacityKg {
		return fmt.Errorf(
			"load vehicle: vehicle %s cannot take cargo %d (load=%dkg, cargo=%dkg, capacity=%dkg): %w",
			v.Plate, c.CargoID, load, c.WeightKg, v.CapacityKg, ErrOverCapacity,
		)
	}
	v.Cargo = append(v.Cargo, c)
	return nil
}

// Load multiple cargo items onto the vehicle.
func (v *Vehicle) LoadMultiple(items []*Cargo) error {
	for _, c := range items {
		if err := v.Load(c); err != nil {
			return err
		}
	}

	return nil
}

// Unload all cargo from the vehicle.
func (v *Vehicle) Clear() {
	v.Cargo = nil
}

// ApplyPlan stamps LoadedAt on every cargo item at departure and DeliveredAt
// on the items listed at each stop.
func (v *Vehicle) ApplyPlan(plan *RoutePlan) error {
	if plan == nil {
		return fmt.Errorf("apply plan: plan must be non-nil")
	}
	if plan.Plate != v.Plate {
		return fmt.Errorf("apply plan: plan for %s applied to vehicle %s", plan.Plate, v.Plate)
	}

	byID := make(map[int]*Cargo, len(v.Cargo))
	for _, c := range v.Cargo {
		byID[c.CargoID] = c
	}

	for _, s := range plan.Stops {
		for _, id := range s.CargoIDs {
			if _, ok := byID[id]; !ok {
				return fmt.Errorf("apply plan: cargo %d at stop %q is not on vehicle %s", id, s.Destination, v.Plate)
			}
		}
	}

	departAt := plan.DepartAt
	v.DepartAt = &departAt
	for _, c := range v.Cargo {
		loaded := departAt
		c.LoadedAt = &loaded
	}
	for _, s := range plan.Stops {
		for _, id := range s.CargoIDs {
			arrived := s.ArriveAt
			byID[id].DeliveredAt = &arrived
		}
	}

	return nil
}
