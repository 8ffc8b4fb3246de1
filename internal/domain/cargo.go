package domain

import "time"

// Represents a single cargo item waiting at a sorting center.
// Cargo has one destination delivery point. Timestamps are populated
// when a vehicle's route plan is applied.
type Cargo struct {
	CargoID       int
	WeightKg      int
	Handling      HandlingType
	Destination   string
	Priority      int
	SortingCenter string
	LoadedAt      *time.Time
	DeliveredAt   *time.Time
}
