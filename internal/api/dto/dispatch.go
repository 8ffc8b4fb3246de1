package dto

import "time"

type CreateVehicleRequest struct {
	Plate      string `json:"plate"`
	CapacityKg int    `json:"capacity_kg"`
	Home       string `json:"home"`
}

type QueueVehicleRequest struct {
	SortingCenter string `json:"sorting_center"`
}

type VehicleResponse struct {
	Plate         string `json:"plate"`
	CapacityKg    int    `json:"capacity_kg"`
	Status        string `json:"status"`
	StartLocation string `json:"start_location"`
	LoadKg        int    `json:"load_kg"`
	CargoIDs      []int  `json:"cargo_ids"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}

// TaskRequest assigns one cargo item to one vehicle.
type TaskRequest struct {
	Plate   string `json:"plate"`
	CargoID int    `json:"cargo_id"`
}

type AutoTaskRequest struct {
	SortingCenter string `json:"sorting_center"`
}

type OutcomeRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type MissionResponse struct {
	ID              int          `json:"id"`
	Plate           string       `json:"plate"`
	SortingCenter   string       `json:"sorting_center"`
	Status          string       `json:"status"`
	Note            string       `json:"note,omitempty"`
	StartedAt       time.Time    `json:"started_at"`
	EndedAt         *time.Time   `json:"ended_at,omitempty"`
	DurationMinutes float64      `json:"duration_minutes"`
	CargoIDs        []int        `json:"cargo_ids"`
	Plan            PlanResponse `json:"plan"`
}

type ListMissionsResponse struct {
	Missions []MissionResponse `json:"missions"`
}

type StatsResponse struct {
	Vehicles            int                `json:"vehicles"`
	Cargo               int                `json:"cargo"`
	PendingCargo        int                `json:"pending_cargo"`
	Missions            int                `json:"missions"`
	Zones               int                `json:"zones"`
	SortingCenters      int                `json:"sorting_centers"`
	MissionsByStatus    map[string]int     `json:"missions_by_status"`
	AvgDeliveryMinutes  map[string]float64 `json:"avg_delivery_minutes"`
	AvgLoadPerVehicleKg float64            `json:"avg_load_per_vehicle_kg"`
	DeliveriesByZone    map[string]int     `json:"deliveries_by_zone"`
}
