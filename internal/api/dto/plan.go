package dto

import "time"

type VehicleRequest struct {
	Plate      string `json:"plate"`
	CapacityKg int    `json:"capacity_kg"`
}

// PlanRequest either lists vehicles explicitly or asks for VehicleCount
// identical vehicles of VehicleCapacityKg.
type PlanRequest struct {
	SortingCenter     string           `json:"sorting_center"`
	DepartAt          *time.Time       `json:"depart_at"`
	ReturnToStart     bool             `json:"return_to_start"`
	Vehicles          []VehicleRequest `json:"vehicles"`
	VehicleCount      int              `json:"vehicle_count"`
	VehicleCapacityKg int              `json:"vehicle_capacity_kg"`
}

type PlanStopResponse struct {
	Destination string    `json:"destination"`
	ArriveAt    time.Time `json:"arrive_at"`
	CargoIDs    []int     `json:"cargo_ids"`
}

type PlanResponse struct {
	Plate        string             `json:"plate"`
	DepartAt     time.Time          `json:"depart_at"`
	TotalMinutes int                `json:"total_minutes"`
	LoadKg       int                `json:"load_kg"`
	Stops        []PlanStopResponse `json:"stops"`
}

type ListPlanResponse struct {
	Plans []PlanResponse `json:"plans"`
}
