package handlers

import (
	"fmt"
	"logistics-network-service/internal/api/dto"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/ports"
	"logistics-network-service/internal/services"
	"net/http"
	"strings"
	"time"
)

type PlanHandler struct {
	Repo                 ports.NetworkRepository
	Network              ports.TravelTimeMatrixProvider
	DefaultSortingCenter string
}

// Plan orchestrates cargo assignment and route planning for a fleet.
// It coordinates repository access, assignment heuristics, and route computation.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, "plan deliveries", err)
		return
	}

	hub := strings.TrimSpace(req.SortingCenter)
	if hub == "" {
		hub = strings.TrimSpace(h.DefaultSortingCenter)
	}
	if hub == "" {
		writeError(w, r, http.StatusBadRequest, "sorting_center is required")
		return
	}

	vehicles, err := vehicleSpecs(req)
	if err != nil {
		writeServiceError(w, r, "plan deliveries", err)
		return
	}

	depart := time.Now()
	if req.DepartAt != nil {
		depart = *req.DepartAt
	}

	svcReq := services.PlanDeliveriesRequest{
		SortingCenter: hub,
		Vehicles:      vehicles,
		DepartAt:      depart,
		ReturnToStart: req.ReturnToStart,
	}

	plans, err := services.PlanDeliveries(r.Context(), svcReq, h.Repo, h.Network)
	if err != nil {
		writeServiceError(w, r, "plan deliveries", err)
		return
	}

	res := dto.ListPlanResponse{Plans: make([]dto.PlanResponse, 0, len(plans))}
	for _, p := range plans {
		res.Plans = append(res.Plans, planResponse(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func vehicleSpecs(req dto.PlanRequest) ([]services.VehicleSpec, error) {
	if len(req.Vehicles) > 0 {
		if len(req.Vehicles) > 10 {
			return nil, invalidInput("at most 10 vehicles per plan")
		}
		seen := make(map[string]struct{}, len(req.Vehicles))
		out := make([]services.VehicleSpec, 0, len(req.Vehicles))
		for i, v := range req.Vehicles {
			plate := strings.TrimSpace(v.Plate)
			if plate == "" {
				plate = fmt.Sprintf("VCL-%03d", i+1)
			}
			if _, dup := seen[plate]; dup {
				return nil, invalidInput("duplicate vehicle plate %q", plate)
			}
			seen[plate] = struct{}{}
			if v.CapacityKg < 1 || v.CapacityKg > 10000 {
				return nil, invalidInput("vehicle %s: capacity_kg must be between 1 and 10000", plate)
			}
			out = append(out, services.VehicleSpec{Plate: plate, CapacityKg: v.CapacityKg})
		}
		return out, nil
	}

	count := req.VehicleCount
	if count == 0 {
		count = 3
	}
	if count < 1 || count > 10 {
		return nil, invalidInput("vehicle_count must be between 1 and 10")
	}

	capacity := req.VehicleCapacityKg
	if capacity == 0 {
		capacity = 500
	}
	if capacity < 1 || capacity > 10000 {
		return nil, invalidInput("vehicle_capacity_kg must be between 1 and 10000")
	}

	out := make([]services.VehicleSpec, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, services.VehicleSpec{Plate: fmt.Sprintf("VCL-%03d", i+1), CapacityKg: capacity})
	}
	return out, nil
}

func planResponse(p *domain.RoutePlan) dto.PlanResponse {
	stops := make([]dto.PlanStopResponse, 0, len(p.Stops))
	for _, s := range p.Stops {
		stops = append(stops, dto.PlanStopResponse{
			Destination: s.Destination,
			ArriveAt:    s.ArriveAt,
			CargoIDs:    s.CargoIDs,
		})
	}

	return dto.PlanResponse{
		Plate:        p.Plate,
		DepartAt:     p.DepartAt,
		TotalMinutes: p.TotalMinutes,
		LoadKg:       p.LoadKg,
		Stops:        stops,
	}
}
