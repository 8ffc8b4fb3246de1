package handlers

import (
	"logistics-network-service/internal/api/dto"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/platform/obs"
	"logistics-network-service/internal/services"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// DispatchHandler exposes the fleet: vehicles, sorting center queues,
// missions and their statistics.
type DispatchHandler struct {
	Dispatcher *services.Dispatcher
}

func (h *DispatchHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles := h.Dispatcher.Vehicles()

	res := dto.ListVehiclesResponse{Vehicles: make([]dto.VehicleResponse, 0, len(vehicles))}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, vehicleResponse(v))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *DispatchHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateVehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, "create vehicle", err)
		return
	}
	if strings.TrimSpace(req.Plate) == "" {
		writeServiceError(w, r, "create vehicle", invalidInput("plate is required"))
		return
	}
	if req.CapacityKg < 1 || req.CapacityKg > 10000 {
		writeServiceError(w, r, "create vehicle", invalidInput("capacity_kg must be between 1 and 10000"))
		return
	}

	v, err := h.Dispatcher.AddVehicle(req.Plate, req.CapacityKg, req.Home)
	if err != nil {
		writeServiceError(w, r, "create vehicle", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, vehicleResponse(v))
}

// QueueVehicle puts a vehicle at the back of a sorting center queue.
func (h *DispatchHandler) QueueVehicle(w http.ResponseWriter, r *http.Request) {
	var req dto.QueueVehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, "queue vehicle", err)
		return
	}

	plate := chi.URLParam(r, "plate")
	if err := h.Dispatcher.AddVehicleToQueue(plate, req.SortingCenter); err != nil {
		writeServiceError(w, r, "queue vehicle", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DispatchHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req dto.TaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, "create task", err)
		return
	}

	m, err := h.Dispatcher.AddTask(r.Context(), req.Plate, req.CargoID)
	if err != nil {
		writeServiceError(w, r, "create task", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, missionResponse(m))
}

// CreateAutoTask dispatches the next queued vehicle of a sorting center.
func (h *DispatchHandler) CreateAutoTask(w http.ResponseWriter, r *http.Request) {
	var req dto.AutoTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, "create auto task", err)
		return
	}

	m, err := h.Dispatcher.AddAutoTask(r.Context(), req.SortingCenter)
	if err != nil {
		writeServiceError(w, r, "create auto task", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, missionResponse(m))
}

func (h *DispatchHandler) ListMissions(w http.ResponseWriter, r *http.Request) {
	missions := h.Dispatcher.Missions()

	res := dto.ListMissionsResponse{Missions: make([]dto.MissionResponse, 0, len(missions))}
	for _, m := range missions {
		res.Missions = append(res.Missions, missionResponse(m))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *DispatchHandler) GetMission(w http.ResponseWriter, r *http.Request) {
	id, err := missionID(r)
	if err != nil {
		writeServiceError(w, r, "get mission", err)
		return
	}

	m, err := h.Dispatcher.Mission(id)
	if err != nil {
		writeServiceError(w, r, "get mission", err)
		return
	}
	writeJSON(w, r, http.StatusOK, missionResponse(m))
}

// RecordOutcome closes a mission as completed or failed.
func (h *DispatchHandler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	id, err := missionID(r)
	if err != nil {
		writeServiceError(w, r, "record outcome", err)
		return
	}
	var req dto.OutcomeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, "record outcome", err)
		return
	}
	status, err := domain.ParseMissionStatus(req.Status)
	if err != nil || status == domain.MissionInProgress {
		writeServiceError(w, r, "record outcome", invalidInput("status must be completed or failed"))
		return
	}

	m, err := h.Dispatcher.RecordOutcome(id, status, req.Note)
	if err != nil {
		writeServiceError(w, r, "record outcome", err)
		return
	}

	obs.FromContext(r.Context()).Info("mission closed", "req_id", obs.RequestID(r.Context()), "mission_id", m.ID, "status", m.Status)
	writeJSON(w, r, http.StatusOK, missionResponse(m))
}

func (h *DispatchHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st := h.Dispatcher.Statistics()

	res := dto.StatsResponse{
		Vehicles:            st.Vehicles,
		Cargo:               st.Cargo,
		PendingCargo:        st.PendingCargo,
		Missions:            st.Missions,
		Zones:               st.Zones,
		SortingCenters:      st.SortingCenters,
		MissionsByStatus:    make(map[string]int, len(st.MissionsByStatus)),
		AvgDeliveryMinutes:  make(map[string]float64, len(st.AvgDeliveryMinutes)),
		AvgLoadPerVehicleKg: st.AvgLoadPerVehicleKg,
		DeliveriesByZone:    st.DeliveriesByZone,
	}
	for s, n := range st.MissionsByStatus {
		res.MissionsByStatus[s.String()] = n
	}
	for ht, avg := range st.AvgDeliveryMinutes {
		res.AvgDeliveryMinutes[ht.String()] = avg
	}
	writeJSON(w, r, http.StatusOK, res)
}

func missionID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, invalidInput("mission id must be a positive integer")
	}
	return id, nil
}

func vehicleResponse(v domain.Vehicle) dto.VehicleResponse {
	ids := make([]int, 0, len(v.Cargo))
	for _, c := range v.Cargo {
		ids = append(ids, c.CargoID)
	}
	return dto.VehicleResponse{
		Plate:         v.Plate,
		CapacityKg:    v.CapacityKg,
		Status:        v.Status.String(),
		StartLocation: v.StartLocation,
		LoadKg:        v.LoadKg(),
		CargoIDs:      ids,
	}
}

func missionResponse(m domain.Mission) dto.MissionResponse {
	ids := make([]int, 0, len(m.Cargo))
	for _, c := range m.Cargo {
		ids = append(ids, c.CargoID)
	}
	return dto.MissionResponse{
		ID:              m.ID,
		Plate:           m.Plate,
		SortingCenter:   m.SortingCenter,
		Status:          m.Status.String(),
		Note:            m.Note,
		StartedAt:       m.StartedAt,
		EndedAt:         m.EndedAt,
		DurationMinutes: m.Duration().Minutes(),
		CargoIDs:        ids,
		Plan:            planResponse(m.Plan),
	}
}
