package services

import (
	"context"
	"errors"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/graph"
	"maps"
	"slices"
	"testing"
	"time"
)

var dispatchStart = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

func newTestDispatcher(t *testing.T, repo *memRepository) *Dispatcher {
	t.Helper()

	n, err := LoadNetwork(context.Background(), repo)
	if err != nil {
		t.Fatalf("load network: %v", err)
	}
	d := NewDispatcher(n)
	d.now = func() time.Time { return dispatchStart }
	if err := d.LoadCargo(context.Background(), repo); err != nil {
		t.Fatalf("load cargo: %v", err)
	}
	return d
}

func pendingIDs(d *Dispatcher, center string) []int {
	var ids []int
	for _, c := range d.Pending(center) {
		ids = append(ids, c.CargoID)
	}
	return ids
}

func missionCargoIDs(m domain.Mission) []int {
	var ids []int
	for _, c := range m.Cargo {
		ids = append(ids, c.CargoID)
	}
	return ids
}

func TestDispatcherPendingByPriority(t *testing.T) {
	d := newTestDispatcher(t, sampleRepository())

	if got, want := pendingIDs(d, hub), []int{4, 2, 1, 3, 5}; !slices.Equal(got, want) {
		t.Fatalf("pending = %v, want %v", got, want)
	}
}

func TestDispatcherAutoTask(t *testing.T) {
	d := newTestDispatcher(t, sampleRepository())
	ctx := context.Background()

	if _, err := d.AddVehicle("VCL-001", 50, hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.AddVehicleToQueue("VCL-001", hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, err := d.AddAutoTask(ctx, hub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Highest priority first while the 50kg capacity lasts: 10 + 15 + 20.
	if got, want := missionCargoIDs(m), []int{4, 2, 1}; !slices.Equal(got, want) {
		t.Errorf("mission cargo = %v, want %v", got, want)
	}
	if m.ID != 1 || m.Status != domain.MissionInProgress || !m.StartedAt.Equal(dispatchStart) {
		t.Errorf("mission = %+v", m)
	}

	var stops []string
	for _, s := range m.Plan.Stops {
		stops = append(stops, s.Destination)
	}
	if want := []string{farmacia, hotel, villa}; !slices.Equal(stops, want) {
		t.Errorf("stops = %v, want %v", stops, want)
	}
	if m.Plan.TotalMinutes != 43 || m.Plan.LoadKg != 45 {
		t.Errorf("plan minutes=%d load=%d, want 43 and 45", m.Plan.TotalMinutes, m.Plan.LoadKg)
	}

	// The plan was applied to the cargo carried.
	for _, c := range m.Cargo {
		if c.LoadedAt == nil || !c.LoadedAt.Equal(dispatchStart) || c.DeliveredAt == nil {
			t.Errorf("cargo %d timestamps not stamped: %+v", c.CargoID, c)
		}
	}

	if got, want := pendingIDs(d, hub), []int{3, 5}; !slices.Equal(got, want) {
		t.Errorf("pending = %v, want %v", got, want)
	}
	if q := d.Queue(hub); len(q) != 0 {
		t.Errorf("queue = %v, want empty", q)
	}
	if v := d.Vehicles()[0]; v.Status != domain.StatusInTransit {
		t.Errorf("vehicle status = %s, want in_transit", v.Status)
	}

	if _, err := d.AddAutoTask(ctx, hub); !errors.Is(err, ErrNoQueuedVehicle) {
		t.Fatalf("err = %v, want ErrNoQueuedVehicle", err)
	}
	if err := d.AddVehicleToQueue("VCL-001", hub); !errors.Is(err, ErrVehicleUnavailable) {
		t.Fatalf("err = %v, want ErrVehicleUnavailable", err)
	}
}

func TestDispatcherRecordOutcome(t *testing.T) {
	d := newTestDispatcher(t, sampleRepository())
	ctx := context.Background()

	if _, err := d.AddVehicle("VCL-001", 50, hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.AddVehicleToQueue("VCL-001", hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := d.AddAutoTask(ctx, hub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	closed, err := d.RecordOutcome(first.ID, domain.MissionCompleted, "tutto consegnato")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed.Status != domain.MissionCompleted || closed.Note != "tutto consegnato" || closed.EndedAt == nil {
		t.Errorf("closed mission = %+v", closed)
	}
	if v := d.Vehicles()[0]; v.Status != domain.StatusAvailable || len(v.Cargo) != 0 {
		t.Errorf("vehicle after outcome = %+v", v)
	}
	if _, err := d.RecordOutcome(first.ID, domain.MissionFailed, ""); !errors.Is(err, domain.ErrMissionClosed) {
		t.Fatalf("err = %v, want ErrMissionClosed", err)
	}
	if _, err := d.RecordOutcome(99, domain.MissionCompleted, ""); !errors.Is(err, ErrUnknownMission) {
		t.Fatalf("err = %v, want ErrUnknownMission", err)
	}

	// Second trip takes magazzino (30kg); supermarket (25kg) no longer fits.
	if err := d.AddVehicleToQueue("VCL-001", hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := d.AddAutoTask(ctx, hub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := missionCargoIDs(second); !slices.Equal(got, []int{3}) {
		t.Fatalf("second mission cargo = %v, want [3]", got)
	}

	// A failed mission puts its cargo back in priority order, unstamped.
	if _, err := d.RecordOutcome(second.ID, domain.MissionFailed, "strada chiusa"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pending := d.Pending(hub)
	if got := pendingIDs(d, hub); !slices.Equal(got, []int{3, 5}) {
		t.Fatalf("pending = %v, want [3 5]", got)
	}
	if pending[0].LoadedAt != nil || pending[0].DeliveredAt != nil {
		t.Errorf("returned cargo keeps timestamps: %+v", pending[0])
	}

	missions := d.Missions()
	if len(missions) != 2 || missions[1].Status != domain.MissionFailed {
		t.Errorf("missions = %+v", missions)
	}
}

func TestDispatcherAddTask(t *testing.T) {
	d := newTestDispatcher(t, sampleRepository())
	ctx := context.Background()

	if _, err := d.AddVehicle("VCL-002", 100, hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := d.AddVehicle("VCL-003", 10, hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.AddVehicleToQueue("VCL-002", hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, err := d.AddTask(ctx, "VCL-002", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// hub -> farmacia -> villa -> supermarket
	if m.Plan.TotalMinutes != 38 || len(m.Plan.Stops) != 1 || m.Plan.Stops[0].Destination != supermarket {
		t.Errorf("plan = %+v", m.Plan)
	}
	if q := d.Queue(hub); len(q) != 0 {
		t.Errorf("dispatched vehicle still queued: %v", q)
	}

	tests := []struct {
		name  string
		plate string
		cargo int
		want  error
	}{
		{"in transit", "VCL-002", 1, ErrVehicleUnavailable},
		{"already dispatched", "VCL-003", 5, ErrUnknownCargo},
		{"over capacity", "VCL-003", 3, domain.ErrOverCapacity},
		{"unknown vehicle", "VCL-404", 1, ErrUnknownVehicle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.AddTask(ctx, tt.plate, tt.cargo); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if v := d.Vehicles()[1]; len(v.Cargo) != 0 || v.Status != domain.StatusAvailable {
		t.Errorf("rejected task changed vehicle: %+v", v)
	}
}

func TestDispatcherAutoTaskNothingToShip(t *testing.T) {
	repo := sampleRepository()
	repo.cargo = []*domain.Cargo{
		{CargoID: 6, WeightKg: 5, Destination: porto, Priority: 5, SortingCenter: hub},
	}
	d := newTestDispatcher(t, repo)
	ctx := context.Background()

	if _, err := d.AddVehicle("VCL-001", 3, hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.AddVehicleToQueue("VCL-001", hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := d.AddAutoTask(ctx, hub); !errors.Is(err, graph.ErrNoPath) {
		t.Fatalf("err = %v, want ErrNoPath", err)
	}

	d.pending[hub] = []*domain.Cargo{
		{CargoID: 7, WeightKg: 5, Destination: hotel, Priority: 1, SortingCenter: hub},
	}
	if _, err := d.AddAutoTask(ctx, hub); !errors.Is(err, domain.ErrOverCapacity) {
		t.Fatalf("err = %v, want ErrOverCapacity", err)
	}

	d.pending[hub] = nil
	if _, err := d.AddAutoTask(ctx, hub); !errors.Is(err, ErrNoPendingCargo) {
		t.Fatalf("err = %v, want ErrNoPendingCargo", err)
	}

	if q := d.Queue(hub); !slices.Equal(q, []string{"VCL-001"}) {
		t.Errorf("queue = %v, want the vehicle still queued", q)
	}
	if v := d.Vehicles()[0]; len(v.Cargo) != 0 {
		t.Errorf("vehicle kept cargo after failed dispatch: %+v", v)
	}
}

func TestDispatcherQueueValidation(t *testing.T) {
	d := newTestDispatcher(t, sampleRepository())

	if _, err := d.AddVehicle("VCL-001", 50, farmacia); !errors.Is(err, ErrNotSortingCenter) {
		t.Fatalf("err = %v, want ErrNotSortingCenter", err)
	}
	if _, err := d.AddVehicle("VCL-001", 50, hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := d.AddVehicle(" VCL-001 ", 20, hub); !errors.Is(err, ErrDuplicateVehicle) {
		t.Fatalf("err = %v, want ErrDuplicateVehicle", err)
	}
	if _, err := d.AddVehicle("VCL-002", 0, hub); err == nil {
		t.Fatal("expected error for zero capacity")
	}

	if err := d.AddVehicleToQueue("VCL-001", "Nowhere"); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("err = %v, want ErrUnknownLocation", err)
	}
	if err := d.AddVehicleToQueue("VCL-404", hub); !errors.Is(err, ErrUnknownVehicle) {
		t.Fatalf("err = %v, want ErrUnknownVehicle", err)
	}

	// Queueing twice keeps one entry at the back.
	if _, err := d.AddVehicle("VCL-002", 50, hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range []string{"VCL-001", "VCL-002", "VCL-001"} {
		if err := d.AddVehicleToQueue(p, hub); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if q := d.Queue(hub); !slices.Equal(q, []string{"VCL-002", "VCL-001"}) {
		t.Errorf("queue = %v, want [VCL-002 VCL-001]", q)
	}
}

func TestDispatcherStatistics(t *testing.T) {
	d := newTestDispatcher(t, sampleRepository())
	ctx := context.Background()

	if _, err := d.AddVehicle("VCL-001", 50, hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.AddVehicleToQueue("VCL-001", hub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, err := d.AddAutoTask(ctx, hub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := d.Statistics()
	if st.MissionsByStatus[domain.MissionInProgress] != 1 || st.DeliveriesByZone["Centro Storico"] != 0 {
		t.Errorf("in-progress stats = %+v", st)
	}

	if _, err := d.RecordOutcome(m.ID, domain.MissionCompleted, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st = d.Statistics()

	if st.Vehicles != 1 || st.Missions != 1 || st.Cargo != 5 || st.PendingCargo != 2 {
		t.Errorf("counts = %+v", st)
	}
	if st.Zones != 3 || st.SortingCenters != 1 {
		t.Errorf("zones=%d centers=%d, want 3 and 1", st.Zones, st.SortingCenters)
	}
	if st.MissionsByStatus[domain.MissionCompleted] != 1 {
		t.Errorf("by status = %v", st.MissionsByStatus)
	}

	// hotel at +8 and villa at +43 are standard, farmacia at +3 is fragile.
	wantAvg := map[domain.HandlingType]float64{
		domain.HandlingStandard:     25.5,
		domain.HandlingRefrigerated: 0,
		domain.HandlingFragile:      3,
	}
	if !maps.Equal(st.AvgDeliveryMinutes, wantAvg) {
		t.Errorf("avg delivery minutes = %v, want %v", st.AvgDeliveryMinutes, wantAvg)
	}
	if st.AvgLoadPerVehicleKg != 45 {
		t.Errorf("avg load = %v, want 45", st.AvgLoadPerVehicleKg)
	}

	wantZones := map[string]int{"Centro Storico": 2, "Periferia Nord": 1, "Zona Industriale": 0}
	if !maps.Equal(st.DeliveriesByZone, wantZones) {
		t.Errorf("deliveries by zone = %v, want %v", st.DeliveriesByZone, wantZones)
	}
}
