package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/graph"
	"logistics-network-service/internal/platform/obs"
	"logistics-network-service/internal/ports"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	ErrUnknownVehicle     = errors.New("unknown vehicle")
	ErrDuplicateVehicle   = errors.New("duplicate vehicle")
	ErrVehicleUnavailable = errors.New("vehicle not available")
	ErrUnknownCargo       = errors.New("unknown or already dispatched cargo")
	ErrUnknownMission     = errors.New("unknown mission")
	// ErrNoQueuedVehicle reports an empty vehicle queue at a sorting center.
	ErrNoQueuedVehicle = errors.New("no vehicle queued")
	// ErrNoPendingCargo reports a sorting center with nothing left to ship.
	ErrNoPendingCargo   = errors.New("no pending cargo")
	ErrNotSortingCenter = errors.New("location is not a sorting center")
)

// Dispatcher runs the fleet at the sorting centers of a network: vehicles
// wait in per-center FIFO queues, cargo waits in per-center priority order,
// and each dispatch becomes a Mission until its outcome is recorded.
type Dispatcher struct {
	// ReturnToStart adds the leg back to the sorting center to every plan.
	ReturnToStart bool

	mu       sync.Mutex
	network  *Network
	vehicles map[string]*domain.Vehicle
	plates   []string
	queues   map[string][]string
	pending  map[string][]*domain.Cargo
	missions []*domain.Mission
	now      func() time.Time
}

func NewDispatcher(network *Network) *Dispatcher {
	return &Dispatcher{
		network:  network,
		vehicles: make(map[string]*domain.Vehicle),
		queues:   make(map[string][]string),
		pending:  make(map[string][]*domain.Cargo),
		now:      time.Now,
	}
}

// LoadCargo replaces the pending cargo with the undelivered items in repo.
func (d *Dispatcher) LoadCargo(ctx context.Context, repo ports.NetworkRepository) error {
	all, err := repo.ListCargo(ctx)
	if err != nil {
		return fmt.Errorf("load cargo: %w", err)
	}

	pending := make(map[string][]*domain.Cargo)
	for _, c := range all {
		center := strings.TrimSpace(c.SortingCenter)
		if c.DeliveredAt != nil || center == "" {
			continue
		}
		pending[center] = append(pending[center], c)
	}
	for _, items := range pending {
		sortByPriority(items)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = pending
	return nil
}

// AddVehicle registers an available vehicle based at the sorting center home.
func (d *Dispatcher) AddVehicle(plate string, capacityKg int, home string) (domain.Vehicle, error) {
	plate, home = strings.TrimSpace(plate), strings.TrimSpace(home)
	if plate == "" {
		return domain.Vehicle{}, errors.New("add vehicle: plate must be non-empty")
	}
	if capacityKg <= 0 {
		return domain.Vehicle{}, fmt.Errorf("add vehicle %s: capacity must be positive (got %d)", plate, capacityKg)
	}
	if err := d.checkCenter(home); err != nil {
		return domain.Vehicle{}, fmt.Errorf("add vehicle %s: %w", plate, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.vehicles[plate]; ok {
		return domain.Vehicle{}, fmt.Errorf("add vehicle: %q: %w", plate, ErrDuplicateVehicle)
	}
	v := domain.NewVehicle(plate, capacityKg, home)
	d.vehicles[plate] = v
	d.plates = append(d.plates, plate)
	return snapshotVehicle(v), nil
}

// Vehicles returns every registered vehicle in registration order.
func (d *Dispatcher) Vehicles() []domain.Vehicle {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]domain.Vehicle, 0, len(d.plates))
	for _, p := range d.plates {
		out = append(out, snapshotVehicle(d.vehicles[p]))
	}
	return out
}

// AddVehicleToQueue moves an available vehicle to the back of the queue of
// a sorting center. The center becomes the start of its next route.
func (d *Dispatcher) AddVehicleToQueue(plate, center string) error {
	plate, center = strings.TrimSpace(plate), strings.TrimSpace(center)
	if err := d.checkCenter(center); err != nil {
		return fmt.Errorf("queue vehicle %s: %w", plate, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.vehicle(plate)
	if err != nil {
		return fmt.Errorf("queue vehicle: %w", err)
	}
	if v.Status != domain.StatusAvailable {
		return fmt.Errorf("queue vehicle %s: %w (status %s)", plate, ErrVehicleUnavailable, v.Status)
	}

	d.dequeue(plate)
	v.StartLocation = center
	d.queues[center] = append(d.queues[center], plate)
	return nil
}

// Queue lists the plates waiting at center, next to leave first.
func (d *Dispatcher) Queue(center string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.queues[strings.TrimSpace(center)])
}

// Pending lists the cargo waiting at center in dispatch order.
func (d *Dispatcher) Pending(center string) []domain.Cargo {
	d.mu.Lock()
	defer d.mu.Unlock()

	items := d.pending[strings.TrimSpace(center)]
	out := make([]domain.Cargo, 0, len(items))
	for _, c := range items {
		out = append(out, *c)
	}
	return out
}

// AddTask dispatches vehicle plate with the single pending cargo item
// cargoID, from the vehicle's current start location.
func (d *Dispatcher) AddTask(ctx context.Context, plate string, cargoID int) (_ domain.Mission, err error) {
	defer obs.Time(ctx, "dispatcher.AddTask")(&err)

	plate = strings.TrimSpace(plate)

	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.vehicle(plate)
	if err != nil {
		return domain.Mission{}, fmt.Errorf("add task: %w", err)
	}
	if v.Status != domain.StatusAvailable {
		return domain.Mission{}, fmt.Errorf("add task %s: %w (status %s)", plate, ErrVehicleUnavailable, v.Status)
	}

	center, idx := d.findPending(cargoID)
	if idx < 0 {
		return domain.Mission{}, fmt.Errorf("add task %s: cargo %d: %w", plate, cargoID, ErrUnknownCargo)
	}
	c := d.pending[center][idx]
	if err := v.Load(c); err != nil {
		return domain.Mission{}, fmt.Errorf("add task: %w", err)
	}

	m, err := d.dispatch(ctx, v)
	if err != nil {
		v.Clear()
		return domain.Mission{}, fmt.Errorf("add task %s: %w", plate, err)
	}
	d.pending[center] = slices.Delete(d.pending[center], idx, idx+1)
	d.dequeue(plate)
	return *m, nil
}

// AddAutoTask sends the next queued vehicle at center out with as much of
// the center's pending cargo as fits, highest priority first. When nothing
// can be dispatched the vehicle keeps its place at the head of the queue.
func (d *Dispatcher) AddAutoTask(ctx context.Context, center string) (_ domain.Mission, err error) {
	defer obs.Time(ctx, "dispatcher.AddAutoTask")(&err)

	center = strings.TrimSpace(center)
	if err := d.checkCenter(center); err != nil {
		return domain.Mission{}, fmt.Errorf("add auto task: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var v *domain.Vehicle
	for len(d.queues[center]) > 0 {
		next := d.vehicles[d.queues[center][0]]
		if next.Status == domain.StatusAvailable {
			v = next
			break
		}
		d.queues[center] = d.queues[center][1:]
	}
	if v == nil {
		return domain.Mission{}, fmt.Errorf("add auto task at %q: %w", center, ErrNoQueuedVehicle)
	}
	if len(d.pending[center]) == 0 {
		return domain.Mission{}, fmt.Errorf("add auto task at %q: %w", center, ErrNoPendingCargo)
	}

	dests := make([]string, 0, len(d.pending[center]))
	for _, c := range d.pending[center] {
		dests = append(dests, c.Destination)
	}
	reachable, err := d.network.TravelMinutesMany(ctx, center, dests)
	if err != nil {
		return domain.Mission{}, fmt.Errorf("add auto task at %q: %w", center, err)
	}
	if len(reachable) == 0 {
		return domain.Mission{}, fmt.Errorf("add auto task at %q: no pending destination reachable: %w", center, graph.ErrNoPath)
	}

	// Unreachable cargo stays pending for a later change to the network.
	var rest []*domain.Cargo
	for _, c := range d.pending[center] {
		if _, ok := reachable[c.Destination]; !ok {
			rest = append(rest, c)
			continue
		}
		if err := v.Load(c); err != nil {
			rest = append(rest, c)
		}
	}
	if len(v.Cargo) == 0 {
		return domain.Mission{}, fmt.Errorf("add auto task at %q: no pending cargo fits vehicle %s (%dkg): %w",
			center, v.Plate, v.CapacityKg, domain.ErrOverCapacity)
	}

	m, err := d.dispatch(ctx, v)
	if err != nil {
		v.Clear()
		return domain.Mission{}, fmt.Errorf("add auto task at %q: %w", center, err)
	}
	d.pending[center] = rest
	d.queues[center] = d.queues[center][1:]
	return *m, nil
}

// RecordOutcome closes mission id and makes its vehicle available again.
// Cargo of a failed mission goes back to its sorting center.
func (d *Dispatcher) RecordOutcome(id int, status domain.MissionStatus, note string) (domain.Mission, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, err := d.mission(id)
	if err != nil {
		return domain.Mission{}, fmt.Errorf("record outcome: %w", err)
	}
	if err := m.Close(status, note, d.now()); err != nil {
		return domain.Mission{}, fmt.Errorf("record outcome: %w", err)
	}
	obs.Missions.WithLabelValues(status.String()).Inc()

	if v, ok := d.vehicles[m.Plate]; ok {
		v.Clear()
		v.Status = domain.StatusAvailable
	}
	if status == domain.MissionFailed {
		for _, c := range m.Cargo {
			back := *c
			back.LoadedAt, back.DeliveredAt = nil, nil
			d.pending[back.SortingCenter] = append(d.pending[back.SortingCenter], &back)
			sortByPriority(d.pending[back.SortingCenter])
		}
	}
	return *m, nil
}

// Missions returns every mission in creation order.
func (d *Dispatcher) Missions() []domain.Mission {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]domain.Mission, 0, len(d.missions))
	for _, m := range d.missions {
		out = append(out, *m)
	}
	return out
}

func (d *Dispatcher) Mission(id int) (domain.Mission, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, err := d.mission(id)
	if err != nil {
		return domain.Mission{}, err
	}
	return *m, nil
}

// dispatch plans a route for the cargo on v, stamps it and records the
// mission. v is left untouched apart from its cargo when planning fails.
func (d *Dispatcher) dispatch(ctx context.Context, v *domain.Vehicle) (*domain.Mission, error) {
	now := d.now()
	plan, err := PlanVehicleRoute(ctx, v, now, d.network, d.ReturnToStart)
	if err != nil {
		return nil, err
	}
	if err := v.ApplyPlan(plan); err != nil {
		return nil, err
	}
	v.Status = domain.StatusInTransit

	m := &domain.Mission{
		ID:            len(d.missions) + 1,
		Plate:         v.Plate,
		SortingCenter: v.StartLocation,
		Plan:          plan,
		Cargo:         slices.Clone(v.Cargo),
		Status:        domain.MissionInProgress,
		StartedAt:     now,
	}
	d.missions = append(d.missions, m)
	obs.Missions.WithLabelValues(m.Status.String()).Inc()
	obs.FromContext(ctx).Info("mission started",
		"mission_id", m.ID, "plate", m.Plate, "sorting_center", m.SortingCenter,
		"cargo", len(m.Cargo), "minutes", plan.TotalMinutes)
	return m, nil
}

func (d *Dispatcher) checkCenter(name string) error {
	loc, err := d.network.Location(name)
	if err != nil {
		return err
	}
	if loc.Kind != domain.KindSortingCenter {
		return fmt.Errorf("%q: %w", name, ErrNotSortingCenter)
	}
	return nil
}

func (d *Dispatcher) vehicle(plate string) (*domain.Vehicle, error) {
	v, ok := d.vehicles[plate]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVehicle, plate)
	}
	return v, nil
}

func (d *Dispatcher) mission(id int) (*domain.Mission, error) {
	if id < 1 || id > len(d.missions) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMission, id)
	}
	return d.missions[id-1], nil
}

// dequeue drops plate from whichever queue holds it.
func (d *Dispatcher) dequeue(plate string) {
	for center, q := range d.queues {
		if i := slices.Index(q, plate); i >= 0 {
			d.queues[center] = slices.Delete(q, i, i+1)
		}
	}
}

func (d *Dispatcher) findPending(cargoID int) (string, int) {
	for center, items := range d.pending {
		if i := slices.IndexFunc(items, func(c *domain.Cargo) bool { return c.CargoID == cargoID }); i >= 0 {
			return center, i
		}
	}
	return "", -1
}

func sortByPriority(items []*domain.Cargo) {
	slices.SortStableFunc(items, func(a, b *domain.Cargo) int {
		if a.Priority != b.Priority {
			return cmp.Compare(b.Priority, a.Priority)
		}
		return cmp.Compare(a.CargoID, b.CargoID)
	})
}

func snapshotVehicle(v *domain.Vehicle) domain.Vehicle {
	out := *v
	out.Cargo = slices.Clone(v.Cargo)
	return out
}
