package services

import (
	"logistics-network-service/internal/domain"
)

// Statistics summarizes the fleet and its missions.
type Statistics struct {
	Vehicles       int
	Cargo          int
	PendingCargo   int
	Missions       int
	Zones          int
	SortingCenters int

	MissionsByStatus map[domain.MissionStatus]int
	// AvgDeliveryMinutes is the mean time from loading to delivery of the
	// cargo in completed missions, per handling type.
	AvgDeliveryMinutes map[domain.HandlingType]float64
	// AvgLoadPerVehicleKg spreads the weight of every mission that did not
	// fail over all registered vehicles.
	AvgLoadPerVehicleKg float64
	// DeliveriesByZone counts cargo delivered by completed missions.
	DeliveriesByZone map[string]int
}

// Statistics computes a snapshot over the current vehicles, cargo and missions.
func (d *Dispatcher) Statistics() Statistics {
	zoneOf := make(map[string]string)
	zones := make(map[string]int)
	centers := 0
	for _, l := range d.network.Locations() {
		switch l.Kind {
		case domain.KindSortingCenter:
			centers++
		case domain.KindDeliveryPoint:
			zoneOf[l.Name] = l.Zone
			zones[l.Zone] = 0
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	st := Statistics{
		Vehicles:         len(d.vehicles),
		Missions:         len(d.missions),
		Zones:            len(zones),
		SortingCenters:   centers,
		MissionsByStatus: make(map[domain.MissionStatus]int),
		AvgDeliveryMinutes: map[domain.HandlingType]float64{
			domain.HandlingStandard:     0,
			domain.HandlingRefrigerated: 0,
			domain.HandlingFragile:      0,
		},
		DeliveriesByZone: zones,
	}
	for _, items := range d.pending {
		st.PendingCargo += len(items)
	}
	st.Cargo = st.PendingCargo

	deliveries := make(map[domain.HandlingType]int)
	loadKg := 0
	for _, m := range d.missions {
		st.MissionsByStatus[m.Status]++
		if m.Status == domain.MissionFailed {
			continue
		}
		st.Cargo += len(m.Cargo)
		loadKg += m.Plan.LoadKg

		if m.Status != domain.MissionCompleted {
			continue
		}
		for _, c := range m.Cargo {
			if zone, ok := zoneOf[c.Destination]; ok {
				st.DeliveriesByZone[zone]++
			}
			if c.LoadedAt == nil || c.DeliveredAt == nil {
				continue
			}
			st.AvgDeliveryMinutes[c.Handling] += c.DeliveredAt.Sub(*c.LoadedAt).Minutes()
			deliveries[c.Handling]++
		}
	}

	for h, n := range deliveries {
		st.AvgDeliveryMinutes[h] /= float64(n)
	}
	if st.Vehicles > 0 {
		st.AvgLoadPerVehicleKg = float64(loadKg) / float64(st.Vehicles)
	}
	return st
}
