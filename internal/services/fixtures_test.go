package services

import (
	"context"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/ports"
	"testing"
)

// memRepository is an in-memory NetworkRepository for tests.
type memRepository struct {
	locations []*domain.Location
	links     []ports.Link
	cargo     []*domain.Cargo
}

func (m *memRepository) ListLocations(ctx context.Context) ([]*domain.Location, error) {
	out := make([]*domain.Location, 0, len(m.locations))
	for _, l := range m.locations {
		c := *l
		out = append(out, &c)
	}
	return out, nil
}

func (m *memRepository) ListLinks(ctx context.Context) ([]ports.Link, error) {
	return append([]ports.Link(nil), m.links...), nil
}

func (m *memRepository) ListCargo(ctx context.Context) ([]*domain.Cargo, error) {
	out := make([]*domain.Cargo, 0, len(m.cargo))
	for _, c := range m.cargo {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

const (
	hub         = "Centro Principale"
	farmacia    = "Farmacia Centrale"
	hotel       = "Hotel Roma"
	magazzino   = "Magazzino Tech"
	villa       = "Villa Verde"
	supermarket = "Supermercato Sigma"
	porto       = "Porto Nord"
)

// sampleRepository holds a small metropolitan network:
//
//	hub -> farmacia (3), hub -> magazzino (12)
//	farmacia -> hotel (5), farmacia -> villa (25)
//	hotel -> magazzino (15), magazzino -> villa (20)
//	villa -> supermarket (10), supermarket -> hub (8)
//
// porto has no links at all.
func sampleRepository() *memRepository {
	dp := func(name, zone string, priority, window int, h domain.HandlingType) *domain.Location {
		return &domain.Location{
			Name: name, Kind: domain.KindDeliveryPoint, Zone: zone,
			Priority: priority, DeliveryWindow: window, Handling: h,
		}
	}

	return &memRepository{
		locations: []*domain.Location{
			{Name: hub, Kind: domain.KindSortingCenter},
			dp(farmacia, "Centro Storico", 4, 900, domain.HandlingFragile),
			dp(hotel, "Centro Storico", 3, 1000, domain.HandlingStandard),
			dp(magazzino, "Zona Industriale", 2, 1100, domain.HandlingRefrigerated),
			dp(villa, "Periferia Nord", 5, 830, domain.HandlingStandard),
			dp(supermarket, "Periferia Nord", 1, 1030, domain.HandlingRefrigerated),
			dp(porto, "Periferia Nord", 1, 1200, domain.HandlingStandard),
		},
		links: []ports.Link{
			{From: farmacia, To: hotel, Minutes: 5},
			{From: hotel, To: magazzino, Minutes: 15},
			{From: magazzino, To: villa, Minutes: 20},
			{From: villa, To: supermarket, Minutes: 10},
			{From: farmacia, To: villa, Minutes: 25},
			{From: hub, To: farmacia, Minutes: 3},
			{From: hub, To: magazzino, Minutes: 12},
			{From: supermarket, To: hub, Minutes: 8},
		},
		cargo: []*domain.Cargo{
			{CargoID: 1, WeightKg: 20, Handling: domain.HandlingStandard, Destination: hotel, Priority: 3, SortingCenter: hub},
			{CargoID: 2, WeightKg: 15, Handling: domain.HandlingFragile, Destination: farmacia, Priority: 4, SortingCenter: hub},
			{CargoID: 3, WeightKg: 30, Handling: domain.HandlingRefrigerated, Destination: magazzino, Priority: 2, SortingCenter: hub},
			{CargoID: 4, WeightKg: 10, Handling: domain.HandlingStandard, Destination: villa, Priority: 5, SortingCenter: hub},
			{CargoID: 5, WeightKg: 25, Handling: domain.HandlingRefrigerated, Destination: supermarket, Priority: 1, SortingCenter: hub},
		},
	}
}

func sampleNetwork(t *testing.T) *Network {
	t.Helper()

	n, err := LoadNetwork(context.Background(), sampleRepository())
	if err != nil {
		t.Fatalf("load sample network: %v", err)
	}
	return n
}
