package ports

import (
	"context"
	"logistics-network-service/internal/domain"
)

// Link is a directed connection between two named locations.
type Link struct {
	From    string
	To      string
	Minutes int
}

// Port: a boundary for loading the logistics network and pending cargo.
type NetworkRepository interface {
	// Retrieve all locations in registration order.
	ListLocations(ctx context.Context) ([]*domain.Location, error)
	// Retrieve all directed links.
	ListLinks(ctx context.Context) ([]Link, error)
	// Retrieve all cargo waiting for dispatch.
	ListCargo(ctx context.Context) ([]*domain.Cargo, error)
}

// Optional write side of the repository. When present, mutations made
// through the HTTP API are persisted so they survive a restart.
type NetworkWriter interface {
	SaveLocation(ctx context.Context, loc *domain.Location) error
	SaveLink(ctx context.Context, link Link) error
	DeleteLink(ctx context.Context, from, to string) error
}
