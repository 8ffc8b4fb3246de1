package services

import (
	"context"
	"fmt"
	"logistics-network-service/internal/ports"
)

// LoadNetwork builds a Network from the locations and links in repo.
// Locations are registered in repository order so node ids are stable
// across loads of the same data.
func LoadNetwork(ctx context.Context, repo ports.NetworkRepository) (*Network, error) {
	locs, err := repo.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load network: list locations: %w", err)
	}
	links, err := repo.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load network: list links: %w", err)
	}

	n := NewNetwork()
	for _, loc := range locs {
		if _, err := n.AddLocation(loc); err != nil {
			return nil, fmt.Errorf("load network: %w", err)
		}
	}
	for _, l := range links {
		if err := n.AddLink(l.From, l.To, l.Minutes); err != nil {
			return nil, fmt.Errorf("load network: %w", err)
		}
	}

	return n, nil
}
