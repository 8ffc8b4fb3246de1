package traveltime

import (
	"context"
	"fmt"
	"logistics-network-service/internal/graph"
	"strconv"
)

type MockPair struct {
	From, To string
	Minutes  int
}

// MockTravelTimeProvider answers from a fixed table of pairs. Pairs not in
// the table are reported as unreachable.
type MockTravelTimeProvider struct {
	m     map[string]int
	Calls int
}

func NewMockTravelTimeProvider(pairs []MockPair) *MockTravelTimeProvider {
	m := make(map[string]int, len(pairs))
	for _, p := range pairs {
		m[mockKey(p.From, p.To)] = p.Minutes
	}
	return &MockTravelTimeProvider{m: m}
}

func (p *MockTravelTimeProvider) TravelMinutes(ctx context.Context, origin, destination string) (int, error) {
	p.Calls++
	if origin == destination {
		return 0, nil
	}
	m, ok := p.m[mockKey(origin, destination)]
	if !ok {
		return 0, fmt.Errorf("missing pair %q -> %q: %w", origin, destination, graph.ErrNoPath)
	}

	return m, nil
}

func mockKey(from, to string) string { return strconv.Quote(from) + "|" + strconv.Quote(to) }
