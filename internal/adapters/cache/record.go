package cache

import (
	"encoding/json"
	"fmt"
	"logistics-network-service/internal/domain"
)

// routeRecord is the serialized form of a cached route.
type routeRecord struct {
	Stops        []string `json:"stops"`
	NodeIDs      []int    `json:"node_ids"`
	TotalMinutes int      `json:"total_minutes"`
}

func encodeRoute(r domain.Route) ([]byte, error) {
	b, err := json.Marshal(routeRecord{Stops: r.Stops, NodeIDs: r.NodeIDs, TotalMinutes: r.TotalMinutes})
	if err != nil {
		return nil, fmt.Errorf("encode route: %w", err)
	}
	return b, nil
}

func decodeRoute(b []byte) (domain.Route, error) {
	var rec routeRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.Route{}, fmt.Errorf("decode route: %w", err)
	}
	return domain.Route{Stops: rec.Stops, NodeIDs: rec.NodeIDs, TotalMinutes: rec.TotalMinutes}, nil
}
