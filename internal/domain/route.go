package domain

import "time"

// Route is the result of a shortest-route query between two locations.
// Stops and NodeIDs are parallel and run from origin to destination.
type Route struct {
	Stops        []string
	NodeIDs      []int
	TotalMinutes int
}

// Represents a single stop in a delivery route.
// A RouteStop corresponds to arriving at a specific destination at a computed time,
// and delivering one or more cargo items associated with that destination.
type RouteStop struct {
	Destination string
	ArriveAt    time.Time
	CargoIDs    []int
}

// Represents the planned delivery route for a single vehicle.
// A RoutePlan is the output of a routing algorithm and describes the ordered
// sequence of delivery stops, along with aggregate travel time and load.
// It is immutable planning data and contains no side effects.
type RoutePlan struct {
	Plate        string
	DepartAt     time.Time
	Stops        []RouteStop
	TotalMinutes int
	LoadKg       int
}
