package dto

type RouteResponse struct {
	From         string   `json:"from"`
	To           string   `json:"to"`
	Stops        []string `json:"stops"`
	NodeIDs      []int    `json:"node_ids"`
	TotalMinutes int      `json:"total_minutes"`
}

type ReachableResponse struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Reachable bool   `json:"reachable"`
}

type TraversalResponse struct {
	Start string   `json:"start"`
	Order string   `json:"order"`
	Visit []string `json:"visit"`
}
