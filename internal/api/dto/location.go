package dto

type LocationRequest struct {
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	Zone           string `json:"zone"`
	Priority       int    `json:"priority"`
	DeliveryWindow int    `json:"delivery_window"`
	Handling       string `json:"handling"`
}

type LocationResponse struct {
	NodeID         int    `json:"node_id"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	Zone           string `json:"zone,omitempty"`
	Priority       int    `json:"priority,omitempty"`
	DeliveryWindow int    `json:"delivery_window,omitempty"`
	Handling       string `json:"handling"`
}

type ListLocationsResponse struct {
	Locations []LocationResponse `json:"locations"`
}

type LinkRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Minutes int    `json:"minutes"`
}

type LinkResponse struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Minutes  int    `json:"minutes"`
	Revision uint64 `json:"revision"`
}
