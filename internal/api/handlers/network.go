package handlers

import (
	"fmt"
	"logistics-network-service/internal/api/dto"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/graph"
	"logistics-network-service/internal/platform/obs"
	"logistics-network-service/internal/ports"
	"logistics-network-service/internal/services"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// NetworkHandler exposes the logistics network: locations, links and
// route queries. Store is optional; when set, a mutation is persisted
// first and applied in memory only once the store accepted it.
type NetworkHandler struct {
	Network *services.Network
	Store   ports.NetworkWriter
}

func (h *NetworkHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locs := h.Network.Locations()

	res := dto.ListLocationsResponse{Locations: make([]dto.LocationResponse, 0, len(locs))}
	for _, l := range locs {
		res.Locations = append(res.Locations, locationResponse(l))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *NetworkHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req dto.LocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, "create location", err)
		return
	}

	kind, err := domain.ParseLocationKind(req.Kind)
	if err != nil {
		writeServiceError(w, r, "create location", invalidInput("%v", err))
		return
	}
	handling, err := domain.ParseHandlingType(req.Handling)
	if err != nil {
		writeServiceError(w, r, "create location", invalidInput("%v", err))
		return
	}

	loc := &domain.Location{
		Name:           strings.TrimSpace(req.Name),
		Kind:           kind,
		Zone:           strings.TrimSpace(req.Zone),
		Priority:       req.Priority,
		DeliveryWindow: req.DeliveryWindow,
		Handling:       handling,
	}
	if err := loc.Validate(); err != nil {
		writeServiceError(w, r, "create location", invalidInput("%v", err))
		return
	}

	if _, err := h.Network.Location(loc.Name); err == nil {
		writeServiceError(w, r, "create location", fmt.Errorf("%q: %w", loc.Name, services.ErrDuplicateLocation))
		return
	}
	if h.Store != nil {
		if err := h.Store.SaveLocation(r.Context(), loc); err != nil {
			writeServiceError(w, r, "persist location", err)
			return
		}
	}

	added, err := h.Network.AddLocation(loc)
	if err != nil {
		writeServiceError(w, r, "create location", err)
		return
	}

	obs.FromContext(r.Context()).Info("location added", "req_id", obs.RequestID(r.Context()), "name", added.Name, "node_id", added.NodeID)
	writeJSON(w, r, http.StatusCreated, locationResponse(added))
}

func (h *NetworkHandler) PutLink(w http.ResponseWriter, r *http.Request) {
	var req dto.LinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, "put link", err)
		return
	}
	from, to := strings.TrimSpace(req.From), strings.TrimSpace(req.To)

	if _, _, err := h.Network.Link(from, to); err != nil {
		writeServiceError(w, r, "put link", err)
		return
	}
	if req.Minutes <= 0 {
		writeServiceError(w, r, "put link", fmt.Errorf("%q -> %q: %w (got %d)", from, to, graph.ErrInvalidWeight, req.Minutes))
		return
	}
	if h.Store != nil {
		if err := h.Store.SaveLink(r.Context(), ports.Link{From: from, To: to, Minutes: req.Minutes}); err != nil {
			writeServiceError(w, r, "persist link", err)
			return
		}
	}

	if err := h.Network.AddLink(from, to, req.Minutes); err != nil {
		writeServiceError(w, r, "put link", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.LinkResponse{From: from, To: to, Minutes: req.Minutes, Revision: h.Network.Revision()})
}

func (h *NetworkHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryPair(r)
	if err != nil {
		writeServiceError(w, r, "delete link", err)
		return
	}

	if _, _, err := h.Network.Link(from, to); err != nil {
		writeServiceError(w, r, "delete link", err)
		return
	}
	if h.Store != nil {
		if err := h.Store.DeleteLink(r.Context(), from, to); err != nil {
			writeServiceError(w, r, "persist link removal", err)
			return
		}
	}

	if err := h.Network.RemoveLink(from, to); err != nil {
		writeServiceError(w, r, "delete link", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *NetworkHandler) Neighbors(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	locs, err := h.Network.Neighbors(name)
	if err != nil {
		writeServiceError(w, r, "neighbors", err)
		return
	}

	res := dto.ListLocationsResponse{Locations: make([]dto.LocationResponse, 0, len(locs))}
	for _, l := range locs {
		res.Locations = append(res.Locations, locationResponse(l))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *NetworkHandler) ShortestRoute(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryPair(r)
	if err != nil {
		writeServiceError(w, r, "shortest route", err)
		return
	}

	route, err := h.Network.ShortestRoute(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, "shortest route", err)
		return
	}
	writeJSON(w, r, http.StatusOK, routeResponse(from, to, route))
}

// Path returns the route with the fewest links and its travel time.
func (h *NetworkHandler) Path(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryPair(r)
	if err != nil {
		writeServiceError(w, r, "path", err)
		return
	}

	route, err := h.Network.Path(from, to)
	if err != nil {
		writeServiceError(w, r, "path", err)
		return
	}
	writeJSON(w, r, http.StatusOK, routeResponse(from, to, route))
}

func (h *NetworkHandler) Reachable(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryPair(r)
	if err != nil {
		writeServiceError(w, r, "reachable", err)
		return
	}

	ok, err := h.Network.Reachable(from, to)
	if err != nil {
		writeServiceError(w, r, "reachable", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ReachableResponse{From: from, To: to, Reachable: ok})
}

func (h *NetworkHandler) Traverse(w http.ResponseWriter, r *http.Request) {
	start := strings.TrimSpace(r.URL.Query().Get("start"))
	if start == "" {
		writeServiceError(w, r, "traverse", invalidInput("start query parameter is required"))
		return
	}
	order := services.TraversalOrder(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("order"))))
	if order == "" {
		order = services.OrderBFS
	}

	visit, err := h.Network.Traverse(start, order)
	if err != nil {
		writeServiceError(w, r, "traverse", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.TraversalResponse{Start: start, Order: string(order), Visit: visit})
}

func locationResponse(l *domain.Location) dto.LocationResponse {
	return dto.LocationResponse{
		NodeID:         l.NodeID,
		Name:           l.Name,
		Kind:           l.Kind.String(),
		Zone:           l.Zone,
		Priority:       l.Priority,
		DeliveryWindow: l.DeliveryWindow,
		Handling:       l.Handling.String(),
	}
}

func routeResponse(from, to string, route domain.Route) dto.RouteResponse {
	return dto.RouteResponse{
		From:         from,
		To:           to,
		Stops:        route.Stops,
		NodeIDs:      route.NodeIDs,
		TotalMinutes: route.TotalMinutes,
	}
}
