package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"logistics-network-service/internal/adapters/repositories"
	"logistics-network-service/internal/api/dto"
	"logistics-network-service/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSeed is a small directed network:
//
//	Hub -> A (5), Hub -> B (10), A -> B (3), B -> C (4),
//	A -> Hub (5), B -> Hub (7), C -> Hub (6). Island has no links.
func testSeed() repositories.Seed {
	return repositories.Seed{
		Locations: []repositories.LocationSeed{
			{Name: "Hub", Kind: "sorting_center"},
			{Name: "A", Kind: "delivery_point", Zone: "Centro", Priority: 3, DeliveryWindow: 900},
			{Name: "B", Kind: "delivery_point", Zone: "Centro", Priority: 2, DeliveryWindow: 1000},
			{Name: "C", Kind: "delivery_point", Zone: "Nord", Priority: 4, DeliveryWindow: 1100},
			{Name: "Island", Kind: "delivery_point", Zone: "Porto", Priority: 1, DeliveryWindow: 1200},
		},
		Links: []repositories.LinkSeed{
			{From: "Hub", To: "A", Minutes: 5},
			{From: "Hub", To: "B", Minutes: 10},
			{From: "A", To: "B", Minutes: 3},
			{From: "B", To: "C", Minutes: 4},
			{From: "A", To: "Hub", Minutes: 5},
			{From: "B", To: "Hub", Minutes: 7},
			{From: "C", To: "Hub", Minutes: 6},
		},
		Cargo: []repositories.CargoSeed{
			{CargoID: 1, WeightKg: 10, Destination: "A", Priority: 3, SortingCenter: "Hub"},
			{CargoID: 2, WeightKg: 20, Destination: "C", Priority: 4, SortingCenter: "Hub"},
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *services.Network) {
	t.Helper()

	repo := repositories.NewSeedRepository(testSeed())
	network, err := services.LoadNetwork(context.Background(), repo)
	require.NoError(t, err)

	router := NewRouter(Deps{
		Network:              network,
		Repo:                 repo,
		DefaultSortingCenter: "Hub",
		Logger:               log.New(io.Discard),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, network
}

func getJSON(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()

	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func sendJSON(t *testing.T, srv *httptest.Server, method, path, body string, out any) int {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 5, body["locations"])
	assert.EqualValues(t, 7, body["links"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "trace-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "trace-123", resp.Header.Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	getJSON(t, srv, "/health", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(b), "logistics_http_requests_total")
}

func TestShortestRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	var route dto.RouteResponse
	status := getJSON(t, srv, "/routes/shortest?from=Hub&to=C", &route)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Hub", "A", "B", "C"}, route.Stops)
	assert.Equal(t, []int{0, 1, 2, 3}, route.NodeIDs)
	assert.Equal(t, 12, route.TotalMinutes)
}

func TestHopPathIsNotShortest(t *testing.T) {
	srv, _ := newTestServer(t)

	var route dto.RouteResponse
	status := getJSON(t, srv, "/routes/path?from=Hub&to=C", &route)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Hub", "B", "C"}, route.Stops)
	assert.Equal(t, 14, route.TotalMinutes)
}

func TestRouteErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"unreachable", "/routes/shortest?from=Hub&to=Island", http.StatusNotFound},
		{"unknown origin", "/routes/shortest?from=Nowhere&to=A", http.StatusNotFound},
		{"missing params", "/routes/shortest?from=Hub", http.StatusBadRequest},
		{"hop path unreachable", "/routes/path?from=Island&to=Hub", http.StatusNotFound},
		{"bad traversal order", "/traversals?start=Hub&order=zigzag", http.StatusBadRequest},
		{"traversal without start", "/traversals", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body map[string]string
			status := getJSON(t, srv, tc.path, &body)
			assert.Equal(t, tc.want, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestReachable(t *testing.T) {
	srv, _ := newTestServer(t)

	var res dto.ReachableResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/routes/reachable?from=C&to=B", &res))
	assert.True(t, res.Reachable)

	require.Equal(t, http.StatusOK, getJSON(t, srv, "/routes/reachable?from=Hub&to=Island", &res))
	assert.False(t, res.Reachable)
}

func TestTraversals(t *testing.T) {
	srv, _ := newTestServer(t)

	var res dto.TraversalResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/traversals?start=B&order=dfs", &res))
	assert.Equal(t, []string{"B", "Hub", "A", "C"}, res.Visit)

	require.Equal(t, http.StatusOK, getJSON(t, srv, "/traversals?start=B&order=bfs", &res))
	assert.Equal(t, []string{"B", "Hub", "C", "A"}, res.Visit)

	require.Equal(t, http.StatusOK, getJSON(t, srv, "/traversals?start=Island", &res))
	assert.Equal(t, "bfs", res.Order)
	assert.Equal(t, []string{"Island"}, res.Visit)
}

func TestNeighbors(t *testing.T) {
	srv, _ := newTestServer(t)

	var res dto.ListLocationsResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/locations/Hub/neighbors", &res))
	require.Len(t, res.Locations, 2)
	assert.Equal(t, "A", res.Locations[0].Name)
	assert.Equal(t, "B", res.Locations[1].Name)

	var body map[string]string
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv, "/locations/Nowhere/neighbors", &body))
}

func TestLocationsAndLinks(t *testing.T) {
	srv, network := newTestServer(t)

	var created dto.LocationResponse
	status := sendJSON(t, srv, http.MethodPost, "/locations",
		`{"name":"D","kind":"delivery_point","zone":"Sud","priority":2,"delivery_window":1430,"handling":"fragile"}`, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 5, created.NodeID)
	assert.Equal(t, "fragile", created.Handling)

	var body map[string]string
	assert.Equal(t, http.StatusConflict, sendJSON(t, srv, http.MethodPost, "/locations",
		`{"name":"D","kind":"delivery_point","zone":"Sud","priority":2}`, &body))
	assert.Equal(t, http.StatusBadRequest, sendJSON(t, srv, http.MethodPost, "/locations",
		`{"name":"E","kind":"delivery_point","zone":"Sud","priority":9}`, &body))
	assert.Equal(t, http.StatusBadRequest, sendJSON(t, srv, http.MethodPost, "/locations",
		`{"name":"E","kind":"castle"}`, &body))
	assert.Equal(t, http.StatusBadRequest, sendJSON(t, srv, http.MethodPost, "/locations",
		`{"name":"E","unknown":true}`, &body))

	rev := network.Revision()
	var link dto.LinkResponse
	require.Equal(t, http.StatusOK, sendJSON(t, srv, http.MethodPost, "/links", `{"from":"Hub","to":"C","minutes":2}`, &link))
	assert.Greater(t, link.Revision, rev)

	assert.Equal(t, http.StatusBadRequest, sendJSON(t, srv, http.MethodPost, "/links", `{"from":"Hub","to":"D","minutes":0}`, &body))
	assert.Equal(t, http.StatusNotFound, sendJSON(t, srv, http.MethodPost, "/links", `{"from":"Hub","to":"Nowhere","minutes":3}`, &body))

	var route dto.RouteResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/routes/shortest?from=Hub&to=C", &route))
	assert.Equal(t, []string{"Hub", "C"}, route.Stops)
	assert.Equal(t, 2, route.TotalMinutes)

	assert.Equal(t, http.StatusNoContent, sendJSON(t, srv, http.MethodDelete, "/links?from=Hub&to=C", "", nil))
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/routes/shortest?from=Hub&to=C", &route))
	assert.Equal(t, 12, route.TotalMinutes)

	var list dto.ListLocationsResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv, "/locations", &list))
	require.Len(t, list.Locations, 6)
	assert.Equal(t, "D", list.Locations[5].Name)
}

func TestPlans(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"vehicles":[{"plate":"VCL-101","capacity_kg":100}],"depart_at":"2026-03-02T08:00:00Z"}`
	var res dto.ListPlanResponse
	require.Equal(t, http.StatusOK, sendJSON(t, srv, http.MethodPost, "/plans", body, &res))

	require.Len(t, res.Plans, 1)
	plan := res.Plans[0]
	assert.Equal(t, "VCL-101", plan.Plate)
	assert.Equal(t, 12, plan.TotalMinutes)
	assert.Equal(t, 30, plan.LoadKg)
	require.Len(t, plan.Stops, 2)
	assert.Equal(t, "A", plan.Stops[0].Destination)
	assert.Equal(t, []int{1}, plan.Stops[0].CargoIDs)
	assert.Equal(t, "C", plan.Stops[1].Destination)
	assert.Equal(t, "2026-03-02T08:12:00Z", plan.Stops[1].ArriveAt.UTC().Format("2006-01-02T15:04:05Z07:00"))

	body = `{"vehicles":[{"plate":"VCL-101","capacity_kg":100}],"depart_at":"2026-03-02T08:00:00Z","return_to_start":true}`
	require.Equal(t, http.StatusOK, sendJSON(t, srv, http.MethodPost, "/plans", body, &res))
	assert.Equal(t, 18, res.Plans[0].TotalMinutes)
}

func TestPlansRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"over capacity", `{"vehicles":[{"plate":"VCL-1","capacity_kg":15}]}`, http.StatusBadRequest},
		{"too many vehicles", `{"vehicle_count":11}`, http.StatusBadRequest},
		{"duplicate plates", `{"vehicles":[{"plate":"X","capacity_kg":50},{"plate":"X","capacity_kg":50}]}`, http.StatusBadRequest},
		{"zero capacity", `{"vehicles":[{"plate":"X","capacity_kg":0}]}`, http.StatusBadRequest},
		{"trailing data", `{} {}`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/plans", "application/json", bytes.NewBufferString(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
