package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"logistics-network-service/internal/api/dto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedTOML = `
[[locations]]
name = "Hub"
kind = "sorting_center"

[[locations]]
name = "A"
kind = "delivery_point"
zone = "Centro"
priority = 3

[[locations]]
name = "B"
kind = "delivery_point"
zone = "Centro"
priority = 2

[[locations]]
name = "C"
kind = "delivery_point"
zone = "Nord"
priority = 4

[[links]]
from = "Hub"
to = "A"
minutes = 5

[[links]]
from = "Hub"
to = "B"
minutes = 10

[[links]]
from = "A"
to = "B"
minutes = 3

[[links]]
from = "B"
to = "C"
minutes = 4

[[cargo]]
cargo_id = 1
weight_kg = 10
destination = "A"
priority = 3
sorting_center = "Hub"

[[cargo]]
cargo_id = 2
weight_kg = 20
destination = "C"
priority = 4
sorting_center = "Hub"
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "network.toml")
	require.NoError(t, os.WriteFile(path, []byte(seedTOML), 0o644))

	var out bytes.Buffer
	root := NewRootCommand(&out)
	root.SetArgs(append([]string{"--seed", path}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoute(t *testing.T) {
	out, err := run(t, "route", "Hub", "C")
	require.NoError(t, err)
	assert.Equal(t, "Hub -> A -> B -> C (12 min)\n", out)
}

func TestRouteJSON(t *testing.T) {
	out, err := run(t, "--json", "route", "Hub", "C")
	require.NoError(t, err)

	var res dto.RouteResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []int{0, 1, 2, 3}, res.NodeIDs)
	assert.Equal(t, 12, res.TotalMinutes)
}

func TestPath(t *testing.T) {
	out, err := run(t, "path", "Hub", "C")
	require.NoError(t, err)
	assert.Equal(t, "Hub -> B -> C (2 links, 14 min)\n", out)
}

func TestTraverse(t *testing.T) {
	out, err := run(t, "traverse", "--order", "dfs", "Hub")
	require.NoError(t, err)
	assert.Equal(t, "Hub\nA\nB\nC\n", out)

	_, err = run(t, "traverse", "--order", "sideways", "Hub")
	assert.Error(t, err)
}

func TestNeighbors(t *testing.T) {
	out, err := run(t, "neighbors", "Hub")
	require.NoError(t, err)
	assert.Equal(t, "A\t5 min\nB\t10 min\n", out)
}

func TestReachable(t *testing.T) {
	out, err := run(t, "reachable", "C", "Hub")
	require.NoError(t, err)
	assert.Equal(t, "unreachable\n", out)

	_, err = run(t, "reachable", "Hub", "Nowhere")
	assert.Error(t, err)
}

func TestMissingSeed(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCommand(&out)
	root.SetArgs([]string{"--seed", filepath.Join(t.TempDir(), "missing.json"), "locations"})
	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestPlan(t *testing.T) {
	out, err := run(t, "plan", "Hub", "--plate", "VAN-1", "--capacity", "50")
	require.NoError(t, err)
	assert.Equal(t, "VAN-1 from Hub: A -> C (12 min, 30 kg)\n", out)

	// Only the higher priority item fits.
	out, err = run(t, "plan", "Hub", "--capacity", "25")
	require.NoError(t, err)
	assert.Equal(t, "VCL-001 from Hub: C (12 min, 20 kg)\n", out)
}

func TestPlanJSON(t *testing.T) {
	out, err := run(t, "--json", "plan", "Hub")
	require.NoError(t, err)

	var res dto.PlanResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "VCL-001", res.Plate)
	assert.Equal(t, 12, res.TotalMinutes)
	require.Len(t, res.Stops, 2)
	assert.Equal(t, []int{1}, res.Stops[0].CargoIDs)
	assert.Equal(t, []int{2}, res.Stops[1].CargoIDs)
}

func TestPlanErrors(t *testing.T) {
	// No link leads back from C to Hub.
	_, err := run(t, "plan", "Hub", "--return")
	assert.Error(t, err)

	_, err = run(t, "plan", "A")
	assert.Error(t, err)

	_, err = run(t, "plan", "Hub", "--capacity", "5")
	assert.Error(t, err)
}
