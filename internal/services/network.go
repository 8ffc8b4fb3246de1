package services

import (
	"context"
	"errors"
	"fmt"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/graph"
	"logistics-network-service/internal/platform/obs"
	"logistics-network-service/internal/ports"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrUnknownLocation reports a name that is not registered in the network.
	ErrUnknownLocation = errors.New("unknown location")
	// ErrDuplicateLocation reports a second registration of the same name.
	ErrDuplicateLocation = errors.New("duplicate location")
	// ErrInvalidTraversal reports a traversal order other than dfs or bfs.
	ErrInvalidTraversal = errors.New("invalid traversal order")
)

// TraversalOrder selects depth-first or breadth-first visiting in Traverse.
type TraversalOrder string

const (
	OrderDFS TraversalOrder = "dfs"
	OrderBFS TraversalOrder = "bfs"
)

// Network is the logistics network: named locations connected by directed
// links weighted in travel minutes.
//
// The underlying graph does no locking of its own; Network serializes
// mutations and lets queries run concurrently under a read lock.
type Network struct {
	mu       sync.RWMutex
	g        *graph.Graph[*domain.Location]
	byName   map[string]graph.NodeID
	epoch    string
	revision uint64
	cache    ports.RouteCache
}

// NewNetwork returns an empty network with a fresh cache epoch.
func NewNetwork() *Network {
	return &Network{
		g:      graph.New[*domain.Location](),
		byName: make(map[string]graph.NodeID),
		epoch:  uuid.NewString(),
	}
}

// SetRouteCache installs a cache consulted by ShortestRoute. Nil disables caching.
func (n *Network) SetRouteCache(c ports.RouteCache) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cache = c
}

// Revision increases on every mutation of the network.
func (n *Network) Revision() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.revision
}

// Size is the number of registered locations.
func (n *Network) Size() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.g.Size()
}

// LinkCount is the number of directed links.
func (n *Network) LinkCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.g.EdgeCount()
}

// AddLocation registers loc as a new node and sets loc.NodeID.
// The network keeps a reference to loc; it must not be mutated afterwards.
func (n *Network) AddLocation(loc *domain.Location) (*domain.Location, error) {
	if loc == nil {
		return nil, errors.New("add location: location must be non-nil")
	}
	loc.Name = strings.TrimSpace(loc.Name)
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("add location: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.byName[loc.Name]; ok {
		return nil, fmt.Errorf("add location: %q: %w", loc.Name, ErrDuplicateLocation)
	}

	loc.NodeID = n.g.AddNode(loc.Priority, loc)
	n.byName[loc.Name] = loc.NodeID
	n.revision++
	return loc, nil
}

func (n *Network) Location(name string) (*domain.Location, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	id, err := n.lookup(name)
	if err != nil {
		return nil, err
	}
	return n.g.NodeData(id)
}

// Locations returns every location in registration order.
func (n *Network) Locations() []*domain.Location {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]*domain.Location, 0, n.g.Size())
	for id := 0; id < n.g.Size(); id++ {
		loc, _ := n.g.NodeData(id)
		out = append(out, loc)
	}
	return out
}

// AddLink sets the travel time of the directed link from → to.
func (n *Network) AddLink(from, to string, minutes int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	src, dst, err := n.lookupPair(from, to)
	if err != nil {
		return fmt.Errorf("add link: %w", err)
	}
	if err := n.g.AddEdge(src, dst, minutes); err != nil {
		return fmt.Errorf("add link %q -> %q: %w", from, to, err)
	}
	n.revision++
	return nil
}

// RemoveLink deletes the link from → to. Removing an absent link succeeds.
func (n *Network) RemoveLink(from, to string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	src, dst, err := n.lookupPair(from, to)
	if err != nil {
		return fmt.Errorf("remove link: %w", err)
	}
	if err := n.g.RemoveEdge(src, dst); err != nil {
		return fmt.Errorf("remove link %q -> %q: %w", from, to, err)
	}
	n.revision++
	return nil
}

// Link returns the travel minutes of from → to and whether the link exists.
func (n *Network) Link(from, to string) (int, bool, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	src, dst, err := n.lookupPair(from, to)
	if err != nil {
		return 0, false, fmt.Errorf("link: %w", err)
	}
	return n.g.EdgeWeight(src, dst)
}

// Links returns every directed link ordered by source then destination id.
func (n *Network) Links() []ports.Link {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var out []ports.Link
	for src := 0; src < n.g.Size(); src++ {
		succ, _ := n.g.Neighbors(src)
		for _, dst := range succ {
			w, _, _ := n.g.EdgeWeight(src, dst)
			out = append(out, ports.Link{From: n.name(src), To: n.name(dst), Minutes: w})
		}
	}
	return out
}

// Neighbors returns the locations directly reachable from name, in id order.
func (n *Network) Neighbors(name string) ([]*domain.Location, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	id, err := n.lookup(name)
	if err != nil {
		return nil, fmt.Errorf("neighbors: %w", err)
	}
	ids, err := n.g.Neighbors(id)
	if err != nil {
		return nil, fmt.Errorf("neighbors %q: %w", name, err)
	}

	out := make([]*domain.Location, 0, len(ids))
	for _, v := range ids {
		loc, _ := n.g.NodeData(v)
		out = append(out, loc)
	}
	return out, nil
}

// Reachable reports whether any route leads from → to.
func (n *Network) Reachable(from, to string) (bool, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	src, dst, err := n.lookupPair(from, to)
	if err != nil {
		return false, fmt.Errorf("reachable: %w", err)
	}
	return n.g.PathExists(src, dst)
}

// Path returns the route with the fewest links from → to, which is not
// necessarily the fastest one.
func (n *Network) Path(from, to string) (domain.Route, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	src, dst, err := n.lookupPair(from, to)
	if err != nil {
		return domain.Route{}, fmt.Errorf("path: %w", err)
	}
	ids, err := n.g.Path(src, dst)
	if err != nil {
		return domain.Route{}, fmt.Errorf("path %q -> %q: %w", from, to, err)
	}
	minutes, err := n.g.PathWeight(ids)
	if err != nil {
		return domain.Route{}, fmt.Errorf("path %q -> %q: %w", from, to, err)
	}
	return n.route(ids, minutes), nil
}

// ShortestRoute returns the fastest route from → to. Results are cached per
// network revision when a RouteCache is installed.
func (n *Network) ShortestRoute(ctx context.Context, from, to string) (_ domain.Route, err error) {
	defer obs.Time(ctx, "network.ShortestRoute")(&err)

	n.mu.RLock()
	cache := n.cache
	key := n.cacheKey(from, to)
	n.mu.RUnlock()

	if cache != nil {
		route, ok, err := cache.Get(ctx, key)
		switch {
		case err != nil:
			obs.RouteCacheLookups.WithLabelValues("error").Inc()
			obs.FromContext(ctx).Warn("route cache get failed", "key", key, "err", err)
		case ok:
			obs.RouteCacheLookups.WithLabelValues("hit").Inc()
			return route, nil
		default:
			obs.RouteCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	n.mu.RLock()
	route, err := n.shortestRoute(from, to)
	key = n.cacheKey(from, to)
	n.mu.RUnlock()
	if err != nil {
		return domain.Route{}, err
	}

	if cache != nil {
		if err := cache.Put(ctx, key, route); err != nil {
			obs.FromContext(ctx).Warn("route cache put failed", "key", key, "err", err)
		}
	}
	return route, nil
}

func (n *Network) shortestRoute(from, to string) (domain.Route, error) {
	src, dst, err := n.lookupPair(from, to)
	if err != nil {
		return domain.Route{}, fmt.Errorf("shortest route: %w", err)
	}
	ids, err := n.g.ShortestPath(src, dst)
	if err != nil {
		return domain.Route{}, fmt.Errorf("shortest route %q -> %q: %w", from, to, err)
	}
	minutes, err := n.g.PathWeight(ids)
	if err != nil {
		return domain.Route{}, fmt.Errorf("shortest route %q -> %q: %w", from, to, err)
	}
	return n.route(ids, minutes), nil
}

// Traverse lists the locations reachable from start in the given order.
func (n *Network) Traverse(start string, order TraversalOrder) ([]string, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	id, err := n.lookup(start)
	if err != nil {
		return nil, fmt.Errorf("traverse: %w", err)
	}

	var ids []graph.NodeID
	switch order {
	case OrderDFS:
		ids, err = n.g.DFS(id)
	case OrderBFS:
		ids, err = n.g.BFS(id)
	default:
		return nil, fmt.Errorf("traverse: %w: %q", ErrInvalidTraversal, order)
	}
	if err != nil {
		return nil, fmt.Errorf("traverse %q: %w", start, err)
	}
	return n.names(ids), nil
}

// TravelMinutes implements ports.TravelTimeProvider with shortest-route times.
func (n *Network) TravelMinutes(ctx context.Context, origin, destination string) (int, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	src, dst, err := n.lookupPair(origin, destination)
	if err != nil {
		return 0, fmt.Errorf("travel minutes: %w", err)
	}
	minutes, err := n.g.ShortestPathWeight(src, dst)
	if err != nil {
		return 0, fmt.Errorf("travel minutes %q -> %q: %w", origin, destination, err)
	}
	return minutes, nil
}

// TravelMinutesMany implements ports.TravelTimeMatrixProvider with a single
// shortest-path run from origin. Unreachable destinations are omitted.
func (n *Network) TravelMinutesMany(ctx context.Context, origin string, destinations []string) (_ map[string]int, err error) {
	defer obs.Time(ctx, "network.TravelMinutesMany")(&err)

	n.mu.RLock()
	defer n.mu.RUnlock()

	src, err := n.lookup(origin)
	if err != nil {
		return nil, fmt.Errorf("travel minutes many: %w", err)
	}
	dist, reached, err := n.g.ShortestPathWeights(src)
	if err != nil {
		return nil, fmt.Errorf("travel minutes many from %q: %w", origin, err)
	}

	out := make(map[string]int, len(destinations))
	for _, d := range destinations {
		dst, err := n.lookup(d)
		if err != nil {
			return nil, fmt.Errorf("travel minutes many: %w", err)
		}
		if reached[dst] {
			out[d] = dist[dst]
		}
	}
	return out, nil
}

func (n *Network) lookup(name string) (graph.NodeID, error) {
	id, ok := n.byName[strings.TrimSpace(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLocation, name)
	}
	return id, nil
}

func (n *Network) lookupPair(from, to string) (graph.NodeID, graph.NodeID, error) {
	src, err := n.lookup(from)
	if err != nil {
		return 0, 0, err
	}
	dst, err := n.lookup(to)
	if err != nil {
		return 0, 0, err
	}
	return src, dst, nil
}

func (n *Network) name(id graph.NodeID) string {
	loc, err := n.g.NodeData(id)
	if err != nil || loc == nil {
		return ""
	}
	return loc.Name
}

func (n *Network) names(ids []graph.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = n.name(id)
	}
	return out
}

func (n *Network) route(ids []graph.NodeID, minutes int) domain.Route {
	return domain.Route{Stops: n.names(ids), NodeIDs: ids, TotalMinutes: minutes}
}

// cacheKey scopes keys to this network instance and its current revision.
// Names are quoted so a "|" inside a name cannot shift the separator.
func (n *Network) cacheKey(from, to string) string {
	return fmt.Sprintf("route:%s:%d:%s", n.epoch, n.revision, pairKey(strings.TrimSpace(from), strings.TrimSpace(to)))
}
