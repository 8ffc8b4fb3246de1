package ports

import (
	"context"
	"logistics-network-service/internal/domain"
)

// RouteCache stores computed shortest routes. Callers build keys that
// encode everything the route depends on.
type RouteCache interface {
	Get(ctx context.Context, key string) (domain.Route, bool, error)
	Put(ctx context.Context, key string, route domain.Route) error
}
