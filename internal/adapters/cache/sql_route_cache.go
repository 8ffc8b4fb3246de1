package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"logistics-network-service/internal/adapters/repositories"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLRouteCache is a SQL-backed cache for shortest-route results, stored
// in the route_cache table created by repositories.InitSchema.
type SQLRouteCache struct {
	DB      *sql.DB
	Dialect repositories.Dialect
	TTL     time.Duration

	now func() time.Time
}

// NewSQLRouteCache returns a cache whose entries expire after ttl.
// A ttl of zero keeps entries forever.
func NewSQLRouteCache(db *sql.DB, dialect repositories.Dialect, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, Dialect: dialect, TTL: ttl, now: time.Now}
}

// Fetch a cached route. Expired rows count as misses.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return domain.Route{}, false, errors.New("route cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return domain.Route{}, false, errors.New("get route cache: key must not be empty")
	}

	q := s.Dialect.Rebind(`
	SELECT route_json, expires_at
	FROM route_cache
	WHERE cache_key = ?;
	`)

	var payload string
	var expiresAt int64
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if expiresAt > 0 && s.clock().Unix() >= expiresAt {
		return domain.Route{}, false, nil
	}

	route, err := decodeRoute([]byte(payload))
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache key=%q: %w", key, err)
	}
	return route, true, nil
}

// Store a route under key, replacing any previous entry.
func (s *SQLRouteCache) Put(ctx context.Context, key string, route domain.Route) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	payload, err := encodeRoute(route)
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	var expiresAt int64
	if s.TTL > 0 {
		expiresAt = s.clock().Add(s.TTL).Unix()
	}

	q := s.Dialect.Rebind(`
	INSERT INTO route_cache (cache_key, route_json, expires_at)
	VALUES (?, ?, ?)
	ON CONFLICT (cache_key) DO UPDATE
	SET route_json = EXCLUDED.route_json,
		expires_at = EXCLUDED.expires_at;
	`)
	if _, err := s.DB.ExecContext(ctx, q, key, string(payload), expiresAt); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}
	return nil
}

// Purge removes expired entries and reports how many were deleted.
func (s *SQLRouteCache) Purge(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("route cache: db is nil")
	}

	q := s.Dialect.Rebind(`DELETE FROM route_cache WHERE expires_at > 0 AND expires_at <= ?;`)
	res, err := s.DB.ExecContext(ctx, q, s.clock().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge route cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge route cache: rows affected: %w", err)
	}
	return n, nil
}

func (s *SQLRouteCache) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
