package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/ports"
)

// SQL-backed implementation of the NetworkRepository port.
// Works against SQLite and PostgreSQL through Dialect.
type SQLNetworkRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLNetworkRepository(db *sql.DB, dialect Dialect) *SQLNetworkRepository {
	return &SQLNetworkRepository{DB: db, Dialect: dialect}
}

// Return all locations in registration order.
func (s *SQLNetworkRepository) ListLocations(ctx context.Context) ([]*domain.Location, error) {
	if s.DB == nil {
		return nil, errors.New("sql network repository: DB is nil")
	}

	query := `
	SELECT
		name,
		kind,
		zone,
		priority,
		delivery_window,
		handling
	FROM locations
	ORDER BY position, name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	locations := make([]*domain.Location, 0, 64)
	for rows.Next() {
		var name, kind, zone, handling string
		var priority, window int
		if err := rows.Scan(&name, &kind, &zone, &priority, &window, &handling); err != nil {
			return nil, fmt.Errorf("list locations: scan row: %w", err)
		}

		k, err := domain.ParseLocationKind(kind)
		if err != nil {
			return nil, fmt.Errorf("list locations: %q: %w", name, err)
		}
		h, err := domain.ParseHandlingType(handling)
		if err != nil {
			return nil, fmt.Errorf("list locations: %q: %w", name, err)
		}

		locations = append(locations, &domain.Location{
			Name:           name,
			Kind:           k,
			Zone:           zone,
			Priority:       priority,
			DeliveryWindow: window,
			Handling:       h,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}

	return locations, nil
}

// Return all directed links.
func (s *SQLNetworkRepository) ListLinks(ctx context.Context) ([]ports.Link, error) {
	if s.DB == nil {
		return nil, errors.New("sql network repository: DB is nil")
	}

	query := `
	SELECT origin, destination, minutes
	FROM links
	ORDER BY origin, destination;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list links: query links table: %w", err)
	}
	defer rows.Close()

	links := make([]ports.Link, 0, 128)
	for rows.Next() {
		var l ports.Link
		if err := rows.Scan(&l.From, &l.To, &l.Minutes); err != nil {
			return nil, fmt.Errorf("list links: scan row: %w", err)
		}
		links = append(links, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list links: row iteration: %w", err)
	}

	return links, nil
}

// Return all cargo waiting for dispatch.
func (s *SQLNetworkRepository) ListCargo(ctx context.Context) ([]*domain.Cargo, error) {
	if s.DB == nil {
		return nil, errors.New("sql network repository: DB is nil")
	}

	query := `
	SELECT
		cargo_id,
		weight_kg,
		handling,
		destination,
		priority,
		sorting_center
	FROM cargo
	ORDER BY cargo_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cargo: query cargo table: %w", err)
	}
	defer rows.Close()

	cargo := make([]*domain.Cargo, 0, 64)
	for rows.Next() {
		var c domain.Cargo
		var handling string
		if err := rows.Scan(&c.CargoID, &c.WeightKg, &handling, &c.Destination, &c.Priority, &c.SortingCenter); err != nil {
			return nil, fmt.Errorf("list cargo: scan row: %w", err)
		}
		h, err := domain.ParseHandlingType(handling)
		if err != nil {
			return nil, fmt.Errorf("list cargo: cargo_id=%d: %w", c.CargoID, err)
		}
		c.Handling = h
		cargo = append(cargo, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cargo: row iteration: %w", err)
	}

	return cargo, nil
}

// Insert a location at the end of the registration order.
func (s *SQLNetworkRepository) SaveLocation(ctx context.Context, loc *domain.Location) error {
	if s.DB == nil {
		return errors.New("sql network repository: DB is nil")
	}

	query := s.Dialect.Rebind(`
	INSERT INTO locations (name, position, kind, zone, priority, delivery_window, handling)
	VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM locations), ?, ?, ?, ?, ?);
	`)
	if _, err := s.DB.ExecContext(ctx, query,
		loc.Name, loc.Kind.String(), loc.Zone, loc.Priority, loc.DeliveryWindow, loc.Handling.String(),
	); err != nil {
		return fmt.Errorf("save location %q: %w", loc.Name, err)
	}
	return nil
}

// Insert or replace a directed link.
func (s *SQLNetworkRepository) SaveLink(ctx context.Context, link ports.Link) error {
	if s.DB == nil {
		return errors.New("sql network repository: DB is nil")
	}

	query := s.Dialect.Rebind(`
	INSERT INTO links (origin, destination, minutes)
	VALUES (?, ?, ?)
	ON CONFLICT (origin, destination) DO UPDATE
	SET minutes = EXCLUDED.minutes;
	`)
	if _, err := s.DB.ExecContext(ctx, query, link.From, link.To, link.Minutes); err != nil {
		return fmt.Errorf("save link %q -> %q: %w", link.From, link.To, err)
	}
	return nil
}

func (s *SQLNetworkRepository) DeleteLink(ctx context.Context, from, to string) error {
	if s.DB == nil {
		return errors.New("sql network repository: DB is nil")
	}

	query := s.Dialect.Rebind(`DELETE FROM links WHERE origin = ? AND destination = ?;`)
	if _, err := s.DB.ExecContext(ctx, query, from, to); err != nil {
		return fmt.Errorf("delete link %q -> %q: %w", from, to, err)
	}
	return nil
}
