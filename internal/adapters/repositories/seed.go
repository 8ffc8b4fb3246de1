package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/ports"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type LocationSeed struct {
	Name           string `json:"name" toml:"name"`
	Kind           string `json:"kind" toml:"kind"`
	Zone           string `json:"zone" toml:"zone"`
	Priority       int    `json:"priority" toml:"priority"`
	DeliveryWindow int    `json:"delivery_window" toml:"delivery_window"`
	Handling       string `json:"handling" toml:"handling"`
}

type LinkSeed struct {
	From    string `json:"from" toml:"from"`
	To      string `json:"to" toml:"to"`
	Minutes int    `json:"minutes" toml:"minutes"`
}

type CargoSeed struct {
	CargoID       int    `json:"cargo_id" toml:"cargo_id"`
	WeightKg      int    `json:"weight_kg" toml:"weight_kg"`
	Handling      string `json:"handling" toml:"handling"`
	Destination   string `json:"destination" toml:"destination"`
	Priority      int    `json:"priority" toml:"priority"`
	SortingCenter string `json:"sorting_center" toml:"sorting_center"`
}

// Seed is the on-disk description of a network and its pending cargo.
type Seed struct {
	Locations []LocationSeed `json:"locations" toml:"locations"`
	Links     []LinkSeed     `json:"links" toml:"links"`
	Cargo     []CargoSeed    `json:"cargo" toml:"cargo"`
}

// ReadSeed parses a seed file. Files ending in .toml are decoded as TOML,
// everything else as JSON.
func ReadSeed(path string) (Seed, error) {
	var seed Seed

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &seed); err != nil {
			return Seed{}, fmt.Errorf("read seed: parse toml %q: %w", path, err)
		}
	} else {
		bytes, err := os.ReadFile(path)
		if err != nil {
			return Seed{}, fmt.Errorf("read seed: read %q: %w", path, err)
		}
		if err := json.Unmarshal(bytes, &seed); err != nil {
			return Seed{}, fmt.Errorf("read seed: parse json %q: %w", path, err)
		}
	}

	if err := seed.Validate(); err != nil {
		return Seed{}, fmt.Errorf("read seed %q: %w", path, err)
	}
	return seed, nil
}

// Validate checks field-level constraints and that every link and cargo
// item refers to a declared location.
func (s Seed) Validate() error {
	names := make(map[string]domain.LocationKind, len(s.Locations))
	for i, l := range s.Locations {
		loc, err := l.toDomain()
		if err != nil {
			return fmt.Errorf("location at index %d: %w", i, err)
		}
		if err := loc.Validate(); err != nil {
			return fmt.Errorf("location at index %d: %w", i, err)
		}
		if _, dup := names[loc.Name]; dup {
			return fmt.Errorf("location at index %d: duplicate name %q", i, loc.Name)
		}
		names[loc.Name] = loc.Kind
	}

	for i, l := range s.Links {
		if _, ok := names[strings.TrimSpace(l.From)]; !ok {
			return fmt.Errorf("link at index %d: unknown origin %q", i, l.From)
		}
		if _, ok := names[strings.TrimSpace(l.To)]; !ok {
			return fmt.Errorf("link at index %d: unknown destination %q", i, l.To)
		}
		if l.Minutes <= 0 {
			return fmt.Errorf("link at index %d: minutes must be positive (got %d)", i, l.Minutes)
		}
	}

	for i, c := range s.Cargo {
		if c.CargoID <= 0 {
			return fmt.Errorf("cargo at index %d: invalid cargo_id %d", i, c.CargoID)
		}
		if c.WeightKg <= 0 {
			return fmt.Errorf("cargo at index %d: weight_kg must be positive (got %d)", i, c.WeightKg)
		}
		if k, ok := names[strings.TrimSpace(c.Destination)]; !ok || k != domain.KindDeliveryPoint {
			return fmt.Errorf("cargo at index %d: destination %q is not a delivery point", i, c.Destination)
		}
		if k, ok := names[strings.TrimSpace(c.SortingCenter)]; !ok || k != domain.KindSortingCenter {
			return fmt.Errorf("cargo at index %d: %q is not a sorting center", i, c.SortingCenter)
		}
		if _, err := domain.ParseHandlingType(c.Handling); err != nil {
			return fmt.Errorf("cargo at index %d: %w", i, err)
		}
	}

	return nil
}

func (l LocationSeed) toDomain() (*domain.Location, error) {
	kind, err := domain.ParseLocationKind(l.Kind)
	if err != nil {
		return nil, err
	}
	handling, err := domain.ParseHandlingType(l.Handling)
	if err != nil {
		return nil, err
	}
	return &domain.Location{
		Name:           strings.TrimSpace(l.Name),
		Kind:           kind,
		Zone:           strings.TrimSpace(l.Zone),
		Priority:       l.Priority,
		DeliveryWindow: l.DeliveryWindow,
		Handling:       handling,
	}, nil
}

func (c CargoSeed) toDomain() *domain.Cargo {
	handling, _ := domain.ParseHandlingType(c.Handling)
	return &domain.Cargo{
		CargoID:       c.CargoID,
		WeightKg:      c.WeightKg,
		Handling:      handling,
		Destination:   strings.TrimSpace(c.Destination),
		Priority:      c.Priority,
		SortingCenter: strings.TrimSpace(c.SortingCenter),
	}
}

// SeedFromFile reads a seed file and upserts its contents into db.
func SeedFromFile(db *sql.DB, dialect Dialect, path string) error {
	seed, err := ReadSeed(path)
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	return SeedDatabase(db, dialect, seed)
}

// Populate the database with a validated seed inside one transaction.
func SeedDatabase(db *sql.DB, dialect Dialect, seed Seed) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed database: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	locStmt, err := tx.Prepare(dialect.Rebind(`
	INSERT INTO locations (name, position, kind, zone, priority, delivery_window, handling)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (name) DO UPDATE
	SET position = EXCLUDED.position,
		kind = EXCLUDED.kind,
		zone = EXCLUDED.zone,
		priority = EXCLUDED.priority,
		delivery_window = EXCLUDED.delivery_window,
		handling = EXCLUDED.handling;
	`))
	if err != nil {
		return fmt.Errorf("seed database: prepare location insert: %w", err)
	}
	defer locStmt.Close()

	for i, l := range seed.Locations {
		loc, err := l.toDomain()
		if err != nil {
			return fmt.Errorf("seed database: location %q: %w", l.Name, err)
		}
		if _, err := locStmt.Exec(
			loc.Name, i, loc.Kind.String(), loc.Zone, loc.Priority, loc.DeliveryWindow, loc.Handling.String(),
		); err != nil {
			return fmt.Errorf("seed database: insert location %q: %w", loc.Name, err)
		}
	}

	linkStmt, err := tx.Prepare(dialect.Rebind(`
	INSERT INTO links (origin, destination, minutes)
	VALUES (?, ?, ?)
	ON CONFLICT (origin, destination) DO UPDATE
	SET minutes = EXCLUDED.minutes;
	`))
	if err != nil {
		return fmt.Errorf("seed database: prepare link insert: %w", err)
	}
	defer linkStmt.Close()

	for _, l := range seed.Links {
		from, to := strings.TrimSpace(l.From), strings.TrimSpace(l.To)
		if _, err := linkStmt.Exec(from, to, l.Minutes); err != nil {
			return fmt.Errorf("seed database: insert link %q -> %q: %w", from, to, err)
		}
	}

	cargoStmt, err := tx.Prepare(dialect.Rebind(`
	INSERT INTO cargo (cargo_id, weight_kg, handling, destination, priority, sorting_center)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (cargo_id) DO UPDATE
	SET weight_kg = EXCLUDED.weight_kg,
		handling = EXCLUDED.handling,
		destination = EXCLUDED.destination,
		priority = EXCLUDED.priority,
		sorting_center = EXCLUDED.sorting_center;
	`))
	if err != nil {
		return fmt.Errorf("seed database: prepare cargo insert: %w", err)
	}
	defer cargoStmt.Close()

	for _, c := range seed.Cargo {
		cg := c.toDomain()
		if _, err := cargoStmt.Exec(
			cg.CargoID, cg.WeightKg, cg.Handling.String(), cg.Destination, cg.Priority, cg.SortingCenter,
		); err != nil {
			return fmt.Errorf("seed database: insert cargo_id=%d: %w", cg.CargoID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed database: commit tx: %w", err)
	}

	return nil
}

// SeedRepository serves a Seed from memory through the NetworkRepository port.
type SeedRepository struct{ Seed Seed }

func NewSeedRepository(seed Seed) *SeedRepository {
	return &SeedRepository{Seed: seed}
}

func (s *SeedRepository) ListLocations(ctx context.Context) ([]*domain.Location, error) {
	out := make([]*domain.Location, 0, len(s.Seed.Locations))
	for _, l := range s.Seed.Locations {
		loc, err := l.toDomain()
		if err != nil {
			return nil, fmt.Errorf("list locations: %q: %w", l.Name, err)
		}
		out = append(out, loc)
	}
	return out, nil
}

func (s *SeedRepository) ListLinks(ctx context.Context) ([]ports.Link, error) {
	out := make([]ports.Link, 0, len(s.Seed.Links))
	for _, l := range s.Seed.Links {
		out = append(out, ports.Link{From: strings.TrimSpace(l.From), To: strings.TrimSpace(l.To), Minutes: l.Minutes})
	}
	return out, nil
}

func (s *SeedRepository) ListCargo(ctx context.Context) ([]*domain.Cargo, error) {
	out := make([]*domain.Cargo, 0, len(s.Seed.Cargo))
	for _, c := range s.Seed.Cargo {
		out = append(out, c.toDomain())
	}
	return out, nil
}
