package perimeter

import (
	"context"
	"errors"
	"time"

	"shiftclock.org/internal/geo"
)

var (
	ErrNotFound      = errors.New("perimeter: not found")
	ErrInvalidConfig = errors.New("perimeter: invalid config")
)

// Config is the single active geofence for the organization. A nil *Config
// means no geofence is enforced.
type Config struct {
	ID        string         `json:"id"`
	Center    geo.Coordinate `json:"center"`
	RadiusKm  float64        `json:"radius_km"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Validate checks coordinate ranges and the radius.
func (c Config) Validate() error {
	if !c.Center.Valid() {
		return ErrInvalidConfig
	}
	if c.RadiusKm <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Contains reports whether loc is inside the geofence. The boundary is
// inclusive: a point exactly RadiusKm away is inside. A nil config admits
// every location.
func (c *Config) Contains(loc geo.Coordinate) bool {
	if c == nil {
		return true
	}
	return geo.DistanceKm(loc, c.Center) <= c.RadiusKm
}

// Reader is the read side consumed by the shift lifecycle.
type Reader interface {
	Latest(ctx context.Context) (*Config, error)
}

// Store persists the singleton geofence configuration.
type Store interface {
	Reader
	// Upsert validates cfg and replaces the singleton row, keeping its
	// original CreatedAt when one already exists.
	Upsert(ctx context.Context, cfg Config) (Config, error)
	// Clear removes the configuration. Clearing an absent configuration is
	// not an error.
	Clear(ctx context.Context) error
}
