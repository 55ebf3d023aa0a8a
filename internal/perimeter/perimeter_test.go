package perimeter

import (
	"context"
	"testing"
	"time"

	"shiftclock.org/internal/geo"
)

func TestNilConfigAdmitsEverything(t *testing.T) {
	var cfg *Config
	if !cfg.Contains(geo.Coordinate{Lat: 89, Long: 179}) {
		t.Fatal("nil config must admit any location")
	}
}

func TestContainsInclusiveBoundary(t *testing.T) {
	// (1,0) is ~111.19 km from the origin; a radius set to exactly that
	// distance must still admit the point.
	loc := geo.Coordinate{Lat: 1, Long: 0}
	cfg := &Config{Center: geo.Coordinate{}, RadiusKm: geo.DistanceKm(geo.Coordinate{}, loc)}
	if !cfg.Contains(loc) {
		t.Fatal("boundary point must be inside")
	}
	cfg.RadiusKm -= 0.001
	if cfg.Contains(loc) {
		t.Fatal("point just outside radius must be rejected")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Center: geo.Coordinate{Lat: 10, Long: 20}, RadiusKm: 1}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	bad := []Config{
		{Center: geo.Coordinate{Lat: 91, Long: 0}, RadiusKm: 1},
		{Center: geo.Coordinate{Lat: 0, Long: 181}, RadiusKm: 1},
		{Center: geo.Coordinate{}, RadiusKm: 0},
		{Center: geo.Coordinate{}, RadiusKm: -2},
	}
	for _, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected validation error for %+v", cfg)
		}
	}
}

func TestInMemoryUpsertKeepsIdentity(t *testing.T) {
	s := NewInMemory()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return base })
	ctx := context.Background()

	first, err := s.Upsert(ctx, Config{Center: geo.Coordinate{Lat: 10, Long: 20}, RadiusKm: 2})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.ID == "" || !first.CreatedAt.Equal(base) {
		t.Fatalf("unexpected inserted row: %+v", first)
	}

	s.SetClock(func() time.Time { return base.Add(time.Hour) })
	second, err := s.Upsert(ctx, Config{Center: geo.Coordinate{Lat: 11, Long: 21}, RadiusKm: 3})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("singleton identity changed: %s -> %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) || !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("timestamps not maintained: %+v", second)
	}
}

func TestInMemoryClearIdempotent(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear on empty store: %v", err)
	}
	if _, err := s.Upsert(ctx, Config{Center: geo.Coordinate{Lat: 1, Long: 1}, RadiusKm: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cfg, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected cleared store, got %+v", cfg)
	}
}

func TestInMemoryUpsertRejectsInvalid(t *testing.T) {
	s := NewInMemory()
	if _, err := s.Upsert(context.Background(), Config{RadiusKm: -1}); err == nil {
		t.Fatal("expected validation error")
	}
}
