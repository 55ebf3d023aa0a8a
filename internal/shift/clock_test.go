package shift

import (
	"context"
	"errors"
	"math"
	"testing"

	"shiftclock.org/internal/geo"
	"shiftclock.org/internal/perimeter"
)

func TestClockInRequiresLocation(t *testing.T) {
	c := NewClock(NewInMemory(), perimeter.NewInMemory())
	if _, err := c.ClockIn(context.Background(), "w1", nil, ""); !errors.Is(err, ErrLocationRequired) {
		t.Fatalf("expected ErrLocationRequired, got %v", err)
	}
	if _, err := c.ClockOut(context.Background(), "w1", nil, ""); !errors.Is(err, ErrLocationRequired) {
		t.Fatalf("expected ErrLocationRequired, got %v", err)
	}
}

func TestClockInWithoutPerimeterAlwaysAdmits(t *testing.T) {
	c := NewClock(NewInMemory(), perimeter.NewInMemory())
	loc := geo.Coordinate{Lat: -45, Long: 100}
	res, err := c.ClockIn(context.Background(), "w1", &loc, "")
	if err != nil {
		t.Fatalf("no geofence set, clock-in must be admitted: %v", err)
	}
	if res.Record.WorkerID != "w1" {
		t.Fatalf("unexpected record: %+v", res.Record)
	}
}

func TestClockInInsidePerimeter(t *testing.T) {
	perims := perimeter.NewInMemory()
	center := geo.Coordinate{Lat: 37.7749, Long: -122.4194}
	if _, err := perims.Upsert(context.Background(), perimeter.Config{Center: center, RadiusKm: 1}); err != nil {
		t.Fatal(err)
	}
	c := NewClock(NewInMemory(), perims)

	res, err := c.ClockIn(context.Background(), "w1", &center, "")
	if err != nil {
		t.Fatalf("distance 0 must be admitted: %v", err)
	}
	if res.AlreadyOpen {
		t.Fatal("fresh shift reported as already open")
	}
}

func TestClockInOutsidePerimeterCarriesDistance(t *testing.T) {
	perims := perimeter.NewInMemory()
	center := geo.Coordinate{Lat: 37.7749, Long: -122.4194}
	if _, err := perims.Upsert(context.Background(), perimeter.Config{Center: center, RadiusKm: 1}); err != nil {
		t.Fatal(err)
	}
	c := NewClock(NewInMemory(), perims)

	outside := geo.Coordinate{Lat: 37.8, Long: -122.5}
	_, err := c.ClockIn(context.Background(), "w1", &outside, "")
	var op *OutsidePerimeterError
	if !errors.As(err, &op) {
		t.Fatalf("expected OutsidePerimeterError, got %v", err)
	}
	want := geo.DistanceKm(outside, center)
	if math.Abs(op.DistanceKm-want) > 1e-9 {
		t.Fatalf("reported distance %v, want %v", op.DistanceKm, want)
	}
	if op.RadiusKm != 1 {
		t.Fatalf("reported radius %v, want 1", op.RadiusKm)
	}
}

func TestClockOutIgnoresPerimeter(t *testing.T) {
	perims := perimeter.NewInMemory()
	center := geo.Coordinate{Lat: 37.7749, Long: -122.4194}
	if _, err := perims.Upsert(context.Background(), perimeter.Config{Center: center, RadiusKm: 1}); err != nil {
		t.Fatal(err)
	}
	c := NewClock(NewInMemory(), perims)
	ctx := context.Background()

	if _, err := c.ClockIn(ctx, "w1", &center, ""); err != nil {
		t.Fatal(err)
	}
	// Worker may leave the geofence while on shift; clock-out still works.
	outside := geo.Coordinate{Lat: 38.0, Long: -123.0}
	res, err := c.ClockOut(ctx, "w1", &outside, "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Closed {
		t.Fatal("expected shift to close")
	}
}

func TestClockRejectsInvalidCoordinates(t *testing.T) {
	c := NewClock(NewInMemory(), perimeter.NewInMemory())
	bad := geo.Coordinate{Lat: 91, Long: 0}
	if _, err := c.ClockIn(context.Background(), "w1", &bad, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
