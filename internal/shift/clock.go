package shift

import (
	"context"

	"shiftclock.org/internal/geo"
	"shiftclock.org/internal/perimeter"
)

// Clock is the shift lifecycle entry point. It enforces the location and
// geofence rules before delegating to the storage service; the storage layer
// owns the at-most-one-open-shift invariant.
type Clock struct {
	shifts     Service
	perimeters perimeter.Reader
}

func NewClock(shifts Service, perimeters perimeter.Reader) *Clock {
	return &Clock{shifts: shifts, perimeters: perimeters}
}

// ClockIn opens a shift for workerID at loc. A nil loc fails with
// ErrLocationRequired; a location outside the active geofence fails with
// *OutsidePerimeterError. When the worker already has an open shift the
// existing record is returned with AlreadyOpen set.
func (c *Clock) ClockIn(ctx context.Context, workerID string, loc *geo.Coordinate, note string) (ClockInResult, error) {
	if loc == nil {
		return ClockInResult{}, ErrLocationRequired
	}
	if !loc.Valid() {
		return ClockInResult{}, ErrInvalidInput
	}
	cfg, err := c.perimeters.Latest(ctx)
	if err != nil {
		return ClockInResult{}, err
	}
	if cfg != nil && !cfg.Contains(*loc) {
		return ClockInResult{}, &OutsidePerimeterError{
			DistanceKm: geo.DistanceKm(*loc, cfg.Center),
			RadiusKm:   cfg.RadiusKm,
		}
	}
	return c.shifts.ClockIn(ctx, workerID, *loc, note)
}

// ClockOut closes the worker's open shift. No geofence check applies on the
// way out; a missing open shift is reported via Closed=false, not an error.
func (c *Clock) ClockOut(ctx context.Context, workerID string, loc *geo.Coordinate, note string) (ClockOutResult, error) {
	if loc == nil {
		return ClockOutResult{}, ErrLocationRequired
	}
	if !loc.Valid() {
		return ClockOutResult{}, ErrInvalidInput
	}
	return c.shifts.ClockOut(ctx, workerID, *loc, note)
}

// OpenShift is a read-only lookup of the worker's open record.
func (c *Clock) OpenShift(ctx context.Context, workerID string) (Record, error) {
	return c.shifts.OpenShift(ctx, workerID)
}
