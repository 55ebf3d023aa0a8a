package shift

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("shift: not found")
	ErrLocationRequired = errors.New("shift: location required")
	ErrInvalidInput     = errors.New("shift: invalid input")
)

// OutsidePerimeterError rejects a clock-in attempt outside the geofence. The
// computed distance and the configured radius are kept for the client UI.
type OutsidePerimeterError struct {
	DistanceKm float64
	RadiusKm   float64
}

func (e *OutsidePerimeterError) Error() string {
	return fmt.Sprintf("shift: outside perimeter (distance %.2f km, radius %.2f km)", e.DistanceKm, e.RadiusKm)
}

// Record is one worker's attendance interval. A nil ClockOutTime means the
// shift is still open. Locations are stored in the "lat,long" text form.
type Record struct {
	ID               string     `json:"id"`
	WorkerID         string     `json:"worker_id"`
	ClockInTime      time.Time  `json:"clock_in_time"`
	ClockOutTime     *time.Time `json:"clock_out_time,omitempty"`
	ClockInLocation  string     `json:"clock_in_location"`
	ClockOutLocation string     `json:"clock_out_location,omitempty"`
	ClockInNote      string     `json:"clock_in_note,omitempty"`
	ClockOutNote     string     `json:"clock_out_note,omitempty"`
}

// Open reports whether the record has no recorded clock-out.
func (r Record) Open() bool { return r.ClockOutTime == nil }

// Filter narrows ListShifts. Zero-value fields are ignored.
type Filter struct {
	WorkerID string
	From     time.Time // inclusive, matched against ClockInTime
	To       time.Time // inclusive
}

// Matches reports whether rec satisfies the filter.
func (f Filter) Matches(rec Record) bool {
	if f.WorkerID != "" && rec.WorkerID != f.WorkerID {
		return false
	}
	if !f.From.IsZero() && rec.ClockInTime.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && rec.ClockInTime.After(f.To) {
		return false
	}
	return true
}

// ClockInResult reports the open record after a clock-in attempt.
// AlreadyOpen is set when the worker had an open shift and the existing
// record was returned unchanged.
type ClockInResult struct {
	Record      Record
	AlreadyOpen bool
}

// ClockOutResult reports the outcome of a clock-out attempt. Closed is false
// when there was no open shift to close; Record is only meaningful when
// Closed is true.
type ClockOutResult struct {
	Record Record
	Closed bool
}
