package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shiftclock.org/internal/audit"
	"shiftclock.org/internal/auth"
	"shiftclock.org/internal/geo"
	"shiftclock.org/internal/obs"
	"shiftclock.org/internal/shift"
)

type clockRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Note      string   `json:"note"`
}

func (req clockRequest) location() *geo.Coordinate {
	if req.Latitude == nil || req.Longitude == nil {
		return nil
	}
	return &geo.Coordinate{Lat: *req.Latitude, Long: *req.Longitude}
}

type clockInResponse struct {
	Shift       shift.Record `json:"shift"`
	AlreadyOpen bool         `json:"already_open"`
}

type clockOutResponse struct {
	Shift  *shift.Record `json:"shift,omitempty"`
	Closed bool          `json:"closed"`
}

type listShiftsResponse struct {
	Items []shift.Record `json:"items"`
	AsOf  time.Time      `json:"as_of"`
}

type summaryResponse struct {
	Summary     shift.Summary       `json:"summary"`
	HourBuckets shift.HourBuckets   `json:"hour_buckets"`
	DailyHours  []shift.DayHours    `json:"daily_hours"`
	TopWorkers  []shift.WorkerHours `json:"top_workers"`
}

func (a *API) handleClockIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var req clockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := a.clock.ClockIn(r.Context(), id.UserID, req.location(), strings.TrimSpace(req.Note))
	if err != nil {
		handleClockError(w, r, "clock_in", err)
		return
	}

	event := "shift.clock_in"
	result := "ok"
	if res.AlreadyOpen {
		event = "shift.clock_in.already_open"
		result = "noop"
	}
	obs.ObserveClockAttempt("clock_in", result)
	_ = audit.LogEvent(r.Context(), event, map[string]any{
		"shift_id": res.Record.ID,
		"location": res.Record.ClockInLocation,
	})

	writeJSON(w, http.StatusOK, clockInResponse{
		Shift:       res.Record,
		AlreadyOpen: res.AlreadyOpen,
	})
}

func (a *API) handleClockOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var req clockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := a.clock.ClockOut(r.Context(), id.UserID, req.location(), strings.TrimSpace(req.Note))
	if err != nil {
		handleClockError(w, r, "clock_out", err)
		return
	}

	if !res.Closed {
		obs.ObserveClockAttempt("clock_out", "noop")
		_ = audit.LogEvent(r.Context(), "shift.clock_out.noop", map[string]any{})
		writeJSON(w, http.StatusOK, clockOutResponse{Closed: false})
		return
	}

	obs.ObserveClockAttempt("clock_out", "ok")
	_ = audit.LogEvent(r.Context(), "shift.clock_out", map[string]any{
		"shift_id": res.Record.ID,
		"location": res.Record.ClockOutLocation,
	})

	rec := res.Record
	writeJSON(w, http.StatusOK, clockOutResponse{
		Shift:  &rec,
		Closed: true,
	})
}

func (a *API) handleOpenShift(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	rec, err := a.clock.OpenShift(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, shift.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "no open shift")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "shift lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"shift": rec,
	})
}

func (a *API) handleListShifts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	// workers only see their own shifts
	if !a.isManager(r) {
		f.WorkerID = id.UserID
	}

	items, err := a.shifts.ListShifts(r.Context(), f)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "shift listing failed")
		return
	}

	writeJSON(w, http.StatusOK, listShiftsResponse{
		Items: items,
		AsOf:  time.Now().UTC(),
	})
}

func (a *API) handleSummaryReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !a.isManager(r) {
		f.WorkerID = id.UserID
	}

	days := 7
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 90 {
			writeError(w, r, http.StatusBadRequest, "days must be between 1 and 90")
			return
		}
		days = v
	}

	records, err := a.shifts.ListShifts(r.Context(), f)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "shift listing failed")
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Summary:     shift.Summarize(records),
		HourBuckets: shift.BucketByHourOfDay(records),
		DailyHours:  shift.DailyHours(records, days, time.Now().UTC()),
		TopWorkers:  shift.HoursByWorker(records),
	})
}

func (a *API) handleWorkerEmails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if err := a.requireManager(r); err != nil {
		writeError(w, r, http.StatusForbidden, "manager access required")
		return
	}

	var req struct {
		WorkerIDs []string `json:"worker_ids"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.WorkerIDs) == 0 {
		writeError(w, r, http.StatusBadRequest, "worker_ids is required")
		return
	}
	if len(req.WorkerIDs) > 500 {
		writeError(w, r, http.StatusBadRequest, "worker_ids must be <=500 entries")
		return
	}

	emails, err := a.users.ResolveEmails(r.Context(), req.WorkerIDs)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "email resolution failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"emails": emails,
	})
}

func filterFromQuery(r *http.Request) (shift.Filter, error) {
	q := r.URL.Query()
	f := shift.Filter{WorkerID: strings.TrimSpace(q.Get("worker_id"))}

	from, err := parseTimeParam(q.Get("from"), false)
	if err != nil {
		return shift.Filter{}, fmt.Errorf("from: %w", err)
	}
	to, err := parseTimeParam(q.Get("to"), true)
	if err != nil {
		return shift.Filter{}, fmt.Errorf("to: %w", err)
	}
	f.From = from
	f.To = to
	return f, nil
}

// parseTimeParam accepts RFC 3339 timestamps or bare dates. A bare date used
// as an upper bound covers the whole day.
func parseTimeParam(raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.New("must be RFC 3339 or YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t.UTC(), nil
}

func handleClockError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var outside *shift.OutsidePerimeterError
	switch {
	case errors.Is(err, shift.ErrLocationRequired):
		obs.ObserveClockAttempt(op, "denied")
		writeError(w, r, http.StatusUnprocessableEntity, "location is required")
	case errors.As(err, &outside):
		obs.ObserveClockAttempt(op, "denied")
		payload := map[string]any{
			"error":       "outside the allowed perimeter",
			"distance_km": outside.DistanceKm,
			"radius_km":   outside.RadiusKm,
		}
		if rid := RequestIDFromContext(r.Context()); rid != "" {
			payload["request_id"] = rid
		}
		writeJSON(w, http.StatusUnprocessableEntity, payload)
	case errors.Is(err, shift.ErrInvalidInput):
		obs.ObserveClockAttempt(op, "denied")
		writeError(w, r, http.StatusBadRequest, "invalid coordinates")
	default:
		obs.ObserveClockAttempt(op, "error")
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
