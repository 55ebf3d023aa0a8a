package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"shiftclock.org/internal/auth"
	"shiftclock.org/internal/obs"
	"shiftclock.org/internal/perimeter"
	"shiftclock.org/internal/roster"
	"shiftclock.org/internal/shift"
)

// ReadyProbe is a simple readiness check (e.g. DB ping).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	clock      *shift.Clock
	shifts     shift.Service
	perimeters perimeter.Store
	managers   roster.Store
	users      auth.UserStore

	rateBurst  int
	ratePerSec int
}

func New(rp ReadyProbe, version string, shifts shift.Service, perimeters perimeter.Store, managers roster.Store, users auth.UserStore) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		clock:      shift.NewClock(shifts, perimeters),
		shifts:     shifts,
		perimeters: perimeters,
		managers:   managers,
		users:      users,
		rateBurst:  20,
		ratePerSec: 10,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// identity
	a.mux.HandleFunc("/v1/auth/signup", a.handleSignup)
	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)

	// geofence configuration
	a.mux.HandleFunc("/v1/perimeter", a.handlePerimeter)

	// shift lifecycle
	a.mux.HandleFunc("/v1/shifts/clock-in", a.handleClockIn)
	a.mux.HandleFunc("/v1/shifts/clock-out", a.handleClockOut)
	a.mux.HandleFunc("/v1/shifts/open", a.handleOpenShift)
	a.mux.HandleFunc("/v1/shifts", a.handleListShifts)

	// reporting
	a.mux.HandleFunc("/v1/reports/summary", a.handleSummaryReport)
	a.mux.HandleFunc("/v1/workers/emails", a.handleWorkerEmails)

	// manager roster administration
	a.mux.HandleFunc("/v1/managers", a.handleManagersCollection)
	a.mux.HandleFunc("/v1/managers/", a.handleManagerResource)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "shiftclock-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "shiftclock-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
