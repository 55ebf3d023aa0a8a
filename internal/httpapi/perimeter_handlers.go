package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"shiftclock.org/internal/audit"
	"shiftclock.org/internal/geo"
	"shiftclock.org/internal/perimeter"
)

// setPerimeterRequest mirrors the settings form: a body with any of the three
// fields null or missing is a clear request, not a partial update.
type setPerimeterRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	RadiusKm  *float64 `json:"radius_km"`
}

func (req setPerimeterRequest) clearRequested() bool {
	return req.Latitude == nil || req.Longitude == nil || req.RadiusKm == nil
}

func (a *API) handlePerimeter(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getPerimeter(w, r)
	case http.MethodPost:
		a.setPerimeter(w, r)
	case http.MethodDelete:
		a.clearPerimeter(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

// getPerimeter is readable by any authenticated caller: workers need the
// fence to pre-check their position before clocking in.
func (a *API) getPerimeter(w http.ResponseWriter, r *http.Request) {
	cfg, err := a.perimeters.Latest(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "perimeter lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"perimeter": cfg,
	})
}

func (a *API) setPerimeter(w http.ResponseWriter, r *http.Request) {
	if err := a.requireManager(r); err != nil {
		writeError(w, r, http.StatusForbidden, "manager access required")
		return
	}

	var req setPerimeterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.clearRequested() {
		if err := a.perimeters.Clear(r.Context()); err != nil {
			writeError(w, r, http.StatusInternalServerError, "perimeter clear failed")
			return
		}
		_ = audit.LogEvent(r.Context(), "perimeter.clear", map[string]any{})
		writeJSON(w, http.StatusOK, map[string]any{
			"perimeter": nil,
		})
		return
	}

	cfg, err := a.perimeters.Upsert(r.Context(), perimeter.Config{
		Center:   geo.Coordinate{Lat: *req.Latitude, Long: *req.Longitude},
		RadiusKm: *req.RadiusKm,
	})
	if err != nil {
		if errors.Is(err, perimeter.ErrInvalidConfig) {
			writeError(w, r, http.StatusBadRequest, "invalid perimeter configuration")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "perimeter update failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "perimeter.set", map[string]any{
		"center":    cfg.Center.String(),
		"radius_km": fmt.Sprintf("%g", cfg.RadiusKm),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"perimeter": cfg,
	})
}

func (a *API) clearPerimeter(w http.ResponseWriter, r *http.Request) {
	if err := a.requireManager(r); err != nil {
		writeError(w, r, http.StatusForbidden, "manager access required")
		return
	}
	if err := a.perimeters.Clear(r.Context()); err != nil {
		writeError(w, r, http.StatusInternalServerError, "perimeter clear failed")
		return
	}
	_ = audit.LogEvent(r.Context(), "perimeter.clear", map[string]any{})
	writeJSON(w, http.StatusOK, map[string]any{
		"perimeter": nil,
	})
}
