package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"shiftclock.org/internal/audit"
	"shiftclock.org/internal/roster"
)

func (a *API) handleManagersCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if err := a.requireManager(r); err != nil {
		writeError(w, r, http.StatusForbidden, "manager access required")
		return
	}

	emails, err := a.managers.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "roster listing failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"managers": emails,
	})
}

func (a *API) handleManagerResource(w http.ResponseWriter, r *http.Request) {
	if err := a.requireManager(r); err != nil {
		writeError(w, r, http.StatusForbidden, "manager access required")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/v1/managers/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid email")
		return
	}
	email := roster.Normalize(decoded)
	if email == "" || !strings.Contains(email, "@") {
		writeError(w, r, http.StatusBadRequest, "invalid email")
		return
	}

	switch r.Method {
	case http.MethodPut:
		if err := a.managers.Add(r.Context(), email); err != nil {
			writeError(w, r, http.StatusInternalServerError, "roster update failed")
			return
		}
		_ = audit.LogEvent(r.Context(), "roster.add", map[string]any{
			"manager_email": email,
		})
		writeJSON(w, http.StatusOK, map[string]any{
			"email":   email,
			"manager": true,
		})
	case http.MethodDelete:
		if err := a.managers.Remove(r.Context(), email); err != nil {
			writeError(w, r, http.StatusInternalServerError, "roster update failed")
			return
		}
		_ = audit.LogEvent(r.Context(), "roster.remove", map[string]any{
			"manager_email": email,
		})
		writeJSON(w, http.StatusOK, map[string]any{
			"email":   email,
			"manager": false,
		})
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}
