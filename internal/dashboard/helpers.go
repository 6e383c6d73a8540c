// Package dashboard implements the six role dashboards. Every handler
// self-checks the session role before touching a backend, fans reads out
// concurrently, and degrades per collection: a failed profile fetch fails the
// whole page, a failed collection renders as an empty list plus a warning.
package dashboard

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/careorbit/careportal/internal/http/middleware"
	"github.com/careorbit/careportal/internal/session"
	"github.com/careorbit/careportal/internal/upstream"
)

// requireRole resolves the principal and enforces the dashboard's role.
// A mismatched browser navigation bounces to /login before any backend
// request; everything else gets a 403.
func requireRole(w http.ResponseWriter, r *http.Request, want session.Role) (session.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok || p.Role != want {
		if r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html") {
			http.Redirect(w, r, "/login", http.StatusFound)
		} else {
			jsonError(w, http.StatusForbidden, "Access denied.")
		}
		return session.Principal{}, false
	}
	return p, true
}

// statusFor maps an upstream failure onto the portal's own response status.
func statusFor(err error) int {
	if status := upstream.StatusOf(err); status > 0 {
		return status
	}
	return http.StatusBadGateway
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}

// PersonOption is one entry of a selection list backing a form.
type PersonOption struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func optionsFrom(profiles []upstream.Profile) []PersonOption {
	out := make([]PersonOption, 0, len(profiles))
	for _, p := range profiles {
		name := strings.TrimSpace(p.FirstName + " " + p.LastName)
		if name == "" {
			name = p.Username
		}
		if p.Specialization != "" {
			name += " (" + p.Specialization + ")"
		}
		out = append(out, PersonOption{UserID: p.UserID, Name: name})
	}
	return out
}
