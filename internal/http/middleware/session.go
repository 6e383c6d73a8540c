package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/careorbit/careportal/internal/session"
)

type contextKey string

const principalKey contextKey = "principal"

// LoadSession resolves the signed session cookie into a Principal and puts
// it on the request context. An absent or invalid cookie is not an error
// here; RequireSession decides what to do about it.
func LoadSession(codec *session.CookieCodec, store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessionID, ok := codec.Read(r); ok {
				if p, err := store.Get(r.Context(), sessionID); err == nil {
					ctx := context.WithValue(r.Context(), principalKey, p)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession gates routes that need a principal. Without one, a browser
// navigation is redirected to /login and an API call gets 401 — in both
// cases before any backend request is issued.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			if wantsHTML(r) {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalFromContext returns the authenticated principal if present.
func PrincipalFromContext(ctx context.Context) (session.Principal, bool) {
	p, ok := ctx.Value(principalKey).(session.Principal)
	return p, ok
}

// WithPrincipal injects a principal into a context. Used by tests and the
// login handler.
func WithPrincipal(ctx context.Context, p session.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}
