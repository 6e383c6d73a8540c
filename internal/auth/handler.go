// Package auth implements the portal's login and logout endpoints. A login
// proxies credentials to the identity service, stores the returned identity
// as the session principal, and issues the signed session cookie.
package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/careorbit/careportal/internal/observability/metrics"
	"github.com/careorbit/careportal/internal/session"
	"github.com/careorbit/careportal/internal/upstream"
	"github.com/careorbit/careportal/pkg/logging"
)

// Config carries the handler's dependencies.
type Config struct {
	Identity *upstream.IdentityClient
	Sessions session.Store
	Cookies  *session.CookieCodec
	Logger   *logging.Logger
	Metrics  *metrics.PortalMetrics
}

type Handler struct {
	identity *upstream.IdentityClient
	sessions session.Store
	cookies  *session.CookieCodec
	logger   *logging.Logger
	metrics  *metrics.PortalMetrics
}

func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		identity: cfg.Identity,
		sessions: cfg.Sessions,
		cookies:  cfg.Cookies,
		logger:   logger,
		metrics:  cfg.Metrics,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User       session.Principal `json:"user"`
	RedirectTo string            `json:"redirect_to"`
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	identity, err := h.identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.metrics.ObserveLogin("failure")
		if upstream.StatusOf(err) == http.StatusUnauthorized {
			jsonError(w, http.StatusUnauthorized, "Invalid username or password.")
			return
		}
		h.logger.Error("login upstream failure", "error", err)
		jsonError(w, statusFor(err), upstream.UserMessage("log in", err))
		return
	}

	role, ok := session.ParseRole(identity.UserType)
	if !ok {
		h.metrics.ObserveLogin("failure")
		h.logger.Warn("login with unsupported user type", "user_type", identity.UserType)
		jsonError(w, http.StatusForbidden, "Unsupported account type.")
		return
	}

	principal := session.Principal{
		ID:        identity.ID,
		Role:      role,
		Username:  identity.Username,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
	}
	sessionID, err := h.sessions.Create(r.Context(), principal)
	if err != nil {
		h.metrics.ObserveLogin("failure")
		h.logger.Error("session create failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "Failed to establish session.")
		return
	}
	if err := h.cookies.Issue(w, sessionID); err != nil {
		h.metrics.ObserveLogin("failure")
		h.logger.Error("session cookie issue failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "Failed to establish session.")
		return
	}

	h.metrics.ObserveLogin("success")
	h.logger.Info("login", "username", principal.Username, "role", string(role))
	respondJSON(w, http.StatusOK, loginResponse{
		User:       principal,
		RedirectTo: session.RoleHome(role),
	})
}

// Logout handles POST /logout. It is idempotent: an absent session still
// clears the cookie and reports success.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := h.cookies.Read(r); ok {
		if err := h.sessions.Delete(r.Context(), sessionID); err != nil {
			h.logger.Warn("session delete failed", "error", err)
		}
	}
	h.cookies.Clear(w)
	respondJSON(w, http.StatusOK, map[string]string{"redirect_to": "/login"})
}

// statusFor maps an upstream failure to the status the portal answers with.
// Transport failures mean the backend never answered.
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
