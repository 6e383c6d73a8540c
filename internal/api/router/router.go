// Package router wires every portal route behind one chi router.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/careorbit/careportal/internal/auth"
	"github.com/careorbit/careportal/internal/chat"
	"github.com/careorbit/careportal/internal/dashboard"
	"github.com/careorbit/careportal/internal/history"
	httpmiddleware "github.com/careorbit/careportal/internal/http/middleware"
	"github.com/careorbit/careportal/internal/session"
	"github.com/careorbit/careportal/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	CORSAllowedOrigins []string

	SessionCodec *session.CookieCodec
	SessionStore session.Store

	Auth       *auth.Handler
	Patient    *dashboard.PatientHandler
	Doctor     *dashboard.DoctorHandler
	Pharmacist *dashboard.PharmacistHandler
	Nurse      *dashboard.NurseHandler
	LabTech    *dashboard.LabTechHandler
	Admin      *dashboard.AdminHandler
	History    *history.Handler
	Chat       *chat.Handler

	MetricsHandler http.Handler
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	r.Use(httpmiddleware.LoadSession(cfg.SessionCodec, cfg.SessionStore))

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/health", handleHealth)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Post("/login", cfg.Auth.Login)
		public.Post("/logout", cfg.Auth.Logout)
		// An authenticated user revisiting the login page goes straight to
		// their dashboard.
		public.Get("/login", func(w http.ResponseWriter, r *http.Request) {
			if p, ok := httpmiddleware.PrincipalFromContext(r.Context()); ok {
				http.Redirect(w, r, session.RoleHome(p.Role), http.StatusFound)
				return
			}
			respondJSON(w, http.StatusOK, map[string]string{"page": "login"})
		})
	})

	// Everything below requires an authenticated session; role checks
	// happen inside each handler.
	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.RequireSession)

		private.Route("/patient", func(r chi.Router) {
			r.Get("/", cfg.Patient.Dashboard)
			r.Post("/appointments", cfg.Patient.BookAppointment)
			r.Post("/appointments/{id}/cancel", cfg.Patient.CancelAppointment)
			r.Get("/medical-history", cfg.History.Show)
		})

		private.Route("/doctor", func(r chi.Router) {
			r.Get("/", cfg.Doctor.Dashboard)
			r.Post("/reports", cfg.Doctor.CreateReport)
			r.Post("/prescriptions", cfg.Doctor.CreatePrescription)
			r.Post("/lab-orders", cfg.Doctor.CreateLabOrder)
		})

		private.Route("/pharmacist", func(r chi.Router) {
			r.Get("/", cfg.Pharmacist.Dashboard)
			r.Post("/fulfill", cfg.Pharmacist.Fulfill)
		})

		private.Route("/nurse", func(r chi.Router) {
			r.Get("/", cfg.Nurse.Dashboard)
			r.Post("/vitals", cfg.Nurse.RecordVitals)
		})

		private.Route("/labtech", func(r chi.Router) {
			r.Get("/", cfg.LabTech.Dashboard)
			r.Get("/templates", cfg.LabTech.Templates)
			r.Post("/results", cfg.LabTech.RecordResult)
		})

		private.Route("/admin", func(r chi.Router) {
			r.Get("/", cfg.Admin.Dashboard)
			r.Post("/users", cfg.Admin.CreateUser)
			r.Delete("/users/{id}", cfg.Admin.DeleteUser)
		})

		private.Get("/patients/{patientID}/medical-history", cfg.History.Show)
		private.Get("/history", cfg.History.Show)
		private.Get("/history/{patientID}", cfg.History.Show)

		private.Route("/chat", func(r chi.Router) {
			r.Get("/session", cfg.Chat.HandleSession)
			r.Post("/message", cfg.Chat.HandleMessage)
			r.Get("/ws", cfg.Chat.HandleWebSocket)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
