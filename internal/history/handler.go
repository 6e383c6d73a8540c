// Package history renders the consolidated medical history view. The
// records service assembles the bundle; this handler only resolves which
// patient is being viewed and translates the bundle's sections.
package history

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careorbit/careportal/internal/http/middleware"
	"github.com/careorbit/careportal/internal/session"
	"github.com/careorbit/careportal/internal/upstream"
	"github.com/careorbit/careportal/internal/viewmodel"
	"github.com/careorbit/careportal/pkg/logging"
)

// Config carries the handler's dependencies.
type Config struct {
	Records *upstream.RecordsClient
	Logger  *logging.Logger
}

type Handler struct {
	records *upstream.RecordsClient
	logger  *logging.Logger
}

func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{records: cfg.Records, logger: logger}
}

// View is the rendered history bundle. Each section degrades independently:
// a failed section carries its error next to an empty list, never instead of
// the rest of the page.
type View struct {
	PatientID       string                    `json:"patient_id"`
	Patient         viewmodel.Field           `json:"patient"`
	Profile         *upstream.Profile         `json:"profile,omitempty"`
	ProfileError    string                    `json:"profile_error,omitempty"`
	Vitals          []viewmodel.VitalsView    `json:"vitals"`
	VitalsError     string                    `json:"vitals_error,omitempty"`
	LabOrders       []viewmodel.LabOrderView  `json:"lab_orders"`
	LabOrdersError  string                    `json:"lab_orders_error,omitempty"`
	LabResults      []viewmodel.LabResultView `json:"lab_results"`
	LabResultsError string                    `json:"lab_results_error,omitempty"`
	Reports         []upstream.DoctorReport   `json:"reports"`
	ReportsError    string                    `json:"reports_error,omitempty"`
	BackRoute       string                    `json:"back_route"`
}

// Show handles GET /history and GET /history/{patientID}. The route
// parameter wins; a patient without one falls back to their own record.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	back := session.RoleHome(p.Role)

	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		if p.Role != session.RolePatient {
			h.error(w, http.StatusBadRequest, "Invalid access: Patient ID not specified.", back)
			return
		}
		patientID = p.ID
	}
	if p.Role == session.RolePatient && patientID != p.ID {
		h.error(w, http.StatusForbidden, "Access denied.", back)
		return
	}

	bundle, err := h.records.MedicalHistory(r.Context(), patientID)
	if err != nil {
		h.logger.Error("medical history load failed", "patient_id", patientID, "error", err)
		status := http.StatusBadGateway
		if s := upstream.StatusOf(err); s > 0 {
			status = s
		}
		h.error(w, status, upstream.UserMessage("load medical history", err), back)
		return
	}

	view := View{
		PatientID:  patientID,
		Patient:    viewmodel.RelatedPerson(bundle.PatientIdentity, bundle.PatientIdentityError),
		Profile:    bundle.PatientProfile,
		Vitals:     viewmodel.VitalsListFrom(bundle.VitalsHistory),
		LabOrders:  viewmodel.LabOrdersFrom(bundle.LabOrders),
		LabResults: viewmodel.LabResultsFrom(bundle.LabResults),
		Reports:    bundle.DoctorReports,
		BackRoute:  back,
	}
	if view.Reports == nil {
		view.Reports = []upstream.DoctorReport{}
	}
	view.ProfileError = bundle.PatientProfileError
	view.VitalsError = bundle.VitalsHistoryError
	view.LabOrdersError = bundle.LabOrdersError
	view.LabResultsError = bundle.LabResultsError
	view.ReportsError = bundle.DoctorReportsError

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(view)
}

func (h *Handler) error(w http.ResponseWriter, status int, message, back string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "back_route": back})
}
