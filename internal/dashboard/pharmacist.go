package dashboard

import (
	"net/http"
	"sync"

	"github.com/careorbit/careportal/internal/session"
	"github.com/careorbit/careportal/internal/upstream"
	"github.com/careorbit/careportal/internal/viewmodel"
	"github.com/careorbit/careportal/pkg/logging"
)

// PharmacistConfig carries the pharmacist dashboard's dependencies.
type PharmacistConfig struct {
	Pharmacists   *upstream.PharmacistsClient
	Prescriptions *upstream.PrescriptionsClient
	Logger        *logging.Logger
}

type PharmacistHandler struct {
	pharmacists   *upstream.PharmacistsClient
	prescriptions *upstream.PrescriptionsClient
	logger        *logging.Logger
}

func NewPharmacistHandler(cfg PharmacistConfig) *PharmacistHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &PharmacistHandler{
		pharmacists:   cfg.Pharmacists,
		prescriptions: cfg.Prescriptions,
		logger:        logger,
	}
}

// PharmacistView is the pharmacist dashboard payload. Only active
// prescriptions are queued for dispensing.
type PharmacistView struct {
	Profile            viewmodel.ProfileSection     `json:"profile"`
	Prescriptions      []viewmodel.PrescriptionView `json:"prescriptions"`
	PrescriptionsError string                       `json:"prescriptions_error,omitempty"`
}

// Dashboard handles GET /pharmacist.
func (h *PharmacistHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RolePharmacist)
	if !ok {
		return
	}
	ctx := r.Context()

	var (
		wg         sync.WaitGroup
		profile    *upstream.Profile
		profileErr error
		scripts    []upstream.Prescription
		scriptsErr error
	)
	wg.Add(2)
	go func() { defer wg.Done(); profile, profileErr = h.pharmacists.Profile(ctx, p.ID) }()
	go func() {
		defer wg.Done()
		scripts, scriptsErr = h.prescriptions.List(ctx, upstream.PrescriptionFilter{Status: upstream.PrescriptionActive})
	}()
	wg.Wait()

	if profileErr != nil {
		h.logger.Error("pharmacist profile load failed", "user_id", p.ID, "error", profileErr)
		jsonError(w, statusFor(profileErr), upstream.UserMessage("load pharmacist profile", profileErr))
		return
	}

	view := PharmacistView{
		Profile:       viewmodel.ProfileSectionFrom(profile),
		Prescriptions: viewmodel.PrescriptionsFrom(scripts),
	}
	if scriptsErr != nil {
		view.PrescriptionsError = upstream.UserMessage("load prescriptions", scriptsErr)
	}
	respondJSON(w, http.StatusOK, view)
}

type fulfillForm struct {
	PrescriptionID string `json:"prescription_id"`
}

// Fulfill handles POST /pharmacist/fulfill.
func (h *PharmacistHandler) Fulfill(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RolePharmacist)
	if !ok {
		return
	}
	var form fulfillForm
	if !decodeJSON(w, r, &form) {
		return
	}
	if form.PrescriptionID == "" {
		jsonError(w, http.StatusBadRequest, "Please select a prescription.")
		return
	}

	if err := h.pharmacists.Fulfill(r.Context(), form.PrescriptionID, p.ID); err != nil {
		jsonError(w, statusFor(err), upstream.UserMessage("fulfill prescription", err))
		return
	}

	scripts, listErr := h.prescriptions.List(r.Context(), upstream.PrescriptionFilter{Status: upstream.PrescriptionActive})
	resp := struct {
		Prescriptions      []viewmodel.PrescriptionView `json:"prescriptions"`
		PrescriptionsError string                       `json:"prescriptions_error,omitempty"`
	}{Prescriptions: viewmodel.PrescriptionsFrom(scripts)}
	if listErr != nil {
		resp.PrescriptionsError = upstream.UserMessage("load prescriptions", listErr)
	}
	respondJSON(w, http.StatusOK, resp)
}
