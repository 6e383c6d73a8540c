package dashboard

import (
	"net/http"
	"sync"
	"time"

	"github.com/careorbit/careportal/internal/session"
	"github.com/careorbit/careportal/internal/upstream"
	"github.com/careorbit/careportal/internal/viewmodel"
	"github.com/careorbit/careportal/pkg/logging"
)

// PatientConfig carries the patient dashboard's dependencies.
type PatientConfig struct {
	Patients      *upstream.PatientsClient
	Doctors       *upstream.DoctorsClient
	Appointments  *upstream.AppointmentsClient
	Prescriptions *upstream.PrescriptionsClient
	Logger        *logging.Logger
}

type PatientHandler struct {
	patients      *upstream.PatientsClient
	doctors       *upstream.DoctorsClient
	appointments  *upstream.AppointmentsClient
	prescriptions *upstream.PrescriptionsClient
	logger        *logging.Logger
}

func NewPatientHandler(cfg PatientConfig) *PatientHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &PatientHandler{
		patients:      cfg.Patients,
		doctors:       cfg.Doctors,
		appointments:  cfg.Appointments,
		prescriptions: cfg.Prescriptions,
		logger:        logger,
	}
}

// PatientView is the patient dashboard payload.
type PatientView struct {
	Profile            viewmodel.ProfileSection     `json:"profile"`
	Appointments       []viewmodel.AppointmentView  `json:"appointments"`
	AppointmentsError  string                       `json:"appointments_error,omitempty"`
	Prescriptions      []viewmodel.PrescriptionView `json:"prescriptions"`
	PrescriptionsError string                       `json:"prescriptions_error,omitempty"`
	Doctors            []PersonOption               `json:"doctors"`
	DoctorsError       string                       `json:"doctors_error,omitempty"`
}

// Dashboard handles GET /patient.
func (h *PatientHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RolePatient)
	if !ok {
		return
	}
	ctx := r.Context()

	var (
		wg         sync.WaitGroup
		profile    *upstream.Profile
		profileErr error
		appts      []upstream.Appointment
		apptsErr   error
		scripts    []upstream.Prescription
		scriptsErr error
		doctors    []upstream.Profile
		doctorsErr error
	)
	wg.Add(4)
	go func() { defer wg.Done(); profile, profileErr = h.patients.Profile(ctx, p.ID) }()
	go func() {
		defer wg.Done()
		appts, apptsErr = h.appointments.List(ctx, upstream.AppointmentFilter{PatientUserID: p.ID})
	}()
	go func() {
		defer wg.Done()
		scripts, scriptsErr = h.prescriptions.List(ctx, upstream.PrescriptionFilter{PatientUserID: p.ID})
	}()
	go func() { defer wg.Done(); doctors, doctorsErr = h.doctors.List(ctx) }()
	wg.Wait()

	if profileErr != nil {
		h.logger.Error("patient profile load failed", "user_id", p.ID, "error", profileErr)
		jsonError(w, statusFor(profileErr), upstream.UserMessage("load patient profile", profileErr))
		return
	}

	view := PatientView{
		Profile:       viewmodel.ProfileSectionFrom(profile),
		Appointments:  viewmodel.AppointmentsFrom(appts),
		Prescriptions: viewmodel.PrescriptionsFrom(scripts),
		Doctors:       optionsFrom(doctors),
	}
	if apptsErr != nil {
		view.AppointmentsError = upstream.UserMessage("load appointments", apptsErr)
	}
	if scriptsErr != nil {
		view.PrescriptionsError = upstream.UserMessage("load prescriptions", scriptsErr)
	}
	if doctorsErr != nil {
		view.DoctorsError = upstream.UserMessage("load doctors", doctorsErr)
	}
	respondJSON(w, http.StatusOK, view)
}

type bookAppointmentForm struct {
	DoctorUserID string `json:"doctor_user_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

// BookAppointment handles POST /patient/appointments. Slots are fixed at
// two hours, expressed in UTC.
func (h *PatientHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RolePatient)
	if !ok {
		return
	}
	var form bookAppointmentForm
	if !decodeJSON(w, r, &form) {
		return
	}
	if form.DoctorUserID == "" {
		jsonError(w, http.StatusBadRequest, "Please select a doctor.")
		return
	}
	if form.Date == "" || form.Time == "" {
		jsonError(w, http.StatusBadRequest, "Please choose a date and time.")
		return
	}
	start, err := time.Parse("2006-01-02T15:04", form.Date+"T"+form.Time)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid date or time.")
		return
	}

	booked, err := h.appointments.Book(r.Context(), upstream.BookAppointmentRequest{
		PatientUserID: p.ID,
		DoctorUserID:  form.DoctorUserID,
		StartTime:     form.Date + "T" + form.Time + ":00Z",
		EndTime:       start.Add(2 * time.Hour).UTC().Format(time.RFC3339),
	})
	if err != nil {
		if ue, isUpstream := upstream.AsError(err); isUpstream && ue.Status == http.StatusConflict {
			msg := "Doctor not available."
			if ue.Kind == upstream.KindStructured {
				msg = ue.Message
			}
			jsonError(w, http.StatusConflict, msg)
			return
		}
		jsonError(w, statusFor(err), upstream.UserMessage("book appointment", err))
		return
	}

	// Re-read rather than patch the list locally; the service owns ordering
	// and any state it derived from the booking.
	appts, listErr := h.appointments.List(r.Context(), upstream.AppointmentFilter{PatientUserID: p.ID})
	resp := struct {
		Appointment       viewmodel.AppointmentView   `json:"appointment"`
		Appointments      []viewmodel.AppointmentView `json:"appointments"`
		AppointmentsError string                      `json:"appointments_error,omitempty"`
	}{
		Appointment:  viewmodel.AppointmentFrom(*booked),
		Appointments: viewmodel.AppointmentsFrom(appts),
	}
	if listErr != nil {
		resp.AppointmentsError = upstream.UserMessage("load appointments", listErr)
	}
	respondJSON(w, http.StatusCreated, resp)
}

// CancelAppointment handles POST /patient/appointments/{id}/cancel. The
// appointment service has no cancellation endpoint yet, so the portal
// answers honestly instead of pretending.
func (h *PatientHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, session.RolePatient); !ok {
		return
	}
	jsonError(w, http.StatusNotImplemented, "Appointment cancellation is not supported yet.")
}
