package dashboard

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/careorbit/careportal/internal/session"
	"github.com/careorbit/careportal/internal/upstream"
	"github.com/careorbit/careportal/internal/viewmodel"
	"github.com/careorbit/careportal/pkg/logging"
)

// DoctorConfig carries the doctor dashboard's dependencies.
type DoctorConfig struct {
	Doctors       *upstream.DoctorsClient
	Patients      *upstream.PatientsClient
	Appointments  *upstream.AppointmentsClient
	Prescriptions *upstream.PrescriptionsClient
	Lab           *upstream.LabClient
	Records       *upstream.RecordsClient
	Logger        *logging.Logger
}

type DoctorHandler struct {
	doctors       *upstream.DoctorsClient
	patients      *upstream.PatientsClient
	appointments  *upstream.AppointmentsClient
	prescriptions *upstream.PrescriptionsClient
	lab           *upstream.LabClient
	records       *upstream.RecordsClient
	logger        *logging.Logger
}

func NewDoctorHandler(cfg DoctorConfig) *DoctorHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &DoctorHandler{
		doctors:       cfg.Doctors,
		patients:      cfg.Patients,
		appointments:  cfg.Appointments,
		prescriptions: cfg.Prescriptions,
		lab:           cfg.Lab,
		records:       cfg.Records,
		logger:        logger,
	}
}

// DoctorView is the doctor dashboard payload.
type DoctorView struct {
	Profile            viewmodel.ProfileSection     `json:"profile"`
	Appointments       []viewmodel.AppointmentView  `json:"appointments"`
	AppointmentsError  string                       `json:"appointments_error,omitempty"`
	Prescriptions      []viewmodel.PrescriptionView `json:"prescriptions"`
	PrescriptionsError string                       `json:"prescriptions_error,omitempty"`
	LabOrders          []viewmodel.LabOrderView     `json:"lab_orders"`
	LabOrdersError     string                       `json:"lab_orders_error,omitempty"`
	Patients           []PersonOption               `json:"patients"`
	PatientsError      string                       `json:"patients_error,omitempty"`
}

// Dashboard handles GET /doctor.
func (h *DoctorHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RoleDoctor)
	if !ok {
		return
	}
	ctx := r.Context()

	var (
		wg          sync.WaitGroup
		profile     *upstream.Profile
		profileErr  error
		appts       []upstream.Appointment
		apptsErr    error
		scripts     []upstream.Prescription
		scriptsErr  error
		orders      []upstream.LabOrder
		ordersErr   error
		patients    []upstream.Profile
		patientsErr error
	)
	wg.Add(5)
	go func() { defer wg.Done(); profile, profileErr = h.doctors.Profile(ctx, p.ID) }()
	go func() {
		defer wg.Done()
		appts, apptsErr = h.appointments.List(ctx, upstream.AppointmentFilter{DoctorUserID: p.ID})
	}()
	go func() {
		defer wg.Done()
		scripts, scriptsErr = h.prescriptions.List(ctx, upstream.PrescriptionFilter{DoctorUserID: p.ID})
	}()
	go func() {
		defer wg.Done()
		orders, ordersErr = h.lab.ListOrders(ctx, upstream.OrderFilter{DoctorUserID: p.ID})
	}()
	go func() { defer wg.Done(); patients, patientsErr = h.patients.List(ctx) }()
	wg.Wait()

	if profileErr != nil {
		h.logger.Error("doctor profile load failed", "user_id", p.ID, "error", profileErr)
		jsonError(w, statusFor(profileErr), upstream.UserMessage("load doctor profile", profileErr))
		return
	}

	view := DoctorView{
		Profile:       viewmodel.ProfileSectionFrom(profile),
		Appointments:  viewmodel.AppointmentsFrom(appts),
		Prescriptions: viewmodel.PrescriptionsFrom(scripts),
		LabOrders:     viewmodel.LabOrdersFrom(orders),
		Patients:      optionsFrom(patients),
	}
	if apptsErr != nil {
		view.AppointmentsError = upstream.UserMessage("load appointments", apptsErr)
	}
	if scriptsErr != nil {
		view.PrescriptionsError = upstream.UserMessage("load prescriptions", scriptsErr)
	}
	if ordersErr != nil {
		view.LabOrdersError = upstream.UserMessage("load lab orders", ordersErr)
	}
	if patientsErr != nil {
		view.PatientsError = upstream.UserMessage("load patients", patientsErr)
	}
	respondJSON(w, http.StatusOK, view)
}

type createReportForm struct {
	PatientUserID string `json:"patient_user_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
}

// CreateReport handles POST /doctor/reports.
func (h *DoctorHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RoleDoctor)
	if !ok {
		return
	}
	var form createReportForm
	if !decodeJSON(w, r, &form) {
		return
	}
	if form.PatientUserID == "" {
		jsonError(w, http.StatusBadRequest, "Please select a patient.")
		return
	}
	if strings.TrimSpace(form.Title) == "" || strings.TrimSpace(form.Content) == "" {
		jsonError(w, http.StatusBadRequest, "Title and content are required.")
		return
	}

	report, err := h.records.CreateReport(r.Context(), upstream.CreateReportRequest{
		PatientUserID: form.PatientUserID,
		DoctorUserID:  p.ID,
		Title:         strings.TrimSpace(form.Title),
		Content:       form.Content,
		ReportDate:    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		jsonError(w, statusFor(err), upstream.UserMessage("submit report", err))
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"report": report})
}

type createPrescriptionForm struct {
	PatientUserID  string `json:"patient_user_id"`
	MedicationName string `json:"medication_name"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	Duration       string `json:"duration"`
	Notes          string `json:"notes"`
}

// CreatePrescription handles POST /doctor/prescriptions.
func (h *DoctorHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RoleDoctor)
	if !ok {
		return
	}
	var form createPrescriptionForm
	if !decodeJSON(w, r, &form) {
		return
	}
	if form.PatientUserID == "" {
		jsonError(w, http.StatusBadRequest, "Please select a patient.")
		return
	}
	if strings.TrimSpace(form.MedicationName) == "" {
		jsonError(w, http.StatusBadRequest, "Medication name is required.")
		return
	}
	if form.Dosage == "" || form.Frequency == "" || form.Duration == "" {
		jsonError(w, http.StatusBadRequest, "Dosage, frequency and duration are required.")
		return
	}

	created, err := h.prescriptions.Create(r.Context(), upstream.CreatePrescriptionRequest{
		PatientUserID:    form.PatientUserID,
		DoctorUserID:     p.ID,
		MedicationName:   strings.TrimSpace(form.MedicationName),
		Dosage:           form.Dosage,
		Frequency:        form.Frequency,
		Duration:         form.Duration,
		Notes:            form.Notes,
		PrescriptionDate: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		jsonError(w, statusFor(err), upstream.UserMessage("create prescription", err))
		return
	}

	scripts, listErr := h.prescriptions.List(r.Context(), upstream.PrescriptionFilter{DoctorUserID: p.ID})
	resp := struct {
		Prescription       viewmodel.PrescriptionView   `json:"prescription"`
		Prescriptions      []viewmodel.PrescriptionView `json:"prescriptions"`
		PrescriptionsError string                       `json:"prescriptions_error,omitempty"`
	}{
		Prescription:  viewmodel.PrescriptionFrom(*created),
		Prescriptions: viewmodel.PrescriptionsFrom(scripts),
	}
	if listErr != nil {
		resp.PrescriptionsError = upstream.UserMessage("load prescriptions", listErr)
	}
	respondJSON(w, http.StatusCreated, resp)
}

type createLabOrderForm struct {
	PatientUserID string `json:"patient_user_id"`
	TestType      string `json:"test_type"`
	Notes         string `json:"notes"`
}

// CreateLabOrder handles POST /doctor/lab-orders.
func (h *DoctorHandler) CreateLabOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RoleDoctor)
	if !ok {
		return
	}
	var form createLabOrderForm
	if !decodeJSON(w, r, &form) {
		return
	}
	if form.PatientUserID == "" {
		jsonError(w, http.StatusBadRequest, "Please select a patient.")
		return
	}
	if strings.TrimSpace(form.TestType) == "" {
		jsonError(w, http.StatusBadRequest, "Test type is required.")
		return
	}

	created, err := h.lab.CreateOrder(r.Context(), upstream.CreateLabOrderRequest{
		PatientUserID: form.PatientUserID,
		DoctorUserID:  p.ID,
		TestType:      strings.TrimSpace(form.TestType),
		Notes:         form.Notes,
		OrderDate:     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		jsonError(w, statusFor(err), upstream.UserMessage("order lab test", err))
		return
	}

	orders, listErr := h.lab.ListOrders(r.Context(), upstream.OrderFilter{DoctorUserID: p.ID})
	resp := struct {
		LabOrder       viewmodel.LabOrderView   `json:"lab_order"`
		LabOrders      []viewmodel.LabOrderView `json:"lab_orders"`
		LabOrdersError string                   `json:"lab_orders_error,omitempty"`
	}{
		LabOrder:  viewmodel.LabOrderFrom(*created),
		LabOrders: viewmodel.LabOrdersFrom(orders),
	}
	if listErr != nil {
		resp.LabOrdersError = upstream.UserMessage("load lab orders", listErr)
	}
	respondJSON(w, http.StatusCreated, resp)
}
