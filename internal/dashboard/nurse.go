package dashboard

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/careorbit/careportal/internal/session"
	"github.com/careorbit/careportal/internal/upstream"
	"github.com/careorbit/careportal/internal/viewmodel"
	"github.com/careorbit/careportal/pkg/logging"
)

// NurseConfig carries the nurse dashboard's dependencies.
type NurseConfig struct {
	Nurses   *upstream.NursesClient
	Patients *upstream.PatientsClient
	Logger   *logging.Logger
}

type NurseHandler struct {
	nurses   *upstream.NursesClient
	patients *upstream.PatientsClient
	logger   *logging.Logger
}

func NewNurseHandler(cfg NurseConfig) *NurseHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &NurseHandler{nurses: cfg.Nurses, patients: cfg.Patients, logger: logger}
}

// NurseView is the nurse dashboard payload.
type NurseView struct {
	Profile       viewmodel.ProfileSection `json:"profile"`
	Vitals        []viewmodel.VitalsView   `json:"vitals"`
	VitalsError   string                   `json:"vitals_error,omitempty"`
	Patients      []PersonOption           `json:"patients"`
	PatientsError string                   `json:"patients_error,omitempty"`
}

// Dashboard handles GET /nurse.
func (h *NurseHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RoleNurse)
	if !ok {
		return
	}
	ctx := r.Context()

	var (
		wg          sync.WaitGroup
		profile     *upstream.Profile
		profileErr  error
		vitals      []upstream.VitalsRecord
		vitalsErr   error
		patients    []upstream.Profile
		patientsErr error
	)
	wg.Add(3)
	go func() { defer wg.Done(); profile, profileErr = h.nurses.Profile(ctx, p.ID) }()
	go func() {
		defer wg.Done()
		vitals, vitalsErr = h.nurses.ListVitals(ctx, upstream.VitalsFilter{NurseUserID: p.ID})
	}()
	go func() { defer wg.Done(); patients, patientsErr = h.patients.List(ctx) }()
	wg.Wait()

	if profileErr != nil {
		h.logger.Error("nurse profile load failed", "user_id", p.ID, "error", profileErr)
		jsonError(w, statusFor(profileErr), upstream.UserMessage("load nurse profile", profileErr))
		return
	}

	view := NurseView{
		Profile:  viewmodel.ProfileSectionFrom(profile),
		Vitals:   viewmodel.VitalsListFrom(vitals),
		Patients: optionsFrom(patients),
	}
	if vitalsErr != nil {
		view.VitalsError = upstream.UserMessage("load vitals records", vitalsErr)
	}
	if patientsErr != nil {
		view.PatientsError = upstream.UserMessage("load patients", patientsErr)
	}
	respondJSON(w, http.StatusOK, view)
}

// recordVitalsForm takes measurements as strings straight off the form;
// blank means "not measured" and is never coerced to zero.
type recordVitalsForm struct {
	PatientUserID          string `json:"patient_user_id"`
	TemperatureCelsius     string `json:"temperature_celsius"`
	BloodPressureSystolic  string `json:"blood_pressure_systolic"`
	BloodPressureDiastolic string `json:"blood_pressure_diastolic"`
	HeartRateBPM           string `json:"heart_rate_bpm"`
	RespiratoryRateBPM     string `json:"respiratory_rate_bpm"`
	OxygenSaturation       string `json:"oxygen_saturation_percentage"`
	Notes                  string `json:"notes"`
}

// RecordVitals handles POST /nurse/vitals.
func (h *NurseHandler) RecordVitals(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RoleNurse)
	if !ok {
		return
	}
	var form recordVitalsForm
	if !decodeJSON(w, r, &form) {
		return
	}
	if form.PatientUserID == "" {
		jsonError(w, http.StatusBadRequest, "Please select a patient.")
		return
	}

	req := upstream.CreateVitalsRequest{
		PatientUserID: form.PatientUserID,
		NurseUserID:   p.ID,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Notes:         form.Notes,
	}
	measurements := []struct {
		label string
		raw   string
		dst   **float64
	}{
		{"Temperature", form.TemperatureCelsius, &req.TemperatureCelsius},
		{"Blood pressure (systolic)", form.BloodPressureSystolic, &req.BloodPressureSystolic},
		{"Blood pressure (diastolic)", form.BloodPressureDiastolic, &req.BloodPressureDiastolic},
		{"Heart rate", form.HeartRateBPM, &req.HeartRateBPM},
		{"Respiratory rate", form.RespiratoryRateBPM, &req.RespiratoryRateBPM},
		{"Oxygen saturation", form.OxygenSaturation, &req.OxygenSaturationPercentage},
	}
	var measured int
	for _, m := range measurements {
		raw := strings.TrimSpace(m.raw)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "Invalid value for "+m.label+".")
			return
		}
		*m.dst = &value
		measured++
	}
	if measured == 0 {
		jsonError(w, http.StatusBadRequest, "At least one measurement is required.")
		return
	}

	created, err := h.nurses.CreateVitals(r.Context(), req)
	if err != nil {
		jsonError(w, statusFor(err), upstream.UserMessage("record vitals", err))
		return
	}

	vitals, listErr := h.nurses.ListVitals(r.Context(), upstream.VitalsFilter{NurseUserID: p.ID})
	resp := struct {
		Record      viewmodel.VitalsView   `json:"record"`
		Vitals      []viewmodel.VitalsView `json:"vitals"`
		VitalsError string                 `json:"vitals_error,omitempty"`
	}{
		Record: viewmodel.VitalsFrom(*created),
		Vitals: viewmodel.VitalsListFrom(vitals),
	}
	if listErr != nil {
		resp.VitalsError = upstream.UserMessage("load vitals records", listErr)
	}
	respondJSON(w, http.StatusCreated, resp)
}
