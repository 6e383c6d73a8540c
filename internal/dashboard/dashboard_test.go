package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careorbit/careportal/internal/http/middleware"
	"github.com/careorbit/careportal/internal/session"
	"github.com/careorbit/careportal/internal/upstream"
)

// backend hosts every stubbed service path behind one server and counts
// hits per path so tests can assert what was (not) called.
type backend struct {
	mux  *http.ServeMux
	srv  *httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{mux: http.NewServeMux(), hits: make(map[string]int)}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[r.URL.Path]++
		b.mu.Unlock()
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) hitCount(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func (b *backend) totalHits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.hits {
		total += n
	}
	return total
}

func (b *backend) serveJSON(path string, status int, v any) {
	b.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	})
}

func (b *backend) client(t *testing.T) upstream.Config {
	t.Helper()
	return upstream.Config{BaseURL: b.srv.URL}
}

func asUser(r *http.Request, p session.Principal) *http.Request {
	return r.WithContext(middleware.WithPrincipal(r.Context(), p))
}

// chiRequest builds a request carrying one chi route parameter.
func chiRequest(method, target, key, value string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func newPatientHandler(t *testing.T, b *backend) *PatientHandler {
	t.Helper()
	patients, err := upstream.NewPatientsClient(b.client(t))
	require.NoError(t, err)
	doctors, err := upstream.NewDoctorsClient(b.client(t))
	require.NoError(t, err)
	appts, err := upstream.NewAppointmentsClient(b.client(t))
	require.NoError(t, err)
	scripts, err := upstream.NewPrescriptionsClient(b.client(t))
	require.NoError(t, err)
	return NewPatientHandler(PatientConfig{
		Patients: patients, Doctors: doctors, Appointments: appts, Prescriptions: scripts,
	})
}

func TestPatientDashboardDegradesPerCollection(t *testing.T) {
	b := newBackend(t)
	b.serveJSON("/patients/p-1/", http.StatusOK, map[string]string{
		"user_id": "p-1", "first_name": "Ada", "last_name": "Lovelace",
	})
	b.serveJSON("/appointments/", http.StatusInternalServerError, map[string]string{"error": "db down"})
	b.serveJSON("/prescriptions/", http.StatusOK, []map[string]string{{"id": "rx-1", "medication_name": "Aspirin"}})
	b.serveJSON("/doctors/", http.StatusOK, []map[string]string{{"user_id": "d-1", "first_name": "Gregory", "last_name": "House", "specialization": "Diagnostics"}})
	h := newPatientHandler(t, b)

	rec := httptest.NewRecorder()
	h.Dashboard(rec, asUser(httptest.NewRequest(http.MethodGet, "/patient", nil), session.Principal{ID: "p-1", Role: session.RolePatient}))

	require.Equal(t, http.StatusOK, rec.Code)
	var view PatientView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "Ada", view.Profile.Profile.FirstName)
	assert.Empty(t, view.Appointments)
	assert.Equal(t, "Failed to load appointments: db down", view.AppointmentsError)
	require.Len(t, view.Prescriptions, 1)
	require.Len(t, view.Doctors, 1)
	assert.Equal(t, "Gregory House (Diagnostics)", view.Doctors[0].Name)
}

func TestPatientDashboardProfileFailureIsFatal(t *testing.T) {
	b := newBackend(t)
	b.serveJSON("/patients/p-1/", http.StatusNotFound, map[string]string{"error": "Patient not found"})
	b.serveJSON("/appointments/", http.StatusOK, []any{})
	b.serveJSON("/prescriptions/", http.StatusOK, []any{})
	b.serveJSON("/doctors/", http.StatusOK, []any{})
	h := newPatientHandler(t, b)

	rec := httptest.NewRecorder()
	h.Dashboard(rec, asUser(httptest.NewRequest(http.MethodGet, "/patient", nil), session.Principal{ID: "p-1", Role: session.RolePatient}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to load patient profile: Patient not found")
}

func TestDashboardRoleMismatchRedirectsWithoutFetching(t *testing.T) {
	b := newBackend(t)
	h := newPatientHandler(t, b)

	req := asUser(httptest.NewRequest(http.MethodGet, "/patient", nil), session.Principal{ID: "d-1", Role: session.RoleDoctor})
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Zero(t, b.totalHits(), "a cross-role navigation must not reach any backend")
}

func TestDashboardRoleMismatchOnAPIIs403(t *testing.T) {
	b := newBackend(t)
	h := newPatientHandler(t, b)

	rec := httptest.NewRecorder()
	h.BookAppointment(rec, asUser(httptest.NewRequest(http.MethodPost, "/patient/appointments", strings.NewReader(`{}`)), session.Principal{ID: "n-1", Role: session.RoleNurse}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, b.totalHits())
}

func TestBookAppointmentBuildsTwoHourSlot(t *testing.T) {
	b := newBackend(t)
	var booked upstream.BookAppointmentRequest
	b.mux.HandleFunc("/appointments/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&booked))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "a-9", "status": "booked"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]string{{"id": "a-9", "status": "booked"}})
	})
	h := newPatientHandler(t, b)

	body := `{"doctor_user_id":"d-1","date":"2026-09-14","time":"09:30"}`
	rec := httptest.NewRecorder()
	h.BookAppointment(rec, asUser(httptest.NewRequest(http.MethodPost, "/patient/appointments", strings.NewReader(body)), session.Principal{ID: "p-1", Role: session.RolePatient}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "2026-09-14T09:30:00Z", booked.StartTime)
	assert.Equal(t, "2026-09-14T11:30:00Z", booked.EndTime)
	assert.Equal(t, "p-1", booked.PatientUserID)
	// The list was re-read after the write.
	assert.Equal(t, 2, b.hitCount("/appointments/"))
}

func TestBookAppointmentConflict(t *testing.T) {
	b := newBackend(t)
	b.serveJSON("/appointments/", http.StatusConflict, map[string]string{"error": "Doctor is not available at this time."})
	h := newPatientHandler(t, b)

	body := `{"doctor_user_id":"d-1","date":"2026-09-14","time":"09:30"}`
	rec := httptest.NewRecorder()
	h.BookAppointment(rec, asUser(httptest.NewRequest(http.MethodPost, "/patient/appointments", strings.NewReader(body)), session.Principal{ID: "p-1", Role: session.RolePatient}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Doctor is not available at this time.")
}

func TestBookAppointmentValidation(t *testing.T) {
	b := newBackend(t)
	h := newPatientHandler(t, b)
	principal := session.Principal{ID: "p-1", Role: session.RolePatient}

	cases := []struct {
		name string
		body string
		want string
	}{
		{"no doctor", `{"date":"2026-09-14","time":"09:30"}`, "Please select a doctor."},
		{"no date", `{"doctor_user_id":"d-1","time":"09:30"}`, "Please choose a date and time."},
		{"bad time", `{"doctor_user_id":"d-1","date":"2026-09-14","time":"25:99"}`, "Invalid date or time."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.BookAppointment(rec, asUser(httptest.NewRequest(http.MethodPost, "/patient/appointments", strings.NewReader(tc.body)), principal))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
	assert.Zero(t, b.totalHits(), "validation failures must not reach the backend")
}

func TestCancelAppointmentNotImplemented(t *testing.T) {
	h := newPatientHandler(t, newBackend(t))
	rec := httptest.NewRecorder()
	h.CancelAppointment(rec, asUser(httptest.NewRequest(http.MethodPost, "/patient/appointments/a-1/cancel", nil), session.Principal{ID: "p-1", Role: session.RolePatient}))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func newDoctorHandler(t *testing.T, b *backend) *DoctorHandler {
	t.Helper()
	doctors, err := upstream.NewDoctorsClient(b.client(t))
	require.NoError(t, err)
	patients, err := upstream.NewPatientsClient(b.client(t))
	require.NoError(t, err)
	appts, err := upstream.NewAppointmentsClient(b.client(t))
	require.NoError(t, err)
	scripts, err := upstream.NewPrescriptionsClient(b.client(t))
	require.NoError(t, err)
	labc, err := upstream.NewLabClient(b.client(t))
	require.NoError(t, err)
	records, err := upstream.NewRecordsClient(b.client(t))
	require.NoError(t, err)
	return NewDoctorHandler(DoctorConfig{
		Doctors: doctors, Patients: patients, Appointments: appts,
		Prescriptions: scripts, Lab: labc, Records: records,
	})
}

func TestDoctorCreatePrescription(t *testing.T) {
	b := newBackend(t)
	var created upstream.CreatePrescriptionRequest
	b.mux.HandleFunc("/prescriptions/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "rx-2", "medication_name": created.MedicationName, "status": "active"})
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]string{{"id": "rx-2"}})
	})
	h := newDoctorHandler(t, b)

	body := `{"patient_user_id":"p-1","medication_name":" Amoxicillin ","dosage":"500mg","frequency":"3x daily","duration":"7 days"}`
	rec := httptest.NewRecorder()
	h.CreatePrescription(rec, asUser(httptest.NewRequest(http.MethodPost, "/doctor/prescriptions", strings.NewReader(body)), session.Principal{ID: "d-1", Role: session.RoleDoctor}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Amoxicillin", created.MedicationName)
	assert.Equal(t, "d-1", created.DoctorUserID)
	assert.Equal(t, 2, b.hitCount("/prescriptions/"))
}

func TestDoctorCreatePrescriptionValidation(t *testing.T) {
	b := newBackend(t)
	h := newDoctorHandler(t, b)
	principal := session.Principal{ID: "d-1", Role: session.RoleDoctor}

	rec := httptest.NewRecorder()
	h.CreatePrescription(rec, asUser(httptest.NewRequest(http.MethodPost, "/doctor/prescriptions", strings.NewReader(`{"patient_user_id":"p-1"}`)), principal))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Medication name is required.")
	assert.Zero(t, b.totalHits())
}

func TestDoctorCreateReport(t *testing.T) {
	b := newBackend(t)
	var created upstream.CreateReportRequest
	b.mux.HandleFunc("/reports/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "rep-1", "title": created.Title})
	})
	h := newDoctorHandler(t, b)

	body := `{"patient_user_id":"p-1","title":"Follow-up","content":"Recovering well."}`
	rec := httptest.NewRecorder()
	h.CreateReport(rec, asUser(httptest.NewRequest(http.MethodPost, "/doctor/reports", strings.NewReader(body)), session.Principal{ID: "d-1", Role: session.RoleDoctor}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Follow-up", created.Title)
	assert.NotEmpty(t, created.ReportDate)
}

func TestPharmacistFulfillRefetchesActiveQueue(t *testing.T) {
	b := newBackend(t)
	var fulfilled struct {
		PrescriptionID   string `json:"prescription_id"`
		PharmacistUserID string `json:"pharmacist_user_id"`
	}
	b.mux.HandleFunc("/pharmacists/fulfill/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fulfilled))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	b.mux.HandleFunc("/prescriptions/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]any{})
	})

	pharmacists, err := upstream.NewPharmacistsClient(b.client(t))
	require.NoError(t, err)
	scripts, err := upstream.NewPrescriptionsClient(b.client(t))
	require.NoError(t, err)
	h := NewPharmacistHandler(PharmacistConfig{Pharmacists: pharmacists, Prescriptions: scripts})

	rec := httptest.NewRecorder()
	h.Fulfill(rec, asUser(httptest.NewRequest(http.MethodPost, "/pharmacist/fulfill", strings.NewReader(`{"prescription_id":"rx-1"}`)), session.Principal{ID: "ph-1", Role: session.RolePharmacist}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rx-1", fulfilled.PrescriptionID)
	assert.Equal(t, "ph-1", fulfilled.PharmacistUserID)
	assert.Equal(t, 1, b.hitCount("/prescriptions/"))
}

func newNurseHandler(t *testing.T, b *backend) *NurseHandler {
	t.Helper()
	nurses, err := upstream.NewNursesClient(b.client(t))
	require.NoError(t, err)
	patients, err := upstream.NewPatientsClient(b.client(t))
	require.NoError(t, err)
	return NewNurseHandler(NurseConfig{Nurses: nurses, Patients: patients})
}

func TestNurseRecordVitalsOmitsUnmeasured(t *testing.T) {
	b := newBackend(t)
	var raw map[string]any
	b.mux.HandleFunc("/vitals/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "v-1", "temperature_celsius": 37.2})
			return
		}
		_ = json.NewEncoder(w).Encode([]any{})
	})
	h := newNurseHandler(t, b)

	body := `{"patient_user_id":"p-1","temperature_celsius":"37.2","heart_rate_bpm":"","notes":"resting"}`
	rec := httptest.NewRecorder()
	h.RecordVitals(rec, asUser(httptest.NewRequest(http.MethodPost, "/nurse/vitals", strings.NewReader(body)), session.Principal{ID: "n-1", Role: session.RoleNurse}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 37.2, raw["temperature_celsius"])
	_, present := raw["heart_rate_bpm"]
	assert.False(t, present, "unmeasured fields must not travel as zero")
	assert.Equal(t, "resting", raw["notes"])
}

func TestNurseRecordVitalsValidation(t *testing.T) {
	b := newBackend(t)
	h := newNurseHandler(t, b)
	principal := session.Principal{ID: "n-1", Role: session.RoleNurse}

	rec := httptest.NewRecorder()
	h.RecordVitals(rec, asUser(httptest.NewRequest(http.MethodPost, "/nurse/vitals", strings.NewReader(`{"patient_user_id":"p-1","temperature_celsius":"warm"}`)), principal))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid value for Temperature.")

	rec = httptest.NewRecorder()
	h.RecordVitals(rec, asUser(httptest.NewRequest(http.MethodPost, "/nurse/vitals", strings.NewReader(`{"patient_user_id":"p-1"}`)), principal))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "At least one measurement is required.")

	assert.Zero(t, b.totalHits())
}

func newLabTechHandler(t *testing.T, b *backend) *LabTechHandler {
	t.Helper()
	labtechs, err := upstream.NewLabTechsClient(b.client(t))
	require.NoError(t, err)
	labc, err := upstream.NewLabClient(b.client(t))
	require.NoError(t, err)
	return NewLabTechHandler(LabTechConfig{LabTechs: labtechs, Lab: labc})
}

func TestLabTechTemplates(t *testing.T) {
	h := newLabTechHandler(t, newBackend(t))
	rec := httptest.NewRecorder()
	h.Templates(rec, asUser(httptest.NewRequest(http.MethodGet, "/labtech/templates", nil), session.Principal{ID: "lt-1", Role: session.RoleLabTechnician}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Complete Blood Count")
	assert.Contains(t, rec.Body.String(), "Hemoglobin")
}

func TestLabTechRecordResultFoldsRows(t *testing.T) {
	b := newBackend(t)
	var created map[string]any
	b.mux.HandleFunc("/results/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "res-1", "status": "completed"})
			return
		}
		_ = json.NewEncoder(w).Encode([]any{})
	})
	b.serveJSON("/orders/", http.StatusOK, []any{})
	h := newLabTechHandler(t, b)

	body := `{"lab_order_id":"o-1","rows":[{"name":"Hemoglobin","value":"14.2","unit":"g/dL","reference_range":"13.5-17.5"},{"name":"","value":"ignored"}]}`
	rec := httptest.NewRecorder()
	h.RecordResult(rec, asUser(httptest.NewRequest(http.MethodPost, "/labtech/results", strings.NewReader(body)), session.Principal{ID: "lt-1", Role: session.RoleLabTechnician}))

	require.Equal(t, http.StatusCreated, rec.Code)
	data, ok := created["result_data"].(map[string]any)
	require.True(t, ok)
	hb, ok := data["Hemoglobin"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 14.2, hb["value"])
	assert.Equal(t, "g/dL", hb["unit"])
	// An omitted status records a final result, never an order status.
	assert.Equal(t, upstream.ResultFinal, created["status"])
	assert.NotContains(t, data, "")
}

func TestLabTechRecordResultKeepsExplicitStatus(t *testing.T) {
	b := newBackend(t)
	var created map[string]any
	b.mux.HandleFunc("/results/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "res-2", "status": "preliminary"})
			return
		}
		_ = json.NewEncoder(w).Encode([]any{})
	})
	b.serveJSON("/orders/", http.StatusOK, []any{})
	h := newLabTechHandler(t, b)

	body := `{"lab_order_id":"o-1","status":"preliminary","rows":[{"name":"Glucose","value":"92"}]}`
	rec := httptest.NewRecorder()
	h.RecordResult(rec, asUser(httptest.NewRequest(http.MethodPost, "/labtech/results", strings.NewReader(body)), session.Principal{ID: "lt-1", Role: session.RoleLabTechnician}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, upstream.ResultPreliminary, created["status"])
}

func TestLabTechRecordResultRequiresRows(t *testing.T) {
	b := newBackend(t)
	h := newLabTechHandler(t, b)
	rec := httptest.NewRecorder()
	h.RecordResult(rec, asUser(httptest.NewRequest(http.MethodPost, "/labtech/results", strings.NewReader(`{"lab_order_id":"o-1","rows":[{"name":"  ","value":"x"}]}`)), session.Principal{ID: "lt-1", Role: session.RoleLabTechnician}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "At least one result parameter is required.")
	assert.Zero(t, b.totalHits())
}

func newAdminHandler(t *testing.T, b *backend) *AdminHandler {
	t.Helper()
	admin, err := upstream.NewAdminClient(b.client(t))
	require.NoError(t, err)
	return NewAdminHandler(AdminConfig{Admin: admin})
}

func TestAdminCreateUserValidatesBeforeAnyRequest(t *testing.T) {
	b := newBackend(t)
	h := newAdminHandler(t, b)
	principal := session.Principal{ID: "a-1", Role: session.RoleAdministrator}

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing credentials", `{"username":"x"}`, "Username and password are required."},
		{"unknown type", `{"username":"x","password":"y","user_type":"wizard"}`, "Invalid user type."},
		{"staff without employee id", `{"username":"x","password":"y","user_type":"doctor"}`, "Employee ID is required for staff accounts."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.CreateUser(rec, asUser(httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(tc.body)), principal))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
	assert.Zero(t, b.totalHits())
}

func TestAdminCreateUser(t *testing.T) {
	b := newBackend(t)
	var created upstream.CreateUserRequest
	b.mux.HandleFunc("/users/create/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "u-7", "username": created.Username, "user_type": created.UserType})
	})
	b.serveJSON("/users/", http.StatusOK, []map[string]string{{"id": "u-7", "username": "nnightingale"}})
	h := newAdminHandler(t, b)

	body := `{"username":"nnightingale","password":"pw","user_type":"nurse","employee_id":"EMP-12","first_name":"Florence"}`
	rec := httptest.NewRecorder()
	h.CreateUser(rec, asUser(httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(body)), session.Principal{ID: "a-1", Role: session.RoleAdministrator}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "nurse", created.UserType)
	assert.Equal(t, "EMP-12", created.EmployeeID)
	assert.Equal(t, 1, b.hitCount("/users/"))
}

func TestAdminCreateAdministratorWithoutEmployeeID(t *testing.T) {
	b := newBackend(t)
	var created upstream.CreateUserRequest
	b.mux.HandleFunc("/users/create/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "a-2", "username": created.Username, "user_type": created.UserType})
	})
	b.serveJSON("/users/", http.StatusOK, []any{})
	h := newAdminHandler(t, b)

	// Only clinical staff accounts need an employee id.
	body := `{"username":"root2","password":"pw","user_type":"administrator"}`
	rec := httptest.NewRecorder()
	h.CreateUser(rec, asUser(httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(body)), session.Principal{ID: "a-1", Role: session.RoleAdministrator}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "administrator", created.UserType)
	assert.Empty(t, created.EmployeeID)
}

func TestAdminCannotDeleteOwnAccount(t *testing.T) {
	b := newBackend(t)
	h := newAdminHandler(t, b)

	r := chiRequest(http.MethodDelete, "/admin/users/a-1", "id", "a-1")
	rec := httptest.NewRecorder()
	h.DeleteUser(rec, asUser(r, session.Principal{ID: "a-1", Role: session.RoleAdministrator}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "You cannot delete your own account.")
	assert.Zero(t, b.totalHits())
}

func TestAdminDeleteUserRefetchesList(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("/users/u-2/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	b.serveJSON("/users/", http.StatusOK, []any{})
	h := newAdminHandler(t, b)

	r := chiRequest(http.MethodDelete, "/admin/users/u-2", "id", "u-2")
	rec := httptest.NewRecorder()
	h.DeleteUser(rec, asUser(r, session.Principal{ID: "a-1", Role: session.RoleAdministrator}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, b.hitCount("/users/u-2/"))
	assert.Equal(t, 1, b.hitCount("/users/"))
}
