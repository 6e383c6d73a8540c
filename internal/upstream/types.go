package upstream

import (
	"encoding/json"
	"time"
)

// Person is the identity fragment embedded by aggregation endpoints next to
// their `_..._identity_error` sibling markers.
type Person struct {
	UserID         string `json:"user_id,omitempty"`
	Username       string `json:"username,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Email          string `json:"email,omitempty"`
	UserType       string `json:"user_type,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	EmployeeID     string `json:"employee_id,omitempty"`
}

// Profile is a role-table row merged with identity fields by the owning
// service. IdentityError being set means the merge partially failed and the
// identity fields may be absent or stale.
type Profile struct {
	UserID        string `json:"user_id,omitempty"`
	Username      string `json:"username,omitempty"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	Email         string `json:"email,omitempty"`
	UserType      string `json:"user_type,omitempty"`
	IdentityError string `json:"_identity_error,omitempty"`

	// Role-specific fields, present depending on which service answered.
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	Address        string `json:"address,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	LicenseNumber  string `json:"license_number,omitempty"`
	EmployeeID     string `json:"employee_id,omitempty"`
	PharmacyName   string `json:"pharmacy_name,omitempty"`
	Department     string `json:"department,omitempty"`
}

// Appointment statuses the portal renders specially.
const (
	AppointmentBooked    = "booked"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

type Appointment struct {
	ID                   string    `json:"id"`
	PatientUserID        string    `json:"patient_user_id"`
	DoctorUserID         string    `json:"doctor_user_id"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status"`
	Patient              *Person   `json:"patient,omitempty"`
	Doctor               *Person   `json:"doctor,omitempty"`
	PatientIdentityError string    `json:"_patient_identity_error,omitempty"`
	DoctorIdentityError  string    `json:"_doctor_identity_error,omitempty"`
}

// Prescription statuses.
const (
	PrescriptionActive    = "active"
	PrescriptionFulfilled = "fulfilled"
)

type Prescription struct {
	ID                       string  `json:"id"`
	PatientUserID            string  `json:"patient_user_id"`
	DoctorUserID             string  `json:"doctor_user_id"`
	MedicationName           string  `json:"medication_name"`
	Dosage                   string  `json:"dosage"`
	Frequency                string  `json:"frequency"`
	Duration                 string  `json:"duration"`
	Notes                    string  `json:"notes,omitempty"`
	PrescriptionDate         string  `json:"prescription_date"`
	Status                   string  `json:"status"`
	FulfilledDate            string  `json:"fulfilled_date,omitempty"`
	Patient                  *Person `json:"patient,omitempty"`
	Doctor                   *Person `json:"doctor,omitempty"`
	FulfilledByPharmacist    *Person `json:"fulfilled_by_pharmacist,omitempty"`
	PatientIdentityError     string  `json:"_patient_identity_error,omitempty"`
	DoctorIdentityError      string  `json:"_doctor_identity_error,omitempty"`
	PharmacistIdentityError  string  `json:"_pharmacist_identity_error,omitempty"`
}

// Lab order statuses.
const (
	OrderOrdered         = "ordered"
	OrderSampleCollected = "sample_collected"
	OrderCompleted       = "completed"
)

type LabOrder struct {
	ID                   string  `json:"id"`
	PatientUserID        string  `json:"patient_user_id"`
	DoctorUserID         string  `json:"doctor_user_id"`
	TestType             string  `json:"test_type"`
	Notes                string  `json:"notes,omitempty"`
	OrderDate            string  `json:"order_date"`
	Status               string  `json:"status"`
	Patient              *Person `json:"patient,omitempty"`
	Doctor               *Person `json:"doctor,omitempty"`
	PatientIdentityError string  `json:"_patient_identity_error,omitempty"`
	DoctorIdentityError  string  `json:"_doctor_identity_error,omitempty"`
	OrderError           string  `json:"_order_error,omitempty"`
}

// Lab result statuses.
const (
	ResultFinal       = "final"
	ResultPreliminary = "preliminary"
	ResultCorrected   = "corrected"
)

// LabResult carries a free-form result_data mapping; its schema is dynamic
// per test type, so it stays raw until the view model decodes it.
type LabResult struct {
	ID                      string          `json:"id"`
	LabOrderID              string          `json:"lab_order_id"`
	LabTechnicianUserID     string          `json:"lab_technician_user_id"`
	ResultDate              string          `json:"result_date"`
	ResultData              json.RawMessage `json:"result_data,omitempty"`
	Status                  string          `json:"status"`
	Notes                   string          `json:"notes,omitempty"`
	Order                   *LabOrder       `json:"order,omitempty"`
	LabTechnician           *Person         `json:"lab_technician,omitempty"`
	OrderError              string          `json:"_order_error,omitempty"`
	LabTechIdentityError    string          `json:"_lab_technician_identity_error,omitempty"`
}

// VitalsRecord holds one set of measurements. Every numeric field is
// independently optional: nil means "not measured", never zero.
type VitalsRecord struct {
	ID                         string   `json:"id"`
	PatientUserID              string   `json:"patient_user_id"`
	NurseUserID                string   `json:"nurse_user_id"`
	Timestamp                  string   `json:"timestamp"`
	TemperatureCelsius         *float64 `json:"temperature_celsius,omitempty"`
	BloodPressureSystolic      *float64 `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic     *float64 `json:"blood_pressure_diastolic,omitempty"`
	HeartRateBPM               *float64 `json:"heart_rate_bpm,omitempty"`
	RespiratoryRateBPM         *float64 `json:"respiratory_rate_bpm,omitempty"`
	OxygenSaturationPercentage *float64 `json:"oxygen_saturation_percentage,omitempty"`
	Notes                      string   `json:"notes,omitempty"`
	Patient                    *Person  `json:"patient,omitempty"`
	Nurse                      *Person  `json:"nurse,omitempty"`
	PatientIdentityError       string   `json:"_patient_identity_error,omitempty"`
	NurseIdentityError         string   `json:"_nurse_identity_error,omitempty"`
}

// DoctorReport is a free-text clinical note, immutable once created.
type DoctorReport struct {
	ID            string `json:"id"`
	PatientUserID string `json:"patient_user_id"`
	DoctorUserID  string `json:"doctor_user_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	ReportDate    string `json:"report_date"`
}

// MedicalHistoryBundle is assembled entirely server-side; the portal is a
// pure renderer of its five sections and their per-section error markers.
type MedicalHistoryBundle struct {
	PatientIdentity      *Person        `json:"patient_identity,omitempty"`
	PatientProfile       *Profile       `json:"patient_profile,omitempty"`
	VitalsHistory        []VitalsRecord `json:"vitals_history,omitempty"`
	LabOrders            []LabOrder     `json:"lab_orders,omitempty"`
	LabResults           []LabResult    `json:"lab_results,omitempty"`
	DoctorReports        []DoctorReport `json:"doctor_reports,omitempty"`
	PatientIdentityError string         `json:"_patient_identity_error,omitempty"`
	PatientProfileError  string         `json:"_patient_profile_error,omitempty"`
	VitalsHistoryError   string         `json:"_vitals_history_error,omitempty"`
	LabOrdersError       string         `json:"_lab_orders_error,omitempty"`
	LabResultsError      string         `json:"_lab_results_error,omitempty"`
	DoctorReportsError   string         `json:"_doctor_reports_error,omitempty"`
}

// User is a row of the admin user list, already merged with identity.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	UserType      string `json:"user_type"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	Email         string `json:"email,omitempty"`
	IdentityError string `json:"_identity_error,omitempty"`
}
