package viewmodel

import (
	"sort"
	"strings"
	"time"

	"github.com/careorbit/careportal/internal/upstream"
)

// AppointmentView is one appointment row with its related parties rendered.
type AppointmentView struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	Patient   Field     `json:"patient"`
	Doctor    Field     `json:"doctor"`
}

func AppointmentFrom(a upstream.Appointment) AppointmentView {
	return AppointmentView{
		ID:        a.ID,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Status:    a.Status,
		Patient:   RelatedPerson(a.Patient, a.PatientIdentityError),
		Doctor:    RelatedPerson(a.Doctor, a.DoctorIdentityError),
	}
}

// AppointmentsFrom renders a list sorted by start time ascending.
func AppointmentsFrom(appts []upstream.Appointment) []AppointmentView {
	out := make([]AppointmentView, 0, len(appts))
	for _, a := range appts {
		out = append(out, AppointmentFrom(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// PrescriptionView is one prescription row.
type PrescriptionView struct {
	ID               string `json:"id"`
	MedicationName   string `json:"medication_name"`
	Dosage           string `json:"dosage"`
	Frequency        string `json:"frequency"`
	Duration         string `json:"duration"`
	Notes            string `json:"notes,omitempty"`
	PrescriptionDate string `json:"prescription_date"`
	Status           string `json:"status"`
	Patient          Field  `json:"patient"`
	Doctor           Field  `json:"doctor"`
	FulfilledBy      *Field `json:"fulfilled_by,omitempty"`
	FulfilledDate    string `json:"fulfilled_date,omitempty"`
}

func PrescriptionFrom(p upstream.Prescription) PrescriptionView {
	view := PrescriptionView{
		ID:               p.ID,
		MedicationName:   p.MedicationName,
		Dosage:           p.Dosage,
		Frequency:        p.Frequency,
		Duration:         p.Duration,
		Notes:            p.Notes,
		PrescriptionDate: p.PrescriptionDate,
		Status:           p.Status,
		Patient:          RelatedPerson(p.Patient, p.PatientIdentityError),
		Doctor:           RelatedPerson(p.Doctor, p.DoctorIdentityError),
		FulfilledDate:    p.FulfilledDate,
	}
	if p.FulfilledByPharmacist != nil || p.PharmacistIdentityError != "" {
		f := RelatedPerson(p.FulfilledByPharmacist, p.PharmacistIdentityError)
		view.FulfilledBy = &f
	}
	return view
}

func PrescriptionsFrom(list []upstream.Prescription) []PrescriptionView {
	out := make([]PrescriptionView, 0, len(list))
	for _, p := range list {
		out = append(out, PrescriptionFrom(p))
	}
	return out
}

// LabOrderView is one lab order row.
type LabOrderView struct {
	ID        string `json:"id"`
	TestType  string `json:"test_type"`
	Notes     string `json:"notes,omitempty"`
	OrderDate string `json:"order_date"`
	Status    string `json:"status"`
	Patient   Field  `json:"patient"`
	Doctor    Field  `json:"doctor"`
	Warning   string `json:"warning,omitempty"`
}

func LabOrderFrom(o upstream.LabOrder) LabOrderView {
	return LabOrderView{
		ID:        o.ID,
		TestType:  o.TestType,
		Notes:     o.Notes,
		OrderDate: o.OrderDate,
		Status:    o.Status,
		Patient:   RelatedPerson(o.Patient, o.PatientIdentityError),
		Doctor:    RelatedPerson(o.Doctor, o.DoctorIdentityError),
		Warning:   o.OrderError,
	}
}

// LabOrdersFrom renders a list sorted by order date ascending (oldest first,
// the order work gets picked up in).
func LabOrdersFrom(orders []upstream.LabOrder) []LabOrderView {
	out := make([]LabOrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, LabOrderFrom(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate < out[j].OrderDate })
	return out
}

// LabResultView is one recorded result with its dynamic data rendered.
type LabResultView struct {
	ID           string         `json:"id"`
	TestType     string         `json:"test_type"`
	Status       string         `json:"status"`
	ResultDate   string         `json:"result_date"`
	Technician   Field          `json:"technician"`
	Data         ResultDataView `json:"data"`
	Notes        string         `json:"notes,omitempty"`
	OrderWarning string         `json:"order_warning,omitempty"`
}

func LabResultFrom(r upstream.LabResult) LabResultView {
	testType := "Unknown Test Type"
	var orderWarning string
	if r.Order != nil {
		if r.Order.TestType != "" {
			testType = r.Order.TestType
		}
		if r.Order.PatientIdentityError != "" {
			orderWarning = r.Order.PatientIdentityError
		} else if r.Order.DoctorIdentityError != "" {
			orderWarning = r.Order.DoctorIdentityError
		}
	}
	if r.OrderError != "" {
		orderWarning = r.OrderError
	}
	return LabResultView{
		ID:           r.ID,
		TestType:     testType,
		Status:       r.Status,
		ResultDate:   r.ResultDate,
		Technician:   RelatedPerson(r.LabTechnician, r.LabTechIdentityError),
		Data:         ResultDataFrom(r.ResultData),
		Notes:        r.Notes,
		OrderWarning: orderWarning,
	}
}

func LabResultsFrom(list []upstream.LabResult) []LabResultView {
	out := make([]LabResultView, 0, len(list))
	for _, r := range list {
		out = append(out, LabResultFrom(r))
	}
	return out
}

// VitalsView is one vitals record with measured fields summarized.
type VitalsView struct {
	ID           string   `json:"id"`
	Timestamp    string   `json:"timestamp"`
	Patient      Field    `json:"patient"`
	Nurse        Field    `json:"nurse"`
	Measurements []string `json:"measurements"`
}

func VitalsFrom(v upstream.VitalsRecord) VitalsView {
	return VitalsView{
		ID:           v.ID,
		Timestamp:    v.Timestamp,
		Patient:      RelatedPerson(v.Patient, v.PatientIdentityError),
		Nurse:        RelatedPerson(v.Nurse, v.NurseIdentityError),
		Measurements: VitalsSummary(v),
	}
}

func VitalsListFrom(list []upstream.VitalsRecord) []VitalsView {
	out := make([]VitalsView, 0, len(list))
	for _, v := range list {
		out = append(out, VitalsFrom(v))
	}
	return out
}

// UserView is one row of the admin user list.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	UserType string `json:"user_type"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

func UserFrom(u upstream.User) UserView {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = NotAvailable
	}
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		UserType: u.UserType,
		Name:     name,
		Email:    u.Email,
		Warning:  u.IdentityError,
	}
}

func UsersFrom(list []upstream.User) []UserView {
	out := make([]UserView, 0, len(list))
	for _, u := range list {
		out = append(out, UserFrom(u))
	}
	return out
}

// ProfileSection is a dashboard's own aggregated profile with its merge
// warning made explicit; the record always renders even when degraded.
type ProfileSection struct {
	Profile upstream.Profile `json:"profile"`
	Warning string           `json:"warning,omitempty"`
}

func ProfileSectionFrom(p *upstream.Profile) ProfileSection {
	if p == nil {
		return ProfileSection{}
	}
	return ProfileSection{Profile: *p, Warning: p.IdentityError}
}
