package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// PatientsClient talks to the patient service.
type PatientsClient struct {
	*Client
}

func NewPatientsClient(cfg Config) (*PatientsClient, error) {
	cfg.Service = "patient"
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &PatientsClient{Client: c}, nil
}

// Profile fetches the aggregated patient profile for a user.
func (c *PatientsClient) Profile(ctx context.Context, userID string) (*Profile, error) {
	var out Profile
	if err := c.get(ctx, "/patients/"+userID+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns every patient profile; used to populate selection forms.
func (c *PatientsClient) List(ctx context.Context) ([]Profile, error) {
	var out []Profile
	if err := c.get(ctx, "/patients/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DoctorsClient talks to the doctor service.
type DoctorsClient struct {
	*Client
}

func NewDoctorsClient(cfg Config) (*DoctorsClient, error) {
	cfg.Service = "doctor"
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &DoctorsClient{Client: c}, nil
}

func (c *DoctorsClient) Profile(ctx context.Context, userID string) (*Profile, error) {
	var out Profile
	if err := c.get(ctx, "/doctors/"+userID+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *DoctorsClient) List(ctx context.Context) ([]Profile, error) {
	var out []Profile
	if err := c.get(ctx, "/doctors/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NursesClient talks to the nurse service, which also owns vitals records.
type NursesClient struct {
	*Client
}

func NewNursesClient(cfg Config) (*NursesClient, error) {
	cfg.Service = "nurse"
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &NursesClient{Client: c}, nil
}

func (c *NursesClient) Profile(ctx context.Context, userID string) (*Profile, error) {
	var out Profile
	if err := c.get(ctx, "/nurses/"+userID+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VitalsFilter narrows a vitals listing.
type VitalsFilter struct {
	PatientUserID string
	NurseUserID   string
}

func (c *NursesClient) ListVitals(ctx context.Context, filter VitalsFilter) ([]VitalsRecord, error) {
	query := url.Values{}
	if filter.PatientUserID != "" {
		query.Set("patient_user_id", filter.PatientUserID)
	}
	if filter.NurseUserID != "" {
		query.Set("nurse_user_id", filter.NurseUserID)
	}
	var out []VitalsRecord
	if err := c.get(ctx, "/vitals/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateVitalsRequest carries one set of measurements. Nil numeric fields
// are omitted from the wire payload, preserving "not measured".
type CreateVitalsRequest struct {
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
}

func (c *NursesClient) CreateVitals(ctx context.Context, req CreateVitalsRequest) (*VitalsRecord, error) {
	var out VitalsRecord
	if err := c.post(ctx, "/vitals/", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// PharmacistsClient talks to the pharmacist service.
type PharmacistsClient struct {
	*Client
}

func NewPharmacistsClient(cfg Config) (*PharmacistsClient, error) {
	cfg.Service = "pharmacist"
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &PharmacistsClient{Client: c}, nil
}

func (c *PharmacistsClient) Profile(ctx context.Context, userID string) (*Profile, error) {
	var out Profile
	if err := c.get(ctx, "/pharmacists/"+userID+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Fulfill marks a prescription dispensed by the given pharmacist. The
// active→fulfilled transition happens exclusively here.
func (c *PharmacistsClient) Fulfill(ctx context.Context, prescriptionID, pharmacistUserID string) error {
	body := struct {
		PrescriptionID   string `json:"prescription_id"`
		PharmacistUserID string `json:"pharmacist_user_id"`
	}{PrescriptionID: prescriptionID, PharmacistUserID: pharmacistUserID}
	return c.post(ctx, "/pharmacists/fulfill/", body, nil, http.StatusOK)
}

// LabTechsClient fetches lab technician profiles from the lab service.
type LabTechsClient struct {
	*Client
}

func NewLabTechsClient(cfg Config) (*LabTechsClient, error) {
	cfg.Service = "lab"
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &LabTechsClient{Client: c}, nil
}

func (c *LabTechsClient) Profile(ctx context.Context, userID string) (*Profile, error) {
	var out Profile
	if err := c.get(ctx, "/labtechs/"+userID+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
