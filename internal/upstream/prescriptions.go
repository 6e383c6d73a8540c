package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// PrescriptionsClient talks to the prescription service.
type PrescriptionsClient struct {
	*Client
}

func NewPrescriptionsClient(cfg Config) (*PrescriptionsClient, error) {
	cfg.Service = "prescriptions"
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &PrescriptionsClient{Client: c}, nil
}

// PrescriptionFilter narrows a prescription listing.
type PrescriptionFilter struct {
	PatientUserID string
	DoctorUserID  string
	Status        string
}

func (c *PrescriptionsClient) List(ctx context.Context, filter PrescriptionFilter) ([]Prescription, error) {
	query := url.Values{}
	if filter.PatientUserID != "" {
		query.Set("patient_user_id", filter.PatientUserID)
	}
	if filter.DoctorUserID != "" {
		query.Set("doctor_user_id", filter.DoctorUserID)
	}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	var out []Prescription
	if err := c.get(ctx, "/prescriptions/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePrescriptionRequest is the doctor's prescribe payload.
type CreatePrescriptionRequest struct {
	PatientUserID    string `json:"patient_user_id"`
	DoctorUserID     string `json:"doctor_user_id"`
	MedicationName   string `json:"medication_name"`
	Dosage           string `json:"dosage"`
	Frequency        string `json:"frequency"`
	Duration         string `json:"duration"`
	Notes            string `json:"notes,omitempty"`
	PrescriptionDate string `json:"prescription_date"`
}

func (c *PrescriptionsClient) Create(ctx context.Context, req CreatePrescriptionRequest) (*Prescription, error) {
	var out Prescription
	if err := c.post(ctx, "/prescriptions/", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
