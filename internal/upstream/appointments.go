package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// AppointmentsClient talks to the appointment service.
type AppointmentsClient struct {
	*Client
}

func NewAppointmentsClient(cfg Config) (*AppointmentsClient, error) {
	cfg.Service = "appointments"
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &AppointmentsClient{Client: c}, nil
}

// AppointmentFilter narrows an appointment listing to one party.
type AppointmentFilter struct {
	PatientUserID string
	DoctorUserID  string
}

func (c *AppointmentsClient) List(ctx context.Context, filter AppointmentFilter) ([]Appointment, error) {
	query := url.Values{}
	if filter.PatientUserID != "" {
		query.Set("patient_user_id", filter.PatientUserID)
	}
	if filter.DoctorUserID != "" {
		query.Set("doctor_user_id", filter.DoctorUserID)
	}
	var out []Appointment
	if err := c.get(ctx, "/appointments/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BookAppointmentRequest is the create payload; timestamps are RFC3339 UTC.
type BookAppointmentRequest struct {
	PatientUserID string `json:"patient_user_id"`
	DoctorUserID  string `json:"doctor_user_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

// Book creates an appointment. A 409 means the doctor is not available.
func (c *AppointmentsClient) Book(ctx context.Context, req BookAppointmentRequest) (*Appointment, error) {
	var out Appointment
	if err := c.post(ctx, "/appointments/", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
