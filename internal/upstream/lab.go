package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// LabClient talks to the lab service for orders and results.
type LabClient struct {
	*Client
}

func NewLabClient(cfg Config) (*LabClient, error) {
	cfg.Service = "lab"
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &LabClient{Client: c}, nil
}

// OrderFilter narrows a lab order listing.
type OrderFilter struct {
	Status        string
	PatientUserID string
	DoctorUserID  string
}

func (c *LabClient) ListOrders(ctx context.Context, filter OrderFilter) ([]LabOrder, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.PatientUserID != "" {
		query.Set("patient_user_id", filter.PatientUserID)
	}
	if filter.DoctorUserID != "" {
		query.Set("doctor_user_id", filter.DoctorUserID)
	}
	var out []LabOrder
	if err := c.get(ctx, "/orders/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateLabOrderRequest is the doctor's order-lab-test payload.
type CreateLabOrderRequest struct {
	PatientUserID string `json:"patient_user_id"`
	DoctorUserID  string `json:"doctor_user_id"`
	TestType      string `json:"test_type"`
	Notes         string `json:"notes,omitempty"`
	OrderDate     string `json:"order_date"`
}

func (c *LabClient) CreateOrder(ctx context.Context, req CreateLabOrderRequest) (*LabOrder, error) {
	var out LabOrder
	if err := c.post(ctx, "/orders/", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResultFilter narrows a lab result listing.
type ResultFilter struct {
	LabTechnicianUserID string
	LabOrderID          string
}

func (c *LabClient) ListResults(ctx context.Context, filter ResultFilter) ([]LabResult, error) {
	query := url.Values{}
	if filter.LabTechnicianUserID != "" {
		query.Set("lab_technician_user_id", filter.LabTechnicianUserID)
	}
	if filter.LabOrderID != "" {
		query.Set("lab_order_id", filter.LabOrderID)
	}
	var out []LabResult
	if err := c.get(ctx, "/results/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateLabResultRequest records one result against an order. ResultData is
// the folded parameter mapping; its schema is free-form by design.
type CreateLabResultRequest struct {
	LabOrderID          string `json:"lab_order_id"`
	LabTechnicianUserID string `json:"lab_technician_user_id"`
	ResultDate          string `json:"result_date"`
	ResultData          any    `json:"result_data"`
	Status              string `json:"status"`
	Notes               string `json:"notes,omitempty"`
}

func (c *LabClient) CreateResult(ctx context.Context, req CreateLabResultRequest) (*LabResult, error) {
	var out LabResult
	if err := c.post(ctx, "/results/", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
