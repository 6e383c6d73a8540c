package upstream

import (
	"context"
	"net/http"
)

// RecordsClient talks to the medical records service: doctor reports and the
// consolidated history bundle.
type RecordsClient struct {
	*Client
}

func NewRecordsClient(cfg Config) (*RecordsClient, error) {
	cfg.Service = "medical_records"
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &RecordsClient{Client: c}, nil
}

// CreateReportRequest is the doctor's write-report payload.
type CreateReportRequest struct {
	PatientUserID string `json:"patient_user_id"`
	DoctorUserID  string `json:"doctor_user_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	ReportDate    string `json:"report_date"`
}

func (c *RecordsClient) CreateReport(ctx context.Context, req CreateReportRequest) (*DoctorReport, error) {
	var out DoctorReport
	if err := c.post(ctx, "/reports/", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// MedicalHistory fetches the consolidated bundle in a single request. The
// bundle's sections degrade independently; only the request itself can fail.
func (c *RecordsClient) MedicalHistory(ctx context.Context, patientUserID string) (*MedicalHistoryBundle, error) {
	var out MedicalHistoryBundle
	if err := c.get(ctx, "/patients/"+patientUserID+"/medical_history/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
