package dashboard

import (
	"net/http"
	"sync"
	"time"

	"github.com/careorbit/careportal/internal/lab"
	"github.com/careorbit/careportal/internal/session"
	"github.com/careorbit/careportal/internal/upstream"
	"github.com/careorbit/careportal/internal/viewmodel"
	"github.com/careorbit/careportal/pkg/logging"
)

// LabTechConfig carries the lab technician dashboard's dependencies.
type LabTechConfig struct {
	LabTechs *upstream.LabTechsClient
	Lab      *upstream.LabClient
	Logger   *logging.Logger
}

type LabTechHandler struct {
	labtechs *upstream.LabTechsClient
	lab      *upstream.LabClient
	logger   *logging.Logger
}

func NewLabTechHandler(cfg LabTechConfig) *LabTechHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &LabTechHandler{labtechs: cfg.LabTechs, lab: cfg.Lab, logger: logger}
}

// LabTechView is the lab technician dashboard payload: the work queue of
// pending orders plus the results this technician recorded.
type LabTechView struct {
	Profile            viewmodel.ProfileSection  `json:"profile"`
	PendingOrders      []viewmodel.LabOrderView  `json:"pending_orders"`
	PendingOrdersError string                    `json:"pending_orders_error,omitempty"`
	Results            []viewmodel.LabResultView `json:"results"`
	ResultsError       string                    `json:"results_error,omitempty"`
}

// Dashboard handles GET /labtech.
func (h *LabTechHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RoleLabTechnician)
	if !ok {
		return
	}
	ctx := r.Context()

	var (
		wg         sync.WaitGroup
		profile    *upstream.Profile
		profileErr error
		orders     []upstream.LabOrder
		ordersErr  error
		results    []upstream.LabResult
		resultsErr error
	)
	wg.Add(3)
	go func() { defer wg.Done(); profile, profileErr = h.labtechs.Profile(ctx, p.ID) }()
	go func() {
		defer wg.Done()
		orders, ordersErr = h.lab.ListOrders(ctx, upstream.OrderFilter{Status: upstream.OrderOrdered})
	}()
	go func() {
		defer wg.Done()
		results, resultsErr = h.lab.ListResults(ctx, upstream.ResultFilter{LabTechnicianUserID: p.ID})
	}()
	wg.Wait()

	if profileErr != nil {
		h.logger.Error("lab technician profile load failed", "user_id", p.ID, "error", profileErr)
		jsonError(w, statusFor(profileErr), upstream.UserMessage("load lab technician profile", profileErr))
		return
	}

	view := LabTechView{
		Profile:       viewmodel.ProfileSectionFrom(profile),
		PendingOrders: viewmodel.LabOrdersFrom(orders),
		Results:       viewmodel.LabResultsFrom(results),
	}
	if ordersErr != nil {
		view.PendingOrdersError = upstream.UserMessage("load pending lab orders", ordersErr)
	}
	if resultsErr != nil {
		view.ResultsError = upstream.UserMessage("load lab results", resultsErr)
	}
	respondJSON(w, http.StatusOK, view)
}

// Templates handles GET /labtech/templates: the predefined result entry
// grids plus their names for the selection dropdown.
func (h *LabTechHandler) Templates(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, session.RoleLabTechnician); !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"templates": lab.Templates()})
}

type recordResultForm struct {
	LabOrderID string         `json:"lab_order_id"`
	Status     string         `json:"status"`
	Notes      string         `json:"notes"`
	Rows       []lab.EntryRow `json:"rows"`
}

// RecordResult handles POST /labtech/results. The entry rows are folded
// into the free-form result_data mapping before submission.
func (h *LabTechHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	p, ok := requireRole(w, r, session.RoleLabTechnician)
	if !ok {
		return
	}
	var form recordResultForm
	if !decodeJSON(w, r, &form) {
		return
	}
	if form.LabOrderID == "" {
		jsonError(w, http.StatusBadRequest, "Please select a lab order.")
		return
	}
	data := lab.Fold(form.Rows)
	if len(data) == 0 {
		jsonError(w, http.StatusBadRequest, "At least one result parameter is required.")
		return
	}
	status := form.Status
	if status == "" {
		status = upstream.ResultFinal
	}

	created, err := h.lab.CreateResult(r.Context(), upstream.CreateLabResultRequest{
		LabOrderID:          form.LabOrderID,
		LabTechnicianUserID: p.ID,
		ResultDate:          time.Now().UTC().Format(time.RFC3339),
		ResultData:          data,
		Status:              status,
		Notes:               form.Notes,
	})
	if err != nil {
		jsonError(w, statusFor(err), upstream.UserMessage("record lab result", err))
		return
	}

	var (
		wg         sync.WaitGroup
		orders     []upstream.LabOrder
		ordersErr  error
		results    []upstream.LabResult
		resultsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		orders, ordersErr = h.lab.ListOrders(r.Context(), upstream.OrderFilter{Status: upstream.OrderOrdered})
	}()
	go func() {
		defer wg.Done()
		results, resultsErr = h.lab.ListResults(r.Context(), upstream.ResultFilter{LabTechnicianUserID: p.ID})
	}()
	wg.Wait()

	resp := struct {
		Result             viewmodel.LabResultView   `json:"result"`
		PendingOrders      []viewmodel.LabOrderView  `json:"pending_orders"`
		PendingOrdersError string                    `json:"pending_orders_error,omitempty"`
		Results            []viewmodel.LabResultView `json:"results"`
		ResultsError       string                    `json:"results_error,omitempty"`
	}{
		Result:        viewmodel.LabResultFrom(*created),
		PendingOrders: viewmodel.LabOrdersFrom(orders),
		Results:       viewmodel.LabResultsFrom(results),
	}
	if ordersErr != nil {
		resp.PendingOrdersError = upstream.UserMessage("load pending lab orders", ordersErr)
	}
	if resultsErr != nil {
		resp.ResultsError = upstream.UserMessage("load lab results", resultsErr)
	}
	respondJSON(w, http.StatusCreated, resp)
}
