package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"travian-planner/internal/planner"
	"travian-planner/internal/shared/errors"
	"travian-planner/internal/shared/response"
	"travian-planner/internal/spreadsheet"
)

const maxPlanRequestBytes = 1 << 20 // 1 MB

type PlanHandler struct {
	service *planner.Service
}

func NewPlanHandler(service *planner.Service) *PlanHandler {
	return &PlanHandler{service: service}
}

// Compute handles POST /api/plans
func (h *PlanHandler) Compute(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "compute_plan")

	plan, ok := h.compute(w, r, logger)
	if !ok {
		return
	}

	if plan.Warnings == nil {
		plan.Warnings = []string{}
	}
	response.Success(w, http.StatusOK, plan)
}

// Export handles POST /api/plans/export and answers with an .xlsx workbook.
func (h *PlanHandler) Export(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "export_plan")

	plan, ok := h.compute(w, r, logger)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WritePlan(&buf, plan); err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to render plan workbook", err))
		return
	}

	for _, warning := range plan.Warnings {
		w.Header().Add("X-Plan-Warning", warning)
	}

	filename := fmt.Sprintf("travian_plan_%s.xlsx", plan.ReferenceDate)
	response.Attachment(w, response.XLSXContentType, filename, &buf)
	logger.Debug("Plan exported", "rows", len(plan.Rows), "bytes", buf.Len())
}

func (h *PlanHandler) compute(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*planner.Plan, bool) {
	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return nil, false
	}

	var req planner.Request
	r.Body = http.MaxBytesReader(w, r.Body, maxPlanRequestBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return nil, false
	}

	plan, err := h.service.Compute(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return nil, false
	}
	return plan, true
}
