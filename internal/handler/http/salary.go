package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gidihr/payroll-backend-go/internal/domain/salary"
	"github.com/gidihr/payroll-backend-go/internal/handler/http/response"
	"github.com/gidihr/payroll-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type SalaryHandler interface {
	// Structures
	CreateStructure(w http.ResponseWriter, r *http.Request)
	GetStructure(w http.ResponseWriter, r *http.Request)
	ListStructures(w http.ResponseWriter, r *http.Request)

	// Assignments
	AssignSalary(w http.ResponseWriter, r *http.Request)
	ListAssignments(w http.ResponseWriter, r *http.Request)
	GetCompensation(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

// ========== STRUCTURES ==========

func (h *salaryHandlerImpl) CreateStructure(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "Missing token claims")
		return
	}

	var req salary.CreateStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.salaryService.CreateStructure(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary structure created", result)
}

func (h *salaryHandlerImpl) GetStructure(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "Missing token claims")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Structure ID is required", nil)
		return
	}

	result, err := h.salaryService.GetStructure(r.Context(), id, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) ListStructures(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "Missing token claims")
		return
	}

	result, err := h.salaryService.ListStructures(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== ASSIGNMENTS ==========

func (h *salaryHandlerImpl) AssignSalary(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "Missing token claims")
		return
	}

	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req salary.AssignSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.salaryService.Assign(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary assigned", result)
}

func (h *salaryHandlerImpl) ListAssignments(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "Missing token claims")
		return
	}

	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.salaryService.ListAssignments(r.Context(), employeeID, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) GetCompensation(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "Missing token claims")
		return
	}

	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "as_of must be a valid date (YYYY-MM-DD)", nil)
			return
		}
		asOf = parsed
	}

	snap, err := h.salaryService.Resolve(r.Context(), employeeID, companyID, asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, salary.CompensationResponse{
		EmployeeID:        snap.EmployeeID,
		AsOf:              asOf.Format("2006-01-02"),
		Basic:             snap.Basic,
		Housing:           snap.Housing,
		Transport:         snap.Transport,
		Meal:              snap.Meal,
		Utility:           snap.Utility,
		OtherAllowances:   snap.OtherAllowances,
		OtherDeductions:   snap.OtherDeductions,
		PAYEApplicable:    snap.PAYEApplicable,
		PensionApplicable: snap.PensionApplicable,
		NHFApplicable:     snap.NHFApplicable,
	})
}
