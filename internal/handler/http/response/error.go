package response

import (
	"errors"
	"net/http"

	"github.com/gidihr/payroll-backend-go/internal/domain/employee"
	"github.com/gidihr/payroll-backend-go/internal/domain/payroll"
	"github.com/gidihr/payroll-backend-go/internal/domain/salary"
	"github.com/gidihr/payroll-backend-go/internal/domain/taxconfig"
	"github.com/gidihr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Partial computation failure: the run state was persisted, the caller
	// gets the per-employee reasons.
	var partial *payroll.PartialFailureError
	if errors.As(err, &partial) {
		details := make(map[string]string, len(partial.Failures))
		for _, f := range partial.Failures {
			details[f.EmployeeID] = f.Reason
		}
		writeJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error: &ErrorDetail{
				Code:    "PARTIAL_COMPUTATION_FAILURE",
				Message: "Some employees could not be computed",
				Details: details,
			},
		})
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrItemNotFound):
		NotFound(w, "Payroll item not found")
	case errors.Is(err, payroll.ErrOverlappingPeriod):
		Conflict(w, "Another payroll run already covers part of this period")
	case errors.Is(err, payroll.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrRunConflict):
		Conflict(w, "Payroll run was modified concurrently, retry with fresh state")
	case errors.Is(err, payroll.ErrRunHasFailedItems):
		Conflict(w, "Payroll run has failed items and cannot be approved")
	case errors.Is(err, payroll.ErrRunNotDeletable):
		Conflict(w, "Only draft payroll runs can be deleted")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Salary domain errors
	case errors.Is(err, salary.ErrStructureNotFound):
		NotFound(w, "Salary structure not found")
	case errors.Is(err, salary.ErrStructureNameExists):
		Conflict(w, "Salary structure name already exists")
	case errors.Is(err, salary.ErrAssignmentNotFound):
		NotFound(w, "Salary assignment not found")
	case errors.Is(err, salary.ErrNoCurrentAssignment):
		NotFound(w, "No salary assignment covers the requested date")
	case errors.Is(err, salary.ErrAmbiguousAssignment):
		Conflict(w, "Multiple salary assignments cover the requested date")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this employee")

	// Tax configuration errors
	case errors.Is(err, taxconfig.ErrNoBandSetForDate):
		Conflict(w, "No tax band configuration covers the requested date")
	case errors.Is(err, taxconfig.ErrBandSetNotFound):
		NotFound(w, "Tax band set not found")
	case errors.Is(err, taxconfig.ErrAlreadyConfigured):
		Conflict(w, "Company already has tax band configuration")
	case errors.Is(err, taxconfig.ErrEmptyBandSet),
		errors.Is(err, taxconfig.ErrLastBandBounded),
		errors.Is(err, taxconfig.ErrNonPositiveBandWidth),
		errors.Is(err, taxconfig.ErrRateOutOfRange):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
