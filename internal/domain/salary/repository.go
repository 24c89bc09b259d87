package salary

import (
	"context"
	"time"
)

// SalaryRepository defines data access for salary structures and
// effective-dated assignments. All methods include companyID to prevent
// cross-company data access.
type SalaryRepository interface {
	// Structures
	CreateStructure(ctx context.Context, structure SalaryStructure) (SalaryStructure, error)
	GetStructureByID(ctx context.Context, id string, companyID string) (SalaryStructure, error)
	ListStructures(ctx context.Context, companyID string) ([]SalaryStructure, error)

	// Assignments. Assignments are an arena of time-interval records: rows
	// are closed by setting effective_to, never deleted or mutated in place,
	// so historical runs stay reproducible.

	// ReplaceCurrentAssignment closes the employee's open assignment (if
	// any) at the new record's EffectiveFrom and inserts the new record,
	// atomically.
	ReplaceCurrentAssignment(ctx context.Context, assignment EmployeeSalaryAssignment) (EmployeeSalaryAssignment, error)
	// AssignmentsCovering returns every assignment whose interval contains
	// asOf. More than one result is an invariant violation the caller must
	// surface, not resolve.
	AssignmentsCovering(ctx context.Context, employeeID string, companyID string, asOf time.Time) ([]EmployeeSalaryAssignment, error)
	ListAssignments(ctx context.Context, employeeID string, companyID string) ([]EmployeeSalaryAssignment, error)
}
