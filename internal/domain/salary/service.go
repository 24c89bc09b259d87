package salary

import (
	"context"
	"time"
)

// SalaryService manages salary structures and effective-dated assignments,
// and resolves the compensation in force for an employee on a date.
type SalaryService interface {
	CreateStructure(ctx context.Context, companyID string, req CreateStructureRequest) (StructureResponse, error)
	GetStructure(ctx context.Context, id string, companyID string) (StructureResponse, error)
	ListStructures(ctx context.Context, companyID string) ([]StructureResponse, error)

	Assign(ctx context.Context, companyID string, req AssignSalaryRequest) (AssignmentResponse, error)
	ListAssignments(ctx context.Context, employeeID string, companyID string) ([]AssignmentResponse, error)

	// Resolve selects the assignment covering asOf and applies its overrides
	// component-by-component over the referenced structure's defaults.
	// Returns ErrNoCurrentAssignment when no interval covers the date and
	// ErrAmbiguousAssignment when more than one does.
	Resolve(ctx context.Context, employeeID string, companyID string, asOf time.Time) (CompensationSnapshot, error)
}
