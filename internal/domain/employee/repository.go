package employee

import (
	"context"
	"time"
)

// EmployeeRepository is the read-only contract the payroll core consumes from
// HR master data.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	// GetActiveByCompanyID returns employees eligible for a period ending on
	// asOf: excludes terminated employees whose termination date precedes
	// asOf, includes mid-period joiners.
	GetActiveByCompanyID(ctx context.Context, companyID string, asOf time.Time) ([]Employee, error)
}
