package payroll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRunNotFound       = errors.New("payroll run not found")
	ErrItemNotFound      = errors.New("payroll item not found")
	ErrOverlappingPeriod = errors.New("another payroll run already covers part of this period")
	ErrInvalidTransition = errors.New("payroll run cannot make this transition from its current state")
	ErrRunConflict       = errors.New("payroll run was modified concurrently, retry with fresh state")
	ErrRunHasFailedItems = errors.New("payroll run has failed items and cannot be approved")
	ErrInvalidPeriod     = errors.New("invalid payroll period")
	ErrRunNotDeletable   = errors.New("only draft payroll runs can be deleted")
)

// EmployeeFailure records why one employee's payslip could not be computed.
type EmployeeFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// PartialFailureError is returned by process when one or more employees
// failed while the rest were computed and persisted. The run stays in
// processing until the failures are resolved (re-run) or the employees are
// explicitly excluded.
type PartialFailureError struct {
	RunID    string
	Failures []EmployeeFailure
}

func (e *PartialFailureError) Error() string {
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, fmt.Sprintf("%s: %s", f.EmployeeID, f.Reason))
	}
	return fmt.Sprintf("payroll run %s: %d employee(s) failed [%s]", e.RunID, len(e.Failures), strings.Join(reasons, "; "))
}
