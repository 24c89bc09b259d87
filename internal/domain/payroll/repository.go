package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access for payroll runs and items.
// All methods include companyID to prevent cross-company data access.
type PayrollRepository interface {
	// Runs
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetRunByID(ctx context.Context, id string, companyID string) (PayrollRun, error)
	ListRuns(ctx context.Context, companyID string) ([]PayrollRun, error)
	// HasOverlappingRun reports whether any non-cancelled run for the
	// company covers part of [periodStart, periodEnd].
	HasOverlappingRun(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (bool, error)
	// UpdateRun persists the run's mutable fields guarded by its version:
	// the UPDATE matches on (id, company_id, version) and increments the
	// version. Zero rows matched means a concurrent mutation; returns
	// ErrRunConflict.
	UpdateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	// CancelRun applies the version-guarded update and removes the run's
	// items in one transaction: a conflicting writer aborts the whole
	// operation with ErrRunConflict before any item is touched.
	CancelRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	// DeleteRun removes a draft run and its items.
	DeleteRun(ctx context.Context, id string, companyID string) error

	// Items
	// UpsertItem replaces any prior computation for (run, employee), keeping
	// reprocessing idempotent - recomputation overwrites, never appends
	// duplicates.
	UpsertItem(ctx context.Context, item PayrollItem) (PayrollItem, error)
	GetItemsByRunID(ctx context.Context, runID string, companyID string) ([]PayrollItem, error)
	// GetItemsByEmployee returns the employee's payslips across all runs,
	// newest period first, with the owning run's name, status and period
	// joined in.
	GetItemsByEmployee(ctx context.Context, employeeID string, companyID string) ([]PayrollItem, error)
	// DeleteItemsNotIn prunes items whose employee is absent from
	// employeeIDs, removing payslips left over from a prior computation of
	// the run. An empty employeeIDs removes every item.
	DeleteItemsNotIn(ctx context.Context, runID string, companyID string, employeeIDs []string) error
}
