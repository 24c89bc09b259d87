package payroll

import "context"

// PayrollService drives payroll runs through their lifecycle:
// draft → processing → pending_approval → approved → paid, with cancellation
// reachable only from draft/processing.
type PayrollService interface {
	CreateRun(ctx context.Context, companyID string, req CreateRunRequest) (RunResponse, error)
	GetRun(ctx context.Context, id string, companyID string) (RunWithItemsResponse, error)
	ListRuns(ctx context.Context, companyID string) ([]RunResponse, error)

	// ProcessRun computes a payslip for every eligible employee and folds
	// run totals from the full item set. Safe to invoke repeatedly:
	// recomputation upserts items, never appends duplicates. Returns a
	// *PartialFailureError alongside the persisted state when individual
	// employees fail.
	ProcessRun(ctx context.Context, id string, companyID string, actorID string) (RunWithItemsResponse, error)
	ApproveRun(ctx context.Context, id string, companyID string, actorID string) (RunResponse, error)
	MarkRunPaid(ctx context.Context, id string, companyID string, actorID string) (RunResponse, error)
	CancelRun(ctx context.Context, id string, companyID string) (RunResponse, error)
	DeleteRun(ctx context.Context, id string, companyID string) error

	PensionSchedule(ctx context.Context, runID string, companyID string) ([]PensionScheduleResponse, error)
	TaxPreview(ctx context.Context, companyID string, req TaxPreviewRequest) (TaxPreviewResponse, error)
	// EmployeePayrollHistory lists the employee's payslips across runs,
	// newest period first.
	EmployeePayrollHistory(ctx context.Context, employeeID string, companyID string) ([]PayrollHistoryEntry, error)
	// AnnualTaxReport builds the P9A-style annual PAYE return from the
	// employee's payslips in paid runs whose period ends in the given year.
	AnnualTaxReport(ctx context.Context, employeeID string, companyID string, year int) (AnnualTaxReportResponse, error)
}
