package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus enum
type RunStatus string

const (
	RunStatusDraft           RunStatus = "draft"
	RunStatusProcessing      RunStatus = "processing"
	RunStatusPendingApproval RunStatus = "pending_approval"
	RunStatusApproved        RunStatus = "approved"
	RunStatusPaid            RunStatus = "paid"
	RunStatusCancelled       RunStatus = "cancelled"
)

// Transitions are one-directional; no transition may skip a state except
// cancellation from draft/processing.

func (s RunStatus) CanProcess() bool {
	return s == RunStatusDraft || s == RunStatusProcessing
}

func (s RunStatus) CanApprove() bool {
	return s == RunStatusPendingApproval
}

func (s RunStatus) CanMarkPaid() bool {
	return s == RunStatusApproved
}

func (s RunStatus) CanCancel() bool {
	return s == RunStatusDraft || s == RunStatusProcessing
}

func (s RunStatus) CanDelete() bool {
	return s == RunStatusDraft
}

// PayrollRun - one computation unit for a company and period. Aggregate
// totals always equal the exact sum of the run's non-failed items; they are
// folded from the full item set, never summed incrementally across retries.
type PayrollRun struct {
	ID          string
	CompanyID   string
	Name        string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Status      RunStatus
	// Version guards state transitions with optimistic concurrency: an
	// update against a stale version fails with ErrRunConflict.
	Version int

	TotalEmployees             int
	TotalGross                 decimal.Decimal
	TotalDeductions            decimal.Decimal
	TotalNet                   decimal.Decimal
	TotalEmployerContributions decimal.Decimal

	// Statutory breakouts for remittance reporting
	TotalPAYE            decimal.Decimal
	TotalPensionEmployee decimal.Decimal
	TotalPensionEmployer decimal.Decimal
	TotalNHF             decimal.Decimal

	ProcessedBy *string
	ProcessedAt *time.Time
	ApprovedBy  *string
	ApprovedAt  *time.Time
	PaidBy      *string
	PaidAt      *time.Time

	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemStatus enum
type ItemStatus string

const (
	// ItemStatusComputed - payslip computed successfully
	ItemStatusComputed ItemStatus = "computed"
	// ItemStatusFailed - resolution or computation failed; the item records
	// the reason and is excluded from run totals, but never silently dropped
	// from the audit trail.
	ItemStatusFailed ItemStatus = "failed"
)

// PayrollItem - one employee's payslip within a run. Replaced in place on
// recomputation while the run is draft/processing; immutable once the run is
// approved.
type PayrollItem struct {
	ID           string
	PayrollRunID string
	EmployeeID   string

	// Earnings
	Basic           decimal.Decimal
	Housing         decimal.Decimal
	Transport       decimal.Decimal
	Meal            decimal.Decimal
	Utility         decimal.Decimal
	OtherAllowances map[string]decimal.Decimal
	GrossPay        decimal.Decimal

	// Nigerian statutory deductions
	PAYETax         decimal.Decimal
	PensionEmployee decimal.Decimal
	PensionEmployer decimal.Decimal
	NHFDeduction    decimal.Decimal

	// Non-statutory deductions keyed by company-defined codes
	OtherDeductions      map[string]decimal.Decimal
	OtherDeductionsTotal decimal.Decimal

	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal

	// Bank details snapshot at computation time; later bank-detail changes
	// never retroactively alter historical payslips.
	BankName      *string
	AccountNumber *string
	AccountName   *string

	Status        ItemStatus
	FailureReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
	RunName      *string
	RunStatus    *RunStatus
	PeriodStart  *time.Time
	PeriodEnd    *time.Time
}
