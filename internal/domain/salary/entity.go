package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryStructure - named template of monthly compensation components.
// Multiple structures may exist per company (e.g. "Senior Engineer",
// "Graduate Trainee"); employees are bound to one through an assignment.
type SalaryStructure struct {
	ID        string
	CompanyID string
	Name      string

	Basic     decimal.Decimal
	Housing   decimal.Decimal
	Transport decimal.Decimal
	Meal      decimal.Decimal
	Utility   decimal.Decimal
	// OtherAllowances maps company-defined allowance codes to amounts,
	// e.g. {"13TH_MONTH": 50000}
	OtherAllowances map[string]decimal.Decimal

	PAYEApplicable    bool
	PensionApplicable bool
	NHFApplicable     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeSalaryAssignment binds an employee to a structure for the half-open
// interval [EffectiveFrom, EffectiveTo). A nil EffectiveTo means the
// assignment is current. At most one assignment may be current per employee
// at any instant; assigning a new record closes the prior one's EffectiveTo.
//
// Override fields are nullable: a nil override falls back to the structure's
// default for that component, so partial overrides compose per component.
type EmployeeSalaryAssignment struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	StructureID string

	EffectiveFrom time.Time
	EffectiveTo   *time.Time

	BasicOverride     *decimal.Decimal
	HousingOverride   *decimal.Decimal
	TransportOverride *decimal.Decimal
	MealOverride      *decimal.Decimal
	UtilityOverride   *decimal.Decimal
	// OtherAllowances replaces the structure's map entirely when non-nil.
	OtherAllowances map[string]decimal.Decimal

	// OtherDeductions carries non-statutory deduction codes (loan
	// repayments, union dues) to be withheld each period. Inputs to the
	// engine, never derived by it.
	OtherDeductions map[string]decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether asOf falls inside the assignment's half-open
// effective interval.
func (a EmployeeSalaryAssignment) Covers(asOf time.Time) bool {
	if asOf.Before(a.EffectiveFrom) {
		return false
	}
	return a.EffectiveTo == nil || asOf.Before(*a.EffectiveTo)
}

// CompensationSnapshot is the resolved compensation in force for one employee
// on one date: structure defaults with assignment overrides applied. This is
// the engine's sole compensation input.
type CompensationSnapshot struct {
	EmployeeID string

	Basic           decimal.Decimal
	Housing         decimal.Decimal
	Transport       decimal.Decimal
	Meal            decimal.Decimal
	Utility         decimal.Decimal
	OtherAllowances map[string]decimal.Decimal
	OtherDeductions map[string]decimal.Decimal

	PAYEApplicable    bool
	PensionApplicable bool
	NHFApplicable     bool
}
