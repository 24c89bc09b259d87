package employee

import (
	"time"
)

// Employee is HR master data consumed read-only by the payroll core. The
// engine never mutates employees; it only selects who is eligible for a
// period and snapshots bank details onto payslips.
type Employee struct {
	ID              string
	CompanyID       string
	EmployeeCode    string
	FullName        string
	Email           *string
	HireDate        time.Time
	TerminationDate *time.Time
	EmploymentType  EmploymentType
	Status          EmploymentStatus

	// Bank details, snapshotted onto payroll items at computation time
	BankName          *string
	BankAccountNumber *string
	BankAccountName   *string

	// Nigerian statutory identifiers
	TIN       *string
	RSANumber *string
	PFAName   *string
	NHFNumber *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type EmploymentType string

const (
	EmploymentTypePermanent  EmploymentType = "permanent"
	EmploymentTypeContract   EmploymentType = "contract"
	EmploymentTypeInternship EmploymentType = "internship"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusOnLeave    EmploymentStatus = "on_leave"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// EligibleFor reports whether the employee belongs in a payroll run ending on
// periodEnd: hired on or before the period end and not terminated before it.
// Mid-period joiners are included at full-period amounts; pro-ration is out
// of scope.
func (e Employee) EligibleFor(periodEnd time.Time) bool {
	if e.HireDate.After(periodEnd) {
		return false
	}
	if e.TerminationDate != nil && e.TerminationDate.Before(periodEnd) {
		return false
	}
	return true
}
