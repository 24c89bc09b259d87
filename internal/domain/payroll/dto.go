package payroll

import (
	"time"

	"github.com/gidihr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUN DTOs ==========

type CreateRunRequest struct {
	Name        string  `json:"name"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Notes       *string `json:"notes,omitempty"`
}

func (r *CreateRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RunResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	Name        string `json:"name"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Status      string `json:"status"`

	TotalEmployees             int             `json:"total_employees"`
	TotalGross                 decimal.Decimal `json:"total_gross"`
	TotalDeductions            decimal.Decimal `json:"total_deductions"`
	TotalNet                   decimal.Decimal `json:"total_net"`
	TotalEmployerContributions decimal.Decimal `json:"total_employer_contributions"`
	TotalPAYE                  decimal.Decimal `json:"total_paye"`
	TotalPensionEmployee       decimal.Decimal `json:"total_pension_employee"`
	TotalPensionEmployer       decimal.Decimal `json:"total_pension_employer"`
	TotalNHF                   decimal.Decimal `json:"total_nhf"`

	ProcessedBy *string `json:"processed_by,omitempty"`
	ProcessedAt *string `json:"processed_at,omitempty"`
	ApprovedBy  *string `json:"approved_by,omitempty"`
	ApprovedAt  *string `json:"approved_at,omitempty"`
	PaidBy      *string `json:"paid_by,omitempty"`
	PaidAt      *string `json:"paid_at,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

type ItemResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`

	EmployeeName *string `json:"employee_name,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`

	Basic           decimal.Decimal            `json:"basic"`
	Housing         decimal.Decimal            `json:"housing"`
	Transport       decimal.Decimal            `json:"transport"`
	Meal            decimal.Decimal            `json:"meal"`
	Utility         decimal.Decimal            `json:"utility"`
	OtherAllowances map[string]decimal.Decimal `json:"other_allowances,omitempty"`
	GrossPay        decimal.Decimal            `json:"gross_pay"`

	PAYETax         decimal.Decimal `json:"paye_tax"`
	PensionEmployee decimal.Decimal `json:"pension_employee"`
	PensionEmployer decimal.Decimal `json:"pension_employer"`
	NHFDeduction    decimal.Decimal `json:"nhf_deduction"`

	OtherDeductions      map[string]decimal.Decimal `json:"other_deductions,omitempty"`
	OtherDeductionsTotal decimal.Decimal            `json:"other_deductions_total"`

	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`

	BankName      *string `json:"bank_name,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
	AccountName   *string `json:"account_name,omitempty"`

	Status        string  `json:"status"`
	FailureReason *string `json:"failure_reason,omitempty"`
}

type RunWithItemsResponse struct {
	Run   RunResponse    `json:"run"`
	Items []ItemResponse `json:"items"`
}

// ========== TAX PREVIEW DTOs ==========

type TaxPreviewRequest struct {
	MonthlyGross decimal.Decimal `json:"monthly_gross"`
}

func (r *TaxPreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.MonthlyGross.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "monthly_gross", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TaxBandBreakdown struct {
	Width   *decimal.Decimal `json:"width"`
	Rate    decimal.Decimal  `json:"rate"`
	Taxable decimal.Decimal  `json:"taxable_amount"`
	Tax     decimal.Decimal  `json:"tax_amount"`
}

type TaxPreviewResponse struct {
	GrossMonthly     decimal.Decimal    `json:"gross_monthly"`
	GrossAnnual      decimal.Decimal    `json:"gross_annual"`
	CRA              decimal.Decimal    `json:"consolidated_relief"`
	TaxableAnnual    decimal.Decimal    `json:"taxable_annual"`
	PAYEMonthly      decimal.Decimal    `json:"paye_monthly"`
	PAYEAnnual       decimal.Decimal    `json:"paye_annual"`
	PensionEmployee  decimal.Decimal    `json:"pension_employee"`
	PensionEmployer  decimal.Decimal    `json:"pension_employer"`
	NHF              decimal.Decimal    `json:"nhf"`
	TotalDeductions  decimal.Decimal    `json:"total_deductions"`
	NetMonthly       decimal.Decimal    `json:"net_monthly"`
	EffectiveTaxRate decimal.Decimal    `json:"effective_tax_rate"`
	BandBreakdown    []TaxBandBreakdown `json:"band_breakdown"`
}

// ========== EMPLOYEE HISTORY DTOs ==========

type PayrollHistoryEntry struct {
	ItemID      string  `json:"item_id"`
	RunID       string  `json:"run_id"`
	RunName     *string `json:"run_name,omitempty"`
	RunStatus   *string `json:"run_status,omitempty"`
	PeriodStart *string `json:"period_start,omitempty"`
	PeriodEnd   *string `json:"period_end,omitempty"`

	GrossPay        decimal.Decimal `json:"gross_pay"`
	PAYETax         decimal.Decimal `json:"paye_tax"`
	PensionEmployee decimal.Decimal `json:"pension_employee"`
	NHFDeduction    decimal.Decimal `json:"nhf_deduction"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`

	Status string `json:"status"`
}

// ========== ANNUAL TAX REPORT DTOs ==========

// MonthlyEarning is one month's line on the annual PAYE return.
type MonthlyEarning struct {
	Month       int             `json:"month"`
	Gross       decimal.Decimal `json:"gross"`
	TaxDeducted decimal.Decimal `json:"tax_deducted"`
}

// AnnualTaxReportResponse is the P9A-style annual PAYE return for one
// employee: the monthly breakdown of gross pay and tax deducted across paid
// runs in the year, with annual totals.
type AnnualTaxReportResponse struct {
	Year         int     `json:"year"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	TIN          *string `json:"tin,omitempty"`

	MonthlyEarnings []MonthlyEarning `json:"monthly_earnings"`

	AnnualGross       decimal.Decimal `json:"annual_gross"`
	AnnualTaxDeducted decimal.Decimal `json:"annual_tax_deducted"`
	AnnualPension     decimal.Decimal `json:"annual_pension"`
}

// ========== PENSION SCHEDULE DTOs ==========

type PensionScheduleEntry struct {
	EmployeeName         string          `json:"employee_name"`
	RSANumber            *string         `json:"rsa_number,omitempty"`
	EmployeeContribution decimal.Decimal `json:"employee_contribution"`
	EmployerContribution decimal.Decimal `json:"employer_contribution"`
	Total                decimal.Decimal `json:"total"`
}

type PensionScheduleResponse struct {
	Period        string                 `json:"period"`
	PFAName       string                 `json:"pfa_name"`
	Entries       []PensionScheduleEntry `json:"entries"`
	TotalEmployee decimal.Decimal        `json:"total_employee"`
	TotalEmployer decimal.Decimal        `json:"total_employer"`
	GrandTotal    decimal.Decimal        `json:"grand_total"`
}

// ========== HELPERS ==========

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}

// ToRunResponse maps a run entity to its response shape.
func ToRunResponse(r PayrollRun) RunResponse {
	return RunResponse{
		ID:                         r.ID,
		CompanyID:                  r.CompanyID,
		Name:                       r.Name,
		PeriodStart:                formatDate(r.PeriodStart),
		PeriodEnd:                  formatDate(r.PeriodEnd),
		Status:                     string(r.Status),
		TotalEmployees:             r.TotalEmployees,
		TotalGross:                 r.TotalGross,
		TotalDeductions:            r.TotalDeductions,
		TotalNet:                   r.TotalNet,
		TotalEmployerContributions: r.TotalEmployerContributions,
		TotalPAYE:                  r.TotalPAYE,
		TotalPensionEmployee:       r.TotalPensionEmployee,
		TotalPensionEmployer:       r.TotalPensionEmployer,
		TotalNHF:                   r.TotalNHF,
		ProcessedBy:                r.ProcessedBy,
		ProcessedAt:                formatTimePtr(r.ProcessedAt),
		ApprovedBy:                 r.ApprovedBy,
		ApprovedAt:                 formatTimePtr(r.ApprovedAt),
		PaidBy:                     r.PaidBy,
		PaidAt:                     formatTimePtr(r.PaidAt),
		Notes:                      r.Notes,
	}
}

// ToHistoryEntry maps an item with its joined run fields to the employee
// history shape.
func ToHistoryEntry(i PayrollItem) PayrollHistoryEntry {
	var status *string
	if i.RunStatus != nil {
		s := string(*i.RunStatus)
		status = &s
	}
	var periodStart, periodEnd *string
	if i.PeriodStart != nil {
		s := formatDate(*i.PeriodStart)
		periodStart = &s
	}
	if i.PeriodEnd != nil {
		s := formatDate(*i.PeriodEnd)
		periodEnd = &s
	}

	return PayrollHistoryEntry{
		ItemID:          i.ID,
		RunID:           i.PayrollRunID,
		RunName:         i.RunName,
		RunStatus:       status,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		GrossPay:        i.GrossPay,
		PAYETax:         i.PAYETax,
		PensionEmployee: i.PensionEmployee,
		NHFDeduction:    i.NHFDeduction,
		TotalDeductions: i.TotalDeductions,
		NetPay:          i.NetPay,
		Status:          string(i.Status),
	}
}

// ToItemResponse maps an item entity to its response shape.
func ToItemResponse(i PayrollItem) ItemResponse {
	return ItemResponse{
		ID:                   i.ID,
		EmployeeID:           i.EmployeeID,
		EmployeeName:         i.EmployeeName,
		EmployeeCode:         i.EmployeeCode,
		Basic:                i.Basic,
		Housing:              i.Housing,
		Transport:            i.Transport,
		Meal:                 i.Meal,
		Utility:              i.Utility,
		OtherAllowances:      i.OtherAllowances,
		GrossPay:             i.GrossPay,
		PAYETax:              i.PAYETax,
		PensionEmployee:      i.PensionEmployee,
		PensionEmployer:      i.PensionEmployer,
		NHFDeduction:         i.NHFDeduction,
		OtherDeductions:      i.OtherDeductions,
		OtherDeductionsTotal: i.OtherDeductionsTotal,
		TotalDeductions:      i.TotalDeductions,
		NetPay:               i.NetPay,
		BankName:             i.BankName,
		AccountNumber:        i.AccountNumber,
		AccountName:          i.AccountName,
		Status:               string(i.Status),
		FailureReason:        i.FailureReason,
	}
}
