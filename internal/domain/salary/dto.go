package salary

import (
	"github.com/gidihr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== STRUCTURE DTOs ==========

type CreateStructureRequest struct {
	Name            string                     `json:"name"`
	Basic           decimal.Decimal            `json:"basic"`
	Housing         decimal.Decimal            `json:"housing"`
	Transport       decimal.Decimal            `json:"transport"`
	Meal            decimal.Decimal            `json:"meal"`
	Utility         decimal.Decimal            `json:"utility"`
	OtherAllowances   map[string]decimal.Decimal `json:"other_allowances,omitempty"`
	PAYEApplicable    *bool                      `json:"paye_applicable,omitempty"`
	PensionApplicable *bool                      `json:"pension_applicable,omitempty"`
	NHFApplicable     *bool                      `json:"nhf_applicable,omitempty"`
}

func (r *CreateStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	for field, amount := range map[string]decimal.Decimal{
		"basic": r.Basic, "housing": r.Housing, "transport": r.Transport,
		"meal": r.Meal, "utility": r.Utility,
	} {
		if amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	for code, amount := range r.OtherAllowances {
		if !validator.IsValidComponentCode(code) {
			errs = append(errs, validator.ValidationError{Field: "other_allowances." + code, Message: "invalid allowance code"})
		}
		if amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "other_allowances." + code, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StructureResponse struct {
	ID                string                     `json:"id"`
	CompanyID         string                     `json:"company_id"`
	Name              string                     `json:"name"`
	Basic             decimal.Decimal            `json:"basic"`
	Housing           decimal.Decimal            `json:"housing"`
	Transport         decimal.Decimal            `json:"transport"`
	Meal              decimal.Decimal            `json:"meal"`
	Utility           decimal.Decimal            `json:"utility"`
	OtherAllowances   map[string]decimal.Decimal `json:"other_allowances,omitempty"`
	PAYEApplicable    bool                       `json:"paye_applicable"`
	PensionApplicable bool                       `json:"pension_applicable"`
	NHFApplicable     bool                       `json:"nhf_applicable"`
}

// ========== ASSIGNMENT DTOs ==========

type AssignSalaryRequest struct {
	EmployeeID    string `json:"-"`
	StructureID   string `json:"structure_id"`
	EffectiveFrom string `json:"effective_from"`

	BasicOverride     *decimal.Decimal           `json:"basic_override,omitempty"`
	HousingOverride   *decimal.Decimal           `json:"housing_override,omitempty"`
	TransportOverride *decimal.Decimal           `json:"transport_override,omitempty"`
	MealOverride      *decimal.Decimal           `json:"meal_override,omitempty"`
	UtilityOverride   *decimal.Decimal           `json:"utility_override,omitempty"`
	OtherAllowances   map[string]decimal.Decimal `json:"other_allowances,omitempty"`
	OtherDeductions   map[string]decimal.Decimal `json:"other_deductions,omitempty"`
}

func (r *AssignSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StructureID == "" {
		errs = append(errs, validator.ValidationError{Field: "structure_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	for field, override := range map[string]*decimal.Decimal{
		"basic_override": r.BasicOverride, "housing_override": r.HousingOverride,
		"transport_override": r.TransportOverride, "meal_override": r.MealOverride,
		"utility_override": r.UtilityOverride,
	} {
		if override != nil && override.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	for code, amount := range r.OtherDeductions {
		if !validator.IsValidComponentCode(code) {
			errs = append(errs, validator.ValidationError{Field: "other_deductions." + code, Message: "invalid deduction code"})
		}
		if amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "other_deductions." + code, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignmentResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	StructureID   string  `json:"structure_id"`
	StructureName string  `json:"structure_name,omitempty"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to,omitempty"`

	BasicOverride     *decimal.Decimal           `json:"basic_override,omitempty"`
	HousingOverride   *decimal.Decimal           `json:"housing_override,omitempty"`
	TransportOverride *decimal.Decimal           `json:"transport_override,omitempty"`
	MealOverride      *decimal.Decimal           `json:"meal_override,omitempty"`
	UtilityOverride   *decimal.Decimal           `json:"utility_override,omitempty"`
	OtherAllowances   map[string]decimal.Decimal `json:"other_allowances,omitempty"`
	OtherDeductions   map[string]decimal.Decimal `json:"other_deductions,omitempty"`
}

type CompensationResponse struct {
	EmployeeID        string                     `json:"employee_id"`
	AsOf              string                     `json:"as_of"`
	Basic             decimal.Decimal            `json:"basic"`
	Housing           decimal.Decimal            `json:"housing"`
	Transport         decimal.Decimal            `json:"transport"`
	Meal              decimal.Decimal            `json:"meal"`
	Utility           decimal.Decimal            `json:"utility"`
	OtherAllowances   map[string]decimal.Decimal `json:"other_allowances,omitempty"`
	OtherDeductions   map[string]decimal.Decimal `json:"other_deductions,omitempty"`
	PAYEApplicable    bool                       `json:"paye_applicable"`
	PensionApplicable bool                       `json:"pension_applicable"`
	NHFApplicable     bool                       `json:"nhf_applicable"`
}
