package taxconfig

import (
	"github.com/gidihr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type BandInput struct {
	Width *decimal.Decimal `json:"width"`
	Rate  decimal.Decimal  `json:"rate"`
}

type CreateBandSetRequest struct {
	EffectiveFrom string      `json:"effective_from"`
	Bands         []BandInput `json:"bands"`

	PensionEmployeeRate decimal.Decimal `json:"pension_employee_rate"`
	PensionEmployerRate decimal.Decimal `json:"pension_employer_rate"`
	NHFRate             decimal.Decimal `json:"nhf_rate"`
	CRAFixed            decimal.Decimal `json:"cra_fixed"`
	CRAGrossPct         decimal.Decimal `json:"cra_gross_pct"`
	CRAMinPct           decimal.Decimal `json:"cra_min_pct"`
}

// Validate covers request shape only; band structure and rate ranges are
// checked by TaxBandSet.Validate before anything is persisted.
func (r *CreateBandSetRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if len(r.Bands) == 0 {
		errs = append(errs, validator.ValidationError{Field: "bands", Message: "at least one band is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SeedDefaultRequest struct {
	// Optional; defaults to January 1 of the current year.
	EffectiveFrom string `json:"effective_from,omitempty"`
}

func (r *SeedDefaultRequest) Validate() error {
	if r.EffectiveFrom == "" {
		return nil
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		return validator.ValidationErrors{
			{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"},
		}
	}
	return nil
}

type BandSetResponse struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	EffectiveFrom string    `json:"effective_from"`
	Bands         []TaxBand `json:"bands"`

	PensionEmployeeRate decimal.Decimal `json:"pension_employee_rate"`
	PensionEmployerRate decimal.Decimal `json:"pension_employer_rate"`
	NHFRate             decimal.Decimal `json:"nhf_rate"`
	CRAFixed            decimal.Decimal `json:"cra_fixed"`
	CRAGrossPct         decimal.Decimal `json:"cra_gross_pct"`
	CRAMinPct           decimal.Decimal `json:"cra_min_pct"`
}

func ToBandSetResponse(set TaxBandSet) BandSetResponse {
	return BandSetResponse{
		ID:                  set.ID,
		CompanyID:           set.CompanyID,
		EffectiveFrom:       set.EffectiveFrom.Format("2006-01-02"),
		Bands:               set.Bands,
		PensionEmployeeRate: set.PensionEmployeeRate,
		PensionEmployerRate: set.PensionEmployerRate,
		NHFRate:             set.NHFRate,
		CRAFixed:            set.CRAFixed,
		CRAGrossPct:         set.CRAGrossPct,
		CRAMinPct:           set.CRAMinPct,
	}
}
