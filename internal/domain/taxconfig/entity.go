package taxconfig

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxBand is one slice of the progressive PAYE table. Width is the amount of
// annual taxable income the band consumes; a nil Width marks the final,
// unbounded band.
type TaxBand struct {
	Width *decimal.Decimal `json:"width"`
	Rate  decimal.Decimal  `json:"rate"`
}

// TaxBandSet - versioned statutory configuration for a company.
// Historical payroll runs stay reproducible because band sets are selected by
// effective date, never mutated in place.
type TaxBandSet struct {
	ID            string
	CompanyID     string
	EffectiveFrom time.Time
	Bands         []TaxBand

	// PenCom contributory pension rates
	PensionEmployeeRate decimal.Decimal
	PensionEmployerRate decimal.Decimal

	// NHF levy rate (applied to basic salary only)
	NHFRate decimal.Decimal

	// Consolidated Relief Allowance: gross*GrossPct + max(Fixed, gross*MinPct)
	CRAFixed    decimal.Decimal
	CRAGrossPct decimal.Decimal
	CRAMinPct   decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the band set at load time: every band except the last must
// have a strictly positive width, the last band must be unbounded, and all
// rates must sit in [0,1].
func (s TaxBandSet) Validate() error {
	if len(s.Bands) == 0 {
		return ErrEmptyBandSet
	}

	for i, band := range s.Bands {
		last := i == len(s.Bands)-1
		if last {
			if band.Width != nil {
				return ErrLastBandBounded
			}
		} else {
			if band.Width == nil || !band.Width.IsPositive() {
				return ErrNonPositiveBandWidth
			}
		}
		if band.Rate.IsNegative() || band.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return ErrRateOutOfRange
		}
	}

	for _, rate := range []decimal.Decimal{s.PensionEmployeeRate, s.PensionEmployerRate, s.NHFRate, s.CRAGrossPct, s.CRAMinPct} {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return ErrRateOutOfRange
		}
	}
	if s.CRAFixed.IsNegative() {
		return ErrRateOutOfRange
	}

	return nil
}
