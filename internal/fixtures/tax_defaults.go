package fixtures

import (
	"time"

	"github.com/gidihr/payroll-backend-go/internal/domain/taxconfig"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic("fixtures: bad decimal literal " + v)
	}
	return d
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

// ==========================================
// DEFAULT STATUTORY CONFIGURATION
// ==========================================

// DefaultTaxBandSet returns the Nigeria PAYE configuration seeded for a new
// company, per FIRS guidelines:
//
//	First ₦300,000: 7%, next ₦300,000: 11%, next ₦500,000: 15%,
//	next ₦500,000: 19%, next ₦1,600,000: 21%, above ₦3,200,000: 24%
//
// with PenCom 8%/10% pension, 2.5% NHF, and CRA = 20% of gross +
// max(₦200,000, 1% of gross).
func DefaultTaxBandSet(companyID string, effectiveFrom time.Time) taxconfig.TaxBandSet {
	return taxconfig.TaxBandSet{
		CompanyID:     companyID,
		EffectiveFrom: effectiveFrom,
		Bands: []taxconfig.TaxBand{
			{Width: decPtr("300000"), Rate: dec("0.07")},
			{Width: decPtr("300000"), Rate: dec("0.11")},
			{Width: decPtr("500000"), Rate: dec("0.15")},
			{Width: decPtr("500000"), Rate: dec("0.19")},
			{Width: decPtr("1600000"), Rate: dec("0.21")},
			{Width: nil, Rate: dec("0.24")},
		},
		PensionEmployeeRate: dec("0.08"),
		PensionEmployerRate: dec("0.10"),
		NHFRate:             dec("0.025"),
		CRAFixed:            dec("200000"),
		CRAGrossPct:         dec("0.20"),
		CRAMinPct:           dec("0.01"),
	}
}
