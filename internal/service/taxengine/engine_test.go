package taxengine

import (
	"testing"
	"time"

	"github.com/gidihr/payroll-backend-go/internal/domain/salary"
	"github.com/gidihr/payroll-backend-go/internal/domain/taxconfig"
	"github.com/gidihr/payroll-backend-go/internal/fixtures"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBandSet() taxconfig.TaxBandSet {
	return fixtures.DefaultTaxBandSet("company-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// assertMoney compares decimals by value, with readable output on mismatch.
func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func TestCompute_StandardFiveHundredThousandGross(t *testing.T) {
	t.Parallel()

	snap := salary.CompensationSnapshot{
		EmployeeID:        "emp-1",
		Basic:             d("300000"),
		Housing:           d("125000"),
		Transport:         d("75000"),
		PAYEApplicable:    true,
		PensionApplicable: true,
		NHFApplicable:     true,
	}

	comp := Compute(snap, testBandSet())

	assertMoney(t, "500000", comp.GrossPay, "gross_pay")
	assertMoney(t, "40000", comp.PensionEmployee, "pension_employee")
	assertMoney(t, "50000", comp.PensionEmployer, "pension_employer")
	assertMoney(t, "7500", comp.NHFDeduction, "nhf")

	assertMoney(t, "6000000", comp.Assessment.GrossAnnual, "gross_annual")
	assertMoney(t, "1400000", comp.Assessment.CRA, "cra")
	assertMoney(t, "4030000", comp.Assessment.TaxableAnnual, "taxable_annual")
	assertMoney(t, "759200", comp.Assessment.AnnualTax, "annual_tax")

	assertMoney(t, "63266.67", comp.PAYETax, "monthly_paye")
	assertMoney(t, "110766.67", comp.TotalDeductions, "total_deductions")
	assertMoney(t, "389233.33", comp.NetPay, "net_pay")
}

func TestCompute_BandBreakdownReconciles(t *testing.T) {
	t.Parallel()

	snap := salary.CompensationSnapshot{
		Basic:             d("300000"),
		Housing:           d("125000"),
		Transport:         d("75000"),
		PAYEApplicable:    true,
		PensionApplicable: true,
		NHFApplicable:     true,
	}

	comp := Compute(snap, testBandSet())

	// Taxable 4,030,000 reaches the unbounded band: all six bands present.
	require.Len(t, comp.Assessment.BandBreakdown, 6)

	wantTax := []string{"21000", "33000", "75000", "95000", "336000", "199200"}
	sum := decimal.Zero
	for i, band := range comp.Assessment.BandBreakdown {
		assertMoney(t, wantTax[i], band.Tax, "band tax")
		sum = sum.Add(band.Tax)
	}
	assert.True(t, sum.Equal(comp.Assessment.AnnualTax), "band taxes must sum to annual tax")

	// Final band is the unbounded one and consumes the remainder.
	last := comp.Assessment.BandBreakdown[5]
	assert.Nil(t, last.Width)
	assertMoney(t, "830000", last.Taxable, "last band taxable")
}

func TestCompute_BandFoldStopsEarly(t *testing.T) {
	t.Parallel()

	// Monthly basic 50,000: gross annual 600,000, CRA 320,000, pension
	// annual 48,000, NHF annual 15,000 → taxable 217,000, all inside the
	// first 300,000 band.
	snap := salary.CompensationSnapshot{
		Basic:             d("50000"),
		PAYEApplicable:    true,
		PensionApplicable: true,
		NHFApplicable:     true,
	}

	comp := Compute(snap, testBandSet())

	require.Len(t, comp.Assessment.BandBreakdown, 1)
	assertMoney(t, "217000", comp.Assessment.TaxableAnnual, "taxable_annual")
	assertMoney(t, "217000", comp.Assessment.BandBreakdown[0].Taxable, "first band taxable")
	assertMoney(t, "15190", comp.Assessment.AnnualTax, "annual_tax")
}

func TestCompute_NetIdentityHolds(t *testing.T) {
	t.Parallel()

	grosses := []struct {
		basic, housing, transport string
	}{
		{"300000", "125000", "75000"},
		{"123456.78", "43210.99", "10000.01"},
		{"1000000", "0", "0"},
		{"85000", "15000", "7333.33"},
	}

	for _, g := range grosses {
		snap := salary.CompensationSnapshot{
			Basic:             d(g.basic),
			Housing:           d(g.housing),
			Transport:         d(g.transport),
			OtherDeductions:   map[string]decimal.Decimal{"LOAN": d("12500.50"), "UNION_DUES": d("1000")},
			PAYEApplicable:    true,
			PensionApplicable: true,
			NHFApplicable:     true,
		}

		comp := Compute(snap, testBandSet())

		rebuilt := comp.GrossPay.
			Sub(comp.PAYETax).
			Sub(comp.PensionEmployee).
			Sub(comp.NHFDeduction).
			Sub(comp.OtherDeductionsTotal)
		assert.True(t, rebuilt.Equal(comp.NetPay),
			"net identity broken for basic=%s: rebuilt %s, net %s", g.basic, rebuilt, comp.NetPay)
		assert.True(t, comp.TotalDeductions.Equal(comp.GrossPay.Sub(comp.NetPay)),
			"total deductions must equal gross minus net for basic=%s", g.basic)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	t.Parallel()

	snap := salary.CompensationSnapshot{
		Basic:   d("450000"),
		Housing: d("180000"),
		OtherAllowances: map[string]decimal.Decimal{
			"13TH_MONTH": d("37500"),
			"CALL_DUTY":  d("12000.45"),
			"REMOTE":     d("5000"),
		},
		OtherDeductions: map[string]decimal.Decimal{
			"LOAN":  d("20000"),
			"COOP":  d("5000"),
			"UNION": d("1250.75"),
		},
		PAYEApplicable:    true,
		PensionApplicable: true,
		NHFApplicable:     true,
	}
	set := testBandSet()

	first := Compute(snap, set)
	for range 50 {
		again := Compute(snap, set)
		require.Equal(t, first.NetPay.String(), again.NetPay.String())
		require.Equal(t, first.PAYETax.String(), again.PAYETax.String())
		require.Equal(t, first.GrossPay.String(), again.GrossPay.String())
	}
}

func TestCompute_PensionNotApplicable(t *testing.T) {
	t.Parallel()

	snap := salary.CompensationSnapshot{
		Basic:             d("300000"),
		Housing:           d("125000"),
		Transport:         d("75000"),
		PAYEApplicable:    true,
		PensionApplicable: false,
		NHFApplicable:     true,
	}

	comp := Compute(snap, testBandSet())

	assertMoney(t, "0", comp.PensionEmployee, "pension_employee")
	assertMoney(t, "0", comp.PensionEmployer, "pension_employer")
	// No pension relief: taxable rises from 4,030,000 to 4,510,000.
	assertMoney(t, "4510000", comp.Assessment.TaxableAnnual, "taxable_annual")
}

func TestCompute_NHFNotApplicable(t *testing.T) {
	t.Parallel()

	snap := salary.CompensationSnapshot{
		Basic:             d("300000"),
		Housing:           d("125000"),
		Transport:         d("75000"),
		PAYEApplicable:    true,
		PensionApplicable: true,
		NHFApplicable:     false,
	}

	comp := Compute(snap, testBandSet())

	assertMoney(t, "0", comp.NHFDeduction, "nhf")
	assertMoney(t, "4120000", comp.Assessment.TaxableAnnual, "taxable_annual")
}

func TestCompute_PAYENotApplicable(t *testing.T) {
	t.Parallel()

	snap := salary.CompensationSnapshot{
		Basic:             d("300000"),
		Housing:           d("125000"),
		Transport:         d("75000"),
		PAYEApplicable:    false,
		PensionApplicable: true,
		NHFApplicable:     true,
	}

	comp := Compute(snap, testBandSet())

	assertMoney(t, "0", comp.PAYETax, "paye")
	// Statutory contributions are independent of PAYE applicability.
	assertMoney(t, "40000", comp.PensionEmployee, "pension_employee")
	assertMoney(t, "7500", comp.NHFDeduction, "nhf")
	assertMoney(t, "452500", comp.NetPay, "net_pay")
}

func TestCompute_ZeroIncome(t *testing.T) {
	t.Parallel()

	snap := salary.CompensationSnapshot{
		PAYEApplicable:    true,
		PensionApplicable: true,
		NHFApplicable:     true,
	}

	comp := Compute(snap, testBandSet())

	assertMoney(t, "0", comp.GrossPay, "gross_pay")
	assertMoney(t, "0", comp.PAYETax, "paye")
	assertMoney(t, "0", comp.NetPay, "net_pay")
	assert.False(t, comp.Assessment.TaxableAnnual.IsNegative())
	assert.Empty(t, comp.Assessment.BandBreakdown)
}

func TestCompute_ReliefsExceedGross(t *testing.T) {
	t.Parallel()

	// Annual gross 240,000 is fully consumed by CRA (48,000 + 200,000):
	// taxable clamps at zero, no tax.
	snap := salary.CompensationSnapshot{
		Basic:             d("20000"),
		PAYEApplicable:    true,
		PensionApplicable: true,
		NHFApplicable:     true,
	}

	comp := Compute(snap, testBandSet())

	assertMoney(t, "0", comp.Assessment.TaxableAnnual, "taxable_annual")
	assertMoney(t, "0", comp.PAYETax, "paye")
	// Pension and NHF still apply even when no tax is due.
	assertMoney(t, "1600", comp.PensionEmployee, "pension_employee")
	assertMoney(t, "500", comp.NHFDeduction, "nhf")
}

func TestCompute_OtherAllowancesAndDeductions(t *testing.T) {
	t.Parallel()

	snap := salary.CompensationSnapshot{
		Basic:     d("200000"),
		Housing:   d("80000"),
		Transport: d("40000"),
		Meal:      d("20000"),
		Utility:   d("10000"),
		OtherAllowances: map[string]decimal.Decimal{
			"13TH_MONTH": d("25000"),
		},
		OtherDeductions: map[string]decimal.Decimal{
			"LOAN":  d("15000"),
			"UNION": d("2000"),
		},
		PAYEApplicable:    true,
		PensionApplicable: true,
		NHFApplicable:     true,
	}

	comp := Compute(snap, testBandSet())

	assertMoney(t, "375000", comp.GrossPay, "gross_pay")
	assertMoney(t, "17000", comp.OtherDeductionsTotal, "other_deductions_total")
	// Pensionable base stays basic+housing+transport: meal, utility and
	// other allowances are taxed but not pensionable.
	assertMoney(t, "25600", comp.PensionEmployee, "pension_employee")
	assertMoney(t, "32000", comp.PensionEmployer, "pension_employer")
}

func TestPreview_SynthesizedSplit(t *testing.T) {
	t.Parallel()

	comp := Preview(d("500000"), testBandSet())

	// 60/25/15 split reproduces the standard 500k scenario exactly.
	assertMoney(t, "500000", comp.GrossPay, "gross_pay")
	assertMoney(t, "6000000", comp.Assessment.GrossAnnual, "gross_annual")
	assertMoney(t, "63266.67", comp.PAYETax, "monthly_paye")
	assertMoney(t, "389233.33", comp.NetPay, "net_pay")
	assertMoney(t, "12.65", comp.Assessment.EffectiveRate, "effective_rate")
	require.Len(t, comp.Assessment.BandBreakdown, 6)
}

func TestPreview_ZeroGross(t *testing.T) {
	t.Parallel()

	comp := Preview(decimal.Zero, testBandSet())

	assertMoney(t, "0", comp.NetPay, "net_pay")
	assertMoney(t, "0", comp.Assessment.EffectiveRate, "effective_rate")
}
