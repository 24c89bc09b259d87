// Package taxengine computes Nigerian statutory payroll deductions: PAYE
// under the progressive band table, PenCom pension contributions and the NHF
// levy. Every function here is pure - no I/O, no mutable state - so the same
// inputs always produce byte-identical outputs, which the preview endpoint
// and idempotent reprocessing both rely on.
package taxengine

import (
	"sort"

	"github.com/gidihr/payroll-backend-go/internal/domain/salary"
	"github.com/gidihr/payroll-backend-go/internal/domain/taxconfig"
	"github.com/shopspring/decimal"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)

	// Default basic/housing/transport split used when synthesizing a
	// snapshot from a bare gross figure (tax preview only; actual runs use
	// per-employee component amounts).
	defaultBasicShare     = decimal.NewFromFloat(0.60)
	defaultHousingShare   = decimal.NewFromFloat(0.25)
	defaultTransportShare = decimal.NewFromFloat(0.15)
)

// BandTax is the tax taken from one band of the progressive table.
type BandTax struct {
	Width   *decimal.Decimal
	Rate    decimal.Decimal
	Taxable decimal.Decimal
	Tax     decimal.Decimal
}

// Assessment carries the annualized figures behind a monthly PAYE amount.
type Assessment struct {
	GrossAnnual   decimal.Decimal
	CRA           decimal.Decimal
	PensionAnnual decimal.Decimal
	NHFAnnual     decimal.Decimal
	TaxableAnnual decimal.Decimal
	AnnualTax     decimal.Decimal
	// EffectiveRate is annual PAYE over annual gross, as a percentage.
	EffectiveRate decimal.Decimal
	BandBreakdown []BandTax
}

// Computation is one employee's monthly payslip arithmetic. All monetary
// fields are rounded to two decimal places; NetPay is derived by subtracting
// the rounded components from gross, so
// net = gross - paye - pension_employee - nhf - other_deductions_total holds
// exactly.
type Computation struct {
	GrossPay             decimal.Decimal
	PAYETax              decimal.Decimal
	PensionEmployee      decimal.Decimal
	PensionEmployer      decimal.Decimal
	NHFDeduction         decimal.Decimal
	OtherDeductionsTotal decimal.Decimal
	TotalDeductions      decimal.Decimal
	NetPay               decimal.Decimal

	Assessment Assessment
}

// round2 applies the storage rounding: two fractional digits, half up.
// Intermediate tax figures keep full precision; this is only applied at the
// computation boundary.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Compute derives the full payslip arithmetic for one compensation snapshot
// against one statutory band set.
//
// Monthly basis, annualized internally for tax:
//  1. gross = basic + housing + transport + meal + utility + other allowances
//  2. pension on basic + housing + transport (employer share reportable, not
//     deducted from net)
//  3. NHF on basic only
//  4. CRA = gross_annual*20% + max(200k, gross_annual*1%)
//  5. progressive band fold over taxable annual income
//  6. monthly PAYE = annual tax / 12
//
// Applicability flags on the snapshot force the respective component to zero
// before aggregation, so exempt employment types (interns, non-resident
// contractors) share the same code path.
func Compute(snap salary.CompensationSnapshot, set taxconfig.TaxBandSet) Computation {
	gross := snap.Basic.
		Add(snap.Housing).
		Add(snap.Transport).
		Add(snap.Meal).
		Add(snap.Utility)
	for _, amount := range sortedAmounts(snap.OtherAllowances) {
		gross = gross.Add(amount)
	}

	pensionEmployee := decimal.Zero
	pensionEmployer := decimal.Zero
	if snap.PensionApplicable {
		pensionableBase := snap.Basic.Add(snap.Housing).Add(snap.Transport)
		pensionEmployee = round2(pensionableBase.Mul(set.PensionEmployeeRate))
		pensionEmployer = round2(pensionableBase.Mul(set.PensionEmployerRate))
	}

	nhf := decimal.Zero
	if snap.NHFApplicable {
		nhf = round2(snap.Basic.Mul(set.NHFRate))
	}

	otherDeductionsTotal := decimal.Zero
	for _, amount := range sortedAmounts(snap.OtherDeductions) {
		otherDeductionsTotal = otherDeductionsTotal.Add(amount)
	}
	otherDeductionsTotal = round2(otherDeductionsTotal)

	assessment := assessAnnual(gross, pensionEmployee, nhf, set)

	paye := decimal.Zero
	if snap.PAYEApplicable {
		paye = round2(assessment.AnnualTax.Div(twelve))
	}

	totalDeductions := paye.Add(pensionEmployee).Add(nhf).Add(otherDeductionsTotal)
	net := gross.Sub(totalDeductions)

	return Computation{
		GrossPay:             gross,
		PAYETax:              paye,
		PensionEmployee:      pensionEmployee,
		PensionEmployer:      pensionEmployer,
		NHFDeduction:         nhf,
		OtherDeductionsTotal: otherDeductionsTotal,
		TotalDeductions:      totalDeductions,
		NetPay:               net,
		Assessment:           assessment,
	}
}

// Preview runs the same engine against a snapshot synthesized from a bare
// monthly gross with the default 60/25/15 basic/housing/transport split. No
// persistence; this backs the tax preview endpoint.
func Preview(monthlyGross decimal.Decimal, set taxconfig.TaxBandSet) Computation {
	snap := salary.CompensationSnapshot{
		Basic:             monthlyGross.Mul(defaultBasicShare),
		Housing:           monthlyGross.Mul(defaultHousingShare),
		Transport:         monthlyGross.Mul(defaultTransportShare),
		PAYEApplicable:    true,
		PensionApplicable: true,
		NHFApplicable:     true,
	}
	return Compute(snap, set)
}

// assessAnnual annualizes the monthly figures, applies the Consolidated
// Relief Allowance and the statutory reliefs, and folds the taxable
// remainder through the progressive band table.
func assessAnnual(grossMonthly, pensionMonthly, nhfMonthly decimal.Decimal, set taxconfig.TaxBandSet) Assessment {
	grossAnnual := grossMonthly.Mul(twelve)
	pensionAnnual := pensionMonthly.Mul(twelve)
	nhfAnnual := nhfMonthly.Mul(twelve)

	cra := grossAnnual.Mul(set.CRAGrossPct).
		Add(decimal.Max(set.CRAFixed, grossAnnual.Mul(set.CRAMinPct)))

	taxableAnnual := grossAnnual.Sub(cra).Sub(pensionAnnual).Sub(nhfAnnual)
	if taxableAnnual.IsNegative() {
		taxableAnnual = decimal.Zero
	}

	annualTax, breakdown := foldBands(taxableAnnual, set.Bands)

	effectiveRate := decimal.Zero
	if grossAnnual.IsPositive() {
		effectiveRate = annualTax.Div(grossAnnual).Mul(hundred).Round(2)
	}

	return Assessment{
		GrossAnnual:   grossAnnual,
		CRA:           cra,
		PensionAnnual: pensionAnnual,
		NHFAnnual:     nhfAnnual,
		TaxableAnnual: taxableAnnual,
		AnnualTax:     annualTax,
		EffectiveRate: effectiveRate,
		BandBreakdown: breakdown,
	}
}

// sortedAmounts returns map values in sorted key order so summation is
// deterministic regardless of map iteration order.
func sortedAmounts(m map[string]decimal.Decimal) []decimal.Decimal {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	amounts := make([]decimal.Decimal, 0, len(keys))
	for _, k := range keys {
		amounts = append(amounts, m[k])
	}
	return amounts
}

// foldBands walks the ordered band table carrying remaining taxable income
// as accumulator state: each band consumes min(remaining, width) at its
// rate, the final unbounded band consumes whatever is left, and the fold
// stops early once remaining reaches zero.
func foldBands(taxableAnnual decimal.Decimal, bands []taxconfig.TaxBand) (decimal.Decimal, []BandTax) {
	remaining := taxableAnnual
	total := decimal.Zero
	breakdown := make([]BandTax, 0, len(bands))

	for _, band := range bands {
		if !remaining.IsPositive() {
			break
		}

		taxable := remaining
		if band.Width != nil && band.Width.LessThan(remaining) {
			taxable = *band.Width
		}

		tax := taxable.Mul(band.Rate)
		total = total.Add(tax)
		breakdown = append(breakdown, BandTax{
			Width:   band.Width,
			Rate:    band.Rate,
			Taxable: taxable,
			Tax:     tax,
		})

		remaining = remaining.Sub(taxable)
	}

	return total, breakdown
}
