/*
statutory.go - Superannuation guarantee and statutory levies

PURPOSE:
  Side-effect-free calculators for the statutory amounts that ride along
  with every pay: superannuation guarantee, payroll tax, workers
  compensation premium, HELP/SFSS compulsory repayments, and the Medicare
  levy and surcharge. Each is a pure function of (employee flags, pay
  figures, period) and the effective StatutoryRate records.

RATE CONVENTIONS:
  StatutoryRate.Rate is ALWAYS a 0-1 fraction. Award percentages live on
  the 0-100 scale as engine.Percentage; the two never share a field.

CAPPING ORDER:
  The super guarantee cap is applied to the BASE before the rate:
    contribution = min(OTE, periodCap) x rate
  never min(OTE x rate, cap).

OMISSION SEMANTICS:
  Threshold-gated amounts below their gate are ABSENT, not zero: the
  calculator returns ok=false and the orchestrator emits no component.

SEE ALSO:
  - ato/rates.go: Published guarantee rates, bands, and thresholds
  - calc.go: Where these amounts become pay components
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// STATUTORY RATE - One named rate with scope and bounds
// =============================================================================

type RateType string

const (
	RateSuperGuarantee RateType = "super_guarantee"
	RatePayrollTax     RateType = "payroll_tax"
	RateWorkersComp    RateType = "workers_comp"
	RateMedicareLevy   RateType = "medicare_levy"
	RateMedicareSurcharge RateType = "medicare_levy_surcharge"
)

// StatutoryRate is one named rate scoped by effective window and optionally
// by state, industry, or employment type.
type StatutoryRate struct {
	Type           RateType
	Rate           Fraction
	Effective      EffectiveWindow
	State          State          // empty = all states
	Industry       string         // empty = all industries
	EmploymentType EmploymentType // empty = all types

	// Threshold gates the rate: payroll tax monthly wages, Medicare levy
	// annual income. Nil = no gate.
	Threshold *Money

	// MaxBase caps the amount the rate applies to: the super guarantee
	// quarterly maximum contribution base. Nil = uncapped.
	MaxBase *Money
}

// AppliesTo reports whether the rate is in scope for the given day and state.
func (r StatutoryRate) AppliesTo(d Date, state State) bool {
	if !r.Effective.Contains(d) {
		return false
	}
	if r.State != "" && state != "" && r.State != state {
		return false
	}
	return true
}

// =============================================================================
// SUPERANNUATION GUARANTEE
// =============================================================================

// SuperGuarantee computes the employer contribution for the period.
// The quarterly maximum contribution base is apportioned to the pay
// frequency and applied BEFORE the rate.
func SuperGuarantee(ordinaryTimeEarnings Money, rate StatutoryRate, frequency PayFrequency) Money {
	base := ordinaryTimeEarnings
	if rate.MaxBase != nil {
		periodCap := apportionQuarterlyCap(*rate.MaxBase, frequency)
		base = base.Min(periodCap)
	}
	if base.IsNegative() {
		base = ZeroMoney()
	}
	return base.MulFraction(rate.Rate).Round()
}

// apportionQuarterlyCap spreads the quarterly maximum contribution base
// across the pay periods in a quarter.
func apportionQuarterlyCap(quarterlyCap Money, frequency PayFrequency) Money {
	periodsPerQuarter := decimal.NewFromInt(int64(frequency.PeriodsPerYear())).
		Div(decimal.NewFromInt(QuartersPerYear))
	return quarterlyCap.Div(periodsPerQuarter)
}

// =============================================================================
// PAYROLL TAX
// =============================================================================

// PayrollTax computes the employer's payroll tax on the employee's taxable
// wages. Gated by the monthly-wages threshold: at or below the threshold the
// amount is absent (ok=false), not zero.
func PayrollTax(taxableWages, trailingMonthlyWages Money, rate StatutoryRate) (Money, bool) {
	if rate.Threshold != nil && !trailingMonthlyWages.GreaterThan(*rate.Threshold) {
		return ZeroMoney(), false
	}
	return taxableWages.MulFraction(rate.Rate).Round(), true
}

// =============================================================================
// WORKERS COMPENSATION
// =============================================================================

// WorkersComp computes the premium on gross pay. Premiums are quoted per
// $100 of wages; NewWorkersCompRate folds that base into the stored 0-1
// fraction once, at construction, so this calculation never re-divides.
func WorkersComp(grossPay Money, rate StatutoryRate) Money {
	return grossPay.MulFraction(rate.Rate).Round()
}

// NewWorkersCompRate converts a premium quoted per $100 of wages (the
// industry convention, e.g. 1.48) into a StatutoryRate carrying the 0-1
// fraction.
func NewWorkersCompRate(premiumPerHundred float64, state State, effective EffectiveWindow) StatutoryRate {
	return StatutoryRate{
		Type:      RateWorkersComp,
		Rate:      Fraction(decimal.NewFromFloat(premiumPerHundred).Div(hundred)),
		State:     state,
		Effective: effective,
	}
}

// =============================================================================
// HELP / SFSS DEBT REPAYMENT - Banded, not marginal
// =============================================================================

// RepaymentBand is one income band of a study-loan repayment scale.
// Bands are ordered ascending; To == nil marks the top band.
type RepaymentBand struct {
	From Money
	To   *Money
	Rate Fraction
}

// RepaymentScale is an ordered list of ascending income bands for one
// financial year. Unlike the tax table the scale is BANDED: the annualized
// income selects exactly one band and that single rate applies to the whole
// period amount.
type RepaymentScale struct {
	FinancialYear FinancialYear
	Bands         []RepaymentBand
}

// RateFor returns the single band rate selected by the annualized income.
// Income below the first band repays nothing.
func (s RepaymentScale) RateFor(annualIncome Money) (Fraction, bool) {
	for _, b := range s.Bands {
		if annualIncome.LessThan(b.From) {
			continue
		}
		if b.To == nil || annualIncome.LessThan(*b.To) {
			return b.Rate, true
		}
	}
	return Fraction{}, false
}

// StudyLoanRepayment computes the compulsory repayment for the period: the
// band is selected from the ANNUALIZED income, but the rate applies to the
// PERIOD's taxable income. Returns ok=false when income is below every band.
func StudyLoanRepayment(taxableForPeriod Money, frequency PayFrequency, scale RepaymentScale) (Money, bool) {
	if !taxableForPeriod.IsPositive() {
		return ZeroMoney(), false
	}
	annual := taxableForPeriod.Mul(decimal.NewFromInt(int64(frequency.PeriodsPerYear())))
	rate, ok := scale.RateFor(annual)
	if !ok {
		return ZeroMoney(), false
	}
	return taxableForPeriod.MulFraction(rate).Round(), true
}

// =============================================================================
// MEDICARE LEVY AND SURCHARGE
// =============================================================================

// MedicareLevy computes the levy on the period's taxable income once the
// annualized income exceeds the threshold. No shading zone is modeled:
// below the threshold the levy is absent.
func MedicareLevy(taxableForPeriod Money, frequency PayFrequency, rate StatutoryRate) (Money, bool) {
	annual := taxableForPeriod.Mul(decimal.NewFromInt(int64(frequency.PeriodsPerYear())))
	if rate.Threshold != nil && !annual.GreaterThan(*rate.Threshold) {
		return ZeroMoney(), false
	}
	return taxableForPeriod.MulFraction(rate.Rate).Round(), true
}

// MedicareSurcharge computes the levy surcharge, owed only above the
// surcharge threshold by employees without qualifying private health cover.
func MedicareSurcharge(taxableForPeriod Money, frequency PayFrequency, hasPrivateCover bool, rate StatutoryRate) (Money, bool) {
	if hasPrivateCover {
		return ZeroMoney(), false
	}
	return MedicareLevy(taxableForPeriod, frequency, rate)
}
