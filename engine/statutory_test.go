package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// SUPERANNUATION GUARANTEE TESTS
// =============================================================================

func sgRate() engine.StatutoryRate {
	return engine.StatutoryRate{
		Type:    engine.RateSuperGuarantee,
		Rate:    engine.NewFraction(0.115),
		MaxBase: moneyRef(65070),
	}
}

func TestSuperGuarantee_RateOnOrdinaryTimeEarnings(t *testing.T) {
	contribution := engine.SuperGuarantee(money(4000), sgRate(), engine.Fortnightly)
	assertMoney(t, "460.00", contribution)
}

func TestSuperGuarantee_QuarterlyCapAppliedBeforeRate(t *testing.T) {
	// GIVEN: Fortnightly OTE above the apportioned quarterly maximum base
	// WHEN: Computing the guarantee
	// THEN: The base is capped at 65,070 / 6.5 periods per quarter first,
	//       then the rate applies: 10,010.7692 x 11.5% = $1,151.24

	contribution := engine.SuperGuarantee(money(12000), sgRate(), engine.Fortnightly)
	assertMoney(t, "1151.24", contribution)
}

func TestSuperGuarantee_UncappedWhenNoMaxBase(t *testing.T) {
	rate := sgRate()
	rate.MaxBase = nil

	contribution := engine.SuperGuarantee(money(12000), rate, engine.Fortnightly)
	assertMoney(t, "1380.00", contribution)
}

func TestSuperGuarantee_NegativeEarningsContributeNothing(t *testing.T) {
	contribution := engine.SuperGuarantee(money(-500), sgRate(), engine.Fortnightly)
	assert.True(t, contribution.IsZero())
}

// =============================================================================
// PAYROLL TAX TESTS
// =============================================================================

func TestPayrollTax_GatedByMonthlyWagesThreshold(t *testing.T) {
	// GIVEN: A 5.45% rate gated at $100,000 of trailing monthly wages
	// WHEN: Trailing wages are at, below, and above the threshold
	// THEN: The tax is absent at or below and present above

	rate := engine.StatutoryRate{
		Type:      engine.RatePayrollTax,
		Rate:      engine.NewFraction(0.0545),
		Threshold: moneyRef(100000),
	}

	_, ok := engine.PayrollTax(money(5000), money(100000), rate)
	assert.False(t, ok, "tax at the threshold should be absent")

	_, ok = engine.PayrollTax(money(5000), money(40000), rate)
	assert.False(t, ok, "tax below the threshold should be absent")

	tax, ok := engine.PayrollTax(money(5000), money(150000), rate)
	assert.True(t, ok)
	assertMoney(t, "272.50", tax)
}

func TestPayrollTax_NoThresholdAlwaysApplies(t *testing.T) {
	rate := engine.StatutoryRate{Type: engine.RatePayrollTax, Rate: engine.NewFraction(0.05)}

	tax, ok := engine.PayrollTax(money(2000), engine.ZeroMoney(), rate)
	assert.True(t, ok)
	assertMoney(t, "100.00", tax)
}

// =============================================================================
// WORKERS COMPENSATION TESTS
// =============================================================================

func TestWorkersComp_PremiumPerHundredFoldedAtConstruction(t *testing.T) {
	// GIVEN: The industry-convention quote of $1.48 per $100 of wages
	// WHEN: Applying it to $1,000 gross
	// THEN: The fraction was folded once; the premium is $14.80

	rate := engine.NewWorkersCompRate(1.48, engine.NSW, engine.EffectiveWindow{})

	premium := engine.WorkersComp(money(1000), rate)
	assertMoney(t, "14.80", premium)
}

func TestStatutoryRate_AppliesToScopesByStateAndWindow(t *testing.T) {
	rate := engine.NewWorkersCompRate(1.27, engine.VIC,
		engine.WindowFrom(engine.NewDate(2026, 7, 1)))

	assert.True(t, rate.AppliesTo(engine.NewDate(2026, 8, 1), engine.VIC))
	assert.False(t, rate.AppliesTo(engine.NewDate(2026, 8, 1), engine.NSW), "wrong state")
	assert.False(t, rate.AppliesTo(engine.NewDate(2026, 6, 1), engine.VIC), "before the window")
	assert.True(t, rate.AppliesTo(engine.NewDate(2026, 8, 1), ""), "unknown state is not filtered")
}

// =============================================================================
// STUDY LOAN REPAYMENT TESTS
// =============================================================================

func repaymentScale() engine.RepaymentScale {
	return engine.RepaymentScale{
		FinancialYear: 2027,
		Bands: []engine.RepaymentBand{
			{From: money(50000), To: moneyRef(60000), Rate: engine.NewFraction(0.01)},
			{From: money(60000), Rate: engine.NewFraction(0.02)},
		},
	}
}

func TestStudyLoanRepayment_BandRateAppliesToWholePeriodAmount(t *testing.T) {
	// GIVEN: $2,500 fortnightly, annualizing to $65,000 in the 2% band
	// WHEN: Computing the repayment
	// THEN: The single band rate applies to the whole period amount, not
	//       marginally: 2,500 x 2% = $50

	repay, ok := engine.StudyLoanRepayment(money(2500), engine.Fortnightly, repaymentScale())
	assert.True(t, ok)
	assertMoney(t, "50.00", repay)
}

func TestStudyLoanRepayment_LowerBandSelectedByAnnualizedIncome(t *testing.T) {
	repay, ok := engine.StudyLoanRepayment(money(1000), engine.Weekly, repaymentScale())
	assert.True(t, ok)
	assertMoney(t, "10.00", repay) // 52,000 annualized lands in the 1% band
}

func TestStudyLoanRepayment_BelowFirstBandIsAbsent(t *testing.T) {
	_, ok := engine.StudyLoanRepayment(money(1500), engine.Fortnightly, repaymentScale())
	assert.False(t, ok, "annualized 39,000 is under every band")
}

func TestStudyLoanRepayment_NonPositiveIncomeIsAbsent(t *testing.T) {
	_, ok := engine.StudyLoanRepayment(engine.ZeroMoney(), engine.Fortnightly, repaymentScale())
	assert.False(t, ok)
}

// =============================================================================
// MEDICARE LEVY AND SURCHARGE TESTS
// =============================================================================

func medicareLevyRate() engine.StatutoryRate {
	return engine.StatutoryRate{
		Type:      engine.RateMedicareLevy,
		Rate:      engine.NewFraction(0.02),
		Threshold: moneyRef(26000),
	}
}

func TestMedicareLevy_GatedByAnnualizedThreshold(t *testing.T) {
	_, ok := engine.MedicareLevy(money(900), engine.Fortnightly, medicareLevyRate())
	assert.False(t, ok, "23,400 annualized is under the threshold")

	_, ok = engine.MedicareLevy(money(1000), engine.Fortnightly, medicareLevyRate())
	assert.False(t, ok, "exactly at the threshold the levy is absent")

	levy, ok := engine.MedicareLevy(money(1200), engine.Fortnightly, medicareLevyRate())
	assert.True(t, ok)
	assertMoney(t, "24.00", levy)
}

func TestMedicareSurcharge_PrivateCoverExempts(t *testing.T) {
	rate := engine.StatutoryRate{
		Type:      engine.RateMedicareSurcharge,
		Rate:      engine.NewFraction(0.01),
		Threshold: moneyRef(97000),
	}

	_, ok := engine.MedicareSurcharge(money(4000), engine.Fortnightly, true, rate)
	assert.False(t, ok, "qualifying cover exempts the surcharge")

	surcharge, ok := engine.MedicareSurcharge(money(4000), engine.Fortnightly, false, rate)
	assert.True(t, ok)
	assertMoney(t, "40.00", surcharge)
}
