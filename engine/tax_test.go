package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func money(v float64) engine.Money { return engine.NewMoney(v) }

func moneyRef(v float64) *engine.Money {
	m := engine.NewMoney(v)
	return &m
}

// fy2024Residents is the FY2023-24 resident scale used by the worked
// examples in this file.
func fy2024Residents() engine.TaxTable {
	return engine.TaxTable{
		FinancialYear: 2024,
		Residency:     engine.Resident,
		Brackets: []engine.TaxBracket{
			{From: money(0), To: moneyRef(18200), BaseTax: money(0), Rate: engine.NewFraction(0)},
			{From: money(18200), To: moneyRef(45000), BaseTax: money(0), Rate: engine.NewFraction(0.19)},
			{From: money(45000), To: moneyRef(120000), BaseTax: money(5092), Rate: engine.NewFraction(0.325)},
			{From: money(120000), To: moneyRef(180000), BaseTax: money(29467), Rate: engine.NewFraction(0.37)},
			{From: money(180000), BaseTax: money(51667), Rate: engine.NewFraction(0.45)},
		},
	}
}

// =============================================================================
// TABLE VALIDATION TESTS
// =============================================================================

func TestTaxTableValidate_PublishedScaleIsValid(t *testing.T) {
	assert.NoError(t, fy2024Residents().Validate())
}

func TestTaxTableValidate_RejectsEmptyTable(t *testing.T) {
	table := engine.TaxTable{}
	assert.ErrorIs(t, table.Validate(), engine.ErrInvalidTaxTable)
}

func TestTaxTableValidate_RejectsGapBetweenBrackets(t *testing.T) {
	// GIVEN: Brackets with a hole between 18,200 and 20,000
	// WHEN: Validating
	// THEN: The gap is rejected

	table := engine.TaxTable{
		Brackets: []engine.TaxBracket{
			{From: money(0), To: moneyRef(18200)},
			{From: money(20000)},
		},
	}
	assert.ErrorIs(t, table.Validate(), engine.ErrInvalidTaxTable)
}

func TestTaxTableValidate_RejectsBoundedFinalBracket(t *testing.T) {
	// GIVEN: A final bracket with an upper bound
	// WHEN: Validating
	// THEN: Rejected; the top bracket must be open-ended

	table := engine.TaxTable{
		Brackets: []engine.TaxBracket{
			{From: money(0), To: moneyRef(18200)},
			{From: money(18200), To: moneyRef(45000)},
		},
	}
	assert.ErrorIs(t, table.Validate(), engine.ErrInvalidTaxTable)
}

// =============================================================================
// WITHHOLDING TESTS
// =============================================================================

func TestWithhold_WorkedFortnightlyExample(t *testing.T) {
	// GIVEN: $3,000 fortnightly taxable income on the FY2024 resident scale
	// WHEN: Withholding
	// THEN: $3,000 x 26 = $78,000 annualized lands in the 32.5% bracket:
	//       (5,092 + 33,000 x 0.325) / 26 = $608.35

	tax, err := engine.Withhold(money(3000), engine.Fortnightly, fy2024Residents())
	require.NoError(t, err)
	assertMoney(t, "608.35", tax)
}

func TestWithhold_BelowTaxFreeThreshold(t *testing.T) {
	// GIVEN: $500 fortnightly ($13,000 annualized), under the threshold
	// WHEN: Withholding
	// THEN: Nothing withheld

	tax, err := engine.Withhold(money(500), engine.Fortnightly, fy2024Residents())
	require.NoError(t, err)
	assert.True(t, tax.IsZero())
}

func TestWithhold_ZeroAndNegativeIncomeWithholdNothing(t *testing.T) {
	table := fy2024Residents()

	tax, err := engine.Withhold(money(0), engine.Fortnightly, table)
	require.NoError(t, err)
	assert.True(t, tax.IsZero())

	tax, err = engine.Withhold(money(-100), engine.Fortnightly, table)
	require.NoError(t, err)
	assert.True(t, tax.IsZero())
}

func TestWithhold_ContinuousAtBracketBoundary(t *testing.T) {
	// GIVEN: Fortnightly incomes annualizing to just below and exactly at
	//        the $45,000 bracket boundary
	// WHEN: Withholding for both
	// THEN: The amounts differ by at most a cent; base tax values keep the
	//       piecewise function continuous

	below, err := engine.Withhold(money(1730.76), engine.Fortnightly, fy2024Residents())
	require.NoError(t, err)
	at, err := engine.Withhold(money(1730.77), engine.Fortnightly, fy2024Residents())
	require.NoError(t, err)

	gap := at.Sub(below)
	assert.False(t, gap.IsNegative())
	assert.False(t, gap.GreaterThan(money(0.02)))
}

func TestWithhold_MonotonicAcrossScale(t *testing.T) {
	// GIVEN: Increasing fortnightly incomes spanning every bracket
	// WHEN: Withholding for each
	// THEN: Withholding never decreases

	table := fy2024Residents()
	prev := engine.ZeroMoney()
	for _, income := range []float64{200, 700, 1500, 2500, 3500, 4615, 5000, 7000, 9000, 15000} {
		tax, err := engine.Withhold(money(income), engine.Fortnightly, table)
		require.NoError(t, err)
		assert.False(t, tax.LessThan(prev), "withholding decreased at income %.2f", income)
		prev = tax
	}
}

func TestWithhold_FrequencyAnnualization(t *testing.T) {
	// GIVEN: The same $78,000 annual income paid weekly and monthly
	// WHEN: Withholding
	// THEN: Both derive from the same annual tax of $15,817

	weekly, err := engine.Withhold(money(1500), engine.Weekly, fy2024Residents())
	require.NoError(t, err)
	assertMoney(t, "304.17", weekly) // 15817 / 52

	monthly, err := engine.Withhold(money(6500), engine.Monthly, fy2024Residents())
	require.NoError(t, err)
	assertMoney(t, "1318.08", monthly) // 15817 / 12
}
