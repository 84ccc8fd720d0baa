package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func calcPeriod() engine.PayPeriod {
	return engine.PayPeriod{
		Start: engine.NewDate(2026, 7, 6),
		End:   engine.NewDate(2026, 7, 19),
	}
}

// calcRules holds the FY2024 resident scale and an 11.5% super guarantee
// rate. Tests append award rules or levies on top as needed.
func calcRules() engine.RuleSet {
	return engine.RuleSet{
		Awards:       map[engine.AwardID]engine.Award{},
		RulesByAward: map[engine.AwardID][]engine.AwardRule{},
		TaxTables: map[engine.Residency]engine.TaxTable{
			engine.Resident: fy2024Residents(),
		},
		Rates: []engine.StatutoryRate{sgRate()},
	}
}

func salariedEmployee(annual float64) engine.EmployeeProfile {
	return engine.EmployeeProfile{
		ID:             "emp-sal",
		Name:           "Kiran Moss",
		EmploymentType: engine.FullTime,
		State:          engine.NSW,
		AnnualSalary:   moneyRef(annual),
		PayFrequency:   engine.Fortnightly,
		SuperFundID:    "fund-1",
	}
}

func wagedEmployee(hourly float64) engine.EmployeeProfile {
	return engine.EmployeeProfile{
		ID:             "emp-waged",
		Name:           "Dana Holt",
		EmploymentType: engine.Casual,
		State:          engine.NSW,
		HourlyRate:     moneyRef(hourly),
		PayFrequency:   engine.Fortnightly,
		AwardID:        "award-1",
		SuperFundID:    "fund-1",
	}
}

// =============================================================================
// GROSS-TO-NET TESTS
// =============================================================================

func TestCalculate_SalariedGrossToNet(t *testing.T) {
	// GIVEN: $78,000 salary paid fortnightly on the FY2024 resident scale
	// WHEN: Calculating a period
	// THEN: Base 3,000.00, tax 608.35, super 345.00 employer-side,
	//       net = taxable - tax - deductions

	calc := engine.NewCalculator(calcRules())
	result, err := calc.Calculate(engine.PayrollInput{
		Employee: salariedEmployee(78000),
		Period:   calcPeriod(),
	})
	require.NoError(t, err)
	require.False(t, result.HasErrors(), "errors: %v", result.ValidationErrors)

	assertMoney(t, "3000.00", result.GrossPay)
	assertMoney(t, "3000.00", result.TaxableIncome)
	assertMoney(t, "608.35", result.TaxWithheld)
	assertMoney(t, "345.00", result.SuperTotal)
	assertMoney(t, "0.00", result.TotalDeductions)
	assertMoney(t, "2391.65", result.NetPay)

	require.Len(t, result.Earnings, 1)
	assert.Equal(t, engine.CategoryGross, result.Earnings[0].Category)
	require.Len(t, result.Super, 1)
	assert.Empty(t, result.Warnings, "full contribution should not warn")
}

func TestCalculate_WagedFromTimesheetHours(t *testing.T) {
	// GIVEN: A waged employee with two approved 8-hour shifts at $20/h
	// WHEN: Calculating
	// THEN: Base pay is hours x rate and low income withholds nothing

	rules := calcRules()
	rules.Awards["award-1"] = engine.Award{ID: "award-1"}

	calc := engine.NewCalculator(rules)
	result, err := calc.Calculate(engine.PayrollInput{
		Employee: wagedEmployee(20),
		Period:   calcPeriod(),
		Entries: []engine.TimesheetEntry{
			entryOn("e1", 2026, time.July, 7, 9, 0, 17, 0),
			entryOn("e2", 2026, time.July, 8, 9, 0, 17, 0),
		},
	})
	require.NoError(t, err)
	require.False(t, result.HasErrors(), "errors: %v", result.ValidationErrors)

	assertMoney(t, "320.00", result.GrossPay)
	assert.True(t, result.TaxWithheld.IsZero(), "annualized income is under the tax-free threshold")
	assertMoney(t, "320.00", result.NetPay)
}

func TestCalculate_WeekendPenaltyAddsEarningsLine(t *testing.T) {
	// GIVEN: A Saturday-only 150% penalty rule and one Saturday shift
	// WHEN: Calculating under the default additive policy
	// THEN: The shift earns base AND the full penalty line

	rules := calcRules()
	rules.Awards["award-1"] = engine.Award{ID: "award-1"}
	rules.RulesByAward["award-1"] = []engine.AwardRule{
		penaltyRule("sat", engine.RuleConditions{Days: []time.Weekday{time.Saturday}}, 150),
	}

	calc := engine.NewCalculator(rules)
	result, err := calc.Calculate(engine.PayrollInput{
		Employee: wagedEmployee(20),
		Period:   calcPeriod(),
		Entries: []engine.TimesheetEntry{
			entryOn("tue", 2026, time.July, 7, 9, 0, 17, 0),
			entryOn("sat", 2026, time.July, 11, 9, 0, 17, 0),
		},
	})
	require.NoError(t, err)

	// 16h x $20 base + 8h x $20 x 150% penalty.
	assertMoney(t, "560.00", result.GrossPay)
	require.NotNil(t, result.Interpretation)
	require.Len(t, result.Interpretation.PenaltyRates, 1)
	assertMoney(t, "240.00", result.Interpretation.TotalPenalties)
}

func TestCalculate_OffsetPolicyRemovesBasePayForPenaltyHours(t *testing.T) {
	// GIVEN: The same penalty scenario under both base pay policies
	// WHEN: Calculating twice
	// THEN: The offset policy pays penalty hours at the penalty rate alone,
	//       reducing gross by exactly base rate x penalty hours

	rules := calcRules()
	rules.Awards["award-1"] = engine.Award{ID: "award-1"}
	rules.RulesByAward["award-1"] = []engine.AwardRule{
		penaltyRule("sat", engine.RuleConditions{Days: []time.Weekday{time.Saturday}}, 150),
	}
	input := engine.PayrollInput{
		Employee: wagedEmployee(20),
		Period:   calcPeriod(),
		Entries: []engine.TimesheetEntry{
			entryOn("sat", 2026, time.July, 11, 9, 0, 17, 0),
		},
	}

	additive := engine.NewCalculator(rules)
	offset := engine.NewCalculator(rules)
	offset.Policy = engine.BasePayOffsetPenalty

	withBase, err := additive.Calculate(input)
	require.NoError(t, err)
	withoutBase, err := offset.Calculate(input)
	require.NoError(t, err)

	assertMoney(t, "400.00", withBase.GrossPay)  // 160 base + 240 penalty
	assertMoney(t, "240.00", withoutBase.GrossPay) // penalty rate alone
	assertMoney(t, "160.00", withBase.GrossPay.Sub(withoutBase.GrossPay))
}

func TestCalculate_EmptyTimesheetIsZeroNotError(t *testing.T) {
	calc := engine.NewCalculator(calcRules())
	result, err := calc.Calculate(engine.PayrollInput{
		Employee: wagedEmployee(20),
		Period:   calcPeriod(),
	})
	require.NoError(t, err)
	assert.False(t, result.HasErrors())
	assert.True(t, result.GrossPay.IsZero())
	assert.True(t, result.NetPay.IsZero())
}

// =============================================================================
// DEDUCTION AND ADJUSTMENT TESTS
// =============================================================================

func TestCalculate_PreTaxDeductionReducesTaxableIncome(t *testing.T) {
	// GIVEN: A $250 pre-tax salary sacrifice
	// WHEN: Calculating
	// THEN: Taxable income and withholding both drop; gross does not

	calc := engine.NewCalculator(calcRules())
	result, err := calc.Calculate(engine.PayrollInput{
		Employee: salariedEmployee(78000),
		Period:   calcPeriod(),
		Deductions: []engine.Deduction{
			{Description: "Salary sacrifice super", Method: engine.DeductionFixed, Timing: engine.PreTax, Amount: money(250)},
		},
	})
	require.NoError(t, err)

	assertMoney(t, "3000.00", result.GrossPay)
	assertMoney(t, "2750.00", result.TaxableIncome)
	assertMoney(t, "527.10", result.TaxWithheld)
	assertMoney(t, "0.00", result.TotalDeductions) // pre-tax side is not in the net-pay ledger
	assertMoney(t, "2222.90", result.NetPay)
}

func TestCalculate_PostTaxDeductionReducesNetOnly(t *testing.T) {
	calc := engine.NewCalculator(calcRules())
	result, err := calc.Calculate(engine.PayrollInput{
		Employee: salariedEmployee(78000),
		Period:   calcPeriod(),
		Deductions: []engine.Deduction{
			{Description: "Social club", Method: engine.DeductionFixed, Timing: engine.PostTax, Amount: money(10)},
		},
	})
	require.NoError(t, err)

	assertMoney(t, "3000.00", result.TaxableIncome)
	assertMoney(t, "608.35", result.TaxWithheld)
	assertMoney(t, "10.00", result.TotalDeductions)
	assertMoney(t, "2381.65", result.NetPay)
}

func TestCalculate_FormulaAdjustment(t *testing.T) {
	// GIVEN: A bonus formula over the whitelisted payroll variables
	// WHEN: Calculating
	// THEN: The evaluated amount joins gross as an adjustment earning

	calc := engine.NewCalculator(calcRules())
	result, err := calc.Calculate(engine.PayrollInput{
		Employee: salariedEmployee(78000),
		Period:   calcPeriod(),
		Adjustments: []engine.SalaryAdjustment{
			{Description: "Retention bonus", Formula: "annual_salary / periods_per_year * 0.1"},
		},
	})
	require.NoError(t, err)
	require.False(t, result.HasErrors(), "errors: %v", result.ValidationErrors)

	assertMoney(t, "3300.00", result.GrossPay)
	require.Len(t, result.Earnings, 2)
	assert.Equal(t, engine.CategoryAdjustment, result.Earnings[1].Category)
}

func TestCalculate_NegativeAdjustmentBecomesDeductionComponent(t *testing.T) {
	calc := engine.NewCalculator(calcRules())
	result, err := calc.Calculate(engine.PayrollInput{
		Employee: salariedEmployee(78000),
		Period:   calcPeriod(),
		Adjustments: []engine.SalaryAdjustment{
			{Description: "Overpayment recovery", Amount: money(-100)},
		},
	})
	require.NoError(t, err)

	assertMoney(t, "2900.00", result.GrossPay)
	require.Len(t, result.Deductions, 1)
	assert.Equal(t, engine.ComponentDeduction, result.Deductions[0].Kind)
	assert.False(t, result.Deductions[0].Amount.IsNegative(), "component amounts stay non-negative")
}

func TestCalculate_BadFormulaIsValidationErrorNotAbort(t *testing.T) {
	calc := engine.NewCalculator(calcRules())
	result, err := calc.Calculate(engine.PayrollInput{
		Employee: salariedEmployee(78000),
		Period:   calcPeriod(),
		Adjustments: []engine.SalaryAdjustment{
			{Description: "Broken bonus", Formula: "mystery_var * 2"},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.HasErrors())
	assertMoney(t, "3000.00", result.GrossPay)
}

// =============================================================================
// STATUTORY WITHHOLDING TESTS
// =============================================================================

func TestCalculate_HELPRepaymentWithheldPostTax(t *testing.T) {
	// GIVEN: A HELP debtor whose annualized income sits in the 2% band
	// WHEN: Calculating
	// THEN: The repayment is a post-tax deduction, not extra tax

	rules := calcRules()
	rules.HELPScale = repaymentScale()

	employee := salariedEmployee(78000)
	employee.HasHELPDebt = true

	calc := engine.NewCalculator(rules)
	result, err := calc.Calculate(engine.PayrollInput{Employee: employee, Period: calcPeriod()})
	require.NoError(t, err)

	assertMoney(t, "608.35", result.TaxWithheld)
	assertMoney(t, "60.00", result.TotalDeductions)
	assertMoney(t, "2331.65", result.NetPay)
	require.Len(t, result.Deductions, 1)
	assert.Equal(t, engine.CategoryStudyLoan, result.Deductions[0].Category)
}

func TestCalculate_MedicareLevyAboveThreshold(t *testing.T) {
	rules := calcRules()
	rules.Rates = append(rules.Rates, medicareLevyRate())

	calc := engine.NewCalculator(rules)
	result, err := calc.Calculate(engine.PayrollInput{
		Employee: salariedEmployee(78000),
		Period:   calcPeriod(),
	})
	require.NoError(t, err)

	assertMoney(t, "60.00", result.TotalDeductions) // 3,000 x 2%
	require.Len(t, result.Deductions, 1)
	assert.Equal(t, engine.CategoryMedicare, result.Deductions[0].Category)
}

func TestCalculate_EmployerChargesNeverReduceNet(t *testing.T) {
	// GIVEN: Payroll tax above its wage threshold and a workers comp rate
	// WHEN: Calculating
	// THEN: Both land in EmployerCharges and net pay is untouched

	rules := calcRules()
	rules.Rates = append(rules.Rates,
		engine.StatutoryRate{Type: engine.RatePayrollTax, Rate: engine.NewFraction(0.0545), Threshold: moneyRef(100000)},
		engine.NewWorkersCompRate(1.48, "", engine.EffectiveWindow{}),
	)

	calc := engine.NewCalculator(rules)
	result, err := calc.Calculate(engine.PayrollInput{
		Employee:             salariedEmployee(78000),
		Period:               calcPeriod(),
		TrailingMonthlyWages: money(250000),
	})
	require.NoError(t, err)

	require.Len(t, result.EmployerCharges, 2)
	assertMoney(t, "163.50", result.EmployerCharges[0].Amount) // 3,000 x 5.45%
	assertMoney(t, "44.40", result.EmployerCharges[1].Amount)  // 3,000 x 1.48%
	assertMoney(t, "2391.65", result.NetPay)
}

func TestCalculate_SuperCapTriggersShortfallWarning(t *testing.T) {
	// GIVEN: A salary whose fortnightly pay exceeds the apportioned
	//        quarterly maximum contribution base
	// WHEN: Calculating
	// THEN: The capped contribution draws a warning, not an error

	calc := engine.NewCalculator(calcRules())
	result, err := calc.Calculate(engine.PayrollInput{
		Employee: salariedEmployee(400000),
		Period:   calcPeriod(),
	})
	require.NoError(t, err)
	assert.False(t, result.HasErrors())
	assert.NotEmpty(t, result.Warnings)
	assertMoney(t, "1151.24", result.SuperTotal) // capped base 10,010.77 x 11.5%
}

// =============================================================================
// FAILURE SEMANTICS TESTS
// =============================================================================

func TestCalculate_InvalidPeriodAborts(t *testing.T) {
	calc := engine.NewCalculator(calcRules())
	_, err := calc.Calculate(engine.PayrollInput{
		Employee: salariedEmployee(78000),
		Period:   engine.PayPeriod{Start: engine.NewDate(2026, 7, 19), End: engine.NewDate(2026, 7, 6)},
	})
	assert.ErrorIs(t, err, engine.ErrInvalidPeriod)
}

func TestCalculate_MissingResidentTaxTableAborts(t *testing.T) {
	rules := calcRules()
	rules.TaxTables = nil

	calc := engine.NewCalculator(rules)
	_, err := calc.Calculate(engine.PayrollInput{Employee: salariedEmployee(78000), Period: calcPeriod()})
	assert.ErrorIs(t, err, engine.ErrTaxTableNotFound)
}

func TestCalculate_MissingSuperRateIsComplianceError(t *testing.T) {
	rules := calcRules()
	rules.Rates = nil

	calc := engine.NewCalculator(rules)
	_, err := calc.Calculate(engine.PayrollInput{Employee: salariedEmployee(78000), Period: calcPeriod()})
	require.ErrorIs(t, err, engine.ErrStatutoryRateMissing)

	var calcErr *engine.CalculationError
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, engine.KindCompliance, calcErr.Kind)
}

func TestCalculate_MissingSuperFundAborts(t *testing.T) {
	employee := salariedEmployee(78000)
	employee.SuperFundID = ""

	calc := engine.NewCalculator(calcRules())
	_, err := calc.Calculate(engine.PayrollInput{Employee: employee, Period: calcPeriod()})
	assert.ErrorIs(t, err, engine.ErrSuperFundMissing)
}

func TestCalculate_NegativeNetIsBlockedNotDropped(t *testing.T) {
	// GIVEN: A post-tax deduction larger than the pay
	// WHEN: Calculating
	// THEN: The result carries the negative net and a validation error so
	//       the batch layer can block persistence

	calc := engine.NewCalculator(calcRules())
	result, err := calc.Calculate(engine.PayrollInput{
		Employee: salariedEmployee(78000),
		Period:   calcPeriod(),
		Deductions: []engine.Deduction{
			{Description: "Garnishee", Method: engine.DeductionFixed, Timing: engine.PostTax, Amount: money(5000)},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.HasErrors())
	assert.True(t, result.NetPay.IsNegative())
}

func TestCalculate_Deterministic(t *testing.T) {
	// GIVEN: One input calculated twice against the same rule set
	// WHEN: Comparing the results
	// THEN: Every total and component count is identical

	rules := calcRules()
	rules.Awards["award-1"] = engine.Award{ID: "award-1"}
	rules.RulesByAward["award-1"] = []engine.AwardRule{
		penaltyRule("sat", engine.RuleConditions{Days: []time.Weekday{time.Saturday}}, 150),
	}
	input := engine.PayrollInput{
		Employee: wagedEmployee(31.40),
		Period:   calcPeriod(),
		Entries: []engine.TimesheetEntry{
			entryOn("e1", 2026, time.July, 10, 9, 0, 17, 0),
			entryOn("e2", 2026, time.July, 11, 9, 0, 17, 0),
		},
	}

	calc := engine.NewCalculator(rules)
	first, err := calc.Calculate(input)
	require.NoError(t, err)
	second, err := calc.Calculate(input)
	require.NoError(t, err)

	assert.Equal(t, first.NetPay.String(), second.NetPay.String())
	assert.Equal(t, first.GrossPay.String(), second.GrossPay.String())
	assert.Equal(t, first.TaxWithheld.String(), second.TaxWithheld.String())
	assert.Equal(t, len(first.Earnings), len(second.Earnings))
	assert.Equal(t, len(first.Deductions), len(second.Deductions))
}
