package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func evalFormula(t *testing.T, formula string, vars engine.FormulaVars) decimal.Decimal {
	t.Helper()
	got, err := engine.EvaluateFormula(formula, vars)
	require.NoError(t, err, "formula %q", formula)
	return got
}

// =============================================================================
// FORMULA EVALUATION TESTS
// =============================================================================

func TestEvaluateFormula_Arithmetic(t *testing.T) {
	cases := []struct {
		formula string
		want    string
	}{
		{"1 + 2", "3"},
		{"10 - 4", "6"},
		{"3 * 2.5", "7.5"},
		{"9 / 4", "2.25"},
		{"2 + 3 * 4", "14"},       // precedence
		{"(2 + 3) * 4", "20"},     // parens win
		{"10 - 4 - 3", "3"},       // left-associative
		{"-5 + 8", "3"},           // unary minus
		{"-(2 + 3) * 2", "-10"},   // unary minus on a group
		{"100 / 4 / 5", "5"},      // left-associative division
	}
	for _, tc := range cases {
		got := evalFormula(t, tc.formula, nil)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"%q = %s, want %s", tc.formula, got, tc.want)
	}
}

func TestEvaluateFormula_Variables(t *testing.T) {
	// GIVEN: A variable scope and a penalty-style formula
	// WHEN: Evaluating
	// THEN: Identifiers resolve case-insensitively against the scope

	vars := engine.FormulaVars{
		"hours_worked": decimal.NewFromInt(38),
		"base_rate":    decimal.RequireFromString("31.40"),
	}

	got := evalFormula(t, "hours_worked * base_rate * 0.5", vars)
	assert.True(t, got.Equal(decimal.RequireFromString("596.6")), "got %s", got)

	got = evalFormula(t, "HOURS_WORKED * Base_Rate", vars)
	assert.True(t, got.Equal(decimal.RequireFromString("1193.2")), "got %s", got)
}

func TestEvaluateFormula_UnknownVariable(t *testing.T) {
	_, err := engine.EvaluateFormula("overtime_rate * 2", engine.FormulaVars{})
	assert.ErrorIs(t, err, engine.ErrFormulaInvalid)
}

func TestEvaluateFormula_DivisionByZero(t *testing.T) {
	_, err := engine.EvaluateFormula("100 / 0", nil)
	assert.ErrorIs(t, err, engine.ErrFormulaInvalid)
}

func TestEvaluateFormula_MalformedInput(t *testing.T) {
	for _, formula := range []string{
		"",
		"1 +",
		"(2 + 3",
		"2 3",
		"2 + foo(",
		"* 4",
	} {
		_, err := engine.EvaluateFormula(formula, nil)
		assert.ErrorIs(t, err, engine.ErrFormulaInvalid, "formula %q", formula)
	}
}
