/*
Package engine provides the core payroll calculation engine.

PURPOSE:
  This package contains the types and algorithms that turn approved
  timesheets, an award rule set, and statutory rate tables into a
  gross-to-net pay result: award loadings, overtime, progressive tax
  withholding, superannuation guarantee, and the related levies.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A monetary amount backed by decimal.Decimal
  - Percentage: A rate on the 0-100 scale (e.g., 150 for a 150% penalty)
  - Fraction: A rate on the 0-1 scale (e.g., 0.02 for the Medicare levy)
  - PayFrequency: Weekly / fortnightly / monthly with periods-per-year
  - Employee/Award/Rule IDs: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Immutability: Rule sets and results are values, never mutated in place
  2. Precision: Uses decimal.Decimal to avoid floating-point errors;
     monetary outputs are rounded to 2 decimal places only at the point
     of final computation, never at intermediate steps
  3. Explicit rate units: Percentage (0-100) and Fraction (0-1) are
     distinct types so call sites cannot silently misapply a conversion
  4. Purity: Calculators are side-effect-free functions of their inputs

USAGE:
  rate := engine.NewMoney(25)                  // $25.00/hr
  pct := engine.Percentage(decimal.NewFromInt(150))
  amount := rate.MulFraction(pct.Fraction())   // $37.50/hr

SEE ALSO:
  - award.go: Award and rule definitions
  - calc.go: The gross-to-net orchestrator
  - tax.go: Progressive withholding tables
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Monetary amount in AUD
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int) Money {
	return Money{Value: decimal.NewFromInt(int64(value))}
}

func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{Value: decimal.Zero}
	}
	return Money{Value: d}
}

func ZeroMoney() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(b Money) Money             { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money             { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) Mul(s decimal.Decimal) Money   { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money   { return Money{Value: m.Value.Div(s)} }
func (m Money) Neg() Money                    { return Money{Value: m.Value.Neg()} }
func (m Money) IsNegative() bool              { return m.Value.IsNegative() }
func (m Money) IsZero() bool                  { return m.Value.IsZero() }
func (m Money) IsPositive() bool              { return m.Value.IsPositive() }
func (m Money) GreaterThan(b Money) bool      { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool         { return m.Value.LessThan(b.Value) }
func (m Money) Min(b Money) Money             { if m.LessThan(b) { return m }; return b }
func (m Money) Max(b Money) Money             { if m.GreaterThan(b) { return m }; return b }

// MulFraction applies a 0-1 rate to the amount.
func (m Money) MulFraction(f Fraction) Money { return Money{Value: m.Value.Mul(decimal.Decimal(f))} }

// Round returns the amount rounded to 2 decimal places (cents).
// Call this at the point of final computation only.
func (m Money) Round() Money { return Money{Value: m.Value.Round(2)} }

// Float returns the amount as a float64 for serialization boundaries.
func (m Money) Float() float64 {
	f, _ := m.Value.Float64()
	return f
}

func (m Money) String() string { return m.Value.StringFixed(2) }

// =============================================================================
// RATE UNITS - Percentage (0-100) vs Fraction (0-1)
// =============================================================================

// Percentage is a rate expressed on the 0-100 scale, the convention used by
// award rule records (150 means "pay 150% of base").
type Percentage decimal.Decimal

// Fraction is a rate expressed on the 0-1 scale, the convention used by
// statutory rate records (0.115 means "11.5% super guarantee").
type Fraction decimal.Decimal

func NewPercentage(value float64) Percentage { return Percentage(decimal.NewFromFloat(value)) }
func NewFraction(value float64) Fraction     { return Fraction(decimal.NewFromFloat(value)) }

var hundred = decimal.NewFromInt(100)

// Fraction converts a 0-100 percentage to its 0-1 equivalent.
func (p Percentage) Fraction() Fraction {
	return Fraction(decimal.Decimal(p).Div(hundred))
}

func (p Percentage) Decimal() decimal.Decimal { return decimal.Decimal(p) }
func (p Percentage) IsZero() bool             { return decimal.Decimal(p).IsZero() }

func (f Fraction) Decimal() decimal.Decimal { return decimal.Decimal(f) }
func (f Fraction) IsZero() bool             { return decimal.Decimal(f).IsZero() }

// Percentage converts a 0-1 fraction to its 0-100 equivalent.
func (f Fraction) Percentage() Percentage {
	return Percentage(decimal.Decimal(f).Mul(hundred))
}

// =============================================================================
// PAY FREQUENCY - How often the employee is paid
// =============================================================================

type PayFrequency string

const (
	Weekly      PayFrequency = "weekly"
	Fortnightly PayFrequency = "fortnightly"
	Monthly     PayFrequency = "monthly"
)

// PeriodsPerYear returns the number of pay periods in a year for annualizing
// and de-annualizing around the frequency. Unknown frequencies fall back to
// fortnightly, the most common Australian cycle.
func (f PayFrequency) PeriodsPerYear() int {
	switch f {
	case Weekly:
		return 52
	case Fortnightly:
		return 26
	case Monthly:
		return 12
	default:
		return 26
	}
}

func (f PayFrequency) Valid() bool {
	switch f {
	case Weekly, Fortnightly, Monthly:
		return true
	}
	return false
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type AwardID string
type RuleID string
type CompanyID string

// EmploymentType classifies the working arrangement; award rules may restrict
// applicability to one of these.
type EmploymentType string

const (
	FullTime  EmploymentType = "full_time"
	PartTime  EmploymentType = "part_time"
	Casual    EmploymentType = "casual"
	Contract  EmploymentType = "contract"
)

// State is an Australian state or territory code used to scope payroll tax
// and workers compensation rates.
type State string

const (
	NSW State = "NSW"
	VIC State = "VIC"
	QLD State = "QLD"
	SA  State = "SA"
	WA  State = "WA"
	TAS State = "TAS"
	NT  State = "NT"
	ACT State = "ACT"
)
