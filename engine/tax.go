/*
tax.go - Progressive income tax withholding

PURPOSE:
  Applies a financial-year bracket table to a period's taxable income.
  The period amount is annualized around the pay frequency, the single
  containing bracket is located, tax is base + marginal rate over the
  bracket floor, and the annual figure is divided back to the period.

CRITICAL INVARIANTS:
  1. Brackets are ordered ascending by lower bound, contiguous and
     non-overlapping; the final bracket has no upper bound.
  2. Base tax values are pre-computed so the piecewise function is
     continuous at every bracket boundary.
  3. Withholding is monotonic: increasing income never decreases it.
  4. Rounding to 2 decimal places happens once, on the period amount.

EXAMPLE (FY2023-24 resident scale, fortnightly):
  $3,000 period x 26 = $78,000 annualized
  bracket [45,000, 120,000) rate 32.5% base $5,092
  annual tax = 5,092 + (78,000 - 45,000) x 0.325 = $15,817
  period tax = 15,817 / 26 = $608.35

SEE ALSO:
  - ato/tables.go: Published bracket scales
  - statutory.go: Levies computed alongside withholding
*/
package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TAX TABLE - Financial-year bracket scale
// =============================================================================

// TaxBracket is one income threshold. To == nil marks the open-ended top
// bracket. Rate is a 0-1 fraction; BaseTax is the cumulative tax at From.
type TaxBracket struct {
	From    Money
	To      *Money
	BaseTax Money
	Rate    Fraction
}

// Contains reports whether the annualized income falls in [From, To).
func (b TaxBracket) Contains(annual Money) bool {
	if annual.LessThan(b.From) {
		return false
	}
	return b.To == nil || annual.LessThan(*b.To)
}

// TaxTable is an ordered bracket scale for one financial year and residency.
// The same annual scale serves every pay frequency; the withholding
// calculation annualizes around the frequency before the lookup.
type TaxTable struct {
	FinancialYear FinancialYear
	Residency     Residency
	Brackets      []TaxBracket
}

type Residency string

const (
	Resident       Residency = "resident"
	NonResident    Residency = "non_resident"
	WorkingHoliday Residency = "working_holiday"
)

// Validate enforces the bracket invariants: ascending, contiguous,
// non-overlapping, open-ended final bracket.
func (t TaxTable) Validate() error {
	if len(t.Brackets) == 0 {
		return fmt.Errorf("%w: no brackets", ErrInvalidTaxTable)
	}
	sorted := sort.SliceIsSorted(t.Brackets, func(i, j int) bool {
		return t.Brackets[i].From.LessThan(t.Brackets[j].From)
	})
	if !sorted {
		return fmt.Errorf("%w: brackets not ascending", ErrInvalidTaxTable)
	}
	for i, b := range t.Brackets {
		last := i == len(t.Brackets)-1
		if last {
			if b.To != nil {
				return fmt.Errorf("%w: final bracket must be open-ended", ErrInvalidTaxTable)
			}
			continue
		}
		if b.To == nil {
			return fmt.Errorf("%w: only the final bracket may be open-ended", ErrInvalidTaxTable)
		}
		next := t.Brackets[i+1]
		if !b.To.Value.Equal(next.From.Value) {
			return fmt.Errorf("%w: gap or overlap between %s and %s", ErrInvalidTaxTable, b.To, next.From)
		}
	}
	return nil
}

// BracketFor locates the single bracket containing the annualized income.
func (t TaxTable) BracketFor(annual Money) (TaxBracket, bool) {
	for _, b := range t.Brackets {
		if b.Contains(annual) {
			return b, true
		}
	}
	return TaxBracket{}, false
}

// =============================================================================
// WITHHOLDING CALCULATOR
// =============================================================================

// Withhold computes the PAYG tax to withhold for one period.
// Negative taxable income withholds nothing.
func Withhold(taxableForPeriod Money, frequency PayFrequency, table TaxTable) (Money, error) {
	if !taxableForPeriod.IsPositive() {
		return ZeroMoney(), nil
	}

	periods := decimal.NewFromInt(int64(frequency.PeriodsPerYear()))
	annual := taxableForPeriod.Mul(periods)

	bracket, ok := table.BracketFor(annual)
	if !ok {
		return ZeroMoney(), fmt.Errorf("%w: no bracket for annualized income %s", ErrInvalidTaxTable, annual)
	}

	annualTax := bracket.BaseTax.Add(annual.Sub(bracket.From).MulFraction(bracket.Rate))
	return annualTax.Div(periods).Round(), nil
}
