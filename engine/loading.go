/*
loading.go - Monetary amounts for matched award rules

PURPOSE:
  Given a matched rule, the entry, the base hourly rate, and the applicable
  minutes, computes the line item for penalty rates, allowances, and shift
  loadings. Overtime is priced separately in overtime.go because it
  aggregates across entries.

AMOUNT FORMULAS:
  Penalty rate:  base x percentage/100 x minutes/60. The percentage is the
                 TOTAL multiplier for those hours (150 for Saturday), not
                 an increment over 100.
  Allowance:     fixed (flat per entry), hourly (rate x hours), or daily
                 (flat per day, once if any overlap exists for that day).
  Shift loading: percentage of base or a fixed hourly rate, times hours.

OMISSION:
  A non-positive computed amount omits the line item entirely; it is never
  zeroed-and-kept. Rounding to cents happens here because the line amount
  is a final output.

SEE ALSO:
  - matcher.go: Produces the applicable minute counts
  - award.go: Rule kind variants
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// COMPUTED LINE ITEMS - Pure outputs, never mutated after creation
// =============================================================================

// PenaltyRateLine is one computed penalty amount for one entry and rule.
type PenaltyRateLine struct {
	RuleID          RuleID
	EntryID         string
	Date            Date
	ApplicableHours decimal.Decimal
	Percentage      Percentage
	Amount          Money
}

// AllowanceLine is one computed allowance for one entry and rule.
type AllowanceLine struct {
	RuleID          RuleID
	EntryID         string
	Date            Date
	Method          AllowanceMethod
	ApplicableHours decimal.Decimal
	Amount          Money
}

// ShiftLoadingLine is one computed shift loading for one entry and rule.
type ShiftLoadingLine struct {
	RuleID          RuleID
	EntryID         string
	Date            Date
	Method          ShiftLoadingMethod
	ApplicableHours decimal.Decimal
	Amount          Money
}

// OvertimeLine is one computed overtime amount for a day or week key.
type OvertimeLine struct {
	RuleID      RuleID
	Basis       OvertimeBasis
	Date        Date   // for daily overtime
	WeekKey     string // for weekly overtime
	ExcessHours decimal.Decimal
	Amount      Money
}

var sixty = decimal.NewFromInt(60)

func hoursFromMinutes(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty)
}

// =============================================================================
// LOADING CALCULATOR
// =============================================================================

// PenaltyRateAmount computes the penalty line for a matched penalty rule.
// Returns ok=false when the amount is not positive.
func PenaltyRateAmount(rule AwardRule, spec PenaltyRateSpec, entry TimesheetEntry, baseRate Money, applicableMinutes int) (PenaltyRateLine, bool) {
	hours := hoursFromMinutes(applicableMinutes)
	amount := baseRate.MulFraction(spec.Percentage.Fraction()).Mul(hours).Round()
	if !amount.IsPositive() {
		return PenaltyRateLine{}, false
	}
	return PenaltyRateLine{
		RuleID:          rule.ID,
		EntryID:         entry.ID,
		Date:            entry.StartDate(),
		ApplicableHours: hours,
		Percentage:      spec.Percentage,
		Amount:          amount,
	}, true
}

// AllowanceAmount computes the allowance line for a matched allowance rule.
//
// The daily method pays once per day with any overlap; de-duplication across
// entries on the same day is the interpreter's job (see interpretation.go),
// this function prices a single entry.
func AllowanceAmount(rule AwardRule, spec AllowanceSpec, entry TimesheetEntry, applicableMinutes int) (AllowanceLine, bool) {
	hours := hoursFromMinutes(applicableMinutes)

	var amount Money
	switch spec.Method {
	case AllowanceHourly:
		amount = spec.Amount.Mul(hours).Round()
	case AllowanceFixed, AllowanceDaily:
		if applicableMinutes <= 0 {
			return AllowanceLine{}, false
		}
		amount = spec.Amount.Round()
	default:
		return AllowanceLine{}, false
	}

	if !amount.IsPositive() {
		return AllowanceLine{}, false
	}
	return AllowanceLine{
		RuleID:          rule.ID,
		EntryID:         entry.ID,
		Date:            entry.StartDate(),
		Method:          spec.Method,
		ApplicableHours: hours,
		Amount:          amount,
	}, true
}

// ShiftLoadingAmount computes the loading line for a matched shift-loading
// rule: loading-rate x applicable hours, where the loading rate is either a
// percentage of base or a fixed hourly premium.
func ShiftLoadingAmount(rule AwardRule, spec ShiftLoadingSpec, entry TimesheetEntry, baseRate Money, applicableMinutes int) (ShiftLoadingLine, bool) {
	hours := hoursFromMinutes(applicableMinutes)

	var loadingRate Money
	switch spec.Method {
	case LoadingPercentage:
		loadingRate = baseRate.MulFraction(spec.Percentage.Fraction())
	case LoadingFixed:
		loadingRate = spec.HourlyRate
	default:
		return ShiftLoadingLine{}, false
	}

	amount := loadingRate.Mul(hours).Round()
	if !amount.IsPositive() {
		return ShiftLoadingLine{}, false
	}
	return ShiftLoadingLine{
		RuleID:          rule.ID,
		EntryID:         entry.ID,
		Date:            entry.StartDate(),
		Method:          spec.Method,
		ApplicableHours: hours,
		Amount:          amount,
	}, true
}
