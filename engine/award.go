/*
award.go - Award and award rule definitions

PURPOSE:
  Defines the pay instruments the interpreter evaluates: an Award identifies
  a named instrument (e.g., Hospitality Industry General Award), and each
  AwardRule describes one loading, allowance, or overtime entitlement with
  its applicability conditions.

KEY CONCEPTS:
  - Award: Versioned, immutable once published; superseded, never mutated
  - AwardRule: Conditions + a closed rule-kind variant (RuleSpec)
  - RuleConditions: day-of-week, clock window, classification, employment
    type, public-holiday flag, effective window
  - Rules are additive: no rule replaces another. A 150% Saturday penalty
    is computed as the FULL rate for those hours and added alongside the
    base salary component; see calc.go for the base-pay policy knob.

RULE KINDS (closed variant set):
  PenaltyRateSpec:  percentage-of-base for hours worked under a condition
  AllowanceSpec:    fixed / hourly / daily amounts
  ShiftLoadingSpec: percentage or fixed hourly premium for shift windows
  OvertimeSpec:     daily or weekly excess-hours pay

  Rule behavior is selected by type switch on RuleSpec, not by comparing
  kind strings, so a new kind fails to compile anywhere the switch is not
  extended.

SEE ALSO:
  - matcher.go: Applicability checks and minute clipping
  - loading.go: Monetary amounts per rule kind
  - overtime.go: Daily/weekly excess-hours aggregation
*/
package engine

import "time"

// =============================================================================
// AWARD - A named pay instrument
// =============================================================================

type Award struct {
	ID        AwardID
	Code      string
	Name      string
	Industry  string
	Version   int
	Effective EffectiveWindow
	Active    bool
}

// =============================================================================
// AWARD RULE - One entitlement under an award
// =============================================================================

type AwardRule struct {
	ID         RuleID
	AwardID    AwardID
	Name       string
	Conditions RuleConditions

	// Priority orders evaluation within an award; lower evaluates first.
	// Rules remain additive regardless of priority.
	Priority int

	// Spec selects the rule kind and carries only the fields that kind needs.
	Spec RuleSpec
}

// RuleConditions restrict when a rule applies. Unset fields mean
// "no restriction", never "never matches".
type RuleConditions struct {
	// Classification restricts to one employee classification (empty = any).
	Classification string

	// EmploymentType restricts to one employment type (empty = any).
	EmploymentType EmploymentType

	// Days restricts to specific weekdays (empty = any day).
	Days []time.Weekday

	// TimeFrom/TimeTo define a [from, to) clock window compared against the
	// entry's time of day. A window with TimeTo <= TimeFrom spans midnight
	// (e.g., 22:00-06:00). Both nil = any time.
	TimeFrom *ClockTime
	TimeTo   *ClockTime

	// PublicHolidayOnly limits the rule to gazetted public holidays.
	PublicHolidayOnly bool

	// Effective is the date range the rule is in force.
	Effective EffectiveWindow
}

// =============================================================================
// RULE SPEC - Closed tagged variant per rule kind
// =============================================================================

// RuleSpec is the closed set of rule kinds. Implementations live in this
// package only; the marker method keeps the set closed.
type RuleSpec interface {
	ruleKind() string
}

// PenaltyRateSpec pays the stated percentage of the base rate for the
// applicable hours. The percentage is the TOTAL multiplier for those hours
// (150 for Saturday time-and-a-half), not an increment over 100.
type PenaltyRateSpec struct {
	Percentage Percentage
}

// AllowanceMethod selects how an allowance amount is derived.
type AllowanceMethod string

const (
	// AllowanceFixed pays one flat amount per entry regardless of duration.
	AllowanceFixed AllowanceMethod = "fixed"
	// AllowanceHourly pays rate x applicable hours.
	AllowanceHourly AllowanceMethod = "hourly"
	// AllowanceDaily pays a flat per-day amount, once per day with any overlap.
	AllowanceDaily AllowanceMethod = "daily"
)

type AllowanceSpec struct {
	Method AllowanceMethod
	Amount Money // fixed/daily amount, or hourly rate for AllowanceHourly
}

// ShiftLoadingMethod selects how the loading rate is derived.
type ShiftLoadingMethod string

const (
	// LoadingPercentage derives the hourly premium from the base rate.
	LoadingPercentage ShiftLoadingMethod = "percentage"
	// LoadingFixed uses a flat hourly premium, ignoring the base rate.
	LoadingFixed ShiftLoadingMethod = "fixed"
)

type ShiftLoadingSpec struct {
	Method     ShiftLoadingMethod
	Percentage Percentage // for LoadingPercentage
	HourlyRate Money      // for LoadingFixed
}

// OvertimeBasis selects which aggregation pass the rule prices.
type OvertimeBasis string

const (
	OvertimeDaily  OvertimeBasis = "daily"
	OvertimeWeekly OvertimeBasis = "weekly"
)

// OvertimeMethod selects how excess hours are priced.
type OvertimeMethod string

const (
	// OvertimeMultiplier pays percentage-of-base for the excess hours.
	OvertimeMultiplier OvertimeMethod = "multiplier"
	// OvertimeFixedRate pays a flat hourly rate for the excess hours.
	OvertimeFixedRate OvertimeMethod = "fixed_rate"
)

type OvertimeSpec struct {
	Basis      OvertimeBasis
	Method     OvertimeMethod
	Percentage Percentage // for OvertimeMultiplier (e.g., 150)
	HourlyRate Money      // for OvertimeFixedRate
}

func (PenaltyRateSpec) ruleKind() string  { return "penalty_rate" }
func (AllowanceSpec) ruleKind() string    { return "allowance" }
func (ShiftLoadingSpec) ruleKind() string { return "shift_loading" }
func (OvertimeSpec) ruleKind() string     { return "overtime" }

// Kind returns the wire name of the rule's kind for serialization and
// reporting. The calculators never dispatch on this string.
func (r AwardRule) Kind() string {
	if r.Spec == nil {
		return ""
	}
	return r.Spec.ruleKind()
}
