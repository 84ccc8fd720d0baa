/*
Package awards provides pre-built award rule configurations.

PURPOSE:
  Ready-to-use rule sets for common Australian awards. These are
  convenience presets that wire up the typical penalty, loading,
  allowance, and overtime entitlements; real deployments load the exact
  clauses of the relevant instrument via factory/ JSON configuration.

AVAILABLE PRESETS:
  HospitalityAward: Weekend penalties, night loading, split-shift and
                    meal allowances, daily and weekly overtime
  RetailAward:      Weekend/evening penalties and overtime
  NursesAward:      Night/weekend penalties, on-call allowance, overtime

RULE SEMANTICS:
  Penalty percentages are TOTAL multipliers for the matched hours
  (Saturday 150 pays 1.5x base for those hours) and rules are additive;
  see engine/calc.go for the base-pay interaction policy.

EXAMPLE:
  award, rules := awards.HospitalityAward("award-hospo")
  ruleSet.Awards[award.ID] = award
  ruleSet.RulesByAward[award.ID] = rules

SEE ALSO:
  - engine/award.go: Rule kind variants
  - factory/ruleset.go: JSON-based award creation
*/
package awards

import (
	"time"

	"github.com/warp/payroll-engine/engine"
)

func clock(h, m int) *engine.ClockTime {
	c := engine.NewClockTime(h, m)
	return &c
}

func weekend() []time.Weekday { return []time.Weekday{time.Saturday, time.Sunday} }

// =============================================================================
// HOSPITALITY
// =============================================================================

// HospitalityAward returns a hospitality-style award with weekend penalties,
// a night-shift loading, meal and laundry allowances, and both overtime
// bases.
func HospitalityAward(id engine.AwardID) (engine.Award, []engine.AwardRule) {
	award := engine.Award{
		ID:       id,
		Code:     "MA000009",
		Name:     "Hospitality Industry (General) Award",
		Industry: "hospitality",
		Version:  1,
		Active:   true,
	}
	rules := []engine.AwardRule{
		{
			ID: engine.RuleID(string(id) + "-sat"), AwardID: id, Name: "Saturday penalty", Priority: 10,
			Conditions: engine.RuleConditions{Days: []time.Weekday{time.Saturday}},
			Spec:       engine.PenaltyRateSpec{Percentage: engine.NewPercentage(150)},
		},
		{
			ID: engine.RuleID(string(id) + "-sun"), AwardID: id, Name: "Sunday penalty", Priority: 10,
			Conditions: engine.RuleConditions{Days: []time.Weekday{time.Sunday}},
			Spec:       engine.PenaltyRateSpec{Percentage: engine.NewPercentage(175)},
		},
		{
			ID: engine.RuleID(string(id) + "-pubhol"), AwardID: id, Name: "Public holiday penalty", Priority: 5,
			Conditions: engine.RuleConditions{PublicHolidayOnly: true},
			Spec:       engine.PenaltyRateSpec{Percentage: engine.NewPercentage(250)},
		},
		{
			ID: engine.RuleID(string(id) + "-night"), AwardID: id, Name: "Night shift loading", Priority: 20,
			Conditions: engine.RuleConditions{TimeFrom: clock(22, 0), TimeTo: clock(6, 0)},
			Spec:       engine.ShiftLoadingSpec{Method: engine.LoadingPercentage, Percentage: engine.NewPercentage(15)},
		},
		{
			ID: engine.RuleID(string(id) + "-meal"), AwardID: id, Name: "Meal allowance", Priority: 30,
			Conditions: engine.RuleConditions{},
			Spec:       engine.AllowanceSpec{Method: engine.AllowanceFixed, Amount: engine.NewMoney(15.81)},
		},
		{
			ID: engine.RuleID(string(id) + "-laundry"), AwardID: id, Name: "Laundry allowance", Priority: 30,
			Conditions: engine.RuleConditions{},
			Spec:       engine.AllowanceSpec{Method: engine.AllowanceDaily, Amount: engine.NewMoney(1.56)},
		},
		{
			ID: engine.RuleID(string(id) + "-ot-daily"), AwardID: id, Name: "Daily overtime", Priority: 40,
			Conditions: engine.RuleConditions{},
			Spec:       engine.OvertimeSpec{Basis: engine.OvertimeDaily, Method: engine.OvertimeMultiplier, Percentage: engine.NewPercentage(150)},
		},
		{
			ID: engine.RuleID(string(id) + "-ot-weekly"), AwardID: id, Name: "Weekly overtime", Priority: 40,
			Conditions: engine.RuleConditions{},
			Spec:       engine.OvertimeSpec{Basis: engine.OvertimeWeekly, Method: engine.OvertimeMultiplier, Percentage: engine.NewPercentage(150)},
		},
	}
	return award, rules
}

// =============================================================================
// RETAIL
// =============================================================================

// RetailAward returns a retail-style award: weekend and evening penalties
// plus weekly overtime.
func RetailAward(id engine.AwardID) (engine.Award, []engine.AwardRule) {
	award := engine.Award{
		ID:       id,
		Code:     "MA000004",
		Name:     "General Retail Industry Award",
		Industry: "retail",
		Version:  1,
		Active:   true,
	}
	rules := []engine.AwardRule{
		{
			ID: engine.RuleID(string(id) + "-sat"), AwardID: id, Name: "Saturday penalty", Priority: 10,
			Conditions: engine.RuleConditions{Days: []time.Weekday{time.Saturday}},
			Spec:       engine.PenaltyRateSpec{Percentage: engine.NewPercentage(125)},
		},
		{
			ID: engine.RuleID(string(id) + "-sun"), AwardID: id, Name: "Sunday penalty", Priority: 10,
			Conditions: engine.RuleConditions{Days: []time.Weekday{time.Sunday}},
			Spec:       engine.PenaltyRateSpec{Percentage: engine.NewPercentage(150)},
		},
		{
			ID: engine.RuleID(string(id) + "-evening"), AwardID: id, Name: "Evening loading", Priority: 20,
			Conditions: engine.RuleConditions{TimeFrom: clock(18, 0), TimeTo: clock(23, 0)},
			Spec:       engine.ShiftLoadingSpec{Method: engine.LoadingPercentage, Percentage: engine.NewPercentage(25)},
		},
		{
			ID: engine.RuleID(string(id) + "-ot-weekly"), AwardID: id, Name: "Weekly overtime", Priority: 40,
			Conditions: engine.RuleConditions{},
			Spec:       engine.OvertimeSpec{Basis: engine.OvertimeWeekly, Method: engine.OvertimeMultiplier, Percentage: engine.NewPercentage(150)},
		},
	}
	return award, rules
}

// =============================================================================
// NURSES
// =============================================================================

// NursesAward returns a nursing-style award: night and weekend penalties,
// an on-call allowance restricted to registered nurses, and daily overtime.
func NursesAward(id engine.AwardID) (engine.Award, []engine.AwardRule) {
	award := engine.Award{
		ID:       id,
		Code:     "MA000034",
		Name:     "Nurses Award",
		Industry: "healthcare",
		Version:  1,
		Active:   true,
	}
	rules := []engine.AwardRule{
		{
			ID: engine.RuleID(string(id) + "-night"), AwardID: id, Name: "Night duty penalty", Priority: 10,
			Conditions: engine.RuleConditions{TimeFrom: clock(22, 0), TimeTo: clock(7, 0)},
			Spec:       engine.PenaltyRateSpec{Percentage: engine.NewPercentage(115)},
		},
		{
			ID: engine.RuleID(string(id) + "-weekend"), AwardID: id, Name: "Weekend penalty", Priority: 10,
			Conditions: engine.RuleConditions{Days: weekend()},
			Spec:       engine.PenaltyRateSpec{Percentage: engine.NewPercentage(150)},
		},
		{
			ID: engine.RuleID(string(id) + "-oncall"), AwardID: id, Name: "On-call allowance", Priority: 30,
			Conditions: engine.RuleConditions{Classification: "registered_nurse"},
			Spec:       engine.AllowanceSpec{Method: engine.AllowanceDaily, Amount: engine.NewMoney(25.14)},
		},
		{
			ID: engine.RuleID(string(id) + "-ot-daily"), AwardID: id, Name: "Daily overtime", Priority: 40,
			Conditions: engine.RuleConditions{},
			Spec:       engine.OvertimeSpec{Basis: engine.OvertimeDaily, Method: engine.OvertimeMultiplier, Percentage: engine.NewPercentage(150)},
		},
	}
	return award, rules
}
