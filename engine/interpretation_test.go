package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// AWARD INTERPRETATION TESTS
// =============================================================================

func interpRules(rules ...engine.AwardRule) engine.RuleSet {
	return engine.RuleSet{
		Awards:       map[engine.AwardID]engine.Award{"award-1": {ID: "award-1"}},
		RulesByAward: map[engine.AwardID][]engine.AwardRule{"award-1": rules},
	}
}

func TestInterpretAward_AwardFreeEmployeeIsEmptyResult(t *testing.T) {
	employee := wagedEmployee(20)
	employee.AwardID = ""

	result, err := engine.InterpretAward(interpRules(), employee, calcPeriod(), []engine.TimesheetEntry{
		entryOn("e1", 2026, time.July, 11, 9, 0, 17, 0),
	})
	require.NoError(t, err)
	assert.Empty(t, result.PenaltyRates)
	assert.True(t, result.Total().IsZero())
}

func TestInterpretAward_UnknownAwardFails(t *testing.T) {
	employee := wagedEmployee(20)
	employee.AwardID = "award-missing"

	_, err := engine.InterpretAward(interpRules(), employee, calcPeriod(), []engine.TimesheetEntry{
		entryOn("e1", 2026, time.July, 11, 9, 0, 17, 0),
	})
	assert.ErrorIs(t, err, engine.ErrAwardNotFound)
}

func TestInterpretAward_MalformedEntryIsSkippedWithNote(t *testing.T) {
	// GIVEN: One valid Saturday entry and one entry ending before it starts
	// WHEN: Interpreting
	// THEN: The broken entry is skipped and noted, the valid one still pays

	rules := interpRules(
		penaltyRule("sat", engine.RuleConditions{Days: []time.Weekday{time.Saturday}}, 150),
	)

	broken := entryOn("e-broken", 2026, time.July, 11, 9, 0, 17, 0)
	broken.End = broken.Start.Add(-time.Hour)

	result, err := engine.InterpretAward(rules, wagedEmployee(20), calcPeriod(), []engine.TimesheetEntry{
		broken,
		entryOn("e-good", 2026, time.July, 11, 9, 0, 17, 0),
	})
	require.NoError(t, err)

	require.Len(t, result.PenaltyRates, 1)
	assert.Equal(t, "e-good", result.PenaltyRates[0].EntryID)
	assert.Contains(t, result.ComplianceNotes, "skipped malformed entry e-broken")
}

func TestInterpretAward_DailyAllowancePaysOncePerDay(t *testing.T) {
	// GIVEN: A per-day allowance and two shifts on the same day
	// WHEN: Interpreting
	// THEN: The allowance pays once for that day, not once per entry

	rules := interpRules(engine.AwardRule{
		ID:      "laundry",
		AwardID: "award-1",
		Name:    "laundry",
		Spec:    engine.AllowanceSpec{Method: engine.AllowanceDaily, Amount: money(6.25)},
	})

	result, err := engine.InterpretAward(rules, wagedEmployee(20), calcPeriod(), []engine.TimesheetEntry{
		entryOn("am", 2026, time.July, 7, 8, 0, 12, 0),
		entryOn("pm", 2026, time.July, 7, 16, 0, 20, 0),
		entryOn("next", 2026, time.July, 8, 8, 0, 12, 0),
	})
	require.NoError(t, err)

	require.Len(t, result.Allowances, 2)
	assertMoney(t, "12.50", result.TotalAllowances)
}

func TestInterpretAward_RulesApplyAdditively(t *testing.T) {
	// GIVEN: A Saturday penalty and a fixed meal allowance both matching
	//        one Saturday shift
	// WHEN: Interpreting
	// THEN: Both lines accrue; Total sums every bucket

	rules := interpRules(
		penaltyRule("sat", engine.RuleConditions{Days: []time.Weekday{time.Saturday}}, 150),
		engine.AwardRule{
			ID:      "meal",
			AwardID: "award-1",
			Name:    "meal",
			Spec:    engine.AllowanceSpec{Method: engine.AllowanceFixed, Amount: money(15.50)},
		},
	)

	result, err := engine.InterpretAward(rules, wagedEmployee(20), calcPeriod(), []engine.TimesheetEntry{
		entryOn("sat", 2026, time.July, 11, 9, 0, 17, 0),
	})
	require.NoError(t, err)

	assertMoney(t, "240.00", result.TotalPenalties) // 8h x $20 x 150%
	assertMoney(t, "15.50", result.TotalAllowances)
	assertMoney(t, "255.50", result.Total())
}

func TestInterpretAward_PublicHolidayRuleUsesCalendar(t *testing.T) {
	rules := interpRules(engine.AwardRule{
		ID:         "pubhol",
		AwardID:    "award-1",
		Name:       "pubhol",
		Conditions: engine.RuleConditions{PublicHolidayOnly: true},
		Spec:       engine.PenaltyRateSpec{Percentage: engine.NewPercentage(225)},
	})
	rules.Holidays = engine.HolidaySet{engine.NewDate(2026, 7, 13): true}

	result, err := engine.InterpretAward(rules, wagedEmployee(20), calcPeriod(), []engine.TimesheetEntry{
		entryOn("hol", 2026, time.July, 13, 9, 0, 17, 0),
		entryOn("ord", 2026, time.July, 14, 9, 0, 17, 0),
	})
	require.NoError(t, err)

	require.Len(t, result.PenaltyRates, 1)
	assert.Equal(t, "hol", result.PenaltyRates[0].EntryID)
	assertMoney(t, "360.00", result.TotalPenalties) // 8h x $20 x 225%
}

func TestInterpretAward_ExpiredOvertimeRuleIsSkippedWithNote(t *testing.T) {
	// GIVEN: An award whose only overtime rule lapsed at the end of 2025
	// WHEN: Interpreting a ten-hour day in July 2026
	// THEN: No overtime is charged and the skip is visible in the notes

	rules := interpRules(engine.AwardRule{
		ID:      "ot-expired",
		AwardID: "award-1",
		Name:    "daily overtime",
		Conditions: engine.RuleConditions{
			Effective: engine.WindowBetween(
				engine.NewDate(2025, time.January, 1),
				engine.NewDate(2025, time.December, 31),
			),
		},
		Spec: engine.OvertimeSpec{
			Basis:      engine.OvertimeDaily,
			Method:     engine.OvertimeMultiplier,
			Percentage: engine.NewPercentage(150),
		},
	})

	result, err := engine.InterpretAward(rules, wagedEmployee(20), calcPeriod(), []engine.TimesheetEntry{
		entryOn("e1", 2026, time.July, 8, 8, 0, 18, 0),
	})
	require.NoError(t, err)

	assert.Empty(t, result.Overtime, "a lapsed rule must not price overtime")
	assert.True(t, result.TotalOvertime.IsZero())
	require.Len(t, result.ComplianceNotes, 1)
	assert.Contains(t, result.ComplianceNotes[0], "ot-expired")
	assert.Contains(t, result.ComplianceNotes[0], "effective window")
}

func TestInterpretAward_OvertimeRespectsClassificationRestriction(t *testing.T) {
	// GIVEN: A daily overtime rule restricted to registered nurses
	// WHEN: A bartender works a ten-hour day
	// THEN: The rule does not price and, being inapplicable to the
	//       employee rather than lapsed, leaves no skip note

	rules := interpRules(engine.AwardRule{
		ID:         "ot-rn",
		AwardID:    "award-1",
		Name:       "RN daily overtime",
		Conditions: engine.RuleConditions{Classification: "registered_nurse"},
		Spec: engine.OvertimeSpec{
			Basis:      engine.OvertimeDaily,
			Method:     engine.OvertimeMultiplier,
			Percentage: engine.NewPercentage(150),
		},
	})

	employee := wagedEmployee(20)
	employee.Classification = "bartender"

	result, err := engine.InterpretAward(rules, employee, calcPeriod(), []engine.TimesheetEntry{
		entryOn("e1", 2026, time.July, 8, 8, 0, 18, 0),
	})
	require.NoError(t, err)

	assert.Empty(t, result.Overtime)
	assert.Empty(t, result.ComplianceNotes)
}
