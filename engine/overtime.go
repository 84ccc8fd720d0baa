/*
overtime.go - Daily and weekly excess-hours overtime

PURPOSE:
  Two independent passes over the full set of timesheet entries for the
  interpretation window:

  Daily:  entries grouped by calendar START date; hours per date beyond
          the 8-hour threshold are charged at the first matching daily
          overtime rule.
  Weekly: total hours across all supplied entries beyond the 38-hour
          threshold, charged via the first matching weekly rule.

  Both passes run unconditionally and their results are summed. An
  employee can incur daily AND weekly overtime for the same hours; the
  two bases are deliberately not reconciled against each other. Callers
  that want a single basis supply rules for only that basis.

  Rule selection honours the rule's effective window: the daily pass
  checks it against each excess date, the weekly pass against the
  earliest entry date. A rule passed over because the date falls outside
  its window is reported as a skip note so compliance reviewers can see
  why an expired clause stopped pricing.

SEE ALSO:
  - award.go: OvertimeSpec variants
  - interpretation.go: Feeds entries and rules into both passes
*/
package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Standard excess-hours thresholds.
var (
	DailyOvertimeThresholdHours  = decimal.NewFromInt(8)
	WeeklyOvertimeThresholdHours = decimal.NewFromInt(38)
)

// =============================================================================
// OVERTIME AGGREGATOR
// =============================================================================

// OvertimeLines runs both passes over the entries and returns the combined
// line items plus any skip notes. Rules are considered in slice order; the
// first rule per basis whose effective window covers the date in question
// prices that basis.
func OvertimeLines(entries []TimesheetEntry, rules []AwardRule, baseRate Money) ([]OvertimeLine, []string) {
	var lines []OvertimeLine
	var notes []string

	dl, dn := dailyOvertime(entries, rules, baseRate)
	lines = append(lines, dl...)
	notes = append(notes, dn...)

	wl, wn := weeklyOvertime(entries, rules, baseRate)
	lines = append(lines, wl...)
	notes = append(notes, wn...)

	return lines, notes
}

func dailyOvertime(entries []TimesheetEntry, rules []AwardRule, baseRate Money) ([]OvertimeLine, []string) {
	byDate := map[Date]decimal.Decimal{}
	for _, e := range entries {
		d := e.StartDate()
		byDate[d] = byDate[d].Add(decimal.NewFromFloat(e.Hours()))
	}

	// Sort dates for deterministic output.
	dates := make([]Date, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var lines []OvertimeLine
	var notes []string
	noted := map[RuleID]bool{}
	for _, d := range dates {
		excess := byDate[d].Sub(DailyOvertimeThresholdHours)
		if !excess.IsPositive() {
			continue
		}
		rule, spec, skipped, ok := overtimeRuleFor(rules, OvertimeDaily, d)
		for _, id := range skipped {
			if !noted[id] {
				noted[id] = true
				notes = append(notes, overtimeSkipNote(id, d))
			}
		}
		if !ok {
			continue
		}
		amount := overtimeAmount(spec, baseRate, excess)
		if !amount.IsPositive() {
			continue
		}
		lines = append(lines, OvertimeLine{
			RuleID:      rule.ID,
			Basis:       OvertimeDaily,
			Date:        d,
			ExcessHours: excess,
			Amount:      amount,
		})
	}
	return lines, notes
}

func weeklyOvertime(entries []TimesheetEntry, rules []AwardRule, baseRate Money) ([]OvertimeLine, []string) {
	if len(entries) == 0 {
		return nil, nil
	}

	total := decimal.Zero
	earliest := entries[0].StartDate()
	for _, e := range entries {
		total = total.Add(decimal.NewFromFloat(e.Hours()))
		if e.StartDate().Before(earliest) {
			earliest = e.StartDate()
		}
	}

	excess := total.Sub(WeeklyOvertimeThresholdHours)
	if !excess.IsPositive() {
		return nil, nil
	}
	rule, spec, skipped, ok := overtimeRuleFor(rules, OvertimeWeekly, earliest)
	var notes []string
	for _, id := range skipped {
		notes = append(notes, overtimeSkipNote(id, earliest))
	}
	if !ok {
		return nil, notes
	}
	amount := overtimeAmount(spec, baseRate, excess)
	if !amount.IsPositive() {
		return nil, notes
	}
	return []OvertimeLine{{
		RuleID:      rule.ID,
		Basis:       OvertimeWeekly,
		Date:        earliest,
		WeekKey:     weekKey(earliest),
		ExcessHours: excess,
		Amount:      amount,
	}}, notes
}

// overtimeRuleFor returns the first rule for the basis whose effective
// window covers asOf, along with the ids of basis rules passed over for
// being outside their window.
func overtimeRuleFor(rules []AwardRule, basis OvertimeBasis, asOf Date) (AwardRule, OvertimeSpec, []RuleID, bool) {
	var skipped []RuleID
	for _, r := range rules {
		spec, ok := r.Spec.(OvertimeSpec)
		if !ok || spec.Basis != basis {
			continue
		}
		if !r.Conditions.Effective.Contains(asOf) {
			skipped = append(skipped, r.ID)
			continue
		}
		return r, spec, skipped, true
	}
	return AwardRule{}, OvertimeSpec{}, skipped, false
}

func overtimeSkipNote(id RuleID, d Date) string {
	return fmt.Sprintf("skipped overtime rule %s: outside its effective window on %s", id, d)
}

func overtimeAmount(spec OvertimeSpec, baseRate Money, excessHours decimal.Decimal) Money {
	switch spec.Method {
	case OvertimeMultiplier:
		return baseRate.MulFraction(spec.Percentage.Fraction()).Mul(excessHours).Round()
	case OvertimeFixedRate:
		return spec.HourlyRate.Mul(excessHours).Round()
	default:
		return ZeroMoney()
	}
}

// weekKey identifies the ISO week an overtime total settles against.
func weekKey(d Date) string {
	year, week := d.Time().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
