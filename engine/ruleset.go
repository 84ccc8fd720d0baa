/*
ruleset.go - Immutable rule set snapshot and collaborator contracts

PURPOSE:
  Defines the interfaces the engine consumes its reference data and
  payroll inputs through, and the RuleSet value that bundles one
  consistent snapshot of that data for a run.

SNAPSHOT CONTRACT:
  A RuleSet is loaded ONCE per payroll run and never mutated during the
  run. "Reload" means fetching a NEW snapshot; in-flight calculations
  keep the one they started with. Because the snapshot is immutable,
  concurrent employee calculations may share it without locking.

INTERFACES:
  AwardSource:         Active awards and their rules
  TaxTableSource:      Bracket scales per financial year and residency
  StatutoryRateSource: Super/payroll-tax/comp/levy rates as of a date
  RepaymentScaleSource:HELP and SFSS band scales
  HolidaySource:       Public holiday calendar
  EmployeeSource:      Employee profiles
  TimesheetSource:     Approved entries for a period
  ResultStore:         Persists computed results (payslips, components,
                       super contributions)
  Submitter:           The reporting channel the results ultimately feed;
                       modeled as an output contract only

SEE ALSO:
  - store/sqlite: Production implementation of the sources
  - batch.go: Loads the snapshot and runs employees against it
*/
package engine

import "context"

// =============================================================================
// RULE SET - One immutable snapshot of reference data
// =============================================================================

// RuleSet bundles the reference data one payroll run evaluates against.
// Treat as read-only: share freely across goroutines, never mutate.
type RuleSet struct {
	Awards      map[AwardID]Award
	RulesByAward map[AwardID][]AwardRule

	TaxTables map[Residency]TaxTable

	Rates []StatutoryRate

	HELPScale RepaymentScale
	SFSSScale RepaymentScale

	Holidays HolidaySet
}

// RulesFor returns the rules of one award, or ErrAwardNotFound.
func (rs RuleSet) RulesFor(id AwardID) ([]AwardRule, error) {
	if _, ok := rs.Awards[id]; !ok {
		return nil, ErrAwardNotFound
	}
	return rs.RulesByAward[id], nil
}

// RateFor returns the first statutory rate of the given type in scope for
// the day and state.
func (rs RuleSet) RateFor(t RateType, d Date, state State) (StatutoryRate, error) {
	for _, r := range rs.Rates {
		if r.Type == t && r.AppliesTo(d, state) {
			return r, nil
		}
	}
	return StatutoryRate{}, &MissingRateError{RateType: t, State: state, AsOf: d}
}

// TaxTableFor returns the bracket scale for a residency status.
func (rs RuleSet) TaxTableFor(residency Residency) (TaxTable, error) {
	t, ok := rs.TaxTables[residency]
	if !ok {
		return TaxTable{}, ErrTaxTableNotFound
	}
	return t, nil
}

// =============================================================================
// REFERENCE DATA SOURCES
// =============================================================================

type AwardSource interface {
	// ActiveAwards returns awards active at load time, with their rules
	// keyed and grouped by award id.
	ActiveAwards(ctx context.Context) ([]Award, map[AwardID][]AwardRule, error)
}

type TaxTableSource interface {
	TaxTable(ctx context.Context, year FinancialYear, residency Residency) (TaxTable, error)
}

type StatutoryRateSource interface {
	RatesAsOf(ctx context.Context, asOf Date) ([]StatutoryRate, error)
}

type RepaymentScaleSource interface {
	RepaymentScale(ctx context.Context, year FinancialYear, loan LoanType) (RepaymentScale, error)
}

type LoanType string

const (
	LoanHELP LoanType = "help"
	LoanSFSS LoanType = "sfss"
)

type HolidaySource interface {
	Holidays(ctx context.Context, from, to Date) ([]Date, error)
}

// =============================================================================
// PAYROLL INPUT SOURCES
// =============================================================================

type EmployeeSource interface {
	Profile(ctx context.Context, id EmployeeID) (EmployeeProfile, error)
	ActiveEmployeeIDs(ctx context.Context) ([]EmployeeID, error)
}

type TimesheetSource interface {
	// Entries returns approved entries overlapping the period.
	Entries(ctx context.Context, id EmployeeID, period PayPeriod) ([]TimesheetEntry, error)
}

// =============================================================================
// OUTPUT SINKS
// =============================================================================

// ResultStore persists one employee's computed result: the payslip, its pay
// components, and its super contribution records.
type ResultStore interface {
	SaveResult(ctx context.Context, result *PayrollCalculationResult) error
}

// Submitter is the regulatory reporting channel the engine's output
// ultimately feeds. Transport is out of scope; the engine only guarantees
// its results satisfy this contract.
type Submitter interface {
	Submit(ctx context.Context, results []*PayrollCalculationResult) error
}

// =============================================================================
// SNAPSHOT LOADER
// =============================================================================

// RuleSetSources groups everything needed to assemble a snapshot.
type RuleSetSources struct {
	Awards    AwardSource
	TaxTables TaxTableSource
	Rates     StatutoryRateSource
	Scales    RepaymentScaleSource
	Holidays  HolidaySource
}

// LoadRuleSet assembles one immutable snapshot for a run covering the given
// period. The bulk fetch here is the only part of a run that may suspend
// before persistence.
func LoadRuleSet(ctx context.Context, src RuleSetSources, period PayPeriod) (*RuleSet, error) {
	rs := &RuleSet{
		Awards:       map[AwardID]Award{},
		RulesByAward: map[AwardID][]AwardRule{},
		TaxTables:    map[Residency]TaxTable{},
		Holidays:     HolidaySet{},
	}

	awards, rules, err := src.Awards.ActiveAwards(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range awards {
		rs.Awards[a.ID] = a
	}
	rs.RulesByAward = rules

	fy := FinancialYearOf(period.End)
	for _, residency := range []Residency{Resident, NonResident, WorkingHoliday} {
		table, err := src.TaxTables.TaxTable(ctx, fy, residency)
		if err != nil {
			// Only the resident scale is mandatory.
			if residency == Resident {
				return nil, err
			}
			continue
		}
		if err := table.Validate(); err != nil {
			return nil, err
		}
		rs.TaxTables[residency] = table
	}

	rates, err := src.Rates.RatesAsOf(ctx, period.End)
	if err != nil {
		return nil, err
	}
	rs.Rates = rates

	if rs.HELPScale, err = src.Scales.RepaymentScale(ctx, fy, LoanHELP); err != nil {
		return nil, err
	}
	if rs.SFSSScale, err = src.Scales.RepaymentScale(ctx, fy, LoanSFSS); err != nil {
		return nil, err
	}

	days, err := src.Holidays.Holidays(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	for _, d := range days {
		rs.Holidays[d] = true
	}

	return rs, nil
}
