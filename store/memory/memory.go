// Package memory provides in-memory implementations of the storage
// interfaces (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements the engine sources, the result sink, and the input
// loader over plain maps. Populate the exported fields before use, or use
// the Put helpers.
type Memory struct {
	mu sync.RWMutex

	awards       map[engine.AwardID]engine.Award
	rulesByAward map[engine.AwardID][]engine.AwardRule
	taxTables    map[taxKey]engine.TaxTable
	rates        []engine.StatutoryRate
	scales       map[scaleKey]engine.RepaymentScale
	holidays     map[engine.Date]bool

	employees   map[engine.EmployeeID]engine.EmployeeProfile
	entries     map[engine.EmployeeID][]engine.TimesheetEntry
	deductions  map[engine.EmployeeID][]engine.Deduction
	adjustments map[engine.EmployeeID][]engine.SalaryAdjustment

	results map[resultKey]*engine.PayrollCalculationResult

	// TrailingWages feeds the payroll tax threshold gate for every input.
	TrailingWages engine.Money

	// SaveErr, when set, is returned by SaveResult. Lets tests exercise
	// persistence failures.
	SaveErr error
}

type taxKey struct {
	Year      engine.FinancialYear
	Residency engine.Residency
}

type scaleKey struct {
	Year engine.FinancialYear
	Loan engine.LoanType
}

type resultKey struct {
	EmployeeID engine.EmployeeID
	Start      engine.Date
	End        engine.Date
}

func NewMemory() *Memory {
	return &Memory{
		awards:       make(map[engine.AwardID]engine.Award),
		rulesByAward: make(map[engine.AwardID][]engine.AwardRule),
		taxTables:    make(map[taxKey]engine.TaxTable),
		scales:       make(map[scaleKey]engine.RepaymentScale),
		holidays:     make(map[engine.Date]bool),
		employees:    make(map[engine.EmployeeID]engine.EmployeeProfile),
		entries:      make(map[engine.EmployeeID][]engine.TimesheetEntry),
		deductions:   make(map[engine.EmployeeID][]engine.Deduction),
		adjustments:  make(map[engine.EmployeeID][]engine.SalaryAdjustment),
		results:      make(map[resultKey]*engine.PayrollCalculationResult),
	}
}

// =============================================================================
// SEEDING
// =============================================================================

func (m *Memory) PutAward(award engine.Award, rules []engine.AwardRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.awards[award.ID] = award
	m.rulesByAward[award.ID] = rules
}

func (m *Memory) PutTaxTable(table engine.TaxTable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taxTables[taxKey{table.FinancialYear, table.Residency}] = table
}

func (m *Memory) PutRate(rate engine.StatutoryRate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates = append(m.rates, rate)
}

func (m *Memory) PutScale(year engine.FinancialYear, loan engine.LoanType, scale engine.RepaymentScale) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scales[scaleKey{year, loan}] = scale
}

func (m *Memory) PutHoliday(d engine.Date) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[d] = true
}

func (m *Memory) PutEmployee(p engine.EmployeeProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[p.ID] = p
}

func (m *Memory) PutEntry(e engine.TimesheetEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.EmployeeID] = append(m.entries[e.EmployeeID], e)
}

func (m *Memory) PutDeduction(id engine.EmployeeID, d engine.Deduction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deductions[id] = append(m.deductions[id], d)
}

func (m *Memory) PutAdjustment(id engine.EmployeeID, adj engine.SalaryAdjustment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adjustments[id] = append(m.adjustments[id], adj)
}

// =============================================================================
// REFERENCE DATA SOURCES
// =============================================================================

func (m *Memory) ActiveAwards(_ context.Context) ([]engine.Award, map[engine.AwardID][]engine.AwardRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	awards := make([]engine.Award, 0, len(m.awards))
	for _, a := range m.awards {
		if a.Active {
			awards = append(awards, a)
		}
	}
	sort.Slice(awards, func(i, j int) bool { return awards[i].ID < awards[j].ID })

	rules := make(map[engine.AwardID][]engine.AwardRule, len(m.rulesByAward))
	for id, rs := range m.rulesByAward {
		rules[id] = append([]engine.AwardRule{}, rs...)
	}
	return awards, rules, nil
}

func (m *Memory) TaxTable(_ context.Context, year engine.FinancialYear, residency engine.Residency) (engine.TaxTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	table, ok := m.taxTables[taxKey{year, residency}]
	if !ok {
		return engine.TaxTable{}, engine.ErrTaxTableNotFound
	}
	return table, nil
}

func (m *Memory) RatesAsOf(_ context.Context, asOf engine.Date) ([]engine.StatutoryRate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rates []engine.StatutoryRate
	for _, r := range m.rates {
		if r.Effective.Contains(asOf) {
			rates = append(rates, r)
		}
	}
	return rates, nil
}

func (m *Memory) RepaymentScale(_ context.Context, year engine.FinancialYear, loan engine.LoanType) (engine.RepaymentScale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Absent scales are empty, not an error: waged test fixtures rarely
	// carry study-loan bands.
	return m.scales[scaleKey{year, loan}], nil
}

func (m *Memory) Holidays(_ context.Context, from, to engine.Date) ([]engine.Date, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var dates []engine.Date
	for d := range m.holidays {
		if !d.Before(from) && !d.After(to) {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// =============================================================================
// PAYROLL INPUT SOURCES
// =============================================================================

func (m *Memory) Profile(_ context.Context, id engine.EmployeeID) (engine.EmployeeProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.employees[id]
	if !ok {
		return engine.EmployeeProfile{}, engine.ErrEmployeeNotFound
	}
	return p, nil
}

func (m *Memory) ActiveEmployeeIDs(_ context.Context) ([]engine.EmployeeID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]engine.EmployeeID, 0, len(m.employees))
	for id := range m.employees {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *Memory) Entries(_ context.Context, id engine.EmployeeID, period engine.PayPeriod) ([]engine.TimesheetEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.TimesheetEntry
	for _, e := range m.entries[id] {
		if e.Status != engine.EntryApproved {
			continue
		}
		if period.Contains(e.StartDate()) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })
	return result, nil
}

// LoadInput assembles the calculation input from the seeded maps.
func (m *Memory) LoadInput(ctx context.Context, id engine.EmployeeID, period engine.PayPeriod) (engine.PayrollInput, error) {
	profile, err := m.Profile(ctx, id)
	if err != nil {
		return engine.PayrollInput{}, err
	}
	entries, err := m.Entries(ctx, id, period)
	if err != nil {
		return engine.PayrollInput{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return engine.PayrollInput{
		Employee:             profile,
		Period:               period,
		Entries:              entries,
		Adjustments:          append([]engine.SalaryAdjustment{}, m.adjustments[id]...),
		Deductions:           append([]engine.Deduction{}, m.deductions[id]...),
		TrailingMonthlyWages: m.TrailingWages,
	}, nil
}

// =============================================================================
// RESULT SINK
// =============================================================================

func (m *Memory) SaveResult(_ context.Context, result *engine.PayrollCalculationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.results[resultKey{result.EmployeeID, result.PeriodStart, result.PeriodEnd}] = result
	return nil
}

// SavedResult returns the persisted result for an employee and period, or nil.
func (m *Memory) SavedResult(id engine.EmployeeID, period engine.PayPeriod) *engine.PayrollCalculationResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.results[resultKey{id, period.Start, period.End}]
}

// SavedCount returns how many results have been persisted.
func (m *Memory) SavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results)
}

// Interface conformance.
var (
	_ engine.AwardSource          = (*Memory)(nil)
	_ engine.TaxTableSource       = (*Memory)(nil)
	_ engine.StatutoryRateSource  = (*Memory)(nil)
	_ engine.RepaymentScaleSource = (*Memory)(nil)
	_ engine.HolidaySource        = (*Memory)(nil)
	_ engine.EmployeeSource       = (*Memory)(nil)
	_ engine.TimesheetSource      = (*Memory)(nil)
	_ engine.ResultStore          = (*Memory)(nil)
	_ engine.InputLoader          = (*Memory)(nil)
)
