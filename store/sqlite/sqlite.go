/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements every persistence interface the payroll engine consumes
  (reference data sources, payroll input sources, and the result sink)
  using SQLite. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  engine.AwardSource:          Active awards with their parsed rules
  engine.TaxTableSource:       Bracket scales per year and residency
  engine.StatutoryRateSource:  Super/payroll-tax/comp/levy rates
  engine.RepaymentScaleSource: HELP and SFSS band scales
  engine.HolidaySource:        Public holiday calendar
  engine.EmployeeSource:       Employee profiles
  engine.TimesheetSource:      Approved entries for a period
  engine.ResultStore:          Payslips, components, super contributions
  engine.InputLoader:          Assembles one employee's PayrollInput

KEY TABLES:
  awards:              Award definitions stored as their JSON config;
                       the factory parses them into typed rules on read
  tax_tables:          One bracket scale per (financial_year, residency)
  statutory_rates:     Flat rate records with effective windows
  repayment_scales:    HELP/SFSS band scales as JSON config
  employees:           Profiles the calculation reads
  timesheet_entries:   Approved work intervals
  payslips:            One row per employee per period; re-running a
                       period replaces the previous payslip atomically
  pay_components:      Earnings/deduction/super/charge lines per payslip
  super_contributions: Guarantee contributions linked to a fund
  payroll_runs:        Batch run reports

MONEY REPRESENTATION:
  Monetary and rate columns are TEXT holding decimal strings, never
  REAL. Floats round-trip badly; decimal strings are exact.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/ruleset.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	factory *factory.RuleSetFactory
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, factory: factory.NewRuleSetFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Awards (JSON config, parsed by the factory on read)
	CREATE TABLE IF NOT EXISTS awards (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		industry TEXT,
		version INTEGER DEFAULT 1,
		active BOOLEAN DEFAULT TRUE,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_awards_active ON awards(active);

	-- Tax tables (one bracket scale per year and residency)
	CREATE TABLE IF NOT EXISTS tax_tables (
		financial_year INTEGER NOT NULL,
		residency TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (financial_year, residency)
	);

	-- Statutory rates (flat records, windowed)
	CREATE TABLE IF NOT EXISTS statutory_rates (
		id TEXT PRIMARY KEY,
		rate_type TEXT NOT NULL,
		rate TEXT NOT NULL,
		state TEXT,
		industry TEXT,
		employment_type TEXT,
		threshold TEXT,
		max_base TEXT,
		effective_from TEXT,
		effective_to TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_statutory_rates_type
		ON statutory_rates(rate_type);

	-- Study-loan repayment scales (JSON band config)
	CREATE TABLE IF NOT EXISTS repayment_scales (
		financial_year INTEGER NOT NULL,
		loan_type TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (financial_year, loan_type)
	);

	-- Public holidays
	CREATE TABLE IF NOT EXISTS public_holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON public_holidays(date, name, state);
	CREATE INDEX IF NOT EXISTS idx_holidays_date ON public_holidays(date);

	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		classification TEXT,
		employment_type TEXT NOT NULL,
		state TEXT NOT NULL,
		company_id TEXT,
		annual_salary TEXT,
		hourly_rate TEXT,
		pay_frequency TEXT NOT NULL,
		award_id TEXT,
		has_help_debt BOOLEAN DEFAULT FALSE,
		has_sfss_debt BOOLEAN DEFAULT FALSE,
		has_private_health_cover BOOLEAN DEFAULT FALSE,
		super_fund_id TEXT,
		active BOOLEAN DEFAULT TRUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_active ON employees(active);
	CREATE INDEX IF NOT EXISTS idx_employees_company ON employees(company_id);

	-- Timesheet entries
	CREATE TABLE IF NOT EXISTS timesheet_entries (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		base_hourly_rate TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'approved',
		created_at TEXT NOT NULL
	);

	-- Hot path: per-employee period scans during a run
	CREATE INDEX IF NOT EXISTS idx_entries_employee_start
		ON timesheet_entries(employee_id, start_at);

	-- Standing deductions
	CREATE TABLE IF NOT EXISTS deductions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		description TEXT NOT NULL,
		method TEXT NOT NULL,
		timing TEXT NOT NULL,
		amount TEXT,
		percent TEXT,
		active BOOLEAN DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_deductions_employee ON deductions(employee_id);

	-- Ad-hoc salary adjustments, scoped to a period window
	CREATE TABLE IF NOT EXISTS adjustments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		description TEXT NOT NULL,
		amount TEXT,
		formula TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_adjustments_employee
		ON adjustments(employee_id, period_start);

	-- Payslips (one per employee per period; re-runs replace)
	CREATE TABLE IF NOT EXISTS payslips (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		gross_pay TEXT NOT NULL,
		taxable_income TEXT NOT NULL,
		tax_withheld TEXT NOT NULL,
		total_deductions TEXT NOT NULL,
		super_total TEXT NOT NULL,
		net_pay TEXT NOT NULL,
		warnings_json TEXT,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, period_start, period_end)
	);

	CREATE INDEX IF NOT EXISTS idx_payslips_employee ON payslips(employee_id);
	CREATE INDEX IF NOT EXISTS idx_payslips_period ON payslips(period_end);

	-- Pay components (lines under one payslip)
	CREATE TABLE IF NOT EXISTS pay_components (
		id TEXT PRIMARY KEY,
		payslip_id TEXT NOT NULL REFERENCES payslips(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		description TEXT NOT NULL,
		units TEXT NOT NULL,
		rate TEXT NOT NULL,
		amount TEXT NOT NULL,
		treatment TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_components_payslip ON pay_components(payslip_id);

	-- Super guarantee contributions
	CREATE TABLE IF NOT EXISTS super_contributions (
		id TEXT PRIMARY KEY,
		payslip_id TEXT NOT NULL REFERENCES payslips(id) ON DELETE CASCADE,
		employee_id TEXT NOT NULL,
		fund_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contributions_employee
		ON super_contributions(employee_id);

	-- Payroll run reports
	CREATE TABLE IF NOT EXISTS payroll_runs (
		id TEXT PRIMARY KEY,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		status TEXT NOT NULL,
		outcomes_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_period ON payroll_runs(period_end);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// AWARD STORE (engine.AwardSource)
// =============================================================================

// AwardRecord is a stored award with its JSON config.
type AwardRecord struct {
	ID         string
	Code       string
	Name       string
	Industry   string
	Version    int
	Active     bool
	ConfigJSON string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaveAward validates the JSON config through the factory and stores it.
// Saving an existing id bumps the version.
func (s *Store) SaveAward(ctx context.Context, configJSON string) (engine.Award, error) {
	award, _, err := s.factory.ParseAward(configJSON)
	if err != nil {
		return engine.Award{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO awards (id, code, name, industry, version, active, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			industry = excluded.industry,
			version = awards.version + 1,
			active = excluded.active,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at
	`
	now := nowString()
	_, err = s.db.ExecContext(ctx, query,
		string(award.ID), award.Code, award.Name, award.Industry,
		award.Version, award.Active, configJSON, now, now,
	)
	return award, err
}

// GetAward returns one stored award record, or nil when absent.
func (s *Store) GetAward(ctx context.Context, id engine.AwardID) (*AwardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec AwardRecord
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, code, name, industry, version, active, config_json, created_at, updated_at FROM awards WHERE id = ?",
		string(id),
	).Scan(&rec.ID, &rec.Code, &rec.Name, &rec.Industry, &rec.Version, &rec.Active, &rec.ConfigJSON, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

// ListAwards returns all stored award records.
func (s *Store) ListAwards(ctx context.Context) ([]AwardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, code, name, industry, version, active, config_json, created_at, updated_at FROM awards ORDER BY code",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AwardRecord
	for rows.Next() {
		var rec AwardRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&rec.ID, &rec.Code, &rec.Name, &rec.Industry, &rec.Version, &rec.Active, &rec.ConfigJSON, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ActiveAwards parses every active award's config into engine values.
func (s *Store) ActiveAwards(ctx context.Context) ([]engine.Award, map[engine.AwardID][]engine.AwardRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT config_json FROM awards WHERE active = TRUE ORDER BY code",
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var awards []engine.Award
	rulesByAward := map[engine.AwardID][]engine.AwardRule{}
	for rows.Next() {
		var configJSON string
		if err := rows.Scan(&configJSON); err != nil {
			return nil, nil, err
		}
		award, rules, err := s.factory.ParseAward(configJSON)
		if err != nil {
			return nil, nil, fmt.Errorf("stored award config invalid: %w", err)
		}
		awards = append(awards, award)
		rulesByAward[award.ID] = rules
	}
	return awards, rulesByAward, rows.Err()
}

// =============================================================================
// TAX TABLE STORE (engine.TaxTableSource)
// =============================================================================

// SaveTaxTable validates and stores one bracket scale.
func (s *Store) SaveTaxTable(ctx context.Context, configJSON string) (engine.TaxTable, error) {
	table, err := s.factory.ParseTaxTable(configJSON)
	if err != nil {
		return engine.TaxTable{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO tax_tables (financial_year, residency, config_json, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(financial_year, residency) DO UPDATE SET
			config_json = excluded.config_json
	`
	_, err = s.db.ExecContext(ctx, query,
		int(table.FinancialYear), string(table.Residency), configJSON, nowString(),
	)
	return table, err
}

// TaxTable returns the stored scale for a year and residency, or
// engine.ErrTaxTableNotFound when none is stored.
func (s *Store) TaxTable(ctx context.Context, year engine.FinancialYear, residency engine.Residency) (engine.TaxTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var configJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT config_json FROM tax_tables WHERE financial_year = ? AND residency = ?",
		int(year), string(residency),
	).Scan(&configJSON)

	if err == sql.ErrNoRows {
		return engine.TaxTable{}, engine.ErrTaxTableNotFound
	}
	if err != nil {
		return engine.TaxTable{}, err
	}
	return s.factory.ParseTaxTable(configJSON)
}

// =============================================================================
// STATUTORY RATE STORE (engine.StatutoryRateSource)
// =============================================================================

// SaveStatutoryRate stores one rate record.
func (s *Store) SaveStatutoryRate(ctx context.Context, rate engine.StatutoryRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO statutory_rates
		(id, rate_type, rate, state, industry, employment_type, threshold, max_base, effective_from, effective_to, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(),
		string(rate.Type),
		rate.Rate.Decimal().String(),
		string(rate.State),
		rate.Industry,
		string(rate.EmploymentType),
		nullMoney(rate.Threshold),
		nullMoney(rate.MaxBase),
		nullDate(rate.Effective.From),
		nullDate(rate.Effective.To),
		nowString(),
	)
	return err
}

// RatesAsOf returns every rate whose effective window covers the day.
func (s *Store) RatesAsOf(ctx context.Context, asOf engine.Date) ([]engine.StatutoryRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT rate_type, rate, state, industry, employment_type, threshold, max_base, effective_from, effective_to
		FROM statutory_rates
		ORDER BY rate_type, effective_from
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []engine.StatutoryRate
	for rows.Next() {
		var (
			rateType, rateStr             string
			state, industry, empType      sql.NullString
			threshold, maxBase            sql.NullString
			effectiveFrom, effectiveTo    sql.NullString
		)
		if err := rows.Scan(&rateType, &rateStr, &state, &industry, &empType, &threshold, &maxBase, &effectiveFrom, &effectiveTo); err != nil {
			return nil, err
		}

		value, err := decimal.NewFromString(rateStr)
		if err != nil {
			return nil, fmt.Errorf("stored rate %q invalid: %w", rateStr, err)
		}
		rate := engine.StatutoryRate{
			Type:           engine.RateType(rateType),
			Rate:           engine.Fraction(value),
			State:          engine.State(state.String),
			Industry:       industry.String,
			EmploymentType: engine.EmploymentType(empType.String),
		}
		if rate.Threshold, err = scanMoneyPtr(threshold); err != nil {
			return nil, err
		}
		if rate.MaxBase, err = scanMoneyPtr(maxBase); err != nil {
			return nil, err
		}
		if rate.Effective, err = scanWindow(effectiveFrom, effectiveTo); err != nil {
			return nil, err
		}

		if rate.Effective.Contains(asOf) {
			rates = append(rates, rate)
		}
	}
	return rates, rows.Err()
}

// =============================================================================
// REPAYMENT SCALE STORE (engine.RepaymentScaleSource)
// =============================================================================

// SaveRepaymentScale validates and stores one band scale.
func (s *Store) SaveRepaymentScale(ctx context.Context, configJSON string) (engine.RepaymentScale, error) {
	scale, loan, err := s.factory.ParseRepaymentScale(configJSON)
	if err != nil {
		return engine.RepaymentScale{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO repayment_scales (financial_year, loan_type, config_json, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(financial_year, loan_type) DO UPDATE SET
			config_json = excluded.config_json
	`
	_, err = s.db.ExecContext(ctx, query,
		int(scale.FinancialYear), string(loan), configJSON, nowString(),
	)
	return scale, err
}

// RepaymentScale returns the stored scale, or engine.ErrStatutoryRateMissing
// when none is stored for the year and loan type.
func (s *Store) RepaymentScale(ctx context.Context, year engine.FinancialYear, loan engine.LoanType) (engine.RepaymentScale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var configJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT config_json FROM repayment_scales WHERE financial_year = ? AND loan_type = ?",
		int(year), string(loan),
	).Scan(&configJSON)

	if err == sql.ErrNoRows {
		return engine.RepaymentScale{}, engine.ErrStatutoryRateMissing
	}
	if err != nil {
		return engine.RepaymentScale{}, err
	}
	scale, _, err := s.factory.ParseRepaymentScale(configJSON)
	return scale, err
}

// =============================================================================
// HOLIDAY STORE (engine.HolidaySource)
// =============================================================================

// Holiday is a stored public holiday record.
type Holiday struct {
	ID    string
	Date  engine.Date
	Name  string
	State engine.State // empty = national
}

// DeleteHoliday removes one stored holiday.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM public_holidays WHERE id = ?", id)
	return err
}

// SaveHoliday stores one public holiday. Duplicate (date, name, state)
// rows are ignored so seeding defaults is idempotent.
func (s *Store) SaveHoliday(ctx context.Context, h Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	query := `
		INSERT INTO public_holidays (id, date, name, state, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, name, state) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		h.ID, h.Date.String(), h.Name, string(h.State), nowString(),
	)
	return err
}

// ListHolidays returns stored holidays in a date range.
func (s *Store) ListHolidays(ctx context.Context, from, to engine.Date) ([]Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, name, state FROM public_holidays WHERE date >= ? AND date <= ? ORDER BY date",
		from.String(), to.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []Holiday
	for rows.Next() {
		var h Holiday
		var dateStr, state string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &state); err != nil {
			return nil, err
		}
		if h.Date, err = parseDate(dateStr); err != nil {
			return nil, err
		}
		h.State = engine.State(state)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// Holidays returns the distinct holiday dates in a range.
func (s *Store) Holidays(ctx context.Context, from, to engine.Date) ([]engine.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT date FROM public_holidays WHERE date >= ? AND date <= ? ORDER BY date",
		from.String(), to.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []engine.Date
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, err
		}
		d, err := parseDate(dateStr)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// =============================================================================
// EMPLOYEE STORE (engine.EmployeeSource)
// =============================================================================

// SaveEmployee inserts or updates a profile.
func (s *Store) SaveEmployee(ctx context.Context, p engine.EmployeeProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees
		(id, name, classification, employment_type, state, company_id,
		 annual_salary, hourly_rate, pay_frequency, award_id,
		 has_help_debt, has_sfss_debt, has_private_health_cover, super_fund_id,
		 active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			classification = excluded.classification,
			employment_type = excluded.employment_type,
			state = excluded.state,
			company_id = excluded.company_id,
			annual_salary = excluded.annual_salary,
			hourly_rate = excluded.hourly_rate,
			pay_frequency = excluded.pay_frequency,
			award_id = excluded.award_id,
			has_help_debt = excluded.has_help_debt,
			has_sfss_debt = excluded.has_sfss_debt,
			has_private_health_cover = excluded.has_private_health_cover,
			super_fund_id = excluded.super_fund_id,
			updated_at = excluded.updated_at
	`
	now := nowString()
	_, err := s.db.ExecContext(ctx, query,
		string(p.ID), p.Name, p.Classification, string(p.EmploymentType), string(p.State), string(p.CompanyID),
		nullMoney(p.AnnualSalary), nullMoney(p.HourlyRate), string(p.PayFrequency), string(p.AwardID),
		p.HasHELPDebt, p.HasSFSSDebt, p.HasPrivateHealthCover, p.SuperFundID,
		now, now,
	)
	return err
}

// Profile returns one employee, or engine.ErrEmployeeNotFound.
func (s *Store) Profile(ctx context.Context, id engine.EmployeeID) (engine.EmployeeProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, classification, employment_type, state, company_id,
		       annual_salary, hourly_rate, pay_frequency, award_id,
		       has_help_debt, has_sfss_debt, has_private_health_cover, super_fund_id
		FROM employees WHERE id = ?
	`, string(id))

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return engine.EmployeeProfile{}, engine.ErrEmployeeNotFound
	}
	return p, err
}

// ActiveEmployeeIDs returns ids of all active employees, ordered for
// deterministic batch runs.
func (s *Store) ActiveEmployeeIDs(ctx context.Context) ([]engine.EmployeeID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM employees WHERE active = TRUE ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []engine.EmployeeID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, engine.EmployeeID(id))
	}
	return ids, rows.Err()
}

// ListEmployees returns all active profiles.
func (s *Store) ListEmployees(ctx context.Context) ([]engine.EmployeeProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, classification, employment_type, state, company_id,
		       annual_salary, hourly_rate, pay_frequency, award_id,
		       has_help_debt, has_sfss_debt, has_private_health_cover, super_fund_id
		FROM employees WHERE active = TRUE ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []engine.EmployeeProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// DeactivateEmployee removes the employee from future runs without
// touching historical payslips.
func (s *Store) DeactivateEmployee(ctx context.Context, id engine.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"UPDATE employees SET active = FALSE, updated_at = ? WHERE id = ?",
		nowString(), string(id),
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (engine.EmployeeProfile, error) {
	var (
		p                              engine.EmployeeProfile
		id, empType, state             string
		classification, companyID      sql.NullString
		annualSalary, hourlyRate       sql.NullString
		payFrequency                   string
		awardID, superFund             sql.NullString
	)
	err := row.Scan(
		&id, &p.Name, &classification, &empType, &state, &companyID,
		&annualSalary, &hourlyRate, &payFrequency, &awardID,
		&p.HasHELPDebt, &p.HasSFSSDebt, &p.HasPrivateHealthCover, &superFund,
	)
	if err != nil {
		return p, err
	}

	p.ID = engine.EmployeeID(id)
	p.Classification = classification.String
	p.EmploymentType = engine.EmploymentType(empType)
	p.State = engine.State(state)
	p.CompanyID = engine.CompanyID(companyID.String)
	p.PayFrequency = engine.PayFrequency(payFrequency)
	p.AwardID = engine.AwardID(awardID.String)
	p.SuperFundID = superFund.String

	if p.AnnualSalary, err = scanMoneyPtr(annualSalary); err != nil {
		return p, err
	}
	if p.HourlyRate, err = scanMoneyPtr(hourlyRate); err != nil {
		return p, err
	}
	return p, nil
}

// =============================================================================
// TIMESHEET STORE (engine.TimesheetSource)
// =============================================================================

// SaveEntry stores one timesheet entry.
func (s *Store) SaveEntry(ctx context.Context, e engine.TimesheetEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO timesheet_entries (id, employee_id, start_at, end_at, base_hourly_rate, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			base_hourly_rate = excluded.base_hourly_rate,
			status = excluded.status
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, string(e.EmployeeID),
		e.Start.UTC().Format(time.RFC3339), e.End.UTC().Format(time.RFC3339),
		e.BaseHourlyRate.Value.String(), string(e.Status), nowString(),
	)
	return err
}

// Entries returns approved entries overlapping the period.
func (s *Store) Entries(ctx context.Context, id engine.EmployeeID, period engine.PayPeriod) ([]engine.TimesheetEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// The period covers whole days; entries starting on the end date count.
	endExclusive := period.End.AddDays(1).Time().Format(time.RFC3339)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, start_at, end_at, base_hourly_rate, status
		FROM timesheet_entries
		WHERE employee_id = ? AND status = ? AND start_at >= ? AND start_at < ?
		ORDER BY start_at
	`, string(id), string(engine.EntryApproved), period.Start.Time().Format(time.RFC3339), endExclusive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []engine.TimesheetEntry
	for rows.Next() {
		var (
			e                engine.TimesheetEntry
			employeeID       string
			startAt, endAt   string
			rate, status     string
		)
		if err := rows.Scan(&e.ID, &employeeID, &startAt, &endAt, &rate, &status); err != nil {
			return nil, err
		}
		e.EmployeeID = engine.EmployeeID(employeeID)
		if e.Start, err = time.Parse(time.RFC3339, startAt); err != nil {
			return nil, fmt.Errorf("stored entry %s: %w", e.ID, err)
		}
		if e.End, err = time.Parse(time.RFC3339, endAt); err != nil {
			return nil, fmt.Errorf("stored entry %s: %w", e.ID, err)
		}
		value, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("stored entry %s rate: %w", e.ID, err)
		}
		e.BaseHourlyRate = engine.Money{Value: value}
		e.Status = engine.EntryStatus(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// DEDUCTIONS AND ADJUSTMENTS
// =============================================================================

// SaveDeduction stores a standing deduction for an employee.
func (s *Store) SaveDeduction(ctx context.Context, id engine.EmployeeID, d engine.Deduction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO deductions (id, employee_id, description, method, timing, amount, percent, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, TRUE, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(), string(id), d.Description, string(d.Method), string(d.Timing),
		d.Amount.Value.String(), d.Percent.Decimal().String(), nowString(),
	)
	return err
}

// SaveAdjustment stores an ad-hoc adjustment scoped to a period window.
func (s *Store) SaveAdjustment(ctx context.Context, id engine.EmployeeID, period engine.PayPeriod, adj engine.SalaryAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO adjustments (id, employee_id, period_start, period_end, description, amount, formula, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(), string(id), period.Start.String(), period.End.String(),
		adj.Description, adj.Amount.Value.String(), adj.Formula, nowString(),
	)
	return err
}

func (s *Store) deductionsFor(ctx context.Context, id engine.EmployeeID) ([]engine.Deduction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT description, method, timing, amount, percent
		FROM deductions WHERE employee_id = ? AND active = TRUE ORDER BY created_at
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deductions []engine.Deduction
	for rows.Next() {
		var d engine.Deduction
		var method, timing, amount, percent string
		if err := rows.Scan(&d.Description, &method, &timing, &amount, &percent); err != nil {
			return nil, err
		}
		d.Method = engine.DeductionMethod(method)
		d.Timing = engine.DeductionTiming(timing)
		amountValue, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		d.Amount = engine.Money{Value: amountValue}
		percentValue, err := decimal.NewFromString(percent)
		if err != nil {
			return nil, err
		}
		d.Percent = engine.Percentage(percentValue)
		deductions = append(deductions, d)
	}
	return deductions, rows.Err()
}

func (s *Store) adjustmentsFor(ctx context.Context, id engine.EmployeeID, period engine.PayPeriod) ([]engine.SalaryAdjustment, error) {
	// Window overlap: stored [start, end] intersects the requested period.
	rows, err := s.db.QueryContext(ctx, `
		SELECT description, amount, formula
		FROM adjustments
		WHERE employee_id = ? AND period_start <= ? AND period_end >= ?
		ORDER BY created_at
	`, string(id), period.End.String(), period.Start.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []engine.SalaryAdjustment
	for rows.Next() {
		var adj engine.SalaryAdjustment
		var amount string
		var formula sql.NullString
		if err := rows.Scan(&adj.Description, &amount, &formula); err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		adj.Amount = engine.Money{Value: value}
		adj.Formula = formula.String
		adjustments = append(adjustments, adj)
	}
	return adjustments, rows.Err()
}

// =============================================================================
// INPUT LOADER (engine.InputLoader)
// =============================================================================

// LoadInput assembles the full calculation input for one employee.
func (s *Store) LoadInput(ctx context.Context, id engine.EmployeeID, period engine.PayPeriod) (engine.PayrollInput, error) {
	profile, err := s.Profile(ctx, id)
	if err != nil {
		return engine.PayrollInput{}, err
	}
	entries, err := s.Entries(ctx, id, period)
	if err != nil {
		return engine.PayrollInput{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	deductions, err := s.deductionsFor(ctx, id)
	if err != nil {
		return engine.PayrollInput{}, err
	}
	adjustments, err := s.adjustmentsFor(ctx, id, period)
	if err != nil {
		return engine.PayrollInput{}, err
	}
	trailing, err := s.trailingWages(ctx, profile.CompanyID, period.End)
	if err != nil {
		return engine.PayrollInput{}, err
	}

	return engine.PayrollInput{
		Employee:             profile,
		Period:               period,
		Entries:              entries,
		Adjustments:          adjustments,
		Deductions:           deductions,
		TrailingMonthlyWages: trailing,
	}, nil
}

// trailingWages sums the employer's payslip gross over the month ending at
// the given day. Feeds the payroll tax threshold gate.
func (s *Store) trailingWages(ctx context.Context, company engine.CompanyID, until engine.Date) (engine.Money, error) {
	from := until.AddDays(-30)
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.gross_pay
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE e.company_id = ? AND p.period_end >= ? AND p.period_end <= ?
	`, string(company), from.String(), until.String())
	if err != nil {
		return engine.ZeroMoney(), err
	}
	defer rows.Close()

	total := engine.ZeroMoney()
	for rows.Next() {
		var gross string
		if err := rows.Scan(&gross); err != nil {
			return engine.ZeroMoney(), err
		}
		value, err := decimal.NewFromString(gross)
		if err != nil {
			return engine.ZeroMoney(), err
		}
		total = total.Add(engine.Money{Value: value})
	}
	return total, rows.Err()
}

// =============================================================================
// RESULT STORE (engine.ResultStore)
// =============================================================================

// SaveResult persists the payslip, its components, and its super
// contributions in one transaction. Re-running a period replaces the
// previous payslip; the cascade removes its old lines.
func (s *Store) SaveResult(ctx context.Context, result *engine.PayrollCalculationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	_, err = sqlTx.ExecContext(ctx,
		"DELETE FROM payslips WHERE employee_id = ? AND period_start = ? AND period_end = ?",
		string(result.EmployeeID), result.PeriodStart.String(), result.PeriodEnd.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to replace payslip: %w", err)
	}

	payslipID := uuid.NewString()
	warningsJSON, _ := json.Marshal(result.Warnings)
	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO payslips
		(id, employee_id, period_start, period_end, gross_pay, taxable_income,
		 tax_withheld, total_deductions, super_total, net_pay, warnings_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		payslipID, string(result.EmployeeID),
		result.PeriodStart.String(), result.PeriodEnd.String(),
		result.GrossPay.Value.String(), result.TaxableIncome.Value.String(),
		result.TaxWithheld.Value.String(), result.TotalDeductions.Value.String(),
		result.SuperTotal.Value.String(), result.NetPay.Value.String(),
		string(warningsJSON), nowString(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payslip: %w", err)
	}

	insertComponent := func(c engine.PayComponent) error {
		_, err := sqlTx.ExecContext(ctx, `
			INSERT INTO pay_components (id, payslip_id, kind, description, units, rate, amount, treatment, category)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			uuid.NewString(), payslipID, string(c.Kind), c.Description,
			c.Units.String(), c.Rate.Value.String(), c.Amount.Value.String(),
			string(c.Treatment), string(c.Category),
		)
		return err
	}
	for _, group := range [][]engine.PayComponent{result.Earnings, result.Deductions, result.Super, result.EmployerCharges} {
		for _, c := range group {
			if err := insertComponent(c); err != nil {
				return fmt.Errorf("failed to insert pay component: %w", err)
			}
		}
	}

	fund, err := s.fundFor(ctx, sqlTx, result.EmployeeID)
	if err != nil {
		return err
	}
	for _, c := range result.Super {
		_, err = sqlTx.ExecContext(ctx, `
			INSERT INTO super_contributions (id, payslip_id, employee_id, fund_id, amount, period_start, period_end, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			uuid.NewString(), payslipID, string(result.EmployeeID), fund,
			c.Amount.Value.String(),
			result.PeriodStart.String(), result.PeriodEnd.String(), nowString(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert super contribution: %w", err)
		}
	}

	return sqlTx.Commit()
}

// fundFor resolves the employee's super fund for contribution records.
// An employee without a stored profile yields an empty fund id; any
// other scan failure aborts the surrounding transaction.
func (s *Store) fundFor(ctx context.Context, tx *sql.Tx, id engine.EmployeeID) (string, error) {
	var fund sql.NullString
	err := tx.QueryRowContext(ctx, "SELECT super_fund_id FROM employees WHERE id = ?", string(id)).Scan(&fund)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve super fund: %w", err)
	}
	return fund.String, nil
}

// =============================================================================
// PAYSLIP QUERIES
// =============================================================================

// PayslipRecord is a stored payslip header with its component lines.
type PayslipRecord struct {
	ID              string
	EmployeeID      engine.EmployeeID
	PeriodStart     engine.Date
	PeriodEnd       engine.Date
	GrossPay        engine.Money
	TaxableIncome   engine.Money
	TaxWithheld     engine.Money
	TotalDeductions engine.Money
	SuperTotal      engine.Money
	NetPay          engine.Money
	Warnings        []string
	Components      []engine.PayComponent
	CreatedAt       time.Time
}

// GetPayslip returns the stored payslip for an employee and period, or nil.
func (s *Store) GetPayslip(ctx context.Context, id engine.EmployeeID, period engine.PayPeriod) (*PayslipRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, period_start, period_end, gross_pay, taxable_income,
		       tax_withheld, total_deductions, super_total, net_pay, warnings_json, created_at
		FROM payslips WHERE employee_id = ? AND period_start = ? AND period_end = ?
	`, string(id), period.Start.String(), period.End.String())

	rec, err := s.scanPayslip(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.Components, err = s.componentsFor(ctx, rec.ID); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListPayslips returns all of an employee's payslips, newest first.
func (s *Store) ListPayslips(ctx context.Context, id engine.EmployeeID) ([]PayslipRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, period_start, period_end, gross_pay, taxable_income,
		       tax_withheld, total_deductions, super_total, net_pay, warnings_json, created_at
		FROM payslips WHERE employee_id = ? ORDER BY period_end DESC
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PayslipRecord
	for rows.Next() {
		rec, err := s.scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (s *Store) scanPayslip(row rowScanner) (*PayslipRecord, error) {
	var (
		rec                        PayslipRecord
		employeeID                 string
		periodStart, periodEnd     string
		gross, taxable, tax        string
		deductions, superTotal, net string
		warningsJSON               sql.NullString
		createdAt                  string
	)
	err := row.Scan(
		&rec.ID, &employeeID, &periodStart, &periodEnd,
		&gross, &taxable, &tax, &deductions, &superTotal, &net,
		&warningsJSON, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	rec.EmployeeID = engine.EmployeeID(employeeID)
	if rec.PeriodStart, err = parseDate(periodStart); err != nil {
		return nil, err
	}
	if rec.PeriodEnd, err = parseDate(periodEnd); err != nil {
		return nil, err
	}
	for _, pair := range []struct {
		dst *engine.Money
		src string
	}{
		{&rec.GrossPay, gross}, {&rec.TaxableIncome, taxable}, {&rec.TaxWithheld, tax},
		{&rec.TotalDeductions, deductions}, {&rec.SuperTotal, superTotal}, {&rec.NetPay, net},
	} {
		value, err := decimal.NewFromString(pair.src)
		if err != nil {
			return nil, fmt.Errorf("stored payslip %s: %w", rec.ID, err)
		}
		*pair.dst = engine.Money{Value: value}
	}
	if warningsJSON.Valid && warningsJSON.String != "" {
		json.Unmarshal([]byte(warningsJSON.String), &rec.Warnings)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

func (s *Store) componentsFor(ctx context.Context, payslipID string) ([]engine.PayComponent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, description, units, rate, amount, treatment, category
		FROM pay_components WHERE payslip_id = ? ORDER BY rowid
	`, payslipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []engine.PayComponent
	for rows.Next() {
		var c engine.PayComponent
		var kind, units, rate, amount, treatment, category string
		if err := rows.Scan(&kind, &c.Description, &units, &rate, &amount, &treatment, &category); err != nil {
			return nil, err
		}
		c.Kind = engine.ComponentKind(kind)
		c.Treatment = engine.TaxTreatment(treatment)
		c.Category = engine.ReportingCategory(category)
		if c.Units, err = decimal.NewFromString(units); err != nil {
			return nil, err
		}
		rateValue, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, err
		}
		c.Rate = engine.Money{Value: rateValue}
		amountValue, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		c.Amount = engine.Money{Value: amountValue}
		components = append(components, c)
	}
	return components, rows.Err()
}

// =============================================================================
// RUN REPORT STORE
// =============================================================================

// RunRecord is a stored payroll run report.
type RunRecord struct {
	ID          string
	PeriodStart engine.Date
	PeriodEnd   engine.Date
	Status      engine.RunStatus
	Outcomes    []RunOutcome
	CreatedAt   time.Time
}

// RunOutcome is the persisted shape of one employee outcome. Full results
// live in the payslip tables; the report keeps only the summary.
type RunOutcome struct {
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"`
	NetPay     string `json:"net_pay,omitempty"`
	Err        string `json:"error,omitempty"`
}

// SaveRun stores the report of one payroll run.
func (s *Store) SaveRun(ctx context.Context, report *engine.RunReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcomes := make([]RunOutcome, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		out := RunOutcome{EmployeeID: string(o.EmployeeID), Status: string(o.Status), Err: o.Err}
		if o.Result != nil {
			out.NetPay = o.Result.NetPay.String()
		}
		outcomes = append(outcomes, out)
	}
	outcomesJSON, err := json.Marshal(outcomes)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO payroll_runs (id, period_start, period_end, status, outcomes_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		id, report.Period.Start.String(), report.Period.End.String(),
		string(report.Status), string(outcomesJSON), nowString(),
	)
	return id, err
}

// GetRun returns one stored run report, or nil.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rec                    RunRecord
		periodStart, periodEnd string
		status, outcomesJSON   string
		createdAt              string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, period_start, period_end, status, outcomes_json, created_at FROM payroll_runs WHERE id = ?",
		id,
	).Scan(&rec.ID, &periodStart, &periodEnd, &status, &outcomesJSON, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.PeriodStart, err = parseDate(periodStart); err != nil {
		return nil, err
	}
	if rec.PeriodEnd, err = parseDate(periodEnd); err != nil {
		return nil, err
	}
	rec.Status = engine.RunStatus(status)
	json.Unmarshal([]byte(outcomesJSON), &rec.Outcomes)
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

// ListRuns returns stored run reports, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, period_start, period_end, status, outcomes_json, created_at FROM payroll_runs ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec                    RunRecord
			periodStart, periodEnd string
			status, outcomesJSON   string
			createdAt              string
		)
		if err := rows.Scan(&rec.ID, &periodStart, &periodEnd, &status, &outcomesJSON, &createdAt); err != nil {
			return nil, err
		}
		if rec.PeriodStart, err = parseDate(periodStart); err != nil {
			return nil, err
		}
		if rec.PeriodEnd, err = parseDate(periodEnd); err != nil {
			return nil, err
		}
		rec.Status = engine.RunStatus(status)
		json.Unmarshal([]byte(outcomesJSON), &rec.Outcomes)
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all data. Dev and demo environments only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"pay_components", "super_contributions", "payslips", "payroll_runs",
		"timesheet_entries", "deductions", "adjustments", "employees",
		"public_holidays", "statutory_rates", "repayment_scales", "tax_tables", "awards",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func nullMoney(m *engine.Money) any {
	if m == nil {
		return nil
	}
	return m.Value.String()
}

func nullDate(d *engine.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func scanMoneyPtr(s sql.NullString) (*engine.Money, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, fmt.Errorf("stored amount %q invalid: %w", s.String, err)
	}
	return &engine.Money{Value: value}, nil
}

func scanWindow(from, to sql.NullString) (engine.EffectiveWindow, error) {
	var window engine.EffectiveWindow
	if from.Valid && from.String != "" {
		d, err := parseDate(from.String)
		if err != nil {
			return window, err
		}
		window.From = &d
	}
	if to.Valid && to.String != "" {
		d, err := parseDate(to.String)
		if err != nil {
			return window, err
		}
		window.To = &d
	}
	return window, nil
}

func parseDate(s string) (engine.Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return engine.Date{}, fmt.Errorf("bad stored date %q: %w", s, err)
	}
	return engine.DateOf(t), nil
}

// Interface conformance.
var (
	_ engine.AwardSource          = (*Store)(nil)
	_ engine.TaxTableSource       = (*Store)(nil)
	_ engine.StatutoryRateSource  = (*Store)(nil)
	_ engine.RepaymentScaleSource = (*Store)(nil)
	_ engine.HolidaySource        = (*Store)(nil)
	_ engine.EmployeeSource       = (*Store)(nil)
	_ engine.TimesheetSource      = (*Store)(nil)
	_ engine.ResultStore          = (*Store)(nil)
	_ engine.InputLoader          = (*Store)(nil)
)
