/*
handlers.go - HTTP request handlers

PURPOSE:
  Implements all API endpoint handlers. Handlers parse requests, call the
  store and the calculation engine, convert results to DTOs, and write
  JSON responses.

KEY PATTERNS:
  1. Handler struct holds dependencies (store, factory, logger)
  2. Reference data is layered: the database is authoritative, with the
     bundled statutory presets as fallback when a table has no rows
  3. writeJSON / writeError keep response shapes uniform

ENDPOINT GROUPS:
  - Employees: profile CRUD, deductions, adjustments, payslips
  - Timesheets: entry recording and listing
  - Awards: JSON-configured award CRUD
  - Holidays: gazetted public holiday calendar
  - Rates: statutory rate overrides for the bundled presets
  - Payroll: run execution, previews, run history

SEE ALSO:
  - server.go: Route definitions
  - dto.go: Request/response types
  - scenarios.go: Demo data loading
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/warp/payroll-engine/ato"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/store/sqlite"
)

// Handler holds the dependencies for all API handlers.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.RuleSetFactory
	Log     logrus.FieldLogger

	// Policy selects how base pay interacts with penalty hours on runs
	// started through this API.
	Policy engine.BasePayPolicy

	// Concurrency bounds the batch worker pool.
	Concurrency int

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store *sqlite.Store, log logrus.FieldLogger) *Handler {
	return &Handler{
		Store:       store,
		Factory:     factory.NewRuleSetFactory(),
		Log:         log,
		Policy:      engine.BasePayAdditive,
		Concurrency: 4,
	}
}

// =============================================================================
// LAYERED REFERENCE-DATA SOURCES
// =============================================================================

// ruleSources assembles the snapshot sources: awards, holidays, employees
// and timesheets always come from the database, while tax tables, statutory
// rates and repayment scales fall back to the bundled presets when the
// database has no row for the requested year.
func (h *Handler) ruleSources() engine.RuleSetSources {
	return engine.RuleSetSources{
		Awards:    h.Store,
		TaxTables: layeredTaxTables{db: h.Store},
		Rates:     layeredRates{db: h.Store},
		Scales:    layeredScales{db: h.Store},
		Holidays:  h.Store,
	}
}

type layeredTaxTables struct{ db engine.TaxTableSource }

func (l layeredTaxTables) TaxTable(ctx context.Context, year engine.FinancialYear, residency engine.Residency) (engine.TaxTable, error) {
	t, err := l.db.TaxTable(ctx, year, residency)
	if errors.Is(err, engine.ErrTaxTableNotFound) {
		return ato.StaticSources{}.TaxTable(ctx, year, residency)
	}
	return t, err
}

type layeredRates struct{ db engine.StatutoryRateSource }

func (l layeredRates) RatesAsOf(ctx context.Context, asOf engine.Date) ([]engine.StatutoryRate, error) {
	rates, err := l.db.RatesAsOf(ctx, asOf)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return ato.StaticSources{}.RatesAsOf(ctx, asOf)
	}
	return rates, nil
}

type layeredScales struct{ db engine.RepaymentScaleSource }

func (l layeredScales) RepaymentScale(ctx context.Context, year engine.FinancialYear, loan engine.LoanType) (engine.RepaymentScale, error) {
	s, err := l.db.RepaymentScale(ctx, year, loan)
	if errors.Is(err, engine.ErrStatutoryRateMissing) {
		return ato.StaticSources{}.RepaymentScale(ctx, year, loan)
	}
	return s, err
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func parseDateParam(s string) (engine.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return engine.Date{}, err
	}
	return engine.DateOf(t), nil
}

func parsePeriod(start, end string) (engine.PayPeriod, error) {
	s, err := parseDateParam(start)
	if err != nil {
		return engine.PayPeriod{}, err
	}
	e, err := parseDateParam(end)
	if err != nil {
		return engine.PayPeriod{}, err
	}
	p := engine.PayPeriod{Start: s, End: e}
	if !p.Valid() {
		return engine.PayPeriod{}, errors.New("period start is after period end")
	}
	return p, nil
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees handles GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("Failed to list employees")
		writeError(w, http.StatusInternalServerError, "Failed to list employees", "LIST_FAILED")
		return
	}
	dtos := make([]EmployeeDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = toEmployeeDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee handles POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_BODY")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "MISSING_FIELD")
		return
	}
	if req.AnnualSalary == nil && req.HourlyRate == nil {
		writeError(w, http.StatusBadRequest, "one of annual_salary or hourly_rate is required", "MISSING_FIELD")
		return
	}
	if req.AnnualSalary != nil && req.HourlyRate != nil {
		writeError(w, http.StatusBadRequest, "annual_salary and hourly_rate are mutually exclusive", "INVALID_FIELD")
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	profile := engine.EmployeeProfile{
		ID:             engine.EmployeeID(req.ID),
		Name:           req.Name,
		Classification: req.Classification,
		EmploymentType: engine.EmploymentType(req.EmploymentType),
		State:          engine.State(req.State),
		CompanyID:      engine.CompanyID(req.CompanyID),
		PayFrequency:   engine.PayFrequency(req.PayFrequency),
		AwardID:        engine.AwardID(req.AwardID),
		HasHELPDebt:    req.HasHELPDebt,
		HasSFSSDebt:    req.HasSFSSDebt,
		HasPrivateHealthCover: req.HasPrivateHealthCover,
		SuperFundID:    req.SuperFundID,
	}
	if req.AnnualSalary != nil {
		m := engine.NewMoney(*req.AnnualSalary)
		profile.AnnualSalary = &m
	}
	if req.HourlyRate != nil {
		m := engine.NewMoney(*req.HourlyRate)
		profile.HourlyRate = &m
	}

	if err := h.Store.SaveEmployee(r.Context(), profile); err != nil {
		h.Log.WithError(err).Error("Failed to save employee")
		writeError(w, http.StatusInternalServerError, "Failed to save employee", "SAVE_FAILED")
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(profile))
}

// GetEmployee handles GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	profile, err := h.Store.Profile(r.Context(), id)
	if errors.Is(err, engine.ErrEmployeeNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", "NOT_FOUND")
		return
	}
	if err != nil {
		h.Log.WithError(err).Error("Failed to load employee")
		writeError(w, http.StatusInternalServerError, "Failed to load employee", "LOAD_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(profile))
}

// DeactivateEmployee handles DELETE /api/employees/{id}
func (h *Handler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	if err := h.Store.DeactivateEmployee(r.Context(), id); err != nil {
		if errors.Is(err, engine.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, "Employee not found", "NOT_FOUND")
			return
		}
		h.Log.WithError(err).Error("Failed to deactivate employee")
		writeError(w, http.StatusInternalServerError, "Failed to deactivate employee", "SAVE_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

// AddDeduction handles POST /api/employees/{id}/deductions
func (h *Handler) AddDeduction(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	var req DeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_BODY")
		return
	}
	method := engine.DeductionMethod(req.Method)
	if method != engine.DeductionFixed && method != engine.DeductionPercentOfGross {
		writeError(w, http.StatusBadRequest, "method must be fixed or percent_of_gross", "INVALID_FIELD")
		return
	}
	timing := engine.DeductionTiming(req.Timing)
	if timing != engine.PreTax && timing != engine.PostTax {
		writeError(w, http.StatusBadRequest, "timing must be pre_tax or post_tax", "INVALID_FIELD")
		return
	}

	d := engine.Deduction{
		Description: req.Description,
		Method:      method,
		Timing:      timing,
		Amount:      engine.NewMoney(req.Amount),
		Percent:     engine.NewPercentage(req.Percent),
	}
	if err := h.Store.SaveDeduction(r.Context(), id, d); err != nil {
		h.Log.WithError(err).Error("Failed to save deduction")
		writeError(w, http.StatusInternalServerError, "Failed to save deduction", "SAVE_FAILED")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

// AddAdjustment handles POST /api/employees/{id}/adjustments
func (h *Handler) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_BODY")
		return
	}
	period, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period: "+err.Error(), "INVALID_PERIOD")
		return
	}
	adj := engine.SalaryAdjustment{
		Description: req.Description,
		Amount:      engine.NewMoney(req.Amount),
		Formula:     req.Formula,
	}
	if err := h.Store.SaveAdjustment(r.Context(), id, period, adj); err != nil {
		h.Log.WithError(err).Error("Failed to save adjustment")
		writeError(w, http.StatusInternalServerError, "Failed to save adjustment", "SAVE_FAILED")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

// ListPayslips handles GET /api/employees/{id}/payslips
func (h *Handler) ListPayslips(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	records, err := h.Store.ListPayslips(r.Context(), id)
	if err != nil {
		h.Log.WithError(err).Error("Failed to list payslips")
		writeError(w, http.StatusInternalServerError, "Failed to list payslips", "LIST_FAILED")
		return
	}
	dtos := make([]PayslipDTO, len(records))
	for i, rec := range records {
		dtos[i] = toStoredPayslipDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPayslip handles GET /api/employees/{id}/payslips/{start}/{end}
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	period, err := parsePeriod(chi.URLParam(r, "start"), chi.URLParam(r, "end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period: "+err.Error(), "INVALID_PERIOD")
		return
	}
	rec, err := h.Store.GetPayslip(r.Context(), id, period)
	if err != nil {
		h.Log.WithError(err).Error("Failed to load payslip")
		writeError(w, http.StatusInternalServerError, "Failed to load payslip", "LOAD_FAILED")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "No payslip for this employee and period", "NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, toStoredPayslipDTO(*rec))
}

func toStoredPayslipDTO(rec sqlite.PayslipRecord) PayslipDTO {
	dto := PayslipDTO{
		EmployeeID:      string(rec.EmployeeID),
		PeriodStart:     rec.PeriodStart.String(),
		PeriodEnd:       rec.PeriodEnd.String(),
		GrossPay:        rec.GrossPay.Float(),
		TaxableIncome:   rec.TaxableIncome.Float(),
		TaxWithheld:     rec.TaxWithheld.Float(),
		TotalDeductions: rec.TotalDeductions.Float(),
		SuperTotal:      rec.SuperTotal.Float(),
		NetPay:          rec.NetPay.Float(),
		Warnings:        rec.Warnings,
	}
	for _, c := range rec.Components {
		line := toComponentDTOs([]engine.PayComponent{c})[0]
		switch c.Category {
		case engine.CategoryDeduction, engine.CategoryStudyLoan, engine.CategoryMedicare:
			dto.Deductions = append(dto.Deductions, line)
		case engine.CategorySuper:
			dto.Super = append(dto.Super, line)
		case engine.CategoryPayrollTax, engine.CategoryWorkersComp:
			dto.EmployerCharges = append(dto.EmployerCharges, line)
		default:
			dto.Earnings = append(dto.Earnings, line)
		}
	}
	return dto
}

// =============================================================================
// TIMESHEET HANDLERS
// =============================================================================

// CreateEntry handles POST /api/timesheets
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_BODY")
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", "MISSING_FIELD")
		return
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be RFC3339", "INVALID_FIELD")
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be RFC3339", "INVALID_FIELD")
		return
	}

	entry := engine.TimesheetEntry{
		ID:             uuid.New().String(),
		EmployeeID:     engine.EmployeeID(req.EmployeeID),
		Start:          start,
		End:            end,
		BaseHourlyRate: engine.NewMoney(req.BaseHourlyRate),
		Status:         engine.EntryStatus(req.Status),
	}
	if entry.Status == "" {
		entry.Status = engine.EntryApproved
	}
	if !entry.Valid() {
		writeError(w, http.StatusBadRequest, "end must be after start", "INVALID_FIELD")
		return
	}

	if err := h.Store.SaveEntry(r.Context(), entry); err != nil {
		h.Log.WithError(err).Error("Failed to save timesheet entry")
		writeError(w, http.StatusInternalServerError, "Failed to save entry", "SAVE_FAILED")
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(entry))
}

// ListEntries handles GET /api/employees/{id}/timesheets?start=...&end=...
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	period, err := parsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start and end query params are required ISO dates", "INVALID_PERIOD")
		return
	}
	entries, err := h.Store.Entries(r.Context(), id, period)
	if err != nil {
		h.Log.WithError(err).Error("Failed to list entries")
		writeError(w, http.StatusInternalServerError, "Failed to list entries", "LIST_FAILED")
		return
	}
	dtos := make([]TimesheetEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// AWARD HANDLERS
// =============================================================================

// ListAwards handles GET /api/awards
func (h *Handler) ListAwards(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListAwards(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("Failed to list awards")
		writeError(w, http.StatusInternalServerError, "Failed to list awards", "LIST_FAILED")
		return
	}
	dtos := make([]AwardDTO, 0, len(records))
	for _, rec := range records {
		dto, err := toAwardDTO(rec)
		if err != nil {
			h.Log.WithError(err).WithField("award_id", rec.ID).Warn("Skipping award with unreadable config")
			continue
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAward handles POST /api/awards
func (h *Handler) CreateAward(w http.ResponseWriter, r *http.Request) {
	var req CreateAwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_BODY")
		return
	}
	configJSON, err := json.Marshal(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid award config", "INVALID_CONFIG")
		return
	}
	award, err := h.Store.SaveAward(r.Context(), string(configJSON))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid award config: "+err.Error(), "INVALID_CONFIG")
		return
	}
	rec, err := h.Store.GetAward(r.Context(), award.ID)
	if err != nil || rec == nil {
		h.Log.WithError(err).Error("Failed to re-read saved award")
		writeError(w, http.StatusInternalServerError, "Failed to load saved award", "LOAD_FAILED")
		return
	}
	dto, err := toAwardDTO(*rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to decode saved award", "LOAD_FAILED")
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// GetAward handles GET /api/awards/{id}
func (h *Handler) GetAward(w http.ResponseWriter, r *http.Request) {
	id := engine.AwardID(chi.URLParam(r, "id"))
	rec, err := h.Store.GetAward(r.Context(), id)
	if err != nil {
		h.Log.WithError(err).Error("Failed to load award")
		writeError(w, http.StatusInternalServerError, "Failed to load award", "LOAD_FAILED")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Award not found", "NOT_FOUND")
		return
	}
	dto, err := toAwardDTO(*rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to decode award config", "LOAD_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func toAwardDTO(rec sqlite.AwardRecord) (AwardDTO, error) {
	var config factory.AwardJSON
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &config); err != nil {
		return AwardDTO{}, err
	}
	return AwardDTO{
		ID:        rec.ID,
		Code:      rec.Code,
		Name:      rec.Name,
		Industry:  rec.Industry,
		Version:   rec.Version,
		Active:    rec.Active,
		Config:    config,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays handles GET /api/holidays?from=...&to=...
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" {
		from = "1900-01-01"
	}
	if to == "" {
		to = "2999-12-31"
	}
	period, err := parsePeriod(from, to)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from/to dates", "INVALID_PERIOD")
		return
	}
	holidays, err := h.Store.ListHolidays(r.Context(), period.Start, period.End)
	if err != nil {
		h.Log.WithError(err).Error("Failed to list holidays")
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", "LIST_FAILED")
		return
	}
	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{ID: hol.ID, Date: hol.Date.String(), Name: hol.Name, State: string(hol.State)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday handles POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_BODY")
		return
	}
	date, err := parseDateParam(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be an ISO date", "INVALID_FIELD")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "MISSING_FIELD")
		return
	}
	hol := sqlite.Holiday{ID: uuid.New().String(), Date: date, Name: req.Name, State: engine.State(req.State)}
	if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
		h.Log.WithError(err).Error("Failed to save holiday")
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", "SAVE_FAILED")
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{ID: hol.ID, Date: hol.Date.String(), Name: hol.Name, State: req.State})
}

// DeleteHoliday handles DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.Log.WithError(err).Error("Failed to delete holiday")
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", "DELETE_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AddDefaultHolidays handles POST /api/holidays/defaults?year=YYYY
// It gazettes the nationwide fixed-date holidays for the given year.
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		t, err := time.Parse("2006", y)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be a four-digit year", "INVALID_FIELD")
			return
		}
		year = t.Year()
	}

	defaults := []sqlite.Holiday{
		{Date: engine.NewDate(year, time.January, 1), Name: "New Year's Day"},
		{Date: engine.NewDate(year, time.January, 26), Name: "Australia Day"},
		{Date: engine.NewDate(year, time.April, 25), Name: "Anzac Day"},
		{Date: engine.NewDate(year, time.December, 25), Name: "Christmas Day"},
		{Date: engine.NewDate(year, time.December, 26), Name: "Boxing Day"},
	}
	added := 0
	for _, hol := range defaults {
		hol.ID = uuid.New().String()
		if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
			h.Log.WithError(err).WithField("holiday", hol.Name).Error("Failed to save default holiday")
			writeError(w, http.StatusInternalServerError, "Failed to save default holidays", "SAVE_FAILED")
			return
		}
		added++
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "added": added})
}

// =============================================================================
// STATUTORY RATE HANDLERS
// =============================================================================

// CreateStatutoryRate handles POST /api/rates
// A stored rate overrides the bundled presets for any run whose period
// falls inside its effective window.
func (h *Handler) CreateStatutoryRate(w http.ResponseWriter, r *http.Request) {
	var req factory.StatutoryRateJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_BODY")
		return
	}
	rate, err := h.Factory.ParseStatutoryRate(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate: "+err.Error(), "INVALID_CONFIG")
		return
	}
	if err := h.Store.SaveStatutoryRate(r.Context(), rate); err != nil {
		h.Log.WithError(err).Error("Failed to save statutory rate")
		writeError(w, http.StatusInternalServerError, "Failed to save rate", "SAVE_FAILED")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "saved", "type": string(rate.Type)})
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// RunPayroll handles POST /api/payroll/run
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_BODY")
		return
	}
	period, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period: "+err.Error(), "INVALID_PERIOD")
		return
	}

	employees := make([]engine.EmployeeID, 0, len(req.EmployeeIDs))
	for _, id := range req.EmployeeIDs {
		employees = append(employees, engine.EmployeeID(id))
	}
	if len(employees) == 0 {
		employees, err = h.Store.ActiveEmployeeIDs(r.Context())
		if err != nil {
			h.Log.WithError(err).Error("Failed to list active employees")
			writeError(w, http.StatusInternalServerError, "Failed to list active employees", "LIST_FAILED")
			return
		}
	}
	if len(employees) == 0 {
		writeError(w, http.StatusBadRequest, "No employees to pay", "EMPTY_RUN")
		return
	}

	report, runID, err := h.executeRun(r.Context(), employees, period)
	if err != nil {
		h.Log.WithError(err).Error("Payroll run failed")
		writeError(w, http.StatusInternalServerError, "Payroll run failed: "+err.Error(), "RUN_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, RunReportDTO{
		RunID:       runID,
		PeriodStart: period.Start.String(),
		PeriodEnd:   period.End.String(),
		Status:      string(report.Status),
		Outcomes:    toOutcomeDTOs(report.Outcomes),
	})
}

// executeRun loads a rule set snapshot, runs the batch, and persists the
// run record. Shared between the HTTP handler and the scheduler.
func (h *Handler) executeRun(ctx context.Context, employees []engine.EmployeeID, period engine.PayPeriod) (*engine.RunReport, string, error) {
	rules, err := engine.LoadRuleSet(ctx, h.ruleSources(), period)
	if err != nil {
		return nil, "", err
	}

	calc := engine.NewCalculator(*rules)
	calc.Policy = h.Policy

	runner := &engine.BatchRunner{
		Calculator:  calc,
		Loader:      h.Store,
		Results:     h.Store,
		Concurrency: h.Concurrency,
		Log:         h.Log,
	}
	report := runner.Run(ctx, employees, period)

	runID, err := h.Store.SaveRun(ctx, report)
	if err != nil {
		return report, "", err
	}
	return report, runID, nil
}

// PreviewPayroll handles POST /api/payroll/preview
// It calculates one employee's pay without persisting anything.
func (h *Handler) PreviewPayroll(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_BODY")
		return
	}
	period, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period: "+err.Error(), "INVALID_PERIOD")
		return
	}

	input, err := h.Store.LoadInput(r.Context(), engine.EmployeeID(req.EmployeeID), period)
	if errors.Is(err, engine.ErrEmployeeNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", "NOT_FOUND")
		return
	}
	if err != nil {
		h.Log.WithError(err).Error("Failed to load payroll input")
		writeError(w, http.StatusInternalServerError, "Failed to load payroll input", "LOAD_FAILED")
		return
	}

	rules, err := engine.LoadRuleSet(r.Context(), h.ruleSources(), period)
	if err != nil {
		h.Log.WithError(err).Error("Failed to load rule set")
		writeError(w, http.StatusInternalServerError, "Failed to load rule set: "+err.Error(), "LOAD_FAILED")
		return
	}

	calc := engine.NewCalculator(*rules)
	calc.Policy = h.Policy
	result, err := calc.Calculate(input)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Calculation failed: "+err.Error(), "CALC_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, toPayslipDTO(result))
}

// ListRuns handles GET /api/payroll/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRuns(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("Failed to list runs")
		writeError(w, http.StatusInternalServerError, "Failed to list runs", "LIST_FAILED")
		return
	}
	dtos := make([]RunReportDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRunRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun handles GET /api/payroll/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.Log.WithError(err).Error("Failed to load run")
		writeError(w, http.StatusInternalServerError, "Failed to load run", "LOAD_FAILED")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Run not found", "NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, toRunRecordDTO(*rec))
}

func toRunRecordDTO(rec sqlite.RunRecord) RunReportDTO {
	dto := RunReportDTO{
		RunID:       rec.ID,
		PeriodStart: rec.PeriodStart.String(),
		PeriodEnd:   rec.PeriodEnd.String(),
		Status:      string(rec.Status),
		Outcomes:    make([]OutcomeDTO, len(rec.Outcomes)),
	}
	for i, o := range rec.Outcomes {
		dto.Outcomes[i] = OutcomeDTO{EmployeeID: o.EmployeeID, Status: o.Status, Error: o.Err}
	}
	return dto
}
