/*
scenarios.go - Demo scenario definitions and loading

PURPOSE:
  Provides pre-configured demo scenarios so the engine can be exercised
  without hand-entering awards, employees, and timesheets. Loading a
  scenario RESETS the database first, then seeds a coherent data set
  anchored on a fixed fortnight so repeated runs produce identical
  payslips.

SCENARIOS:
  1. hospitality-weekend: Casual hospitality crew with weekend penalty
     rates, night loading, and a public holiday in the period
  2. salaried-help: Salaried engineer with a HELP debt, salary
     sacrifice, and a post-tax deduction
  3. mixed-company: A venue with waged and salaried staff under one
     employer, large enough to cross the payroll tax threshold

SEE ALSO:
  - handlers.go: Handler struct and helpers
  - awards/presets.go: The award shapes these configs mirror
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/store/sqlite"
)

// demoPeriod is the fortnight every scenario anchors on.
var demoPeriod = engine.PayPeriod{
	Start: engine.NewDate(2026, time.July, 6),
	End:   engine.NewDate(2026, time.July, 19),
}

var scenarios = []ScenarioDTO{
	{
		ID:          "hospitality-weekend",
		Name:        "Hospitality Weekend Crew",
		Description: "Casual bar staff on an hourly rate working Friday nights and weekends, with penalty rates, night loading, and a public holiday shift.",
	},
	{
		ID:          "salaried-help",
		Name:        "Salaried Engineer with HELP Debt",
		Description: "A full-time salaried employee with a study loan, salary-sacrificed super, and a social club deduction.",
	},
	{
		ID:          "mixed-company",
		Name:        "Mixed Venue Payroll",
		Description: "Waged and salaried staff under one employer whose wage bill crosses the payroll tax threshold.",
	},
}

// ListScenarios handles GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario handles GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": current})
}

// LoadScenario handles POST /api/scenarios/load
// Loading wipes all stored data before seeding.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_BODY")
		return
	}

	var loader func(context.Context) error
	switch req.ScenarioID {
	case "hospitality-weekend":
		loader = h.loadHospitalityWeekend
	case "salaried-help":
		loader = h.loadSalariedHELP
	case "mixed-company":
		loader = h.loadMixedCompany
	default:
		writeError(w, http.StatusNotFound, "Unknown scenario: "+req.ScenarioID, "NOT_FOUND")
		return
	}

	if err := h.Store.Reset(r.Context()); err != nil {
		h.Log.WithError(err).Error("Failed to reset store")
		writeError(w, http.StatusInternalServerError, "Failed to reset data", "RESET_FAILED")
		return
	}
	if err := loader(r.Context()); err != nil {
		h.Log.WithError(err).WithField("scenario", req.ScenarioID).Error("Failed to load scenario")
		writeError(w, http.StatusInternalServerError, "Failed to load scenario: "+err.Error(), "LOAD_FAILED")
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	h.Log.WithField("scenario", req.ScenarioID).Info("Scenario loaded")
	writeJSON(w, http.StatusOK, map[string]string{
		"scenario_id":  req.ScenarioID,
		"period_start": demoPeriod.Start.String(),
		"period_end":   demoPeriod.End.String(),
	})
}

// =============================================================================
// SEEDING HELPERS
// =============================================================================

func (h *Handler) seedAward(ctx context.Context, config factory.AwardJSON) error {
	raw, err := json.Marshal(config)
	if err != nil {
		return err
	}
	_, err = h.Store.SaveAward(ctx, string(raw))
	return err
}

func (h *Handler) seedShift(ctx context.Context, employeeID string, day engine.Date, fromHour, fromMin, toHour, toMin int, rate float64) error {
	start := time.Date(day.Year, day.Month, day.Day, fromHour, fromMin, 0, 0, time.UTC)
	end := time.Date(day.Year, day.Month, day.Day, toHour, toMin, 0, 0, time.UTC)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1) // overnight shift
	}
	return h.Store.SaveEntry(ctx, engine.TimesheetEntry{
		ID:             uuid.New().String(),
		EmployeeID:     engine.EmployeeID(employeeID),
		Start:          start,
		End:            end,
		BaseHourlyRate: engine.NewMoney(rate),
		Status:         engine.EntryApproved,
	})
}

func hospitalityConfig() factory.AwardJSON {
	return factory.AwardJSON{
		ID:       "award-hospo",
		Code:     "MA000009",
		Name:     "Hospitality Industry (General) Award",
		Industry: "hospitality",
		Rules: []factory.RuleJSON{
			{ID: "hospo-sat", Name: "Saturday penalty", Kind: "penalty_rate", Days: []string{"saturday"}, Percentage: 150, Priority: 10},
			{ID: "hospo-sun", Name: "Sunday penalty", Kind: "penalty_rate", Days: []string{"sunday"}, Percentage: 175, Priority: 10},
			{ID: "hospo-pubhol", Name: "Public holiday penalty", Kind: "penalty_rate", PublicHolidayOnly: true, Percentage: 225, Priority: 20},
			{ID: "hospo-night", Name: "Night loading", Kind: "shift_loading", Method: "fixed", Amount: 2.5, TimeFrom: "22:00", TimeTo: "06:00", Priority: 5},
			{ID: "hospo-meal", Name: "Meal allowance", Kind: "allowance", Method: "fixed", Amount: 15.50, Priority: 1},
			{ID: "hospo-ot-daily", Name: "Daily overtime", Kind: "overtime", Basis: "daily", Percentage: 150, Priority: 1},
			{ID: "hospo-ot-weekly", Name: "Weekly overtime", Kind: "overtime", Basis: "weekly", Percentage: 200, Priority: 1},
		},
	}
}

// =============================================================================
// SCENARIO 1: HOSPITALITY WEEKEND
// =============================================================================

func (h *Handler) loadHospitalityWeekend(ctx context.Context) error {
	if err := h.seedAward(ctx, hospitalityConfig()); err != nil {
		return err
	}

	// A gazetted holiday that lands inside the demo fortnight.
	if err := h.Store.SaveHoliday(ctx, sqlite.Holiday{
		ID:   uuid.New().String(),
		Date: engine.NewDate(2026, time.July, 13),
		Name: "Venue Centenary Holiday",
	}); err != nil {
		return err
	}

	crew := []engine.EmployeeProfile{
		{
			ID:             "emp-dana",
			Name:           "Dana Marsh",
			Classification: "bar attendant",
			EmploymentType: engine.Casual,
			State:          engine.NSW,
			CompanyID:      "venue-corner",
			HourlyRate:     moneyPtr(31.40),
			PayFrequency:   engine.Fortnightly,
			AwardID:        "award-hospo",
			SuperFundID:    "fund-hostplus",
		},
		{
			ID:             "emp-rhys",
			Name:           "Rhys Okafor",
			Classification: "cook",
			EmploymentType: engine.PartTime,
			State:          engine.NSW,
			CompanyID:      "venue-corner",
			HourlyRate:     moneyPtr(34.10),
			PayFrequency:   engine.Fortnightly,
			AwardID:        "award-hospo",
			SuperFundID:    "fund-hostplus",
		},
	}
	for _, p := range crew {
		if err := h.Store.SaveEmployee(ctx, p); err != nil {
			return err
		}
	}

	// Dana: Friday nights into Saturday morning, plus weekend days and the
	// holiday shift.
	shifts := []struct {
		employee   string
		day        engine.Date
		fh, fm     int
		th, tm     int
		rate       float64
	}{
		{"emp-dana", engine.NewDate(2026, time.July, 10), 18, 0, 2, 0, 31.40}, // Fri evening, crosses midnight
		{"emp-dana", engine.NewDate(2026, time.July, 11), 17, 0, 23, 0, 31.40}, // Saturday
		{"emp-dana", engine.NewDate(2026, time.July, 12), 10, 0, 16, 0, 31.40}, // Sunday
		{"emp-dana", engine.NewDate(2026, time.July, 13), 10, 0, 18, 30, 31.40}, // public holiday
		{"emp-rhys", engine.NewDate(2026, time.July, 7), 9, 0, 17, 0, 34.10},
		{"emp-rhys", engine.NewDate(2026, time.July, 8), 9, 0, 19, 30, 34.10}, // over 8h, daily overtime
		{"emp-rhys", engine.NewDate(2026, time.July, 11), 8, 0, 16, 0, 34.10}, // Saturday
	}
	for _, s := range shifts {
		if err := h.seedShift(ctx, s.employee, s.day, s.fh, s.fm, s.th, s.tm, s.rate); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCENARIO 2: SALARIED WITH HELP DEBT
// =============================================================================

func (h *Handler) loadSalariedHELP(ctx context.Context) error {
	profile := engine.EmployeeProfile{
		ID:             "emp-kiran",
		Name:           "Kiran Vale",
		Classification: "software engineer",
		EmploymentType: engine.FullTime,
		State:          engine.VIC,
		CompanyID:      "acme-software",
		AnnualSalary:   moneyPtr(118000),
		PayFrequency:   engine.Fortnightly,
		HasHELPDebt:    true,
		SuperFundID:    "fund-aussuper",
	}
	if err := h.Store.SaveEmployee(ctx, profile); err != nil {
		return err
	}

	deductions := []engine.Deduction{
		{
			Description: "Salary sacrifice super",
			Method:      engine.DeductionFixed,
			Timing:      engine.PreTax,
			Amount:      engine.NewMoney(250),
		},
		{
			Description: "Social club",
			Method:      engine.DeductionFixed,
			Timing:      engine.PostTax,
			Amount:      engine.NewMoney(10),
		},
	}
	for _, d := range deductions {
		if err := h.Store.SaveDeduction(ctx, profile.ID, d); err != nil {
			return err
		}
	}

	// A one-off bonus in the demo fortnight.
	return h.Store.SaveAdjustment(ctx, profile.ID, demoPeriod, engine.SalaryAdjustment{
		Description: "Quarterly bonus",
		Amount:      engine.NewMoney(1500),
	})
}

// =============================================================================
// SCENARIO 3: MIXED COMPANY
// =============================================================================

func (h *Handler) loadMixedCompany(ctx context.Context) error {
	if err := h.seedAward(ctx, hospitalityConfig()); err != nil {
		return err
	}

	staff := []engine.EmployeeProfile{
		{
			ID:             "emp-mira",
			Name:           "Mira Chen",
			Classification: "venue manager",
			EmploymentType: engine.FullTime,
			State:          engine.QLD,
			CompanyID:      "venue-harbour",
			AnnualSalary:   moneyPtr(96000),
			PayFrequency:   engine.Fortnightly,
			SuperFundID:    "fund-rest",
		},
		{
			ID:             "emp-theo",
			Name:           "Theo Brandt",
			Classification: "bar attendant",
			EmploymentType: engine.Casual,
			State:          engine.QLD,
			CompanyID:      "venue-harbour",
			HourlyRate:     moneyPtr(29.80),
			PayFrequency:   engine.Fortnightly,
			AwardID:        "award-hospo",
			SuperFundID:    "fund-rest",
		},
		{
			ID:             "emp-ana",
			Name:           "Ana Petric",
			Classification: "chef",
			EmploymentType: engine.FullTime,
			State:          engine.QLD,
			CompanyID:      "venue-harbour",
			AnnualSalary:   moneyPtr(88000),
			PayFrequency:   engine.Fortnightly,
			HasSFSSDebt:    true,
			SuperFundID:    "fund-rest",
		},
	}
	for _, p := range staff {
		if err := h.Store.SaveEmployee(ctx, p); err != nil {
			return err
		}
	}

	for _, day := range []int{6, 7, 9, 11, 12, 16, 18} {
		d := engine.NewDate(2026, time.July, day)
		if err := h.seedShift(ctx, "emp-theo", d, 16, 0, 23, 30, 29.80); err != nil {
			return err
		}
	}
	return nil
}

func moneyPtr(v float64) *engine.Money {
	m := engine.NewMoney(v)
	return &m
}
