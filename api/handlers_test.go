/*
handlers_test.go - HTTP API tests

PURPOSE:
  Exercises the API end to end against a real SQLite store: employee and
  timesheet CRUD, holiday seeding, payroll previews and runs through the
  bundled statutory presets, and demo scenario loading.

TEST STRATEGY:
  Each test spins up an httptest server over a fresh temp-file database,
  drives it with plain JSON requests, and asserts on response codes,
  error codes, and decoded bodies.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "payroll.db"))
	require.NoError(t, err, "opening the test database should succeed")

	log := logrus.New()
	log.SetOutput(io.Discard)

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(store, log)))
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "request %s %s should not fail at transport level", method, url)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target), "response body should decode")
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body api.ErrorResponse
	decodeBody(t, resp, &body)
	return body.Code
}

func salariedEmployeeRequest(id string) map[string]any {
	return map[string]any{
		"id":              id,
		"name":            "Kiran Patel",
		"employment_type": "full_time",
		"state":           "NSW",
		"company_id":      "acme-software",
		"annual_salary":   78000.0,
		"pay_frequency":   "fortnightly",
		"super_fund_id":   "fund-aussuper",
	}
}

// =============================================================================
// HEALTH TESTS
// =============================================================================

func TestHealth(t *testing.T) {
	srv := newTestAPI(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/health", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

// =============================================================================
// EMPLOYEE TESTS
// =============================================================================

func TestCreateEmployee_RoundTrip(t *testing.T) {
	srv := newTestAPI(t)

	// WHEN a salaried employee is created
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees", salariedEmployeeRequest("emp-kiran"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.EmployeeDTO
	decodeBody(t, resp, &created)
	assert.Equal(t, "emp-kiran", created.ID)
	assert.Equal(t, "Kiran Patel", created.Name)
	require.NotNil(t, created.AnnualSalary)
	assert.InDelta(t, 78000, *created.AnnualSalary, 0.001)
	assert.Nil(t, created.HourlyRate, "a salaried employee carries no hourly rate")

	// THEN the employee is readable by id
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/employees/emp-kiran", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched api.EmployeeDTO
	decodeBody(t, resp, &fetched)
	assert.Equal(t, created, fetched)

	// AND appears in the listing
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/employees", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []api.EmployeeDTO
	decodeBody(t, resp, &listed)
	assert.Len(t, listed, 1)
}

func TestCreateEmployee_GeneratesIDWhenOmitted(t *testing.T) {
	srv := newTestAPI(t)

	req := salariedEmployeeRequest("")
	delete(req, "id")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.EmployeeDTO
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID, "the server should assign an id")
}

func TestCreateEmployee_Validation(t *testing.T) {
	srv := newTestAPI(t)

	noName := salariedEmployeeRequest("emp-1")
	noName["name"] = ""

	noPayBasis := salariedEmployeeRequest("emp-2")
	delete(noPayBasis, "annual_salary")

	bothBases := salariedEmployeeRequest("emp-3")
	bothBases["hourly_rate"] = 31.40

	cases := []struct {
		name     string
		body     map[string]any
		wantCode string
	}{
		{"missing name", noName, "MISSING_FIELD"},
		{"neither salary nor rate", noPayBasis, "MISSING_FIELD"},
		{"both salary and rate", bothBases, "INVALID_FIELD"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.wantCode, errorCode(t, resp))
		})
	}
}

func TestGetEmployee_NotFound(t *testing.T) {
	srv := newTestAPI(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/employees/emp-ghost", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestDeactivateEmployee_RemovesFromActiveListing(t *testing.T) {
	srv := newTestAPI(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees", salariedEmployeeRequest("emp-kiran"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// WHEN the employee is deactivated
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/employees/emp-kiran", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// THEN the listing no longer includes them
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/employees", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []api.EmployeeDTO
	decodeBody(t, resp, &listed)
	assert.Empty(t, listed)

	// BUT the profile stays readable for payslip history
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/employees/emp-kiran", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// =============================================================================
// TIMESHEET TESTS
// =============================================================================

func TestCreateEntry_DefaultsToApproved(t *testing.T) {
	srv := newTestAPI(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/timesheets", map[string]any{
		"employee_id":      "emp-dana",
		"start":            "2026-07-06T09:00:00Z",
		"end":              "2026-07-06T17:00:00Z",
		"base_hourly_rate": 28.50,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var entry api.TimesheetEntryDTO
	decodeBody(t, resp, &entry)
	assert.NotEmpty(t, entry.ID, "the server should assign an entry id")
	assert.Equal(t, "approved", entry.Status)
	assert.InDelta(t, 8.0, entry.Hours, 0.001)

	// AND the entry shows up in the period listing
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/employees/emp-dana/timesheets?start=2026-07-06&end=2026-07-19", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []api.TimesheetEntryDTO
	decodeBody(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, entry.ID, listed[0].ID)
}

func TestCreateEntry_Rejections(t *testing.T) {
	srv := newTestAPI(t)

	cases := []struct {
		name     string
		body     map[string]any
		wantCode string
	}{
		{
			"missing employee id",
			map[string]any{"start": "2026-07-06T09:00:00Z", "end": "2026-07-06T17:00:00Z"},
			"MISSING_FIELD",
		},
		{
			"start is not RFC3339",
			map[string]any{"employee_id": "emp-1", "start": "06/07/2026 9am", "end": "2026-07-06T17:00:00Z"},
			"INVALID_FIELD",
		},
		{
			"end before start",
			map[string]any{"employee_id": "emp-1", "start": "2026-07-06T17:00:00Z", "end": "2026-07-06T09:00:00Z"},
			"INVALID_FIELD",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/timesheets", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.wantCode, errorCode(t, resp))
		})
	}
}

// =============================================================================
// HOLIDAY TESTS
// =============================================================================

func TestAddDefaultHolidays_SeedsNationalDays(t *testing.T) {
	srv := newTestAPI(t)

	// WHEN the fixed-date national holidays are seeded for a year
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/holidays/defaults?year=2026", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var seeded map[string]any
	decodeBody(t, resp, &seeded)
	assert.InDelta(t, 5, seeded["added"], 0.001)
	assert.InDelta(t, 2026, seeded["year"], 0.001)

	// AND seeding twice does not duplicate the calendar
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/holidays/defaults?year=2026", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/holidays?from=2026-01-01&to=2026-12-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []api.HolidayDTO
	decodeBody(t, resp, &listed)
	assert.Len(t, listed, 5, "re-seeding the same year should be idempotent")
}

func TestHolidays_CreateAndDelete(t *testing.T) {
	srv := newTestAPI(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/holidays", map[string]any{
		"date":  "2026-06-08",
		"name":  "King's Birthday",
		"state": "NSW",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.HolidayDTO
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "2026-06-08", created.Date)
	assert.Equal(t, "NSW", created.State)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/holidays/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/holidays", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []api.HolidayDTO
	decodeBody(t, resp, &listed)
	assert.Empty(t, listed)
}

// =============================================================================
// STATUTORY RATE TESTS
// =============================================================================

func TestCreateStatutoryRate_AcceptsParsedRecord(t *testing.T) {
	srv := newTestAPI(t)

	// WHEN a workers comp premium is uploaded in its per-$100 quoting
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/rates", map[string]any{
		"type":           "workers_comp",
		"rate":           1.48,
		"state":          "NSW",
		"effective_from": "2026-07-01",
		"effective_to":   "2027-06-30",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "workers_comp", body["type"])
}

func TestCreateStatutoryRate_Rejections(t *testing.T) {
	srv := newTestAPI(t)

	// Unknown rate type fails the factory parse.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/rates", map[string]any{
		"type": "fringe_benefits",
		"rate": 0.2,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CONFIG", errorCode(t, resp))

	// Malformed effective window fails the same way.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/rates", map[string]any{
		"type":           "super_guarantee",
		"rate":           0.115,
		"effective_from": "01/07/2026",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CONFIG", errorCode(t, resp))
}

// =============================================================================
// PAYROLL TESTS
// =============================================================================

func TestPreviewPayroll_UsesBundledStatutoryPresets(t *testing.T) {
	srv := newTestAPI(t)

	// GIVEN a salaried employee and no reference data in the database,
	// so tax tables and rates come from the bundled presets
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees", salariedEmployeeRequest("emp-kiran"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// WHEN a fortnight in FY2027 is previewed
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/payroll/preview", map[string]any{
		"employee_id":  "emp-kiran",
		"period_start": "2026-07-06",
		"period_end":   "2026-07-19",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// THEN the payslip reflects the published scales:
	// gross 78000/26 = 3000, annual tax 4288 + 33000*0.30 = 14188 so
	// 545.69 per fortnight, Medicare levy 2% = 60, super 11.5% = 345
	var slip api.PayslipDTO
	decodeBody(t, resp, &slip)
	assert.Equal(t, "emp-kiran", slip.EmployeeID)
	assert.InDelta(t, 3000.00, slip.GrossPay, 0.001)
	assert.InDelta(t, 3000.00, slip.TaxableIncome, 0.001)
	assert.InDelta(t, 545.69, slip.TaxWithheld, 0.001)
	assert.InDelta(t, 60.00, slip.TotalDeductions, 0.001)
	assert.InDelta(t, 345.00, slip.SuperTotal, 0.001)
	assert.InDelta(t, 2394.31, slip.NetPay, 0.001)
	assert.Empty(t, slip.ValidationErrors)

	// AND nothing was persisted
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/employees/emp-kiran/payslips", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stored []api.PayslipDTO
	decodeBody(t, resp, &stored)
	assert.Empty(t, stored, "a preview must not write a payslip")
}

func TestPreviewPayroll_UnknownEmployee(t *testing.T) {
	srv := newTestAPI(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/payroll/preview", map[string]any{
		"employee_id":  "emp-ghost",
		"period_start": "2026-07-06",
		"period_end":   "2026-07-19",
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestRunPayroll_EmptyRunIsRejected(t *testing.T) {
	srv := newTestAPI(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/payroll/run", map[string]any{
		"period_start": "2026-07-06",
		"period_end":   "2026-07-19",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_RUN", errorCode(t, resp))
}

func TestRunPayroll_PersistsRunAndPayslips(t *testing.T) {
	srv := newTestAPI(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees", salariedEmployeeRequest("emp-kiran"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// WHEN a run covers all active employees
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/payroll/run", map[string]any{
		"period_start": "2026-07-06",
		"period_end":   "2026-07-19",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report api.RunReportDTO
	decodeBody(t, resp, &report)
	require.NotEmpty(t, report.RunID)
	assert.Equal(t, "completed", report.Status)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, "emp-kiran", report.Outcomes[0].EmployeeID)
	assert.Equal(t, "calculated", report.Outcomes[0].Status)
	require.NotNil(t, report.Outcomes[0].Payslip)
	assert.InDelta(t, 2394.31, report.Outcomes[0].Payslip.NetPay, 0.001)

	// THEN the run is in the history
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/payroll/runs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var runs []api.RunReportDTO
	decodeBody(t, resp, &runs)
	require.Len(t, runs, 1)
	assert.Equal(t, report.RunID, runs[0].RunID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/payroll/runs/"+report.RunID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stored api.RunReportDTO
	decodeBody(t, resp, &stored)
	assert.Equal(t, "completed", stored.Status)
	require.Len(t, stored.Outcomes, 1)
	assert.Equal(t, "calculated", stored.Outcomes[0].Status)

	// AND the payslip was persisted with its component lines
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/employees/emp-kiran/payslips/2026-07-06/2026-07-19", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var slip api.PayslipDTO
	decodeBody(t, resp, &slip)
	assert.InDelta(t, 2394.31, slip.NetPay, 0.001)
	assert.NotEmpty(t, slip.Earnings)
	assert.NotEmpty(t, slip.Super)
}

func TestGetRun_NotFound(t *testing.T) {
	srv := newTestAPI(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/payroll/runs/run-ghost", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

// =============================================================================
// SCENARIO TESTS
// =============================================================================

func TestScenarios_ListAndLoad(t *testing.T) {
	srv := newTestAPI(t)

	// GIVEN the bundled scenario catalogue
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/scenarios", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var catalogue []api.ScenarioDTO
	decodeBody(t, resp, &catalogue)
	require.NotEmpty(t, catalogue)

	// AND no scenario loaded yet
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var current map[string]string
	decodeBody(t, resp, &current)
	assert.Empty(t, current["scenario_id"])

	// WHEN a scenario is loaded
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load", map[string]any{
		"scenario_id": catalogue[0].ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loaded map[string]string
	decodeBody(t, resp, &loaded)
	assert.Equal(t, catalogue[0].ID, loaded["scenario_id"])
	assert.NotEmpty(t, loaded["period_start"])

	// THEN it becomes current and its employees exist
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &current)
	assert.Equal(t, catalogue[0].ID, current["scenario_id"])

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/employees", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var employees []api.EmployeeDTO
	decodeBody(t, resp, &employees)
	assert.NotEmpty(t, employees, "loading a scenario should seed employees")
}

func TestLoadScenario_Unknown(t *testing.T) {
	srv := newTestAPI(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load", map[string]any{
		"scenario_id": "nonexistent",
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

// =============================================================================
// AWARD TESTS
// =============================================================================

func TestCreateAward_RoundTrip(t *testing.T) {
	srv := newTestAPI(t)

	config := map[string]any{
		"id":       "award-hospo",
		"code":     "MA000009",
		"name":     "Hospitality Industry Award",
		"industry": "hospitality",
		"rules": []map[string]any{
			{
				"id":         "hospo-sat",
				"name":       "Saturday penalty",
				"kind":       "penalty_rate",
				"days":       []string{"saturday"},
				"percentage": 150,
				"priority":   10,
			},
		},
	}

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/awards", map[string]any{"config": config})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.AwardDTO
	decodeBody(t, resp, &created)
	assert.Equal(t, "award-hospo", created.ID)
	assert.Equal(t, "MA000009", created.Code)
	assert.Equal(t, 1, created.Version)
	assert.True(t, created.Active)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/awards/award-hospo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched api.AwardDTO
	decodeBody(t, resp, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	require.Len(t, fetched.Config.Rules, 1)
	assert.Equal(t, "hospo-sat", fetched.Config.Rules[0].ID)
}

func TestCreateAward_InvalidConfig(t *testing.T) {
	srv := newTestAPI(t)

	// Missing the mandatory award id.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/awards", map[string]any{
		"config": map[string]any{"name": "Nameless award"},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CONFIG", errorCode(t, resp))
}

func TestGetAward_NotFound(t *testing.T) {
	srv := newTestAPI(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/awards/award-ghost", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}
