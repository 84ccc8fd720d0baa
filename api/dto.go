/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Employee:
    EmployeeDTO, CreateEmployeeRequest

  Timesheet:
    TimesheetEntryDTO, CreateEntryRequest

  Award:
    AwardDTO (wraps factory.AwardJSON), CreateAwardRequest

  Payroll:
    RunRequest, RunReportDTO, OutcomeDTO, PayslipDTO, PayComponentDTO,
    InterpretationDTO and its line DTOs

  Scenarios:
    ScenarioDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/ruleset.go: AwardJSON type
*/
package api

import (
	"time"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
)

// =============================================================================
// EMPLOYEE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Classification string   `json:"classification,omitempty"`
	EmploymentType string   `json:"employment_type"`
	State          string   `json:"state"`
	CompanyID      string   `json:"company_id,omitempty"`
	AnnualSalary   *float64 `json:"annual_salary,omitempty"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty"`
	PayFrequency   string   `json:"pay_frequency"`
	AwardID        string   `json:"award_id,omitempty"`
	HasHELPDebt    bool     `json:"has_help_debt"`
	HasSFSSDebt    bool     `json:"has_sfss_debt"`
	HasPrivateHealthCover bool `json:"has_private_health_cover"`
	SuperFundID    string   `json:"super_fund_id,omitempty"`
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Classification string   `json:"classification,omitempty"`
	EmploymentType string   `json:"employment_type"`
	State          string   `json:"state"`
	CompanyID      string   `json:"company_id,omitempty"`
	AnnualSalary   *float64 `json:"annual_salary,omitempty"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty"`
	PayFrequency   string   `json:"pay_frequency"`
	AwardID        string   `json:"award_id,omitempty"`
	HasHELPDebt    bool     `json:"has_help_debt"`
	HasSFSSDebt    bool     `json:"has_sfss_debt"`
	HasPrivateHealthCover bool `json:"has_private_health_cover"`
	SuperFundID    string   `json:"super_fund_id,omitempty"`
}

// =============================================================================
// TIMESHEET TYPES
// =============================================================================

// TimesheetEntryDTO represents one work interval.
type TimesheetEntryDTO struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	Start          string  `json:"start"`
	End            string  `json:"end"`
	BaseHourlyRate float64 `json:"base_hourly_rate"`
	Status         string  `json:"status"`
	Hours          float64 `json:"hours"`
}

// CreateEntryRequest is the request to record a work interval.
type CreateEntryRequest struct {
	EmployeeID     string  `json:"employee_id"`
	Start          string  `json:"start"` // RFC3339
	End            string  `json:"end"`
	BaseHourlyRate float64 `json:"base_hourly_rate,omitempty"`
	Status         string  `json:"status,omitempty"` // defaults to approved
}

// =============================================================================
// AWARD TYPES
// =============================================================================

// AwardDTO represents an award in API responses.
type AwardDTO struct {
	ID        string            `json:"id"`
	Code      string            `json:"code"`
	Name      string            `json:"name"`
	Industry  string            `json:"industry,omitempty"`
	Version   int               `json:"version"`
	Active    bool              `json:"active"`
	Config    factory.AwardJSON `json:"config"`
	CreatedAt string            `json:"created_at,omitempty"`
}

// CreateAwardRequest is the request to create an award from JSON.
type CreateAwardRequest struct {
	Config factory.AwardJSON `json:"config"`
}

// =============================================================================
// HOLIDAY TYPES
// =============================================================================

// HolidayDTO represents a public holiday.
type HolidayDTO struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
}

// CreateHolidayRequest is the request to gazette a holiday.
type CreateHolidayRequest struct {
	Date  string `json:"date"`
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
}

// =============================================================================
// PAYROLL TYPES
// =============================================================================

// RunRequest triggers a payroll run for a period.
type RunRequest struct {
	PeriodStart string   `json:"period_start"` // ISO date
	PeriodEnd   string   `json:"period_end"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // empty = all active
}

// PreviewRequest computes a single employee's pay without persisting.
type PreviewRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// RunReportDTO is the response for one payroll run.
type RunReportDTO struct {
	RunID       string       `json:"run_id,omitempty"`
	PeriodStart string       `json:"period_start"`
	PeriodEnd   string       `json:"period_end"`
	Status      string       `json:"status"`
	Outcomes    []OutcomeDTO `json:"outcomes"`
}

// OutcomeDTO is the per-employee result of a run.
type OutcomeDTO struct {
	EmployeeID string      `json:"employee_id"`
	Status     string      `json:"status"`
	Error      string      `json:"error,omitempty"`
	Payslip    *PayslipDTO `json:"payslip,omitempty"`
}

// PayComponentDTO is one earnings or deduction line.
type PayComponentDTO struct {
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Units       float64 `json:"units"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	Treatment   string  `json:"treatment"`
	Category    string  `json:"category"`
}

// PayslipDTO is the full calculation result for one employee and period.
type PayslipDTO struct {
	EmployeeID      string            `json:"employee_id"`
	PeriodStart     string            `json:"period_start"`
	PeriodEnd       string            `json:"period_end"`
	Earnings        []PayComponentDTO `json:"earnings"`
	Deductions      []PayComponentDTO `json:"deductions"`
	Super           []PayComponentDTO `json:"super"`
	EmployerCharges []PayComponentDTO `json:"employer_charges,omitempty"`
	GrossPay        float64           `json:"gross_pay"`
	TaxableIncome   float64           `json:"taxable_income"`
	TaxWithheld     float64           `json:"tax_withheld"`
	TotalDeductions float64           `json:"total_deductions"`
	SuperTotal      float64           `json:"super_total"`
	NetPay          float64           `json:"net_pay"`
	Interpretation  *InterpretationDTO `json:"interpretation,omitempty"`
	ValidationErrors []string         `json:"validation_errors,omitempty"`
	Warnings        []string          `json:"warnings,omitempty"`
}

// InterpretationDTO is the award interpretation breakdown.
type InterpretationDTO struct {
	AwardID         string            `json:"award_id,omitempty"`
	PenaltyRates    []RuleLineDTO     `json:"penalty_rates,omitempty"`
	Allowances      []RuleLineDTO     `json:"allowances,omitempty"`
	ShiftLoadings   []RuleLineDTO     `json:"shift_loadings,omitempty"`
	Overtime        []OvertimeLineDTO `json:"overtime,omitempty"`
	TotalPenalty    float64           `json:"total_penalty"`
	TotalAllowance  float64           `json:"total_allowance"`
	TotalLoading    float64           `json:"total_loading"`
	TotalOvertime   float64           `json:"total_overtime"`
	ComplianceNotes []string          `json:"compliance_notes,omitempty"`
}

// RuleLineDTO is one penalty/allowance/loading line.
type RuleLineDTO struct {
	RuleID          string  `json:"rule_id"`
	EntryID         string  `json:"entry_id,omitempty"`
	Date            string  `json:"date"`
	ApplicableHours float64 `json:"applicable_hours"`
	Amount          float64 `json:"amount"`
}

// OvertimeLineDTO is one overtime line.
type OvertimeLineDTO struct {
	RuleID      string  `json:"rule_id"`
	Basis       string  `json:"basis"`
	Date        string  `json:"date"`
	WeekKey     string  `json:"week_key,omitempty"`
	ExcessHours float64 `json:"excess_hours"`
	Amount      float64 `json:"amount"`
}

// DeductionRequest registers a standing deduction for an employee.
type DeductionRequest struct {
	Description string  `json:"description"`
	Method      string  `json:"method"` // fixed, percent_of_gross
	Timing      string  `json:"timing"` // pre_tax, post_tax
	Amount      float64 `json:"amount,omitempty"`
	Percent     float64 `json:"percent,omitempty"`
}

// AdjustmentRequest registers an ad-hoc adjustment for one period.
type AdjustmentRequest struct {
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount,omitempty"`
	Formula     string  `json:"formula,omitempty"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(p engine.EmployeeProfile) EmployeeDTO {
	dto := EmployeeDTO{
		ID:             string(p.ID),
		Name:           p.Name,
		Classification: p.Classification,
		EmploymentType: string(p.EmploymentType),
		State:          string(p.State),
		CompanyID:      string(p.CompanyID),
		PayFrequency:   string(p.PayFrequency),
		AwardID:        string(p.AwardID),
		HasHELPDebt:    p.HasHELPDebt,
		HasSFSSDebt:    p.HasSFSSDebt,
		HasPrivateHealthCover: p.HasPrivateHealthCover,
		SuperFundID:    p.SuperFundID,
	}
	if p.AnnualSalary != nil {
		v := p.AnnualSalary.Float()
		dto.AnnualSalary = &v
	}
	if p.HourlyRate != nil {
		v := p.HourlyRate.Float()
		dto.HourlyRate = &v
	}
	return dto
}

func toEntryDTO(e engine.TimesheetEntry) TimesheetEntryDTO {
	return TimesheetEntryDTO{
		ID:             e.ID,
		EmployeeID:     string(e.EmployeeID),
		Start:          e.Start.UTC().Format(time.RFC3339),
		End:            e.End.UTC().Format(time.RFC3339),
		BaseHourlyRate: e.BaseHourlyRate.Float(),
		Status:         string(e.Status),
		Hours:          e.Hours(),
	}
}

func toComponentDTOs(components []engine.PayComponent) []PayComponentDTO {
	dtos := make([]PayComponentDTO, len(components))
	for i, c := range components {
		units, _ := c.Units.Float64()
		dtos[i] = PayComponentDTO{
			Kind:        string(c.Kind),
			Description: c.Description,
			Units:       units,
			Rate:        c.Rate.Float(),
			Amount:      c.Amount.Float(),
			Treatment:   string(c.Treatment),
			Category:    string(c.Category),
		}
	}
	return dtos
}

func toPayslipDTO(result *engine.PayrollCalculationResult) *PayslipDTO {
	if result == nil {
		return nil
	}
	dto := &PayslipDTO{
		EmployeeID:       string(result.EmployeeID),
		PeriodStart:      result.PeriodStart.String(),
		PeriodEnd:        result.PeriodEnd.String(),
		Earnings:         toComponentDTOs(result.Earnings),
		Deductions:       toComponentDTOs(result.Deductions),
		Super:            toComponentDTOs(result.Super),
		EmployerCharges:  toComponentDTOs(result.EmployerCharges),
		GrossPay:         result.GrossPay.Float(),
		TaxableIncome:    result.TaxableIncome.Float(),
		TaxWithheld:      result.TaxWithheld.Float(),
		TotalDeductions:  result.TotalDeductions.Float(),
		SuperTotal:       result.SuperTotal.Float(),
		NetPay:           result.NetPay.Float(),
		Interpretation:   toInterpretationDTO(result.Interpretation),
		ValidationErrors: result.ValidationErrors,
		Warnings:         result.Warnings,
	}
	return dto
}

func toInterpretationDTO(interp *engine.AwardInterpretationResult) *InterpretationDTO {
	if interp == nil {
		return nil
	}
	dto := &InterpretationDTO{
		AwardID:         string(interp.AwardID),
		TotalPenalty:    interp.TotalPenalties.Float(),
		TotalAllowance:  interp.TotalAllowances.Float(),
		TotalLoading:    interp.TotalLoadings.Float(),
		TotalOvertime:   interp.TotalOvertime.Float(),
		ComplianceNotes: interp.ComplianceNotes,
	}
	for _, line := range interp.PenaltyRates {
		dto.PenaltyRates = append(dto.PenaltyRates, toRuleLineDTO(string(line.RuleID), line.EntryID, line.Date, line.ApplicableHours, line.Amount))
	}
	for _, line := range interp.Allowances {
		dto.Allowances = append(dto.Allowances, toRuleLineDTO(string(line.RuleID), line.EntryID, line.Date, line.ApplicableHours, line.Amount))
	}
	for _, line := range interp.ShiftLoadings {
		dto.ShiftLoadings = append(dto.ShiftLoadings, toRuleLineDTO(string(line.RuleID), line.EntryID, line.Date, line.ApplicableHours, line.Amount))
	}
	for _, line := range interp.Overtime {
		excess, _ := line.ExcessHours.Float64()
		dto.Overtime = append(dto.Overtime, OvertimeLineDTO{
			RuleID:      string(line.RuleID),
			Basis:       string(line.Basis),
			Date:        line.Date.String(),
			WeekKey:     line.WeekKey,
			ExcessHours: excess,
			Amount:      line.Amount.Float(),
		})
	}
	return dto
}

func toRuleLineDTO(ruleID, entryID string, date engine.Date, hours decimalLike, amount engine.Money) RuleLineDTO {
	h, _ := hours.Float64()
	return RuleLineDTO{
		RuleID:          ruleID,
		EntryID:         entryID,
		Date:            date.String(),
		ApplicableHours: h,
		Amount:          amount.Float(),
	}
}

// decimalLike avoids importing the decimal package here just for Float64.
type decimalLike interface {
	Float64() (float64, bool)
}

func toOutcomeDTOs(outcomes []engine.EmployeeOutcome) []OutcomeDTO {
	dtos := make([]OutcomeDTO, len(outcomes))
	for i, o := range outcomes {
		dtos[i] = OutcomeDTO{
			EmployeeID: string(o.EmployeeID),
			Status:     string(o.Status),
			Error:      o.Err,
			Payslip:    toPayslipDTO(o.Result),
		}
	}
	return dtos
}
