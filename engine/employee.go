package engine

// =============================================================================
// EMPLOYEE PROFILE - Attributes the calculation reads
// =============================================================================

// EmployeeProfile carries the employee attributes the gross-to-net
// calculation depends on. Loaded from the employee collaborator; the engine
// never writes it back.
type EmployeeProfile struct {
	ID             EmployeeID
	Name           string
	Classification string
	EmploymentType EmploymentType
	State          State
	CompanyID      CompanyID

	// Exactly one of AnnualSalary / HourlyRate drives the base component:
	// salaried employees use AnnualSalary / periods-per-year, waged
	// employees use HourlyRate x timesheet hours.
	AnnualSalary *Money
	HourlyRate   *Money

	PayFrequency PayFrequency
	AwardID      AwardID // empty for award-free employees

	// Debt and cover flags drive HELP/SFSS repayment and the Medicare
	// levy surcharge.
	HasHELPDebt          bool
	HasSFSSDebt          bool
	HasPrivateHealthCover bool

	// SuperFundID links the guarantee contribution to a fund. A missing
	// fund is a compliance error when a contribution must be recorded.
	SuperFundID string
}

// Salaried reports whether the base component derives from an annual salary.
func (p EmployeeProfile) Salaried() bool { return p.AnnualSalary != nil }

// =============================================================================
// ADJUSTMENTS AND DEDUCTIONS - Per-period payroll inputs
// =============================================================================

// SalaryAdjustment is an ad-hoc earnings input for one period: a one-off
// amount or a formula over the whitelisted payroll variables (see expr.go).
type SalaryAdjustment struct {
	Description string
	Amount      Money
	Formula     string // when set, evaluated instead of Amount
}

// DeductionMethod selects how a deduction amount is derived.
type DeductionMethod string

const (
	DeductionFixed          DeductionMethod = "fixed"
	DeductionPercentOfGross DeductionMethod = "percent_of_gross"
)

// DeductionTiming splits deductions around the tax calculation: pre-tax
// deductions reduce taxable income, post-tax deductions reduce net pay only.
type DeductionTiming string

const (
	PreTax  DeductionTiming = "pre_tax"
	PostTax DeductionTiming = "post_tax"
)

type Deduction struct {
	Description string
	Method      DeductionMethod
	Timing      DeductionTiming
	Amount      Money      // for DeductionFixed
	Percent     Percentage // for DeductionPercentOfGross
}

// PayrollInput bundles the per-period inputs for one employee's calculation.
type PayrollInput struct {
	Employee    EmployeeProfile
	Period      PayPeriod
	Entries     []TimesheetEntry
	Adjustments []SalaryAdjustment
	Deductions  []Deduction

	// TrailingMonthlyWages is the employer's wage total for the payroll tax
	// threshold gate. Supplied by the caller from the wage history.
	TrailingMonthlyWages Money
}
