/*
calc.go - The gross-to-net payroll orchestrator

PURPOSE:
  Composes the award interpreter, tax withholding, and statutory
  calculators into a single per-employee result for one pay period.

PIPELINE (strictly ordered):
  1. Base salary component: annual salary / periods-per-year, or
     timesheet hours x hourly rate
  2. Ad-hoc salary adjustments (fixed amounts or restricted formulas)
  3. Award interpretation lines (penalties, allowances, loadings, overtime)
  4. Sum to gross pay
  5. Pre-tax deductions (fixed or percent-of-gross); gross minus pre-tax
     deductions = taxable income
  6. Tax withholding on taxable income
  7. Super guarantee on ordinary time earnings (gross minus overtime)
  8. Study-loan repayments and Medicare levy/surcharge as post-tax
     withholdings
  9. Post-tax deductions
  10. Net pay = taxable income - tax withheld - total deductions

BASE PAY POLICY:
  Penalty percentages are TOTAL multipliers (150 = time-and-a-half), and
  rules apply additively: by default the base component still covers
  penalty-rate hours, so those hours pay base + full penalty. That
  overstates pay unless the consuming layer suppresses base pay for
  penalty hours. The treatment is an explicit policy choice here:
    BasePayAdditive      keep the upstream behavior (default)
    BasePayOffsetPenalty subtract base-rate value of penalty hours
  Both are covered by tests; see calc_test.go.

FAILURE SEMANTICS:
  A missing required entity (award, tax table, super fund) fails fast and
  aborts only this employee. Issues found after the result is assembled
  (negative net, super below minimum) are appended to ValidationErrors /
  Warnings. A panic in any stage is recovered at the orchestrator
  boundary, recorded as a validation error, and the partial result is
  still returned.

SEE ALSO:
  - interpretation.go: Earnings lines
  - statutory.go: Super and levies
  - batch.go: Runs this per employee with isolation
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAY COMPONENTS AND RESULT
// =============================================================================

type ComponentKind string

const (
	ComponentEarning        ComponentKind = "earning"
	ComponentDeduction      ComponentKind = "deduction"
	ComponentSuper          ComponentKind = "super"
	ComponentEmployerCharge ComponentKind = "employer_charge"
)

type TaxTreatment string

const (
	Taxable   TaxTreatment = "taxable"
	TaxExempt TaxTreatment = "tax_exempt"
)

// PayComponent is one earnings or deduction line attached to a payslip.
// Amounts are always non-negative; direction is carried by Kind.
type PayComponent struct {
	Kind        ComponentKind
	Description string
	Units       decimal.Decimal
	Rate        Money
	Amount      Money
	Treatment   TaxTreatment
	Category    ReportingCategory
}

// ReportingCategory maps the component onto the payment summary reporting
// buckets.
type ReportingCategory string

const (
	CategoryGross         ReportingCategory = "gross"
	CategoryPenalty       ReportingCategory = "penalty_rate"
	CategoryAllowance     ReportingCategory = "allowance"
	CategoryShiftLoading  ReportingCategory = "shift_loading"
	CategoryOvertime      ReportingCategory = "overtime"
	CategoryAdjustment    ReportingCategory = "adjustment"
	CategoryDeduction     ReportingCategory = "deduction"
	CategoryStudyLoan     ReportingCategory = "study_loan"
	CategoryMedicare      ReportingCategory = "medicare"
	CategorySuper         ReportingCategory = "super_guarantee"
	CategoryPayrollTax    ReportingCategory = "payroll_tax"
	CategoryWorkersComp   ReportingCategory = "workers_comp"
)

// PayrollCalculationResult is the orchestrator's output: created fresh per
// employee per run, never updated in place after return. The caller
// persists it. This is the one canonical payslip schema.
type PayrollCalculationResult struct {
	EmployeeID  EmployeeID
	PeriodStart Date
	PeriodEnd   Date

	Earnings        []PayComponent
	Deductions      []PayComponent
	Super           []PayComponent
	EmployerCharges []PayComponent

	GrossPay        Money
	TaxableIncome   Money
	TaxWithheld     Money
	TotalDeductions Money
	SuperTotal      Money
	NetPay          Money

	Interpretation *AwardInterpretationResult

	ValidationErrors []string
	Warnings         []string
}

func (r *PayrollCalculationResult) addError(format string, args ...any) {
	r.ValidationErrors = append(r.ValidationErrors, fmt.Sprintf(format, args...))
}

func (r *PayrollCalculationResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors reports whether persistence of this payslip must be blocked.
func (r *PayrollCalculationResult) HasErrors() bool { return len(r.ValidationErrors) > 0 }

// =============================================================================
// CALCULATOR
// =============================================================================

// BasePayPolicy selects how the base component interacts with
// penalty-rate hours. See the package comment above.
type BasePayPolicy string

const (
	BasePayAdditive      BasePayPolicy = "additive"
	BasePayOffsetPenalty BasePayPolicy = "offset_penalty_hours"
)

// Calculator computes gross-to-net results against one immutable rule set
// snapshot. Safe for concurrent use: it holds no mutable state.
type Calculator struct {
	Rules  RuleSet
	Policy BasePayPolicy
}

func NewCalculator(rules RuleSet) *Calculator {
	return &Calculator{Rules: rules, Policy: BasePayAdditive}
}

// Calculate produces the pay result for one employee and period.
//
// Data and compliance failures that prevent assembly (unknown award,
// missing tax table) return an error and abort this employee only.
// Anything discovered after assembly lands on the result.
func (c *Calculator) Calculate(input PayrollInput) (result *PayrollCalculationResult, err error) {
	if !input.Period.Valid() {
		return nil, &CalculationError{Kind: KindValidation, EmployeeID: input.Employee.ID, Stage: "period", Err: ErrInvalidPeriod}
	}

	result = &PayrollCalculationResult{
		EmployeeID:      input.Employee.ID,
		PeriodStart:     input.Period.Start,
		PeriodEnd:       input.Period.End,
		GrossPay:        ZeroMoney(),
		TaxableIncome:   ZeroMoney(),
		TaxWithheld:     ZeroMoney(),
		TotalDeductions: ZeroMoney(),
		SuperTotal:      ZeroMoney(),
		NetPay:          ZeroMoney(),
	}

	// Panic isolation: a panic in any stage becomes a validation error on
	// the (possibly partial) result rather than aborting the batch.
	defer func() {
		if rec := recover(); rec != nil {
			result.addError("calculation panic: %v", rec)
			err = nil
		}
	}()

	interp, err := InterpretAward(c.Rules, input.Employee, input.Period, input.Entries)
	if err != nil {
		return nil, &CalculationError{Kind: KindData, EmployeeID: input.Employee.ID, Stage: "award_interpretation", Err: err}
	}
	result.Interpretation = interp

	base := c.baseComponent(input)
	result.Earnings = append(result.Earnings, base)
	gross := base.Amount

	gross = c.applyAdjustments(input, result, base, gross)
	gross = c.applyInterpretation(result, interp, gross)

	if c.Policy == BasePayOffsetPenalty {
		gross = c.offsetPenaltyHours(input, result, interp, gross)
	}
	result.GrossPay = gross.Round()

	// Pre-tax deductions reduce taxable income.
	preTax := c.applyDeductions(input, result, PreTax, result.GrossPay)
	result.TaxableIncome = result.GrossPay.Sub(preTax).Round()

	if err := c.withholdTax(input, result); err != nil {
		return nil, err
	}
	if err := c.applySuper(input, result, interp); err != nil {
		return nil, err
	}
	c.applyStatutoryWithholdings(input, result)
	c.applyEmployerCharges(input, result)

	// Post-tax deductions reduce net pay directly; pre-tax deductions are
	// already reflected in taxable income, so TotalDeductions carries only
	// the post-tax side of the ledger.
	postTax := c.applyDeductions(input, result, PostTax, result.GrossPay)
	result.TotalDeductions = result.TotalDeductions.Add(postTax).Round()

	result.NetPay = result.TaxableIncome.Sub(result.TaxWithheld).Sub(result.TotalDeductions).Round()

	c.validate(result)
	return result, nil
}

// =============================================================================
// PIPELINE STAGES
// =============================================================================

func (c *Calculator) baseComponent(input PayrollInput) PayComponent {
	e := input.Employee
	periods := decimal.NewFromInt(int64(e.PayFrequency.PeriodsPerYear()))

	if e.Salaried() {
		amount := e.AnnualSalary.Div(periods).Round()
		return PayComponent{
			Kind:        ComponentEarning,
			Description: "Base salary",
			Units:       decimal.NewFromInt(1),
			Rate:        amount,
			Amount:      amount,
			Treatment:   Taxable,
			Category:    CategoryGross,
		}
	}

	hours := decimal.Zero
	rate := ZeroMoney()
	if e.HourlyRate != nil {
		rate = *e.HourlyRate
	}
	for _, entry := range input.Entries {
		if !entry.Valid() {
			continue
		}
		hours = hours.Add(decimal.NewFromFloat(entry.Hours()))
		if rate.IsZero() && !entry.BaseHourlyRate.IsZero() {
			rate = entry.BaseHourlyRate
		}
	}
	return PayComponent{
		Kind:        ComponentEarning,
		Description: "Base pay",
		Units:       hours,
		Rate:        rate,
		Amount:      rate.Mul(hours).Round(),
		Treatment:   Taxable,
		Category:    CategoryGross,
	}
}

func (c *Calculator) applyAdjustments(input PayrollInput, result *PayrollCalculationResult, base PayComponent, gross Money) Money {
	for _, adj := range input.Adjustments {
		amount := adj.Amount
		if adj.Formula != "" {
			value, err := EvaluateFormula(adj.Formula, c.formulaVars(input, base))
			if err != nil {
				result.addError("adjustment %q: %v", adj.Description, err)
				continue
			}
			amount = Money{Value: value}
		}
		if amount.IsZero() {
			continue
		}
		kind := ComponentEarning
		display := amount
		if amount.IsNegative() {
			// Negative adjustments are carried as deductions so component
			// amounts stay non-negative.
			kind = ComponentDeduction
			display = amount.Neg()
		}
		component := PayComponent{
			Kind:        kind,
			Description: adj.Description,
			Units:       decimal.NewFromInt(1),
			Rate:        display.Round(),
			Amount:      display.Round(),
			Treatment:   Taxable,
			Category:    CategoryAdjustment,
		}
		if kind == ComponentEarning {
			result.Earnings = append(result.Earnings, component)
		} else {
			result.Deductions = append(result.Deductions, component)
		}
		gross = gross.Add(amount)
	}
	return gross
}

func (c *Calculator) formulaVars(input PayrollInput, base PayComponent) FormulaVars {
	vars := FormulaVars{
		"hours_worked":     base.Units,
		"base_rate":        base.Rate.Value,
		"gross_pay":        base.Amount.Value,
		"periods_per_year": decimal.NewFromInt(int64(input.Employee.PayFrequency.PeriodsPerYear())),
	}
	if input.Employee.AnnualSalary != nil {
		vars["annual_salary"] = input.Employee.AnnualSalary.Value
	}
	return vars
}

func (c *Calculator) applyInterpretation(result *PayrollCalculationResult, interp *AwardInterpretationResult, gross Money) Money {
	for _, line := range interp.PenaltyRates {
		result.Earnings = append(result.Earnings, PayComponent{
			Kind:        ComponentEarning,
			Description: "Penalty rate " + string(line.RuleID),
			Units:       line.ApplicableHours,
			Rate:        line.Amount.Div(nonZero(line.ApplicableHours)).Round(),
			Amount:      line.Amount,
			Treatment:   Taxable,
			Category:    CategoryPenalty,
		})
		gross = gross.Add(line.Amount)
	}
	for _, line := range interp.Allowances {
		result.Earnings = append(result.Earnings, PayComponent{
			Kind:        ComponentEarning,
			Description: "Allowance " + string(line.RuleID),
			Units:       line.ApplicableHours,
			Rate:        line.Amount,
			Amount:      line.Amount,
			Treatment:   Taxable,
			Category:    CategoryAllowance,
		})
		gross = gross.Add(line.Amount)
	}
	for _, line := range interp.ShiftLoadings {
		result.Earnings = append(result.Earnings, PayComponent{
			Kind:        ComponentEarning,
			Description: "Shift loading " + string(line.RuleID),
			Units:       line.ApplicableHours,
			Rate:        line.Amount.Div(nonZero(line.ApplicableHours)).Round(),
			Amount:      line.Amount,
			Treatment:   Taxable,
			Category:    CategoryShiftLoading,
		})
		gross = gross.Add(line.Amount)
	}
	for _, line := range interp.Overtime {
		result.Earnings = append(result.Earnings, PayComponent{
			Kind:        ComponentEarning,
			Description: string(line.Basis) + " overtime",
			Units:       line.ExcessHours,
			Rate:        line.Amount.Div(nonZero(line.ExcessHours)).Round(),
			Amount:      line.Amount,
			Treatment:   Taxable,
			Category:    CategoryOvertime,
		})
		gross = gross.Add(line.Amount)
	}
	return gross
}

// offsetPenaltyHours subtracts the base-rate value of penalty-rate hours so
// those hours are paid at the penalty rate alone rather than base + penalty.
func (c *Calculator) offsetPenaltyHours(input PayrollInput, result *PayrollCalculationResult, interp *AwardInterpretationResult, gross Money) Money {
	offset := ZeroMoney()
	for _, line := range interp.PenaltyRates {
		rate := baseRateForEntry(input, line.EntryID)
		offset = offset.Add(rate.Mul(line.ApplicableHours))
	}
	if !offset.IsPositive() {
		return gross
	}
	offset = offset.Round()
	result.Deductions = append(result.Deductions, PayComponent{
		Kind:        ComponentDeduction,
		Description: "Base pay offset for penalty-rate hours",
		Units:       decimal.NewFromInt(1),
		Rate:        offset,
		Amount:      offset,
		Treatment:   Taxable,
		Category:    CategoryAdjustment,
	})
	return gross.Sub(offset)
}

func baseRateForEntry(input PayrollInput, entryID string) Money {
	for _, e := range input.Entries {
		if e.ID == entryID {
			if !e.BaseHourlyRate.IsZero() {
				return e.BaseHourlyRate
			}
			break
		}
	}
	if input.Employee.HourlyRate != nil {
		return *input.Employee.HourlyRate
	}
	return ZeroMoney()
}

func (c *Calculator) applyDeductions(input PayrollInput, result *PayrollCalculationResult, timing DeductionTiming, gross Money) Money {
	total := ZeroMoney()
	for _, d := range input.Deductions {
		if d.Timing != timing {
			continue
		}
		var amount Money
		switch d.Method {
		case DeductionFixed:
			amount = d.Amount
		case DeductionPercentOfGross:
			amount = gross.MulFraction(d.Percent.Fraction())
		default:
			result.addError("deduction %q: unknown method %q", d.Description, d.Method)
			continue
		}
		if amount.IsNegative() {
			result.addError("deduction %q: negative amount %s", d.Description, amount)
			continue
		}
		amount = amount.Round()
		treatment := Taxable
		if timing == PreTax {
			treatment = TaxExempt
		}
		result.Deductions = append(result.Deductions, PayComponent{
			Kind:        ComponentDeduction,
			Description: d.Description,
			Units:       decimal.NewFromInt(1),
			Rate:        amount,
			Amount:      amount,
			Treatment:   treatment,
			Category:    CategoryDeduction,
		})
		total = total.Add(amount)
	}
	return total
}

func (c *Calculator) withholdTax(input PayrollInput, result *PayrollCalculationResult) error {
	table, err := c.Rules.TaxTableFor(Resident)
	if err != nil {
		return &CalculationError{Kind: KindData, EmployeeID: input.Employee.ID, Stage: "tax_table", Err: err}
	}
	tax, err := Withhold(result.TaxableIncome, input.Employee.PayFrequency, table)
	if err != nil {
		return &CalculationError{Kind: KindCalculation, EmployeeID: input.Employee.ID, Stage: "withholding", Err: err}
	}
	result.TaxWithheld = tax
	return nil
}

func (c *Calculator) applySuper(input PayrollInput, result *PayrollCalculationResult, interp *AwardInterpretationResult) error {
	rate, err := c.Rules.RateFor(RateSuperGuarantee, input.Period.End, input.Employee.State)
	if err != nil {
		return &CalculationError{Kind: KindCompliance, EmployeeID: input.Employee.ID, Stage: "super_guarantee", Err: err}
	}
	if input.Employee.SuperFundID == "" {
		return &CalculationError{Kind: KindCompliance, EmployeeID: input.Employee.ID, Stage: "super_guarantee", Err: ErrSuperFundMissing}
	}

	// Ordinary time earnings exclude overtime.
	ote := result.GrossPay.Sub(interp.TotalOvertime)
	if ote.IsNegative() {
		ote = ZeroMoney()
	}
	contribution := SuperGuarantee(ote, rate, input.Employee.PayFrequency)

	result.Super = append(result.Super, PayComponent{
		Kind:        ComponentSuper,
		Description: "Superannuation guarantee",
		Units:       decimal.NewFromInt(1),
		Rate:        contribution,
		Amount:      contribution,
		Treatment:   TaxExempt,
		Category:    CategorySuper,
	})
	result.SuperTotal = result.SuperTotal.Add(contribution)

	// Contribution below the guarantee rate of gross pay is a soft warning:
	// expected under the contribution cap or heavy overtime, but worth review.
	minimum := result.GrossPay.MulFraction(rate.Rate)
	if contribution.LessThan(minimum.Round()) {
		result.addWarning("super contribution %s below guarantee minimum %s of gross pay", contribution, minimum.Round())
	}
	return nil
}

func (c *Calculator) applyStatutoryWithholdings(input PayrollInput, result *PayrollCalculationResult) {
	e := input.Employee
	freq := e.PayFrequency

	if e.HasHELPDebt {
		if amount, ok := StudyLoanRepayment(result.TaxableIncome, freq, c.Rules.HELPScale); ok {
			c.addPostTaxWithholding(result, "HELP repayment", CategoryStudyLoan, amount)
		}
	}
	if e.HasSFSSDebt {
		if amount, ok := StudyLoanRepayment(result.TaxableIncome, freq, c.Rules.SFSSScale); ok {
			c.addPostTaxWithholding(result, "SFSS repayment", CategoryStudyLoan, amount)
		}
	}

	if rate, err := c.Rules.RateFor(RateMedicareLevy, input.Period.End, e.State); err == nil {
		if amount, ok := MedicareLevy(result.TaxableIncome, freq, rate); ok {
			c.addPostTaxWithholding(result, "Medicare levy", CategoryMedicare, amount)
		}
	}
	if rate, err := c.Rules.RateFor(RateMedicareSurcharge, input.Period.End, e.State); err == nil {
		if amount, ok := MedicareSurcharge(result.TaxableIncome, freq, e.HasPrivateHealthCover, rate); ok {
			c.addPostTaxWithholding(result, "Medicare levy surcharge", CategoryMedicare, amount)
		}
	}
}

func (c *Calculator) addPostTaxWithholding(result *PayrollCalculationResult, description string, category ReportingCategory, amount Money) {
	result.Deductions = append(result.Deductions, PayComponent{
		Kind:        ComponentDeduction,
		Description: description,
		Units:       decimal.NewFromInt(1),
		Rate:        amount,
		Amount:      amount,
		Treatment:   TaxExempt,
		Category:    category,
	})
	result.TotalDeductions = result.TotalDeductions.Add(amount)
}

// applyEmployerCharges records employer-side statutory costs. They ride on
// the result for reporting but never reduce the employee's net pay.
func (c *Calculator) applyEmployerCharges(input PayrollInput, result *PayrollCalculationResult) {
	if rate, err := c.Rules.RateFor(RatePayrollTax, input.Period.End, input.Employee.State); err == nil {
		if amount, ok := PayrollTax(result.TaxableIncome, input.TrailingMonthlyWages, rate); ok {
			result.EmployerCharges = append(result.EmployerCharges, PayComponent{
				Kind:        ComponentEmployerCharge,
				Description: "Payroll tax",
				Units:       decimal.NewFromInt(1),
				Rate:        amount,
				Amount:      amount,
				Treatment:   TaxExempt,
				Category:    CategoryPayrollTax,
			})
		}
	}
	if rate, err := c.Rules.RateFor(RateWorkersComp, input.Period.End, input.Employee.State); err == nil {
		amount := WorkersComp(result.GrossPay, rate)
		if amount.IsPositive() {
			result.EmployerCharges = append(result.EmployerCharges, PayComponent{
				Kind:        ComponentEmployerCharge,
				Description: "Workers compensation premium",
				Units:       decimal.NewFromInt(1),
				Rate:        amount,
				Amount:      amount,
				Treatment:   TaxExempt,
				Category:    CategoryWorkersComp,
			})
		}
	}
}

// =============================================================================
// CROSS-FIELD VALIDATION
// =============================================================================

func (c *Calculator) validate(result *PayrollCalculationResult) {
	if result.GrossPay.IsNegative() {
		result.addError("gross pay is negative: %s", result.GrossPay)
	}
	if result.TaxWithheld.IsNegative() {
		result.addError("tax withheld is negative: %s", result.TaxWithheld)
	}
	if result.NetPay.IsNegative() {
		result.addError("net pay is negative: %s", result.NetPay)
	}
}

func nonZero(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.NewFromInt(1)
	}
	return d
}
