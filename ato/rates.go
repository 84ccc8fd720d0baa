package ato

import (
	"sort"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// SUPERANNUATION GUARANTEE
// =============================================================================

// SuperGuaranteeRate returns the guarantee rate record for a financial year,
// including the quarterly maximum contribution base the period cap is
// apportioned from.
func SuperGuaranteeRate(fy engine.FinancialYear) engine.StatutoryRate {
	rate, quarterlyBase := 0.115, 65070.0
	if fy == FY2024 {
		rate, quarterlyBase = 0.11, 62270.0
	}
	return engine.StatutoryRate{
		Type:      engine.RateSuperGuarantee,
		Rate:      fraction(rate),
		Effective: yearWindow(fy),
		MaxBase:   moneyPtr(quarterlyBase),
	}
}

// =============================================================================
// MEDICARE LEVY AND SURCHARGE
// =============================================================================

// MedicareLevyRate returns the 2% levy gated by the single low-income
// threshold. No shading zone is modeled.
func MedicareLevyRate(fy engine.FinancialYear) engine.StatutoryRate {
	threshold := 26000.0
	if fy == FY2024 {
		threshold = 24276.0
	}
	return engine.StatutoryRate{
		Type:      engine.RateMedicareLevy,
		Rate:      fraction(0.02),
		Effective: yearWindow(fy),
		Threshold: moneyPtr(threshold),
	}
}

// MedicareSurchargeRate returns the base-tier 1% surcharge for employees
// without qualifying private hospital cover.
func MedicareSurchargeRate(fy engine.FinancialYear) engine.StatutoryRate {
	threshold := 97000.0
	if fy == FY2024 {
		threshold = 93000.0
	}
	return engine.StatutoryRate{
		Type:      engine.RateMedicareSurcharge,
		Rate:      fraction(0.01),
		Effective: yearWindow(fy),
		Threshold: moneyPtr(threshold),
	}
}

// =============================================================================
// PAYROLL TAX - Per-state rates and monthly wage thresholds
// =============================================================================

type payrollTaxParams struct {
	rate             float64
	monthlyThreshold float64
}

// Payroll tax is state legislation; rates and thresholds differ per state.
var payrollTaxByState = map[engine.State]payrollTaxParams{
	engine.NSW: {0.0545, 100000},
	engine.VIC: {0.0485, 75000},
	engine.QLD: {0.0475, 108333},
	engine.SA:  {0.0495, 125000},
	engine.WA:  {0.0550, 83333},
	engine.TAS: {0.0400, 104166},
	engine.NT:  {0.0550, 125000},
	engine.ACT: {0.0685, 166666},
}

// PayrollTaxRates returns the per-state payroll tax records for a year,
// in state order so the bundle is deterministic.
func PayrollTaxRates(fy engine.FinancialYear) []engine.StatutoryRate {
	rates := make([]engine.StatutoryRate, 0, len(payrollTaxByState))
	for _, state := range sortedStates(payrollTaxByState) {
		p := payrollTaxByState[state]
		rates = append(rates, engine.StatutoryRate{
			Type:      engine.RatePayrollTax,
			Rate:      fraction(p.rate),
			Effective: yearWindow(fy),
			State:     state,
			Threshold: moneyPtr(p.monthlyThreshold),
		})
	}
	return rates
}

// =============================================================================
// WORKERS COMPENSATION - Default scheme premiums per $100 of wages
// =============================================================================

var workersCompPerHundred = map[engine.State]float64{
	engine.NSW: 1.48,
	engine.VIC: 1.27,
	engine.QLD: 1.23,
	engine.SA:  1.85,
	engine.WA:  1.68,
	engine.TAS: 1.96,
	engine.NT:  1.90,
	engine.ACT: 1.77,
}

// WorkersCompRates returns the default per-state premium records, in
// state order so the bundle is deterministic.
func WorkersCompRates(fy engine.FinancialYear) []engine.StatutoryRate {
	rates := make([]engine.StatutoryRate, 0, len(workersCompPerHundred))
	for _, state := range sortedStates(workersCompPerHundred) {
		rates = append(rates, engine.NewWorkersCompRate(workersCompPerHundred[state], state, yearWindow(fy)))
	}
	return rates
}

func sortedStates[V any](m map[engine.State]V) []engine.State {
	states := make([]engine.State, 0, len(m))
	for s := range m {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}

// StatutoryRates bundles every rate record for one financial year.
func StatutoryRates(fy engine.FinancialYear) []engine.StatutoryRate {
	rates := []engine.StatutoryRate{
		SuperGuaranteeRate(fy),
		MedicareLevyRate(fy),
		MedicareSurchargeRate(fy),
	}
	rates = append(rates, PayrollTaxRates(fy)...)
	rates = append(rates, WorkersCompRates(fy)...)
	return rates
}
