/*
Package ato provides published Australian statutory reference data.

PURPOSE:
  Pre-built tax scales, study-loan repayment bands, superannuation
  guarantee parameters, and levy thresholds for recent financial years,
  expressed as engine types. These are convenience presets the way HR
  systems ship standard configurations; production deployments load the
  same shapes from configuration (see factory/).

AVAILABLE DATA:
  ResidentTaxTable:   Progressive PAYG scales (FY2023-24, FY2024-25)
  HELPScale:          Study-loan compulsory repayment bands
  SFSSScale:          Financial supplement repayment bands
  StatutoryRates:     Super guarantee, Medicare levy/surcharge, payroll
                      tax and workers comp per state
  StaticSources:      engine source interfaces over this static data,
                      handy for tests and demos

CONVENTIONS:
  Bracket base-tax values are pre-computed so withholding is continuous
  at bracket boundaries. All rates here are 0-1 fractions; the per-$100
  workers comp quoting is folded in by engine.NewWorkersCompRate.

SEE ALSO:
  - engine/tax.go: The withholding calculation these tables feed
  - engine/statutory.go: Levy and guarantee calculations
*/
package ato

import (
	"time"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// RESIDENT PAYG SCALES
// =============================================================================

// FY2024 is 1 July 2023 - 30 June 2024; FY2025 is 1 July 2024 - 30 June 2025.
const (
	FY2024 = engine.FinancialYear(2024)
	FY2025 = engine.FinancialYear(2025)
)

func money(v float64) engine.Money          { return engine.NewMoney(v) }
func moneyPtr(v float64) *engine.Money      { m := engine.NewMoney(v); return &m }
func fraction(v float64) engine.Fraction    { return engine.NewFraction(v) }

// ResidentTaxTable returns the resident bracket scale for a financial year.
// Unknown years fall back to the most recent published scale.
func ResidentTaxTable(fy engine.FinancialYear) engine.TaxTable {
	switch fy {
	case FY2024:
		return residentScale2024()
	default:
		return residentScale2025(fy)
	}
}

func residentScale2024() engine.TaxTable {
	return engine.TaxTable{
		FinancialYear: FY2024,
		Residency:     engine.Resident,
		Brackets: []engine.TaxBracket{
			{From: money(0), To: moneyPtr(18200), BaseTax: money(0), Rate: fraction(0)},
			{From: money(18200), To: moneyPtr(45000), BaseTax: money(0), Rate: fraction(0.19)},
			{From: money(45000), To: moneyPtr(120000), BaseTax: money(5092), Rate: fraction(0.325)},
			{From: money(120000), To: moneyPtr(180000), BaseTax: money(29467), Rate: fraction(0.37)},
			{From: money(180000), To: nil, BaseTax: money(51667), Rate: fraction(0.45)},
		},
	}
}

func residentScale2025(fy engine.FinancialYear) engine.TaxTable {
	return engine.TaxTable{
		FinancialYear: fy,
		Residency:     engine.Resident,
		Brackets: []engine.TaxBracket{
			{From: money(0), To: moneyPtr(18200), BaseTax: money(0), Rate: fraction(0)},
			{From: money(18200), To: moneyPtr(45000), BaseTax: money(0), Rate: fraction(0.16)},
			{From: money(45000), To: moneyPtr(135000), BaseTax: money(4288), Rate: fraction(0.30)},
			{From: money(135000), To: moneyPtr(190000), BaseTax: money(31288), Rate: fraction(0.37)},
			{From: money(190000), To: nil, BaseTax: money(51638), Rate: fraction(0.45)},
		},
	}
}

// NonResidentTaxTable returns the non-resident scale: no tax-free threshold.
func NonResidentTaxTable(fy engine.FinancialYear) engine.TaxTable {
	if fy == FY2024 {
		return engine.TaxTable{
			FinancialYear: fy,
			Residency:     engine.NonResident,
			Brackets: []engine.TaxBracket{
				{From: money(0), To: moneyPtr(120000), BaseTax: money(0), Rate: fraction(0.325)},
				{From: money(120000), To: moneyPtr(180000), BaseTax: money(39000), Rate: fraction(0.37)},
				{From: money(180000), To: nil, BaseTax: money(61200), Rate: fraction(0.45)},
			},
		}
	}
	return engine.TaxTable{
		FinancialYear: fy,
		Residency:     engine.NonResident,
		Brackets: []engine.TaxBracket{
			{From: money(0), To: moneyPtr(135000), BaseTax: money(0), Rate: fraction(0.30)},
			{From: money(135000), To: moneyPtr(190000), BaseTax: money(40500), Rate: fraction(0.37)},
			{From: money(190000), To: nil, BaseTax: money(60850), Rate: fraction(0.45)},
		},
	}
}

// =============================================================================
// FINANCIAL YEAR WINDOWS
// =============================================================================

// yearWindow is the effective window covering one financial year.
func yearWindow(fy engine.FinancialYear) engine.EffectiveWindow {
	return engine.WindowBetween(
		engine.NewDate(int(fy)-1, time.July, 1),
		engine.NewDate(int(fy), time.June, 30),
	)
}
