package ato

import (
	"context"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// STATIC SOURCES - engine source interfaces over the published presets
// =============================================================================

// StaticSources serves the preset tables through the engine's source
// interfaces. Useful for tests, demos, and as the fallback when a
// deployment has not loaded its own reference data.
type StaticSources struct{}

var _ engine.TaxTableSource = StaticSources{}
var _ engine.StatutoryRateSource = StaticSources{}
var _ engine.RepaymentScaleSource = StaticSources{}

func (StaticSources) TaxTable(_ context.Context, fy engine.FinancialYear, residency engine.Residency) (engine.TaxTable, error) {
	switch residency {
	case engine.Resident:
		return ResidentTaxTable(fy), nil
	case engine.NonResident:
		return NonResidentTaxTable(fy), nil
	default:
		return engine.TaxTable{}, engine.ErrTaxTableNotFound
	}
}

func (StaticSources) RatesAsOf(_ context.Context, asOf engine.Date) ([]engine.StatutoryRate, error) {
	return StatutoryRates(engine.FinancialYearOf(asOf)), nil
}

func (StaticSources) RepaymentScale(_ context.Context, fy engine.FinancialYear, loan engine.LoanType) (engine.RepaymentScale, error) {
	if loan == engine.LoanSFSS {
		return SFSSScale(fy), nil
	}
	return HELPScale(fy), nil
}
