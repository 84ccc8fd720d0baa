package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// STATUTORY RATE AND REPAYMENT SCALE JSON
// =============================================================================

// StatutoryRateJSON is the JSON representation of one statutory rate record.
// Rate is a 0-1 fraction except for workers compensation, which follows the
// per-$100-of-wages quoting convention and is converted on parse.
type StatutoryRateJSON struct {
	Type           string   `json:"type"`
	Rate           float64  `json:"rate"`
	State          string   `json:"state,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	EmploymentType string   `json:"employment_type,omitempty"`
	Threshold      *float64 `json:"threshold,omitempty"`
	MaxBase        *float64 `json:"max_base,omitempty"`
	EffectiveFrom  string   `json:"effective_from,omitempty"`
	EffectiveTo    string   `json:"effective_to,omitempty"`
}

// RepaymentScaleJSON is the JSON representation of a study-loan scale.
type RepaymentScaleJSON struct {
	FinancialYear int                 `json:"financial_year"`
	Loan          string              `json:"loan"` // help, sfss
	Bands         []RepaymentBandJSON `json:"bands"`
}

type RepaymentBandJSON struct {
	From float64  `json:"from"`
	To   *float64 `json:"to,omitempty"`
	Rate float64  `json:"rate"` // 0-1 fraction
}

// ParseStatutoryRate converts one rate record.
func (f *RuleSetFactory) ParseStatutoryRate(rj StatutoryRateJSON) (engine.StatutoryRate, error) {
	window, err := parseWindow(rj.EffectiveFrom, rj.EffectiveTo)
	if err != nil {
		return engine.StatutoryRate{}, err
	}

	if engine.RateType(rj.Type) == engine.RateWorkersComp {
		rate := engine.NewWorkersCompRate(rj.Rate, engine.State(rj.State), window)
		return rate, nil
	}

	rate := engine.StatutoryRate{
		Type:           engine.RateType(rj.Type),
		Rate:           engine.NewFraction(rj.Rate),
		State:          engine.State(rj.State),
		Industry:       rj.Industry,
		EmploymentType: engine.EmploymentType(rj.EmploymentType),
		Effective:      window,
	}
	switch rate.Type {
	case engine.RateSuperGuarantee, engine.RatePayrollTax, engine.RateMedicareLevy, engine.RateMedicareSurcharge:
	default:
		return engine.StatutoryRate{}, fmt.Errorf("unknown statutory rate type %q", rj.Type)
	}
	if rj.Threshold != nil {
		t := engine.NewMoney(*rj.Threshold)
		rate.Threshold = &t
	}
	if rj.MaxBase != nil {
		m := engine.NewMoney(*rj.MaxBase)
		rate.MaxBase = &m
	}
	return rate, nil
}

// ParseRepaymentScale parses a JSON study-loan band scale.
func (f *RuleSetFactory) ParseRepaymentScale(jsonStr string) (engine.RepaymentScale, engine.LoanType, error) {
	var sj RepaymentScaleJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return engine.RepaymentScale{}, "", fmt.Errorf("failed to parse repayment scale JSON: %w", err)
	}
	loan := engine.LoanType(sj.Loan)
	if loan != engine.LoanHELP && loan != engine.LoanSFSS {
		return engine.RepaymentScale{}, "", fmt.Errorf("unknown loan type %q", sj.Loan)
	}

	scale := engine.RepaymentScale{FinancialYear: engine.FinancialYear(sj.FinancialYear)}
	for _, bj := range sj.Bands {
		b := engine.RepaymentBand{From: engine.NewMoney(bj.From), Rate: engine.NewFraction(bj.Rate)}
		if bj.To != nil {
			to := engine.NewMoney(*bj.To)
			b.To = &to
		}
		scale.Bands = append(scale.Bands, b)
	}
	return scale, loan, nil
}
