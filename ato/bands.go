package ato

import "github.com/warp/payroll-engine/engine"

// =============================================================================
// HELP COMPULSORY REPAYMENT BANDS
// =============================================================================

// HELPScale returns the study-loan repayment bands for a financial year.
// The scale is BANDED: the annualized income selects exactly one rate which
// applies to the whole period amount (see engine.StudyLoanRepayment).
func HELPScale(fy engine.FinancialYear) engine.RepaymentScale {
	if fy == FY2024 {
		return helpScale2024()
	}
	return helpScale2025(fy)
}

func band(from float64, to float64, rate float64) engine.RepaymentBand {
	return engine.RepaymentBand{From: money(from), To: moneyPtr(to), Rate: fraction(rate)}
}

func topBand(from float64, rate float64) engine.RepaymentBand {
	return engine.RepaymentBand{From: money(from), Rate: fraction(rate)}
}

func helpScale2024() engine.RepaymentScale {
	return engine.RepaymentScale{
		FinancialYear: FY2024,
		Bands: []engine.RepaymentBand{
			band(51550, 59519, 0.010),
			band(59519, 63090, 0.020),
			band(63090, 66876, 0.025),
			band(66876, 70889, 0.030),
			band(70889, 75141, 0.035),
			band(75141, 79650, 0.040),
			band(79650, 84430, 0.045),
			band(84430, 89495, 0.050),
			band(89495, 94866, 0.055),
			band(94866, 100558, 0.060),
			band(100558, 106591, 0.065),
			band(106591, 112986, 0.070),
			band(112986, 119765, 0.075),
			band(119765, 126951, 0.080),
			band(126951, 134569, 0.085),
			band(134569, 142643, 0.090),
			band(142643, 151201, 0.095),
			topBand(151201, 0.100),
		},
	}
}

func helpScale2025(fy engine.FinancialYear) engine.RepaymentScale {
	return engine.RepaymentScale{
		FinancialYear: fy,
		Bands: []engine.RepaymentBand{
			band(54435, 62851, 0.010),
			band(62851, 66621, 0.020),
			band(66621, 70619, 0.025),
			band(70619, 74856, 0.030),
			band(74856, 79347, 0.035),
			band(79347, 84108, 0.040),
			band(84108, 89155, 0.045),
			band(89155, 94504, 0.050),
			band(94504, 100175, 0.055),
			band(100175, 106186, 0.060),
			band(106186, 112557, 0.065),
			band(112557, 119310, 0.070),
			band(119310, 126468, 0.075),
			band(126468, 134057, 0.080),
			band(134057, 142101, 0.085),
			band(142101, 150627, 0.090),
			band(150627, 159664, 0.095),
			topBand(159664, 0.100),
		},
	}
}

// =============================================================================
// SFSS REPAYMENT BANDS
// =============================================================================

// SFSSScale returns the financial supplement repayment bands. SFSS retains
// its historical three-band shape above the common repayment threshold.
func SFSSScale(fy engine.FinancialYear) engine.RepaymentScale {
	threshold := 54435.0
	if fy == FY2024 {
		threshold = 51550.0
	}
	return engine.RepaymentScale{
		FinancialYear: fy,
		Bands: []engine.RepaymentBand{
			band(threshold, 107214, 0.020),
			band(107214, 152445, 0.030),
			topBand(152445, 0.040),
		},
	}
}
