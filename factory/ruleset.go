/*
Package factory provides JSON to Go rule-set conversion.

PURPOSE:
  Converts JSON award definitions into engine.Award + engine.AwardRule
  values, and JSON rate tables into engine.TaxTable / engine.StatutoryRate.
  This enables rule configuration without code changes - a payroll admin
  can define award clauses in JSON, and the factory creates the proper
  typed variants.

JSON SCHEMA (award):
  {
    "id": "award-hospo",
    "code": "MA000009",
    "name": "Hospitality Industry (General) Award",
    "industry": "hospitality",
    "rules": [
      {
        "id": "sat-penalty",
        "name": "Saturday penalty",
        "kind": "penalty_rate",
        "percentage": 150,
        "days": ["Saturday"],
        "priority": 10
      },
      {
        "id": "night-loading",
        "name": "Night loading",
        "kind": "shift_loading",
        "method": "percentage",
        "percentage": 15,
        "time_from": "22:00",
        "time_to": "06:00"
      }
    ]
  }

KEY FEATURES:
  - The kind string exists ONLY at this boundary; it is converted into
    the closed engine.RuleSpec variant set, so unknown kinds fail here
    with a clear error instead of silently matching nothing.
  - Clock windows parse from "HH:MM" strings.
  - Effective windows parse from "2006-01-02" dates; absent dates mean
    unbounded.

SEE ALSO:
  - engine/award.go: The variant types produced here
  - awards/presets.go: Go-based preset configurations
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// AwardJSON is the JSON representation of an award and its rules.
type AwardJSON struct {
	ID       string     `json:"id"`
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Industry string     `json:"industry"`
	Version  int        `json:"version,omitempty"`
	From     string     `json:"effective_from,omitempty"`
	To       string     `json:"effective_to,omitempty"`
	Rules    []RuleJSON `json:"rules"`
}

// RuleJSON is the JSON representation of one award rule.
type RuleJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"` // penalty_rate, allowance, shift_loading, overtime
	Priority int    `json:"priority,omitempty"`

	// Conditions
	Classification    string   `json:"classification,omitempty"`
	EmploymentType    string   `json:"employment_type,omitempty"`
	Days              []string `json:"days,omitempty"`
	TimeFrom          string   `json:"time_from,omitempty"`
	TimeTo            string   `json:"time_to,omitempty"`
	PublicHolidayOnly bool     `json:"public_holiday_only,omitempty"`
	EffectiveFrom     string   `json:"effective_from,omitempty"`
	EffectiveTo       string   `json:"effective_to,omitempty"`

	// Kind-specific fields
	Percentage float64 `json:"percentage,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
	HourlyRate float64 `json:"hourly_rate,omitempty"`
	Method     string  `json:"method,omitempty"` // allowance/loading/overtime method
	Basis      string  `json:"basis,omitempty"`  // overtime: daily, weekly
}

// TaxTableJSON is the JSON representation of a bracket scale.
type TaxTableJSON struct {
	FinancialYear int             `json:"financial_year"`
	Residency     string          `json:"residency"`
	Brackets      []TaxBracketJSON `json:"brackets"`
}

type TaxBracketJSON struct {
	From    float64  `json:"from"`
	To      *float64 `json:"to,omitempty"`
	BaseTax float64  `json:"base_tax"`
	Rate    float64  `json:"rate"` // 0-1 fraction
}

// =============================================================================
// RULE SET FACTORY
// =============================================================================

// RuleSetFactory converts JSON configurations into engine values.
type RuleSetFactory struct{}

func NewRuleSetFactory() *RuleSetFactory {
	return &RuleSetFactory{}
}

// ParseAward parses a JSON string into an Award with its rules.
func (f *RuleSetFactory) ParseAward(jsonStr string) (engine.Award, []engine.AwardRule, error) {
	var aj AwardJSON
	if err := json.Unmarshal([]byte(jsonStr), &aj); err != nil {
		return engine.Award{}, nil, fmt.Errorf("failed to parse award JSON: %w", err)
	}
	return f.FromJSON(aj)
}

// FromJSON converts the parsed schema into engine values.
func (f *RuleSetFactory) FromJSON(aj AwardJSON) (engine.Award, []engine.AwardRule, error) {
	if aj.ID == "" {
		return engine.Award{}, nil, fmt.Errorf("award id is required")
	}
	version := aj.Version
	if version == 0 {
		version = 1
	}
	window, err := parseWindow(aj.From, aj.To)
	if err != nil {
		return engine.Award{}, nil, fmt.Errorf("award %s: %w", aj.ID, err)
	}

	award := engine.Award{
		ID:        engine.AwardID(aj.ID),
		Code:      aj.Code,
		Name:      aj.Name,
		Industry:  aj.Industry,
		Version:   version,
		Effective: window,
		Active:    true,
	}

	rules := make([]engine.AwardRule, 0, len(aj.Rules))
	for _, rj := range aj.Rules {
		rule, err := f.ruleFromJSON(award.ID, rj)
		if err != nil {
			return engine.Award{}, nil, fmt.Errorf("award %s rule %s: %w", aj.ID, rj.ID, err)
		}
		rules = append(rules, rule)
	}
	return award, rules, nil
}

func (f *RuleSetFactory) ruleFromJSON(awardID engine.AwardID, rj RuleJSON) (engine.AwardRule, error) {
	cond, err := conditionsFromJSON(rj)
	if err != nil {
		return engine.AwardRule{}, err
	}
	spec, err := specFromJSON(rj)
	if err != nil {
		return engine.AwardRule{}, err
	}
	return engine.AwardRule{
		ID:         engine.RuleID(rj.ID),
		AwardID:    awardID,
		Name:       rj.Name,
		Conditions: cond,
		Priority:   rj.Priority,
		Spec:       spec,
	}, nil
}

func conditionsFromJSON(rj RuleJSON) (engine.RuleConditions, error) {
	cond := engine.RuleConditions{
		Classification:    rj.Classification,
		EmploymentType:    engine.EmploymentType(rj.EmploymentType),
		PublicHolidayOnly: rj.PublicHolidayOnly,
	}

	for _, name := range rj.Days {
		day, err := parseWeekday(name)
		if err != nil {
			return engine.RuleConditions{}, err
		}
		cond.Days = append(cond.Days, day)
	}

	if rj.TimeFrom != "" || rj.TimeTo != "" {
		if rj.TimeFrom == "" || rj.TimeTo == "" {
			return engine.RuleConditions{}, fmt.Errorf("time window needs both time_from and time_to")
		}
		from, err := parseClock(rj.TimeFrom)
		if err != nil {
			return engine.RuleConditions{}, err
		}
		to, err := parseClock(rj.TimeTo)
		if err != nil {
			return engine.RuleConditions{}, err
		}
		cond.TimeFrom, cond.TimeTo = &from, &to
	}

	window, err := parseWindow(rj.EffectiveFrom, rj.EffectiveTo)
	if err != nil {
		return engine.RuleConditions{}, err
	}
	if !window.Valid() {
		return engine.RuleConditions{}, fmt.Errorf("effective window start after end")
	}
	cond.Effective = window
	return cond, nil
}

func specFromJSON(rj RuleJSON) (engine.RuleSpec, error) {
	switch rj.Kind {
	case "penalty_rate":
		return engine.PenaltyRateSpec{Percentage: engine.NewPercentage(rj.Percentage)}, nil

	case "allowance":
		method := engine.AllowanceMethod(rj.Method)
		switch method {
		case engine.AllowanceFixed, engine.AllowanceHourly, engine.AllowanceDaily:
		case "":
			method = engine.AllowanceFixed
		default:
			return nil, fmt.Errorf("unknown allowance method %q", rj.Method)
		}
		return engine.AllowanceSpec{Method: method, Amount: engine.NewMoney(rj.Amount)}, nil

	case "shift_loading":
		method := engine.ShiftLoadingMethod(rj.Method)
		switch method {
		case engine.LoadingPercentage, engine.LoadingFixed:
		case "":
			method = engine.LoadingPercentage
		default:
			return nil, fmt.Errorf("unknown shift loading method %q", rj.Method)
		}
		return engine.ShiftLoadingSpec{
			Method:     method,
			Percentage: engine.NewPercentage(rj.Percentage),
			HourlyRate: engine.NewMoney(rj.HourlyRate),
		}, nil

	case "overtime":
		basis := engine.OvertimeBasis(rj.Basis)
		if basis != engine.OvertimeDaily && basis != engine.OvertimeWeekly {
			return nil, fmt.Errorf("unknown overtime basis %q", rj.Basis)
		}
		method := engine.OvertimeMethod(rj.Method)
		switch method {
		case engine.OvertimeMultiplier, engine.OvertimeFixedRate:
		case "":
			method = engine.OvertimeMultiplier
		default:
			return nil, fmt.Errorf("unknown overtime method %q", rj.Method)
		}
		return engine.OvertimeSpec{
			Basis:      basis,
			Method:     method,
			Percentage: engine.NewPercentage(rj.Percentage),
			HourlyRate: engine.NewMoney(rj.HourlyRate),
		}, nil

	default:
		return nil, fmt.Errorf("unknown rule kind %q", rj.Kind)
	}
}

// ParseTaxTable parses a JSON bracket scale.
func (f *RuleSetFactory) ParseTaxTable(jsonStr string) (engine.TaxTable, error) {
	var tj TaxTableJSON
	if err := json.Unmarshal([]byte(jsonStr), &tj); err != nil {
		return engine.TaxTable{}, fmt.Errorf("failed to parse tax table JSON: %w", err)
	}

	table := engine.TaxTable{
		FinancialYear: engine.FinancialYear(tj.FinancialYear),
		Residency:     engine.Residency(tj.Residency),
	}
	for _, bj := range tj.Brackets {
		bracket := engine.TaxBracket{
			From:    engine.NewMoney(bj.From),
			BaseTax: engine.NewMoney(bj.BaseTax),
			Rate:    engine.NewFraction(bj.Rate),
		}
		if bj.To != nil {
			to := engine.NewMoney(*bj.To)
			bracket.To = &to
		}
		table.Brackets = append(table.Brackets, bracket)
	}
	if err := table.Validate(); err != nil {
		return engine.TaxTable{}, err
	}
	return table, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseClock(s string) (engine.ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("bad clock time %q (want HH:MM)", s)
	}
	return engine.NewClockTime(t.Hour(), t.Minute()), nil
}

func parseWindow(from, to string) (engine.EffectiveWindow, error) {
	var window engine.EffectiveWindow
	if from != "" {
		d, err := parseDate(from)
		if err != nil {
			return window, err
		}
		window.From = &d
	}
	if to != "" {
		d, err := parseDate(to)
		if err != nil {
			return window, err
		}
		window.To = &d
	}
	return window, nil
}

func parseDate(s string) (engine.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return engine.Date{}, fmt.Errorf("bad date %q (want YYYY-MM-DD)", s)
	}
	return engine.DateOf(t), nil
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(name) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
}
