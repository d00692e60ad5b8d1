/*
Package factory provides JSON to Go payroll-rule conversion.

PURPOSE:
  The pay-day rule, vacation bonus rate, 13º proration cutoff and the
  projection horizon are simplified approximations of payroll regulation,
  not statute. They are therefore deployment configuration: an agronomist
  or accountant adjusts a JSON file, and the factory turns it into a
  payroll.Rules value with validation and defaults - no code change.

JSON SCHEMA:
  {
    "payday_business_day": 5,
    "vacation_bonus_rate": "0.30",
    "thirteenth_cutoff_day": 15,
    "horizon_months": 12
  }

  Every field is optional; omitted fields take the defaults above. The
  bonus rate is a decimal string to avoid float drift in config files.

USAGE:
  rules, err := factory.ParseRules(jsonStr)
  p := payroll.NewProjector(rules)

SEE ALSO:
  - payroll/rules.go: the Rules type and defaults
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/lavoura/farm-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RulesJSON is the JSON representation of the payroll rule set. Pointer
// fields distinguish "omitted" from "zero".
type RulesJSON struct {
	PaydayBusinessDay   *int   `json:"payday_business_day,omitempty"`
	VacationBonusRate   string `json:"vacation_bonus_rate,omitempty"`
	ThirteenthCutoffDay *int   `json:"thirteenth_cutoff_day,omitempty"`
	HorizonMonths       *int   `json:"horizon_months,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseRules parses a JSON rule document, applying defaults for omitted
// fields and rejecting values the projector cannot work with.
func ParseRules(jsonStr string) (payroll.Rules, error) {
	var rj RulesJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return payroll.Rules{}, fmt.Errorf("failed to parse rules JSON: %w", err)
	}
	return FromJSON(rj)
}

// FromJSON converts RulesJSON into payroll.Rules.
func FromJSON(rj RulesJSON) (payroll.Rules, error) {
	rules := payroll.DefaultRules()

	if rj.PaydayBusinessDay != nil {
		if *rj.PaydayBusinessDay < 1 || *rj.PaydayBusinessDay > 23 {
			return payroll.Rules{}, fmt.Errorf("payday_business_day must be between 1 and 23, got %d", *rj.PaydayBusinessDay)
		}
		rules.PaydayBusinessDay = *rj.PaydayBusinessDay
	}

	if rj.VacationBonusRate != "" {
		rate, err := decimal.NewFromString(rj.VacationBonusRate)
		if err != nil {
			return payroll.Rules{}, fmt.Errorf("invalid vacation_bonus_rate %q: %w", rj.VacationBonusRate, err)
		}
		if rate.IsNegative() {
			return payroll.Rules{}, fmt.Errorf("vacation_bonus_rate must not be negative, got %s", rate)
		}
		rules.VacationBonusRate = rate
	}

	if rj.ThirteenthCutoffDay != nil {
		if *rj.ThirteenthCutoffDay < 1 || *rj.ThirteenthCutoffDay > 31 {
			return payroll.Rules{}, fmt.Errorf("thirteenth_cutoff_day must be a day of month, got %d", *rj.ThirteenthCutoffDay)
		}
		rules.ThirteenthCutoffDay = *rj.ThirteenthCutoffDay
	}

	if rj.HorizonMonths != nil {
		if *rj.HorizonMonths < 1 {
			return payroll.Rules{}, fmt.Errorf("horizon_months must be positive, got %d", *rj.HorizonMonths)
		}
		rules.HorizonMonths = *rj.HorizonMonths
	}

	return rules, nil
}

// LoadRulesFile reads a rules JSON file. A missing path yields the
// defaults rather than an error: most deployments never customize.
func LoadRulesFile(path string) (payroll.Rules, error) {
	if path == "" {
		return payroll.DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return payroll.DefaultRules(), nil
		}
		return payroll.Rules{}, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	return ParseRules(string(data))
}
