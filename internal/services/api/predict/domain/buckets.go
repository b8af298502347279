package domain

import (
	"fmt"

	"custintel/internal/core/codebook"
)

// Defaults applied to optional lead fields
const (
	DefaultChannel = "WhatsApp Bot"
	DefaultBatch   = 500
)

// Risk levels
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// BudgetBracket maps a budget in pesos to its bracket; no budget is the lowest bracket
func BudgetBracket(budget *float64) string {
	if budget == nil {
		return codebook.BudgetUnder5M
	}
	switch b := *budget; {
	case b < 5_000_000:
		return codebook.BudgetUnder5M
	case b < 10_000_000:
		return codebook.Budget5To10M
	case b < 20_000_000:
		return codebook.Budget10To20M
	case b < 50_000_000:
		return codebook.Budget20To50M
	default:
		return codebook.BudgetOver50M
	}
}

// UrgencyTier maps the 1..5 form scale to a tier; no urgency is low
func UrgencyTier(urgency *int) (string, error) {
	if urgency == nil {
		return codebook.TierLow, nil
	}
	switch u := *urgency; {
	case u < 1 || u > 5:
		return "", fmt.Errorf("urgency %d outside 1..5", u)
	case u == 1:
		return codebook.TierLow, nil
	case u == 2:
		return codebook.TierMedium, nil
	case u <= 4:
		return codebook.TierHigh, nil
	default:
		return codebook.TierImmediate, nil
	}
}

// RiskLevel tiers a churn probability
func RiskLevel(p float64) string {
	switch {
	case p < 0.3:
		return RiskLow
	case p < 0.6:
		return RiskMedium
	default:
		return RiskHigh
	}
}
