package training

import (
	"fmt"
	"strconv"
	"strings"

	"custintel/internal/core/codebook"
	"custintel/internal/core/features"
)

// ChurnLabeler derives a churn label for a customer whose row carries no ground truth
type ChurnLabeler func(rec features.Record) bool

// ChurnAfterDays is the recency past which the heuristic calls a customer churned
const ChurnAfterDays = 90

// HeuristicChurnLabel marks a customer churned when engagement or satisfaction is low
// or the last purchase is more than ChurnAfterDays old; unknown recency counts as DefaultDaysSince
func HeuristicChurnLabel(rec features.Record) bool {
	low := codebook.Key(codebook.TierLow)
	if codebook.Key(rec[features.FieldEngagement]) == low || codebook.Key(rec[features.FieldSatisfaction]) == low {
		return true
	}
	days := float64(features.DefaultDaysSince)
	if raw := strings.TrimSpace(rec[features.FieldDaysSince]); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			days = v
		}
	}
	return days > ChurnAfterDays
}

func hasGroundTruth(rows []features.Record) bool {
	for _, r := range rows {
		if strings.TrimSpace(r[features.FieldChurned]) != "" {
			return true
		}
	}
	return false
}

func parseChurned(raw string) (bool, error) {
	switch codebook.Key(raw) {
	case "1", "true", "yes", "y", codebook.Churn:
		return true, nil
	case "0", "false", "no", "n", codebook.NoChurn:
		return false, nil
	}
	return false, fmt.Errorf("churned %q is not a boolean", raw)
}
