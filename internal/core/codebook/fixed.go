package codebook

import "fmt"

// Entry pairs a fixed label with its numeric value
type Entry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Fixed is a hardcoded ordinal vocabulary. Unknown or empty labels fall back to Default
type Fixed struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
	Default string  `json:"default"`
}

// Value returns the numeric value for label and whether the label was known
func (f Fixed) Value(label string) (float64, bool) {
	k := Key(label)
	if k != "" {
		for _, e := range f.Entries {
			if Key(e.Label) == k {
				return e.Value, true
			}
		}
	}
	return f.defaultValue(), false
}

// Has reports whether label belongs to the vocabulary
func (f Fixed) Has(label string) bool {
	_, ok := f.Value(label)
	return ok
}

// Labels returns the vocabulary in declared order
func (f Fixed) Labels() []string {
	out := make([]string, len(f.Entries))
	for i, e := range f.Entries {
		out[i] = e.Label
	}
	return out
}

// Validate checks the default label is part of the vocabulary
func (f Fixed) Validate() error {
	if len(f.Entries) == 0 {
		return fmt.Errorf("codebook: fixed vocabulary %q is empty", f.Name)
	}
	for _, e := range f.Entries {
		if Key(e.Label) == Key(f.Default) {
			return nil
		}
	}
	return fmt.Errorf("codebook: fixed vocabulary %q default %q not in entries", f.Name, f.Default)
}

func (f Fixed) defaultValue() float64 {
	k := Key(f.Default)
	for _, e := range f.Entries {
		if Key(e.Label) == k {
			return e.Value
		}
	}
	if len(f.Entries) > 0 {
		return f.Entries[0].Value
	}
	return 0
}

// Budget bracket labels
const (
	BudgetUnder5M = "<5M"
	Budget5To10M  = "5M-10M"
	Budget10To20M = "10M-20M"
	Budget20To50M = "20M-50M"
	BudgetOver50M = ">=50M"
)

// Tier labels shared by urgency, engagement and satisfaction
const (
	TierLow       = "low"
	TierMedium    = "medium"
	TierHigh      = "high"
	TierImmediate = "immediate"
)

const (
	vocabBudget    = "budget"
	vocabUrgency   = "urgency"
	vocabEngage    = "engagement"
	vocabSatisfied = "satisfaction"
)

// Budget maps a budget bracket to its midpoint in millions
func Budget() Fixed {
	return Fixed{
		Name: vocabBudget,
		Entries: []Entry{
			{BudgetUnder5M, 2.5},
			{Budget5To10M, 7.5},
			{Budget10To20M, 15},
			{Budget20To50M, 35},
			{BudgetOver50M, 75},
		},
		Default: BudgetUnder5M,
	}
}

// Urgency maps an urgency tier to its ordinal
func Urgency() Fixed {
	return Fixed{
		Name: vocabUrgency,
		Entries: []Entry{
			{TierLow, 1},
			{TierMedium, 2},
			{TierHigh, 3},
			{TierImmediate, 4},
		},
		Default: TierLow,
	}
}

// Engagement maps an engagement tier to its ordinal
func Engagement() Fixed { return levels(vocabEngage) }

// Satisfaction maps a satisfaction tier to its ordinal
func Satisfaction() Fixed { return levels(vocabSatisfied) }

func levels(name string) Fixed {
	return Fixed{
		Name: name,
		Entries: []Entry{
			{TierLow, 0},
			{TierMedium, 1},
			{TierHigh, 2},
		},
		Default: TierMedium,
	}
}
