package classifier

import (
	"fmt"
	"math"
)

// Params are numeric hyperparameters keyed by name; booleans are 0 or 1
type Params map[string]float64

// Float returns p[key] or def
func (p Params) Float(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Int returns p[key] truncated to an int, or def
func (p Params) Int(key string, def int) int {
	if v, ok := p[key]; ok {
		return int(v)
	}
	return def
}

// Bool returns whether p[key] is non zero, or def
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key]; ok {
		return v != 0
	}
	return def
}

// Seed returns the random seed, 42 unless set
func (p Params) Seed() uint64 {
	return uint64(p.Int("seed", 42))
}

func positive(name string, v float64) error {
	if v <= 0 || math.IsNaN(v) {
		return fmt.Errorf("classifier: %s must be positive, got %v", name, v)
	}
	return nil
}
