// Package scaler standardizes feature columns with a persisted mean and std per column
package scaler

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmpty is returned when fitting on no rows
	ErrEmpty = errors.New("scaler: no rows to fit")
	// ErrWidth is returned when a row does not match the fitted width
	ErrWidth = errors.New("scaler: width mismatch")
)

// State is the fitted per-column shift and scale
// a zero Std is treated as 1 so constant columns pass through centred
type State struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Fit computes column means and population standard deviations.
// A constant column gets Std 0 even when its mean is not exact.
func Fit(X [][]float64) (State, error) {
	if len(X) == 0 {
		return State{}, ErrEmpty
	}
	w := len(X[0])
	cols := make([][]float64, w)
	for i, row := range X {
		if len(row) != w {
			return State{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrWidth, i, len(row), w)
		}
		for j, v := range row {
			cols[j] = append(cols[j], v)
		}
	}
	s := State{Mean: make([]float64, w), Std: make([]float64, w)}
	for j, col := range cols {
		if floats.Min(col) == floats.Max(col) {
			s.Mean[j] = col[0]
			continue
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		// rounding in the mean leaves a tiny std on a near constant column
		if std <= 10*epsilon*max(math.Abs(mean), 1) {
			std = 0
		}
		s.Mean[j], s.Std[j] = mean, std
	}
	return s, nil
}

// epsilon is the float64 machine epsilon
const epsilon = 0x1p-52

// Width is the number of columns the state was fitted on
func (s State) Width() int { return len(s.Mean) }

// Validate checks the state is well formed
func (s State) Validate() error {
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Std) {
		return fmt.Errorf("%w: mean has %d columns, std has %d", ErrWidth, len(s.Mean), len(s.Std))
	}
	for j := range s.Mean {
		if math.IsNaN(s.Mean[j]) || math.IsNaN(s.Std[j]) || s.Std[j] < 0 {
			return fmt.Errorf("scaler: column %d is not finite", j)
		}
	}
	return nil
}

// Transform returns a new standardized row
func (s State) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("%w: got %d columns, want %d", ErrWidth, len(row), len(s.Mean))
	}
	out := make([]float64, len(row))
	for j, v := range row {
		sd := s.Std[j]
		if sd == 0 {
			sd = 1
		}
		out[j] = (v - s.Mean[j]) / sd
	}
	return out, nil
}

// TransformAll standardizes every row of X
func (s State) TransformAll(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		r, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}
