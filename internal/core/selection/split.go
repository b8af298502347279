// Package selection splits labeled data, scores candidate classifiers and keeps the best one
package selection

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// ErrInsufficientClass marks a dataset too thin to stratify
var ErrInsufficientClass = errors.New("selection: insufficient samples to stratify")

// InsufficientClassError names the class that cannot be split
type InsufficientClassError struct {
	Class int
	Count int
	Need  int
}

func (e *InsufficientClassError) Error() string {
	return fmt.Sprintf("selection: class %d has %d samples, need at least %d to stratify", e.Class, e.Count, e.Need)
}

// Is matches ErrInsufficientClass
func (e *InsufficientClassError) Is(target error) bool { return target == ErrInsufficientClass }

// Split holds row indices for each partition, both ascending
type Split struct {
	Train []int
	Test  []int
}

// StratifiedSplit partitions rows so each class keeps its proportion in the held out part
// every class needs at least 2 samples so both partitions see it
func StratifiedSplit(y []int, numClasses int, holdout float64, seed uint64) (Split, error) {
	if holdout <= 0 || holdout >= 1 || math.IsNaN(holdout) {
		return Split{}, fmt.Errorf("selection: holdout must be in (0,1), got %v", holdout)
	}
	byClass := make([][]int, numClasses)
	for i, c := range y {
		if c < 0 || c >= numClasses {
			return Split{}, fmt.Errorf("selection: label %d out of range at row %d", c, i)
		}
		byClass[c] = append(byClass[c], i)
	}
	for c, rows := range byClass {
		if len(rows) < 2 {
			return Split{}, &InsufficientClassError{Class: c, Count: len(rows), Need: 2}
		}
	}

	rng := rand.New(rand.NewPCG(seed, 0x5eed))
	var s Split
	for _, rows := range byClass {
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		nTest := int(math.Round(float64(len(rows)) * holdout))
		nTest = min(max(nTest, 1), len(rows)-1)
		s.Test = append(s.Test, rows[:nTest]...)
		s.Train = append(s.Train, rows[nTest:]...)
	}
	sort.Ints(s.Train)
	sort.Ints(s.Test)
	return s, nil
}

// Take selects rows of X and y by index
func Take(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	xs := make([][]float64, len(idx))
	ys := make([]int, len(idx))
	for k, i := range idx {
		xs[k] = X[i]
		ys[k] = y[i]
	}
	return xs, ys
}
