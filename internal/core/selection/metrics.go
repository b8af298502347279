package selection

import (
	"errors"
	"fmt"
	"sort"
)

// ErrSingleClass is returned by ROCAUC when the truth has only one class
var ErrSingleClass = errors.New("selection: roc auc needs both classes")

// Metric names the scalar used to rank candidates
type Metric string

const (
	// Accuracy is the share of exact predictions
	Accuracy Metric = "accuracy"
	// ROCAUC is the binary area under the ROC curve of the positive class probability
	ROCAUC Metric = "roc_auc"
)

// Eval scores probability rows against the truth
func (m Metric) Eval(yTrue []int, proba [][]float64) (float64, error) {
	switch m {
	case Accuracy:
		return AccuracyScore(yTrue, argmax(proba)), nil
	case ROCAUC:
		pos := make([]float64, len(proba))
		for i, p := range proba {
			if len(p) != 2 {
				return 0, fmt.Errorf("selection: roc auc needs binary probabilities, got %d", len(p))
			}
			pos[i] = p[1]
		}
		return ROCAUCScore(yTrue, pos)
	}
	return 0, fmt.Errorf("selection: unknown metric %q", m)
}

func argmax(proba [][]float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		best := 0
		for k := 1; k < len(p); k++ {
			if p[k] > p[best] {
				best = k
			}
		}
		out[i] = best
	}
	return out
}

// AccuracyScore is the fraction of matching labels
func AccuracyScore(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	var hit int
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			hit++
		}
	}
	return float64(hit) / float64(len(yTrue))
}

// ROCAUCScore is the Mann-Whitney statistic with tied scores counted as half
func ROCAUCScore(yTrue []int, score []float64) (float64, error) {
	idx := make([]int, len(score))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return score[idx[a]] < score[idx[b]] })

	var nPos, nNeg, rankSum float64
	for i := 0; i < len(idx); {
		j := i
		for j < len(idx) && score[idx[j]] == score[idx[i]] {
			j++
		}
		// average 1-based rank of the tie block i..j-1
		rank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if yTrue[idx[k]] == 1 {
				rankSum += rank
				nPos++
			} else {
				nNeg++
			}
		}
		i = j
	}
	if nPos == 0 || nNeg == 0 {
		return 0, ErrSingleClass
	}
	return (rankSum - nPos*(nPos+1)/2) / (nPos * nNeg), nil
}

// confusion returns tp, fp, fn for class c
func confusion(yTrue, yPred []int, c int) (tp, fp, fn float64) {
	for i := range yTrue {
		switch {
		case yPred[i] == c && yTrue[i] == c:
			tp++
		case yPred[i] == c:
			fp++
		case yTrue[i] == c:
			fn++
		}
	}
	return tp, fp, fn
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// PrecisionScore is tp/(tp+fp) for class c, 0 when nothing was predicted
func PrecisionScore(yTrue, yPred []int, c int) float64 {
	tp, fp, _ := confusion(yTrue, yPred, c)
	return ratio(tp, tp+fp)
}

// RecallScore is tp/(tp+fn) for class c, 0 when the class is absent
func RecallScore(yTrue, yPred []int, c int) float64 {
	tp, _, fn := confusion(yTrue, yPred, c)
	return ratio(tp, tp+fn)
}

// F1Score is the harmonic mean of precision and recall for class c
func F1Score(yTrue, yPred []int, c int) float64 {
	tp, fp, fn := confusion(yTrue, yPred, c)
	return ratio(2*tp, 2*tp+fp+fn)
}

// F1Macro is the unweighted mean of per class F1
func F1Macro(yTrue, yPred []int, numClasses int) float64 {
	var s float64
	for c := 0; c < numClasses; c++ {
		s += F1Score(yTrue, yPred, c)
	}
	return s / float64(numClasses)
}
