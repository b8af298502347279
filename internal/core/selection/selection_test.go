package selection

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"custintel/internal/core/classifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kindConst = "selection_test_const"

// constModel predicts the same positive probability for every row
type constModel struct{ P float64 }

func (c constModel) Kind() string                     { return kindConst }
func (c constModel) NumClasses() int                  { return 2 }
func (c constModel) NumFeatures() int                 { return 1 }
func (c constModel) PredictProba([]float64) []float64 { return []float64{1 - c.P, c.P} }

type constTrainer struct{ p float64 }

func (t constTrainer) Fit(context.Context, [][]float64, []int, int) (classifier.Classifier, error) {
	return constModel{P: t.p}, nil
}

func init() {
	classifier.Register(kindConst,
		func(p classifier.Params) (classifier.Trainer, error) {
			if p.Bool("fail", false) {
				return nil, errors.New("configured to fail")
			}
			return constTrainer{p: p.Float("p", 0.5)}, nil
		},
		func(raw json.RawMessage) (classifier.Classifier, error) {
			var m constModel
			return m, json.Unmarshal(raw, &m)
		},
	)
}

func labels(counts ...int) []int {
	var y []int
	for c, n := range counts {
		for i := 0; i < n; i++ {
			y = append(y, c)
		}
	}
	return y
}

func TestStratifiedSplit_PreservesProportions(t *testing.T) {
	t.Parallel()

	y := labels(50, 30, 20)
	s, err := StratifiedSplit(y, 3, 0.2, 42)
	require.NoError(t, err)

	count := func(idx []int) []int {
		out := make([]int, 3)
		for _, i := range idx {
			out[y[i]]++
		}
		return out
	}
	assert.Equal(t, []int{10, 6, 4}, count(s.Test))
	assert.Equal(t, []int{40, 24, 16}, count(s.Train))

	seen := map[int]bool{}
	for _, i := range append(append([]int{}, s.Train...), s.Test...) {
		require.False(t, seen[i], "row %d in both partitions", i)
		seen[i] = true
	}
	assert.Len(t, seen, len(y))
}

func TestStratifiedSplit_Deterministic(t *testing.T) {
	t.Parallel()

	y := labels(9, 7)
	a, err := StratifiedSplit(y, 2, 0.25, 42)
	require.NoError(t, err)
	b, err := StratifiedSplit(y, 2, 0.25, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStratifiedSplit_SmallClassesKeepOneOnEachSide(t *testing.T) {
	t.Parallel()

	s, err := StratifiedSplit(labels(2, 2, 2), 3, 0.2, 1)
	require.NoError(t, err)
	assert.Len(t, s.Test, 3)
	assert.Len(t, s.Train, 3)
}

func TestStratifiedSplit_FailsFast(t *testing.T) {
	t.Parallel()

	_, err := StratifiedSplit(labels(10, 1, 5), 3, 0.2, 42)
	require.True(t, errors.Is(err, ErrInsufficientClass))

	var ice *InsufficientClassError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, 1, ice.Class)
	assert.Equal(t, 1, ice.Count)

	_, err = StratifiedSplit(labels(10, 0), 2, 0.2, 42)
	assert.True(t, errors.Is(err, ErrInsufficientClass), "a class with no samples cannot be stratified")

	_, err = StratifiedSplit(labels(5, 5), 2, 1.5, 42)
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.5, AccuracyScore([]int{0, 1, 1, 0}, []int{0, 0, 1, 1}))

	auc, err := ROCAUCScore([]int{0, 0, 1, 1}, []float64{0.1, 0.4, 0.35, 0.8})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, auc, 1e-12)

	auc, err = ROCAUCScore([]int{0, 1, 0, 1}, []float64{0.3, 0.3, 0.3, 0.3})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, auc, 1e-12)

	_, err = ROCAUCScore([]int{1, 1}, []float64{0.2, 0.9})
	assert.True(t, errors.Is(err, ErrSingleClass))

	yTrue, yPred := []int{0, 1, 2, 0, 1, 2}, []int{0, 2, 1, 0, 0, 1}
	assert.InDelta(t, 0.8/3, F1Macro(yTrue, yPred, 3), 1e-12)

	bt, bp := []int{1, 1, 0, 0, 1}, []int{1, 0, 1, 0, 1}
	assert.InDelta(t, 2.0/3, PrecisionScore(bt, bp, 1), 1e-12)
	assert.InDelta(t, 2.0/3, RecallScore(bt, bp, 1), 1e-12)
	assert.InDelta(t, 2.0/3, F1Score(bt, bp, 1), 1e-12)
}

func binaryDataset() Dataset {
	return Dataset{
		XTrain:     [][]float64{{0}, {1}},
		YTrain:     []int{0, 1},
		XTest:      [][]float64{{0}, {1}, {2}, {3}},
		YTest:      []int{0, 1, 0, 1},
		NumClasses: 2,
	}
}

func TestSelect_TiesKeepFirstSeen(t *testing.T) {
	t.Parallel()

	specs := []classifier.Spec{
		{Name: "first", Kind: kindConst, Params: classifier.Params{"p": 0.2}},
		{Name: "second", Kind: kindConst, Params: classifier.Params{"p": 0.9}},
	}
	var seen []string
	best, rep, err := Select(context.Background(), specs, binaryDataset(), ROCAUC, func(r Result) { seen = append(seen, r.Name) })
	require.NoError(t, err)

	assert.Equal(t, "first", rep.Winner)
	assert.InDelta(t, 0.5, rep.Score, 1e-12)
	assert.Equal(t, constModel{P: 0.2}, best)
	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestSelect_StrictlyBetterWins(t *testing.T) {
	t.Parallel()

	ds := binaryDataset()
	specs := []classifier.Spec{
		{Name: "broken", Kind: kindConst, Params: classifier.Params{"fail": 1}},
		{Name: "neg", Kind: kindConst, Params: classifier.Params{"p": 0.1}},
		{Name: "pos", Kind: kindConst, Params: classifier.Params{"p": 0.9}},
	}
	// accuracy: p=0.1 predicts class 0 everywhere, p=0.9 class 1; both 0.5 so neg stays
	_, rep, err := Select(context.Background(), specs, ds, Accuracy, nil)
	require.NoError(t, err)
	assert.Equal(t, "neg", rep.Winner)
	require.Len(t, rep.Candidates, 3)
	assert.NotEmpty(t, rep.Candidates[0].Error)

	ds.YTest = []int{1, 1, 1, 0}
	_, rep, err = Select(context.Background(), specs, ds, Accuracy, nil)
	require.NoError(t, err)
	assert.Equal(t, "pos", rep.Winner)
	assert.InDelta(t, 0.75, rep.Score, 1e-12)

	best, ok := rep.Best()
	require.True(t, ok)
	assert.InDelta(t, 0.75, best.Precision, 1e-12)
	assert.InDelta(t, 1.0, best.Recall, 1e-12)
}

func TestSelect_NoCandidate(t *testing.T) {
	t.Parallel()

	_, _, err := Select(context.Background(), []classifier.Spec{{Name: "x", Kind: "nope"}}, binaryDataset(), Accuracy, nil)
	assert.True(t, errors.Is(err, ErrNoCandidate))
}
