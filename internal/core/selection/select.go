package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"custintel/internal/core/classifier"
)

// ErrNoCandidate is returned when no candidate could be fitted and scored
var ErrNoCandidate = errors.New("selection: no candidate succeeded")

// Dataset is an already split and scaled problem
type Dataset struct {
	XTrain     [][]float64
	YTrain     []int
	XTest      [][]float64
	YTest      []int
	NumClasses int
}

// Result is one candidate's held out evaluation
type Result struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Score     float64 `json:"score"`
	Accuracy  float64 `json:"accuracy"`
	F1Macro   float64 `json:"f1_macro"`
	Precision float64 `json:"precision,omitempty"`
	Recall    float64 `json:"recall,omitempty"`
	F1        float64 `json:"f1,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// Report summarizes a selection run
type Report struct {
	Metric     Metric   `json:"metric"`
	Winner     string   `json:"winner"`
	Score      float64  `json:"score"`
	TrainRows  int      `json:"train_rows"`
	TestRows   int      `json:"test_rows"`
	Candidates []Result `json:"candidates"`
}

// Best returns the winning candidate's result
func (r Report) Best() (Result, bool) {
	for _, c := range r.Candidates {
		if c.Name == r.Winner && c.Error == "" {
			return c, true
		}
	}
	return Result{}, false
}

// Observer is told about each evaluated candidate
type Observer func(Result)

// Select fits every candidate on the train partition and keeps the one with the
// strictly highest held out metric; ties keep the earlier candidate
func Select(ctx context.Context, specs []classifier.Spec, ds Dataset, metric Metric, obs Observer) (classifier.Classifier, Report, error) {
	rep := Report{Metric: metric, TrainRows: len(ds.XTrain), TestRows: len(ds.XTest)}
	var (
		best  classifier.Classifier
		found bool
		fails []string
	)
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, rep, err
		}
		c, res, err := evaluate(ctx, spec, ds, metric)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, rep, err
			}
			res.Error = err.Error()
			fails = append(fails, spec.Name+": "+err.Error())
		}
		rep.Candidates = append(rep.Candidates, res)
		if obs != nil {
			obs(res)
		}
		if err != nil {
			continue
		}
		if !found || res.Score > rep.Score {
			best, found = c, true
			rep.Winner, rep.Score = res.Name, res.Score
		}
	}
	if !found {
		return nil, rep, fmt.Errorf("%w: %s", ErrNoCandidate, strings.Join(fails, "; "))
	}
	return best, rep, nil
}

func evaluate(ctx context.Context, spec classifier.Spec, ds Dataset, metric Metric) (classifier.Classifier, Result, error) {
	res := Result{Name: spec.Name, Kind: spec.Kind}
	if res.Name == "" {
		res.Name = spec.Kind
	}
	tr, err := classifier.New(spec)
	if err != nil {
		return nil, res, err
	}
	c, err := tr.Fit(ctx, ds.XTrain, ds.YTrain, ds.NumClasses)
	if err != nil {
		return nil, res, err
	}
	proba := make([][]float64, len(ds.XTest))
	for i, row := range ds.XTest {
		proba[i] = c.PredictProba(row)
	}
	score, err := metric.Eval(ds.YTest, proba)
	if err != nil {
		return nil, res, err
	}
	pred := argmax(proba)
	res.Score = score
	res.Accuracy = AccuracyScore(ds.YTest, pred)
	res.F1Macro = F1Macro(ds.YTest, pred, ds.NumClasses)
	if ds.NumClasses == 2 {
		res.Precision = PrecisionScore(ds.YTest, pred, 1)
		res.Recall = RecallScore(ds.YTest, pred, 1)
		res.F1 = F1Score(ds.YTest, pred, 1)
	}
	return c, res, nil
}
