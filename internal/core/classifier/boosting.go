package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
)

// KindGradientBoosting is binary log-loss gradient boosting over regression trees
const KindGradientBoosting = "gradient_boosting"

func init() {
	Register(KindGradientBoosting, newBoostingTrainer, decodeBoosting)
}

// Boosting is an additive log-odds model; only the binary case is supported
type Boosting struct {
	Features     int     `json:"features"`
	Init         float64 `json:"init"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

// Kind implements Classifier
func (b *Boosting) Kind() string { return KindGradientBoosting }

// NumClasses implements Classifier
func (b *Boosting) NumClasses() int { return 2 }

// NumFeatures implements Classifier
func (b *Boosting) NumFeatures() int { return b.Features }

// PredictProba implements Classifier
func (b *Boosting) PredictProba(x []float64) []float64 {
	p := sigmoid(b.logOdds(x))
	return []float64{1 - p, p}
}

func (b *Boosting) logOdds(x []float64) float64 {
	f := b.Init
	for _, t := range b.Trees {
		f += b.LearningRate * t.leaf(x)[0]
	}
	return f
}

type boostingTrainer struct {
	stages   int
	lr       float64
	maxDepth int
	minSplit int
	minLeaf  int
}

func newBoostingTrainer(p Params) (Trainer, error) {
	t := boostingTrainer{
		stages:   p.Int("n_estimators", 100),
		lr:       p.Float("learning_rate", 0.1),
		maxDepth: p.Int("max_depth", 3),
		minSplit: p.Int("min_samples_split", 2),
		minLeaf:  p.Int("min_samples_leaf", 1),
	}
	if t.stages <= 0 {
		return nil, fmt.Errorf("classifier: n_estimators must be positive, got %d", t.stages)
	}
	if err := positive("learning_rate", t.lr); err != nil {
		return nil, err
	}
	if t.minSplit < 2 || t.minLeaf < 1 {
		return nil, fmt.Errorf("classifier: min_samples_split %d / min_samples_leaf %d too small", t.minSplit, t.minLeaf)
	}
	return t, nil
}

// Fit fits residual trees with Newton step leaf values
func (t boostingTrainer) Fit(ctx context.Context, X [][]float64, y []int, numClasses int) (Classifier, error) {
	w, err := checkInput(X, y, numClasses)
	if err != nil {
		return nil, err
	}
	if numClasses != 2 {
		return nil, fmt.Errorf("%w: gradient_boosting supports 2 classes, got %d", ErrBadInput, numClasses)
	}
	var pos float64
	for _, c := range y {
		pos += float64(c)
	}
	prior := pos / float64(len(y))
	if prior == 0 || prior == 1 {
		return nil, fmt.Errorf("%w: gradient_boosting needs both classes present", ErrBadInput)
	}

	m := &Boosting{Features: w, Init: math.Log(prior / (1 - prior)), LearningRate: t.lr}
	F := make([]float64, len(X))
	p := make([]float64, len(X))
	r := make([]float64, len(X))
	for i := range F {
		F[i] = m.Init
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	crit := &mse{r: r, leaf: func(in []int) float64 {
		var num, den float64
		for _, i := range in {
			num += r[i]
			den += p[i] * (1 - p[i])
		}
		if den < 1e-12 {
			return 0
		}
		return num / den
	}}
	g := grower{X: X, crit: crit, maxDepth: t.maxDepth, minSplit: t.minSplit, minLeaf: t.minLeaf}

	for s := 0; s < t.stages; s++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := range F {
			p[i] = sigmoid(F[i])
			r[i] = float64(y[i]) - p[i]
		}
		tree := g.grow(idx)
		for i, row := range X {
			F[i] += t.lr * tree.leaf(row)[0]
		}
		m.Trees = append(m.Trees, tree)
	}
	return m, nil
}

func decodeBoosting(raw json.RawMessage) (Classifier, error) {
	var b Boosting
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	if b.Features <= 0 || len(b.Trees) == 0 {
		return nil, fmt.Errorf("gradient_boosting: %d features, %d trees", b.Features, len(b.Trees))
	}
	for i, t := range b.Trees {
		if err := t.validate(b.Features, 1); err != nil {
			return nil, fmt.Errorf("gradient_boosting: tree %d: %w", i, err)
		}
	}
	return &b, nil
}
