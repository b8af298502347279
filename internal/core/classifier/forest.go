package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
)

// KindRandomForest is a bagged ensemble of Gini decision trees
const KindRandomForest = "random_forest"

func init() {
	Register(KindRandomForest, newForestTrainer, decodeForest)
}

// Forest averages the leaf class distributions of its trees
type Forest struct {
	Classes  int    `json:"classes"`
	Features int    `json:"features"`
	Trees    []Tree `json:"trees"`
}

// Kind implements Classifier
func (f *Forest) Kind() string { return KindRandomForest }

// NumClasses implements Classifier
func (f *Forest) NumClasses() int { return f.Classes }

// NumFeatures implements Classifier
func (f *Forest) NumFeatures() int { return f.Features }

// PredictProba implements Classifier
func (f *Forest) PredictProba(x []float64) []float64 {
	out := make([]float64, f.Classes)
	for _, t := range f.Trees {
		for k, v := range t.leaf(x) {
			out[k] += v
		}
	}
	n := float64(len(f.Trees))
	for k := range out {
		out[k] /= n
	}
	return out
}

type forestTrainer struct {
	trees       int
	maxDepth    int
	minSplit    int
	minLeaf     int
	maxFeatures int
	balanced    bool
	bootstrap   bool
	seed        uint64
}

func newForestTrainer(p Params) (Trainer, error) {
	t := forestTrainer{
		trees:       p.Int("n_estimators", 100),
		maxDepth:    p.Int("max_depth", 0),
		minSplit:    p.Int("min_samples_split", 2),
		minLeaf:     p.Int("min_samples_leaf", 1),
		maxFeatures: p.Int("max_features", 0),
		balanced:    p.Bool("balanced", false),
		bootstrap:   p.Bool("bootstrap", true),
		seed:        p.Seed(),
	}
	if t.trees <= 0 {
		return nil, fmt.Errorf("classifier: n_estimators must be positive, got %d", t.trees)
	}
	if t.minSplit < 2 {
		return nil, fmt.Errorf("classifier: min_samples_split must be at least 2, got %d", t.minSplit)
	}
	if t.minLeaf < 1 {
		return nil, fmt.Errorf("classifier: min_samples_leaf must be at least 1, got %d", t.minLeaf)
	}
	return t, nil
}

// Fit grows each tree on a bootstrap sample with its own seeded stream
func (t forestTrainer) Fit(ctx context.Context, X [][]float64, y []int, numClasses int) (Classifier, error) {
	w, err := checkInput(X, y, numClasses)
	if err != nil {
		return nil, err
	}
	weights := make([]float64, len(y))
	if t.balanced {
		weights = balancedWeights(y, numClasses)
	} else {
		for i := range weights {
			weights[i] = 1
		}
	}
	maxFeatures := t.maxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(1, int(math.Sqrt(float64(w))))
	}

	f := &Forest{Classes: numClasses, Features: w, Trees: make([]Tree, 0, t.trees)}
	idx := make([]int, len(X))
	for b := 0; b < t.trees; b++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewPCG(t.seed, uint64(b)))
		for i := range idx {
			if t.bootstrap {
				idx[i] = rng.IntN(len(X))
			} else {
				idx[i] = i
			}
		}
		g := grower{
			X:           X,
			crit:        newGini(y, weights, numClasses),
			maxDepth:    t.maxDepth,
			minSplit:    t.minSplit,
			minLeaf:     t.minLeaf,
			maxFeatures: maxFeatures,
			rng:         rng,
		}
		f.Trees = append(f.Trees, g.grow(idx))
	}
	return f, nil
}

func decodeForest(raw json.RawMessage) (Classifier, error) {
	var f Forest
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if f.Classes < 2 || f.Features <= 0 || len(f.Trees) == 0 {
		return nil, fmt.Errorf("random_forest: %d classes, %d features, %d trees", f.Classes, f.Features, len(f.Trees))
	}
	for i, t := range f.Trees {
		if err := t.validate(f.Features, f.Classes); err != nil {
			return nil, fmt.Errorf("random_forest: tree %d: %w", i, err)
		}
	}
	return &f, nil
}
