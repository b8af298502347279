// Package classifier is the pluggable probability-output model capability.
//
// Each algorithm registers a Maker that builds a Trainer from hyperparameters and
// a Decoder that restores a fitted Classifier from its persisted state. Fitted
// classifiers are stored inside a small envelope tagged with their kind.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

var (
	// ErrUnknownKind is returned for a kind nobody registered
	ErrUnknownKind = errors.New("classifier: unknown kind")
	// ErrBadInput is returned when a training matrix is empty, ragged or mislabeled
	ErrBadInput = errors.New("classifier: bad training input")
)

// Classifier maps a feature vector to a probability per class, indexed by class code
type Classifier interface {
	Kind() string
	NumClasses() int
	NumFeatures() int
	PredictProba(x []float64) []float64
}

// Trainer fits a Classifier on a labeled matrix
type Trainer interface {
	Fit(ctx context.Context, X [][]float64, y []int, numClasses int) (Classifier, error)
}

// Spec is a tagged candidate configuration
type Spec struct {
	Name   string `json:"name"             yaml:"name"`
	Kind   string `json:"kind"             yaml:"kind"`
	Params Params `json:"params,omitempty" yaml:"params,omitempty"`
}

// Maker builds a Trainer from hyperparameters
type Maker func(Params) (Trainer, error)

// Decoder restores a fitted classifier from its persisted state
type Decoder func(json.RawMessage) (Classifier, error)

type entry struct {
	make   Maker
	decode Decoder
}

var (
	mu       sync.RWMutex
	registry = map[string]entry{}
)

// Register installs a kind; it panics on duplicates since kinds are wired at init
func Register(kind string, m Maker, d Decoder) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[kind]; dup {
		panic("classifier: kind registered twice: " + kind)
	}
	registry[kind] = entry{make: m, decode: d}
}

// Kinds lists registered kinds in sorted order
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New returns a Trainer for spec
func New(spec Spec) (Trainer, error) {
	mu.RLock()
	e, ok := registry[spec.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
	return e.make(spec.Params)
}

type envelope struct {
	Kind  string          `json:"kind"`
	State json.RawMessage `json:"state"`
}

// Marshal encodes c with its kind tag
func Marshal(c Classifier) ([]byte, error) {
	state, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("classifier: encode %s: %w", c.Kind(), err)
	}
	return json.Marshal(envelope{Kind: c.Kind(), State: state})
}

// Unmarshal restores a classifier written by Marshal
func Unmarshal(b []byte) (Classifier, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("classifier: decode envelope: %w", err)
	}
	mu.RLock()
	e, ok := registry[env.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}
	c, err := e.decode(env.State)
	if err != nil {
		return nil, fmt.Errorf("classifier: decode %s: %w", env.Kind, err)
	}
	return c, nil
}

// Predict returns the argmax class of proba; ties go to the lower class
func Predict(proba []float64) int {
	best := 0
	for i := 1; i < len(proba); i++ {
		if proba[i] > proba[best] {
			best = i
		}
	}
	return best
}

// checkInput validates a training set and returns its width
func checkInput(X [][]float64, y []int, numClasses int) (int, error) {
	if len(X) == 0 || len(X) != len(y) {
		return 0, fmt.Errorf("%w: %d rows, %d labels", ErrBadInput, len(X), len(y))
	}
	if numClasses < 2 {
		return 0, fmt.Errorf("%w: need at least 2 classes, got %d", ErrBadInput, numClasses)
	}
	w := len(X[0])
	if w == 0 {
		return 0, fmt.Errorf("%w: zero features", ErrBadInput)
	}
	for i, row := range X {
		if len(row) != w {
			return 0, fmt.Errorf("%w: row %d has %d features, want %d", ErrBadInput, i, len(row), w)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("%w: row %d is not finite", ErrBadInput, i)
			}
		}
		if y[i] < 0 || y[i] >= numClasses {
			return 0, fmt.Errorf("%w: label %d out of range at row %d", ErrBadInput, y[i], i)
		}
	}
	return w, nil
}

// balancedWeights returns n / (k * count(class)) per sample
func balancedWeights(y []int, numClasses int) []float64 {
	counts := make([]float64, numClasses)
	for _, c := range y {
		counts[c]++
	}
	w := make([]float64, len(y))
	n := float64(len(y))
	for i, c := range y {
		w[i] = n / (float64(numClasses) * counts[c])
	}
	return w
}
