package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
)

// KindLogistic is multinomial logistic regression with L2 regularisation
const KindLogistic = "logistic"

func init() {
	Register(KindLogistic, newLogisticTrainer, decodeLogistic)
}

// Logistic is a fitted softmax model; Weights is indexed [class][feature]
type Logistic struct {
	Classes  int         `json:"classes"`
	Features int         `json:"features"`
	Weights  [][]float64 `json:"weights"`
	Bias     []float64   `json:"bias"`
}

// Kind implements Classifier
func (m *Logistic) Kind() string { return KindLogistic }

// NumClasses implements Classifier
func (m *Logistic) NumClasses() int { return m.Classes }

// NumFeatures implements Classifier
func (m *Logistic) NumFeatures() int { return m.Features }

// PredictProba implements Classifier
func (m *Logistic) PredictProba(x []float64) []float64 {
	z := make([]float64, m.Classes)
	for k := range z {
		s := m.Bias[k]
		for j, v := range x {
			s += m.Weights[k][j] * v
		}
		z[k] = s
	}
	return softmax(z)
}

type logisticTrainer struct {
	maxIter int
	lr      float64
	c       float64
	tol     float64
}

func newLogisticTrainer(p Params) (Trainer, error) {
	t := logisticTrainer{
		maxIter: p.Int("max_iter", 1000),
		lr:      p.Float("learning_rate", 0.1),
		c:       p.Float("c", 1.0),
		tol:     p.Float("tol", 1e-6),
	}
	if t.maxIter <= 0 {
		return nil, fmt.Errorf("classifier: max_iter must be positive, got %d", t.maxIter)
	}
	if err := positive("learning_rate", t.lr); err != nil {
		return nil, err
	}
	if err := positive("c", t.c); err != nil {
		return nil, err
	}
	return t, nil
}

// Fit runs full batch gradient descent on mean cross entropy plus ||W||^2/(2Cn)
func (t logisticTrainer) Fit(ctx context.Context, X [][]float64, y []int, numClasses int) (Classifier, error) {
	w, err := checkInput(X, y, numClasses)
	if err != nil {
		return nil, err
	}
	n := float64(len(X))
	m := &Logistic{Classes: numClasses, Features: w, Weights: make([][]float64, numClasses), Bias: make([]float64, numClasses)}
	gw := make([][]float64, numClasses)
	for k := range m.Weights {
		m.Weights[k] = make([]float64, w)
		gw[k] = make([]float64, w)
	}
	gb := make([]float64, numClasses)
	reg := 1 / (t.c * n)

	for iter := 0; iter < t.maxIter; iter++ {
		if iter%100 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for k := range gw {
			clear(gw[k])
		}
		clear(gb)
		for i, row := range X {
			p := m.PredictProba(row)
			for k := range p {
				d := p[k]
				if y[i] == k {
					d--
				}
				gb[k] += d / n
				for j, v := range row {
					gw[k][j] += d * v / n
				}
			}
		}
		maxGrad := 0.0
		for k := range m.Weights {
			for j := range m.Weights[k] {
				g := gw[k][j] + reg*m.Weights[k][j]
				m.Weights[k][j] -= t.lr * g
				maxGrad = math.Max(maxGrad, math.Abs(g))
			}
			m.Bias[k] -= t.lr * gb[k]
			maxGrad = math.Max(maxGrad, math.Abs(gb[k]))
		}
		if maxGrad < t.tol {
			break
		}
	}
	return m, nil
}

func decodeLogistic(raw json.RawMessage) (Classifier, error) {
	var m Logistic
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m.Classes < 2 || len(m.Weights) != m.Classes || len(m.Bias) != m.Classes {
		return nil, fmt.Errorf("logistic: %d classes but %d weight rows and %d biases", m.Classes, len(m.Weights), len(m.Bias))
	}
	for k, row := range m.Weights {
		if len(row) != m.Features {
			return nil, fmt.Errorf("logistic: class %d has %d weights, want %d", k, len(row), m.Features)
		}
	}
	return &m, nil
}

func softmax(z []float64) []float64 {
	hi := math.Inf(-1)
	for _, v := range z {
		hi = math.Max(hi, v)
	}
	var sum float64
	out := make([]float64, len(z))
	for k, v := range z {
		out[k] = math.Exp(v - hi)
		sum += out[k]
	}
	for k := range out {
		out[k] /= sum
	}
	return out
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
