package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blobs returns k well separated clusters of 12 points each
func blobs(k int) ([][]float64, []int) {
	centers := [][]float64{{-3, -3}, {3, 3}, {3, -3}}
	offsets := []float64{-0.6, -0.2, 0.2, 0.6}
	var X [][]float64
	var y []int
	for c := 0; c < k; c++ {
		for i, dx := range offsets {
			for _, dy := range offsets[:3] {
				X = append(X, []float64{centers[c][0] + dx, centers[c][1] + dy + float64(i)*0.01})
				y = append(y, c)
			}
		}
	}
	return X, y
}

func fit(t *testing.T, spec Spec, X [][]float64, y []int, k int) Classifier {
	t.Helper()
	tr, err := New(spec)
	require.NoError(t, err)
	c, err := tr.Fit(context.Background(), X, y, k)
	require.NoError(t, err)
	return c
}

func TestKinds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{KindGradientBoosting, KindLogistic, KindRandomForest}, Kinds())

	_, err := New(Spec{Kind: "svm"})
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestClassifiers_SeparateBlobs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		spec Spec
		k    int
	}{
		{"logistic 3 class", Spec{Kind: KindLogistic, Params: Params{"max_iter": 500}}, 3},
		{"logistic binary", Spec{Kind: KindLogistic}, 2},
		{"forest 3 class", Spec{Kind: KindRandomForest, Params: Params{"n_estimators": 15, "max_depth": 5, "balanced": 1}}, 3},
		{"boosting binary", Spec{Kind: KindGradientBoosting, Params: Params{"n_estimators": 20, "max_depth": 2}}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			X, y := blobs(tc.k)
			c := fit(t, tc.spec, X, y, tc.k)
			assert.Equal(t, tc.k, c.NumClasses())
			assert.Equal(t, 2, c.NumFeatures())

			for i, row := range X {
				p := c.PredictProba(row)
				require.Len(t, p, tc.k)
				var sum float64
				for _, v := range p {
					require.False(t, math.IsNaN(v))
					sum += v
				}
				require.InDelta(t, 1, sum, 1e-9)
				require.Equal(t, y[i], Predict(p), "row %d", i)
			}
		})
	}
}

func TestMarshal_PreservesPredictions(t *testing.T) {
	t.Parallel()

	X, y := blobs(2)
	for _, spec := range []Spec{
		{Kind: KindLogistic},
		{Kind: KindRandomForest, Params: Params{"n_estimators": 5}},
		{Kind: KindGradientBoosting, Params: Params{"n_estimators": 5}},
	} {
		c := fit(t, spec, X, y, 2)
		b, err := Marshal(c)
		require.NoError(t, err)

		back, err := Unmarshal(b)
		require.NoError(t, err)
		assert.Equal(t, c.Kind(), back.Kind())
		for _, row := range X {
			assert.Equal(t, c.PredictProba(row), back.PredictProba(row))
		}
	}
}

func TestForest_SeededDeterminism(t *testing.T) {
	t.Parallel()

	X, y := blobs(3)
	spec := Spec{Kind: KindRandomForest, Params: Params{"n_estimators": 8, "seed": 7}}
	a, err := Marshal(fit(t, spec, X, y, 3))
	require.NoError(t, err)
	b, err := Marshal(fit(t, spec, X, y, 3))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

func TestBoosting_RejectsMulticlass(t *testing.T) {
	t.Parallel()

	X, y := blobs(3)
	tr, err := New(Spec{Kind: KindGradientBoosting})
	require.NoError(t, err)
	_, err = tr.Fit(context.Background(), X, y, 3)
	assert.True(t, errors.Is(err, ErrBadInput))
}

func TestFit_BadInput(t *testing.T) {
	t.Parallel()

	tr, err := New(Spec{Kind: KindLogistic})
	require.NoError(t, err)

	_, err = tr.Fit(context.Background(), nil, nil, 2)
	assert.True(t, errors.Is(err, ErrBadInput))
	_, err = tr.Fit(context.Background(), [][]float64{{1}, {2, 3}}, []int{0, 1}, 2)
	assert.True(t, errors.Is(err, ErrBadInput))
	_, err = tr.Fit(context.Background(), [][]float64{{1}, {2}}, []int{0, 5}, 2)
	assert.True(t, errors.Is(err, ErrBadInput))
}

func TestFit_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	X, y := blobs(2)
	tr, err := New(Spec{Kind: KindRandomForest})
	require.NoError(t, err)
	_, err = tr.Fit(ctx, X, y, 2)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestUnmarshal_RejectsCorruptState(t *testing.T) {
	t.Parallel()

	_, err := Unmarshal([]byte(`{"kind":"logistic","state":{"classes":3,"features":2,"weights":[[1,2]],"bias":[0,0,0]}}`))
	assert.Error(t, err)

	_, err = Unmarshal([]byte(`{"kind":"random_forest","state":{"classes":2,"features":1,"trees":[{"nodes":[{"f":0,"t":1,"l":0,"r":0}]}]}}`))
	assert.Error(t, err)

	raw, _ := json.Marshal(map[string]any{"kind": "nope", "state": map[string]any{}})
	_, err = Unmarshal(raw)
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestParams(t *testing.T) {
	t.Parallel()

	p := Params{"max_depth": 8, "balanced": 1}
	assert.Equal(t, 8, p.Int("max_depth", 0))
	assert.Equal(t, 3, p.Int("missing", 3))
	assert.True(t, p.Bool("balanced", false))
	assert.Equal(t, uint64(42), p.Seed())
	assert.Equal(t, 0.5, Params(nil).Float("x", 0.5))
}
