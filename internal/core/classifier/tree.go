package classifier

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// node is one tree vertex; Feature < 0 marks a leaf holding Value
type node struct {
	Feature   int       `json:"f"`
	Threshold float64   `json:"t,omitempty"`
	Left      int       `json:"l,omitempty"`
	Right     int       `json:"r,omitempty"`
	Value     []float64 `json:"v,omitempty"`
}

// Tree is a flat binary decision tree rooted at node 0
type Tree struct {
	Nodes []node `json:"nodes"`
}

// leaf walks x down to its leaf value; x[f] <= threshold goes left
func (t Tree) leaf(x []float64) []float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func (t Tree) validate(features, width int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("tree: no nodes")
	}
	for i, n := range t.Nodes {
		if n.Feature < 0 {
			if len(n.Value) != width {
				return fmt.Errorf("tree: leaf %d has %d values, want %d", i, len(n.Value), width)
			}
			continue
		}
		if n.Feature >= features {
			return fmt.Errorf("tree: node %d splits on feature %d of %d", i, n.Feature, features)
		}
		// children always follow their parent in build order, which rules out cycles
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("tree: node %d has bad children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

// criterion scores candidate splits; lower child impurity is better
type criterion interface {
	// reset loads idx as the parent and empties the left child
	reset(idx []int)
	// push moves sample i from the right child to the left
	push(i int)
	// parent returns the parent impurity
	parent() float64
	// children returns the weight-scaled impurity of both children
	children() float64
	// value returns the leaf prediction for idx
	value(idx []int) []float64
}

type grower struct {
	X           [][]float64
	crit        criterion
	maxDepth    int
	minSplit    int
	minLeaf     int
	maxFeatures int
	rng         *rand.Rand
	nodes       []node
}

func (g *grower) grow(idx []int) Tree {
	g.nodes = g.nodes[:0]
	g.build(idx, 0)
	return Tree{Nodes: slices.Clone(g.nodes)}
}

func (g *grower) build(idx []int, depth int) int {
	id := len(g.nodes)
	g.nodes = append(g.nodes, node{Feature: -1, Value: g.crit.value(idx)})

	if g.maxDepth > 0 && depth >= g.maxDepth {
		return id
	}
	if len(idx) < g.minSplit || len(idx) < 2*g.minLeaf {
		return id
	}
	g.crit.reset(idx)
	if g.crit.parent() <= 1e-12 {
		return id
	}
	f, thr, ok := g.bestSplit(idx)
	if !ok {
		return id
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if g.X[i][f] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l := g.build(left, depth+1)
	r := g.build(right, depth+1)
	g.nodes[id] = node{Feature: f, Threshold: thr, Left: l, Right: r}
	return id
}

func (g *grower) candidates() []int {
	w := len(g.X[0])
	if g.maxFeatures <= 0 || g.maxFeatures >= w || g.rng == nil {
		out := make([]int, w)
		for j := range out {
			out[j] = j
		}
		return out
	}
	return g.rng.Perm(w)[:g.maxFeatures]
}

func (g *grower) bestSplit(idx []int) (feature int, threshold float64, ok bool) {
	best := 0.0
	sorted := make([]int, len(idx))
	for _, f := range g.candidates() {
		copy(sorted, idx)
		slices.SortStableFunc(sorted, func(a, b int) int {
			va, vb := g.X[a][f], g.X[b][f]
			switch {
			case va < vb:
				return -1
			case va > vb:
				return 1
			}
			return 0
		})
		g.crit.reset(idx)
		for k := 0; k < len(sorted)-1; k++ {
			g.crit.push(sorted[k])
			lo, hi := g.X[sorted[k]][f], g.X[sorted[k+1]][f]
			if lo == hi {
				continue
			}
			if k+1 < g.minLeaf || len(sorted)-k-1 < g.minLeaf {
				continue
			}
			score := g.crit.children()
			if !ok || score < best-1e-12 {
				best, feature, threshold, ok = score, f, lo+(hi-lo)/2, true
			}
		}
	}
	return feature, threshold, ok
}

// gini is the weighted Gini criterion for classification trees
type gini struct {
	y      []int
	w      []float64
	k      int
	total  []float64
	left   []float64
	wTotal float64
	wLeft  float64
}

func newGini(y []int, w []float64, k int) *gini {
	return &gini{y: y, w: w, k: k, total: make([]float64, k), left: make([]float64, k)}
}

func (c *gini) reset(idx []int) {
	clear(c.total)
	clear(c.left)
	c.wTotal, c.wLeft = 0, 0
	for _, i := range idx {
		c.total[c.y[i]] += c.w[i]
		c.wTotal += c.w[i]
	}
}

func (c *gini) push(i int) {
	c.left[c.y[i]] += c.w[i]
	c.wLeft += c.w[i]
}

func giniOf(counts []float64, w float64, sub []float64) float64 {
	if w <= 0 {
		return 0
	}
	s := 1.0
	for k, v := range counts {
		if sub != nil {
			v -= sub[k]
		}
		p := v / w
		s -= p * p
	}
	return s
}

func (c *gini) parent() float64 { return giniOf(c.total, c.wTotal, nil) }

func (c *gini) children() float64 {
	wr := c.wTotal - c.wLeft
	return c.wLeft*giniOf(c.left, c.wLeft, nil) + wr*giniOf(c.total, wr, c.left)
}

func (c *gini) value(idx []int) []float64 {
	out := make([]float64, c.k)
	var sum float64
	for _, i := range idx {
		out[c.y[i]] += c.w[i]
		sum += c.w[i]
	}
	if sum > 0 {
		for k := range out {
			out[k] /= sum
		}
	}
	return out
}

// mse is the squared error criterion for regression trees with a custom leaf value
type mse struct {
	r                []float64
	leaf             func(idx []int) float64
	n, sum, sq       float64
	nLeft, sumL, sqL float64
}

func (c *mse) reset(idx []int) {
	c.n, c.sum, c.sq = 0, 0, 0
	c.nLeft, c.sumL, c.sqL = 0, 0, 0
	for _, i := range idx {
		c.n++
		c.sum += c.r[i]
		c.sq += c.r[i] * c.r[i]
	}
}

func (c *mse) push(i int) {
	c.nLeft++
	c.sumL += c.r[i]
	c.sqL += c.r[i] * c.r[i]
}

func sse(n, sum, sq float64) float64 {
	if n <= 0 {
		return 0
	}
	return sq - sum*sum/n
}

func (c *mse) parent() float64 {
	if c.n == 0 {
		return 0
	}
	return sse(c.n, c.sum, c.sq) / c.n
}

func (c *mse) children() float64 {
	return sse(c.nLeft, c.sumL, c.sqL) + sse(c.n-c.nLeft, c.sum-c.sumL, c.sq-c.sqL)
}

func (c *mse) value(idx []int) []float64 { return []float64{c.leaf(idx)} }
