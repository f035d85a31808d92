package forest

import (
	"math"
	"sort"
)

// node is one split of a regression tree; leaves carry the mean target.
type node struct {
	Leaf      bool    `json:"leaf"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *node   `json:"left,omitempty"`
	Right     *node   `json:"right,omitempty"`
	Value     float64 `json:"value"`
}

type treeBuilder struct {
	x           [][]float64
	y           []float64
	maxDepth    int
	minLeaf     int
	maxFeatures int
	pick        func(n int) []int // feature subsampler
}

func (b *treeBuilder) build(idx []int, depth int) *node {
	mean := 0.0
	for _, i := range idx {
		mean += b.y[i]
	}
	mean /= float64(len(idx))
	if depth >= b.maxDepth || len(idx) < 2*b.minLeaf || constant(b.y, idx) {
		return &node{Leaf: true, Value: mean}
	}
	feat, cut, ok := b.bestSplit(idx)
	if !ok {
		return &node{Leaf: true, Value: mean}
	}
	var left, right []int
	for _, i := range idx {
		if b.x[i][feat] <= cut {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.minLeaf || len(right) < b.minLeaf {
		return &node{Leaf: true, Value: mean}
	}
	return &node{
		Feature:   feat,
		Threshold: cut,
		Left:      b.build(left, depth+1),
		Right:     b.build(right, depth+1),
		Value:     mean,
	}
}

// bestSplit scans sampled features for the threshold minimizing the
// weighted sum of child variances.
func (b *treeBuilder) bestSplit(idx []int) (feat int, cut float64, ok bool) {
	best := math.Inf(1)
	for _, j := range b.pick(len(b.x[0])) {
		vals := make([]float64, len(idx))
		for k, i := range idx {
			vals[k] = b.x[i][j]
		}
		sort.Float64s(vals)
		for k := 0; k+1 < len(vals); k++ {
			if vals[k] == vals[k+1] {
				continue
			}
			c := (vals[k] + vals[k+1]) / 2
			score := b.splitScore(idx, j, c)
			if score < best {
				best, feat, cut, ok = score, j, c, true
			}
		}
	}
	return
}

func (b *treeBuilder) splitScore(idx []int, j int, c float64) float64 {
	var ln, rn int
	var ls, rs, lq, rq float64
	for _, i := range idx {
		v := b.y[i]
		if b.x[i][j] <= c {
			ln++
			ls += v
			lq += v * v
		} else {
			rn++
			rs += v
			rq += v * v
		}
	}
	if ln == 0 || rn == 0 {
		return math.Inf(1)
	}
	// sum of squared deviations on each side
	return (lq - ls*ls/float64(ln)) + (rq - rs*rs/float64(rn))
}

func (n *node) predict(row []float64) float64 {
	for !n.Leaf {
		if row[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func constant(y []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if y[i] != y[idx[0]] {
			return false
		}
	}
	return true
}
