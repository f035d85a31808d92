/*
Package forest implements a bagged regression-tree ensemble with
variance-reduction splits and seeded feature subsampling.
*/
package forest

import (
	"math"
	"math/rand"

	"github.com/SARARANJBAR/Radiomics-Ki67/model"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/mat"
)

/*
Model is a random-forest estimator of marker abundance.
*/
type Model struct {
	Trees       int     // ensemble size, default 100
	MaxDepth    int     // per-tree depth limit, default 8
	MinLeaf     int     // minimum rows per leaf, default 2
	FeatureFrac float64 // fraction of features sampled per split, default 1/3
	Seed        int64
}

type fitted struct {
	Feats []string `json:"features"`
	Roots []*node  `json:"trees"`
}

// New builds a forest from a hyper-parameter bag; unset keys take defaults.
func New(p model.Params) model.HungryModel {
	return Model{
		Trees:       int(p.Get("trees", 100)),
		MaxDepth:    int(p.Get("depth", 8)),
		MinLeaf:     int(p.Get("leaf", 2)),
		FeatureFrac: p.Get("features", 1.0/3),
		Seed:        int64(p.Get("seed", 0)),
	}
}

func (m Model) Feed(ds model.Dataset) (model.PredictionModel, error) {
	d, err := ds.Design()
	if err != nil {
		return nil, err
	}
	n, p := d.X.Dims()
	if n < 2 {
		return nil, xerrors.Errorf("%d rows cannot grow a tree: %w", n, model.ErrFit)
	}
	x := make([][]float64, n)
	for i := range x {
		x[i] = mat.Row(nil, i, d.X)
	}

	trees := m.Trees
	if trees == 0 {
		trees = 100
	}
	depth := m.MaxDepth
	if depth == 0 {
		depth = 8
	}
	leaf := m.MinLeaf
	if leaf == 0 {
		leaf = 2
	}
	frac := m.FeatureFrac
	if frac == 0 {
		frac = 1.0 / 3
	}
	sub := int(math.Ceil(frac * float64(p)))
	if sub < 1 {
		sub = 1
	}

	rnd := rand.New(rand.NewSource(m.Seed))
	f := &fitted{Feats: append([]string{}, ds.Features...)}
	for t := 0; t < trees; t++ {
		// bootstrap sample
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rnd.Intn(n)
		}
		b := &treeBuilder{
			x: x, y: d.Y,
			maxDepth: depth, minLeaf: leaf,
			pick: func(total int) []int {
				if sub >= total {
					all := make([]int, total)
					for i := range all {
						all[i] = i
					}
					return all
				}
				return rnd.Perm(total)[:sub]
			},
		}
		f.Roots = append(f.Roots, b.build(idx, 0))
	}
	return f, nil
}

func (f *fitted) Features() []string { return f.Feats }

// Predict averages the per-tree estimates.
func (f *fitted) Predict(x *mat.Dense) []float64 {
	n, _ := x.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		row := mat.Row(nil, i, x)
		s := 0.0
		for _, root := range f.Roots {
			s += root.predict(row)
		}
		out[i] = s / float64(len(f.Roots))
	}
	return out
}
