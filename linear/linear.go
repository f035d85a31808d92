/*
Package linear implements ordinary least squares and ridge regression
on the gonum dense-matrix kernel.
*/
package linear

import (
	"math"

	"github.com/SARARANJBAR/Radiomics-Ki67/model"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/mat"
)

/*
Model is a linear estimator of marker abundance. L2 = 0 gives plain least
squares; a positive L2 stabilizes the solve on collinear radiomics
features, which small biopsy cohorts produce routinely.
*/
type Model struct {
	L2 float64
}

// New builds a ridge model from a hyper-parameter bag.
func New(p model.Params) model.HungryModel {
	return Model{L2: p.Get("l2", 0)}
}

type fitted struct {
	Feats     []string  `json:"features"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

/*
Feed fits the estimator. Zero-variance feature columns and singular
systems are ErrFit kinds: they mean the design is degenerate, not that
the pipeline is broken.
*/
func (m Model) Feed(ds model.Dataset) (model.PredictionModel, error) {
	d, err := ds.Design()
	if err != nil {
		return nil, err
	}
	n, p := d.X.Dims()
	if m.L2 == 0 && n < p+1 {
		return nil, xerrors.Errorf("%d rows cannot determine %d weights: %w", n, p+1, model.ErrFit)
	}
	for j := 0; j < p; j++ {
		if variance(mat.Col(nil, j, d.X)) == 0 {
			return nil, xerrors.Errorf("feature %v has zero variance: %w", ds.Features[j], model.ErrFit)
		}
	}

	// augment with an intercept column and solve the regularized normal
	// equations; the intercept is never penalized
	a := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		a.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			a.Set(i, j+1, d.X.At(i, j))
		}
	}
	y := mat.NewVecDense(n, d.Y)

	var ata mat.Dense
	ata.Mul(a.T(), a)
	for j := 1; j <= p; j++ {
		ata.Set(j, j, ata.At(j, j)+m.L2)
	}
	var aty mat.VecDense
	aty.MulVec(a.T(), y)

	var w mat.VecDense
	if err := w.SolveVec(&ata, &aty); err != nil {
		return nil, xerrors.Errorf("singular design matrix: %v: %w", err, model.ErrFit)
	}
	weights := make([]float64, p)
	for j := 0; j < p; j++ {
		weights[j] = w.AtVec(j + 1)
	}
	return &fitted{Feats: append([]string{}, ds.Features...), Weights: weights, Intercept: w.AtVec(0)}, nil
}

func (f *fitted) Features() []string { return f.Feats }

func (f *fitted) Predict(x *mat.Dense) []float64 {
	n, _ := x.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		s := f.Intercept
		for j, w := range f.Weights {
			s += w * x.At(i, j)
		}
		out[i] = s
	}
	return out
}

func variance(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		m += x
	}
	m /= float64(len(v))
	c := 0.0
	for _, x := range v {
		q := x - m
		c += q * q
	}
	if math.IsNaN(c) {
		return 0
	}
	return c / float64(len(v))
}
