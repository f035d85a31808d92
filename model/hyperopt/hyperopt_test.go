package hyperopt

import (
	"math/rand"
	"testing"

	"github.com/SARARANJBAR/Radiomics-Ki67/linear"
	"github.com/SARARANJBAR/Radiomics-Ki67/model"
	"github.com/SARARANJBAR/Radiomics-Ki67/tables"
	"golang.org/x/xerrors"
	"gotest.tools/assert"
)

func noisyLinear(t *testing.T) model.Dataset {
	rnd := rand.New(rand.NewSource(3))
	n := 40
	a := make([]float64, n)
	b := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = rnd.Float64()
		b[i] = rnd.Float64()
		y[i] = 2*a[i] - b[i] + 3 + 0.05*rnd.NormFloat64()
	}
	q, err := tables.New(
		tables.Column{Name: "a", Numeric: true, Floats: a},
		tables.Column{Name: "b", Numeric: true, Floats: b},
		tables.Column{Name: "ki67", Numeric: true, Floats: y},
	)
	assert.NilError(t, err)
	return model.Dataset{Source: q, Target: "ki67", Features: []string{"a", "b"}}
}

func Test_RandomSearch(t *testing.T) {
	s := Space{
		Dataset: noisyLinear(t),
		Seed:    13,
		Kfold:   4,
		Trials:  8,
		Variance: Variance{
			"l2": List{0.01, 0.1, 1, 100},
		},
		ModelFunc: linear.New,
	}
	report, err := s.RandomSearch()
	assert.NilError(t, err)
	assert.Assert(t, report.Params["l2"] > 0)
	// on a nearly linear problem light regularization must beat heavy
	assert.Assert(t, report.Params["l2"] < 100)
}

func Test_RandomSearch_Deterministic(t *testing.T) {
	mk := func() (*Report, error) {
		return Space{
			Dataset:   noisyLinear(t),
			Seed:      7,
			Kfold:     4,
			Trials:    6,
			Variance:  Variance{"l2": LogRange{1e-3, 1e2}},
			ModelFunc: linear.New,
		}.RandomSearch()
	}
	a, err := mk()
	assert.NilError(t, err)
	b, err := mk()
	assert.NilError(t, err)
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.Params["l2"], b.Params["l2"])
}

func Test_Distributions(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		v := Range{1, 2}.sample(rnd)
		assert.Assert(t, v >= 1 && v <= 2)
		v = LogRange{0.1, 10}.sample(rnd)
		assert.Assert(t, v >= 0.1 && v <= 10)
		v = IntRange{3, 5}.sample(rnd)
		assert.Assert(t, v == 3 || v == 4 || v == 5)
		v = List{1, 7}.sample(rnd)
		assert.Assert(t, v == 1 || v == 7)
		assert.Equal(t, Value(4).sample(rnd), 4.0)
	}
}

func Test_EmptySpace(t *testing.T) {
	_, err := Space{ModelFunc: linear.New}.RandomSearch()
	assert.Assert(t, xerrors.Is(err, model.ErrFit))
	_, err = Space{Variance: Variance{"l2": Value(1)}}.RandomSearch()
	assert.Assert(t, xerrors.Is(err, model.ErrFit))
}
