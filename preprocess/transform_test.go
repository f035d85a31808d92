package preprocess

import (
	"math"
	"testing"

	"github.com/SARARANJBAR/Radiomics-Ki67/fu"
	"github.com/SARARANJBAR/Radiomics-Ki67/tables"
	"gotest.tools/assert"
)

func col(name string, v ...float64) tables.Column {
	return tables.Column{Name: name, Numeric: true, Floats: v}
}

func Test_YeoJohnson_Identity(t *testing.T) {
	// lambda 1 is the identity on both branches
	for _, x := range []float64{-3, -0.5, 0, 0.5, 3} {
		assert.Assert(t, math.Abs(yeoJohnson(x, 1)-x) < 1e-12)
	}
	// lambda 0 is log1p on the non-negative branch
	assert.Assert(t, math.Abs(yeoJohnson(4, 0)-math.Log(5)) < 1e-12)
}

func Test_PlanColumns_SymmetricSkips(t *testing.T) {
	q, err := tables.New(col("f", 1, 2, 3, 4, 5, 6, 7, 8))
	assert.NilError(t, err)
	plan, err := PlanColumns(q, []string{"f"})
	assert.NilError(t, err)
	assert.Equal(t, plan["f"].Kind, Skip)
}

func Test_PlanColumns_SkewedGetsFixed(t *testing.T) {
	// strongly right-skewed positive column
	v := []float64{1, 1.2, 1.1, 1.4, 1.3, 2, 2.1, 90, 120, 150}
	q, err := tables.New(col("f", v...))
	assert.NilError(t, err)
	plan, err := PlanColumns(q, []string{"f"})
	assert.NilError(t, err)
	ct := plan["f"]
	assert.Assert(t, ct.Kind != Skip)

	out, err := plan.Apply(q)
	assert.NilError(t, err)
	got, err := out.Floats("f")
	assert.NilError(t, err)
	if ct.Kind == YeoJohnson || ct.Kind == Log {
		assert.Assert(t, math.Abs(fu.Skewness(got)) < math.Abs(fu.Skewness(v)))
	} else {
		for _, x := range got {
			assert.Assert(t, x == 0 || x == 1)
		}
	}
}

func Test_Apply_Deterministic(t *testing.T) {
	v := []float64{1, 1.2, 1.1, 1.4, 1.3, 2, 2.1, 90, 120, 150}
	q, err := tables.New(col("f", v...))
	assert.NilError(t, err)
	plan, err := PlanColumns(q, []string{"f"})
	assert.NilError(t, err)
	a, err := plan.Apply(q)
	assert.NilError(t, err)
	b, err := plan.Apply(q)
	assert.NilError(t, err)
	af, _ := a.Floats("f")
	bf, _ := b.Floats("f")
	assert.DeepEqual(t, af, bf)
}

func Test_PlanTarget(t *testing.T) {
	// symmetric target stays untouched
	q, err := tables.New(col("ki67", 1, 2, 3, 4, 5, 6))
	assert.NilError(t, err)
	ct, err := PlanTarget(q, "ki67")
	assert.NilError(t, err)
	assert.Equal(t, ct.Kind, Skip)

	// skewed target with zeros takes yeo-johnson, log would blow up
	q, err = tables.New(col("ki67", 0, 0.1, 0.2, 0.1, 0.3, 0.2, 9, 14))
	assert.NilError(t, err)
	ct, err = PlanTarget(q, "ki67")
	assert.NilError(t, err)
	assert.Equal(t, ct.Kind, YeoJohnson)

	// strictly positive skewed target takes the log
	q, err = tables.New(col("ki67", 0.5, 0.6, 0.4, 0.5, 0.7, 0.6, 30, 60))
	assert.NilError(t, err)
	ct, err = PlanTarget(q, "ki67")
	assert.NilError(t, err)
	assert.Equal(t, ct.Kind, Log)

	y, err := q.Floats("ki67")
	assert.NilError(t, err)
	got := ct.ApplyVec(y)
	assert.Assert(t, math.Abs(got[0]-math.Log(0.5)) < 1e-12)
}

func Test_Binarize_UsesFittedCut(t *testing.T) {
	ct := ColumnTransform{Kind: Binarize, Cut: 2}
	assert.DeepEqual(t, ct.ApplyVec([]float64{1, 2, 3}), []float64{0, 0, 1})
}
