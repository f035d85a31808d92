package preprocess

import (
	"math"
	"strings"
	"testing"

	"github.com/SARARANJBAR/Radiomics-Ki67/tables"
	"gotest.tools/assert"
)

const sparse = `sex,age_at_death,flaky,ki67
F,61,1,12.5
M,,2,8.0
,NA,NA,22.1
,70,NA,5.4
M,65,NA,7.7
F,62,NA,9.9
`

func Test_PlanFill(t *testing.T) {
	q, err := tables.ReadCSV(strings.NewReader(sparse))
	assert.NilError(t, err)
	p := PlanFill(q)

	// age_at_death misses 2/6 < 50%: filled with the cohort median
	fill, ok := p.NumericFill["age_at_death"]
	assert.Assert(t, ok)
	assert.Equal(t, fill, 62.0)

	// flaky misses 4/6 >= 50%: dropped outright
	assert.DeepEqual(t, p.DropColumns, []string{"flaky"})

	// sex misses 2/6 >= 30%: missing becomes its own level
	assert.Equal(t, p.CategoricalFill["sex"], UnknownLevel)
}

func Test_FillPlan_Apply(t *testing.T) {
	q, err := tables.ReadCSV(strings.NewReader(sparse))
	assert.NilError(t, err)
	p := PlanFill(q)
	out, err := p.Apply(q)
	assert.NilError(t, err)

	assert.Assert(t, !out.Has("flaky"))
	age, err := out.Floats("age_at_death")
	assert.NilError(t, err)
	for _, v := range age {
		assert.Assert(t, !math.IsNaN(v))
	}
	sex, err := out.Strings("sex")
	assert.NilError(t, err)
	for _, v := range sex {
		assert.Assert(t, v != "")
	}
	assert.Equal(t, sex[2], UnknownLevel)
}

func Test_FillPlan_ConsistentAcrossPartitions(t *testing.T) {
	q, err := tables.ReadCSV(strings.NewReader(sparse))
	assert.NilError(t, err)
	p := PlanFill(q)
	a, err := p.Apply(q.Slice(0, 3))
	assert.NilError(t, err)
	b, err := p.Apply(q.Slice(3, 6))
	assert.NilError(t, err)
	// both partitions receive the same frozen fill value
	af, _ := a.Floats("age_at_death")
	bf, _ := b.Floats("age_at_death")
	assert.Equal(t, af[1], 62.0)
	assert.Equal(t, bf[0], 70.0) // observed cell untouched
	assert.Equal(t, bf[1], 65.0)
}
