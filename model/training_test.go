package model

import (
	"testing"

	"gonum.org/v1/gonum/mat"
	"gotest.tools/assert"
)

// meanModel predicts the training-set mean, the natural baseline.
type meanModel struct{}

type meanFitted struct {
	feats []string
	mean  float64
}

func (meanModel) Feed(ds Dataset) (PredictionModel, error) {
	d, err := ds.Design()
	if err != nil {
		return nil, err
	}
	s := 0.0
	for _, v := range d.Y {
		s += v
	}
	return &meanFitted{feats: ds.Features, mean: s / float64(len(d.Y))}, nil
}

func (m *meanFitted) Features() []string { return m.feats }

func (m *meanFitted) Predict(x *mat.Dense) []float64 {
	n, _ := x.Dims()
	out := make([]float64, n)
	for i := range out {
		out[i] = m.mean
	}
	return out
}

func Test_Training_Holdout(t *testing.T) {
	ds := Dataset{Source: loadCohort(t), Target: "ki67", Features: radiomics}
	report, err := Training{Seed: 42, TestFraction: 0.2}.Run(meanModel{}, ds)
	assert.NilError(t, err)
	assert.Assert(t, report.Model != nil)
	assert.Assert(t, report.Test.MSE >= 0)
	assert.Assert(t, !report.Test.R2Defined() || report.Test.R2 <= 1)
	assert.Equal(t, report.Score, -report.Test.RMSE)
}

func Test_Training_Reproducible(t *testing.T) {
	ds := Dataset{Source: loadCohort(t), Target: "ki67", Features: radiomics}
	a, err := Training{Seed: 1}.Run(meanModel{}, ds)
	assert.NilError(t, err)
	b, err := Training{Seed: 1}.Run(meanModel{}, ds)
	assert.NilError(t, err)
	assert.Equal(t, a.Test.MSE, b.Test.MSE)
	assert.Equal(t, a.Score, b.Score)
}

func Test_Training_KFold(t *testing.T) {
	ds := Dataset{Source: loadCohort(t), Target: "ki67", Features: radiomics}
	report, err := Training{Seed: 5, KFold: 3}.Run(meanModel{}, ds)
	assert.NilError(t, err)
	assert.Equal(t, len(report.Folds), 3)
	assert.Assert(t, report.Test.MSE > 0)
	assert.Equal(t, report.DroppedTargets, 1)
	assert.Assert(t, report.Model != nil)
}

func Test_Training_GroupedKFold(t *testing.T) {
	ds := Dataset{Source: loadCohort(t), Target: "ki67", Features: radiomics, Group: "patient"}
	report, err := Training{Seed: 5, KFold: 5, Score: R2Score}.Run(meanModel{}, ds)
	assert.NilError(t, err)
	assert.Equal(t, len(report.Folds), 5)
}

func Test_Training_Verbose(t *testing.T) {
	ds := Dataset{Source: loadCohort(t), Target: "ki67", Features: radiomics}
	var lines []string
	_, err := Training{Seed: 9, Verbose: func(s string) { lines = append(lines, s) }}.Run(meanModel{}, ds)
	assert.NilError(t, err)
	assert.Equal(t, len(lines), 3)
}
