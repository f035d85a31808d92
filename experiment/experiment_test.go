package experiment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SARARANJBAR/Radiomics-Ki67/model"
	"github.com/SARARANJBAR/Radiomics-Ki67/tables"
	"golang.org/x/xerrors"
	"gotest.tools/assert"
)

const cohortCSV = `patient,sex,tumor_type,age_at_death,T1Gd_mean,T2_entropy,ADC_skewness,ki67
p01,F,primary,61,0.42,3.1,-0.2,12.5
p01,F,primary,61,0.55,2.9,0.1,8.0
p02,M,recurrent,NA,0.61,3.4,0.4,22.1
p02,M,recurrent,NA,0.38,2.2,-0.5,5.1
p03,F,recurrent,70,0.47,2.7,0.0,5.4
p03,F,recurrent,70,0.52,3.0,0.2,9.1
p04,M,primary,58,0.44,2.5,-0.1,11.0
p04,M,primary,58,0.58,3.2,0.3,18.3
p05,F,primary,66,0.40,2.4,-0.3,6.6
p05,F,primary,66,0.63,3.5,0.5,25.2
`

func writeCohort(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "cohort.csv")
	assert.NilError(t, os.WriteFile(path, []byte(cohortCSV), 0o644))
	return path
}

func Test_Run_EndToEnd(t *testing.T) {
	cfg := Config{
		Dataset:      writeCohort(t),
		Target:       "ki67",
		Categorical:  []string{"sex", "tumor_type"},
		Group:        "patient",
		FillMissing:  true,
		Estimator:    "ridge",
		Params:       map[string]float64{"l2": 1},
		Seed:         42,
		TestFraction: 0.2,
	}
	report, err := cfg.Run(nil)
	assert.NilError(t, err)
	assert.Assert(t, report.Test.MSE >= 0)
	assert.Assert(t, !report.Test.R2Defined() || report.Test.R2 <= 1)
	assert.Assert(t, report.Model != nil)
}

func Test_Run_KFoldForest(t *testing.T) {
	cfg := Config{
		Dataset:     writeCohort(t),
		Target:      "ki67",
		Categorical: []string{"sex"},
		FillMissing: true,
		Estimator:   "forest",
		Params:      map[string]float64{"trees": 10},
		Seed:        7,
		KFold:       3,
	}
	report, err := cfg.Run(nil)
	assert.NilError(t, err)
	assert.Equal(t, len(report.Folds), 3)
}

func Test_Prepare_FeatureAutodetect(t *testing.T) {
	q, err := tables.ReadFile(writeCohort(t))
	assert.NilError(t, err)
	cfg := Config{
		Target:      "ki67",
		Categorical: []string{"sex", "tumor_type"},
		Group:       "patient",
		FillMissing: true,
	}
	ds, err := cfg.Prepare(q)
	assert.NilError(t, err)
	// every numeric column except target and group becomes a feature:
	// age plus the three radiomics columns plus the two encoded clinical ones
	assert.Equal(t, len(ds.Features), 6)
	assert.Equal(t, ds.Group, "patient")
	d, err := ds.Design()
	assert.NilError(t, err)
	n, p := d.X.Dims()
	assert.Equal(t, n, 10)
	assert.Equal(t, p, 6)
}

func Test_Prepare_DropsLeakyColumns(t *testing.T) {
	q, err := tables.ReadFile(writeCohort(t))
	assert.NilError(t, err)
	cfg := Config{
		Target:      "ki67",
		Features:    []string{"T1Gd_mean", "T2_entropy"},
		Drop:        []string{"ADC_skewness"},
		FillMissing: true,
	}
	ds, err := cfg.Prepare(q)
	assert.NilError(t, err)
	assert.Assert(t, !ds.Source.Has("ADC_skewness"))
	assert.DeepEqual(t, ds.Features, []string{"T1Gd_mean", "T2_entropy"})
}

func Test_Run_MissingTargetColumn(t *testing.T) {
	cfg := Config{
		Dataset:   writeCohort(t),
		Target:    "mib1", // not in the schema
		Estimator: "ridge",
	}
	_, err := cfg.Run(nil)
	assert.Assert(t, xerrors.Is(err, tables.ErrSchema))
}

func Test_Hungry_Unknown(t *testing.T) {
	_, err := Config{Estimator: "svm"}.Hungry()
	assert.Assert(t, xerrors.Is(err, model.ErrFit))
}

func Test_LoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.yaml")
	assert.NilError(t, os.WriteFile(path, []byte(`
dataset: cohort.csv
target: ki67
categorical: [sex, tumor_type]
group: patient
fill_missing: true
estimator: ridge
params:
  l2: 0.5
seed: 42
kfold: 5
`), 0o644))
	cfg, err := LoadConfig(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.Target, "ki67")
	assert.Equal(t, cfg.KFold, 5)
	assert.Equal(t, cfg.Params["l2"], 0.5)
	assert.DeepEqual(t, cfg.Categorical, []string{"sex", "tumor_type"})
}

func Test_LoadConfig_NoTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.yaml")
	assert.NilError(t, os.WriteFile(path, []byte("dataset: x.csv\nestimator: ridge\n"), 0o644))
	_, err := LoadConfig(path)
	assert.Assert(t, xerrors.Is(err, tables.ErrSchema))
}
