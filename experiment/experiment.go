/*
Package experiment assembles the full workflow for one run: load the
biopsy feature table, fit the preprocessing plans, train the configured
estimator and evaluate it on held-out rows.
*/
package experiment

import (
	"os"

	"github.com/SARARANJBAR/Radiomics-Ki67/forest"
	"github.com/SARARANJBAR/Radiomics-Ki67/linear"
	"github.com/SARARANJBAR/Radiomics-Ki67/model"
	"github.com/SARARANJBAR/Radiomics-Ki67/preprocess"
	"github.com/SARARANJBAR/Radiomics-Ki67/tables"
	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

/*
Config is the immutable description of one experiment. Column roles are
configuration, never hardcoded: the upstream extraction pipeline owns the
schema and this file mirrors it.
*/
type Config struct {
	Dataset     string   `yaml:"dataset"`               // csv or csv.xz path
	Target      string   `yaml:"target"`                // marker abundance column
	Features    []string `yaml:"features,omitempty"`    // empty means every numeric column not otherwise claimed
	Categorical []string `yaml:"categorical,omitempty"` // clinical columns to encode
	Group       string   `yaml:"group,omitempty"`       // patient id column for leakage-aware splits
	Drop        []string `yaml:"drop,omitempty"`        // leaky or unrelated columns

	Encoding        string `yaml:"encoding,omitempty"` // label (default) or onehot
	FillMissing     bool   `yaml:"fill_missing"`
	TransformSkewed bool   `yaml:"transform_skewed"`
	TransformTarget bool   `yaml:"transform_target"`

	Estimator string             `yaml:"estimator"` // linear, ridge or forest
	Params    map[string]float64 `yaml:"params,omitempty"`

	Seed         int     `yaml:"seed"`
	TestFraction float64 `yaml:"test_fraction,omitempty"`
	KFold        int     `yaml:"kfold,omitempty"`
	ModelFile    string  `yaml:"model_file,omitempty"`
	Store        string  `yaml:"store,omitempty"` // sqlite run-log path
}

// LoadConfig reads a YAML experiment file.
func LoadConfig(path string) (c Config, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		err = xerrors.Errorf("cannot read config %v: %w", path, err)
		return
	}
	if err = yaml.Unmarshal(b, &c); err != nil {
		err = xerrors.Errorf("cannot parse config %v: %w", path, err)
		return
	}
	if c.Target == "" {
		err = xerrors.Errorf("config %v names no target column: %w", path, tables.ErrSchema)
	}
	return
}

/*
Run executes the pipeline: Loader, Splitter, Trainer, Evaluator, strictly
sequential. The returned report carries the fitted model and the metric
triple; persisting it to the run store is the caller's concern.
*/
func (c Config) Run(verbose func(string)) (*model.Report, error) {
	t, err := tables.ReadFile(c.Dataset)
	if err != nil {
		return nil, err
	}
	ds, err := c.Prepare(t)
	if err != nil {
		return nil, err
	}
	est, err := c.Hungry()
	if err != nil {
		return nil, err
	}
	training := model.Training{
		Seed:         c.Seed,
		TestFraction: c.TestFraction,
		KFold:        c.KFold,
		Verbose:      verbose,
	}
	if c.ModelFile != "" {
		training.ModelFile = iokit.File(model.Path(c.ModelFile))
	}
	report, err := training.Run(est, ds)
	if err != nil {
		return nil, zorros.Wrapf(err, "experiment on %v failed: %v", c.Dataset, err.Error())
	}
	return report, nil
}

/*
Prepare turns the raw table into a model.Dataset: drops configured
columns, applies the fill plan, encodes categorical clinical columns with
a deterministic mapping and optionally fixes skewed columns. Every plan is
fitted exactly once, so any partition of the result sees identical
encodings and transforms.
*/
func (c Config) Prepare(t *tables.Table) (ds model.Dataset, err error) {
	t = t.Drop(c.Drop...)
	if err = t.Require(c.Target); err != nil {
		return
	}
	if c.FillMissing {
		// the target never gets imputed: rows without it are excluded later
		plan := preprocess.PlanFill(t.Drop(c.Target))
		if t, err = plan.Apply(t); err != nil {
			return
		}
	}
	method := preprocess.Label
	if c.Encoding == "onehot" {
		method = preprocess.OneHot
	}
	var enc *preprocess.Encoding
	if len(c.Categorical) > 0 {
		if enc, err = preprocess.FitEncoding(t, c.Categorical, method); err != nil {
			return
		}
		if t, err = enc.Apply(t); err != nil {
			return
		}
	}

	features := c.Features
	if enc != nil {
		features = enc.FeatureNames(features)
	}
	if len(features) == 0 {
		for _, name := range t.Names() {
			col := t.Col(name)
			if col.Numeric && name != c.Target && name != c.Group {
				features = append(features, name)
			}
		}
	}
	if len(features) == 0 {
		err = xerrors.Errorf("no feature columns left after preparation: %w", tables.ErrSchema)
		return
	}

	if c.TransformSkewed {
		var plan preprocess.TransformPlan
		if plan, err = preprocess.PlanColumns(t, features); err != nil {
			return
		}
		if t, err = plan.Apply(t); err != nil {
			return
		}
	}
	if c.TransformTarget {
		var ct preprocess.ColumnTransform
		if ct, err = preprocess.PlanTarget(t, c.Target); err != nil {
			return
		}
		var y []float64
		if y, err = t.Floats(c.Target); err != nil {
			return
		}
		if t, err = t.With(tables.Column{Name: c.Target, Numeric: true, Floats: ct.ApplyVec(y)}); err != nil {
			return
		}
	}

	ds = model.Dataset{Source: t, Target: c.Target, Features: features, Group: c.Group}
	return
}

// Hungry picks the configured estimator family.
func (c Config) Hungry() (model.HungryModel, error) {
	p := model.Params(c.Params)
	switch c.Estimator {
	case "linear":
		return linear.Model{}, nil
	case "", "ridge":
		return linear.Model{L2: p.Get("l2", 1)}, nil
	case "forest":
		return forest.New(p), nil
	}
	return nil, xerrors.Errorf("unknown estimator %q: %w", c.Estimator, model.ErrFit)
}
