package model

import (
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/mat"
)

// Error kinds matched with xerrors.Is.
var (
	// ErrMissingTarget marks rows unusable for supervised fitting.
	ErrMissingTarget = xerrors.New("missing target value")
	// ErrFit marks degenerate training input the estimator cannot fit.
	ErrFit = xerrors.New("cannot fit model")
)

/*
HungryModel is an ML algorithm that grows from a dataset to predict the
marker abundance. Feed fits it and returns the trained predictor; swapping
the algorithm never touches the rest of the pipeline.
*/
type HungryModel interface {
	Feed(Dataset) (PredictionModel, error)
}

/*
PredictionModel is a fitted predictor
*/
type PredictionModel interface {
	// Features the model was fitted on, in design-matrix column order,
	// the same as Features in the training dataset
	Features() []string
	// Predict returns one marker-abundance estimate per row of x
	Predict(x *mat.Dense) []float64
}

/*
Params is a set of hyper-parameters used by hyper-parameter optimization to generate new model
*/
type Params map[string]float64

/*
Get value of the parameter by name if exists and dflt value otherwise
*/
func (p Params) Get(name string, dflt float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return dflt
}
