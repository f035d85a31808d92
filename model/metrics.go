package model

import (
	"fmt"
	"math"

	"github.com/SARARANJBAR/Radiomics-Ki67/fu"
)

/*
Metrics is the structured evaluation result: mse, rmse = sqrt(mse), r2 and
the count of evaluated rows. R2 is NaN when the evaluation target is
constant (ssTot == 0) — a flagged result, not a failure; small biopsy
cohorts hit this with single-row holdouts.
*/
type Metrics struct {
	MSE       float64
	RMSE      float64
	R2        float64
	Evaluated int
}

// R2Defined reports whether r2 carries a defined value.
func (m Metrics) R2Defined() bool { return !math.IsNaN(m.R2) }

func (m Metrics) String() string {
	r2 := "undefined"
	if m.R2Defined() {
		r2 = fmt.Sprintf("%.5f", m.R2)
	}
	return fmt.Sprintf("mse: %.5f, rmse: %.5f, r2: %v, n: %d", m.MSE, m.RMSE, r2, m.Evaluated)
}

// Evaluate applies a fitted model to a held-out design and scores it.
func Evaluate(m PredictionModel, d *Design) Metrics {
	yhat := m.Predict(d.X)
	return Score2(d.Y, yhat)
}

// Score2 computes the metric triple from truth and prediction vectors.
func Score2(y, yhat []float64) Metrics {
	mse := fu.Mse(y, yhat)
	mean := fu.Mean(y)
	ssTot := 0.0
	for _, v := range y {
		q := v - mean
		ssTot += q * q
	}
	r2 := math.NaN()
	if ssTot > 0 {
		ssRes := 0.0
		for i, v := range y {
			q := v - yhat[i]
			ssRes += q * q
		}
		r2 = 1 - ssRes/ssTot
	}
	return Metrics{MSE: mse, RMSE: math.Sqrt(mse), R2: r2, Evaluated: len(y)}
}

/*
Score folds train and test metrics into one scalar to compare experiments;
bigger is better
*/
type Score func(train, test Metrics) float64

// RmseScore ranks by held-out rmse alone.
func RmseScore(_, test Metrics) float64 { return -test.RMSE }

// R2Score ranks by held-out r2, treating undefined r2 as the worst outcome.
func R2Score(_, test Metrics) float64 {
	if !test.R2Defined() {
		return math.Inf(-1)
	}
	return test.R2
}

// meanMetrics aggregates per-fold metrics; mse averages row-weighted,
// rmse is recomputed from the pooled mse, r2 averages over defined folds.
func meanMetrics(folds []Metrics) Metrics {
	if len(folds) == 0 {
		return Metrics{R2: math.NaN()}
	}
	var mse, r2 float64
	n, r2n := 0, 0
	for _, f := range folds {
		mse += f.MSE * float64(f.Evaluated)
		n += f.Evaluated
		if f.R2Defined() {
			r2 += f.R2
			r2n++
		}
	}
	mse /= float64(n)
	m := Metrics{MSE: mse, RMSE: math.Sqrt(mse), R2: math.NaN(), Evaluated: n}
	if r2n > 0 {
		m.R2 = r2 / float64(r2n)
	}
	return m
}
