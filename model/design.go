package model

import (
	"fmt"
	"math"

	"github.com/SARARANJBAR/Radiomics-Ki67/fu"
	"github.com/SARARANJBAR/Radiomics-Ki67/tables"
	"go-ml.dev/pkg/zorros/zlog"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/mat"
)

/*
Design is the row-aligned numeric view of a dataset: X is the feature
matrix, Y the target vector, Rows the source-table row of each design row.
Dropped counts the rows excluded for a missing target.
*/
type Design struct {
	X       *mat.Dense
	Y       []float64
	Rows    []int
	Dropped int
}

/*
Design validates the column roles and assembles (X, y). The target column
must exist and be numeric before any fit is attempted; feature columns must
be numeric and fully observed (missing feature cells mean no fill plan ran,
which would make train and evaluation silently inconsistent). Rows without
a target are excluded and counted, or rejected outright when ds.Strict.
*/
func (ds Dataset) Design() (*Design, error) {
	if ds.Source == nil {
		return nil, xerrors.Errorf("dataset has no source table: %w", ErrMissingTarget)
	}
	if err := ds.Source.Require(append([]string{ds.Target}, ds.Features...)...); err != nil {
		return nil, err
	}
	y, err := ds.Source.Floats(ds.Target)
	if err != nil {
		return nil, err
	}
	cols := make([][]float64, len(ds.Features))
	for j, name := range ds.Features {
		v, err := ds.Source.Floats(name)
		if err != nil {
			return nil, err
		}
		if n := fu.CountNaN(v); n > 0 {
			return nil, xerrors.Errorf("feature %v has %d missing cells, apply a fill plan first: %w",
				name, n, tables.ErrSchema)
		}
		cols[j] = v
	}

	rows := make([]int, 0, len(y))
	for i, t := range y {
		if math.IsNaN(t) {
			if ds.Strict {
				return nil, xerrors.Errorf("row %d has no %v value: %w", i, ds.Target, ErrMissingTarget)
			}
			continue
		}
		rows = append(rows, i)
	}
	dropped := len(y) - len(rows)
	if dropped > 0 {
		zlog.Warning(fmt.Sprintf("excluded %d of %d rows with missing %v", dropped, len(y), ds.Target))
	}
	if len(rows) == 0 {
		return nil, xerrors.Errorf("no rows carry a %v value: %w", ds.Target, ErrMissingTarget)
	}

	x := mat.NewDense(len(rows), len(ds.Features), nil)
	yy := make([]float64, len(rows))
	for i, r := range rows {
		for j := range cols {
			x.Set(i, j, cols[j][r])
		}
		yy[i] = y[r]
	}
	return &Design{X: x, Y: yy, Rows: rows, Dropped: dropped}, nil
}
