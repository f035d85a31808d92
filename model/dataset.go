package model

import (
	"github.com/SARARANJBAR/Radiomics-Ki67/tables"
)

/*
Dataset is an abstraction of one experiment's input to feed hungry models
*/
type Dataset struct {
	Source   *tables.Table // biopsy feature table, already encoded and filled
	Target   string        // name of the numeric marker-abundance column
	Features []string      // names of numeric feature columns, in design-matrix order
	Group    string        // optional patient-id column; groups never straddle a split
	Strict   bool          // error on rows missing the target instead of excluding them
}

// WithSource keeps the column roles and swaps the table, used by splitters.
func (ds Dataset) WithSource(t *tables.Table) Dataset {
	ds.Source = t
	return ds
}
