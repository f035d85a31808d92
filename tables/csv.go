package tables

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
	"golang.org/x/xerrors"
)

// missing value tokens produced by the upstream pyradiomics export
var naTokens = map[string]bool{"": true, "NA": true, "N/A": true, "NaN": true, "nan": true, "null": true}

/*
ReadCSV loads a header-first CSV stream into a Table. A column whose every
non-missing cell parses as a float64 becomes numeric with NaN for missing
cells; any other column stays string-typed with "" for missing cells.
Inconsistent row widths abort the load with an ErrRead kind: a ragged file
means the extraction pipeline mangled its export and no partial run makes
sense downstream.
*/
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, xerrors.Errorf("malformed csv: %v: %w", err, ErrRead)
	}
	if len(recs) < 1 {
		return nil, xerrors.Errorf("empty csv, no header row: %w", ErrRead)
	}
	header := recs[0]
	rows := recs[1:]

	cols := make([]Column, len(header))
	for j, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, xerrors.Errorf("blank column name at position %d: %w", j, ErrSchema)
		}
		raw := make([]string, len(rows))
		floats := make([]float64, len(rows))
		numeric := true
		for i, rec := range rows {
			cell := strings.TrimSpace(rec[j])
			if naTokens[cell] {
				raw[i] = ""
				floats[i] = nan
				continue
			}
			raw[i] = cell
			if numeric {
				v, e := strconv.ParseFloat(cell, 64)
				if e != nil {
					numeric = false
				} else {
					floats[i] = v
				}
			}
		}
		c := Column{Name: name, Numeric: numeric}
		if numeric {
			c.Floats = floats
		} else {
			c.Strings = raw
		}
		cols[j] = c
	}
	return New(cols...)
}

/*
ReadFile loads a biopsy feature table from disk. Files with an .xz suffix
are decompressed transparently.
*/
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("cannot open %v: %v: %w", path, err, ErrRead)
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, xerrors.Errorf("cannot decompress %v: %v: %w", path, err, ErrRead)
		}
		r = xr
	}
	t, err := ReadCSV(r)
	if err != nil {
		return nil, xerrors.Errorf("%v: %w", path, err)
	}
	return t, nil
}
