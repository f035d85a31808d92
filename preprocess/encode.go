package preprocess

import (
	"math"
	"sort"

	"github.com/SARARANJBAR/Radiomics-Ki67/tables"
	"golang.org/x/xerrors"
)

// ErrUnseenCategory marks a category value at apply time that the encoding
// was never fitted on. Assigning it a fresh code would silently diverge
// train and evaluation partitions, so it is a hard error instead.
var ErrUnseenCategory = xerrors.New("unseen category")

// Method selects how categorical clinical columns become numeric.
type Method int

const (
	Label Method = iota
	OneHot
)

/*
Encoding is a deterministic category-to-code mapping fitted once and applied
identically to every partition. Levels are ordered lexicographically at fit
time, so the same value always receives the same code regardless of the row
order it was encountered in.
*/
type Encoding struct {
	Method Method
	Levels map[string][]string
}

/*
FitEncoding collects the category levels of the given string columns.
Missing cells do not become a level; they stay missing after Apply.
*/
func FitEncoding(t *tables.Table, cols []string, method Method) (*Encoding, error) {
	e := &Encoding{Method: method, Levels: map[string][]string{}}
	for _, name := range cols {
		cells, err := t.Strings(name)
		if err != nil {
			return nil, err
		}
		seen := map[string]bool{}
		for _, v := range cells {
			if v != "" {
				seen[v] = true
			}
		}
		levels := make([]string, 0, len(seen))
		for v := range seen {
			levels = append(levels, v)
		}
		sort.Strings(levels)
		if len(levels) == 0 {
			return nil, xerrors.Errorf("column %v has no category levels: %w", name, tables.ErrSchema)
		}
		e.Levels[name] = levels
	}
	return e, nil
}

func (e *Encoding) code(name, v string) (float64, error) {
	for i, l := range e.Levels[name] {
		if l == v {
			return float64(i), nil
		}
	}
	return 0, xerrors.Errorf("column %v value %q: %w", name, v, ErrUnseenCategory)
}

/*
Apply replaces every encoded string column with numeric columns. Label
encoding keeps the column name and writes the level index; one-hot encoding
drops the column and adds one 0/1 column per level named col_level. Missing
cells become NaN (all-NaN across the level columns for one-hot).
*/
func (e *Encoding) Apply(t *tables.Table) (*tables.Table, error) {
	names := make([]string, 0, len(e.Levels))
	for n := range e.Levels {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, name := range names {
		cells, err := t.Strings(name)
		if err != nil {
			return nil, err
		}
		switch e.Method {
		case OneHot:
			t = t.Drop(name)
			for li, level := range e.Levels[name] {
				col := tables.Column{Name: name + "_" + level, Numeric: true, Floats: make([]float64, len(cells))}
				for i, v := range cells {
					switch {
					case v == "":
						col.Floats[i] = math.NaN()
					case v == level:
						col.Floats[i] = 1
					default:
						if _, err := e.code(name, v); err != nil && li == 0 {
							return nil, err
						}
						col.Floats[i] = 0
					}
				}
				if t, err = t.With(col); err != nil {
					return nil, err
				}
			}
		default:
			col := tables.Column{Name: name, Numeric: true, Floats: make([]float64, len(cells))}
			for i, v := range cells {
				if v == "" {
					col.Floats[i] = math.NaN()
					continue
				}
				c, err := e.code(name, v)
				if err != nil {
					return nil, err
				}
				col.Floats[i] = c
			}
			if t, err = t.With(col); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

/*
FeatureNames maps the configured feature columns through the encoding:
one-hot encoded columns expand into their per-level names, everything else
passes through. The result is the feature list estimators actually see.
*/
func (e *Encoding) FeatureNames(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		levels, ok := e.Levels[f]
		if ok && e.Method == OneHot {
			for _, l := range levels {
				out = append(out, f+"_"+l)
			}
			continue
		}
		out = append(out, f)
	}
	return out
}
