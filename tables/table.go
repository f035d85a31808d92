package tables

import (
	"math"
	"strings"

	"golang.org/x/xerrors"
)

var nan = math.NaN()

/*
Table is an immutable column-oriented table of biopsy records.
One row is one spatially localized biopsy; columns are either numeric
(radiomics features, age, marker abundance) or string-typed
(sex, tumor type, institution, patient id).
*/
type Table struct {
	names []string
	cols  []Column
	index map[string]int
	rows  int
}

/*
Column is a single named column. Numeric columns keep their cells in Floats
with NaN marking a missing value; string columns keep raw cells in Strings
with "" marking a missing value.
*/
type Column struct {
	Name    string
	Numeric bool
	Floats  []float64
	Strings []string
}

// New builds a table from columns, all of equal length.
func New(cols ...Column) (*Table, error) {
	t := &Table{index: map[string]int{}}
	for i, c := range cols {
		n := len(c.Strings)
		if c.Numeric {
			n = len(c.Floats)
		}
		if i == 0 {
			t.rows = n
		} else if n != t.rows {
			return nil, xerrors.Errorf("column %v has %d rows, want %d: %w", c.Name, n, t.rows, ErrSchema)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, xerrors.Errorf("duplicate column %v: %w", c.Name, ErrSchema)
		}
		t.index[c.Name] = i
		t.names = append(t.names, c.Name)
		t.cols = append(t.cols, c)
	}
	return t, nil
}

func (t *Table) Len() int { return t.rows }

// Names returns column names in file order.
func (t *Table) Names() []string {
	return append([]string{}, t.names...)
}

func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Col returns the named column or nil when absent.
func (t *Table) Col(name string) *Column {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return &t.cols[i]
}

/*
Require fails with an ErrSchema kind naming every absent column,
so the upstream extraction schema can be corrected in one pass.
*/
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return xerrors.Errorf("required columns absent: %v: %w", strings.Join(missing, ", "), ErrSchema)
	}
	return nil
}

/*
Floats returns the cells of a numeric column. A string column is an
ErrSchema kind: radiomics estimators consume numbers only and categorical
columns must pass through an explicit encoding first.
*/
func (t *Table) Floats(name string) ([]float64, error) {
	c := t.Col(name)
	if c == nil {
		return nil, xerrors.Errorf("no column %v: %w", name, ErrSchema)
	}
	if !c.Numeric {
		return nil, xerrors.Errorf("column %v is not numeric: %w", name, ErrSchema)
	}
	return append([]float64{}, c.Floats...), nil
}

// Strings returns the raw cells of a string column.
func (t *Table) Strings(name string) ([]string, error) {
	c := t.Col(name)
	if c == nil {
		return nil, xerrors.Errorf("no column %v: %w", name, ErrSchema)
	}
	if c.Numeric {
		return nil, xerrors.Errorf("column %v is numeric: %w", name, ErrSchema)
	}
	return append([]string{}, c.Strings...), nil
}

// With returns a new table with the column appended or replaced.
func (t *Table) With(c Column) (*Table, error) {
	cols := make([]Column, 0, len(t.cols)+1)
	replaced := false
	for _, x := range t.cols {
		if x.Name == c.Name {
			cols = append(cols, c)
			replaced = true
		} else {
			cols = append(cols, x)
		}
	}
	if !replaced {
		cols = append(cols, c)
	}
	return New(cols...)
}

// Drop returns a new table without the named columns; unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	skip := map[string]bool{}
	for _, n := range names {
		skip[n] = true
	}
	cols := make([]Column, 0, len(t.cols))
	for _, c := range t.cols {
		if !skip[c.Name] {
			cols = append(cols, c)
		}
	}
	q, _ := New(cols...)
	return q
}

// Select returns a new table keeping rows[i] in order.
func (t *Table) Select(rows []int) *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		q := Column{Name: c.Name, Numeric: c.Numeric}
		if c.Numeric {
			q.Floats = make([]float64, len(rows))
			for j, r := range rows {
				q.Floats[j] = c.Floats[r]
			}
		} else {
			q.Strings = make([]string, len(rows))
			for j, r := range rows {
				q.Strings[j] = c.Strings[r]
			}
		}
		cols[i] = q
	}
	q, _ := New(cols...)
	return q
}

// Slice returns rows [lo,hi) as a new table.
func (t *Table) Slice(lo, hi int) *Table {
	rows := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		rows = append(rows, i)
	}
	return t.Select(rows)
}

// IsMissing reports whether the cell at (row, col name) is a missing value.
func (t *Table) IsMissing(name string, row int) bool {
	c := t.Col(name)
	if c == nil {
		return true
	}
	if c.Numeric {
		return math.IsNaN(c.Floats[row])
	}
	return c.Strings[row] == ""
}
