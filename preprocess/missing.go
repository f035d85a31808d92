package preprocess

import (
	"fmt"
	"math"
	"sort"

	"github.com/SARARANJBAR/Radiomics-Ki67/fu"
	"github.com/SARARANJBAR/Radiomics-Ki67/tables"
	"go-ml.dev/pkg/zorros/zlog"
)

// missingness thresholds, decided on the training cohort and frozen
const (
	catMissThreshold = 0.3 // categorical: at or above this, missing becomes its own level
	numMissThreshold = 0.5 // numeric: at or above this, the column is dropped
)

// UnknownLevel is the category written for heavily missing categorical cells.
const UnknownLevel = "Unknown"

/*
FillPlan records what to do with every column that has missing cells:
numeric columns get their training-cohort median unless missing dominates,
in which case the column is dropped outright; categorical columns get the
modal level, or the explicit Unknown level when missing dominates.
*/
type FillPlan struct {
	NumericFill     map[string]float64
	CategoricalFill map[string]string
	DropColumns     []string
}

// PlanFill inspects every column of the training table for missing cells.
func PlanFill(t *tables.Table) *FillPlan {
	p := &FillPlan{NumericFill: map[string]float64{}, CategoricalFill: map[string]string{}}
	n := float64(t.Len())
	for _, name := range t.Names() {
		c := t.Col(name)
		if c.Numeric {
			miss := float64(fu.CountNaN(c.Floats))
			if miss == 0 {
				continue
			}
			if miss/n >= numMissThreshold {
				p.DropColumns = append(p.DropColumns, name)
			} else {
				p.NumericFill[name] = fu.Median(c.Floats)
			}
			continue
		}
		miss := 0.0
		for _, v := range c.Strings {
			if v == "" {
				miss++
			}
		}
		if miss == 0 {
			continue
		}
		if miss/n >= catMissThreshold {
			p.CategoricalFill[name] = UnknownLevel
		} else {
			p.CategoricalFill[name] = mode(c.Strings)
		}
	}
	if len(p.NumericFill)+len(p.CategoricalFill)+len(p.DropColumns) > 0 {
		zlog.Info(fmt.Sprintf("fill plan: %d numeric fills, %d categorical fills, %d dropped columns",
			len(p.NumericFill), len(p.CategoricalFill), len(p.DropColumns)))
	}
	return p
}

// Apply fills or drops per the fitted plan and returns the new table.
func (p *FillPlan) Apply(t *tables.Table) (*tables.Table, error) {
	t = t.Drop(p.DropColumns...)
	var err error
	for _, name := range sortedKeysF(p.NumericFill) {
		if !t.Has(name) {
			continue
		}
		v, e := t.Floats(name)
		if e != nil {
			return nil, e
		}
		for i, x := range v {
			if math.IsNaN(x) {
				v[i] = p.NumericFill[name]
			}
		}
		if t, err = t.With(tables.Column{Name: name, Numeric: true, Floats: v}); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeysS(p.CategoricalFill) {
		if !t.Has(name) {
			continue
		}
		v, e := t.Strings(name)
		if e != nil {
			return nil, e
		}
		for i, x := range v {
			if x == "" {
				v[i] = p.CategoricalFill[name]
			}
		}
		if t, err = t.With(tables.Column{Name: name, Strings: v}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func mode(v []string) string {
	counts := map[string]int{}
	best, bestn := "", 0
	for _, x := range v {
		if x == "" {
			continue
		}
		counts[x]++
		if counts[x] > bestn || (counts[x] == bestn && x < best) {
			best, bestn = x, counts[x]
		}
	}
	return best
}

func sortedKeysF(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysS(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
