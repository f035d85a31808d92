package preprocess

import (
	"math"
	"sort"

	"github.com/SARARANJBAR/Radiomics-Ki67/fu"
	"github.com/SARARANJBAR/Radiomics-Ki67/tables"
	"golang.org/x/xerrors"
)

// TransformKind names one way to fix a skewed column.
type TransformKind string

const (
	Skip       TransformKind = "Skip"
	YeoJohnson TransformKind = "YeoJohnson"
	Log        TransformKind = "Log"
	Binarize   TransformKind = "Binarize"
)

// skew below this magnitude counts as approximately symmetric
const skewThreshold = 0.5

/*
ColumnTransform is the fitted decision for one column. Lambda is the
Yeo-Johnson power fixed at fit time; Cut is the fit-time median used to
binarize. Both are frozen so evaluation rows transform exactly like
training rows.
*/
type ColumnTransform struct {
	Kind   TransformKind
	Lambda float64
	Cut    float64
}

// TransformPlan maps column name to its fitted transform.
type TransformPlan map[string]ColumnTransform

/*
PlanColumns decides a transform per numeric column from its skewness:
symmetric columns are kept as is; skewed columns take Yeo-Johnson when the
fitted power actually fixes the skew, a plain log when the column is
strictly positive and the log fixes it, and a median binarization when
nothing else helps.
*/
func PlanColumns(t *tables.Table, cols []string) (TransformPlan, error) {
	if len(cols) == 0 {
		return nil, xerrors.Errorf("no columns to plan transforms for: %w", tables.ErrSchema)
	}
	plan := TransformPlan{}
	for _, name := range cols {
		v, err := t.Floats(name)
		if err != nil {
			return nil, err
		}
		ct, err := planColumn(v)
		if err != nil {
			return nil, xerrors.Errorf("column %v: %w", name, err)
		}
		plan[name] = ct
	}
	return plan, nil
}

func planColumn(v []float64) (ColumnTransform, error) {
	cells := fu.Finite(v)
	if len(cells) == 0 {
		return ColumnTransform{}, xerrors.Errorf("column has no finite cells: %w", tables.ErrSchema)
	}
	if math.Abs(fu.Skewness(cells)) < skewThreshold {
		return ColumnTransform{Kind: Skip}, nil
	}
	lambda := fitLambda(cells)
	if math.Abs(fu.Skewness(yeoJohnsonAll(cells, lambda))) < skewThreshold {
		return ColumnTransform{Kind: YeoJohnson, Lambda: lambda}, nil
	}
	if allPositive(cells) {
		logged := make([]float64, len(cells))
		for i, x := range cells {
			logged[i] = math.Log(x)
		}
		if math.Abs(fu.Skewness(logged)) < skewThreshold {
			return ColumnTransform{Kind: Log}, nil
		}
	}
	return ColumnTransform{Kind: Binarize, Cut: fu.Median(cells)}, nil
}

/*
PlanTarget decides the marker-abundance transform: symmetric targets stay
untouched, targets containing zeros take Yeo-Johnson (log would blow up),
strictly positive skewed targets take the log.
*/
func PlanTarget(t *tables.Table, target string) (ColumnTransform, error) {
	v, err := t.Floats(target)
	if err != nil {
		return ColumnTransform{}, err
	}
	cells := fu.Finite(v)
	if len(cells) == 0 {
		return ColumnTransform{}, xerrors.Errorf("target %v has no finite cells: %w", tables.ErrSchema)
	}
	if math.Abs(fu.Skewness(cells)) < skewThreshold {
		return ColumnTransform{Kind: Skip}, nil
	}
	if hasZero(cells) || !allPositive(cells) {
		return ColumnTransform{Kind: YeoJohnson, Lambda: fitLambda(cells)}, nil
	}
	return ColumnTransform{Kind: Log}, nil
}

// Apply maps every planned column of t through its fitted transform.
func (p TransformPlan) Apply(t *tables.Table) (*tables.Table, error) {
	names := make([]string, 0, len(p))
	for n := range p {
		names = append(names, n)
	}
	sort.Strings(names)
	var err error
	for _, name := range names {
		ct := p[name]
		if ct.Kind == Skip {
			continue
		}
		v, e := t.Floats(name)
		if e != nil {
			return nil, e
		}
		for i, x := range v {
			if math.IsNaN(x) {
				continue
			}
			switch ct.Kind {
			case YeoJohnson:
				v[i] = yeoJohnson(x, ct.Lambda)
			case Log:
				if x <= 0 {
					return nil, xerrors.Errorf("log transform of non-positive cell %v in %v: %w", x, name, tables.ErrSchema)
				}
				v[i] = math.Log(x)
			case Binarize:
				if x <= ct.Cut {
					v[i] = 0
				} else {
					v[i] = 1
				}
			default:
				return nil, xerrors.Errorf("unknown transform %v for %v: %w", ct.Kind, name, tables.ErrSchema)
			}
		}
		if t, err = t.With(tables.Column{Name: name, Numeric: true, Floats: v}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ApplyVec maps a raw vector (typically the target) through the fitted decision.
func (ct ColumnTransform) ApplyVec(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if math.IsNaN(x) || ct.Kind == Skip {
			out[i] = x
			continue
		}
		switch ct.Kind {
		case YeoJohnson:
			out[i] = yeoJohnson(x, ct.Lambda)
		case Log:
			out[i] = math.Log(x)
		case Binarize:
			if x <= ct.Cut {
				out[i] = 0
			} else {
				out[i] = 1
			}
		}
	}
	return out
}

func yeoJohnson(x, lambda float64) float64 {
	switch {
	case x >= 0 && lambda != 0:
		return (math.Pow(x+1, lambda) - 1) / lambda
	case x >= 0:
		return math.Log1p(x)
	case lambda != 2:
		return -(math.Pow(1-x, 2-lambda) - 1) / (2 - lambda)
	default:
		return -math.Log1p(-x)
	}
}

func yeoJohnsonAll(v []float64, lambda float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = yeoJohnson(x, lambda)
	}
	return out
}

// fitLambda maximizes the Yeo-Johnson log-likelihood over a fixed grid,
// which keeps the fitted power deterministic across runs.
func fitLambda(v []float64) float64 {
	best, bestll := 1.0, math.Inf(-1)
	for lambda := -3.0; lambda <= 3.0; lambda += 0.05 {
		ll := yjLogLikelihood(v, lambda)
		if ll > bestll {
			best, bestll = lambda, ll
		}
	}
	return best
}

func yjLogLikelihood(v []float64, lambda float64) float64 {
	psi := yeoJohnsonAll(v, lambda)
	variance := fu.Variance(psi)
	if variance <= 0 || math.IsNaN(variance) {
		return math.Inf(-1)
	}
	n := float64(len(v))
	ll := -n / 2 * math.Log(variance)
	for _, x := range v {
		s := 1.0
		if x < 0 {
			s = -1
		}
		ll += (lambda - 1) * s * math.Log1p(math.Abs(x))
	}
	return ll
}

func allPositive(v []float64) bool {
	for _, x := range v {
		if x <= 0 {
			return false
		}
	}
	return true
}

func hasZero(v []float64) bool {
	for _, x := range v {
		if x == 0 {
			return true
		}
	}
	return false
}
