/*
Package hyperopt implements seeded random-search hyper-parameter
optimization over cross-validated model scores.
*/
package hyperopt

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/SARARANJBAR/Radiomics-Ki67/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

/*
Range is an open float range specified by min and max values (min,max)
*/
type Range [2]float64

/*
LogRange is an open float logarithmic range specified by min and max values (min,max)
*/
type LogRange [2]float64

/*
IntRange is a closed integer range specified by min and max values [min,max]
*/
type IntRange [2]int

/*
List is a list of possible parameter values
*/
type List []float64

/*
Value is a single value parameter
*/
type Value float64

// type limitation interface
type distribution interface {
	sample(*rand.Rand) float64
}

func (r Range) sample(rnd *rand.Rand) float64 { return r[0] + rnd.Float64()*(r[1]-r[0]) }
func (r LogRange) sample(rnd *rand.Rand) float64 {
	return math.Exp(math.Log(r[0]) + rnd.Float64()*(math.Log(r[1])-math.Log(r[0])))
}
func (r IntRange) sample(rnd *rand.Rand) float64 { return float64(r[0] + rnd.Intn(r[1]-r[0]+1)) }
func (l List) sample(rnd *rand.Rand) float64     { return l[rnd.Intn(len(l))] }
func (v Value) sample(*rand.Rand) float64        { return float64(v) }

/*
Variance is a space of hyper-parameters used by RandomSearch
*/
type Variance map[string]distribution

/*
Report is a result of hyper-parameters optimization
*/
type Report struct {
	model.Params
	Score float64
}

/*
Space is a definition of a hyper-parameters optimization space
*/
type Space struct {
	Dataset model.Dataset // experiment dataset
	Seed    int           // random seed
	Kfold   int           // count of dataset folds per trial
	Trials  int           // count of sampled parameter sets
	Score   model.Score   // function to calculate the score of train/test metrics

	// the model generation function
	ModelFunc func(model.Params) model.HungryModel

	// hyper-parameters variance
	Variance Variance
}

const defaultTrials = 20

/*
RandomSearch samples Trials parameter sets from the variance space,
cross-validates every candidate and returns the best-scoring one. Trials
run in parallel; every trial sees its own read-only dataset view, and
sampling is done up front from one seeded generator so results do not
depend on scheduling.
*/
func (s Space) RandomSearch() (*Report, error) {
	if s.ModelFunc == nil {
		return nil, xerrors.Errorf("hyperopt space has no model function: %w", model.ErrFit)
	}
	if len(s.Variance) == 0 {
		return nil, xerrors.Errorf("hyperopt space has no variance: %w", model.ErrFit)
	}
	trials := s.Trials
	if trials == 0 {
		trials = defaultTrials
	}
	names := make([]string, 0, len(s.Variance))
	for name := range s.Variance {
		names = append(names, name)
	}
	sort.Strings(names)
	rnd := rand.New(rand.NewSource(int64(s.Seed)))
	candidates := make([]model.Params, trials)
	for i := range candidates {
		p := model.Params{}
		for _, name := range names {
			p[name] = s.Variance[name].sample(rnd)
		}
		candidates[i] = p
	}

	var mu sync.Mutex
	best := &Report{Score: math.Inf(-1)}
	var g errgroup.Group
	for i := range candidates {
		i := i
		g.Go(func() error {
			t := model.Training{
				Seed:  s.Seed,
				KFold: s.Kfold,
				Score: s.Score,
			}
			report, err := t.Run(s.ModelFunc(candidates[i]), s.Dataset)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if report.Score > best.Score {
				best.Params = candidates[i]
				best.Score = report.Score
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return best, nil
}
