package model

import (
	"fmt"

	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"
	"golang.org/x/sync/errgroup"
)

/*
Training is the default implementation of the experiment workflow:
split reproducibly, feed the hungry model, evaluate on held-out rows.
*/
type Training struct {
	Seed         int          // seed for the split permutation
	TestFraction float64      // holdout fraction, used when KFold == 0
	KFold        int          // cross-validation folds, 0 means plain holdout
	Score        Score        // score function, RmseScore if nil
	ModelFile    iokit.Output // optional file to store the fitted model
	Verbose      func(string) // print function
}

const DefaultTestFraction = 0.2

/*
Report is an ML training report
*/
type Report struct {
	Train, Test    Metrics   // fit metrics on training and held-out rows
	Folds          []Metrics // per-fold held-out metrics when cross-validating
	Score          float64   // scalar summary per the score function
	DroppedTargets int       // rows excluded for a missing target
	Model          PredictionModel
}

/*
Run executes one experiment. With KFold == 0 a single seeded holdout split
is used; otherwise every fold is trained and evaluated on an independent
row selection, folds running in parallel, and the reported metrics pool
the folds. The final model is always refitted on all usable rows.
*/
func (t Training) Run(m HungryModel, ds Dataset) (*Report, error) {
	score := t.Score
	if score == nil {
		score = RmseScore
	}
	report := &Report{}
	if t.KFold == 0 {
		frac := t.TestFraction
		if frac == 0 {
			frac = DefaultTestFraction
		}
		train, test, err := ds.Split(int64(t.Seed), frac)
		if err != nil {
			return nil, err
		}
		fitted, trainM, testM, dropped, err := t.fold(m, train, test)
		if err != nil {
			return nil, err
		}
		report.Train, report.Test = trainM, testM
		report.DroppedTargets = dropped
		report.Model = fitted
	} else {
		pairs, err := ds.KFold(int64(t.Seed), t.KFold)
		if err != nil {
			return nil, err
		}
		trainM := make([]Metrics, len(pairs))
		testM := make([]Metrics, len(pairs))
		var g errgroup.Group
		for i := range pairs {
			i := i
			g.Go(func() error {
				_, tr, te, _, err := t.fold(m, pairs[i][0], pairs[i][1])
				if err != nil {
					return zorros.Wrapf(err, "fold %d: %v", i, err.Error())
				}
				trainM[i], testM[i] = tr, te
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		report.Train = meanMetrics(trainM)
		report.Test = meanMetrics(testM)
		report.Folds = testM

		// final model on every usable row
		d, err := ds.Design()
		if err != nil {
			return nil, err
		}
		report.DroppedTargets = d.Dropped
		fitted, err := m.Feed(ds)
		if err != nil {
			return nil, err
		}
		report.Model = fitted
	}
	report.Score = score(report.Train, report.Test)
	if t.Verbose != nil {
		t.Verbose(fmt.Sprintf("train { %v }", report.Train))
		t.Verbose(fmt.Sprintf("test  { %v }", report.Test))
		t.Verbose(fmt.Sprintf("score %.5f", report.Score))
	}
	if t.ModelFile != nil {
		if err := Memorize(t.ModelFile, report.Model); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (t Training) fold(m HungryModel, train, test Dataset) (PredictionModel, Metrics, Metrics, int, error) {
	trainD, err := train.Design()
	if err != nil {
		return nil, Metrics{}, Metrics{}, 0, err
	}
	testD, err := test.Design()
	if err != nil {
		return nil, Metrics{}, Metrics{}, 0, err
	}
	fitted, err := m.Feed(train)
	if err != nil {
		return nil, Metrics{}, Metrics{}, 0, err
	}
	return fitted, Evaluate(fitted, trainD), Evaluate(fitted, testD), trainD.Dropped + testD.Dropped, nil
}
