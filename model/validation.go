package model

import (
	"math/rand"
	"sort"
	"strconv"

	"golang.org/x/xerrors"
)

/*
Split partitions the dataset rows into reproducible train and test tables.
When Group names a patient-id column, whole groups move together so that
multiple biopsies from one patient never straddle the boundary; otherwise
rows split independently. The same seed always yields the same partition.
*/
func (ds Dataset) Split(seed int64, testFraction float64) (train, test Dataset, err error) {
	if ds.Source == nil || ds.Source.Len() < 2 {
		err = xerrors.Errorf("need at least 2 rows to split: %w", ErrFit)
		return
	}
	if testFraction <= 0 || testFraction >= 1 {
		err = xerrors.Errorf("test fraction %v out of (0,1): %w", testFraction, ErrFit)
		return
	}
	units, err := ds.splitUnits()
	if err != nil {
		return
	}
	rnd := rand.New(rand.NewSource(seed))
	order := rnd.Perm(len(units))
	want := int(float64(ds.Source.Len()) * testFraction)
	if want < 1 {
		want = 1
	}
	var testRows, trainRows []int
	got := 0
	for _, u := range order {
		if got < want {
			testRows = append(testRows, units[u]...)
			got += len(units[u])
		} else {
			trainRows = append(trainRows, units[u]...)
		}
	}
	if len(trainRows) == 0 {
		err = xerrors.Errorf("test fraction %v leaves no training rows: %w", testFraction, ErrFit)
		return
	}
	train = ds.WithSource(ds.Source.Select(sorted(trainRows)))
	test = ds.WithSource(ds.Source.Select(sorted(testRows)))
	return
}

/*
KFold deals the dataset's split units into k reproducible folds and returns
one (train, test) pair per fold.
*/
func (ds Dataset) KFold(seed int64, k int) (pairs [][2]Dataset, err error) {
	if k < 2 {
		return nil, xerrors.Errorf("k-fold needs k >= 2, got %d: %w", k, ErrFit)
	}
	units, err := ds.splitUnits()
	if err != nil {
		return nil, err
	}
	if len(units) < k {
		return nil, xerrors.Errorf("%d split units cannot fill %d folds: %w", len(units), k, ErrFit)
	}
	rnd := rand.New(rand.NewSource(seed))
	order := rnd.Perm(len(units))
	folds := make([][]int, k)
	for i, u := range order {
		folds[i%k] = append(folds[i%k], units[u]...)
	}
	for i := 0; i < k; i++ {
		var trainRows []int
		for j := 0; j < k; j++ {
			if j != i {
				trainRows = append(trainRows, folds[j]...)
			}
		}
		pairs = append(pairs, [2]Dataset{
			ds.WithSource(ds.Source.Select(sorted(trainRows))),
			ds.WithSource(ds.Source.Select(sorted(folds[i]))),
		})
	}
	return pairs, nil
}

// splitUnits returns row index groups that must stay on one side of any
// split: one unit per patient when Group is set, one unit per row otherwise.
func (ds Dataset) splitUnits() ([][]int, error) {
	n := ds.Source.Len()
	if ds.Group == "" {
		units := make([][]int, n)
		for i := 0; i < n; i++ {
			units[i] = []int{i}
		}
		return units, nil
	}
	c := ds.Source.Col(ds.Group)
	if c == nil {
		return nil, xerrors.Errorf("group column %v absent: %w", ds.Group, ErrFit)
	}
	key := func(i int) string {
		if c.Numeric {
			return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
		}
		return c.Strings[i]
	}
	index := map[string]int{}
	var units [][]int
	for i := 0; i < n; i++ {
		k := key(i)
		if j, ok := index[k]; ok {
			units[j] = append(units[j], i)
		} else {
			index[k] = len(units)
			units = append(units, []int{i})
		}
	}
	return units, nil
}

// sorted keeps the original file order inside each partition,
// so loading and splitting stay order-preserving.
func sorted(a []int) []int {
	sort.Ints(a)
	return a
}
