package fu

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

func Mean(a []float64) float64 {
	var c float64
	n := 0
	for _, x := range a {
		if !math.IsNaN(x) {
			c += x
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return c / float64(n)
}

func Mse(a, b []float64) float64 {
	var c float64
	for i, x := range a {
		q := x - b[i]
		c += q * q
	}
	return c / float64(len(a))
}

func Variance(a []float64) float64 {
	m := Mean(a)
	var c float64
	n := 0
	for _, x := range a {
		if !math.IsNaN(x) {
			q := x - m
			c += q * q
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return c / float64(n)
}

// Median ignores NaN cells the way the rest of the column statistics do.
func Median(a []float64) float64 {
	v := Finite(a)
	if len(v) == 0 {
		return math.NaN()
	}
	sort.Float64s(v)
	return stat.Quantile(0.5, stat.Empirical, v, nil)
}

func Mode(a []float64) float64 {
	counts := map[float64]int{}
	best, bestn := math.NaN(), 0
	for _, x := range a {
		if math.IsNaN(x) {
			continue
		}
		counts[x]++
		if counts[x] > bestn {
			best, bestn = x, counts[x]
		}
	}
	return best
}

// Skewness is the adjusted Fisher-Pearson coefficient over the finite cells.
func Skewness(a []float64) float64 {
	v := Finite(a)
	if len(v) < 3 {
		return 0
	}
	return stat.Skew(v, nil)
}

// Finite copies a dropping NaN and Inf cells.
func Finite(a []float64) []float64 {
	v := make([]float64, 0, len(a))
	for _, x := range a {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			v = append(v, x)
		}
	}
	return v
}

func CountNaN(a []float64) int {
	n := 0
	for _, x := range a {
		if math.IsNaN(x) {
			n++
		}
	}
	return n
}

func Fnzi(a, b int) int {
	if a == 0 {
		return b
	}
	return a
}

func Fnzd(a, b float64) float64 {
	if a == 0 {
		return b
	}
	return a
}

func Maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func Mini(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Indmaxd returns the index of the maximal value.
func Indmaxd(a []float64) int {
	j := 0
	for i, x := range a {
		if x > a[j] {
			j = i
		}
	}
	return j
}
