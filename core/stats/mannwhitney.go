package stats

import (
	"math"
	"sort"

	"github.com/huangsam/utilstudy/schema"
)

// MannWhitneyU runs a two-sided Mann-Whitney U test of x against y.
//
// The p-value uses the normal approximation with tie correction and a 0.5
// continuity correction. U is reported for x.
func MannWhitneyU(x, y []float64) (schema.MannWhitneyResult, error) {
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return schema.MannWhitneyResult{}, ErrEmptySample
	}

	ranks, tieTerm := rankAll(x, y)
	var r1 float64
	for i := range n1 {
		r1 += ranks[i]
	}

	fn1, fn2 := float64(n1), float64(n2)
	n := fn1 + fn2
	u1 := r1 - fn1*(fn1+1)/2
	u2 := fn1*fn2 - u1
	u := math.Max(u1, u2)

	mu := fn1 * fn2 / 2
	variance := fn1 * fn2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if variance <= 0 {
		// Every observation is tied, there is no evidence of a difference.
		return schema.MannWhitneyResult{U: u1, Z: 0, PValue: 1}, nil
	}

	z := (u - mu - 0.5) / math.Sqrt(variance)
	p := math.Erfc(z / math.Sqrt2)
	return schema.MannWhitneyResult{U: u1, Z: z, PValue: math.Min(p, 1)}, nil
}

// rankAll assigns average ranks to the pooled sample, x first, and returns the
// tie term sum(t^3 - t) over every group of equal values.
func rankAll(x, y []float64) ([]float64, float64) {
	type obs struct {
		value float64
		index int
	}
	pooled := make([]obs, 0, len(x)+len(y))
	for i, v := range x {
		pooled = append(pooled, obs{v, i})
	}
	for i, v := range y {
		pooled = append(pooled, obs{v, len(x) + i})
	}
	sort.SliceStable(pooled, func(i, j int) bool { return pooled[i].value < pooled[j].value })

	ranks := make([]float64, len(pooled))
	var tieTerm float64
	for i := 0; i < len(pooled); {
		j := i
		for j+1 < len(pooled) && pooled[j+1].value == pooled[i].value {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[pooled[k].index] = avg
		}
		if t := float64(j - i + 1); t > 1 {
			tieTerm += t*t*t - t
		}
		i = j + 1
	}
	return ranks, tieTerm
}
