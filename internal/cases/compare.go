package cases

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// majorShare marks ids drawn at least this often in either run.
	majorShare = 0.05
	// maxMajorDiff is the largest frequency gap tolerated on a major id.
	maxMajorDiff = 0.1
	// matchPrefix is how many leading samples are compared one by one.
	matchPrefix = 10
)

// Comparison reports how closely two results for the same case agree.
type Comparison struct {
	Case    string
	Similar bool
	Reason  string
	MaxDiff float64
	PValue  float64
	// Matches counts equal draws among the first few samples. Independent
	// random streams rarely agree, so it is informational only.
	Matches  int
	Compared int
}

func (c Comparison) String() string {
	if c.Reason != "" {
		return fmt.Sprintf("%s: %s", c.Case, c.Reason)
	}
	return fmt.Sprintf("%s: max diff %.3f, p-value %.3f, sample matches %d/%d",
		c.Case, c.MaxDiff, c.PValue, c.Matches, c.Compared)
}

// Compare matches results by case name and compares each pair. Cases present
// in want but missing from got are reported as not similar.
func Compare(want, got []Result) []Comparison {
	byName := make(map[string]Result, len(got))
	for _, r := range got {
		byName[r.Case] = r
	}

	out := make([]Comparison, 0, len(want))
	for _, w := range want {
		g, ok := byName[w.Case]
		if !ok {
			out = append(out, Comparison{Case: w.Case, Reason: "no corresponding result"})
			continue
		}
		out = append(out, CompareResult(w, g))
	}
	return out
}

// CompareResult compares two distributions of the same case. Both are
// smoothed by one count over the ids drawn in either run and tested with a
// chi-square goodness of fit, but only the frequency gap on major ids
// decides similarity.
func CompareResult(want, got Result) Comparison {
	cmp := Comparison{Case: want.Case}

	n := min(len(want.Samples), len(got.Samples), matchPrefix)
	for i := 0; i < n; i++ {
		if want.Samples[i] == got.Samples[i] {
			cmp.Matches++
		}
	}
	cmp.Compared = n

	a, b := want.Distribution, got.Distribution
	if len(a) != len(b) {
		cmp.Reason = fmt.Sprintf("distribution lengths differ (%d vs %d)", len(a), len(b))
		return cmp
	}

	var exp, obs []float64
	var totalA, totalB float64
	for i := range a {
		totalA += float64(a[i])
		totalB += float64(b[i])
		if a[i] > 0 || b[i] > 0 {
			exp = append(exp, float64(a[i]+1))
			obs = append(obs, float64(b[i]+1))
		}
	}
	if len(exp) == 0 {
		cmp.Similar = true
		cmp.Reason = "no samples in either distribution"
		return cmp
	}
	if totalA == 0 || totalB == 0 {
		cmp.Reason = "one distribution is empty"
		return cmp
	}

	cmp.PValue = chiSquarePValue(obs, exp)

	for i := range a {
		pa := float64(a[i]) / totalA
		pb := float64(b[i]) / totalB
		if pa > majorShare || pb > majorShare {
			cmp.MaxDiff = math.Max(cmp.MaxDiff, math.Abs(pa-pb))
		}
	}
	cmp.Similar = cmp.MaxDiff < maxMajorDiff
	return cmp
}

// chiSquarePValue rescales exp to the total of obs before testing.
func chiSquarePValue(obs, exp []float64) float64 {
	if len(obs) < 2 {
		return 1
	}
	scale := stat.Mean(obs, nil) / stat.Mean(exp, nil)
	scaled := make([]float64, len(exp))
	for i, e := range exp {
		scaled[i] = e * scale
	}
	chi := stat.ChiSquare(obs, scaled)
	return 1 - distuv.ChiSquared{K: float64(len(obs) - 1)}.CDF(chi)
}
