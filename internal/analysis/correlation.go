package analysis

import (
	"math"
	"sort"
)

// minCorrelationPoints is the smallest overlap worth reporting.
const minCorrelationPoints = 10

// Correlation computes the Pearson coefficient over the aligned tails
// of two close series. Returns (0, false) when the overlap is too short
// or either series is constant.
func Correlation(a, b []float64) (float64, bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < minCorrelationPoints {
		return 0, false
	}
	a = a[len(a)-n:]
	b = b[len(b)-n:]

	var meanA, meanB float64
	for i := 0; i < n; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varA*varB), true
}

// CorrelationMatrix is a symmetric pairwise matrix with deterministic
// label order. A cell whose pairwise computation declined (constant
// aligned tail) has Defined false and must not be read as a zero
// coefficient.
type CorrelationMatrix struct {
	Labels  []string    `json:"labels"`
	Values  [][]float64 `json:"values"`
	Defined [][]bool    `json:"defined"`
}

// Correlate builds the pairwise matrix for the named series. Labels are
// sorted so repeated runs over the same data render identically. Series
// too short or constant are excluded entirely rather than reported as a
// zero coefficient.
func Correlate(series map[string][]float64) CorrelationMatrix {
	labels := make([]string, 0, len(series))
	for name, s := range series {
		if usable(s) {
			labels = append(labels, name)
		}
	}
	sort.Strings(labels)

	values := make([][]float64, len(labels))
	defined := make([][]bool, len(labels))
	for i := range labels {
		values[i] = make([]float64, len(labels))
		defined[i] = make([]bool, len(labels))
		values[i][i] = 1
		defined[i][i] = true
	}
	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			if c, ok := Correlation(series[labels[i]], series[labels[j]]); ok {
				values[i][j] = c
				values[j][i] = c
				defined[i][j] = true
				defined[j][i] = true
			}
		}
	}
	return CorrelationMatrix{Labels: labels, Values: values, Defined: defined}
}

func usable(s []float64) bool {
	if len(s) < minCorrelationPoints {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return true
		}
	}
	return false
}
