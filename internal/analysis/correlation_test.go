package analysis

import (
	"math"
	"testing"
)

func TestCorrelationPerfect(t *testing.T) {
	a := make([]float64, 30)
	b := make([]float64, 30)
	for i := range a {
		a[i] = float64(i)
		b[i] = 2*float64(i) + 5
	}
	c, ok := Correlation(a, b)
	if !ok {
		t.Fatalf("expected valid correlation")
	}
	if math.Abs(c-1) > 1e-9 {
		t.Fatalf("expected 1, got %v", c)
	}
}

func TestCorrelationInverse(t *testing.T) {
	a := make([]float64, 30)
	b := make([]float64, 30)
	for i := range a {
		a[i] = float64(i)
		b[i] = -float64(i)
	}
	c, ok := Correlation(a, b)
	if !ok || math.Abs(c+1) > 1e-9 {
		t.Fatalf("expected -1, got %v (ok=%v)", c, ok)
	}
}

func TestCorrelationShortSeries(t *testing.T) {
	if _, ok := Correlation([]float64{1, 2}, []float64{2, 4}); ok {
		t.Fatalf("short overlap must be rejected")
	}
}

func TestCorrelationConstantSeries(t *testing.T) {
	a := make([]float64, 30)
	b := make([]float64, 30)
	for i := range a {
		a[i] = 5
		b[i] = float64(i)
	}
	if _, ok := Correlation(a, b); ok {
		t.Fatalf("constant series must be rejected")
	}
}

func TestCorrelateExcludesUnusableSeries(t *testing.T) {
	varied := make([]float64, 30)
	flat := make([]float64, 30)
	for i := range varied {
		varied[i] = float64(i)
		flat[i] = 3.5
	}
	m := Correlate(map[string][]float64{
		"spx":   varied,
		"flat":  flat,
		"short": {1, 2, 3},
	})
	if len(m.Labels) != 1 || m.Labels[0] != "spx" {
		t.Fatalf("unusable series must be excluded, got %v", m.Labels)
	}
}

func TestCorrelateConstantTailUndefined(t *testing.T) {
	// Both series vary overall, but the aligned 20-point tail of the
	// second is constant, so the pairwise coefficient is undefined.
	varied := make([]float64, 20)
	flatTail := make([]float64, 30)
	for i := range varied {
		varied[i] = float64(i)
	}
	for i := range flatTail {
		flatTail[i] = 7
	}
	flatTail[0] = 1

	m := Correlate(map[string][]float64{"spx": varied, "gold": flatTail})
	if len(m.Labels) != 2 {
		t.Fatalf("both series vary overall and must stay in the matrix: %v", m.Labels)
	}
	if m.Defined[0][1] || m.Defined[1][0] {
		t.Fatalf("constant aligned tail must leave the pair undefined")
	}
	if !m.Defined[0][0] || !m.Defined[1][1] {
		t.Fatalf("diagonal must be defined")
	}
}

func TestCorrelateMatrixDeterministicOrder(t *testing.T) {
	series := map[string][]float64{}
	for _, name := range []string{"spx", "gold", "btc"} {
		s := make([]float64, 30)
		for i := range s {
			s[i] = float64(i * i % 17)
		}
		series[name] = s
	}

	m := Correlate(series)
	want := []string{"btc", "gold", "spx"}
	for i, label := range want {
		if m.Labels[i] != label {
			t.Fatalf("labels not sorted: %v", m.Labels)
		}
	}
	for i := range m.Values {
		if m.Values[i][i] != 1 {
			t.Fatalf("diagonal must be 1")
		}
		for j := range m.Values[i] {
			if m.Values[i][j] != m.Values[j][i] {
				t.Fatalf("matrix must be symmetric")
			}
		}
	}
}
