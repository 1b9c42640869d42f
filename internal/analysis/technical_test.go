package analysis

import (
	"math"
	"strings"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	if got := SMA(closes, 3); !almost(got, 4) {
		t.Fatalf("expected 4, got %v", got)
	}
	if got := SMA(closes, 10); got != 0 {
		t.Fatalf("short series must return 0, got %v", got)
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	if got := RSI(closes, RSIPeriod); got != 100 {
		t.Fatalf("monotonic rise must give RSI 100, got %v", got)
	}
}

func TestRSIFlat(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}
	if got := RSI(closes, RSIPeriod); got != 50 {
		t.Fatalf("flat series must give RSI 50, got %v", got)
	}
}

func TestRSITooShort(t *testing.T) {
	if got := RSI([]float64{1, 2, 3}, RSIPeriod); got != 0 {
		t.Fatalf("short series must return 0, got %v", got)
	}
}

func TestPivots(t *testing.T) {
	p := Pivots(110, 90, 100)
	if !almost(p.Pivot, 100) {
		t.Fatalf("pivot: expected 100, got %v", p.Pivot)
	}
	if !almost(p.R1, 110) || !almost(p.S1, 90) {
		t.Fatalf("r1/s1: got %v / %v", p.R1, p.S1)
	}
	if !almost(p.R2, 120) || !almost(p.S2, 80) {
		t.Fatalf("r2/s2: got %v / %v", p.R2, p.S2)
	}
}

func TestComputeTrend(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	tech := Compute(closes)
	if tech.Trend != "bullish" {
		t.Fatalf("expected bullish trend, got %q", tech.Trend)
	}
	if tech.RSISignal != "overbought" {
		t.Fatalf("expected overbought, got %q", tech.RSISignal)
	}
}

func TestComputeEmpty(t *testing.T) {
	tech := Compute(nil)
	if tech.Last != 0 || tech.Trend != "" {
		t.Fatalf("empty series must yield zero technicals: %+v", tech)
	}
}

func TestVIXAssessmentBands(t *testing.T) {
	cases := []struct {
		level float64
		want  string
	}{
		{12, "historically low"},
		{18, "normal volatility"},
		{28, "elevated volatility"},
		{40, "extreme volatility"},
	}
	for _, tc := range cases {
		got := VIXAssessment(tc.level)
		if !strings.Contains(got, tc.want) {
			t.Fatalf("VIX %.0f: got %q, want substring %q", tc.level, got, tc.want)
		}
	}
}
