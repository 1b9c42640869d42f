package analysis

import "testing"

func f(v float64) *float64 { return &v }

func TestClassifyRegimeStagflation(t *testing.T) {
	r := ClassifyRegime(RegimeInput{
		InflationYoY: f(4.2),
		GDPGrowth:    f(0.5),
		VIX:          f(22),
		HYSpread:     f(4.0),
	})
	if r.Regime != RegimeStagflation {
		t.Fatalf("expected stagflation, got %s", r.Regime)
	}
	if r.Confidence != 1 {
		t.Fatalf("expected full confidence, got %v", r.Confidence)
	}
}

func TestClassifyRegimeRiskOffOverrides(t *testing.T) {
	// stress overrides an otherwise benign growth/inflation mix
	r := ClassifyRegime(RegimeInput{
		InflationYoY: f(2.0),
		GDPGrowth:    f(2.8),
		VIX:          f(41),
		HYSpread:     f(2.8),
	})
	if r.Regime != RegimeRiskOff {
		t.Fatalf("expected risk_off, got %s", r.Regime)
	}
}

func TestClassifyRegimeRiskOn(t *testing.T) {
	r := ClassifyRegime(RegimeInput{
		InflationYoY: f(2.0),
		GDPGrowth:    f(3.0),
		VIX:          f(13),
		HYSpread:     f(2.7),
	})
	if r.Regime != RegimeRiskOn {
		t.Fatalf("expected risk_on, got %s", r.Regime)
	}
}

func TestClassifyRegimeDeflationary(t *testing.T) {
	r := ClassifyRegime(RegimeInput{
		InflationYoY: f(0.8),
		GDPGrowth:    f(0.2),
		VIX:          f(20),
	})
	if r.Regime != RegimeDeflationary {
		t.Fatalf("expected deflationary, got %s", r.Regime)
	}
}

func TestClassifyRegimeInflationaryExpansion(t *testing.T) {
	r := ClassifyRegime(RegimeInput{
		InflationYoY: f(3.8),
		GDPGrowth:    f(2.9),
		VIX:          f(18),
		HYSpread:     f(3.4),
	})
	if r.Regime != RegimeInflationaryExpansion {
		t.Fatalf("expected inflationary_expansion, got %s", r.Regime)
	}
}

func TestClassifyRegimeEmptyInputDefaults(t *testing.T) {
	r := ClassifyRegime(RegimeInput{})
	if r.Regime != RegimeGoldilocks {
		t.Fatalf("expected goldilocks default, got %s", r.Regime)
	}
	if r.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %v", r.Confidence)
	}
}

func TestClassifyRegimeDeterministic(t *testing.T) {
	in := RegimeInput{
		InflationYoY: f(3.2),
		GDPGrowth:    f(1.8),
		VIX:          f(28),
		HYSpread:     f(3.6),
	}
	first := ClassifyRegime(in)
	for i := 0; i < 20; i++ {
		if got := ClassifyRegime(in); got.Regime != first.Regime || got.Confidence != first.Confidence {
			t.Fatalf("classification not stable: %v vs %v", got, first)
		}
	}
}
