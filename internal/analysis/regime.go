package analysis

import "fmt"

// Macro regime thresholds, in percent (VIX in index points).
const (
	InflationHigh = 3.0
	InflationLow  = 1.5
	GrowthHigh    = 2.5
	GrowthLow     = 1.0
	VIXLow        = 15.0
	VIXHigh       = 25.0
	VIXExtreme    = 35.0
	HYTight       = 3.0
	HYWide        = 5.0
)

// Regime is the classified macro environment.
type Regime string

const (
	RegimeGoldilocks            Regime = "goldilocks"
	RegimeInflationaryExpansion Regime = "inflationary_expansion"
	RegimeStagflation           Regime = "stagflation"
	RegimeDeflationary          Regime = "deflationary"
	RegimeRiskOff               Regime = "risk_off"
	RegimeRiskOn                Regime = "risk_on"
)

// RegimeInput carries the classifier's readings. Nil means the series
// was unavailable; the classifier degrades rather than fails.
type RegimeInput struct {
	InflationYoY *float64
	GDPGrowth    *float64
	VIX          *float64
	HYSpread     *float64
}

// RegimeResult is the classification with its supporting evidence.
type RegimeResult struct {
	Regime     Regime   `json:"regime"`
	Confidence float64  `json:"confidence"`
	Drivers    []string `json:"drivers"`
}

// ClassifyRegime maps the macro readings onto one regime. The function
// is total and deterministic: every input, including an entirely empty
// one, yields exactly one regime. With no readings at all the result
// defaults to goldilocks at zero confidence.
func ClassifyRegime(in RegimeInput) RegimeResult {
	available := 0
	var drivers []string

	// Market stress overrides the growth/inflation matrix.
	stressed := false
	if in.VIX != nil {
		available++
		switch {
		case *in.VIX >= VIXExtreme:
			stressed = true
			drivers = append(drivers, fmt.Sprintf("VIX %.1f at extreme levels", *in.VIX))
		case *in.VIX >= VIXHigh:
			drivers = append(drivers, fmt.Sprintf("VIX %.1f elevated", *in.VIX))
		}
	}
	if in.HYSpread != nil {
		available++
		switch {
		case *in.HYSpread >= HYWide:
			stressed = true
			drivers = append(drivers, fmt.Sprintf("high-yield spread %.2f%% wide", *in.HYSpread))
		case *in.HYSpread <= HYTight:
			drivers = append(drivers, fmt.Sprintf("high-yield spread %.2f%% tight", *in.HYSpread))
		}
	}
	if in.InflationYoY != nil {
		available++
	}
	if in.GDPGrowth != nil {
		available++
	}

	confidence := float64(available) / 4

	if stressed {
		return RegimeResult{Regime: RegimeRiskOff, Confidence: confidence, Drivers: drivers}
	}

	inflHigh := in.InflationYoY != nil && *in.InflationYoY >= InflationHigh
	inflLow := in.InflationYoY != nil && *in.InflationYoY < InflationLow
	growthWeak := in.GDPGrowth != nil && *in.GDPGrowth < GrowthLow
	growthStrong := in.GDPGrowth != nil && *in.GDPGrowth >= GrowthHigh

	if in.InflationYoY != nil {
		drivers = append(drivers, fmt.Sprintf("inflation %.1f%% YoY", *in.InflationYoY))
	}
	if in.GDPGrowth != nil {
		drivers = append(drivers, fmt.Sprintf("GDP growth %.1f%%", *in.GDPGrowth))
	}

	regime := RegimeGoldilocks
	switch {
	case inflHigh && growthWeak:
		regime = RegimeStagflation
	case inflHigh:
		regime = RegimeInflationaryExpansion
	case inflLow && growthWeak:
		regime = RegimeDeflationary
	case growthStrong && calmMarkets(in):
		regime = RegimeRiskOn
	}

	return RegimeResult{Regime: regime, Confidence: confidence, Drivers: drivers}
}

func calmMarkets(in RegimeInput) bool {
	if in.VIX == nil || *in.VIX >= VIXHigh {
		return false
	}
	return in.HYSpread == nil || *in.HYSpread <= HYTight
}
