package analysis

// Technical indicator windows and RSI bands.
const (
	RSIPeriod     = 14
	RSIOverbought = 70.0
	RSIOversold   = 30.0

	SMAShort = 20
	SMAMid   = 50
	SMALong  = 200
)

// Technicals is the indicator set computed for one instrument's close
// series. Zero values mean the series was too short for that window.
type Technicals struct {
	Last      float64 `json:"last"`
	SMA20     float64 `json:"sma20,omitempty"`
	SMA50     float64 `json:"sma50,omitempty"`
	SMA200    float64 `json:"sma200,omitempty"`
	RSI       float64 `json:"rsi,omitempty"`
	RSISignal string  `json:"rsi_signal,omitempty"`
	Trend     string  `json:"trend,omitempty"`
}

// SMA returns the simple moving average of the last n closes, or 0 when
// the series is shorter than n.
func SMA(closes []float64, n int) float64 {
	if n <= 0 || len(closes) < n {
		return 0
	}
	sum := 0.0
	for _, c := range closes[len(closes)-n:] {
		sum += c
	}
	return sum / float64(n)
}

// RSI computes the relative strength index over the trailing period
// using simple mean gains and losses. Returns 0 when the series is too
// short. An all-gain window returns 100.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 0
	}
	tail := closes[len(closes)-period-1:]
	var gains, losses float64
	for i := 1; i < len(tail); i++ {
		delta := tail[i] - tail[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	if losses == 0 {
		if gains == 0 {
			return 50
		}
		return 100
	}
	rs := (gains / float64(period)) / (losses / float64(period))
	return 100 - 100/(1+rs)
}

// VIXAssessment maps a VIX level to a volatility reading for the
// technicals narrative.
func VIXAssessment(level float64) string {
	switch {
	case level < VIXLow:
		return "historically low volatility; complacency elevated"
	case level < VIXHigh:
		return "normal volatility; balanced risk environment"
	case level < VIXExtreme:
		return "elevated volatility; caution warranted"
	default:
		return "extreme volatility; crisis-level stress"
	}
}

// PivotPoints holds classic floor-trader support/resistance levels.
type PivotPoints struct {
	Pivot float64 `json:"pivot"`
	R1    float64 `json:"r1"`
	R2    float64 `json:"r2"`
	S1    float64 `json:"s1"`
	S2    float64 `json:"s2"`
}

// Pivots computes classic pivot levels from the prior session's range.
func Pivots(high, low, close float64) PivotPoints {
	p := (high + low + close) / 3
	return PivotPoints{
		Pivot: p,
		R1:    2*p - low,
		R2:    p + (high - low),
		S1:    2*p - high,
		S2:    p - (high - low),
	}
}

// Compute derives the full indicator set for a close series, oldest
// first. Indicators whose window exceeds the series are left zero.
func Compute(closes []float64) Technicals {
	if len(closes) == 0 {
		return Technicals{}
	}
	t := Technicals{
		Last:   closes[len(closes)-1],
		SMA20:  SMA(closes, SMAShort),
		SMA50:  SMA(closes, SMAMid),
		SMA200: SMA(closes, SMALong),
	}
	if rsi := RSI(closes, RSIPeriod); rsi > 0 {
		t.RSI = rsi
		switch {
		case rsi >= RSIOverbought:
			t.RSISignal = "overbought"
		case rsi <= RSIOversold:
			t.RSISignal = "oversold"
		default:
			t.RSISignal = "neutral"
		}
	}
	t.Trend = trend(t.Last, t.SMA20, t.SMA50)
	return t
}

func trend(last, sma20, sma50 float64) string {
	if sma20 == 0 || sma50 == 0 {
		return ""
	}
	switch {
	case last > sma20 && sma20 > sma50:
		return "bullish"
	case last < sma20 && sma20 < sma50:
		return "bearish"
	default:
		return "sideways"
	}
}
