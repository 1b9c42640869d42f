package report

import (
	"fmt"
	"strings"

	"MarketPulse/internal/analysis"
	"MarketPulse/internal/domain/models"
)

// Canonical section names, in assembly order.
const (
	SectionPulse        = "pulse"
	SectionMacro        = "macro"
	SectionAssets       = "assets"
	SectionSentiment    = "sentiment"
	SectionTechnicals   = "technicals"
	SectionCorrelations = "correlations"
	SectionResearch     = "research"
	SectionForward      = "forward"
)

func equities(snapshots map[models.Domain]models.Snapshot) *models.EquitiesPayload {
	if s, ok := snapshots[models.DomainEquities]; ok {
		if p, ok := s.Payload.(*models.EquitiesPayload); ok {
			return p
		}
	}
	return nil
}

func fx(snapshots map[models.Domain]models.Snapshot) *models.FXPayload {
	if s, ok := snapshots[models.DomainFX]; ok {
		if p, ok := s.Payload.(*models.FXPayload); ok {
			return p
		}
	}
	return nil
}

func commodities(snapshots map[models.Domain]models.Snapshot) *models.CommoditiesPayload {
	if s, ok := snapshots[models.DomainCommodities]; ok {
		if p, ok := s.Payload.(*models.CommoditiesPayload); ok {
			return p
		}
	}
	return nil
}

func crypto(snapshots map[models.Domain]models.Snapshot) *models.CryptoPayload {
	if s, ok := snapshots[models.DomainCrypto]; ok {
		if p, ok := s.Payload.(*models.CryptoPayload); ok {
			return p
		}
	}
	return nil
}

func macro(snapshots map[models.Domain]models.Snapshot) *models.MacroPayload {
	if s, ok := snapshots[models.DomainMacro]; ok {
		if p, ok := s.Payload.(*models.MacroPayload); ok {
			return p
		}
	}
	return nil
}

func sentiment(snapshots map[models.Domain]models.Snapshot) *models.SentimentPayload {
	if s, ok := snapshots[models.DomainSentiment]; ok {
		if p, ok := s.Payload.(*models.SentimentPayload); ok {
			return p
		}
	}
	return nil
}

func pulseSection(snapshots map[models.Domain]models.Snapshot, regime analysis.RegimeResult) models.Section {
	var lines []string
	lines = append(lines, fmt.Sprintf("Macro regime reads %s (confidence %.0f%%).",
		strings.ReplaceAll(string(regime.Regime), "_", " "), regime.Confidence*100))

	if eq := equities(snapshots); eq != nil {
		if eq.SPX != nil {
			lines = append(lines, fmt.Sprintf("S&P 500 at %.2f, %+.2f%% on the day.", eq.SPX.Price, eq.SPX.ChangePct))
		}
		if eq.VIX != nil {
			lines = append(lines, fmt.Sprintf("VIX at %.1f.", eq.VIX.Price))
		}
	}
	if c := crypto(snapshots); c != nil && c.Bitcoin != nil {
		lines = append(lines, fmt.Sprintf("Bitcoin at $%.0f, %+.1f%% over 24h, fear/greed %d (%s).",
			c.Bitcoin.PriceUSD, c.Bitcoin.ChangePct24h, c.FearGreed, c.FearGreedLabel))
	}
	if f := fx(snapshots); f != nil && f.USDBias != "" {
		lines = append(lines, fmt.Sprintf("Dollar bias %s across majors.", f.USDBias))
	}
	if cm := commodities(snapshots); cm != nil && cm.Gold != nil {
		lines = append(lines, fmt.Sprintf("Gold at $%.1f, %+.2f%%.", cm.Gold.Price, cm.Gold.ChangePct))
	}

	return models.Section{
		Name:      SectionPulse,
		Title:     "Market Pulse",
		Domains:   []models.Domain{models.DomainEquities, models.DomainFX, models.DomainCommodities, models.DomainCrypto, models.DomainMacro},
		Body:      strings.Join(lines, " "),
		Narrative: true,
	}
}

func macroSection(snapshots map[models.Domain]models.Snapshot, regime analysis.RegimeResult) models.Section {
	sec := models.Section{
		Name:    SectionMacro,
		Title:   "Macro Environment",
		Domains: []models.Domain{models.DomainMacro},
		Rows:    [][]string{{"Indicator", "Value"}},
	}

	m := macro(snapshots)
	if m != nil {
		add := func(name string, v *float64, unit string) {
			if v != nil {
				sec.Rows = append(sec.Rows, []string{name, fmt.Sprintf("%.2f%s", *v, unit)})
			}
		}
		add("CPI YoY", m.CPIYoY, "%")
		add("Core PCE YoY", m.CorePCEYoY, "%")
		add("GDP Growth", m.GDPGrowth, "%")
		add("Unemployment", m.Unemployment, "%")
		add("Fed Funds Rate", m.FedFunds, "%")
		add("2Y Treasury", m.Treasury2Y, "%")
		add("10Y Treasury", m.Treasury10Y, "%")
		add("2s10s Spread", m.Spread2s10s, "%")
		add("HY Spread", m.HYSpread, "%")
	}
	if len(regime.Drivers) > 0 {
		sec.Body = "Regime drivers: " + strings.Join(regime.Drivers, "; ") + "."
	}
	return sec
}

func assetsSection(snapshots map[models.Domain]models.Snapshot) models.Section {
	sec := models.Section{
		Name:    SectionAssets,
		Title:   "Asset Classes",
		Domains: []models.Domain{models.DomainEquities, models.DomainFX, models.DomainCommodities, models.DomainCrypto},
		Rows:    [][]string{{"Asset", "Price", "Change %"}},
	}
	addQuote := func(q *models.Quote) {
		if q != nil {
			sec.Rows = append(sec.Rows, []string{q.Name, fmt.Sprintf("%.2f", q.Price), fmt.Sprintf("%+.2f", q.ChangePct)})
		}
	}

	if eq := equities(snapshots); eq != nil {
		addQuote(eq.SPX)
		addQuote(eq.Nasdaq)
		addQuote(eq.Dow)
		addQuote(eq.Russell2000)
		addQuote(eq.VIX)
	}
	if f := fx(snapshots); f != nil {
		addQuote(f.DXY)
		addQuote(f.EURUSD)
		addQuote(f.USDJPY)
	}
	if cm := commodities(snapshots); cm != nil {
		addQuote(cm.Gold)
		addQuote(cm.WTICrude)
		addQuote(cm.Copper)
	}
	if c := crypto(snapshots); c != nil {
		addCrypto := func(q *models.CryptoQuote) {
			if q != nil {
				sec.Rows = append(sec.Rows, []string{q.Name, fmt.Sprintf("%.2f", q.PriceUSD), fmt.Sprintf("%+.2f", q.ChangePct24h)})
			}
		}
		addCrypto(c.Bitcoin)
		addCrypto(c.Ethereum)
		addCrypto(c.Solana)
	}
	return sec
}

func sentimentSection(snapshots map[models.Domain]models.Snapshot) models.Section {
	sec := models.Section{
		Name:    SectionSentiment,
		Title:   "Social Sentiment",
		Domains: []models.Domain{models.DomainSentiment},
		Rows:    [][]string{{"Metric", "Value"}},
	}
	s := sentiment(snapshots)
	if s == nil {
		return sec
	}
	sec.Rows = append(sec.Rows,
		[]string{"Overall Score", fmt.Sprintf("%+.2f", s.OverallScore)},
		[]string{"Bullish Ratio", fmt.Sprintf("%.0f%%", s.BullishRatio*100)},
		[]string{"Posts Analyzed", fmt.Sprintf("%d", s.PostsAnalyzed)},
		[]string{"Communities", fmt.Sprintf("%d", s.Communities)},
	)
	for i, m := range s.Trending {
		if i >= 5 {
			break
		}
		sec.Rows = append(sec.Rows, []string{"Trending: " + m.Symbol, fmt.Sprintf("%d mentions", m.Mentions)})
	}
	return sec
}

func technicalsSection(snapshots map[models.Domain]models.Snapshot) models.Section {
	sec := models.Section{
		Name:    SectionTechnicals,
		Title:   "Technical Levels",
		Domains: []models.Domain{models.DomainEquities, models.DomainFX, models.DomainCommodities, models.DomainCrypto},
		Rows:    [][]string{{"Instrument", "Last", "SMA20", "SMA50", "SMA200", "RSI", "Trend"}},
	}

	addSeries := func(name string, closes []float64) {
		if len(closes) == 0 {
			return
		}
		t := analysis.Compute(closes)
		fmtOrDash := func(v float64) string {
			if v == 0 {
				return "-"
			}
			return fmt.Sprintf("%.2f", v)
		}
		rsi := "-"
		if t.RSI > 0 {
			rsi = fmt.Sprintf("%.1f (%s)", t.RSI, t.RSISignal)
		}
		trend := t.Trend
		if trend == "" {
			trend = "-"
		}
		sec.Rows = append(sec.Rows, []string{
			name, fmt.Sprintf("%.2f", t.Last),
			fmtOrDash(t.SMA20), fmtOrDash(t.SMA50), fmtOrDash(t.SMA200),
			rsi, trend,
		})
	}

	if eq := equities(snapshots); eq != nil {
		addSeries("S&P 500", eq.History.SPX)
		addSeries("Nasdaq", eq.History.Nasdaq)
		addSeries("VIX", eq.History.VIX)
	}
	if f := fx(snapshots); f != nil {
		addSeries("EUR/USD", f.EURUSDCloses)
	}
	if cm := commodities(snapshots); cm != nil {
		addSeries("Gold", cm.GoldCloses)
	}
	if c := crypto(snapshots); c != nil {
		addSeries("Bitcoin", c.BitcoinCloses)
	}

	var lines []string
	if eq := equities(snapshots); eq != nil {
		if eq.SPX != nil && eq.SPX.DayHigh > 0 && eq.SPX.DayLow > 0 {
			p := analysis.Pivots(eq.SPX.DayHigh, eq.SPX.DayLow, eq.SPX.Price)
			lines = append(lines, fmt.Sprintf("S&P 500 pivot %.2f, resistance %.2f / %.2f, support %.2f / %.2f.",
				p.Pivot, p.R1, p.R2, p.S1, p.S2))
		}
		if eq.VIX != nil {
			lines = append(lines, fmt.Sprintf("VIX at %.1f: %s.", eq.VIX.Price, analysis.VIXAssessment(eq.VIX.Price)))
		}
	}
	sec.Body = strings.Join(lines, " ")
	return sec
}

func correlationsSection(snapshots map[models.Domain]models.Snapshot) models.Section {
	series := map[string][]float64{}
	if eq := equities(snapshots); eq != nil {
		if len(eq.History.SPX) > 0 {
			series["spx"] = eq.History.SPX
		}
		if len(eq.History.Nasdaq) > 0 {
			series["nasdaq"] = eq.History.Nasdaq
		}
	}
	if f := fx(snapshots); f != nil && len(f.EURUSDCloses) > 0 {
		series["eurusd"] = f.EURUSDCloses
	}
	if cm := commodities(snapshots); cm != nil && len(cm.GoldCloses) > 0 {
		series["gold"] = cm.GoldCloses
	}
	if c := crypto(snapshots); c != nil && len(c.BitcoinCloses) > 0 {
		series["btc"] = c.BitcoinCloses
	}

	matrix := analysis.Correlate(series)
	sec := models.Section{
		Name:    SectionCorrelations,
		Title:   "Cross-Asset Correlations",
		Domains: []models.Domain{models.DomainEquities, models.DomainFX, models.DomainCommodities, models.DomainCrypto},
	}
	header := append([]string{""}, matrix.Labels...)
	sec.Rows = append(sec.Rows, header)
	for i, label := range matrix.Labels {
		row := []string{label}
		for j, v := range matrix.Values[i] {
			if !matrix.Defined[i][j] {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%.2f", v))
		}
		sec.Rows = append(sec.Rows, row)
	}
	return sec
}

// regimeWatch maps each regime to its forward watch items.
var regimeWatch = map[analysis.Regime][]string{
	analysis.RegimeGoldilocks: {
		"Watch for inflation re-acceleration that would end the benign mix.",
		"Earnings breadth confirms or breaks the soft-landing narrative.",
	},
	analysis.RegimeInflationaryExpansion: {
		"Central bank rhetoric on further tightening.",
		"Commodity complex as the inflation pass-through channel.",
	},
	analysis.RegimeStagflation: {
		"Stagflation favors real assets; watch gold and energy leadership.",
		"Labor market cracks would tip the mix toward outright contraction.",
	},
	analysis.RegimeDeflationary: {
		"Duration rallies; watch long-end yields for confirmation.",
		"Credit spreads for signs the slowdown is turning disorderly.",
	},
	analysis.RegimeRiskOff: {
		"Volatility term structure for signs of capitulation or persistence.",
		"High-yield spreads as the canary for funding stress.",
	},
	analysis.RegimeRiskOn: {
		"Breadth and leadership rotation sustaining the advance.",
		"Complacency readings: low VIX regimes end abruptly.",
	},
}

func forwardSection(snapshots map[models.Domain]models.Snapshot, regime analysis.RegimeResult) models.Section {
	lines := append([]string{}, regimeWatch[regime.Regime]...)

	if m := macro(snapshots); m != nil && m.Spread2s10s != nil && *m.Spread2s10s < 0 {
		lines = append(lines, fmt.Sprintf("Yield curve remains inverted (%.2f%%); watch for a bull-steepener.", *m.Spread2s10s))
	}
	if eq := equities(snapshots); eq != nil && eq.VIX != nil && eq.VIX.Price >= analysis.VIXHigh {
		lines = append(lines, fmt.Sprintf("Elevated VIX (%.1f) argues for tighter risk limits.", eq.VIX.Price))
	}

	return models.Section{
		Name:      SectionForward,
		Title:     "Forward Watch",
		Body:      strings.Join(lines, " "),
		Narrative: true,
	}
}
