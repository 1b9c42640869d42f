package provider

import (
	"math"

	"MarketPulse/internal/domain/models"
)

// Mock serves a fixed reference dataset. Two calls with the same domain
// always return equal payloads, which keeps fallback output and tests
// reproducible.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

// Payload returns the reference payload for a domain. Unknown domains
// return nil.
func (m *Mock) Payload(d models.Domain) models.DomainPayload {
	switch d {
	case models.DomainEquities:
		return mockEquities()
	case models.DomainFX:
		return mockFX()
	case models.DomainCommodities:
		return mockCommodities()
	case models.DomainCrypto:
		return mockCrypto()
	case models.DomainMacro:
		return mockMacro()
	case models.DomainSentiment:
		return mockSentiment()
	default:
		return nil
	}
}

// syntheticCloses builds a deterministic price series, oldest first,
// from a drift plus two sine cycles.
func syntheticCloses(base, driftPct, ampPct float64, n int) []float64 {
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i)
		drift := base * driftPct / 100 * t / float64(n)
		wave := base * ampPct / 100 * (math.Sin(t/9) + 0.5*math.Sin(t/23))
		closes[i] = base + drift + wave
	}
	return closes
}

func mockQuote(symbol, name string, price, prevClose float64) *models.Quote {
	change := price - prevClose
	return &models.Quote{
		Symbol:    symbol,
		Name:      name,
		Price:     price,
		PrevClose: prevClose,
		Open:      prevClose,
		DayHigh:   math.Max(price, prevClose) * 1.004,
		DayLow:    math.Min(price, prevClose) * 0.996,
		Change:    change,
		ChangePct: change / prevClose * 100,
	}
}

func mockEquities() *models.EquitiesPayload {
	return &models.EquitiesPayload{
		SPX:         mockQuote("^GSPC", "S&P 500", 5512.30, 5478.10),
		Nasdaq:      mockQuote("^IXIC", "Nasdaq Composite", 17862.25, 17720.40),
		Dow:         mockQuote("^DJI", "Dow Jones Industrial Average", 40150.80, 40010.55),
		Russell2000: mockQuote("^RUT", "Russell 2000", 2185.40, 2198.75),
		VIX:         mockQuote("^VIX", "CBOE Volatility Index", 14.80, 15.30),
		Sectors: []models.SectorPerf{
			{Sector: "Technology", ChangePct: 1.24},
			{Sector: "Financials", ChangePct: 0.41},
			{Sector: "Energy", ChangePct: -0.63},
			{Sector: "Healthcare", ChangePct: 0.18},
			{Sector: "Consumer Discretionary", ChangePct: 0.72},
			{Sector: "Utilities", ChangePct: -0.22},
			{Sector: "Industrials", ChangePct: 0.35},
		},
		History: models.EquityHistory{
			SPX:    syntheticCloses(5300, 4.0, 1.2, historyDays),
			Nasdaq: syntheticCloses(17100, 4.5, 1.6, historyDays),
			VIX:    syntheticCloses(16, -7.5, 9.0, historyDays),
		},
	}
}

func mockFX() *models.FXPayload {
	return &models.FXPayload{
		DXY:          mockQuote("DX-Y.NYB", "US Dollar Index", 104.25, 104.02),
		EURUSD:       mockQuote("EURUSD=X", "EUR/USD", 1.0842, 1.0867),
		USDJPY:       mockQuote("USDJPY=X", "USD/JPY", 151.40, 150.85),
		GBPUSD:       mockQuote("GBPUSD=X", "GBP/USD", 1.2710, 1.2738),
		AUDUSD:       mockQuote("AUDUSD=X", "AUD/USD", 0.6612, 0.6631),
		USDCAD:       mockQuote("USDCAD=X", "USD/CAD", 1.3625, 1.3598),
		USDCHF:       mockQuote("USDCHF=X", "USD/CHF", 0.8932, 0.8915),
		USDBias:      "strengthening",
		EURUSDCloses: syntheticCloses(1.09, -1.0, 0.6, historyDays),
	}
}

func mockCommodities() *models.CommoditiesPayload {
	return &models.CommoditiesPayload{
		Gold:       mockQuote("GC=F", "Gold Futures", 2385.60, 2371.20),
		Silver:     mockQuote("SI=F", "Silver Futures", 28.42, 28.15),
		WTICrude:   mockQuote("CL=F", "WTI Crude Futures", 78.35, 79.10),
		BrentCrude: mockQuote("BZ=F", "Brent Crude Futures", 82.60, 83.25),
		NaturalGas: mockQuote("NG=F", "Natural Gas Futures", 2.14, 2.09),
		Copper:     mockQuote("HG=F", "Copper Futures", 4.52, 4.48),
		GoldCloses: syntheticCloses(2320, 3.0, 0.9, historyDays),
	}
}

func mockCrypto() *models.CryptoPayload {
	return &models.CryptoPayload{
		Bitcoin: &models.CryptoQuote{
			Symbol: "BTC", Name: "Bitcoin",
			PriceUSD: 67250.00, ChangePct24h: 2.15,
			MarketCap: 1.32e12, Volume24h: 2.84e10,
		},
		Ethereum: &models.CryptoQuote{
			Symbol: "ETH", Name: "Ethereum",
			PriceUSD: 3485.50, ChangePct24h: 1.42,
			MarketCap: 4.19e11, Volume24h: 1.21e10,
		},
		Solana: &models.CryptoQuote{
			Symbol: "SOL", Name: "Solana",
			PriceUSD: 156.80, ChangePct24h: -0.87,
			MarketCap: 7.2e10, Volume24h: 2.3e9,
		},
		TotalMarketCap: 2.48e12,
		BTCDominance:   53.2,
		FearGreed:      62,
		FearGreedLabel: "Greed",
		BitcoinCloses:  syntheticCloses(64500, 4.3, 2.4, 30),
	}
}

func mockMacro() *models.MacroPayload {
	f := func(v float64) *float64 { return &v }
	return &models.MacroPayload{
		CPIYoY:       f(2.9),
		CorePCEYoY:   f(2.6),
		GDPGrowth:    f(2.1),
		Unemployment: f(4.1),
		FedFunds:     f(5.33),
		Treasury2Y:   f(4.45),
		Treasury10Y:  f(4.20),
		Spread2s10s:  f(-0.25),
		HYSpread:     f(3.15),
	}
}

func mockSentiment() *models.SentimentPayload {
	return &models.SentimentPayload{
		OverallScore:  0.18,
		BullishRatio:  0.59,
		PostsAnalyzed: 200,
		Communities:   len(sentimentCommunities),
		Trending: []models.TickerMention{
			{Symbol: "NVDA", Mentions: 42},
			{Symbol: "TSLA", Mentions: 31},
			{Symbol: "SPY", Mentions: 27},
			{Symbol: "AAPL", Mentions: 19},
			{Symbol: "AMD", Mentions: 14},
		},
	}
}
