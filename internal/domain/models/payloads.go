package models

import (
	"fmt"
	"sort"
)

// Quote is one priced instrument. Provider symbols are mapped onto the
// named fields of each payload, never into open dictionaries.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PrevClose float64 `json:"prev_close"`
	Open      float64 `json:"open"`
	DayHigh   float64 `json:"day_high"`
	DayLow    float64 `json:"day_low"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
}

func (q *Quote) check(item string) error {
	if q == nil {
		return nil
	}
	if q.Symbol == "" {
		return fmt.Errorf("%s: empty symbol", item)
	}
	if q.Price <= 0 {
		return fmt.Errorf("%s: non-positive price %v", item, q.Price)
	}
	return nil
}

// SectorPerf is one equity sector's daily performance.
type SectorPerf struct {
	Sector    string  `json:"sector"`
	ChangePct float64 `json:"change_pct"`
}

// EquityHistory carries daily closes, oldest first, for technical and
// correlation computation.
type EquityHistory struct {
	SPX    []float64 `json:"spx,omitempty"`
	Nasdaq []float64 `json:"nasdaq,omitempty"`
	VIX    []float64 `json:"vix,omitempty"`
}

// EquitiesPayload is the equities domain record. Each index is a
// sub-item: a failed index leaves its field nil and the snapshot partial.
type EquitiesPayload struct {
	SPX         *Quote        `json:"spx"`
	Nasdaq      *Quote        `json:"nasdaq"`
	Dow         *Quote        `json:"dow"`
	Russell2000 *Quote        `json:"russell2000"`
	VIX         *Quote        `json:"vix"`
	Sectors     []SectorPerf  `json:"sectors,omitempty"`
	History     EquityHistory `json:"history"`
}

func (p *EquitiesPayload) PayloadDomain() Domain { return DomainEquities }

func (p *EquitiesPayload) Validate() error {
	for _, it := range []struct {
		name string
		q    *Quote
	}{
		{"spx", p.SPX}, {"nasdaq", p.Nasdaq}, {"dow", p.Dow},
		{"russell2000", p.Russell2000}, {"vix", p.VIX},
	} {
		if err := it.q.check(it.name); err != nil {
			return fmt.Errorf("equities: %w", err)
		}
	}
	if p.SPX == nil && p.Nasdaq == nil && p.Dow == nil && p.Russell2000 == nil && p.VIX == nil {
		return fmt.Errorf("equities: no sub-items present")
	}
	return nil
}

// FXPayload is the foreign exchange domain record.
type FXPayload struct {
	DXY          *Quote    `json:"dxy"`
	EURUSD       *Quote    `json:"eurusd"`
	USDJPY       *Quote    `json:"usdjpy"`
	GBPUSD       *Quote    `json:"gbpusd"`
	AUDUSD       *Quote    `json:"audusd"`
	USDCAD       *Quote    `json:"usdcad"`
	USDCHF       *Quote    `json:"usdchf"`
	USDBias      string    `json:"usd_bias"`
	EURUSDCloses []float64 `json:"eurusd_closes,omitempty"`
}

func (p *FXPayload) PayloadDomain() Domain { return DomainFX }

func (p *FXPayload) Validate() error {
	for _, it := range []struct {
		name string
		q    *Quote
	}{
		{"dxy", p.DXY}, {"eurusd", p.EURUSD}, {"usdjpy", p.USDJPY},
		{"gbpusd", p.GBPUSD}, {"audusd", p.AUDUSD}, {"usdcad", p.USDCAD},
		{"usdchf", p.USDCHF},
	} {
		if err := it.q.check(it.name); err != nil {
			return fmt.Errorf("fx: %w", err)
		}
	}
	switch p.USDBias {
	case "strengthening", "weakening", "mixed", "":
	default:
		return fmt.Errorf("fx: invalid usd bias %q", p.USDBias)
	}
	return nil
}

// CommoditiesPayload is the commodities domain record.
type CommoditiesPayload struct {
	Gold       *Quote    `json:"gold"`
	Silver     *Quote    `json:"silver"`
	WTICrude   *Quote    `json:"wti_crude"`
	BrentCrude *Quote    `json:"brent_crude"`
	NaturalGas *Quote    `json:"natural_gas"`
	Copper     *Quote    `json:"copper"`
	GoldCloses []float64 `json:"gold_closes,omitempty"`
}

func (p *CommoditiesPayload) PayloadDomain() Domain { return DomainCommodities }

func (p *CommoditiesPayload) Validate() error {
	for _, it := range []struct {
		name string
		q    *Quote
	}{
		{"gold", p.Gold}, {"silver", p.Silver}, {"wti_crude", p.WTICrude},
		{"brent_crude", p.BrentCrude}, {"natural_gas", p.NaturalGas},
		{"copper", p.Copper},
	} {
		if err := it.q.check(it.name); err != nil {
			return fmt.Errorf("commodities: %w", err)
		}
	}
	return nil
}

// CryptoQuote is one crypto asset's market data.
type CryptoQuote struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	PriceUSD     float64 `json:"price_usd"`
	ChangePct24h float64 `json:"change_pct_24h"`
	MarketCap    float64 `json:"market_cap"`
	Volume24h    float64 `json:"volume_24h"`
}

func (q *CryptoQuote) check(item string) error {
	if q == nil {
		return nil
	}
	if q.Symbol == "" {
		return fmt.Errorf("%s: empty symbol", item)
	}
	if q.PriceUSD <= 0 {
		return fmt.Errorf("%s: non-positive price %v", item, q.PriceUSD)
	}
	return nil
}

// CryptoPayload is the crypto domain record.
type CryptoPayload struct {
	Bitcoin        *CryptoQuote `json:"bitcoin"`
	Ethereum       *CryptoQuote `json:"ethereum"`
	Solana         *CryptoQuote `json:"solana"`
	TotalMarketCap float64      `json:"total_market_cap"`
	BTCDominance   float64      `json:"btc_dominance"`
	FearGreed      int          `json:"fear_greed"`
	FearGreedLabel string       `json:"fear_greed_label"`
	BitcoinCloses  []float64    `json:"bitcoin_closes,omitempty"`
}

func (p *CryptoPayload) PayloadDomain() Domain { return DomainCrypto }

func (p *CryptoPayload) Validate() error {
	for _, it := range []struct {
		name string
		q    *CryptoQuote
	}{
		{"bitcoin", p.Bitcoin}, {"ethereum", p.Ethereum}, {"solana", p.Solana},
	} {
		if err := it.q.check(it.name); err != nil {
			return fmt.Errorf("crypto: %w", err)
		}
	}
	if p.FearGreed < 0 || p.FearGreed > 100 {
		return fmt.Errorf("crypto: fear/greed %d out of range", p.FearGreed)
	}
	return nil
}

// MacroPayload is the macroeconomic domain record. Pointer fields
// distinguish "series unavailable" from a true zero reading.
type MacroPayload struct {
	CPIYoY       *float64 `json:"cpi_yoy"`
	CorePCEYoY   *float64 `json:"core_pce_yoy"`
	GDPGrowth    *float64 `json:"gdp_growth"`
	Unemployment *float64 `json:"unemployment"`
	FedFunds     *float64 `json:"fed_funds"`
	Treasury2Y   *float64 `json:"treasury_2y"`
	Treasury10Y  *float64 `json:"treasury_10y"`
	Spread2s10s  *float64 `json:"spread_2s10s"`
	HYSpread     *float64 `json:"hy_spread"`
}

func (p *MacroPayload) PayloadDomain() Domain { return DomainMacro }

func (p *MacroPayload) Validate() error {
	if p.Unemployment != nil && (*p.Unemployment < 0 || *p.Unemployment > 100) {
		return fmt.Errorf("macro: unemployment %v out of range", *p.Unemployment)
	}
	if p.CPIYoY == nil && p.GDPGrowth == nil && p.FedFunds == nil && p.Treasury10Y == nil {
		return fmt.Errorf("macro: no series present")
	}
	return nil
}

// TickerMention is one trending ticker with its mention count.
type TickerMention struct {
	Symbol   string `json:"symbol"`
	Mentions int    `json:"mentions"`
}

// SortTickerMentions orders by mentions descending, symbol ascending on
// ties, so equal-metric runs produce identical output.
func SortTickerMentions(ms []TickerMention) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Mentions != ms[j].Mentions {
			return ms[i].Mentions > ms[j].Mentions
		}
		return ms[i].Symbol < ms[j].Symbol
	})
}

// SentimentPayload is the social sentiment domain record.
type SentimentPayload struct {
	OverallScore  float64         `json:"overall_score"`
	BullishRatio  float64         `json:"bullish_ratio"`
	PostsAnalyzed int             `json:"posts_analyzed"`
	Communities   int             `json:"communities"`
	Trending      []TickerMention `json:"trending"`
}

func (p *SentimentPayload) PayloadDomain() Domain { return DomainSentiment }

func (p *SentimentPayload) Validate() error {
	if p.OverallScore < -1 || p.OverallScore > 1 {
		return fmt.Errorf("sentiment: score %v out of range", p.OverallScore)
	}
	if p.BullishRatio < 0 || p.BullishRatio > 1 {
		return fmt.Errorf("sentiment: bullish ratio %v out of range", p.BullishRatio)
	}
	if p.PostsAnalyzed < 0 {
		return fmt.Errorf("sentiment: negative post count")
	}
	return nil
}
