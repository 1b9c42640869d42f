package provider

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
)

// Communities scanned for market chatter. Each community is one
// sub-item of the sentiment snapshot.
var sentimentCommunities = []string{"stocks", "investing", "wallstreetbets", "options"}

var bullishWords = []string{
	"bull", "bullish", "calls", "moon", "rally", "breakout", "buy",
	"long", "upside", "squeeze", "gains",
}

var bearishWords = []string{
	"bear", "bearish", "puts", "crash", "dump", "sell", "short",
	"downside", "recession", "bubble", "losses",
}

var tickerPattern = regexp.MustCompile(`\$([A-Z]{1,5})\b`)

// Common words that look like cashtags but are not tickers.
var tickerStopList = map[string]bool{
	"A": true, "I": true, "DD": true, "CEO": true, "IPO": true,
	"USD": true, "ATH": true, "YOLO": true, "FOMO": true,
}

// SentimentFetcher scans community post feeds and scores the chatter.
type SentimentFetcher struct {
	api *api
}

func NewSentimentFetcher(cfg Config) *SentimentFetcher {
	return &SentimentFetcher{api: newAPI("sentiment", cfg)}
}

func (f *SentimentFetcher) Domain() models.Domain  { return models.DomainSentiment }
func (f *SentimentFetcher) Timeout() time.Duration { return f.api.timeout }

type postsDTO struct {
	Posts []struct {
		Title string `json:"title"`
		Score int    `json:"score"`
	} `json:"posts"`
}

func (f *SentimentFetcher) Fetch(ctx context.Context) (models.DomainPayload, []string, error) {
	if ferr := f.api.reserve(len(sentimentCommunities)); ferr != nil {
		return nil, nil, ferr
	}

	type result struct {
		community string
		posts     postsDTO
		err       error
	}

	results := make(chan result, len(sentimentCommunities))
	var wg sync.WaitGroup
	for _, community := range sentimentCommunities {
		wg.Add(1)
		go func(community string) {
			defer wg.Done()
			var dto postsDTO
			err := f.api.getJSON(ctx, f.api.baseURL+"/communities/"+community+"/hot", map[string][]string{
				"limit": {"50"},
			}, &dto)
			results <- result{community: community, posts: dto, err: err}
		}(community)
	}
	wg.Wait()
	close(results)

	var (
		failed        []string
		firstErr      error
		bullish       int
		bearish       int
		postsAnalyzed int
		communities   int
		mentions      = make(map[string]int)
	)
	for r := range results {
		if r.err != nil {
			failed = append(failed, r.community)
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		communities++
		for _, post := range r.posts.Posts {
			postsAnalyzed++
			switch scoreTitle(post.Title) {
			case 1:
				bullish++
			case -1:
				bearish++
			}
			for _, m := range tickerPattern.FindAllStringSubmatch(post.Title, -1) {
				if sym := m[1]; !tickerStopList[sym] {
					mentions[sym]++
				}
			}
		}
	}

	if communities == 0 {
		return nil, nil, Classify("sentiment", firstErr)
	}

	payload := &models.SentimentPayload{
		PostsAnalyzed: postsAnalyzed,
		Communities:   communities,
	}
	if scored := bullish + bearish; scored > 0 {
		payload.BullishRatio = float64(bullish) / float64(scored)
		payload.OverallScore = float64(bullish-bearish) / float64(scored)
	} else {
		payload.BullishRatio = 0.5
	}

	for sym, n := range mentions {
		payload.Trending = append(payload.Trending, models.TickerMention{Symbol: sym, Mentions: n})
	}
	models.SortTickerMentions(payload.Trending)
	if len(payload.Trending) > 10 {
		payload.Trending = payload.Trending[:10]
	}

	return payload, failed, nil
}

// scoreTitle returns 1 for bullish, -1 for bearish, 0 for neutral.
func scoreTitle(title string) int {
	lower := strings.ToLower(title)
	score := 0
	for _, w := range bullishWords {
		if strings.Contains(lower, w) {
			score++
		}
	}
	for _, w := range bearishWords {
		if strings.Contains(lower, w) {
			score--
		}
	}
	switch {
	case score > 0:
		return 1
	case score < 0:
		return -1
	default:
		return 0
	}
}
