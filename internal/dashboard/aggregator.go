// Package dashboard assembles the unified dashboard view: it fans out
// the bulk fetches, normalizes whatever came back into a single
// snapshot, computes derived metrics, and drives the on-demand
// transaction lookup.
package dashboard

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/litescan/internal/source"
	"github.com/seenimoa/litescan/pkg/models"
)

// Asset names one comparison asset by source id and display symbol.
type Asset struct {
	ID     string
	Symbol string
}

// Options configures the aggregator.
type Options struct {
	AssetID     string  // primary asset source id, e.g. "litecoin"
	AssetSymbol string  // display symbol, e.g. "LTC"
	Compare     []Asset // assets to derive exchange rates against
	HistoryDays int     // chart window in calendar days
	TxLimit     int     // recent transactions to list
	NewsLimit   int     // headlines to keep
	NewsAPIKey  string

	// Base URL overrides; empty means the source default.
	CoinGeckoURL   string
	BlockchairURL  string
	BlockCypherURL string
	NewsAPIURL     string
	NewsFeeds      []string
}

// DefaultOptions returns the Litecoin dashboard configuration.
func DefaultOptions() Options {
	return Options{
		AssetID:     "litecoin",
		AssetSymbol: "LTC",
		Compare: []Asset{
			{ID: "bitcoin", Symbol: "BTC"},
			{ID: "ethereum", Symbol: "ETH"},
			{ID: "dogecoin", Symbol: "DOGE"},
		},
		HistoryDays: 30,
		TxLimit:     5,
		NewsLimit:   6,
	}
}

// Snapshot is the single view-state record the bulk path populates.
// Each slot is written independently; a failed source leaves its slot
// nil and never disturbs the others.
type Snapshot struct {
	Price        *models.PriceSnapshot    `json:"price,omitempty"`
	Market       *models.MarketDetail     `json:"market,omitempty"`
	Stats        *models.BlockchainStats  `json:"stats,omitempty"`
	Transactions []models.Transaction     `json:"transactions,omitempty"`
	History      []models.PricePoint      `json:"history,omitempty"`
	News         []models.NewsArticle     `json:"news,omitempty"`
	Rates        models.ExchangeRateMap   `json:"rates,omitempty"`
	FetchedAt    time.Time                `json:"fetched_at"`
}

// Aggregator fetches and merges data from all sources concurrently.
type Aggregator struct {
	opts        Options
	coingecko   *source.CoinGecko
	blockchair  *source.Blockchair
	blockcypher *source.BlockCypher
	news        *source.News
}

// NewAggregator creates an aggregator with all default sources.
func NewAggregator(opts Options) *Aggregator {
	if opts.AssetID == "" {
		opts = DefaultOptions()
	}
	if opts.TxLimit <= 0 {
		opts.TxLimit = 5
	}
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = 30
	}
	a := &Aggregator{
		opts:        opts,
		coingecko:   source.NewCoinGecko(),
		blockchair:  source.NewBlockchair(opts.AssetID),
		blockcypher: source.NewBlockCypher("ltc/main"),
		news:        source.NewNews(opts.AssetID, opts.NewsAPIKey),
	}
	if opts.CoinGeckoURL != "" {
		a.coingecko.BaseURL = opts.CoinGeckoURL
	}
	if opts.BlockchairURL != "" {
		a.blockchair.BaseURL = opts.BlockchairURL
	}
	if opts.BlockCypherURL != "" {
		a.blockcypher.BaseURL = opts.BlockCypherURL
	}
	if opts.NewsAPIURL != "" {
		a.news.BaseURL = opts.NewsAPIURL
	}
	if len(opts.NewsFeeds) > 0 {
		a.news.Feeds = opts.NewsFeeds
	}
	return a
}

// CoinGecko returns the price source for direct access.
func (a *Aggregator) CoinGecko() *source.CoinGecko { return a.coingecko }

// Blockchair returns the chain source for direct access.
func (a *Aggregator) Blockchair() *source.Blockchair { return a.blockchair }

// BlockCypher returns the lookup source for direct access.
func (a *Aggregator) BlockCypher() *source.BlockCypher { return a.blockcypher }

// NewsSource returns the news source for direct access.
func (a *Aggregator) NewsSource() *source.News { return a.news }

// Options returns the aggregator configuration.
func (a *Aggregator) Options() Options { return a.opts }

// FetchSnapshot issues all bulk fetches concurrently and waits for every
// one to settle. A failed source is logged and leaves its slot empty;
// the aggregate operation itself never fails. Derived metrics (exchange
// rates, history points) are computed once the raw slots are in.
func (a *Aggregator) FetchSnapshot(ctx context.Context) *Snapshot {
	snap := &Snapshot{FetchedAt: time.Now().UTC()}

	var mu sync.Mutex
	var rawHistory [][2]float64
	var usdPrices map[string]float64

	g, gctx := errgroup.WithContext(ctx)

	// Every goroutine returns nil: one source failing must not cancel
	// the siblings still in flight.

	g.Go(func() error {
		price, err := a.coingecko.GetPriceSnapshot(gctx, a.opts.AssetID)
		if err != nil {
			log.Printf("dashboard: price snapshot unavailable: %v", err)
			return nil
		}
		mu.Lock()
		snap.Price = price
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		detail, err := a.coingecko.GetMarketDetail(gctx, a.opts.AssetID)
		if err != nil {
			log.Printf("dashboard: market detail unavailable: %v", err)
			return nil
		}
		mu.Lock()
		snap.Market = detail
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		stats, err := a.blockchair.GetStats(gctx)
		if err != nil {
			log.Printf("dashboard: chain stats unavailable: %v", err)
			return nil
		}
		mu.Lock()
		snap.Stats = stats
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		txs, err := a.blockchair.GetRecentTransactions(gctx, a.opts.TxLimit)
		if err != nil {
			log.Printf("dashboard: recent transactions unavailable: %v", err)
			return nil
		}
		mu.Lock()
		snap.Transactions = txs
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		pairs, err := a.coingecko.GetMarketChart(gctx, a.opts.AssetID, a.opts.HistoryDays)
		if err != nil {
			log.Printf("dashboard: price history unavailable: %v", err)
			return nil
		}
		mu.Lock()
		rawHistory = pairs
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		ids := make([]string, 0, len(a.opts.Compare)+1)
		ids = append(ids, a.opts.AssetID)
		for _, c := range a.opts.Compare {
			ids = append(ids, c.ID)
		}
		prices, err := a.coingecko.GetUSDPrices(gctx, ids)
		if err != nil {
			log.Printf("dashboard: comparison prices unavailable: %v", err)
			return nil
		}
		mu.Lock()
		usdPrices = prices
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		articles, err := a.news.GetHeadlines(gctx, a.opts.NewsLimit)
		if err != nil {
			log.Printf("dashboard: news unavailable: %v", err)
			return nil
		}
		mu.Lock()
		snap.News = articles
		mu.Unlock()
		return nil
	})

	// Wait for all sources to settle. Errors were absorbed above, and a
	// cancelled context simply leaves the remaining slots empty.
	_ = g.Wait()
	if ctx.Err() != nil {
		return snap
	}

	snap.History = ProcessHistory(rawHistory)
	snap.Rates = a.deriveRates(usdPrices)
	return snap
}

// deriveRates translates source ids to display symbols and computes the
// exchange-rate map.
func (a *Aggregator) deriveRates(usdByID map[string]float64) models.ExchangeRateMap {
	if usdByID == nil {
		return models.ExchangeRateMap{}
	}

	bySymbol := map[string]float64{
		a.opts.AssetSymbol: usdByID[a.opts.AssetID],
	}
	for _, c := range a.opts.Compare {
		if usd, ok := usdByID[c.ID]; ok {
			bySymbol[c.Symbol] = usd
		}
	}
	return ComputeExchangeRates(a.opts.AssetSymbol, bySymbol)
}
