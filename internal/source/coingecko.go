package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/seenimoa/litescan/pkg/models"
)

// DefaultCoinGeckoURL is the public CoinGecko v3 API base.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// CoinGecko serves price snapshots, supply detail, multi-asset USD
// prices, and historical market charts.
type CoinGecko struct {
	BaseURL string
	cache   *Cache
	limiter *RateLimiter
}

// NewCoinGecko creates a CoinGecko source against the public API.
// The free tier is the strictest of the upstreams, so the limiter is
// conservative.
func NewCoinGecko() *CoinGecko {
	return &CoinGecko{
		BaseURL: DefaultCoinGeckoURL,
		cache:   NewCache(1 * time.Minute),
		limiter: NewRateLimiter(10, time.Minute),
	}
}

// Name returns the source name.
func (c *CoinGecko) Name() string { return "CoinGecko" }

// Ping verifies connectivity via the API's ping endpoint.
func (c *CoinGecko) Ping(ctx context.Context) error {
	body, _, err := doGet(ctx, c.BaseURL+"/ping", nil)
	if err != nil {
		return fmt.Errorf("coingecko ping: %w", err)
	}
	body.Close()
	return nil
}

// --- Raw response types ---

type cgSimplePrice struct {
	USD float64 `json:"usd"`
}

type cgCoinDetail struct {
	MarketData struct {
		CirculatingSupply float64  `json:"circulating_supply"`
		MaxSupply         *float64 `json:"max_supply"`
	} `json:"market_data"`
}

type cgMarketChart struct {
	Prices [][2]float64 `json:"prices"`
}

// --- Public methods ---

// GetPriceSnapshot returns the headline USD metrics for the given coin id.
func (c *CoinGecko) GetPriceSnapshot(ctx context.Context, id string) (*models.PriceSnapshot, error) {
	cacheKey := "cg:price:" + id
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*models.PriceSnapshot), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_market_cap=true&include_24hr_vol=true&include_24hr_change=true",
		c.BaseURL, url.QueryEscape(id))

	var resp map[string]models.PriceSnapshot
	if err := fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("coingecko price: %w", err)
	}

	snap, ok := resp[id]
	if !ok {
		return nil, fmt.Errorf("coingecko price: no data for %q", id)
	}

	c.cache.Set(cacheKey, &snap)
	return &snap, nil
}

// GetMarketDetail returns supply figures from the per-coin detail endpoint.
// MaxSupply stays nil when the source reports none.
func (c *CoinGecko) GetMarketDetail(ctx context.Context, id string) (*models.MarketDetail, error) {
	cacheKey := "cg:detail:" + id
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*models.MarketDetail), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/coins/%s?localization=false&tickers=false&community_data=false&developer_data=false",
		c.BaseURL, url.PathEscape(id))

	var resp cgCoinDetail
	if err := fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("coingecko detail: %w", err)
	}

	detail := &models.MarketDetail{
		CirculatingSupply: resp.MarketData.CirculatingSupply,
		MaxSupply:         resp.MarketData.MaxSupply,
	}
	c.cache.Set(cacheKey, detail)
	return detail, nil
}

// GetUSDPrices returns the USD price for each of the given coin ids in a
// single request. Ids missing from the response are absent from the map.
func (c *CoinGecko) GetUSDPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}

	joined := strings.Join(ids, ",")
	cacheKey := "cg:usd:" + joined
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(map[string]float64), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		c.BaseURL, url.QueryEscape(joined))

	var resp map[string]cgSimplePrice
	if err := fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("coingecko usd prices: %w", err)
	}

	prices := make(map[string]float64, len(resp))
	for id, p := range resp {
		prices[id] = p.USD
	}

	c.cache.Set(cacheKey, prices)
	return prices, nil
}

// GetMarketChart returns raw (timestampMs, price) pairs for the requested
// day window, in the source's chronological ascending order.
func (c *CoinGecko) GetMarketChart(ctx context.Context, id string, days int) ([][2]float64, error) {
	cacheKey := fmt.Sprintf("cg:chart:%s:%d", id, days)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([][2]float64), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d",
		c.BaseURL, url.PathEscape(id), days)

	var resp cgMarketChart
	if err := fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("coingecko chart: %w", err)
	}

	c.cache.Set(cacheKey, resp.Prices)
	return resp.Prices, nil
}
