// Package models defines the typed entities LiteScan assembles from its
// upstream sources. Everything here is transient and request-scoped.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot holds the headline USD metrics for the primary asset,
// as returned by the simple-price endpoint. The whole snapshot may be
// absent when the price source is down.
type PriceSnapshot struct {
	USD          float64 `json:"usd"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USD24hVol    float64 `json:"usd_24h_vol"`
	USD24hChange float64 `json:"usd_24h_change"` // percentage
}

// MarketDetail holds supply figures from the per-coin detail endpoint.
// MaxSupply is nullable in the source data.
type MarketDetail struct {
	CirculatingSupply float64  `json:"circulating_supply"`
	MaxSupply         *float64 `json:"max_supply"`
}

// ExchangeRateMap maps an asset symbol to the primary asset's rate
// against it (primaryUSD / otherUSD). Derived, never fetched.
type ExchangeRateMap map[string]decimal.Decimal

// PricePoint is one chart-ready entry of the price history: a formatted
// date and a price string fixed to 2 decimals.
type PricePoint struct {
	Date  string `json:"date"`
	Price string `json:"price"`
}

// NewsArticle is a single headline from the news source.
type NewsArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}
