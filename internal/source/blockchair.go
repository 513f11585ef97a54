package source

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/seenimoa/litescan/pkg/models"
)

// DefaultBlockchairURL is the public Blockchair API base.
const DefaultBlockchairURL = "https://api.blockchair.com"

// Blockchair serves network statistics and the recent-transactions list.
type Blockchair struct {
	BaseURL string
	Chain   string // URL path segment, e.g. "litecoin"
	cache   *Cache
	limiter *RateLimiter
}

// NewBlockchair creates a Blockchair source for the given chain.
func NewBlockchair(chain string) *Blockchair {
	return &Blockchair{
		BaseURL: DefaultBlockchairURL,
		Chain:   chain,
		cache:   NewCache(1 * time.Minute),
		limiter: NewRateLimiter(5, time.Second),
	}
}

// Name returns the source name.
func (b *Blockchair) Name() string { return "Blockchair" }

// Ping verifies connectivity by fetching chain stats.
func (b *Blockchair) Ping(ctx context.Context) error {
	_, err := b.GetStats(ctx)
	return err
}

// --- Raw response types ---

type bcStatsResponse struct {
	Data models.BlockchainStats `json:"data"`
}

type bcTxListResponse struct {
	Data []bcTxItem `json:"data"`
}

type bcTxItem struct {
	Hash    string  `json:"hash"`
	BlockID int64   `json:"block_id"`
	Fee     float64 `json:"fee"`
	Amount  float64 `json:"amount"`
	Time    bcTime  `json:"time"`
}

// bcTime tolerates both encodings Blockchair has used for transaction
// times: unix seconds and "2006-01-02 15:04:05" strings.
type bcTime struct {
	time.Time
}

func (t *bcTime) UnmarshalJSON(data []byte) error {
	var secs float64
	if err := json.Unmarshal(data, &secs); err == nil {
		t.Time = time.Unix(int64(secs), 0).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("blockchair time: %w", err)
	}
	parsed, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return fmt.Errorf("blockchair time %q: %w", s, err)
	}
	t.Time = parsed.UTC()
	return nil
}

// --- Public methods ---

// GetStats returns network-wide counters for the configured chain.
func (b *Blockchair) GetStats(ctx context.Context) (*models.BlockchainStats, error) {
	cacheKey := "bc:stats:" + b.Chain
	if cached, ok := b.cache.Get(cacheKey); ok {
		return cached.(*models.BlockchainStats), nil
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/%s/stats", b.BaseURL, b.Chain)

	var resp bcStatsResponse
	if err := fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("blockchair stats: %w", err)
	}

	stats := resp.Data
	b.cache.Set(cacheKey, &stats)
	return &stats, nil
}

// GetRecentTransactions returns the latest transactions in API-provided
// order (newest first).
func (b *Blockchair) GetRecentTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	cacheKey := fmt.Sprintf("bc:txs:%s:%d", b.Chain, limit)
	if cached, ok := b.cache.Get(cacheKey); ok {
		return cached.([]models.Transaction), nil
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/%s/transactions?limit=%d", b.BaseURL, b.Chain, limit)

	var resp bcTxListResponse
	if err := fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("blockchair transactions: %w", err)
	}

	txs := make([]models.Transaction, 0, len(resp.Data))
	for _, item := range resp.Data {
		txs = append(txs, models.Transaction{
			Hash:    item.Hash,
			BlockID: item.BlockID,
			Fee:     item.Fee,
			Amount:  item.Amount,
			Time:    item.Time.Time,
		})
	}

	b.cache.Set(cacheKey, txs)
	return txs, nil
}
