package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seenimoa/litescan/pkg/models"
)

// DefaultBlockCypherURL is the public BlockCypher API base.
const DefaultBlockCypherURL = "https://api.blockcypher.com"

// litoshiPerCoin converts the smallest subunit to whole coins.
var litoshiPerCoin = decimal.NewFromInt(100000000)

// BlockCypher serves the on-demand single-transaction lookup. Its
// payload shape differs from the Blockchair bulk list and stays a
// separate type.
type BlockCypher struct {
	BaseURL string
	Chain   string // URL path segment, e.g. "ltc/main"
	limiter *RateLimiter
}

// NewBlockCypher creates a BlockCypher source for the given chain path.
// Lookups are user-triggered and must reflect current upstream state, so
// there is no cache.
func NewBlockCypher(chain string) *BlockCypher {
	return &BlockCypher{
		BaseURL: DefaultBlockCypherURL,
		Chain:   chain,
		limiter: NewRateLimiter(3, time.Second),
	}
}

// Name returns the source name.
func (b *BlockCypher) Name() string { return "BlockCypher" }

// Ping verifies connectivity by fetching the chain summary.
func (b *BlockCypher) Ping(ctx context.Context) error {
	body, _, err := doGet(ctx, fmt.Sprintf("%s/v1/%s", b.BaseURL, b.Chain), nil)
	if err != nil {
		return fmt.Errorf("blockcypher ping: %w", err)
	}
	body.Close()
	return nil
}

// --- Raw response type ---

type bcyTxResponse struct {
	Hash        string    `json:"hash"`
	BlockHeight int64     `json:"block_height"`
	Fees        int64     `json:"fees"`  // litoshi
	Total       int64     `json:"total"` // litoshi
	Received    time.Time `json:"received"`
	Size        int64     `json:"size"`
}

// GetTransaction looks up a transaction by hash. Fee and total are
// converted from litoshi to whole-coin units. A non-success upstream
// status yields ErrTxNotFound; unlike the bulk path, this failure is
// surfaced to the user rather than defaulted away.
func (b *BlockCypher) GetTransaction(ctx context.Context, hash string) (*models.TransactionDetail, error) {
	if hash == "" {
		return nil, fmt.Errorf("empty transaction hash")
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v1/%s/txs/%s", b.BaseURL, b.Chain, url.PathEscape(hash))

	var resp bcyTxResponse
	if err := fetchJSON(ctx, u, &resp); err != nil {
		var httpErr *ErrHTTP
		if errors.As(err, &httpErr) {
			return nil, fmt.Errorf("%w: %s", ErrTxNotFound, hash)
		}
		return nil, fmt.Errorf("blockcypher lookup: %w", err)
	}

	return &models.TransactionDetail{
		Hash:        resp.Hash,
		BlockHeight: resp.BlockHeight,
		Fee:         decimal.NewFromInt(resp.Fees).Div(litoshiPerCoin),
		Total:       decimal.NewFromInt(resp.Total).Div(litoshiPerCoin),
		Received:    resp.Received,
		Size:        resp.Size,
	}, nil
}
