package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BlockchainStats holds network-wide counters from the chain statistics
// endpoint.
type BlockchainStats struct {
	Blocks          int64   `json:"blocks"`
	Transactions    int64   `json:"transactions"`
	Transactions24h int64   `json:"transactions_24h"`
	Difficulty      float64 `json:"difficulty"`
}

// Transaction is the bulk-list shape returned by the recent-transactions
// endpoint. Order is the API-provided order (newest first). Fee and
// Amount are passed through as delivered by the source.
//
// This shape is not interchangeable with TransactionDetail: the two come
// from different providers and their fee fields use different units.
type Transaction struct {
	Hash    string    `json:"hash"`
	BlockID int64     `json:"block_id"`
	Fee     float64   `json:"fee"`
	Amount  float64   `json:"amount,omitempty"`
	Time    time.Time `json:"time"`
}

// TransactionDetail is the single-lookup shape. Fee and Total arrive
// from the source in litoshi and are converted to whole-coin units
// (divided by 1e8) before the struct is populated.
type TransactionDetail struct {
	Hash        string          `json:"hash"`
	BlockHeight int64           `json:"block_height"`
	Fee         decimal.Decimal `json:"fee"`
	Total       decimal.Decimal `json:"total"`
	Received    time.Time       `json:"received"`
	Size        int64           `json:"size"` // bytes
}
