package dashboard

import (
	"strconv"

	"github.com/seenimoa/litescan/pkg/format"
	"github.com/seenimoa/litescan/pkg/models"
)

// View is the fully rendered dashboard: every card value a display
// string, with "N/A" wherever source data is absent. Rendering never
// assumes any slot or field is present.
type View struct {
	// Price cards.
	Price             string `json:"price"`
	MarketCap         string `json:"market_cap"`
	Volume24h         string `json:"volume_24h"`
	Change24h         string `json:"change_24h"`
	CirculatingSupply string `json:"circulating_supply"`
	MaxSupply         string `json:"max_supply"`

	// Chain cards.
	Blocks          string `json:"blocks"`
	Transactions    string `json:"transactions"`
	Transactions24h string `json:"transactions_24h"`
	Difficulty      string `json:"difficulty"`

	LatestTransactions []TxRow             `json:"latest_transactions"`
	Rates              map[string]string   `json:"rates"`
	History            []models.PricePoint `json:"history"`
	News               []models.NewsArticle `json:"news"`
}

// TxRow is one row of the recent-transactions table.
type TxRow struct {
	Hash      string `json:"hash"`
	ShortHash string `json:"short_hash"`
	BlockID   string `json:"block_id"`
	Fee       string `json:"fee"`
	Amount    string `json:"amount"`
	Time      string `json:"time"`
}

// Render normalizes a snapshot into a View. Missing parent objects
// degrade to placeholders; percentages get exactly 2 decimal places and
// large amounts locale-aware thousands separators.
func Render(snap *Snapshot, symbol string) View {
	v := View{
		Price:             format.Placeholder,
		MarketCap:         format.Placeholder,
		Volume24h:         format.Placeholder,
		Change24h:         format.Placeholder,
		CirculatingSupply: format.Placeholder,
		MaxSupply:         format.Placeholder,
		Blocks:            format.Placeholder,
		Transactions:      format.Placeholder,
		Transactions24h:   format.Placeholder,
		Difficulty:        format.Placeholder,
		LatestTransactions: []TxRow{},
		Rates:              map[string]string{},
	}
	if snap == nil {
		return v
	}

	if p := snap.Price; p != nil {
		v.Price = format.USD(strconv.FormatFloat(p.USD, 'f', -1, 64))
		v.MarketCap = format.USD(format.Grouped(p.USDMarketCap))
		v.Volume24h = format.USD(format.Grouped(p.USD24hVol))
		v.Change24h = format.Pct(p.USD24hChange)
	}

	if m := snap.Market; m != nil {
		v.CirculatingSupply = format.Coin(format.Grouped(m.CirculatingSupply), symbol)
		if m.MaxSupply != nil {
			v.MaxSupply = format.Coin(format.Grouped(*m.MaxSupply), symbol)
		}
	}

	if s := snap.Stats; s != nil {
		v.Blocks = format.Grouped(float64(s.Blocks))
		v.Transactions = format.Grouped(float64(s.Transactions))
		v.Transactions24h = format.Grouped(float64(s.Transactions24h))
		v.Difficulty = format.Grouped(s.Difficulty)
	}

	for _, tx := range snap.Transactions {
		v.LatestTransactions = append(v.LatestTransactions, TxRow{
			Hash:      tx.Hash,
			ShortHash: shortHash(tx.Hash),
			BlockID:   strconv.FormatInt(tx.BlockID, 10),
			Fee:       format.Coin(strconv.FormatFloat(tx.Fee, 'f', -1, 64), symbol),
			Amount:    format.Coin(strconv.FormatFloat(tx.Amount, 'f', -1, 64), symbol),
			Time:      tx.Time.Format("Jan 2, 2006 3:04 PM"),
		})
	}

	for asset, rate := range snap.Rates {
		v.Rates[asset] = format.Rate(rate)
	}

	v.History = snap.History
	v.News = snap.News
	return v
}

// shortHash abbreviates a transaction hash to its first and last five
// characters.
func shortHash(hash string) string {
	if len(hash) <= 10 {
		return hash
	}
	return hash[:5] + "..." + hash[len(hash)-5:]
}
