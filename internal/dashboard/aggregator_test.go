package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newCoinGeckoStub serves the CoinGecko endpoints the aggregator hits.
func newCoinGeckoStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/simple/price" && r.URL.Query().Get("include_market_cap") == "true":
			w.Write([]byte(`{"litecoin":{"usd":65,"usd_market_cap":4900000000,"usd_24h_vol":350000000,"usd_24h_change":-3.4567}}`))
		case r.URL.Path == "/simple/price":
			w.Write([]byte(`{"litecoin":{"usd":65},"bitcoin":{"usd":65000},"ethereum":{"usd":3250},"dogecoin":{"usd":0.13}}`))
		case r.URL.Path == "/coins/litecoin":
			w.Write([]byte(`{"market_data":{"circulating_supply":75000000,"max_supply":84000000}}`))
		case strings.HasSuffix(r.URL.Path, "/market_chart"):
			w.Write([]byte(`{"prices":[[1700000000000,50.005],[1700086400000,51.1]]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newBlockchairStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/stats"):
			w.Write([]byte(`{"data":{"blocks":2750000,"transactions":195000000,"transactions_24h":42000,"difficulty":28500000}}`))
		case strings.HasSuffix(r.URL.Path, "/transactions"):
			w.Write([]byte(`{"data":[{"hash":"aaa111","block_id":2750000,"fee":0.0001,"amount":12.5,"time":"2024-06-01 10:30:00"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newNewsStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"articles":[{"title":"Litecoin story","url":"https://example.com","source":{"name":"Example"},"publishedAt":"2024-06-01T10:00:00Z"}]}`))
	}))
}

func testOptions(cgURL, bcURL, newsURL string) Options {
	opts := DefaultOptions()
	opts.CoinGeckoURL = cgURL
	opts.BlockchairURL = bcURL
	opts.NewsAPIURL = newsURL
	opts.NewsAPIKey = "test-key"
	return opts
}

func TestFetchSnapshotAllSources(t *testing.T) {
	cg := newCoinGeckoStub(t)
	defer cg.Close()
	bc := newBlockchairStub(t)
	defer bc.Close()
	news := newNewsStub(t)
	defer news.Close()

	agg := NewAggregator(testOptions(cg.URL, bc.URL, news.URL))
	snap := agg.FetchSnapshot(context.Background())

	if snap.Price == nil || snap.Price.USD != 65 {
		t.Errorf("Price = %+v", snap.Price)
	}
	if snap.Market == nil || snap.Market.CirculatingSupply != 75000000 {
		t.Errorf("Market = %+v", snap.Market)
	}
	if snap.Stats == nil || snap.Stats.Blocks != 2750000 {
		t.Errorf("Stats = %+v", snap.Stats)
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].Hash != "aaa111" {
		t.Errorf("Transactions = %+v", snap.Transactions)
	}
	if len(snap.News) != 1 {
		t.Errorf("News = %+v", snap.News)
	}
	if snap.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}

	// Derived history: dates formatted, prices fixed to 2 decimals.
	if len(snap.History) != 2 {
		t.Fatalf("History = %+v", snap.History)
	}
	if snap.History[0].Price != "50.01" {
		t.Errorf("History[0].Price = %q, want 50.01", snap.History[0].Price)
	}

	// Derived rates are keyed by display symbol.
	if len(snap.Rates) != 3 {
		t.Fatalf("Rates = %+v", snap.Rates)
	}
	if snap.Rates["BTC"].StringFixed(8) != "0.00100000" {
		t.Errorf("Rates[BTC] = %s", snap.Rates["BTC"].StringFixed(8))
	}
	if snap.Rates["ETH"].StringFixed(8) != "0.02000000" {
		t.Errorf("Rates[ETH] = %s", snap.Rates["ETH"].StringFixed(8))
	}
	if _, ok := snap.Rates["LTC"]; ok {
		t.Error("primary asset must not appear in its own rate map")
	}
}

func TestFetchSnapshotPartialFailure(t *testing.T) {
	cg := newCoinGeckoStub(t)
	defer cg.Close()
	news := newNewsStub(t)
	defer news.Close()

	// Blockchair is down; its two slots must stay empty while every
	// other slot still populates.
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer down.Close()

	agg := NewAggregator(testOptions(cg.URL, down.URL, news.URL))
	snap := agg.FetchSnapshot(context.Background())

	if snap.Stats != nil {
		t.Errorf("Stats = %+v, want nil when source is down", snap.Stats)
	}
	if snap.Transactions != nil {
		t.Errorf("Transactions = %+v, want nil", snap.Transactions)
	}

	if snap.Price == nil {
		t.Error("Price slot should survive a sibling source failure")
	}
	if snap.Market == nil {
		t.Error("Market slot should survive a sibling source failure")
	}
	if len(snap.News) != 1 {
		t.Errorf("News = %+v", snap.News)
	}
	if len(snap.History) != 2 {
		t.Errorf("History = %+v", snap.History)
	}
	if len(snap.Rates) != 3 {
		t.Errorf("Rates = %+v", snap.Rates)
	}
}

func TestFetchSnapshotCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg := NewAggregator(DefaultOptions())
	snap := agg.FetchSnapshot(ctx)
	if snap == nil {
		t.Fatal("expected a snapshot even under a cancelled context")
	}
	if snap.Price != nil || snap.Stats != nil {
		t.Errorf("cancelled fetch populated slots: %+v", snap)
	}
}

func TestNewAggregatorDefaults(t *testing.T) {
	agg := NewAggregator(Options{})
	opts := agg.Options()
	if opts.AssetID != "litecoin" || opts.AssetSymbol != "LTC" {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if opts.TxLimit != 5 || opts.HistoryDays != 30 {
		t.Errorf("limits not defaulted: %+v", opts)
	}
}

func TestDeriveRatesNilPrices(t *testing.T) {
	agg := NewAggregator(DefaultOptions())
	rates := agg.deriveRates(nil)
	if rates == nil {
		t.Fatal("expected non-nil empty map")
	}
	if len(rates) != 0 {
		t.Errorf("rates = %v", rates)
	}
}
