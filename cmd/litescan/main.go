// LiteScan is a Litecoin dashboard data aggregation service.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/seenimoa/litescan/api"
	"github.com/seenimoa/litescan/internal/config"
	"github.com/seenimoa/litescan/internal/dashboard"
	"github.com/seenimoa/litescan/pkg/format"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "litescan",
	Short: "LiteScan — Litecoin dashboard data aggregation service",
	Long: `LiteScan aggregates Litecoin market, blockchain, and news data from
multiple public sources into a single dashboard snapshot, tolerating
partial upstream failures.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(statusCmd)
}

// newAggregator builds an aggregator from the loaded config.
func newAggregator() *dashboard.Aggregator {
	return dashboard.NewAggregator(api.AggregatorOptions(cfg))
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("LiteScan %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting LiteScan API server on %s\n", addr)
		return api.NewServer(cfg).ListenAndServe(addr)
	},
}

// --- Dashboard Command ---

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Fetch and print the full dashboard snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		agg := newAggregator()
		snap := agg.FetchSnapshot(ctx)
		view := dashboard.Render(snap, cfg.Asset.Symbol)

		fmt.Printf("═══ %s Dashboard ═══\n", cfg.Asset.Symbol)
		fmt.Printf("  Price:              %s\n", view.Price)
		fmt.Printf("  Market Cap:         %s\n", view.MarketCap)
		fmt.Printf("  24h Volume:         %s\n", view.Volume24h)
		fmt.Printf("  24h Change:         %s\n", view.Change24h)
		fmt.Printf("  Circulating Supply: %s\n", view.CirculatingSupply)
		fmt.Printf("  Max Supply:         %s\n", view.MaxSupply)
		fmt.Println()
		fmt.Printf("  Blocks:             %s\n", view.Blocks)
		fmt.Printf("  Transactions:       %s\n", view.Transactions)
		fmt.Printf("  Transactions (24h): %s\n", view.Transactions24h)
		fmt.Printf("  Difficulty:         %s\n", view.Difficulty)

		if len(view.LatestTransactions) > 0 {
			fmt.Println("\n  Latest Transactions:")
			for _, tx := range view.LatestTransactions {
				fmt.Printf("    %-13s  block %-9s  fee %-16s  %s\n",
					tx.ShortHash, tx.BlockID, tx.Fee, tx.Time)
			}
		}

		if len(view.Rates) > 0 {
			fmt.Println("\n  Exchange Rates:")
			for asset, rate := range view.Rates {
				fmt.Printf("    1 %s = %s %s\n", cfg.Asset.Symbol, rate, asset)
			}
		}

		if len(view.News) > 0 {
			fmt.Println("\n  News:")
			for _, a := range view.News {
				fmt.Printf("    • %s (%s)\n", a.Title, a.Source)
			}
		}
		return nil
	},
}

// --- Transaction Lookup Command ---

var txCmd = &cobra.Command{
	Use:   "tx [hash]",
	Short: "Look up a transaction by hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		agg := newAggregator()
		lookup := dashboard.NewLookup(agg.BlockCypher())
		state := lookup.Search(ctx, args[0])

		if state.Status == dashboard.LookupError {
			fmt.Printf("❌ %s\n", state.Message)
			os.Exit(1)
		}

		tx := state.Result
		fmt.Printf("🔍 Transaction %s\n", tx.Hash)
		fmt.Printf("  Block:    %d\n", tx.BlockHeight)
		fmt.Printf("  Total:    %s %s\n", tx.Total.String(), cfg.Asset.Symbol)
		fmt.Printf("  Fee:      %s %s\n", tx.Fee.String(), cfg.Asset.Symbol)
		fmt.Printf("  Size:     %d bytes\n", tx.Size)
		fmt.Printf("  Received: %s\n", tx.Received.Format(time.RFC3339))
		return nil
	},
}

// --- Rates Command ---

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Print derived exchange rates for the primary asset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		agg := newAggregator()
		opts := agg.Options()

		ids := []string{opts.AssetID}
		symbols := map[string]string{opts.AssetID: opts.AssetSymbol}
		for _, c := range opts.Compare {
			ids = append(ids, c.ID)
			symbols[c.ID] = c.Symbol
		}

		prices, err := agg.CoinGecko().GetUSDPrices(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to fetch prices: %w", err)
		}

		rates := dashboard.ComputeExchangeRates(opts.AssetID, prices)
		fmt.Printf("Exchange rates for %s:\n", opts.AssetSymbol)
		for id, rate := range rates {
			sym := symbols[id]
			if sym == "" {
				sym = id
			}
			fmt.Printf("  1 %s = %s %s\n", opts.AssetSymbol, format.Rate(rate), sym)
		}
		return nil
	},
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Print latest news headlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		agg := newAggregator()
		articles, err := agg.NewsSource().GetHeadlines(ctx, cfg.Asset.NewsLimit)
		if err != nil {
			return fmt.Errorf("failed to fetch news: %w", err)
		}

		for _, a := range articles {
			fmt.Printf("• %s\n  %s — %s\n", a.Title, a.Source, a.URL)
		}
		return nil
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and upstream source health",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  LiteScan — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:    %s (%s)\n", version, commit)
		fmt.Printf("  Asset:      %s (%s)\n", cfg.Asset.Symbol, cfg.Asset.ID)
		fmt.Printf("  API Server: %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		agg := newAggregator()
		sources := []struct {
			name string
			ping func(context.Context) error
		}{
			{agg.CoinGecko().Name(), agg.CoinGecko().Ping},
			{agg.Blockchair().Name(), agg.Blockchair().Ping},
			{agg.BlockCypher().Name(), agg.BlockCypher().Ping},
			{agg.NewsSource().Name(), agg.NewsSource().Ping},
		}

		fmt.Println("  Upstream Sources:")
		for _, src := range sources {
			status := "✅ reachable"
			if err := src.ping(ctx); err != nil {
				status = fmt.Sprintf("❌ %v", err)
			}
			fmt.Printf("    %-12s %s\n", src.name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
