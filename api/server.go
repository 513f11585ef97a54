// Package api provides the HTTP REST API server for LiteScan.
//
// It exposes the aggregated dashboard, its individual slices, the
// on-demand transaction lookup, and a WebSocket channel that announces
// background snapshot refreshes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/litescan/internal/config"
	"github.com/seenimoa/litescan/internal/dashboard"
	"github.com/seenimoa/litescan/internal/source"
)

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	agg     *dashboard.Aggregator
	lookup  *dashboard.Lookup
	wsHub   *WSHub
	refresh time.Duration
}

// AggregatorOptions maps the loaded configuration onto aggregator options.
func AggregatorOptions(cfg *config.Config) dashboard.Options {
	opts := dashboard.DefaultOptions()
	opts.AssetID = cfg.Asset.ID
	opts.AssetSymbol = cfg.Asset.Symbol
	opts.HistoryDays = cfg.Asset.HistoryDays
	opts.TxLimit = cfg.Asset.TxLimit
	opts.NewsLimit = cfg.Asset.NewsLimit
	opts.NewsAPIKey = cfg.Sources.NewsAPIKey
	opts.CoinGeckoURL = cfg.Sources.CoinGeckoURL
	opts.BlockchairURL = cfg.Sources.BlockchairURL
	opts.BlockCypherURL = cfg.Sources.BlockCypherURL
	opts.NewsAPIURL = cfg.Sources.NewsAPIURL
	opts.NewsFeeds = cfg.Sources.NewsFeeds

	opts.Compare = opts.Compare[:0]
	for _, pair := range cfg.CompareAssets() {
		opts.Compare = append(opts.Compare, dashboard.Asset{ID: pair[0], Symbol: pair[1]})
	}
	return opts
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) *Server {
	agg := dashboard.NewAggregator(AggregatorOptions(cfg))

	refresh := time.Duration(cfg.Refresh.IntervalSec) * time.Second
	if refresh <= 0 {
		refresh = time.Minute
	}

	srv := &Server{
		cfg:     cfg,
		agg:     agg,
		lookup:  dashboard.NewLookup(agg.BlockCypher()),
		wsHub:   NewWSHub(),
		refresh: refresh,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Aggregator returns the underlying aggregator.
func (s *Server) Aggregator() *dashboard.Aggregator {
	return s.agg
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	go s.runRefresher(refreshCtx)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")
	stopRefresh()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// runRefresher re-fetches the snapshot on an interval and announces
// each refresh to WebSocket clients.
func (s *Server) runRefresher(ctx context.Context) {
	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := s.agg.FetchSnapshot(ctx)
			if ctx.Err() != nil {
				return
			}
			s.wsHub.Broadcast(WSMessage{
				Type: "snapshot_refreshed",
				Data: map[string]interface{}{
					"fetched_at": snap.FetchedAt,
				},
			})
		}
	}
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/rates", s.handleRates)
		r.Get("/history", s.handleHistory)
		r.Get("/news", s.handleNews)

		r.Get("/tx/{hash}", s.handleTxLookup)

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status": "ok",
			"asset":  s.agg.Options().AssetSymbol,
			"time":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	snap := s.agg.FetchSnapshot(ctx)
	view := dashboard.Render(snap, s.agg.Options().AssetSymbol)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    view,
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.agg.FetchSnapshot(ctx),
	})
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	opts := s.agg.Options()
	ids := make([]string, 0, len(opts.Compare)+1)
	ids = append(ids, opts.AssetID)
	bySymbol := map[string]float64{}
	idToSymbol := map[string]string{opts.AssetID: opts.AssetSymbol}
	for _, c := range opts.Compare {
		ids = append(ids, c.ID)
		idToSymbol[c.ID] = c.Symbol
	}

	prices, err := s.agg.CoinGecko().GetUSDPrices(ctx, ids)
	if err != nil {
		writeError(w, statusFromErr(err), err.Error())
		return
	}
	for id, usd := range prices {
		if sym, ok := idToSymbol[id]; ok {
			bySymbol[sym] = usd
		}
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    dashboard.ComputeExchangeRates(opts.AssetSymbol, bySymbol),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	opts := s.agg.Options()
	days := opts.HistoryDays
	if d := r.URL.Query().Get("days"); d == "7" {
		days = 7
	}

	pairs, err := s.agg.CoinGecko().GetMarketChart(ctx, opts.AssetID, days)
	if err != nil {
		writeError(w, statusFromErr(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    dashboard.ProcessHistory(pairs),
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	articles, err := s.agg.NewsSource().GetHeadlines(ctx, s.agg.Options().NewsLimit)
	if err != nil {
		writeError(w, statusFromErr(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    articles,
	})
}

// handleTxLookup is the one user-visible error path: a failed lookup
// returns a human-readable message instead of defaulted data.
func (s *Server) handleTxLookup(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	if hash == "" {
		writeError(w, http.StatusBadRequest, "transaction hash is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	state := s.lookup.Search(ctx, hash)
	if state.Status == dashboard.LookupError {
		writeJSON(w, http.StatusNotFound, APIResponse{
			Success: false,
			Error:   state.Message,
		})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    state.Result,
	})
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// statusFromErr maps source errors to HTTP statuses.
func statusFromErr(err error) int {
	var httpErr *source.ErrHTTP
	if errors.As(err, &httpErr) {
		return http.StatusBadGateway
	}
	if errors.Is(err, source.ErrTxNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
