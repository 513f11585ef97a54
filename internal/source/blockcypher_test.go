package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestBlockCypher(handler http.Handler) (*BlockCypher, *httptest.Server) {
	srv := httptest.NewServer(handler)
	bc := NewBlockCypher("ltc/main")
	bc.BaseURL = srv.URL
	return bc, srv
}

func TestBlockCypherGetTransaction(t *testing.T) {
	bc, srv := newTestBlockCypher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ltc/main/txs/abc123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"hash":"abc123",
			"block_height":2750000,
			"fees":12500,
			"total":155000000,
			"received":"2024-06-01T10:30:00Z",
			"size":226
		}`))
	}))
	defer srv.Close()

	tx, err := bc.GetTransaction(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if tx.Hash != "abc123" {
		t.Errorf("Hash = %s", tx.Hash)
	}
	if tx.BlockHeight != 2750000 {
		t.Errorf("BlockHeight = %d", tx.BlockHeight)
	}

	// Litoshi amounts are converted to whole coins.
	if tx.Fee.String() != "0.000125" {
		t.Errorf("Fee = %s, want 0.000125", tx.Fee.String())
	}
	if tx.Total.String() != "1.55" {
		t.Errorf("Total = %s, want 1.55", tx.Total.String())
	}

	want := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	if !tx.Received.Equal(want) {
		t.Errorf("Received = %v, want %v", tx.Received, want)
	}
	if tx.Size != 226 {
		t.Errorf("Size = %d", tx.Size)
	}
}

func TestBlockCypherGetTransactionNotFound(t *testing.T) {
	bc, srv := newTestBlockCypher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Transaction not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := bc.GetTransaction(context.Background(), "deadbeef")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !errors.Is(err, ErrTxNotFound) {
		t.Fatalf("expected ErrTxNotFound, got %v", err)
	}
}

func TestBlockCypherGetTransactionEmptyHash(t *testing.T) {
	bc := NewBlockCypher("ltc/main")
	_, err := bc.GetTransaction(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty hash")
	}
	if errors.Is(err, ErrTxNotFound) {
		t.Fatal("empty hash is a usage error, not a lookup miss")
	}
}

func TestBlockCypherPing(t *testing.T) {
	bc, srv := newTestBlockCypher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ltc/main" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"name":"LTC.main","height":2750000}`))
	}))
	defer srv.Close()

	if err := bc.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}
