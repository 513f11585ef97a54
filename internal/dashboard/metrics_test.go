package dashboard

import (
	"math"
	"testing"
)

func TestComputeExchangeRates(t *testing.T) {
	prices := map[string]float64{
		"LTC": 65,
		"BTC": 65000,
		"ETH": 3250,
	}
	rates := ComputeExchangeRates("LTC", prices)

	if len(rates) != 2 {
		t.Fatalf("got %d rates, want 2", len(rates))
	}
	if rates["BTC"].StringFixed(8) != "0.00100000" {
		t.Errorf("LTC/BTC = %s, want 0.00100000", rates["BTC"].StringFixed(8))
	}
	if rates["ETH"].StringFixed(8) != "0.02000000" {
		t.Errorf("LTC/ETH = %s, want 0.02000000", rates["ETH"].StringFixed(8))
	}
}

func TestComputeExchangeRatesOmitsUnusable(t *testing.T) {
	prices := map[string]float64{
		"LTC":  100,
		"BTC":  0,
		"ETH":  math.Inf(1),
		"DOGE": math.NaN(),
		"XRP":  -1,
	}
	rates := ComputeExchangeRates("LTC", prices)
	if len(rates) != 0 {
		t.Errorf("expected all unusable denominators omitted, got %v", rates)
	}
}

func TestComputeExchangeRatesPrimaryMissing(t *testing.T) {
	rates := ComputeExchangeRates("LTC", map[string]float64{"BTC": 65000})
	if len(rates) != 0 {
		t.Errorf("expected empty map when primary price absent, got %v", rates)
	}
}

func TestComputeExchangeRatesPrimaryZero(t *testing.T) {
	rates := ComputeExchangeRates("LTC", map[string]float64{"LTC": 0, "BTC": 65000})
	if len(rates) != 0 {
		t.Errorf("expected empty map when primary price is zero, got %v", rates)
	}
}

func TestComputeExchangeRatesRounding(t *testing.T) {
	// 1 / 3 rounds at the 8th decimal place.
	rates := ComputeExchangeRates("LTC", map[string]float64{"LTC": 1, "BTC": 3})
	if rates["BTC"].StringFixed(8) != "0.33333333" {
		t.Errorf("LTC/BTC = %s, want 0.33333333", rates["BTC"].StringFixed(8))
	}
}

func TestProcessHistory(t *testing.T) {
	pairs := [][2]float64{
		{0, 50.005},
		{86400000, 51.1},
	}
	points := ProcessHistory(pairs)

	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Date != "Jan 1, 1970" {
		t.Errorf("Date = %q, want %q", points[0].Date, "Jan 1, 1970")
	}
	// Half-up at the 2nd decimal place.
	if points[0].Price != "50.01" {
		t.Errorf("Price = %q, want %q", points[0].Price, "50.01")
	}
	if points[1].Date != "Jan 2, 1970" {
		t.Errorf("Date = %q, want %q", points[1].Date, "Jan 2, 1970")
	}
	if points[1].Price != "51.10" {
		t.Errorf("Price = %q, want %q", points[1].Price, "51.10")
	}
}

func TestProcessHistoryPreservesOrder(t *testing.T) {
	pairs := [][2]float64{
		{1700000000000, 65.1},
		{1700086400000, 66.2},
		{1700172800000, 64.9},
	}
	points := ProcessHistory(pairs)
	if len(points) != 3 {
		t.Fatalf("got %d points", len(points))
	}
	if points[0].Price != "65.10" || points[2].Price != "64.90" {
		t.Errorf("order not preserved: %v", points)
	}
}

func TestProcessHistoryEmpty(t *testing.T) {
	points := ProcessHistory(nil)
	if points == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(points) != 0 {
		t.Errorf("got %d points, want 0", len(points))
	}
}
