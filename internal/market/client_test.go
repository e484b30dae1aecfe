package market

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExchangeRate(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"rates":{"USD":0.0111,"EUR":0.0102}}`))
	}))
	defer server.Close()

	client := NewClient(Options{
		ExchangeBaseURL: server.URL,
		ExchangeAPIKey:  "key",
		Logger:          discardLogger(),
	})

	rate, ok := client.ExchangeRate(context.Background(), "USD")
	if !ok {
		t.Fatalf("lookup failed")
	}
	// 1/0.0111 = 90.0900..., rounded to four decimals.
	if rate != 90.0901 {
		t.Fatalf("rate = %v, want 90.0901", rate)
	}

	// Second call for the same currency is served from cache.
	if _, ok := client.ExchangeRate(context.Background(), "USD"); !ok {
		t.Fatalf("cached lookup failed")
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}

	if _, ok := client.ExchangeRate(context.Background(), "XYZ"); ok {
		t.Fatalf("unknown currency must fail the lookup")
	}
}

func TestExchangeRateWithoutAPIKey(t *testing.T) {
	client := NewClient(Options{Logger: discardLogger()})
	if _, ok := client.ExchangeRate(context.Background(), "USD"); ok {
		t.Fatalf("missing API key must fail the lookup")
	}
}

func TestStockPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") != "GLOBAL_QUOTE" {
			t.Errorf("unexpected function %q", r.URL.Query().Get("function"))
		}
		switch r.URL.Query().Get("symbol") {
		case "AAPL":
			w.Write([]byte(`{"Global Quote":{"01. symbol":"AAPL","05. price":"150.1234"}}`))
		default:
			w.Write([]byte(`{"Global Quote":{}}`))
		}
	}))
	defer server.Close()

	client := NewClient(Options{
		StockBaseURL: server.URL,
		StockAPIKey:  "key",
		Logger:       discardLogger(),
	})

	price, ok := client.StockPrice(context.Background(), "AAPL")
	if !ok || price != 150.12 {
		t.Fatalf("price = %v (ok=%v), want 150.12", price, ok)
	}

	if _, ok := client.StockPrice(context.Background(), "GOOGL"); ok {
		t.Fatalf("empty quote must fail the lookup")
	}
}

func TestLookupUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Options{
		ExchangeBaseURL: server.URL,
		ExchangeAPIKey:  "key",
		Timeout:         2 * time.Second,
		Logger:          discardLogger(),
	})
	if _, ok := client.ExchangeRate(context.Background(), "USD"); ok {
		t.Fatalf("5xx upstream must fail the lookup")
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user_settings.json")
	content := `{"user_currencies":["USD","EUR"],"user_stocks":["AAPL","AMZN"]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	settings := LoadSettings(path, discardLogger())
	if len(settings.UserCurrencies) != 2 || settings.UserCurrencies[1] != "EUR" {
		t.Fatalf("currencies = %v", settings.UserCurrencies)
	}
	if len(settings.UserStocks) != 2 || settings.UserStocks[0] != "AAPL" {
		t.Fatalf("stocks = %v", settings.UserStocks)
	}
}

func TestLoadSettingsDegradesToDefaults(t *testing.T) {
	missing := LoadSettings("/does/not/exist.json", discardLogger())
	if len(missing.UserCurrencies) != 1 || missing.UserCurrencies[0] != "USD" {
		t.Fatalf("missing file expected defaults, got %v", missing.UserCurrencies)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "user_settings.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	invalid := LoadSettings(path, discardLogger())
	if len(invalid.UserStocks) != 1 || invalid.UserStocks[0] != "AAPL" {
		t.Fatalf("broken file expected defaults, got %v", invalid.UserStocks)
	}
}
