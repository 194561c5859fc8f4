package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"RTMonitor/internal/model"
)

const candlePayload = `{
  "instrument": "EUR_USD",
  "granularity": "H1",
  "candles": [
    {"complete": true, "time": "2026-08-20T10:00:00.000000000Z",
     "mid": {"o": "1.1000", "h": "1.1015", "l": "1.0990", "c": "1.1010"}},
    {"complete": true, "time": "2026-08-20T09:00:00.000000000Z",
     "mid": {"o": "1.0990", "h": "1.1005", "l": "1.0980", "c": "1.1000"}}
  ]
}`

const positionPayload = `{
  "positions": [
    {"instrument": "EUR_USD",
     "long": {"units": "1000", "unrealizedPL": "12.5"},
     "short": {"units": "0", "unrealizedPL": "0"}},
    {"instrument": "USD_JPY",
     "long": {"units": "0", "unrealizedPL": "0"},
     "short": {"units": "-2000", "unrealizedPL": "-3.25"}}
  ]
}`

func newTestFetcher(handler http.HandlerFunc) (*OandaFetcher, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewOandaFetcher(srv.URL, "test-key", "acct-001", ""), srv
}

func TestFetchCandles_ParsesAndSorts(t *testing.T) {
	var gotAuth string
	f, srv := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(candlePayload))
	})
	defer srv.Close()

	candles, err := f.FetchCandles(context.Background(), "EUR_USD", model.GranularityH1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if !candles[0].Time.Before(candles[1].Time) {
		t.Error("candles not sorted ascending by time")
	}
	if candles[0].Close != 1.1000 || candles[1].Close != 1.1010 {
		t.Errorf("unexpected closes: %v, %v", candles[0].Close, candles[1].Close)
	}
}

func TestFetchCandles_EmptyResponse(t *testing.T) {
	f, srv := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candles": []}`))
	})
	defer srv.Close()

	if _, err := f.FetchCandles(context.Background(), "EUR_USD", model.GranularityH1, 10); err == nil {
		t.Fatal("expected error for empty candle set")
	}
}

func TestFetchOpenPositions_FlattensLegs(t *testing.T) {
	f, srv := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(positionPayload))
	})
	defer srv.Close()

	positions, err := f.FetchOpenPositions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 position legs, got %d", len(positions))
	}
	if positions[0].Direction != model.DirectionLong || positions[0].Units != 1000 {
		t.Errorf("unexpected long leg: %+v", positions[0])
	}
	if positions[1].Direction != model.DirectionShort || positions[1].Units != 2000 {
		t.Errorf("unexpected short leg: %+v", positions[1])
	}
	if positions[1].UnrealizedPL != -3.25 {
		t.Errorf("unexpected unrealized P&L: %v", positions[1].UnrealizedPL)
	}
}

// Short units must come out positive whatever sign the broker reports.
func TestFetchOpenPositions_PositiveShortUnits(t *testing.T) {
	f, srv := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"positions": [
			{"instrument": "USD_JPY",
			 "long": {"units": "0", "unrealizedPL": "0"},
			 "short": {"units": "2000", "unrealizedPL": "-1.5"}}
		]}`))
	})
	defer srv.Close()

	positions, err := f.FetchOpenPositions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("expected 1 position leg, got %d", len(positions))
	}
	if positions[0].Units != 2000 {
		t.Errorf("expected 2000 units, got %v", positions[0].Units)
	}
}

func TestFetchOpenPositions_RequiresAccount(t *testing.T) {
	f := NewOandaFetcher("http://unused", "k", "", "")
	if _, err := f.FetchOpenPositions(context.Background()); err == nil {
		t.Fatal("expected error without account id")
	}
}
