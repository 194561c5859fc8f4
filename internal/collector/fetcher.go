package collector

import (
	"context"

	"RTMonitor/internal/model"
)

// Fetcher defines the interface for retrieving market data from a broker.
type Fetcher interface {
	// FetchCandles returns up to count candles for the instrument at the
	// given granularity, ordered by time ascending.
	FetchCandles(ctx context.Context, instrument string, granularity model.Granularity, count int) ([]model.Candle, error)
	// FetchOpenPositions returns one entry per directional leg of each
	// open position.
	FetchOpenPositions(ctx context.Context) ([]model.Position, error)
	Name() string
}
