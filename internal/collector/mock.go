package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"RTMonitor/internal/model"
)

// MockFetcher serves canned or generated data for tests and dry runs.
type MockFetcher struct {
	// Candles maps instrument to a fixed series. Instruments without an
	// entry get a generated drifting series.
	Candles   map[string][]model.Candle
	Positions []model.Position
	// Err, when set, is returned by every fetch.
	Err error
	// FailFor lists instruments whose candle fetches fail.
	FailFor map[string]bool
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Candles: make(map[string][]model.Candle),
		FailFor: make(map[string]bool),
	}
}

func (f *MockFetcher) Name() string { return "mock" }

func (f *MockFetcher) FetchCandles(_ context.Context, instrument string, granularity model.Granularity, count int) ([]model.Candle, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.FailFor[instrument] {
		return nil, fmt.Errorf("mock failure for %s", instrument)
	}
	if series, ok := f.Candles[instrument]; ok {
		if len(series) > count {
			return series[len(series)-count:], nil
		}
		return series, nil
	}
	return generateCandles(instrument, granularity, count), nil
}

func (f *MockFetcher) FetchOpenPositions(_ context.Context) ([]model.Position, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Positions, nil
}

// generateCandles produces a gently oscillating series so downstream
// indicators have something plausible to chew on.
func generateCandles(instrument string, granularity model.Granularity, count int) []model.Candle {
	step := time.Hour
	if granularity == model.GranularityD1 {
		step = 24 * time.Hour
	}
	base := 1.0 + float64(len(instrument)%7)*0.1
	start := time.Now().UTC().Add(-time.Duration(count) * step).Truncate(step)

	candles := make([]model.Candle, count)
	for i := range candles {
		price := base * (1 + 0.01*math.Sin(float64(i)/9))
		candles[i] = model.Candle{
			Time:  start.Add(time.Duration(i) * step),
			Open:  price * 0.999,
			High:  price * 1.001,
			Low:   price * 0.998,
			Close: price,
		}
	}
	return candles
}
