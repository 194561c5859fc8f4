package model

import "time"

// Granularity identifies a candle timeframe in broker notation.
type Granularity string

const (
	GranularityH1 Granularity = "H1"
	GranularityH4 Granularity = "H4"
	GranularityD1 Granularity = "D"
)

// Candle represents a single OHLC bar (mid prices).
type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Closes extracts the close-price series from a candle sequence.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
