package model

import "time"

// SlotResult is the outcome of one (timeframe, period) pipeline run.
// Values is always exactly the slot's trailing-window length: on any
// failure the slot degrades to zeros and Reason says why.
type SlotResult struct {
	Values   []int
	Degraded bool
	Reason   string
}

// DegradedSlot builds a zero-filled result of the given window length.
func DegradedSlot(window int, reason string) SlotResult {
	return SlotResult{
		Values:   make([]int, window),
		Degraded: true,
		Reason:   reason,
	}
}

// InstrumentRecord is the per-instrument output of the aggregator. Every
// slot key is always present regardless of partial failure; the record is
// treated as immutable once handed to the ranker.
type InstrumentRecord struct {
	Instrument      string           `json:"instrument"`
	Slots           map[string][]int `json:"slots"`
	DirectionChange bool             `json:"direction_change"`
	AngleDegrees    float64          `json:"angle_degrees"`
	Bias            Bias             `json:"bias,omitempty"`
	Assessment      *Assessment      `json:"assessment,omitempty"`
	LastUpdated     time.Time        `json:"last_updated"`
	Error           string           `json:"error,omitempty"`
}
