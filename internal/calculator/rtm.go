package calculator

import (
	"errors"
	"math"
)

// Mode selects the RTM scaling variant.
type Mode string

const (
	// ModeLegacy is the historical unbounded 10000x relative deviation.
	ModeLegacy Mode = "legacy"
	// ModeNormalized is the rolling-z-score variant bounded to [-100, 100].
	// Its magnitudes are comparable across instruments of different
	// volatility, which the legacy scale is not.
	ModeNormalized Mode = "normalized"
)

const (
	maxRollingWindow = 50
	minRollingCount  = 10
	// zScale maps a 3-standard-deviation excursion to the +-100 boundary.
	zScale = 33.33
)

// CalculateRTM converts index-aligned (close, EMA) pairs into the RTM
// oscillator. Normalized-mode values are always finite integers in
// [-100, 100]; non-finite intermediates collapse to 0.
func CalculateRTM(closes, ema []float64, mode Mode) ([]int, error) {
	if len(closes) != len(ema) {
		return nil, errors.New("closes and ema must be the same length")
	}
	if len(closes) == 0 {
		return nil, nil
	}
	raw := rawDeviation(closes, ema)
	switch mode {
	case ModeLegacy:
		return legacyRTM(raw), nil
	case ModeNormalized:
		return normalizedRTM(raw), nil
	default:
		return nil, errors.New("unknown RTM mode: " + string(mode))
	}
}

// rawDeviation is the percentage deviation of price from its EMA.
// Sign convention: price above EMA gives a positive value. A zero EMA
// produces a non-finite value, resolved by the mode-specific pass.
func rawDeviation(closes, ema []float64) []float64 {
	raw := make([]float64, len(closes))
	for i := range closes {
		raw[i] = -100 * (ema[i] - closes[i]) / ema[i]
	}
	return raw
}

func legacyRTM(raw []float64) []int {
	out := make([]int, len(raw))
	for i, r := range raw {
		v := math.Floor(100 * r)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		out[i] = int(v)
	}
	return out
}

func normalizedRTM(raw []float64) []int {
	n := len(raw)
	window := maxRollingWindow
	if n-1 < window {
		window = n - 1
	}
	out := make([]int, n)

	if window <= minRollingCount {
		// Too little history for a dispersion estimate: clamp the raw
		// deviation directly.
		for i, r := range raw {
			out[i] = truncateBounded(r)
		}
		return out
	}

	for i := range raw {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		std := rollingStd(raw[start : i+1])
		out[i] = truncateBounded(raw[i] / std * zScale)
	}
	return out
}

// rollingStd is the sample standard deviation of the trailing window.
// Fewer than minRollingCount samples, a flat window, or non-finite input
// all yield 1.0 so the z-score degrades to the raw deviation.
func rollingStd(window []float64) float64 {
	if len(window) < minRollingCount {
		return 1.0
	}
	var sum float64
	for _, v := range window {
		sum += v
	}
	mean := sum / float64(len(window))
	var ss float64
	for _, v := range window {
		d := v - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(window)-1))
	if std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		return 1.0
	}
	return std
}

// truncateBounded clamps to [-100, 100], replaces non-finite values with 0,
// and truncates toward zero.
func truncateBounded(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v > 100 {
		v = 100
	}
	if v < -100 {
		v = -100
	}
	return int(v)
}
