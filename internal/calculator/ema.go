package calculator

import "errors"

// CalculateEMA computes an exponential moving average with smoothing factor
// alpha = 2/(period+1), seeded from the first close (no SMA warm-up).
// An empty input yields an empty output, index alignment is preserved.
func CalculateEMA(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(closes) == 0 {
		return nil, nil
	}
	alpha := 2.0 / (float64(period) + 1.0)
	ema := make([]float64, len(closes))
	ema[0] = closes[0]
	for i := 1; i < len(closes); i++ {
		ema[i] = alpha*closes[i] + (1-alpha)*ema[i-1]
	}
	return ema, nil
}
