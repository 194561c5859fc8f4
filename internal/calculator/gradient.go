package calculator

import (
	"errors"
	"math"
)

// GradientResult holds the EMA slope signal and its angle representation.
// All three series are index-aligned with the input EMA; index 0 has no
// prior sample and carries a zero slope.
type GradientResult struct {
	Gradient     []float64
	AngleRadians []float64
	AngleDegrees []float64
}

// CalculateGradient derives the first difference of the EMA series and the
// corresponding arctangent angles. JPY-quoted instruments are scaled by 100
// (pip-size normalization); everything else is rescaled so the largest
// absolute slope maps to 10 (skipped when the series is flat).
func CalculateGradient(ema []float64, jpyQuoted bool) (*GradientResult, error) {
	if len(ema) == 0 {
		return nil, errors.New("no ema values provided")
	}
	n := len(ema)
	grad := make([]float64, n)
	for i := 1; i < n; i++ {
		grad[i] = ema[i] - ema[i-1]
	}

	if jpyQuoted {
		for i := range grad {
			grad[i] *= 100
		}
	} else {
		maxAbs := 0.0
		for _, g := range grad {
			if a := math.Abs(g); a > maxAbs {
				maxAbs = a
			}
		}
		if maxAbs > 0 {
			for i := range grad {
				grad[i] = grad[i] / maxAbs * 10
			}
		}
	}

	radians := make([]float64, n)
	degrees := make([]float64, n)
	for i, g := range grad {
		radians[i] = math.Atan(g)
		degrees[i] = radians[i] * 180 / math.Pi
	}
	return &GradientResult{Gradient: grad, AngleRadians: radians, AngleDegrees: degrees}, nil
}
