package strategy

import "RTMonitor/internal/model"

// TrendAnalysis is the outcome of checking an open position against the
// recent oscillator trend.
type TrendAnalysis struct {
	AlertNeeded bool
	Reason      string
	Description string
	Increasing  bool
	Decreasing  bool
}

// AnalyzePositionTrend inspects the last three oscillator values relative
// to an open position. A long position is flagged when the oscillator is
// negative and falling (price stretching further below its mean); a short
// position when it is positive and rising.
func AnalyzePositionTrend(values []int, direction model.TradeDirection) TrendAnalysis {
	if len(values) < 3 {
		return TrendAnalysis{Description: "insufficient data"}
	}
	last := values[len(values)-3:]

	decreasing := last[1] <= last[0] && last[2] <= last[1]
	increasing := last[1] >= last[0] && last[2] >= last[1]
	allNonPositive := last[0] <= 0 && last[1] <= 0 && last[2] <= 0
	allNonNegative := last[0] >= 0 && last[1] >= 0 && last[2] >= 0

	out := TrendAnalysis{Increasing: increasing, Decreasing: decreasing}

	switch direction {
	case model.DirectionLong:
		if allNonPositive && decreasing {
			out.AlertNeeded = true
			out.Reason = "long position: RTM negative and decreasing (moving further from EMA)"
			out.Description = "RTM negative and decreasing"
		}
	case model.DirectionShort:
		if allNonNegative && increasing {
			out.AlertNeeded = true
			out.Reason = "short position: RTM positive and increasing (moving further from EMA)"
			out.Description = "RTM positive and increasing"
		}
	}

	if out.Description == "" {
		switch {
		case increasing:
			out.Description = "RTM increasing"
		case decreasing:
			out.Description = "RTM decreasing"
		default:
			out.Description = "RTM mixed/sideways"
		}
	}
	return out
}
