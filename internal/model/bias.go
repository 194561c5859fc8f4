package model

// Bias is an externally supplied directional label for an instrument.
type Bias string

const (
	BiasUp        Bias = "Up"
	BiasDown      Bias = "Down"
	BiasHold      Bias = "Hold"
	BiasUnlabeled Bias = ""
)

// Rank returns the fixed priority of a bias bucket for ranking.
// Lower sorts first: Up, Down, Hold, then unlabeled.
func (b Bias) Rank() int {
	switch b {
	case BiasUp:
		return 0
	case BiasDown:
		return 1
	case BiasHold:
		return 2
	default:
		return 3
	}
}

// ParseBias normalizes an external label. Anything unrecognized maps to
// BiasUnlabeled.
func ParseBias(s string) Bias {
	switch s {
	case "Up", "up", "UP":
		return BiasUp
	case "Down", "down", "DOWN":
		return BiasDown
	case "Hold", "hold", "HOLD":
		return BiasHold
	default:
		return BiasUnlabeled
	}
}
