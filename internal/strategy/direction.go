package strategy

// DetectDirectionChange reports whether the trailing six oscillator values
// show a sign flip. Two independent majority heuristics are checked over
// different split points; either one firing is a detection. Fewer than six
// values can never fire.
func DetectDirectionChange(values []int) bool {
	if len(values) < 6 {
		return false
	}
	recent := values[len(values)-6:]
	signs := make([]int, 6)
	for i, v := range recent {
		switch {
		case v > 0:
			signs[i] = 1
		case v < 0:
			signs[i] = -1
		}
	}

	// Split 4/2: at least 3 of the first 4 one sign, at least 1 of the
	// last 2 the other.
	firstPos, firstNeg := countSigns(signs[:4])
	lastPos, lastNeg := countSigns(signs[4:])
	if firstPos >= 3 && lastNeg >= 1 {
		return true
	}
	if firstNeg >= 3 && lastPos >= 1 {
		return true
	}

	// Split 3/3: at least 2 of each half with opposing signs.
	firstPos, firstNeg = countSigns(signs[:3])
	lastPos, lastNeg = countSigns(signs[3:])
	if firstPos >= 2 && lastNeg >= 2 {
		return true
	}
	if firstNeg >= 2 && lastPos >= 2 {
		return true
	}

	return false
}

func countSigns(signs []int) (positive, negative int) {
	for _, s := range signs {
		if s > 0 {
			positive++
		} else if s < 0 {
			negative++
		}
	}
	return positive, negative
}
