package strategy

import (
	"sort"

	"RTMonitor/internal/model"
)

// BiasLookup resolves an instrument's external bias. A nil lookup leaves
// every record unlabeled, which reduces ranking to the direction-change
// partition alone.
type BiasLookup func(instrument string) model.Bias

// Rank orders records by a composite key: bias bucket (Up, Down, Hold,
// unlabeled), then direction-change before no-change, then instrument name
// ascending. The input is not modified; the result is a pure function of
// (records, lookup).
func Rank(records []*model.InstrumentRecord, lookup BiasLookup) []*model.InstrumentRecord {
	out := make([]*model.InstrumentRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := rankBias(out[i], lookup), rankBias(out[j], lookup)
		if bi != bj {
			return bi < bj
		}
		di, dj := rankChange(out[i]), rankChange(out[j])
		if di != dj {
			return di < dj
		}
		return out[i].Instrument < out[j].Instrument
	})
	return out
}

func rankBias(r *model.InstrumentRecord, lookup BiasLookup) int {
	if lookup == nil {
		return model.BiasUnlabeled.Rank()
	}
	return lookup(r.Instrument).Rank()
}

func rankChange(r *model.InstrumentRecord) int {
	if r.DirectionChange {
		return 0
	}
	return 1
}
