package strategy

import (
	"testing"

	"RTMonitor/internal/model"
)

func rec(instrument string, change bool) *model.InstrumentRecord {
	return &model.InstrumentRecord{Instrument: instrument, DirectionChange: change}
}

func names(records []*model.InstrumentRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Instrument
	}
	return out
}

func assertOrder(t *testing.T, got []*model.InstrumentRecord, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Instrument != want[i] {
			t.Fatalf("position %d: expected %s, got %v", i, want[i], names(got))
		}
	}
}

func TestRank_DirectionChangeFirst(t *testing.T) {
	records := []*model.InstrumentRecord{
		rec("AUD_USD", false),
		rec("USD_CHF", true),
		rec("EUR_USD", true),
		rec("GBP_USD", false),
	}
	ranked := Rank(records, nil)
	assertOrder(t, ranked, []string{"EUR_USD", "USD_CHF", "AUD_USD", "GBP_USD"})
}

func TestRank_TieBreakAlphabetical(t *testing.T) {
	records := []*model.InstrumentRecord{
		rec("GBP_USD", false),
		rec("EUR_USD", false),
	}
	ranked := Rank(records, nil)
	assertOrder(t, ranked, []string{"EUR_USD", "GBP_USD"})
}

func TestRank_BiasBuckets(t *testing.T) {
	bias := map[string]model.Bias{
		"AAA_HOLD": model.BiasHold,
		"BBB_DOWN": model.BiasDown,
		"CCC_UP":   model.BiasUp,
	}
	lookup := func(instrument string) model.Bias { return bias[instrument] }

	records := []*model.InstrumentRecord{
		rec("ZZZ_NONE", false),
		rec("AAA_HOLD", false),
		rec("BBB_DOWN", false),
		rec("CCC_UP", false),
	}
	ranked := Rank(records, lookup)
	assertOrder(t, ranked, []string{"CCC_UP", "BBB_DOWN", "AAA_HOLD", "ZZZ_NONE"})
}

func TestRank_ChangePartitionWithinBucket(t *testing.T) {
	bias := map[string]model.Bias{
		"AAA": model.BiasUp,
		"BBB": model.BiasUp,
		"CCC": model.BiasUp,
	}
	lookup := func(instrument string) model.Bias { return bias[instrument] }

	records := []*model.InstrumentRecord{
		rec("AAA", false),
		rec("CCC", true),
		rec("BBB", true),
	}
	ranked := Rank(records, lookup)
	assertOrder(t, ranked, []string{"BBB", "CCC", "AAA"})
}

func TestRank_Idempotent(t *testing.T) {
	records := []*model.InstrumentRecord{
		rec("GBP_USD", false),
		rec("EUR_USD", true),
		rec("AUD_USD", false),
	}
	once := Rank(records, nil)
	twice := Rank(once, nil)
	assertOrder(t, twice, names(once))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	records := []*model.InstrumentRecord{
		rec("GBP_USD", false),
		rec("EUR_USD", true),
	}
	Rank(records, nil)
	assertOrder(t, records, []string{"GBP_USD", "EUR_USD"})
}
