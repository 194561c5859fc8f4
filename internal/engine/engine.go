package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"RTMonitor/internal/advisor"
	"RTMonitor/internal/calculator"
	"RTMonitor/internal/collector"
	"RTMonitor/internal/model"
	"RTMonitor/internal/strategy"
)

// Advisor classifies the daily regime from the two EMA-smoothed series.
type Advisor interface {
	ClassifyDaily(ctx context.Context, instrument string, d20, d34 []int) (model.Assessment, error)
}

// SlotSpec describes one (granularity, period) pipeline slot.
type SlotSpec struct {
	Key         string
	Granularity model.Granularity
	Period      int
	Window      int
	Mode        calculator.Mode
}

const (
	// DefaultCandleCount is how much history each slot is computed over.
	DefaultCandleCount = 100

	// DirectionSlot is the slot whose values drive direction-change
	// detection and the EMA gradient.
	DirectionSlot = "rtm_h1_20"

	fetchFailedReason = "Failed to fetch data"
)

// DefaultSlots returns the standard slot table. The H4 slot computes
// the historical unbounded variant and is off by default.
func DefaultSlots(includeLegacyH4 bool) []SlotSpec {
	slots := []SlotSpec{
		{Key: "rtm_h1_20", Granularity: model.GranularityH1, Period: 20, Window: 6, Mode: calculator.ModeNormalized},
		{Key: "rtm_h1_34", Granularity: model.GranularityH1, Period: 34, Window: 6, Mode: calculator.ModeNormalized},
		{Key: "rtm_d1_20", Granularity: model.GranularityD1, Period: 20, Window: 20, Mode: calculator.ModeNormalized},
		{Key: "rtm_d1_34", Granularity: model.GranularityD1, Period: 34, Window: 20, Mode: calculator.ModeNormalized},
	}
	if includeLegacyH4 {
		slots = append(slots, SlotSpec{
			Key: "rtm_h4_20", Granularity: model.GranularityH4, Period: 20, Window: 6, Mode: calculator.ModeLegacy,
		})
	}
	return slots
}

// Engine runs the candle-to-record pipeline for a set of instruments.
type Engine struct {
	fetcher     collector.Fetcher
	advisor     Advisor
	slots       []SlotSpec
	candleCount int
	concurrency int
	logger      zerolog.Logger
}

func New(fetcher collector.Fetcher, adv Advisor, slots []SlotSpec, candleCount int) *Engine {
	if candleCount <= 0 {
		candleCount = DefaultCandleCount
	}
	if len(slots) == 0 {
		slots = DefaultSlots(false)
	}
	return &Engine{
		fetcher:     fetcher,
		advisor:     adv,
		slots:       slots,
		candleCount: candleCount,
		concurrency: 4,
		logger:      log.With().Str("component", "engine").Logger(),
	}
}

// BuildRecord computes every slot for one instrument. Failed slots
// degrade to zero-filled windows so the record shape stays stable.
func (e *Engine) BuildRecord(ctx context.Context, instrument string) *model.InstrumentRecord {
	record := &model.InstrumentRecord{
		Instrument:  instrument,
		Slots:       make(map[string][]int, len(e.slots)),
		LastUpdated: time.Now().UTC(),
	}

	closesByGranularity := make(map[model.Granularity][]float64)
	fetchErrs := make(map[model.Granularity]error)
	for _, slot := range e.slots {
		if _, seen := closesByGranularity[slot.Granularity]; seen {
			continue
		}
		if _, seen := fetchErrs[slot.Granularity]; seen {
			continue
		}
		candles, err := e.fetcher.FetchCandles(ctx, instrument, slot.Granularity, e.candleCount)
		if err != nil {
			e.logger.Warn().Err(err).Str("instrument", instrument).
				Str("granularity", string(slot.Granularity)).Msg("candle fetch failed")
			fetchErrs[slot.Granularity] = err
			if record.Error == "" {
				record.Error = fetchFailedReason
			}
			continue
		}
		closesByGranularity[slot.Granularity] = model.Closes(candles)
	}

	daily := make(map[string][]int)
	for _, slot := range e.slots {
		closes, ok := closesByGranularity[slot.Granularity]
		if !ok {
			record.Slots[slot.Key] = model.DegradedSlot(slot.Window, fetchFailedReason).Values
			continue
		}

		result, ema := e.computeSlot(closes, slot)
		record.Slots[slot.Key] = result.Values
		if result.Degraded {
			if record.Error != "" {
				record.Error += "; "
			}
			record.Error += slot.Key + ": " + result.Reason
		}

		if slot.Key == DirectionSlot && !result.Degraded {
			record.DirectionChange = strategy.DetectDirectionChange(result.Values)
			record.AngleDegrees = lastAngle(ema, instrument)
		}
		if slot.Granularity == model.GranularityD1 && !result.Degraded {
			daily[slot.Key] = result.Values
		}
	}

	e.attachAssessment(ctx, record, daily)
	return record
}

// computeSlot runs EMA then RTM and trims to the trailing window. It
// also returns the EMA series for gradient use.
func (e *Engine) computeSlot(closes []float64, slot SlotSpec) (model.SlotResult, []float64) {
	ema, err := calculator.CalculateEMA(closes, slot.Period)
	if err != nil {
		return model.DegradedSlot(slot.Window, err.Error()), nil
	}
	rtm, err := calculator.CalculateRTM(closes, ema, slot.Mode)
	if err != nil {
		return model.DegradedSlot(slot.Window, err.Error()), nil
	}
	if len(rtm) < slot.Window {
		return model.DegradedSlot(slot.Window, "insufficient data"), nil
	}
	return model.SlotResult{Values: rtm[len(rtm)-slot.Window:]}, ema
}

func (e *Engine) attachAssessment(ctx context.Context, record *model.InstrumentRecord, daily map[string][]int) {
	if e.advisor == nil {
		return
	}
	d20, d34 := daily["rtm_d1_20"], daily["rtm_d1_34"]
	if len(d20) == 0 || len(d34) == 0 {
		return
	}
	assessment, err := e.advisor.ClassifyDaily(ctx, record.Instrument, d20, d34)
	if err != nil {
		label := model.LabelUnavailable
		if errors.Is(err, advisor.ErrBadResponse) {
			label = model.LabelAnalysisError
		}
		record.Assessment = &model.Assessment{Label: label}
		return
	}
	record.Assessment = &assessment
}

// BuildBatch fans out BuildRecord over the instruments with bounded
// concurrency. Per-instrument failures never fail the batch; they show
// up as degraded records.
func (e *Engine) BuildBatch(ctx context.Context, instruments []string) []*model.InstrumentRecord {
	records := make([]*model.InstrumentRecord, len(instruments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, instrument := range instruments {
		i, instrument := i, instrument
		g.Go(func() error {
			records[i] = e.BuildRecord(gctx, instrument)
			return nil
		})
	}
	_ = g.Wait()

	e.logger.Info().Int("instruments", len(records)).Msg("batch complete")
	return records
}

// lastAngle reports the latest EMA slope angle. Yen crosses keep raw
// pip scaling; everything else is max-normalized.
func lastAngle(ema []float64, instrument string) float64 {
	if len(ema) == 0 {
		return 0
	}
	jpy := strings.Contains(instrument, "JPY")
	grad, err := calculator.CalculateGradient(ema, jpy)
	if err != nil {
		return 0
	}
	return grad.AngleDegrees[len(grad.AngleDegrees)-1]
}
