package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"RTMonitor/internal/collector"
	"RTMonitor/internal/engine"
	"RTMonitor/internal/model"
	"RTMonitor/internal/notifier"
	"RTMonitor/internal/strategy"
)

// Scheduler runs the periodic position trend scan and serves bot
// commands.
type Scheduler struct {
	Cron     *cron.Cron
	Engine   *engine.Engine
	Fetcher  collector.Fetcher
	Notifier *notifier.TelegramNotifier
	Ctx      context.Context

	logger zerolog.Logger
}

// NewScheduler creates a scheduler with second-resolution cron specs.
func NewScheduler(ctx context.Context, eng *engine.Engine, fetcher collector.Fetcher, tn *notifier.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Engine:   eng,
		Fetcher:  fetcher,
		Notifier: tn,
		Ctx:      ctx,
		logger:   log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the recurring position scan.
func (s *Scheduler) RegisterAll(positionsCron string) error {
	if _, err := s.Cron.AddFunc(positionsCron, s.positionScan); err != nil {
		return fmt.Errorf("register position scan: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.logger.Info().Msg("scheduler stopped")
}

// RunScanNow executes the position scan immediately.
func (s *Scheduler) RunScanNow() {
	s.positionScan()
}

// positionScan checks every open position's oscillator trend and sends
// the summary. An empty book sends nothing.
func (s *Scheduler) positionScan() {
	s.logger.Info().Msg("running position scan")

	checks, err := s.checkPositions()
	if err != nil {
		s.logger.Error().Err(err).Msg("position scan failed")
		s.trySend(fmt.Sprintf("❌ Position scan failed: %v", err))
		return
	}
	if len(checks) == 0 {
		s.logger.Info().Msg("no open positions")
		return
	}

	alerts := 0
	for _, c := range checks {
		if c.Trend.AlertNeeded {
			alerts++
		}
	}
	s.logger.Info().Int("positions", len(checks)).Int("alerts", alerts).Msg("position scan done")
	s.trySend(notifier.FormatPositionReport(checks))
}

// checkPositions builds the trend verdict for each open position leg.
func (s *Scheduler) checkPositions() ([]notifier.PositionCheck, error) {
	positions, err := s.Fetcher.FetchOpenPositions(s.Ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch open positions: %w", err)
	}
	if len(positions) == 0 {
		return nil, nil
	}

	instruments := make([]string, 0, len(positions))
	seen := make(map[string]bool)
	for _, p := range positions {
		if !seen[p.Instrument] {
			seen[p.Instrument] = true
			instruments = append(instruments, p.Instrument)
		}
	}
	records := s.Engine.BuildBatch(s.Ctx, instruments)
	byInstrument := make(map[string]*model.InstrumentRecord, len(records))
	for _, r := range records {
		byInstrument[r.Instrument] = r
	}

	checks := make([]notifier.PositionCheck, 0, len(positions))
	for _, pos := range positions {
		check := notifier.PositionCheck{Position: pos}
		if record := byInstrument[pos.Instrument]; record != nil {
			values := record.Slots[engine.DirectionSlot]
			check.Values = values
			check.Trend = strategy.AnalyzePositionTrend(values, pos.Direction)
		}
		checks = append(checks, check)
	}
	return checks, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/scan":
		checks, err := s.checkPositions()
		if err != nil {
			return fmt.Sprintf("❌ Scan failed: %v", err)
		}
		if len(checks) == 0 {
			return "No open positions."
		}
		return notifier.FormatPositionReport(checks)
	case "/positions":
		positions, err := s.Fetcher.FetchOpenPositions(s.Ctx)
		if err != nil {
			return fmt.Sprintf("❌ Fetch failed: %v", err)
		}
		return notifier.FormatPositionList(positions)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.logger.Error().Err(err).Msg("send notification")
	}
}
