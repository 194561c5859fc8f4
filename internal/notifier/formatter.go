package notifier

import (
	"fmt"
	"strings"
	"time"

	"RTMonitor/internal/model"
	"RTMonitor/internal/strategy"
)

// PositionCheck pairs an open position leg with its trend verdict.
type PositionCheck struct {
	Position model.Position
	Trend    strategy.TrendAnalysis
	Values   []int
}

// FormatPositionReport formats the hourly position scan into a Telegram
// message. Endangered positions come first.
func FormatPositionReport(checks []PositionCheck) string {
	var b strings.Builder

	alerts := 0
	for _, c := range checks {
		if c.Trend.AlertNeeded {
			alerts++
		}
	}

	if alerts > 0 {
		b.WriteString(fmt.Sprintf("⚠️ <b>RTM Position Alert</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	} else {
		b.WriteString(fmt.Sprintf("📊 <b>RTM Position Scan</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	}

	for _, c := range checks {
		if !c.Trend.AlertNeeded {
			continue
		}
		b.WriteString(formatCheck(c))
	}
	for _, c := range checks {
		if c.Trend.AlertNeeded {
			continue
		}
		b.WriteString(formatCheck(c))
	}

	b.WriteString(fmt.Sprintf("\n%d position(s), %d alert(s)", len(checks), alerts))
	return b.String()
}

func formatCheck(c PositionCheck) string {
	marker := "✅"
	if c.Trend.AlertNeeded {
		marker = "🔻"
	}
	return fmt.Sprintf("%s <b>%s</b> %s %.0f units | P&L %+.2f\n   RTM %v (%s)\n",
		marker, c.Position.Instrument, c.Position.Direction, c.Position.Units,
		c.Position.UnrealizedPL, c.Values, c.Trend.Description)
}

// FormatPositionList formats open positions without trend analysis.
func FormatPositionList(positions []model.Position) string {
	if len(positions) == 0 {
		return "No open positions."
	}
	var b strings.Builder
	b.WriteString("📦 <b>Open Positions</b>\n\n")
	for _, p := range positions {
		b.WriteString(fmt.Sprintf("%s %s %.0f units | P&L %+.2f\n",
			p.Instrument, p.Direction, p.Units, p.UnrealizedPL))
	}
	return b.String()
}

// FormatHelp lists the supported bot commands.
func FormatHelp() string {
	return "Commands:\n" +
		"/scan - run the position trend check now\n" +
		"/positions - list open positions\n" +
		"/help - show this message"
}
