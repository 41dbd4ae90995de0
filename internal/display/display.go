package display

import (
	"fmt"
	"strings"

	"quant_architect/internal/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00F0FF")).
			Background(lipgloss.Color("#0F172A")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1E293B")).
			Padding(0, 1).
			Width(38)

	wideStyle = panelStyle.Width(78)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	bullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	bearStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
)

// Render formats an analysis as a terminal readout.
func Render(r models.AnalysisResult, mode models.TradingMode) string {
	header := titleStyle.Render(fmt.Sprintf("QUANTARCHITECT 4.0 | %s | %s", r.Ticker, mode))

	top := lipgloss.JoinHorizontal(lipgloss.Top, signalPanel(r), timeframePanel(r))
	mid := lipgloss.JoinHorizontal(lipgloss.Top, macroPanel(r), scorePanel(r))

	parts := []string{header, top, mid}
	if s := scannerPanel(r.Scanner); s != "" {
		parts = append(parts, s)
	}
	if len(r.Alerts) > 0 {
		parts = append(parts, alertPanel(r.Alerts))
	}
	parts = append(parts, wideStyle.Render(dimStyle.Render(r.MentorSummary)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func signalPanel(r models.AnalysisResult) string {
	price := "--"
	if r.Freshness.LastPrice > 0 {
		price = fmt.Sprintf("$%.2f", r.Freshness.LastPrice)
	}
	lines := []string{
		row("Price", price),
		row("Source", r.Freshness.Source),
		row("Action", tone(r.TraderAction)),
		row("Edge", fmt.Sprintf("%.0f", r.EdgeScore)),
		row("Flow", tone(r.FlowBattle)),
		row("Driver", r.DriverPriority),
	}
	if r.Freshness.IsDelayed {
		lines = append(lines, warnStyle.Render(r.Freshness.DelayMessage))
	}
	if r.ContradictionWarning != nil {
		lines = append(lines, warnStyle.Render("CONTRADICTION: "+*r.ContradictionWarning))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func timeframePanel(r models.AnalysisResult) string {
	lines := make([]string, 0, len(r.MTFAnalysis.Timeframes)+1)
	for _, tf := range r.MTFAnalysis.Timeframes {
		lines = append(lines, row(tf.TF, tone(tf.Trend)))
	}
	lines = append(lines, row("Align", r.MTFAnalysis.AlignmentRating))
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func macroPanel(r models.AnalysisResult) string {
	m := r.Macro
	return panelStyle.Render(strings.Join([]string{
		row("VIX", m.VIX),
		row("DXY", m.DXY),
		row("10Y", m.Yields10Y),
		row("Risk", tone(m.GlobalRisk)),
		row("Options", tone(r.OptionsNeural.FlowBias)),
	}, "\n"))
}

func scorePanel(r models.AnalysisResult) string {
	s := r.MSCScores
	return panelStyle.Render(strings.Join([]string{
		row("Structure", fmt.Sprintf("%.0f", s.Structure)),
		row("Momentum", fmt.Sprintf("%.0f", s.Momentum)),
		row("Liquidity", fmt.Sprintf("%.0f", s.Liquidity)),
		row("Flow", fmt.Sprintf("%.0f", s.Flow)),
		row("RSI/ADX", fmt.Sprintf("%.1f / %.1f", r.Technicals.RSI, r.Technicals.ADX)),
	}, "\n"))
}

func scannerPanel(s models.ScannerResult) string {
	var lines []string
	for _, setup := range append(append([]models.TradeSetup{}, s.TopLongs...), s.TopShorts...) {
		lines = append(lines, fmt.Sprintf("%s %-6s %-10s entry %s stop %s grade %s",
			tone(setup.Direction), setup.Ticker, setup.Type, setup.Entry, setup.Stop, setup.RiskGrade))
	}
	if len(lines) == 0 {
		return ""
	}
	return wideStyle.Render(labelStyle.Render("SCANNER") + "\n" + strings.Join(lines, "\n"))
}

func alertPanel(alerts []models.Alert) string {
	lines := []string{labelStyle.Render("ALERTS")}
	for _, a := range alerts {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("%s [%s] %s", a.Ticker, a.Type, a.Message)))
	}
	return wideStyle.Render(strings.Join(lines, "\n"))
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-10s", label)) + value
}

// tone colors bullish and bearish literals.
func tone(s string) string {
	switch strings.ToUpper(s) {
	case models.TrendBullish, models.DirectionLong, models.FlowBuyDominant, "RISK-ON", "ENTER":
		return bullStyle.Render(s)
	case models.TrendBearish, models.DirectionShort, models.FlowSellDominant, "RISK-OFF", "EXIT":
		return bearStyle.Render(s)
	}
	return s
}
