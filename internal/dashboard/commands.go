package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quant_architect/internal/models"
)

type CommandDoc struct {
	Name        string
	Description string
	Example     string
}

var commands = []CommandDoc{
	{"/ping", "Connectivity check", "/ping"},
	{"/analyze", "Run a full analysis cycle", "/analyze <ticker>"},
	{"/mode", "Switch the trading mode", "/mode <SCALP|DAY|SWING>"},
	{"/status", "Current readout summary", "/status"},
	{"/alerts", "Alerts from the last cycle", "/alerts"},
	{"/help", "This list", "/help"},
}

// HandleCommand processes inbound chat commands and returns a Markdown reply.
func (d *Dashboard) HandleCommand(ctx context.Context, cmd string) string {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return ""
	}

	switch strings.ToLower(parts[0]) {
	case "/ping":
		return "Pong 🏓"
	case "/analyze":
		return d.handleAnalyzeCommand(ctx, parts)
	case "/mode":
		return d.handleModeCommand(parts)
	case "/status":
		s := d.Snapshot()
		return formatStatus(s)
	case "/alerts":
		return formatAlerts(d.Snapshot().Result.Alerts)
	case "/help":
		return getHelp()
	default:
		return "Unknown command. Try /analyze, /mode, /status, /alerts or /help."
	}
}

func (d *Dashboard) handleAnalyzeCommand(ctx context.Context, parts []string) string {
	if len(parts) < 2 {
		return "Usage: /analyze <ticker>"
	}

	s, err := d.Analyze(ctx, strings.Join(parts[1:], " "))
	switch {
	case errors.Is(err, ErrSuperseded):
		return "⏳ A newer request replaced this one. Use /status for the latest readout."
	case err != nil:
		return fmt.Sprintf("⚠️ Analysis failed: %v", err)
	}
	return formatStatus(s)
}

func (d *Dashboard) handleModeCommand(parts []string) string {
	if len(parts) < 2 {
		return fmt.Sprintf("Current mode: *%s*\nUsage: /mode <SCALP|DAY|SWING>", d.Mode())
	}
	mode, err := models.ParseTradingMode(parts[1])
	if err != nil {
		return "⚠️ Invalid mode. Use SCALP, DAY or SWING."
	}
	d.SetMode(mode)
	return fmt.Sprintf("✅ Trading mode set to *%s*.", mode)
}

func getHelp() string {
	var sb strings.Builder
	sb.WriteString("🤖 *QUANTARCHITECT COMMANDS*\n\n")
	for _, cmd := range commands {
		sb.WriteString(fmt.Sprintf("🔹 *%s*\n%s\n`%s`\n\n", cmd.Name, cmd.Description, cmd.Example))
	}
	return sb.String()
}

func formatStatus(s Snapshot) string {
	r := s.Result
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 *%s* | Mode: %s\n", r.Ticker, s.Mode))
	if s.Loading {
		sb.WriteString("⏳ Analysis in progress...\n")
	}
	price := "n/a"
	if r.Freshness.LastPrice > 0 {
		price = fmt.Sprintf("$%.2f", r.Freshness.LastPrice)
	}
	sb.WriteString(fmt.Sprintf("Price: %s (%s)\n", price, r.Freshness.Source))
	if r.Freshness.IsDelayed {
		sb.WriteString(fmt.Sprintf("⚠️ %s\n", r.Freshness.DelayMessage))
	}
	sb.WriteString(fmt.Sprintf("Action: *%s* | Edge: %.0f | Flow: %s\n", r.TraderAction, r.EdgeScore, r.FlowBattle))
	sb.WriteString(fmt.Sprintf("Risk: %s | VIX: %s\n", r.Macro.GlobalRisk, r.Macro.VIX))
	sb.WriteString(fmt.Sprintf("Driver: %s\n", r.DriverPriority))

	if setups := describeSetups(r.Scanner); setups != "" {
		sb.WriteString("\n" + setups)
	}
	if r.ContradictionWarning != nil {
		sb.WriteString(fmt.Sprintf("\n⚠️ Contradiction: %s\n", *r.ContradictionWarning))
	}
	sb.WriteString(fmt.Sprintf("\n_%s_", r.MentorSummary))
	return sb.String()
}

func describeSetups(s models.ScannerResult) string {
	var sb strings.Builder
	for _, setup := range append(append([]models.TradeSetup{}, s.TopLongs...), s.TopShorts...) {
		icon := "🟢"
		if setup.Direction == models.DirectionShort {
			icon = "🔴"
		}
		sb.WriteString(fmt.Sprintf("%s %s %s @ %s | SL %s | Grade %s\n",
			icon, setup.Direction, setup.Ticker, setup.Entry, setup.Stop, setup.RiskGrade))
	}
	return sb.String()
}

func formatAlerts(alerts []models.Alert) string {
	if len(alerts) == 0 {
		return "No active alerts."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚨 *ALERTS (%d)*\n", len(alerts)))
	for _, a := range alerts {
		sb.WriteString(fmt.Sprintf("• %s [%s/%s]: %s\n", a.Ticker, a.Type, a.Action, a.Message))
	}
	return sb.String()
}

func formatAlert(a models.Alert) string {
	return fmt.Sprintf("🚨 *ALERT: %s*\n%s\nType: %s | Action: %s", a.Ticker, a.Message, a.Type, a.Action)
}
