package display

import (
	"testing"

	"quant_architect/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	r := models.DefaultAnalysis()
	r.Ticker = "NVDA"
	r.Freshness.LastPrice = 131.5
	r.MTFAnalysis.Timeframes[3].Trend = models.TrendBullish
	r.Scanner.TopLongs = []models.TradeSetup{{Ticker: "NVDA", Type: "VCP", Direction: models.DirectionLong, Entry: "131", Stop: "127", RiskGrade: "A"}}
	r.Alerts = []models.Alert{{Ticker: "NVDA", Type: "BREAKOUT", Message: "Over 131"}}

	out := Render(r, models.ModeScalp)

	for _, want := range []string{"NVDA", "SCALP", "$131.50", "BULLISH", "SCANNER", "VCP", "ALERTS", "Over 131"} {
		assert.Contains(t, out, want)
	}
}

func TestRender_Defaults(t *testing.T) {
	out := Render(models.DefaultAnalysis(), models.ModeDay)

	assert.Contains(t, out, "--")
	assert.NotContains(t, out, "SCANNER")
	assert.NotContains(t, out, "ALERTS")
}
