package analysis

import (
	"encoding/json"
	"testing"

	"quant_architect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullPayload = `{
  "ticker": "nvda",
  "freshness": {"source": "Google Search", "lastPrice": "131.42", "timestamp": "10:31 ET", "isDelayed": true, "delayMessage": "15m delayed"},
  "macro": {"vix": 14.2, "dxy": "104.1", "yields10y": "4.21%", "spyQqqCorrelation": "0.92", "globalRisk": "risk-on", "volatilityExp": "Low"},
  "scanner": {
    "topLongs": [{"ticker": "NVDA", "type": "VCP", "entry": "131", "stop": "127", "targets": ["136", 140], "conviction": "82", "riskGrade": "A", "thesis": "Tight base"}],
    "topShorts": [{"ticker": "TSLA", "direction": "short", "riskGrade": "Z"}, "garbage"]
  },
  "portfolio": [{"ticker": "AMD", "entryPrice": 150, "currentPrice": 158.5, "stopPrice": 144, "pnlPercent": 5.6, "convictionDecay": "Stable", "action": "Hold"}],
  "liquidityMap": {"demandZones": ["128-129"], "supplyZones": ["135"], "traps": "not a list"},
  "mscScores": {"structure": 71, "momentum": "high", "flow": 64},
  "mtfAnalysis": {"timeframes": [{"tf": "1m", "trend": "BULLISH"}, {"tf": "1D", "trend": "bearish"}], "alignmentRating": "3/5 Bullish"},
  "optionsNeural": {"flowBias": "MIXED", "interpretation": "Call sweeps at 135"},
  "tapeAnalysis": {"action": "Absorption", "details": ["Bid stacking", {"nested": true}]},
  "microTape": {"volumeBurst": 44},
  "driverPriority": "Options Flow",
  "flowBattle": "buy dominant",
  "traderAction": "ENTER",
  "edgeScore": 67,
  "confidence": {"conviction": 78, "risk": "HIGH"},
  "contradictionWarning": "Technicals long, flow short",
  "alerts": [{"id": "a1", "ticker": "NVDA", "message": "Breakout over 131", "type": "BREAKOUT", "action": "ENTER"}],
  "mentorSummary": "Wait for the retest.",
  "technicals": {"rsi": 61.5, "macd": "+0.42", "adx": 27}
}`

func TestNormalize_EmptyPayloadYieldsDefaults(t *testing.T) {
	defaults := models.DefaultAnalysis()
	want := models.DefaultAnalysis()
	want.Ticker = "X"

	for _, raw := range []string{`{}`, ``, `not json`, `[1,2]`, `null`, `"text"`} {
		got := Normalize(defaults, []byte(raw), "X")
		assert.Equal(t, want, got, "raw=%q", raw)
	}
}

func TestNormalize_LastPriceCoercion(t *testing.T) {
	defaults := models.DefaultAnalysis()
	defaults.Freshness.LastPrice = 99

	tests := []struct {
		raw  string
		want float64
	}{
		{`{"freshness": {"lastPrice": "abc"}}`, 0},
		{`{"freshness": {"lastPrice": null}}`, 0},
		{`{"freshness": {"lastPrice": {"v": 1}}}`, 0},
		{`{"freshness": {"lastPrice": "NaN"}}`, 0},
		{`{"freshness": {}}`, 0},
		{`{}`, 0},
		{`{"freshness": {"lastPrice": " 512.5 "}}`, 512.5},
		{`{"freshness": {"lastPrice": 431.07}}`, 431.07},
	}

	for _, tt := range tests {
		got := Normalize(defaults, []byte(tt.raw), "SPY")
		assert.Equal(t, tt.want, got.Freshness.LastPrice, tt.raw)
	}
}

func TestNormalize_MissingListsAreEmpty(t *testing.T) {
	got := Normalize(models.DefaultAnalysis(), []byte(`{"scanner": {"topLongs": "none"}, "alerts": 3}`), "SPY")

	require.NotNil(t, got.Scanner.TopLongs)
	require.NotNil(t, got.Scanner.TopShorts)
	require.NotNil(t, got.Portfolio)
	require.NotNil(t, got.Alerts)
	assert.Empty(t, got.Scanner.TopLongs)
	assert.Empty(t, got.Scanner.TopShorts)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"scanner":{"topLongs":[],"topShorts":[]}`)
	assert.Contains(t, string(b), `"alerts":[]`)
	assert.Contains(t, string(b), `"contradictionWarning":null`)
}

func TestNormalize_Idempotent(t *testing.T) {
	defaults := models.DefaultAnalysis()

	for _, raw := range []string{fullPayload, `{}`, `{"mtfAnalysis": {"timeframes": [{"trend": "x"}]}}`} {
		first := Normalize(defaults, []byte(raw), "qqq")

		b, err := json.Marshal(first)
		require.NoError(t, err)
		second := Normalize(defaults, b, "qqq")

		assert.Equal(t, first, second)
	}
}

func TestNormalize_TickerCasing(t *testing.T) {
	defaults := models.DefaultAnalysis()

	assert.Equal(t, "SPY", Normalize(defaults, []byte(`{"ticker": "spy"}`), "qqq").Ticker)
	assert.Equal(t, "QQQ", Normalize(defaults, []byte(`{}`), "qqq").Ticker)
	assert.Equal(t, "QQQ", Normalize(defaults, []byte(`{"ticker": ""}`), "qqq").Ticker)
	assert.Equal(t, "QQQ", Normalize(defaults, []byte(`{"ticker": null}`), "qqq").Ticker)
}

func TestNormalize_TimeframeSlots(t *testing.T) {
	defaults := models.DefaultAnalysis()

	tests := []struct {
		name   string
		list   string
		trends []string
	}{
		{"none", `[]`, []string{"NEUTRAL", "NEUTRAL", "NEUTRAL", "NEUTRAL", "NEUTRAL"}},
		{
			"three mixed",
			`[{"tf": "1H", "trend": "bullish"}, {"tf": "1m", "trend": "BEARISH"}, {"trend": "BULLISH"}]`,
			[]string{"BEARISH", "NEUTRAL", "BULLISH", "BULLISH", "NEUTRAL"},
		},
		{
			"seven unlabelled",
			`[{"trend": "BULLISH"}, {"trend": "BEARISH"}, {"trend": "BULLISH"}, {"trend": "CHOPPY"}, {"trend": "BEARISH"}, {"trend": "BULLISH"}, {"trend": "BULLISH"}]`,
			[]string{"BULLISH", "BEARISH", "BULLISH", "NEUTRAL", "BEARISH"},
		},
		{"not a list", `"1m up"`, []string{"NEUTRAL", "NEUTRAL", "NEUTRAL", "NEUTRAL", "NEUTRAL"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"mtfAnalysis": {"timeframes": ` + tt.list + `}}`
			got := Normalize(defaults, []byte(raw), "SPY").MTFAnalysis.Timeframes

			require.Len(t, got, 5)
			for i, slot := range got {
				assert.Equal(t, models.Timeframes[i], slot.TF)
				assert.Equal(t, tt.trends[i], slot.Trend, "slot %s", slot.TF)
			}
		})
	}
}

func TestNormalize_FullPayload(t *testing.T) {
	got := Normalize(models.DefaultAnalysis(), []byte(fullPayload), "ignored")

	assert.Equal(t, "NVDA", got.Ticker)
	assert.Equal(t, 131.42, got.Freshness.LastPrice)
	assert.True(t, got.Freshness.IsDelayed)
	assert.Equal(t, "15m delayed", got.Freshness.DelayMessage)

	// Numbers become their literal text in string fields, enums are canonical
	assert.Equal(t, "14.2", got.Macro.VIX)
	assert.Equal(t, models.RiskOn, got.Macro.GlobalRisk)

	require.Len(t, got.Scanner.TopLongs, 1)
	long := got.Scanner.TopLongs[0]
	assert.Equal(t, models.DirectionLong, long.Direction)
	assert.Equal(t, []string{"136", "140"}, long.Targets)
	assert.Equal(t, 82.0, long.Conviction)

	require.Len(t, got.Scanner.TopShorts, 1, "non-object elements are dropped")
	short := got.Scanner.TopShorts[0]
	assert.Equal(t, models.DirectionShort, short.Direction)
	assert.Equal(t, "C", short.RiskGrade)
	assert.NotNil(t, short.Targets)

	require.Len(t, got.Portfolio, 1)
	assert.Equal(t, 158.5, got.Portfolio[0].CurrentPrice)

	assert.Equal(t, []string{"128-129"}, got.LiquidityMap.DemandZones)
	assert.Equal(t, []string{}, got.LiquidityMap.Traps, "wrong shape keeps the default")
	assert.Equal(t, []string{}, got.LiquidityMap.AVWAPAnchors)

	assert.Equal(t, 71.0, got.MSCScores.Structure)
	assert.Equal(t, 50.0, got.MSCScores.Momentum, "non-numeric keeps the default")
	assert.Equal(t, 50.0, got.MSCScores.Liquidity)
	assert.Equal(t, 64.0, got.MSCScores.Flow)

	assert.Equal(t, "BULLISH", got.MTFAnalysis.Timeframes[0].Trend)
	assert.Equal(t, "BEARISH", got.MTFAnalysis.Timeframes[4].Trend)
	assert.Equal(t, "3/5 Bullish", got.MTFAnalysis.AlignmentRating)
	assert.Equal(t, "None", got.MTFAnalysis.BestTradeTimeframe)

	assert.Equal(t, models.Mixed, got.OptionsNeural.FlowBias)
	assert.Equal(t, "None", got.OptionsNeural.KeyStrikes)
	assert.Equal(t, []string{"Bid stacking"}, got.TapeAnalysis.Details)
	assert.Equal(t, 44.0, got.MicroTape.VolumeBurst)
	assert.Equal(t, "0.00", got.MicroTape.LastSpread)

	assert.Equal(t, "Options Flow", got.DriverPriority)
	assert.Equal(t, models.FlowBuyDominant, got.FlowBattle)
	assert.Equal(t, "ENTER", got.TraderAction)
	assert.Equal(t, 67.0, got.EdgeScore)
	assert.Equal(t, models.High, got.Confidence.Risk)
	assert.Equal(t, models.Medium, got.Confidence.Reward)
	require.NotNil(t, got.ContradictionWarning)
	assert.Equal(t, "Technicals long, flow short", *got.ContradictionWarning)

	require.Len(t, got.Alerts, 1)
	assert.Equal(t, "BREAKOUT", got.Alerts[0].Type)
	assert.Equal(t, "Wait for the retest.", got.MentorSummary)
	assert.Equal(t, models.Technicals{RSI: 61.5, MACD: "+0.42", ADX: 27}, got.Technicals)
}

func TestNormalize_ScalarFallbacks(t *testing.T) {
	raw := `{"driverPriority": "", "flowBattle": "SIDEWAYS", "traderAction": null, "edgeScore": "n/a", "contradictionWarning": "  "}`
	got := Normalize(models.DefaultAnalysis(), []byte(raw), "SPY")

	assert.Equal(t, FallbackDriverPriority, got.DriverPriority)
	assert.Equal(t, models.FlowBalanced, got.FlowBattle)
	assert.Equal(t, models.ActionWait, got.TraderAction)
	assert.Equal(t, 0.0, got.EdgeScore)
	assert.Nil(t, got.ContradictionWarning)
}

func TestNormalize_DoesNotAliasDefaults(t *testing.T) {
	defaults := models.DefaultAnalysis()
	got := Normalize(defaults, []byte(`{}`), "SPY")

	got.MTFAnalysis.Timeframes[0].Trend = models.TrendBullish
	got.LiquidityMap.DemandZones = append(got.LiquidityMap.DemandZones, "100")

	assert.Equal(t, models.TrendNeutral, defaults.MTFAnalysis.Timeframes[0].Trend)
	assert.Empty(t, defaults.LiquidityMap.DemandZones)
}
