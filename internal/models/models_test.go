package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAnalysis(t *testing.T) {
	d := DefaultAnalysis()

	assert.Equal(t, DefaultTicker, d.Ticker)
	assert.Equal(t, FlowBalanced, d.FlowBattle)
	assert.Equal(t, ActionWait, d.TraderAction)
	assert.Nil(t, d.ContradictionWarning)
	require.Len(t, d.MTFAnalysis.Timeframes, len(Timeframes))
	for i, tf := range d.MTFAnalysis.Timeframes {
		assert.Equal(t, Timeframes[i], tf.TF)
		assert.Equal(t, TrendNeutral, tf.Trend)
	}

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(b), "null"), "only contradictionWarning may be null")
}

func TestClone_IsDeep(t *testing.T) {
	w := "conflict"
	orig := DefaultAnalysis()
	orig.ContradictionWarning = &w
	orig.Scanner.TopLongs = []TradeSetup{{Ticker: "NVDA", Targets: []string{"140"}}}

	cp := orig.Clone()
	cp.Scanner.TopLongs[0].Targets[0] = "999"
	cp.MTFAnalysis.Timeframes[0].Trend = TrendBullish
	*cp.ContradictionWarning = "changed"

	assert.Equal(t, "140", orig.Scanner.TopLongs[0].Targets[0])
	assert.Equal(t, TrendNeutral, orig.MTFAnalysis.Timeframes[0].Trend)
	assert.Equal(t, "conflict", *orig.ContradictionWarning)
}

func TestParseTradingMode(t *testing.T) {
	for in, want := range map[string]TradingMode{"scalp": ModeScalp, " Day ": ModeDay, "SWING": ModeSwing} {
		got, err := ParseTradingMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseTradingMode("position")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, RiskOff, Canonical(" risk-off ", GlobalRiskValues))
	assert.Equal(t, FlowSellDominant, Canonical("sell dominant", FlowBattleValues))
	assert.Equal(t, "", Canonical("sideways", FlowBattleValues))
}
