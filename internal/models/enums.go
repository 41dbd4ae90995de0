package models

import (
	"errors"
	"fmt"
	"strings"
)

// Enumerated literals of the analysis contract.
const (
	RiskOn  = "Risk-On"
	RiskOff = "Risk-Off"
	Neutral = "Neutral"

	Bullish = "Bullish"
	Bearish = "Bearish"
	Mixed   = "Mixed"

	TrendBullish = "BULLISH"
	TrendBearish = "BEARISH"
	TrendNeutral = "NEUTRAL"

	DirectionLong  = "LONG"
	DirectionShort = "SHORT"

	FlowBuyDominant  = "BUY DOMINANT"
	FlowSellDominant = "SELL DOMINANT"
	FlowBalanced     = "BALANCED"

	Low    = "Low"
	Medium = "Medium"
	High   = "High"

	ActionWait = "WAIT"
)

// Timeframes is the fixed slot order of the multi-timeframe block.
var Timeframes = []string{"1m", "5m", "15m", "1h", "1d"}

var (
	GlobalRiskValues = []string{RiskOn, RiskOff, Neutral}
	FlowBiasValues   = []string{Bullish, Bearish, Mixed, Neutral}
	TrendValues      = []string{TrendBullish, TrendBearish, TrendNeutral}
	DirectionValues  = []string{DirectionLong, DirectionShort}
	FlowBattleValues = []string{FlowBuyDominant, FlowSellDominant, FlowBalanced}
	LevelValues      = []string{Low, Medium, High}
	RiskGradeValues  = []string{"A", "B", "C"}
	AlertTypeValues  = []string{"BREAKOUT", "BREAKDOWN", "VOLUME", "NEWS"}
	AlertActions     = []string{"ENTER", "EXIT", "WATCH"}
)

// TradingMode parameterizes the instruction sent to the generation service.
type TradingMode string

const (
	ModeScalp TradingMode = "SCALP"
	ModeDay   TradingMode = "DAY"
	ModeSwing TradingMode = "SWING"
)

var ErrInvalidMode = errors.New("invalid trading mode")

// ParseTradingMode accepts SCALP, DAY or SWING in any case.
func ParseTradingMode(s string) (TradingMode, error) {
	switch TradingMode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeScalp:
		return ModeScalp, nil
	case ModeDay:
		return ModeDay, nil
	case ModeSwing:
		return ModeSwing, nil
	}
	return "", fmt.Errorf("%w: %q (want SCALP, DAY or SWING)", ErrInvalidMode, s)
}

func (m TradingMode) String() string { return string(m) }

// Canonical returns the member of allowed equal to s ignoring case, or "".
func Canonical(s string, allowed []string) string {
	s = strings.TrimSpace(s)
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return a
		}
	}
	return ""
}
