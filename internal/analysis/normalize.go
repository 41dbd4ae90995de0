package analysis

import (
	"math"
	"strconv"
	"strings"

	"quant_architect/internal/models"

	"github.com/tidwall/gjson"
)

// FallbackDriverPriority is used when the payload names no primary driver.
const FallbackDriverPriority = "Analyzing..."

// Normalize overlays a raw, possibly partial payload onto defaults and
// returns a fully populated result.
//
// Top-level fields and each composite sub-object are reconciled field by
// field, one level deep. List fields are replaced wholesale. Values of the
// wrong shape keep the default, except the last traded price which becomes 0.
// Normalize never fails: input that is not a JSON object is treated as {}.
func Normalize(defaults models.AnalysisResult, raw []byte, requestInput string) models.AnalysisResult {
	src := gjson.Result{}
	if gjson.ValidBytes(raw) {
		src = object(gjson.ParseBytes(raw))
	}

	out := defaults.Clone()

	// Top-level scalars
	ticker := str(src.Get("ticker"), "")
	if strings.TrimSpace(ticker) == "" {
		ticker = requestInput
	}
	out.Ticker = strings.ToUpper(strings.TrimSpace(ticker))
	out.MentorSummary = str(src.Get("mentorSummary"), defaults.MentorSummary)

	out.Freshness = mergeFreshness(defaults.Freshness, object(src.Get("freshness")))
	out.Macro = mergeMacro(defaults.Macro, object(src.Get("macro")))
	out.LiquidityMap = mergeLiquidity(defaults.LiquidityMap, object(src.Get("liquidityMap")))
	out.MSCScores = mergeScores(defaults.MSCScores, object(src.Get("mscScores")))
	out.MTFAnalysis = mergeTimeframes(defaults.MTFAnalysis, object(src.Get("mtfAnalysis")))
	out.OptionsNeural = mergeOptions(defaults.OptionsNeural, object(src.Get("optionsNeural")))
	out.TapeAnalysis = mergeTape(defaults.TapeAnalysis, object(src.Get("tapeAnalysis")))
	out.MicroTape = mergeMicroTape(defaults.MicroTape, object(src.Get("microTape")))
	out.Confidence = mergeConfidence(defaults.Confidence, object(src.Get("confidence")))
	out.Technicals = mergeTechnicals(defaults.Technicals, object(src.Get("technicals")))

	// Lists: source list or empty, never merged element-wise
	scanner := object(src.Get("scanner"))
	out.Scanner = models.ScannerResult{
		TopLongs:  setups(scanner.Get("topLongs"), models.DirectionLong),
		TopShorts: setups(scanner.Get("topShorts"), models.DirectionShort),
	}
	out.Portfolio = positions(src.Get("portfolio"))
	out.Alerts = alerts(src.Get("alerts"))

	// Scalars with their own fallback literals
	out.DriverPriority = nonEmpty(str(src.Get("driverPriority"), ""), FallbackDriverPriority)
	out.FlowBattle = enum(src.Get("flowBattle"), models.FlowBattleValues, models.FlowBalanced)
	out.TraderAction = nonEmpty(str(src.Get("traderAction"), ""), models.ActionWait)
	out.EdgeScore = num(src.Get("edgeScore"), 0)
	out.ContradictionWarning = nil
	if w := str(src.Get("contradictionWarning"), ""); strings.TrimSpace(w) != "" {
		out.ContradictionWarning = &w
	}

	return out
}

func mergeFreshness(def models.DataFreshness, r gjson.Result) models.DataFreshness {
	return models.DataFreshness{
		Source:       str(r.Get("source"), def.Source),
		LastPrice:    num(r.Get("lastPrice"), 0),
		Timestamp:    str(r.Get("timestamp"), def.Timestamp),
		IsDelayed:    boolean(r.Get("isDelayed"), def.IsDelayed),
		DelayMessage: str(r.Get("delayMessage"), def.DelayMessage),
	}
}

func mergeMacro(def models.MacroMetrics, r gjson.Result) models.MacroMetrics {
	return models.MacroMetrics{
		VIX:               str(r.Get("vix"), def.VIX),
		DXY:               str(r.Get("dxy"), def.DXY),
		Yields10Y:         str(r.Get("yields10y"), def.Yields10Y),
		SpyQqqCorrelation: str(r.Get("spyQqqCorrelation"), def.SpyQqqCorrelation),
		GlobalRisk:        enum(r.Get("globalRisk"), models.GlobalRiskValues, nonEmpty(def.GlobalRisk, models.Neutral)),
		VolatilityExp:     str(r.Get("volatilityExp"), def.VolatilityExp),
	}
}

func mergeLiquidity(def models.LiquidityMap, r gjson.Result) models.LiquidityMap {
	return models.LiquidityMap{
		DemandZones:   strList(r.Get("demandZones"), def.DemandZones),
		SupplyZones:   strList(r.Get("supplyZones"), def.SupplyZones),
		VolumeShelves: strList(r.Get("volumeShelves"), def.VolumeShelves),
		StopClusters:  strList(r.Get("stopClusters"), def.StopClusters),
		Traps:         strList(r.Get("traps"), def.Traps),
		AVWAPAnchors:  strList(r.Get("avwapAnchors"), def.AVWAPAnchors),
	}
}

func mergeScores(def models.MSCScores, r gjson.Result) models.MSCScores {
	return models.MSCScores{
		Structure:       num(r.Get("structure"), def.Structure),
		Momentum:        num(r.Get("momentum"), def.Momentum),
		Liquidity:       num(r.Get("liquidity"), def.Liquidity),
		Flow:            num(r.Get("flow"), def.Flow),
		Internals:       num(r.Get("internals"), def.Internals),
		TotalConviction: num(r.Get("totalConviction"), def.TotalConviction),
	}
}

func mergeOptions(def models.OptionsNeural, r gjson.Result) models.OptionsNeural {
	return models.OptionsNeural{
		FlowBias:       enum(r.Get("flowBias"), models.FlowBiasValues, nonEmpty(def.FlowBias, models.Neutral)),
		KeyStrikes:     str(r.Get("keyStrikes"), def.KeyStrikes),
		Sweeps:         str(r.Get("sweeps"), def.Sweeps),
		Blocks:         str(r.Get("blocks"), def.Blocks),
		Interpretation: str(r.Get("interpretation"), def.Interpretation),
	}
}

func mergeTape(def models.TapeAnalysis, r gjson.Result) models.TapeAnalysis {
	return models.TapeAnalysis{
		Action:  str(r.Get("action"), def.Action),
		Details: strList(r.Get("details"), def.Details),
	}
}

func mergeMicroTape(def models.MicroTape, r gjson.Result) models.MicroTape {
	return models.MicroTape{
		LastSpread:    str(r.Get("lastSpread"), def.LastSpread),
		Imbalance:     str(r.Get("imbalance"), def.Imbalance),
		VolumeBurst:   num(r.Get("volumeBurst"), def.VolumeBurst),
		RejectionWick: str(r.Get("rejectionWick"), def.RejectionWick),
	}
}

func mergeConfidence(def models.ConfidenceVector, r gjson.Result) models.ConfidenceVector {
	return models.ConfidenceVector{
		Conviction:  num(r.Get("conviction"), def.Conviction),
		Clarity:     num(r.Get("clarity"), def.Clarity),
		Risk:        enum(r.Get("risk"), models.LevelValues, nonEmpty(def.Risk, models.Medium)),
		Reward:      enum(r.Get("reward"), models.LevelValues, nonEmpty(def.Reward, models.Medium)),
		Uncertainty: num(r.Get("uncertainty"), def.Uncertainty),
	}
}

func mergeTechnicals(def models.Technicals, r gjson.Result) models.Technicals {
	return models.Technicals{
		RSI:  num(r.Get("rsi"), def.RSI),
		MACD: str(r.Get("macd"), def.MACD),
		ADX:  num(r.Get("adx"), def.ADX),
	}
}

// mergeTimeframes always yields the five fixed slots in order. Supplied
// entries land in the slot named by their tf label; unlabelled entries fill
// the remaining slots by position.
func mergeTimeframes(def models.MultiTimeframe, r gjson.Result) models.MultiTimeframe {
	slots := make([]models.TimeframeData, len(models.Timeframes))
	for i, tf := range models.Timeframes {
		slots[i] = models.TimeframeData{TF: tf, Trend: models.TrendNeutral}
		for _, d := range def.Timeframes {
			if canonicalTimeframe(d.TF) == tf {
				slots[i].Trend = nonEmpty(models.Canonical(d.Trend, models.TrendValues), models.TrendNeutral)
				break
			}
		}
	}

	if list := r.Get("timeframes"); list.IsArray() {
		items := list.Array()
		taken := make([]bool, len(slots))
		var unlabelled []int

		for i, item := range items {
			if !item.IsObject() {
				continue
			}
			idx := timeframeIndex(str(item.Get("tf"), ""))
			if idx < 0 || taken[idx] {
				unlabelled = append(unlabelled, i)
				continue
			}
			slots[idx].Trend = enum(item.Get("trend"), models.TrendValues, models.TrendNeutral)
			taken[idx] = true
		}

		for _, i := range unlabelled {
			if i >= len(slots) || taken[i] {
				continue
			}
			slots[i].Trend = enum(items[i].Get("trend"), models.TrendValues, models.TrendNeutral)
			taken[i] = true
		}
	}

	return models.MultiTimeframe{
		Timeframes:         slots,
		AlignmentRating:    str(r.Get("alignmentRating"), def.AlignmentRating),
		BestTradeTimeframe: str(r.Get("bestTradeTimeframe"), def.BestTradeTimeframe),
	}
}

var timeframeAliases = map[string]string{
	"1min":  "1m",
	"5min":  "5m",
	"15min": "15m",
	"60m":   "1h",
	"1hr":   "1h",
	"h1":    "1h",
	"d":     "1d",
	"1day":  "1d",
	"daily": "1d",
}

func canonicalTimeframe(tf string) string {
	tf = strings.ToLower(strings.TrimSpace(tf))
	if alias, ok := timeframeAliases[tf]; ok {
		return alias
	}
	return tf
}

func timeframeIndex(tf string) int {
	tf = canonicalTimeframe(tf)
	for i, slot := range models.Timeframes {
		if slot == tf {
			return i
		}
	}
	return -1
}

func setups(r gjson.Result, side string) []models.TradeSetup {
	out := []models.TradeSetup{}
	if !r.IsArray() {
		return out
	}
	for _, item := range r.Array() {
		if !item.IsObject() {
			continue
		}
		out = append(out, models.TradeSetup{
			Ticker:       str(item.Get("ticker"), ""),
			Type:         str(item.Get("type"), ""),
			Direction:    enum(item.Get("direction"), models.DirectionValues, side),
			Entry:        str(item.Get("entry"), ""),
			Stop:         str(item.Get("stop"), ""),
			Targets:      strList(item.Get("targets"), nil),
			Conviction:   num(item.Get("conviction"), 0),
			RiskGrade:    enum(item.Get("riskGrade"), models.RiskGradeValues, "C"),
			Thesis:       str(item.Get("thesis"), ""),
			PositionSize: str(item.Get("positionSize"), ""),
			RiskReward:   str(item.Get("riskReward"), ""),
			Management:   str(item.Get("management"), ""),
		})
	}
	return out
}

func positions(r gjson.Result) []models.PortfolioPosition {
	out := []models.PortfolioPosition{}
	if !r.IsArray() {
		return out
	}
	for _, item := range r.Array() {
		if !item.IsObject() {
			continue
		}
		out = append(out, models.PortfolioPosition{
			Ticker:          str(item.Get("ticker"), ""),
			EntryPrice:      num(item.Get("entryPrice"), 0),
			CurrentPrice:    num(item.Get("currentPrice"), 0),
			StopPrice:       num(item.Get("stopPrice"), 0),
			PnLPercent:      num(item.Get("pnlPercent"), 0),
			ConvictionDecay: str(item.Get("convictionDecay"), ""),
			Action:          str(item.Get("action"), ""),
		})
	}
	return out
}

func alerts(r gjson.Result) []models.Alert {
	out := []models.Alert{}
	if !r.IsArray() {
		return out
	}
	for _, item := range r.Array() {
		if !item.IsObject() {
			continue
		}
		out = append(out, models.Alert{
			ID:      str(item.Get("id"), ""),
			Ticker:  str(item.Get("ticker"), ""),
			Message: str(item.Get("message"), ""),
			Type:    enum(item.Get("type"), models.AlertTypeValues, "NEWS"),
			Action:  enum(item.Get("action"), models.AlertActions, "WATCH"),
		})
	}
	return out
}

// --- coercion rules ---

func object(r gjson.Result) gjson.Result {
	if r.IsObject() {
		return r
	}
	return gjson.Result{}
}

// scalar accepts JSON strings, and numbers as their literal text.
func scalar(r gjson.Result) (string, bool) {
	switch r.Type {
	case gjson.String:
		return r.Str, true
	case gjson.Number:
		return r.Raw, true
	}
	return "", false
}

func str(r gjson.Result, def string) string {
	if s, ok := scalar(r); ok {
		return s
	}
	return def
}

// num accepts finite JSON numbers and strings that parse as one.
func num(r gjson.Result, def float64) float64 {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return def
		}
		v = parsed
	default:
		return def
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func boolean(r gjson.Result, def bool) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	}
	return def
}

// strList keeps the scalar elements of a JSON array; a non-array yields a
// copy of def, and never nil.
func strList(r gjson.Result, def []string) []string {
	out := []string{}
	if !r.IsArray() {
		return append(out, def...)
	}
	for _, item := range r.Array() {
		if s, ok := scalar(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func enum(r gjson.Result, allowed []string, def string) string {
	return nonEmpty(models.Canonical(str(r, ""), allowed), def)
}

func nonEmpty(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
