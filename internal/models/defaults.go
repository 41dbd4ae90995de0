package models

// DefaultTicker is the ticker shown before the first analysis completes.
const DefaultTicker = "SPY"

// DefaultAnalysis returns the known-good result used as the base of every
// merge and as the fallback when the generation service is unavailable.
// Each call builds a new value, so callers may mutate it freely.
func DefaultAnalysis() AnalysisResult {
	timeframes := make([]TimeframeData, 0, len(Timeframes))
	for _, tf := range Timeframes {
		timeframes = append(timeframes, TimeframeData{TF: tf, Trend: TrendNeutral})
	}

	return AnalysisResult{
		Ticker: DefaultTicker,
		Freshness: DataFreshness{
			Source: "Initializing System...",
		},
		Macro: MacroMetrics{
			VIX:               "0.00",
			DXY:               "0.00",
			Yields10Y:         "0.00%",
			SpyQqqCorrelation: "0.00",
			GlobalRisk:        Neutral,
			VolatilityExp:     "Normal",
		},
		Scanner: ScannerResult{
			TopLongs:  []TradeSetup{},
			TopShorts: []TradeSetup{},
		},
		Portfolio: []PortfolioPosition{},
		LiquidityMap: LiquidityMap{
			DemandZones:   []string{},
			SupplyZones:   []string{},
			VolumeShelves: []string{},
			StopClusters:  []string{},
			Traps:         []string{},
			AVWAPAnchors:  []string{},
		},
		MSCScores: MSCScores{
			Structure: 50,
			Momentum:  50,
			Liquidity: 50,
			Flow:      50,
			Internals: 50,
		},
		MTFAnalysis: MultiTimeframe{
			Timeframes:         timeframes,
			AlignmentRating:    Neutral,
			BestTradeTimeframe: "None",
		},
		OptionsNeural: OptionsNeural{
			FlowBias:       Neutral,
			KeyStrikes:     "None",
			Sweeps:         "None",
			Blocks:         "None",
			Interpretation: "Waiting for data...",
		},
		TapeAnalysis: TapeAnalysis{
			Action:  "Monitoring...",
			Details: []string{},
		},
		MicroTape: MicroTape{
			LastSpread:    "0.00",
			Imbalance:     "Balanced",
			RejectionWick: "None",
		},
		Alerts:         []Alert{},
		MentorSummary:  "System initializing. Loading QuantArchitect 4.0 modules...",
		DriverPriority: "Analyzing...",
		FlowBattle:     FlowBalanced,
		TraderAction:   ActionWait,
		Confidence: ConfidenceVector{
			Risk:   Medium,
			Reward: Medium,
		},
		Technicals: Technicals{
			RSI:  50,
			MACD: "0.00",
		},
	}
}

// Clone returns a deep copy so a held result can be handed out without
// sharing slices.
func (r AnalysisResult) Clone() AnalysisResult {
	out := r
	out.Scanner.TopLongs = cloneSetups(r.Scanner.TopLongs)
	out.Scanner.TopShorts = cloneSetups(r.Scanner.TopShorts)
	out.Portfolio = append([]PortfolioPosition{}, r.Portfolio...)
	out.LiquidityMap = LiquidityMap{
		DemandZones:   cloneStrings(r.LiquidityMap.DemandZones),
		SupplyZones:   cloneStrings(r.LiquidityMap.SupplyZones),
		VolumeShelves: cloneStrings(r.LiquidityMap.VolumeShelves),
		StopClusters:  cloneStrings(r.LiquidityMap.StopClusters),
		Traps:         cloneStrings(r.LiquidityMap.Traps),
		AVWAPAnchors:  cloneStrings(r.LiquidityMap.AVWAPAnchors),
	}
	out.MTFAnalysis.Timeframes = append([]TimeframeData{}, r.MTFAnalysis.Timeframes...)
	out.TapeAnalysis.Details = cloneStrings(r.TapeAnalysis.Details)
	out.Alerts = append([]Alert{}, r.Alerts...)
	if r.ContradictionWarning != nil {
		w := *r.ContradictionWarning
		out.ContradictionWarning = &w
	}
	return out
}

func cloneSetups(in []TradeSetup) []TradeSetup {
	out := make([]TradeSetup, len(in))
	for i, s := range in {
		s.Targets = cloneStrings(s.Targets)
		out[i] = s
	}
	return out
}

func cloneStrings(in []string) []string {
	return append([]string{}, in...)
}
