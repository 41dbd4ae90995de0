package models

// AnalysisResult is the complete record the dashboard renders.
//
// Field names follow the JSON contract the generation service is asked to
// produce, so the same struct is used for the wire and for the held state.
// Every field is always populated; ContradictionWarning is the only one that
// may be null.
type AnalysisResult struct {
	Ticker        string              `json:"ticker"` // Primary ticker, always upper case
	Freshness     DataFreshness       `json:"freshness"`
	Macro         MacroMetrics        `json:"macro"`
	Scanner       ScannerResult       `json:"scanner"`
	Portfolio     []PortfolioPosition `json:"portfolio"`
	LiquidityMap  LiquidityMap        `json:"liquidityMap"`
	MSCScores     MSCScores           `json:"mscScores"`
	MTFAnalysis   MultiTimeframe      `json:"mtfAnalysis"`
	OptionsNeural OptionsNeural       `json:"optionsNeural"`
	TapeAnalysis  TapeAnalysis        `json:"tapeAnalysis"`
	MicroTape     MicroTape           `json:"microTape"`
	Alerts        []Alert             `json:"alerts"`
	MentorSummary string              `json:"mentorSummary"`

	DriverPriority       string           `json:"driverPriority"`
	FlowBattle           string           `json:"flowBattle"` // BUY DOMINANT, SELL DOMINANT, BALANCED
	TraderAction         string           `json:"traderAction"`
	EdgeScore            float64          `json:"edgeScore"` // 0-100
	Confidence           ConfidenceVector `json:"confidence"`
	ContradictionWarning *string          `json:"contradictionWarning"`

	Technicals Technicals `json:"technicals"`
}

// DataFreshness describes where the price came from and how old it is.
type DataFreshness struct {
	Source       string  `json:"source"`
	LastPrice    float64 `json:"lastPrice"`
	Timestamp    string  `json:"timestamp"`
	IsDelayed    bool    `json:"isDelayed"`
	DelayMessage string  `json:"delayMessage"`
}

type MacroMetrics struct {
	VIX               string `json:"vix"`
	DXY               string `json:"dxy"`
	Yields10Y         string `json:"yields10y"`
	SpyQqqCorrelation string `json:"spyQqqCorrelation"`
	GlobalRisk        string `json:"globalRisk"` // Risk-On, Risk-Off, Neutral
	VolatilityExp     string `json:"volatilityExp"`
}

// TradeSetup is one scanner opportunity.
type TradeSetup struct {
	Ticker       string   `json:"ticker"`
	Type         string   `json:"type"`      // e.g. "VCP", "Breakout"
	Direction    string   `json:"direction"` // LONG or SHORT
	Entry        string   `json:"entry"`
	Stop         string   `json:"stop"`
	Targets      []string `json:"targets"`
	Conviction   float64  `json:"conviction"` // 0-100
	RiskGrade    string   `json:"riskGrade"`  // A, B, C
	Thesis       string   `json:"thesis"`
	PositionSize string   `json:"positionSize"`
	RiskReward   string   `json:"riskReward"`
	Management   string   `json:"management"`
}

type ScannerResult struct {
	TopLongs  []TradeSetup `json:"topLongs"`
	TopShorts []TradeSetup `json:"topShorts"`
}

type PortfolioPosition struct {
	Ticker          string  `json:"ticker"`
	EntryPrice      float64 `json:"entryPrice"`
	CurrentPrice    float64 `json:"currentPrice"`
	StopPrice       float64 `json:"stopPrice"`
	PnLPercent      float64 `json:"pnlPercent"`
	ConvictionDecay string  `json:"convictionDecay"` // e.g. "Stable", "Decaying"
	Action          string  `json:"action"`          // e.g. "Hold", "Scale Out"
}

type LiquidityMap struct {
	DemandZones   []string `json:"demandZones"`
	SupplyZones   []string `json:"supplyZones"`
	VolumeShelves []string `json:"volumeShelves"`
	StopClusters  []string `json:"stopClusters"`
	Traps         []string `json:"traps"`
	AVWAPAnchors  []string `json:"avwapAnchors"`
}

// MSCScores holds the five sub-scores plus their total.
type MSCScores struct {
	Structure       float64 `json:"structure"`
	Momentum        float64 `json:"momentum"`
	Liquidity       float64 `json:"liquidity"`
	Flow            float64 `json:"flow"`
	Internals       float64 `json:"internals"`
	TotalConviction float64 `json:"totalConviction"`
}

type TimeframeData struct {
	TF    string `json:"tf"`
	Trend string `json:"trend"` // BULLISH, BEARISH, NEUTRAL
}

type MultiTimeframe struct {
	Timeframes         []TimeframeData `json:"timeframes"`
	AlignmentRating    string          `json:"alignmentRating"` // e.g. "4/5 Bullish"
	BestTradeTimeframe string          `json:"bestTradeTimeframe"`
}

type OptionsNeural struct {
	FlowBias       string `json:"flowBias"` // Bullish, Bearish, Mixed, Neutral
	KeyStrikes     string `json:"keyStrikes"`
	Sweeps         string `json:"sweeps"`
	Blocks         string `json:"blocks"`
	Interpretation string `json:"interpretation"`
}

type TapeAnalysis struct {
	Action  string   `json:"action"`
	Details []string `json:"details"`
}

type MicroTape struct {
	LastSpread    string  `json:"lastSpread"`
	Imbalance     string  `json:"imbalance"`   // e.g. "Bid Heavy 60%"
	VolumeBurst   float64 `json:"volumeBurst"` // 0-100
	RejectionWick string  `json:"rejectionWick"`
}

type ConfidenceVector struct {
	Conviction  float64 `json:"conviction"`
	Clarity     float64 `json:"clarity"`
	Risk        string  `json:"risk"`   // Low, Medium, High
	Reward      string  `json:"reward"` // Low, Medium, High
	Uncertainty float64 `json:"uncertainty"`
}

type Alert struct {
	ID      string `json:"id"`
	Ticker  string `json:"ticker"`
	Message string `json:"message"`
	Type    string `json:"type"`   // BREAKOUT, BREAKDOWN, VOLUME, NEWS
	Action  string `json:"action"` // ENTER, EXIT, WATCH
}

type Technicals struct {
	RSI  float64 `json:"rsi"`
	MACD string  `json:"macd"`
	ADX  float64 `json:"adx"`
}
