package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"quant_architect/internal/analysis"
	"quant_architect/internal/market"
	"quant_architect/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitialInput is the command of the first cycle after start-up.
const InitialInput = "SCAN MARKET"

var (
	ErrEmptyInput   = errors.New("input is empty")
	ErrUnknownSetup = errors.New("ticker is not in the current scanner results")
	// ErrSuperseded is returned when a newer request was issued while this
	// one was in flight. Its response was discarded.
	ErrSuperseded = errors.New("response superseded by a newer request")
)

// Analyzer runs one analysis cycle. *analysis.Engine implements it.
type Analyzer interface {
	Run(ctx context.Context, input string, mode models.TradingMode) analysis.Result
}

// Notifier forwards alert text to an operator channel.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Recorder receives dashboard-level measurements.
type Recorder interface {
	RecordStale()
	RecordAlert(kind string)
}

// Snapshot is a consistent copy of the dashboard state.
type Snapshot struct {
	Ticker  string                `json:"ticker"`
	Mode    models.TradingMode    `json:"mode"`
	Loading bool                  `json:"loading"`
	Result  models.AnalysisResult `json:"result"`
	Logs    []models.LogEntry     `json:"logs"`
}

// Dashboard is the presentation state machine: the held result, the loading
// flag, the trading mode and the append-only log.
type Dashboard struct {
	engine       Analyzer
	prices       market.PriceProvider
	notifier     Notifier
	recorder     Recorder
	deviationPct float64
	sideTimeout  time.Duration
	logger       zerolog.Logger
	now          func() time.Time

	mu         sync.RWMutex
	ticker     string
	mode       models.TradingMode
	result     models.AnalysisResult
	loading    bool
	logs       []models.LogEntry
	latest     uint64 // last issued request id
	seenAlerts map[string]struct{}

	obsMu     sync.RWMutex
	observers map[int]func()
	nextObs   int
}

type Option func(*Dashboard)

// WithPriceProvider enables the post-cycle price cross-check.
func WithPriceProvider(p market.PriceProvider, deviationPct float64) Option {
	return func(d *Dashboard) {
		d.prices = p
		d.deviationPct = deviationPct
	}
}

// WithNotifier enables alert forwarding.
func WithNotifier(n Notifier) Option {
	return func(d *Dashboard) { d.notifier = n }
}

func WithRecorder(r Recorder) Option {
	return func(d *Dashboard) { d.recorder = r }
}

func WithMode(m models.TradingMode) Option {
	return func(d *Dashboard) { d.mode = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(d *Dashboard) { d.logger = l }
}

func New(engine Analyzer, opts ...Option) *Dashboard {
	d := &Dashboard{
		engine:      engine,
		sideTimeout: 10 * time.Second,
		logger:      log.Logger,
		now:         time.Now,
		ticker:      models.DefaultTicker,
		mode:        models.ModeDay,
		result:      models.DefaultAnalysis(),
		logs:        []models.LogEntry{},
		seenAlerts:  make(map[string]struct{}),
		observers:   make(map[int]func()),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start runs the initial cycle. The displayed ticker is left unchanged.
func (d *Dashboard) Start(ctx context.Context) error {
	_, err := d.run(ctx, InitialInput, false)
	return err
}

// Analyze runs a cycle for input, which becomes the displayed ticker.
func (d *Dashboard) Analyze(ctx context.Context, input string) (Snapshot, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return d.Snapshot(), ErrEmptyInput
	}
	return d.run(ctx, strings.ToUpper(input), true)
}

// SelectSetup analyzes a ticker picked from the scanner lists.
func (d *Dashboard) SelectSetup(ctx context.Context, ticker string) (Snapshot, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	d.mu.RLock()
	found := ticker != "" && hasSetup(d.result.Scanner, ticker)
	d.mu.RUnlock()

	if !found {
		return d.Snapshot(), fmt.Errorf("%w: %q", ErrUnknownSetup, ticker)
	}
	return d.Analyze(ctx, ticker)
}

// SetMode changes the mode used by subsequent cycles.
func (d *Dashboard) SetMode(mode models.TradingMode) {
	d.mu.Lock()
	d.mode = mode
	d.addLogLocked(fmt.Sprintf("Trading Mode set to %s.", mode), models.LogSystem)
	d.mu.Unlock()
	d.notify()
}

func (d *Dashboard) Mode() models.TradingMode {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mode
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Snapshot{
		Ticker:  d.ticker,
		Mode:    d.mode,
		Loading: d.loading,
		Result:  d.result.Clone(),
		Logs:    append([]models.LogEntry{}, d.logs...),
	}
}

// Logs returns the entries after the first since entries.
func (d *Dashboard) Logs(since int) []models.LogEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if since < 0 {
		since = 0
	}
	if since >= len(d.logs) {
		return []models.LogEntry{}
	}
	return append([]models.LogEntry{}, d.logs[since:]...)
}

// Subscribe registers fn to be called after every state change. The
// returned function removes it.
func (d *Dashboard) Subscribe(fn func()) func() {
	d.obsMu.Lock()
	defer d.obsMu.Unlock()
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	return func() {
		d.obsMu.Lock()
		delete(d.observers, id)
		d.obsMu.Unlock()
	}
}

func (d *Dashboard) run(ctx context.Context, input string, setTicker bool) (Snapshot, error) {
	d.mu.Lock()
	d.latest++
	id := d.latest
	mode := d.mode
	if setTicker {
		d.ticker = input
	}
	d.loading = true
	d.addLogLocked(fmt.Sprintf("QuantArchitect 4.0: Running Full System Diagnostics on [%s] (Mode: %s)...", input, mode), models.LogSystem)
	d.mu.Unlock()
	d.notify()

	res := d.engine.Run(ctx, input, mode)

	d.mu.Lock()
	if id != d.latest {
		d.addLogLocked(fmt.Sprintf("Discarded stale response for [%s]: a newer request is in flight.", input), models.LogWarning)
		d.mu.Unlock()
		if d.recorder != nil {
			d.recorder.RecordStale()
		}
		d.notify()
		return d.Snapshot(), ErrSuperseded
	}

	d.result = res.Analysis.Clone()
	d.loading = false
	d.logCycleLocked(res)
	fresh := d.newAlertsLocked(res.Analysis.Alerts)
	d.mu.Unlock()
	d.notify()

	d.forwardAlerts(ctx, fresh)
	if !res.Degraded() {
		d.crossCheck(ctx, res.Analysis)
	}
	return d.Snapshot(), nil
}

func (d *Dashboard) logCycleLocked(res analysis.Result) {
	r := res.Analysis
	if res.Degraded() {
		d.addLogLocked("System Failure: "+describeFailure(res), models.LogError)
	}

	d.addLogLocked(fmt.Sprintf("Macro & Market Data Synced. Source: %s", r.Freshness.Source), models.LogInfo)
	if r.Freshness.IsDelayed {
		d.addLogLocked(fmt.Sprintf("WARNING: %s", r.Freshness.DelayMessage), models.LogWarning)
	}
	for _, a := range r.Alerts {
		d.addLogLocked(fmt.Sprintf("ALERT: %s - %s", a.Ticker, a.Message), models.LogWarning)
		if d.recorder != nil {
			d.recorder.RecordAlert(a.Type)
		}
	}
	if r.ContradictionWarning != nil {
		d.addLogLocked(fmt.Sprintf("CONTRADICTION: %s", *r.ContradictionWarning), models.LogWarning)
	}
}

func describeFailure(res analysis.Result) string {
	switch res.Outcome {
	case analysis.OutcomeUnconfigured:
		return "API key not configured. Showing default readout."
	case analysis.OutcomeFormat:
		return fmt.Sprintf("Output format invalid (%v).", res.Err)
	default:
		return fmt.Sprintf("Data uplink failed (%v).", res.Err)
	}
}

// newAlertsLocked returns the alerts not forwarded before.
func (d *Dashboard) newAlertsLocked(alerts []models.Alert) []models.Alert {
	if d.notifier == nil {
		return nil
	}
	var fresh []models.Alert
	for _, a := range alerts {
		key := a.ID
		if key == "" {
			key = a.Ticker + "|" + a.Message
		}
		if _, seen := d.seenAlerts[key]; seen {
			continue
		}
		d.seenAlerts[key] = struct{}{}
		fresh = append(fresh, a)
	}
	return fresh
}

func (d *Dashboard) forwardAlerts(ctx context.Context, alerts []models.Alert) {
	for _, a := range alerts {
		sendCtx, cancel := context.WithTimeout(ctx, d.sideTimeout)
		err := d.notifier.Notify(sendCtx, formatAlert(a))
		cancel()
		if err != nil {
			d.logger.Error().Err(err).Str("ticker", a.Ticker).Msg("Alert forwarding failed")
		}
	}
}

func (d *Dashboard) crossCheck(ctx context.Context, r models.AnalysisResult) {
	if d.prices == nil || r.Freshness.LastPrice <= 0 {
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, d.sideTimeout)
	defer cancel()
	c, err := market.CrossCheck(checkCtx, d.prices, r.Ticker, r.Freshness.LastPrice, d.deviationPct)

	d.mu.Lock()
	switch {
	case err != nil:
		d.logger.Warn().Err(err).Str("ticker", r.Ticker).Msg("Price cross-check unavailable")
		d.addLogLocked(fmt.Sprintf("PRICE CHECK unavailable for %s.", r.Ticker), models.LogWarning)
	case c.Exceeded:
		d.addLogLocked(fmt.Sprintf("PRICE DEVIATION: %s exceeds %.2f%%", c, d.deviationPct), models.LogWarning)
	default:
		d.addLogLocked(fmt.Sprintf("Price verified: %s", c), models.LogSuccess)
	}
	d.mu.Unlock()
	d.notify()
}

func (d *Dashboard) addLogLocked(message string, level models.LogLevel) {
	d.logs = append(d.logs, models.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: d.now(),
		Message:   message,
		Level:     level,
	})
	d.logger.Debug().Str("type", string(level)).Msg(message)
}

func (d *Dashboard) notify() {
	d.obsMu.RLock()
	fns := make([]func(), 0, len(d.observers))
	for _, fn := range d.observers {
		fns = append(fns, fn)
	}
	d.obsMu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

func hasSetup(s models.ScannerResult, ticker string) bool {
	for _, list := range [][]models.TradeSetup{s.TopLongs, s.TopShorts} {
		for _, setup := range list {
			if strings.EqualFold(setup.Ticker, ticker) {
				return true
			}
		}
	}
	return false
}
