package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"quant_architect/internal/ai"
	"quant_architect/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const (
	// FailureSummary replaces the mentor summary when a cycle degrades.
	FailureSummary = "CRITICAL ERROR: Data Uplink Failed. Check API Key or Internet Connection."
	// OfflineMessage replaces the delay message when a cycle degrades.
	OfflineMessage = "SYSTEM OFFLINE"

	DefaultTimeout = 2 * time.Minute
)

// Outcome classifies how a cycle ended.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeUnconfigured Outcome = "unconfigured"
	OutcomeTransport    Outcome = "transport"
	OutcomeFormat       Outcome = "format"
)

// Recorder receives per-cycle measurements.
type Recorder interface {
	RecordAnalysis(outcome, mode string, d time.Duration)
	RecordLastPrice(ticker string, price float64)
}

// Result is a finished cycle. Analysis is always complete and UI-safe; Err
// explains a degraded Outcome.
type Result struct {
	Analysis models.AnalysisResult
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Degraded reports whether the analysis is a fallback rather than a
// normalized response.
func (r Result) Degraded() bool { return r.Outcome != OutcomeOK }

// Engine issues one generation request per cycle and turns its output, or
// its failure, into an AnalysisResult. It never retries.
type Engine struct {
	gen      ai.Generator
	defaults func() models.AnalysisResult
	timeout  time.Duration
	recorder Recorder
	logger   zerolog.Logger
}

type Option func(*Engine)

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDefaults replaces the static default readout.
func WithDefaults(fn func() models.AnalysisResult) Option {
	return func(e *Engine) { e.defaults = fn }
}

func NewEngine(gen ai.Generator, opts ...Option) *Engine {
	if gen == nil {
		gen = ai.Unconfigured{}
	}
	e := &Engine{
		gen:      gen,
		defaults: models.DefaultAnalysis,
		timeout:  DefaultTimeout,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunAnalysis returns the merged result for input, or a fallback.
func (e *Engine) RunAnalysis(ctx context.Context, input string, mode models.TradingMode) models.AnalysisResult {
	return e.Run(ctx, input, mode).Analysis
}

// Run is RunAnalysis with the outcome details the dashboard logs.
func (e *Engine) Run(ctx context.Context, input string, mode models.TradingMode) Result {
	start := time.Now()
	res := e.run(ctx, input, mode)
	res.Duration = time.Since(start)

	ev := e.logger.Info()
	if res.Degraded() {
		ev = e.logger.Warn().Err(res.Err)
	}
	ev.Str("input", input).
		Str("mode", mode.String()).
		Str("outcome", string(res.Outcome)).
		Str("ticker", res.Analysis.Ticker).
		Dur("duration", res.Duration).
		Msg("Analysis cycle finished")

	if e.recorder != nil {
		e.recorder.RecordAnalysis(string(res.Outcome), mode.String(), res.Duration)
		if !res.Degraded() && res.Analysis.Freshness.LastPrice > 0 {
			e.recorder.RecordLastPrice(res.Analysis.Ticker, res.Analysis.Freshness.LastPrice)
		}
	}
	return res
}

func (e *Engine) run(ctx context.Context, input string, mode models.TradingMode) Result {
	if !e.gen.Configured() {
		out := e.defaults()
		out.Ticker = strings.ToUpper(strings.TrimSpace(input))
		return Result{Analysis: out, Outcome: OutcomeUnconfigured, Err: ai.ErrNotConfigured}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text, err := e.gen.Generate(callCtx, ai.AnalysisPrompt(input, mode))
	if errors.Is(err, ai.ErrEmptyResponse) {
		return e.fallback(input, OutcomeFormat, ErrNoJSON)
	}
	if err != nil {
		return e.fallback(input, OutcomeTransport, err)
	}

	span, err := ExtractJSON(text)
	if err != nil {
		return e.fallback(input, OutcomeFormat, err)
	}
	if !gjson.Valid(span) {
		return e.fallback(input, OutcomeFormat, ErrInvalidJSON)
	}

	return Result{
		Analysis: Normalize(e.defaults(), []byte(span), input),
		Outcome:  OutcomeOK,
	}
}

// fallback is the complete result substituted for any failed cycle.
func (e *Engine) fallback(input string, outcome Outcome, err error) Result {
	out := e.defaults()
	out.Ticker = strings.ToUpper(strings.TrimSpace(input))
	out.MentorSummary = FailureSummary
	out.Freshness.DelayMessage = OfflineMessage
	return Result{Analysis: out, Outcome: outcome, Err: err}
}
