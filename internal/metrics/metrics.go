package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes analysis metrics to Prometheus.
type Recorder struct {
	analyses  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	lastPrice *prometheus.GaugeVec
	stale     prometheus.Counter
	alerts    *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// the binary and a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		analyses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quant_architect_analyses_total",
				Help: "Analysis cycles by outcome",
			},
			[]string{"outcome", "mode"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quant_architect_generation_duration_seconds",
				Help:    "Duration of generation calls in seconds",
				Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
			},
			[]string{"outcome"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "quant_architect_last_price",
				Help: "Last traded price reported for a ticker",
			},
			[]string{"ticker"},
		),
		stale: f.NewCounter(
			prometheus.CounterOpts{
				Name: "quant_architect_stale_responses_total",
				Help: "Responses discarded because a newer request was issued",
			},
		),
		alerts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quant_architect_alerts_total",
				Help: "Alerts received from analyses",
			},
			[]string{"type"},
		),
	}
}

// RecordAnalysis counts a finished cycle and its generation latency.
func (r *Recorder) RecordAnalysis(outcome, mode string, d time.Duration) {
	r.analyses.WithLabelValues(outcome, mode).Inc()
	r.latency.WithLabelValues(outcome).Observe(d.Seconds())
}

func (r *Recorder) RecordLastPrice(ticker string, price float64) {
	r.lastPrice.WithLabelValues(ticker).Set(price)
}

func (r *Recorder) RecordStale() {
	r.stale.Inc()
}

func (r *Recorder) RecordAlert(kind string) {
	r.alerts.WithLabelValues(kind).Inc()
}
