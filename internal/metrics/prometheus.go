package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Render outcomes
const (
	StatusOK       = "ok"
	StatusPartial  = "partial"
	StatusEmpty    = "empty"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// Recorder records render outcomes using Prometheus.
type Recorder struct {
	rendersTotal  *prometheus.CounterVec
	seriesDropped prometheus.Counter
	duration      *prometheus.HistogramVec
}

// New creates a recorder whose collectors are registered on reg.
// A nil reg uses the default Prometheus registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		rendersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mosj_renders_total",
				Help: "Total number of rendered outputs by kind and outcome",
			},
			[]string{"output", "status"},
		),
		seriesDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mosj_series_dropped_total",
				Help: "Total number of series left out of chart configurations",
			},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mosj_render_duration_seconds",
				Help:    "Duration of render requests in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"output"},
		),
	}
}

// RecordRender records one render of output with the given outcome.
func (r *Recorder) RecordRender(output, status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.rendersTotal.WithLabelValues(output, status).Inc()
	r.duration.WithLabelValues(output).Observe(elapsed.Seconds())
}

// RecordDropped records series left out of a chart.
func (r *Recorder) RecordDropped(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.seriesDropped.Add(float64(n))
}
