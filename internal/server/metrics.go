package server

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rezonia/myinvois/internal/model"
)

// Transform outcomes used as the "outcome" label
const (
	OutcomeSuccess       = "success"
	OutcomeInvalid       = "invalid"
	OutcomeMalformedTime = "malformed_time"
	OutcomeRenderError   = "render_error"
	OutcomeError         = "error"
)

// Metrics records transform activity
type Metrics struct {
	transforms *prometheus.CounterVec
	duration   prometheus.Histogram
	lineItems  prometheus.Histogram
}

// NewMetrics creates the transform metrics and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transforms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "myinvois",
			Name:      "transforms_total",
			Help:      "Invoice transformations by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "myinvois",
			Name:      "transform_duration_seconds",
			Help:      "Time spent transforming and rendering an invoice.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		lineItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "myinvois",
			Name:      "transform_line_items",
			Help:      "Line items per transformed invoice.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 500, 1000},
		}),
	}

	reg.MustRegister(m.transforms, m.duration, m.lineItems)
	return m
}

// ObserveTransform records one transform attempt
func (m *Metrics) ObserveTransform(outcome string, lines int, d time.Duration) {
	m.transforms.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
	m.lineItems.Observe(float64(lines))
}

func transformOutcome(err error) string {
	var (
		verr *model.ValidationError
		terr *model.MalformedTimeError
	)
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &verr):
		return OutcomeInvalid
	case errors.As(err, &terr):
		return OutcomeMalformedTime
	default:
		return OutcomeError
	}
}
