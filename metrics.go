package verifymail

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mailforge/verifymail/types"
)

// metricsCollector is a prometheus.Collector scoped to one Validator. It is
// not auto-registered against the default registry: a library must not
// reach into a consumer's global registry uninvited, so callers opt in via
// Validator.Collector() and register it themselves.
type metricsCollector struct {
	verified *prometheus.CounterVec
	duration prometheus.Histogram
	inFlight prometheus.Gauge
}

func newMetricsCollector() *metricsCollector {
	return &metricsCollector{
		verified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verifymail_addresses_verified_total",
			Help: "Total addresses verified, labeled by result category.",
		}, []string{"category"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "verifymail_verify_duration_seconds",
			Help:    "Time to classify one address, including DNS lookup and SMTP probe.",
			Buckets: prometheus.DefBuckets,
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "verifymail_probes_in_flight",
			Help: "Number of address verifications currently in progress.",
		}),
	}
}

func (m *metricsCollector) observe(v types.Verdict, elapsed time.Duration) {
	m.verified.WithLabelValues(v.Category).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// probeStarted and probeDone bracket one Verify call so inFlight tracks how
// many are running concurrently right now. Call probeDone via defer so a
// panic inside the bracketed call still decrements it.
func (m *metricsCollector) probeStarted() { m.inFlight.Inc() }
func (m *metricsCollector) probeDone()    { m.inFlight.Dec() }

// Describe implements prometheus.Collector.
func (m *metricsCollector) Describe(ch chan<- *prometheus.Desc) {
	m.verified.Describe(ch)
	m.duration.Describe(ch)
	m.inFlight.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *metricsCollector) Collect(ch chan<- prometheus.Metric) {
	m.verified.Collect(ch)
	m.duration.Collect(ch)
	m.inFlight.Collect(ch)
}
