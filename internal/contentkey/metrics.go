package contentkey

import "github.com/prometheus/client_golang/prometheus"

// Registration outcomes used as the "result" label.
const (
	ResultRegistered = "registered"
	ResultDuplicate  = "duplicate"
	ResultFailed     = "failed"
	ResultRejected   = "rejected"
)

// Metrics counts registration outcomes for a session.
type Metrics struct {
	registrations *prometheus.CounterVec
	recipients    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg when non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hls_asset_manager",
			Subsystem: "contentkey",
			Name:      "registrations_total",
			Help:      "Content key recipient registrations by result.",
		}, []string{"result"}),
		recipients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hls_asset_manager",
			Subsystem: "contentkey",
			Name:      "recipients",
			Help:      "Recipients currently attached to the content key session.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.registrations, m.recipients)
	}
	return m
}

func (m *Metrics) observe(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

func (m *Metrics) setRecipients(n int) {
	if m == nil {
		return
	}
	m.recipients.Set(float64(n))
}
