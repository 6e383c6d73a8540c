package metrics

import "github.com/prometheus/client_golang/prometheus"

// PortalMetrics exposes counters/histograms for the portal gateway.
type PortalMetrics struct {
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	logins          *prometheus.CounterVec
	chatMessages    *prometheus.CounterVec
}

func NewPortalMetrics(reg prometheus.Registerer) *PortalMetrics {
	m := &PortalMetrics{
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careportal",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total requests to backend services",
		}, []string{"service", "method", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "careportal",
			Subsystem: "upstream",
			Name:      "request_latency_seconds",
			Help:      "Latency of backend service requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careportal",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total login attempts",
		}, []string{"outcome"}),
		chatMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careportal",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Total chat widget messages",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.upstreamTotal, m.upstreamLatency, m.logins, m.chatMessages)
	return m
}

// ObserveUpstream implements upstream.Observer.
func (m *PortalMetrics) ObserveUpstream(service, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamTotal.WithLabelValues(service, method, status).Inc()
	m.upstreamLatency.WithLabelValues(service).Observe(seconds)
}

func (m *PortalMetrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *PortalMetrics) ObserveChatMessage(outcome string) {
	if m == nil {
		return
	}
	m.chatMessages.WithLabelValues(outcome).Inc()
}
