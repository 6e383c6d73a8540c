package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPortalMetricsObserve(t *testing.T) {
	m := NewPortalMetrics(prometheus.NewRegistry())
	m.ObserveUpstream("appointments", "GET", "200", 0.12)
	m.ObserveUpstream("identity", "POST", "transport_error", 0.01)
	m.ObserveLogin("success")
	m.ObserveLogin("unauthorized")
	m.ObserveChatMessage("error")
}

func TestPortalMetricsNilSafe(t *testing.T) {
	var m *PortalMetrics
	m.ObserveUpstream("lab", "GET", "200", 0.1)
	m.ObserveLogin("success")
	m.ObserveChatMessage("ok")
}
