package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			match := true
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					match = false
				}
			}
			if match {
				if c := m.GetCounter(); c != nil {
					return c.GetValue()
				}
				if g := m.GetGauge(); g != nil {
					return g.GetValue()
				}
			}
		}
	}
	return 0
}

func TestCRMMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCRMMetrics(reg)
	m.ObserveMutation("shoot", "create")
	m.ObserveMutation("shoot", "create")
	m.ObserveMutation("lead", "delete")
	m.ObserveAnalytics("summary", 0.002)
	m.ObservePublish(false)
	m.SetOverdueLeads(3)

	if v := counterValue(t, reg, "shootbook_crm_mutations_total", map[string]string{"kind": "shoot", "op": "create"}); v != 2 {
		t.Errorf("shoot create mutations = %v, want 2", v)
	}
	if v := counterValue(t, reg, "shootbook_crm_mutations_total", map[string]string{"kind": "lead", "op": "delete"}); v != 1 {
		t.Errorf("lead delete mutations = %v, want 1", v)
	}
	if v := counterValue(t, reg, "shootbook_events_publish_total", map[string]string{"status": "error"}); v != 1 {
		t.Errorf("failed publishes = %v, want 1", v)
	}
	if v := counterValue(t, reg, "shootbook_crm_overdue_leads", nil); v != 3 {
		t.Errorf("overdue gauge = %v, want 3", v)
	}
}

func TestSyncMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSyncMetrics(reg)
	m.ObserveSync("shoot", "event", 12, nil)
	m.ObserveSync("shoot", "event", 3, errors.New("boom"))

	if v := counterValue(t, reg, "shootbook_sync_rows_exported_total", map[string]string{"kind": "shoot"}); v != 12 {
		t.Errorf("rows exported = %v, want 12", v)
	}
	if v := counterValue(t, reg, "shootbook_sync_runs_total", map[string]string{"status": "error"}); v != 1 {
		t.Errorf("failed runs = %v, want 1", v)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *CRMMetrics
	m.ObserveMutation("shoot", "create")
	m.ObserveAnalytics("ltv", 0.1)
	m.ObservePublish(true)
	m.SetOverdueLeads(1)

	var s *SyncMetrics
	s.ObserveSync("lead", "periodic", 1, nil)

	var h *HTTPMetrics
	h.ObserveRateLimited("POST")
	h.ObserveSuspicious()
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRateLimited("POST")
	m.ObserveRateLimited("POST")
	m.ObserveSuspicious()

	if v := counterValue(t, reg, "shootbook_http_rate_limited_total", map[string]string{"method": "POST"}); v != 2 {
		t.Errorf("rate limited = %v, want 2", v)
	}
	if v := counterValue(t, reg, "shootbook_http_suspicious_requests_total", nil); v != 1 {
		t.Errorf("suspicious = %v, want 1", v)
	}
}
