// Package metrics exposes Prometheus instruments for the CRM.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// CRMMetrics counts record mutations and analytics computations.
type CRMMetrics struct {
	mutationsTotal   *prometheus.CounterVec
	analyticsTotal   *prometheus.CounterVec
	publishTotal     *prometheus.CounterVec
	overdueLeads     prometheus.Gauge
	analyticsLatency *prometheus.HistogramVec
}

func NewCRMMetrics(reg prometheus.Registerer) *CRMMetrics {
	m := &CRMMetrics{
		mutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shootbook",
			Subsystem: "crm",
			Name:      "mutations_total",
			Help:      "Record mutations by kind and operation",
		}, []string{"kind", "op"}),
		analyticsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shootbook",
			Subsystem: "analytics",
			Name:      "computations_total",
			Help:      "Analytics computations by view",
		}, []string{"view"}),
		publishTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shootbook",
			Subsystem: "events",
			Name:      "publish_total",
			Help:      "Change events handed to the broker by outcome",
		}, []string{"status"}),
		overdueLeads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shootbook",
			Subsystem: "crm",
			Name:      "overdue_leads",
			Help:      "Overdue leads seen by the most recent dashboard computation",
		}),
		analyticsLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shootbook",
			Subsystem: "analytics",
			Name:      "duration_seconds",
			Help:      "Time spent computing analytics views",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.mutationsTotal, m.analyticsTotal, m.publishTotal, m.overdueLeads, m.analyticsLatency)
	return m
}

func (m *CRMMetrics) ObserveMutation(kind, op string) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(kind, op).Inc()
}

func (m *CRMMetrics) ObserveAnalytics(view string, seconds float64) {
	if m == nil {
		return
	}
	m.analyticsTotal.WithLabelValues(view).Inc()
	m.analyticsLatency.WithLabelValues(view).Observe(seconds)
}

func (m *CRMMetrics) ObservePublish(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.publishTotal.WithLabelValues(status).Inc()
}

func (m *CRMMetrics) SetOverdueLeads(n int) {
	if m == nil {
		return
	}
	m.overdueLeads.Set(float64(n))
}

// SyncMetrics covers the spreadsheet mirror worker.
type SyncMetrics struct {
	syncTotal    *prometheus.CounterVec
	rowsExported *prometheus.CounterVec
}

func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	m := &SyncMetrics{
		syncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shootbook",
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Sheet sync runs by kind, trigger and outcome",
		}, []string{"kind", "trigger", "status"}),
		rowsExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shootbook",
			Subsystem: "sync",
			Name:      "rows_exported_total",
			Help:      "Rows written to the spreadsheet by kind",
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.syncTotal, m.rowsExported)
	return m
}

func (m *SyncMetrics) ObserveSync(kind, trigger string, rows int, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.syncTotal.WithLabelValues(kind, trigger, status).Inc()
	if err == nil {
		m.rowsExported.WithLabelValues(kind).Add(float64(rows))
	}
}

// HTTPMetrics counts requests the HTTP layer rejected or flagged.
type HTTPMetrics struct {
	rateLimited *prometheus.CounterVec
	suspicious  prometheus.Counter
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shootbook",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Write requests rejected by the per-client rate limit",
		}, []string{"method"}),
		suspicious: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shootbook",
			Subsystem: "http",
			Name:      "suspicious_requests_total",
			Help:      "Requests matching a known probing pattern",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.rateLimited, m.suspicious)
	return m
}

func (m *HTTPMetrics) ObserveRateLimited(method string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(method).Inc()
}

func (m *HTTPMetrics) ObserveSuspicious() {
	if m == nil {
		return
	}
	m.suspicious.Inc()
}
