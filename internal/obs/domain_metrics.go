package obs

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// DocumentsRendered counts document renders by kind, format and outcome.
	DocumentsRendered *prometheus.CounterVec
	// DocumentRenderDuration records render latency in milliseconds.
	DocumentRenderDuration *prometheus.HistogramVec
	// SizingWarnings counts degraded line-item inputs by field.
	SizingWarnings *prometheus.CounterVec
	// SupabaseRequests counts calls to the managed backend by API and outcome.
	SupabaseRequests *prometheus.CounterVec
	// StatsCache counts dashboard cache lookups by result.
	StatsCache *prometheus.CounterVec
	// SQLQueries records direct SQL latency when DATABASE_URL is configured.
	SQLQueries *prometheus.HistogramVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		DocumentsRendered = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rendered_total",
			Help:      "Count of rendered documents by kind, format and outcome.",
		}, []string{"kind", "format", "result"})
		DocumentRenderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_render_duration_ms",
			Help:      "Document render latency in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"kind", "format"})
		SizingWarnings = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sizing_warnings_total",
			Help:      "Count of line-item inputs degraded to defaults by the size calculator.",
		}, []string{"field"})
		SupabaseRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "supabase_requests_total",
			Help:      "Count of managed backend requests by API and outcome.",
		}, []string{"api", "result"})
		StatsCache = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stats_cache_total",
			Help:      "Dashboard statistics cache lookups by result.",
		}, []string{"result"})
		SQLQueries = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sql_query_duration_ms",
			Help:      "Direct SQL statement latency in milliseconds by verb and outcome.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"operation", "result"})

		DocumentsRendered = register(reg, DocumentsRendered)
		DocumentRenderDuration = register(reg, DocumentRenderDuration)
		SizingWarnings = register(reg, SizingWarnings)
		SupabaseRequests = register(reg, SupabaseRequests)
		StatsCache = register(reg, StatsCache)
		SQLQueries = register(reg, SQLQueries)
	})
}

// ObserveRender records a document render. Collectors that were never
// registered are skipped so packages stay usable in tests and tools.
func ObserveRender(kind, format string, err error, d time.Duration) {
	if DocumentsRendered != nil {
		DocumentsRendered.WithLabelValues(kind, format, outcome(err)).Inc()
	}
	if DocumentRenderDuration != nil {
		DocumentRenderDuration.WithLabelValues(kind, format).Observe(DurationMillis(d))
	}
}

// CountSizingWarning increments the sizing warning counter for field.
func CountSizingWarning(field string) {
	if SizingWarnings != nil {
		SizingWarnings.WithLabelValues(field).Inc()
	}
}

// CountSupabaseRequest increments the managed backend request counter.
func CountSupabaseRequest(api string, err error) {
	if SupabaseRequests != nil {
		SupabaseRequests.WithLabelValues(api, outcome(err)).Inc()
	}
}

// CountStatsCache increments the dashboard cache counter.
func CountStatsCache(result string) {
	if StatsCache != nil {
		StatsCache.WithLabelValues(result).Inc()
	}
}

// ObserveSQL records one SQL statement.
func ObserveSQL(operation string, err error, d time.Duration) {
	if SQLQueries != nil {
		SQLQueries.WithLabelValues(operation, outcome(err)).Observe(DurationMillis(d))
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
