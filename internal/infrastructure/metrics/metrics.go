package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Cash-up metrics
	CashUpsCreated   prometheus.Counter
	CashUpsFinalized prometheus.Counter
	CashUpSaves      prometheus.Counter
	VarianceObserved prometheus.Histogram

	// Report metrics
	ReportsBuilt     *prometheus.CounterVec
	ReportDuration   prometheus.Histogram
	ReportCacheHits  prometheus.Counter
	ReportSuperseded prometheus.Counter

	// Upstream metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamErrors   *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		CashUpsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashup_records_created_total",
			Help: "Total number of cash-up records created",
		}),
		CashUpsFinalized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashup_records_finalized_total",
			Help: "Total number of cash-up records finalized",
		}),
		CashUpSaves: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashup_record_saves_total",
			Help: "Total number of cash-up snapshot saves",
		}),
		VarianceObserved: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashup_total_variance",
			Help:    "Absolute total variance at save time",
			Buckets: []float64{0.01, 0.1, 1, 5, 10, 50, 100, 500},
		}),

		ReportsBuilt: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashup_reports_built_total",
				Help: "Total consolidated reports built by granularity",
			},
			[]string{"granularity"},
		),
		ReportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashup_report_duration_seconds",
			Help:    "Duration of consolidated report builds",
			Buckets: prometheus.DefBuckets,
		}),
		ReportCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashup_report_cache_hits_total",
			Help: "Total consolidated report cache hits",
		}),
		ReportSuperseded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashup_report_superseded_total",
			Help: "Total report builds discarded because a newer request took over the key",
		}),

		UpstreamRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashup_upstream_requests_total",
				Help: "Total upstream API requests",
			},
			[]string{"service"},
		),
		UpstreamErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashup_upstream_errors_total",
				Help: "Total upstream API failures",
			},
			[]string{"service"},
		),
		UpstreamDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashup_upstream_duration_seconds",
				Help:    "Upstream API request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
	}
}
