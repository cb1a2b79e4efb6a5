package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UpdatesProcessed     prometheus.Counter
	ErrorsTotal          prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
	ClaimsTotal          prometheus.Counter
	ClaimedRows          prometheus.Counter
	ReleasesTotal        prometheus.Counter
	StatusChanges        *prometheus.CounterVec
	ExportsTotal         *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		UpdatesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "listabot_updates_processed_total",
			Help: "Total number of Telegram updates processed",
		}),
		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "listabot_errors_total",
			Help: "Total number of panics recovered in update handlers",
		}),
		UpdateProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "listabot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),
		ClaimsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "listabot_claims_total",
			Help: "Total number of pending batches claimed",
		}),
		ClaimedRows: promauto.NewCounter(prometheus.CounterOpts{
			Name: "listabot_claimed_rows_total",
			Help: "Total number of rows claimed",
		}),
		ReleasesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "listabot_releases_total",
			Help: "Total number of reservations released",
		}),
		StatusChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "listabot_status_changes_total",
			Help: "Total number of contact status changes",
		}, []string{"estado"}),
		ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "listabot_exports_total",
			Help: "Total number of roster exports",
		}, []string{"format"}),
	}
}
