package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_mutations_total",
			Help: "Total number of dispatched mutations by outcome.",
		},
		[]string{"platform", "kind", "status"},
	)
	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_run_duration_seconds",
			Help:    "Histogram of platform pipeline run durations.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"platform"},
	)
	lastRunTimestamp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sync_last_run_timestamp_seconds",
			Help: "Unix time of the last finished pipeline run.",
		},
		[]string{"platform"},
	)
)

func init() {
	prometheus.MustRegister(mutationsTotal)
	prometheus.MustRegister(runDuration)
	prometheus.MustRegister(lastRunTimestamp)
}

// RecordMutation записывает исход одной мутации.
func RecordMutation(platform, kind, status string) {
	mutationsTotal.WithLabelValues(platform, kind, status).Inc()
}

// RecordRun записывает длительность прогона платформы.
func RecordRun(platform string, duration time.Duration) {
	runDuration.WithLabelValues(platform).Observe(duration.Seconds())
	lastRunTimestamp.WithLabelValues(platform).SetToCurrentTime()
}

// MetricsHandler возвращает HTTP-обработчик для экспорта метрик Prometheus.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
