package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	wbRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wb_supplies_requests_total",
			Help: "Total number of requests to the WB supplies API.",
		},
		[]string{"endpoint", "status"},
	)
	wbRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wb_supplies_request_duration_seconds",
			Help:    "Histogram of WB supplies API request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"endpoint", "status"},
	)
	wbRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wb_supplies_retries_total",
			Help: "Total number of retries after a 429 from the WB supplies API.",
		},
	)
	wbRetryExhaustedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wb_supplies_retry_exhausted_total",
			Help: "Total number of times the 429 retry budget was exhausted.",
		},
	)
	rowsInserted = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wb_supplies_rows_inserted",
			Help: "Rows inserted into the destination table by the last run.",
		},
	)
	uniqueSupplies = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wb_supplies_unique_total",
			Help: "Unique supplies after the cross-axis merge of the last run.",
		},
	)
)

func init() {
	prometheus.MustRegister(wbRequestsTotal)
	prometheus.MustRegister(wbRequestDuration)
	prometheus.MustRegister(wbRetriesTotal)
	prometheus.MustRegister(wbRetryExhaustedTotal)
	prometheus.MustRegister(rowsInserted)
	prometheus.MustRegister(uniqueSupplies)
}

// RecordRequest записывает метрики для одного запроса к WB API.
func RecordRequest(endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	wbRequestsTotal.WithLabelValues(endpoint, status).Inc()
	wbRequestDuration.WithLabelValues(endpoint, status).Observe(duration.Seconds())
}

func RecordRetry() {
	wbRetriesTotal.Inc()
}

func RecordRetryExhausted() {
	wbRetryExhaustedTotal.Inc()
}

func RecordRunTotals(unique, inserted int) {
	uniqueSupplies.Set(float64(unique))
	rowsInserted.Set(float64(inserted))
}

// classifyStatus классифицирует HTTP-статус код в строку.
func classifyStatus(statusCode int) string {
	if statusCode == http.StatusTooManyRequests {
		return "429"
	} else if statusCode >= 200 && statusCode < 300 {
		return "2xx"
	} else if statusCode >= 300 && statusCode < 400 {
		return "3xx"
	} else if statusCode >= 400 && statusCode < 500 {
		return "4xx"
	} else if statusCode >= 500 && statusCode < 600 {
		return "5xx"
	}
	return "unknown"
}

// MetricsHandler возвращает HTTP-обработчик для экспорта метрик Prometheus.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
