package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyfare_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skyfare_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AdmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyfare_admissions_total",
			Help: "Booking requests by terminal outcome and the last state reached",
		},
		[]string{"outcome", "state"},
	)

	SurgedQuotesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skyfare_surged_quotes_total",
			Help: "Number of price quotes that carried the surge surcharge",
		},
	)

	AttemptsPurgedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skyfare_attempts_purged_total",
			Help: "Booking attempts removed by the purge loop",
		},
	)

	DebitedMinorUnitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skyfare_debited_minor_units_total",
			Help: "Sum of wallet debits for committed bookings, in paise",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordAdmission(outcome, state string) {
	AdmissionsTotal.WithLabelValues(outcome, state).Inc()
}

func RecordQuote(surged bool) {
	if surged {
		SurgedQuotesTotal.Inc()
	}
}

func RecordDebit(amount int64) {
	if amount > 0 {
		DebitedMinorUnitsTotal.Add(float64(amount))
	}
}

func RecordPurge(n int64) {
	if n > 0 {
		AttemptsPurgedTotal.Add(float64(n))
	}
}
