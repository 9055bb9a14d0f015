// Package metrics holds the Prometheus registry for the club manager.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry
	once     sync.Once
)

var (
	SwimmersEnrolledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "natacion",
		Name:      "swimmers_enrolled_total",
		Help:      "Swimmers newly added to a championship roster or a test registration list",
	}, []string{"scope"})
	SeriesGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "natacion",
		Name:      "series_generated_total",
		Help:      "Total number of series (heats) created",
	})
	ResultsRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "natacion",
		Name:      "results_recorded_total",
		Help:      "Total number of result times recorded by officials",
	})
	PaymentsRegisteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "natacion",
		Name:      "payments_registered_total",
		Help:      "Total number of membership payments registered",
	})
	RejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "natacion",
		Name:      "rejections_total",
		Help:      "Operations rejected by validation",
	}, []string{"operation"})
	RemindersSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "natacion",
		Name:      "reminders_sent_total",
		Help:      "Payment expiry reminders by delivery outcome",
	}, []string{"outcome"})
	ClassificationCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "natacion",
		Name:      "classification_cache_total",
		Help:      "Classification cache lookups by result",
	}, []string{"result"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(SwimmersEnrolledTotal)
		registry.MustRegister(SeriesGeneratedTotal)
		registry.MustRegister(ResultsRecordedTotal)
		registry.MustRegister(PaymentsRegisteredTotal)
		registry.MustRegister(RejectionsTotal)
		registry.MustRegister(RemindersSentTotal)
		registry.MustRegister(ClassificationCacheTotal)
	})
	return registry
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}

func RecordEnrollment(scope string, n int) {
	if n > 0 {
		SwimmersEnrolledTotal.WithLabelValues(scope).Add(float64(n))
	}
}

func RecordSeriesGenerated(n int) {
	SeriesGeneratedTotal.Add(float64(n))
}

func RecordResult() {
	ResultsRecordedTotal.Inc()
}

func RecordPayment() {
	PaymentsRegisteredTotal.Inc()
}

func RecordRejection(operation string) {
	RejectionsTotal.WithLabelValues(operation).Inc()
}

func RecordReminder(outcome string) {
	RemindersSentTotal.WithLabelValues(outcome).Inc()
}

func RecordCacheLookup(hit bool) {
	if hit {
		ClassificationCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	ClassificationCacheTotal.WithLabelValues("miss").Inc()
}
