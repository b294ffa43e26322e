// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Results used as label values.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultDisabled = "disabled"
)

var (
	// annotateTotal counts processing requests by content format and result.
	annotateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zhuyin_annotate_requests_total",
		Help: "Total annotate requests by format and result",
	}, []string{"format", "result"})

	// annotateDuration tracks parse + walk + render latency.
	annotateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zhuyin_annotate_duration_seconds",
		Help:    "Annotate duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
	}, []string{"format"})

	annotationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zhuyin_annotations_total",
		Help: "Ruby annotations emitted",
	})

	suppressedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zhuyin_annotations_suppressed_total",
		Help: "Ideographs left plain because they are learned",
	})

	learnedTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zhuyin_learned_toggles_total",
		Help: "Learned-set toggles by resulting membership and persist result",
	}, []string{"learned", "result"})

	readingIndexEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "zhuyin_reading_index_entries",
		Help: "Characters bound in the reading index",
	})

	readingIndexLoadSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "zhuyin_reading_index_load_seconds",
		Help: "Time the last reading index load took",
	})

	eventSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "zhuyin_event_subscribers",
		Help: "Connected re-render event subscribers",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zhuyin_http_requests_total",
		Help: "HTTP requests by method and status",
	}, []string{"method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zhuyin_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// ObserveAnnotate records one processing call.
func ObserveAnnotate(format, result string, annotations, suppressed int, d time.Duration) {
	annotateTotal.WithLabelValues(format, result).Inc()
	annotateDuration.WithLabelValues(format).Observe(d.Seconds())
	annotationsTotal.Add(float64(annotations))
	suppressedTotal.Add(float64(suppressed))
}

// ObserveLearnedToggle records a learned-set toggle.
func ObserveLearnedToggle(learned bool, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	learnedTogglesTotal.WithLabelValues(strconv.FormatBool(learned), result).Inc()
}

// SetReadingIndex publishes the size and load time of the reading index.
func SetReadingIndex(entries int, loadTime time.Duration) {
	readingIndexEntries.Set(float64(entries))
	readingIndexLoadSeconds.Set(loadTime.Seconds())
}

// SubscriberConnected and SubscriberDisconnected track event subscribers.
func SubscriberConnected()    { eventSubscribers.Inc() }
func SubscriberDisconnected() { eventSubscribers.Dec() }

// ObserveHTTP records one served HTTP request.
func ObserveHTTP(method string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
