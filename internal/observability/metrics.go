package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "anurvcard"

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
	tagOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tag",
			Name:      "operations_total",
			Help:      "Card reads and writes by outcome.",
		},
		[]string{"op", "result"},
	)
	tagBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tag",
			Name:      "message_bytes",
			Help:      "Encoded NDEF message size written to cards.",
			Buckets:   []float64{64, 128, 256, 512, 868, 1024, 2048, 4096, 8192},
		},
		[]string{"op"},
	)
	decodedEntities = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "entities_total",
			Help:      "Decoded card entities by kind.",
		},
		[]string{"kind"},
	)
	syncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Sync runs by direction and outcome.",
		},
		[]string{"direction", "result"},
	)
	syncPolicies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "policies_total",
			Help:      "Policies moved by a sync.",
		},
		[]string{"direction"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, tagOps, tagBytes, decodedEntities, syncRuns, syncPolicies)
	})
}

func RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordTagOp counts one read or write. size is ignored when it is not
// positive.
func RecordTagOp(op string, err error, size int) {
	RegisterMetrics()
	tagOps.WithLabelValues(op, result(err)).Inc()
	if size > 0 {
		tagBytes.WithLabelValues(op).Observe(float64(size))
	}
}

func RecordDecoded(kinds []string) {
	RegisterMetrics()
	for _, k := range kinds {
		decodedEntities.WithLabelValues(k).Inc()
	}
}

func RecordSync(direction string, policies int, err error) {
	RegisterMetrics()
	syncRuns.WithLabelValues(direction, result(err)).Inc()
	if err == nil && policies > 0 {
		syncPolicies.WithLabelValues(direction).Add(float64(policies))
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
