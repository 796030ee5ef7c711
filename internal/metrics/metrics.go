// Package metrics provides Prometheus metrics for kernel operations,
// device inventory, and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	kernelOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediactl",
		Subsystem: "kernel",
		Name:      "ops_total",
		Help:      "Kernel control-plane operations by outcome",
	}, []string{"operation", "outcome"})

	devicesAttached = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "mediactl",
		Subsystem: "devices",
		Name:      "attached",
		Help:      "Device nodes currently present, by node kind",
	}, []string{"node"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mediactl",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and status",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})
)

// ObserveKernelOp records one control-plane operation against a device
// node.
func ObserveKernelOp(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	kernelOps.WithLabelValues(operation, outcome).Inc()
}

// SetDevicesAttached records the number of device nodes present for a
// node kind ("video" or "media").
func SetDevicesAttached(node string, count int) {
	devicesAttached.WithLabelValues(node).Set(float64(count))
}

// ObserveHTTPRequest records the latency of one completed request.
func ObserveHTTPRequest(method string, status int, duration time.Duration) {
	httpDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
