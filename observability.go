package bucketx

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrumenter records per-operation metrics for a client. All methods are
// nil-safe so an uninstrumented client carries no overhead.
type Instrumenter struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	bytes      *prometheus.HistogramVec
}

// NewInstrumenter creates and registers the bucketx collectors on reg.
// Pass prometheus.DefaultRegisterer for the process-global registry.
func NewInstrumenter(reg prometheus.Registerer) (*Instrumenter, error) {
	inst := &Instrumenter{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bucketx_operations_total",
			Help: "Total number of storage operations",
		}, []string{"operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bucketx_operation_duration_seconds",
			Help:    "Storage operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		bytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bucketx_operation_bytes",
			Help:    "Storage operation payload size in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 10, 7), // 1KB to 1GB
		}, []string{"operation"}),
	}

	for _, collector := range []prometheus.Collector{inst.operations, inst.duration, inst.bytes} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// observe records one completed operation
func (i *Instrumenter) observe(operation string, elapsed time.Duration) {
	if i == nil {
		return
	}
	i.operations.WithLabelValues(operation).Inc()
	i.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// observeSize records the payload size of a transfer
func (i *Instrumenter) observeSize(operation string, size int) {
	if i == nil {
		return
	}
	i.bytes.WithLabelValues(operation).Observe(float64(size))
}
