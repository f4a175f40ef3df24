// Package metrics wires optional Prometheus instrumentation into the
// decode and encode entry points. A nil *Collector is a valid no-op, so
// the core stays usable without ever touching the default registry
// unless a caller opts in.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the counters and histograms Decode/Encoder report to
// once attached via fleece.SetMetricsRegistry.
type Collector struct {
	decodeTotal       prometheus.Counter
	decodeErrorsTotal prometheus.Counter
	encodeBytes       prometheus.Histogram
	sharedKeysSize    prometheus.Gauge
}

// New registers Fleece's metric set against reg.
func New(reg prometheus.Registerer) *Collector {
	return &Collector{
		decodeTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fleece_decode_total",
			Help: "Total number of Decode calls.",
		}),
		decodeErrorsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fleece_decode_errors_total",
			Help: "Total number of Decode calls that returned an error.",
		}),
		encodeBytes: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "fleece_encode_bytes",
			Help:    "Size in bytes of buffers produced by Encoder.Finish.",
			Buckets: []float64{32, 128, 512, 2048, 8192, 32768, 131072, 524288},
		}),
		sharedKeysSize: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "fleece_shared_keys_size",
			Help: "Number of keys assigned in the most recently observed SharedKeys table.",
		}),
	}
}

// ObserveDecode records one Decode call, counting it as an error if err
// is non-nil.
func (c *Collector) ObserveDecode(err error) {
	if c == nil {
		return
	}
	c.decodeTotal.Inc()
	if err != nil {
		c.decodeErrorsTotal.Inc()
	}
}

// ObserveEncode records the size of a buffer Encoder.Finish produced.
func (c *Collector) ObserveEncode(size int) {
	if c == nil {
		return
	}
	c.encodeBytes.Observe(float64(size))
}

// ObserveSharedKeysSize records the current key count of a SharedKeys
// table, most recently touched by EncodeAndInsert.
func (c *Collector) ObserveSharedKeysSize(n int) {
	if c == nil {
		return
	}
	c.sharedKeysSize.Set(float64(n))
}
