package fleece

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/scigolib/fleece/internal/metrics"
)

var activeMetrics *metrics.Collector

// SetMetricsRegistry attaches reg so Decode and Encoder.Finish report
// decode/encode counters and histograms, and SharedKeys report their
// current size, to it. Never calling this leaves the package fully
// functional with no metrics registered anywhere.
func SetMetricsRegistry(reg prometheus.Registerer) {
	activeMetrics = metrics.New(reg)
}
