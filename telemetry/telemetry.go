// Package telemetry records the remap-time and collision counters the
// original reconstruction path reports via a `datapoint_info!` macro call.
// Here that sink is an explicit external collaborator (Recorder) so the
// metrics backend is pluggable; PrometheusRecorder is the default
// implementation, grounded on erigon-lib's direct dependency on
// github.com/prometheus/client_golang.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the telemetry sink external collaborator listed in
// SPEC_FULL.md §2 and §7. Its one capability is RecordRemap, which receives
// the remap duration and the collision count.
type Recorder interface {
	RecordRemap(d time.Duration, collisions uint64)
}

// NopRecorder discards everything; used by callers that don't want metrics.
type NopRecorder struct{}

func (NopRecorder) RecordRemap(time.Duration, uint64) {}

// PrometheusRecorder publishes remap duration and collision counts as
// Prometheus metrics.
type PrometheusRecorder struct {
	remapSeconds prometheus.Histogram
	collisions   prometheus.Counter
}

// NewPrometheusRecorder registers its metrics against reg. Pass
// prometheus.NewRegistry() for an isolated registry (tests, multiple
// instances) or prometheus.DefaultRegisterer for the process default.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		remapSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "accountsdb",
			Subsystem: "reconstruct",
			Name:      "remap_seconds",
			Help:      "Time spent remapping and renaming append-vec storage files during snapshot reconstruction.",
			Buckets:   prometheus.DefBuckets,
		}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accountsdb",
			Subsystem: "reconstruct",
			Name:      "remap_collisions_total",
			Help:      "Number of append-vec id allocation attempts that collided with an existing file.",
		}),
	}
	reg.MustRegister(r.remapSeconds, r.collisions)
	return r
}

func (r *PrometheusRecorder) RecordRemap(d time.Duration, collisions uint64) {
	r.remapSeconds.Observe(d.Seconds())
	r.collisions.Add(float64(collisions))
}
