// Package metrics exposes comparison counters as Prometheus collectors on
// a private registry. Batch runs can dump them for the node_exporter
// textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ppiankov/redline/internal/model"
)

// Recorder holds the redline collectors. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	// comparisons counts analysed comparisons.
	// Labels: verdict
	comparisons *prometheus.CounterVec

	// identical counts comparisons short-circuited on equal content hashes
	identical prometheus.Counter

	// events counts classified events.
	// Labels: side (before, after), category
	events *prometheus.CounterVec

	// extractionFailures counts documents that could not be read.
	// Labels: side
	extractionFailures *prometheus.CounterVec

	duration prometheus.Histogram
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		comparisons: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redline",
			Name:      "comparisons_total",
			Help:      "Total analysed BEFORE/AFTER comparisons by verdict",
		}, []string{"verdict"}),
		identical: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "redline",
			Name:      "identical_total",
			Help:      "Total comparisons skipped because both documents were byte-identical",
		}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redline",
			Name:      "events_total",
			Help:      "Total classified markup events by document side and category",
		}, []string{"side", "category"}),
		extractionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redline",
			Name:      "extraction_failures_total",
			Help:      "Total documents that could not be read, by side",
		}, []string{"side"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "redline",
			Name:      "compare_duration_seconds",
			Help:      "Wall time of one comparison, extraction included",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// Registry returns the private registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveComparison records one analysed comparison
func (r *Recorder) ObserveComparison(verdict model.Verdict, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.comparisons.WithLabelValues(string(verdict)).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// ObserveIdentical records one identity short-circuit
func (r *Recorder) ObserveIdentical(elapsed time.Duration) {
	if r == nil {
		return
	}
	r.identical.Inc()
	r.duration.Observe(elapsed.Seconds())
}

// ObserveScan adds the event counts of one classified document
func (r *Recorder) ObserveScan(side string, scan *model.ScanResult) {
	if r == nil || scan == nil {
		return
	}
	for category, n := range scan.Counts().ByCategory() {
		r.events.WithLabelValues(side, string(category)).Add(float64(n))
	}
}

// ObserveExtractionFailure records one unreadable document
func (r *Recorder) ObserveExtractionFailure(side string) {
	if r == nil {
		return
	}
	r.extractionFailures.WithLabelValues(side).Inc()
}

// WriteTextfile writes all collectors in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
