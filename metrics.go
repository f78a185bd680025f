package filemap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics bundles the store's instrumentation. A nil *metrics disables
// all recording, so call sites never branch.
type metrics struct {
	ops              *prometheus.CounterVec
	skippedFiles     prometheus.Counter
	selfHeals        prometheus.Counter
	swallowedDeletes prometheus.Counter
	trackedKeys      prometheus.GaugeFunc
}

// newMetrics registers the store's collectors with reg, labeled by
// storage directory. Returns nil when reg is nil.
func newMetrics(reg prometheus.Registerer, dir string, keys func() int) *metrics {
	if reg == nil {
		return nil
	}

	labels := prometheus.Labels{"dir": dir}
	factory := promauto.With(reg)

	return &metrics{
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "filemap",
			Name:        "operations_total",
			Help:        "Store operations by kind.",
			ConstLabels: labels,
		}, []string{"op"}),
		skippedFiles: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   "filemap",
			Name:        "skipped_files_total",
			Help:        "Entry files skipped because they could not be read or decoded.",
			ConstLabels: labels,
		}),
		selfHeals: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   "filemap",
			Name:        "self_heals_total",
			Help:        "Index entries dropped because their file vanished out-of-band.",
			ConstLabels: labels,
		}),
		swallowedDeletes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   "filemap",
			Name:        "swallowed_deletes_total",
			Help:        "Best-effort file deletions that failed and were ignored.",
			ConstLabels: labels,
		}),
		trackedKeys: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "filemap",
			Name:        "tracked_keys",
			Help:        "Keys currently tracked by the in-memory index.",
			ConstLabels: labels,
		}, func() float64 { return float64(keys()) }),
	}
}

func (m *metrics) op(name string) {
	if m == nil {
		return
	}

	m.ops.WithLabelValues(name).Inc()
}

func (m *metrics) skipped(n int) {
	if m == nil || n == 0 {
		return
	}

	m.skippedFiles.Add(float64(n))
}

func (m *metrics) selfHeal() {
	if m == nil {
		return
	}

	m.selfHeals.Inc()
}

func (m *metrics) swallowedDelete() {
	if m == nil {
		return
	}

	m.swallowedDeletes.Inc()
}
