package observability

import (
	"github.com/aretw0/blackboard/pkg/blackboard"
	"github.com/aretw0/blackboard/pkg/library"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for clone and instantiation activity.
type Metrics struct {
	Clones            prometheus.Counter
	OverridesApplied  prometheus.Counter
	OverridesIgnored  prometheus.Counter
	CloneSlots        prometheus.Histogram
	Instantiations    *prometheus.CounterVec
	InstantiateErrors *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Clones: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blackboard_clones_total",
			Help: "Total number of registry clones",
		}),
		OverridesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blackboard_overrides_applied_total",
			Help: "Parameters replaced by an override during a clone",
		}),
		OverridesIgnored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blackboard_overrides_unmatched_total",
			Help: "Overrides that matched no parameter",
		}),
		CloneSlots: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "blackboard_clone_slots",
			Help:    "Number of slots per cloned registry",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		Instantiations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blackboard_instantiations_total",
				Help: "Template instances created",
			},
			[]string{"template"},
		),
		InstantiateErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blackboard_instantiation_errors_total",
				Help: "Failed template instantiations",
			},
			[]string{"template"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.Clones,
			m.OverridesApplied,
			m.OverridesIgnored,
			m.CloneSlots,
			m.Instantiations,
			m.InstantiateErrors,
		)
	}
	return m
}

// Hooks returns registry hooks that record every clone.
func (m *Metrics) Hooks() blackboard.Hooks {
	return blackboard.Hooks{
		OnClone: m.observeClone,
	}
}

// LibraryHooks returns manager hooks that count instantiations per template.
func (m *Metrics) LibraryHooks() library.Hooks {
	return library.Hooks{
		OnInstantiate: func(e library.InstantiateEvent) {
			if e.Err != nil {
				m.InstantiateErrors.WithLabelValues(e.Template).Inc()
				return
			}
			m.Instantiations.WithLabelValues(e.Template).Inc()
		},
	}
}

func (m *Metrics) observeClone(e blackboard.CloneEvent) {
	m.Clones.Inc()
	m.OverridesApplied.Add(float64(e.Overridden))
	m.OverridesIgnored.Add(float64(len(e.Unmatched)))
	m.CloneSlots.Observe(float64(e.Slots))
}
