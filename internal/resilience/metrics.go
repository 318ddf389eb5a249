package resilience

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsMu   sync.RWMutex
	stateGauge  *prometheus.GaugeVec
	transitions *prometheus.CounterVec
)

// RegisterMetrics exposes breaker state and transitions on reg under
// namespace. Until it is called breakers record nothing.
func RegisterMetrics(namespace string, reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "breaker_state",
		Help:      "Breaker state per upstream: 0 closed, 1 open, 2 half-open.",
	}, []string{"target"})
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "breaker_transitions_total",
		Help:      "Breaker state transitions per upstream.",
	}, []string{"target", "from", "to"})

	metricsMu.Lock()
	defer metricsMu.Unlock()
	stateGauge = reuse(reg, gauge)
	transitions = reuse(reg, counter)
}

// StateGauge and Transitions expose the registered collectors, nil before
// RegisterMetrics.
func StateGauge() *prometheus.GaugeVec {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return stateGauge
}

func Transitions() *prometheus.CounterVec {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return transitions
}

func setStateGauge(target string, s State) {
	if g := StateGauge(); g != nil {
		g.WithLabelValues(target).Set(float64(s))
	}
}

func countTransition(target string, from, to State) {
	if c := Transitions(); c != nil {
		c.WithLabelValues(target, from.String(), to.String()).Inc()
	}
}

func reuse[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing
		}
	}
	panic(err)
}
