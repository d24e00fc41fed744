package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meridianautonomy/planner/core"
)

// PlannerCollector bundles Prometheus metrics for the planning loop and
// provides a ready-to-serve /metrics handler.
type PlannerCollector struct {
	gatherer prometheus.Gatherer

	Ticks            *prometheus.CounterVec
	StageTransitions *prometheus.CounterVec
	TickDurations    *prometheus.HistogramVec
}

// NewPlannerCollector registers planner Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil. Double registration is tolerated by reusing the existing collector.
func NewPlannerCollector(reg prometheus.Registerer) (*PlannerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_ticks_total",
		Help: "Total number of planning ticks, labeled by scenario and resulting status.",
	}, []string{"scenario", "status"})
	ticks, err := registerCounterVec(reg, ticks, "planner_ticks_total")
	if err != nil {
		return nil, err
	}

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_stage_transitions_total",
		Help: "Total number of stage-to-stage handoffs, labeled by edge.",
	}, []string{"from", "to"})
	transitions, err = registerCounterVec(reg, transitions, "planner_stage_transitions_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_tick_duration_seconds",
		Help:    "Latency of one planning tick in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}, []string{"scenario"})
	durations, err = registerHistogramVec(reg, durations, "planner_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &PlannerCollector{
		gatherer:         gatherer,
		Ticks:            ticks,
		StageTransitions: transitions,
		TickDurations:    durations,
	}, nil
}

// TickProcessed satisfies core.MetricsRecorder: one planning tick completed
// with the given scenario status.
func (c *PlannerCollector) TickProcessed(scenario string, status core.ScenarioStatus) {
	if c == nil || c.Ticks == nil {
		return
	}
	c.Ticks.WithLabelValues(scenario, status.String()).Inc()
}

// StageSwitched satisfies core.MetricsRecorder: the scenario handed off
// from one stage type to another.
func (c *PlannerCollector) StageSwitched(from, to core.StageType) {
	if c == nil || c.StageTransitions == nil {
		return
	}
	c.StageTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

// ObserveTickDuration records the wall time of one planning tick.
func (c *PlannerCollector) ObserveTickDuration(scenario string, seconds float64) {
	if c == nil || c.TickDurations == nil {
		return
	}
	c.TickDurations.WithLabelValues(scenario).Observe(seconds)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *PlannerCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
