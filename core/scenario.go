package core

import (
	"context"
	"fmt"

	"github.com/meridianautonomy/planner/internal/logging"
)

// ScenarioStatus is the coarse per-tick verdict the outer planning loop
// consumes.
type ScenarioStatus int

const (
	// StatusUninitialized is the zero value before Init has run.
	StatusUninitialized ScenarioStatus = iota
	// StatusProcessing means the scenario made progress and wants more ticks.
	StatusProcessing
	// StatusDone means the scenario completed; further ticks are no-ops.
	StatusDone
	// StatusUnknown means the scenario can no longer be trusted; the outer
	// loop should discard it and select a new one.
	StatusUnknown
)

func (s ScenarioStatus) String() string {
	switch s {
	case StatusProcessing:
		return "PROCESSING"
	case StatusDone:
		return "DONE"
	case StatusUnknown:
		return "UNKNOWN"
	default:
		return "UNINITIALIZED"
	}
}

// MetricsRecorder receives per-tick and per-transition updates so an
// observability layer can export them without the scenario depending on a
// metrics library.
type MetricsRecorder interface {
	TickProcessed(scenario string, status ScenarioStatus)
	StageSwitched(from, to StageType)
}

// ScenarioOption customises Scenario construction.
type ScenarioOption func(*Scenario)

// WithLogger attaches a structured logger for transition and error events.
func WithLogger(log logging.Logger) ScenarioOption {
	return func(s *Scenario) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetricsRecorder attaches a recorder for tick and transition counts.
func WithMetricsRecorder(m MetricsRecorder) ScenarioOption {
	return func(s *Scenario) {
		s.metrics = m
	}
}

// Scenario sequences the stages of one planning scenario. It owns the
// single active stage, the immutable stage-config map, and the aggregate
// status reported to the outer loop.
//
// A Scenario is single-threaded by contract: Init and Process run on the
// caller's goroutine, once per planning tick, with no internal locking.
// The instance lives for one scenario selection and is discarded when the
// outer loop picks a different scenario.
type Scenario struct {
	cfg      *ScenarioConfig
	factory  StageFactory
	injector *DependencyInjector
	log      logging.Logger
	metrics  MetricsRecorder

	name         string
	stageConfigs map[StageType]*StageConfig
	current      Stage
	status       ScenarioStatus
}

// NewScenario wires a scenario against its config, stage factory, and the
// shared dependency injector. Init must be called before the first Process.
func NewScenario(cfg *ScenarioConfig, factory StageFactory, injector *DependencyInjector, opts ...ScenarioOption) *Scenario {
	s := &Scenario{
		cfg:      cfg,
		factory:  factory,
		injector: injector,
		log:      logging.Noop(),
	}
	if cfg != nil {
		s.name = cfg.ScenarioType
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init builds the immutable stage-config map, publishes the scenario type
// into the shared planning status, and creates the first configured stage.
//
// Configuration integrity violations here are deploy defects, not runtime
// conditions: an empty stage sequence or a sequence entry without a config
// block panics. Running a vehicle on a broken scenario table is worse than
// not running it at all.
func (s *Scenario) Init(ctx context.Context) {
	if err := Validate(s.cfg); err != nil {
		panic(fmt.Sprintf("scenario %q: %v", s.name, err))
	}

	status := s.injector.PlanningStatus()
	status.Clear()
	status.ScenarioType = s.cfg.ScenarioType

	s.stageConfigs = s.cfg.stageConfigMap()

	first := s.cfg.StageSequence[0]
	s.log.Debug(ctx, "creating initial stage",
		logging.String("scenario", s.name),
		logging.String("stage", first.String()),
	)
	s.current = s.createStage(ctx, s.stageConfigs[first])
}

// Process runs one planning tick: it delegates one unit of work to the
// active stage and interprets the outcome into hold, transition, or
// terminate. It never panics; every operational failure maps to
// StatusUnknown and a log line, leaving recovery to the outer loop.
func (s *Scenario) Process(ctx context.Context, seed *TrajectoryPoint, frame *Frame) ScenarioStatus {
	s.status = s.process(ctx, seed, frame)
	if s.metrics != nil {
		s.metrics.TickProcessed(s.name, s.status)
	}
	return s.status
}

func (s *Scenario) process(ctx context.Context, seed *TrajectoryPoint, frame *Frame) ScenarioStatus {
	if s.current == nil {
		s.log.Warn(ctx, "no active stage", logging.String("scenario", s.name))
		return StatusUnknown
	}
	if s.current.Type() == NoStage {
		return StatusDone
	}

	switch ret := s.current.Process(ctx, seed, frame); ret {
	case StageError:
		s.log.Error(ctx, "stage returned error",
			logging.String("scenario", s.name),
			logging.String("stage", s.current.Name()),
		)
		return StatusUnknown

	case StageRunning:
		return StatusProcessing

	case StageFinished:
		return s.advance(ctx)

	default:
		s.log.Warn(ctx, "unexpected stage return value",
			logging.String("scenario", s.name),
			logging.String("stage", s.current.Name()),
			logging.Int("value", int(ret)),
		)
		return StatusUnknown
	}
}

// advance handles a FINISHED stage: hold on a self-declared successor,
// terminate on the sentinel, or hand off to a freshly built stage.
func (s *Scenario) advance(ctx context.Context) ScenarioStatus {
	next := s.current.NextStage()
	if next != s.current.Type() {
		s.log.Info(ctx, "switching stage",
			logging.String("scenario", s.name),
			logging.String("from", s.current.Name()),
			logging.String("to", next.String()),
		)
		if next == NoStage {
			return StatusDone
		}
		cfg, ok := s.stageConfigs[next]
		if !ok {
			s.log.Error(ctx, "no config for next stage",
				logging.String("scenario", s.name),
				logging.String("stage", next.String()),
			)
			return StatusUnknown
		}
		prev := s.current.Type()
		s.current = s.createStage(ctx, cfg)
		if s.current == nil {
			// Transition attempted, outcome unknown: the old stage is gone
			// and no new one exists, so every later tick stays UNKNOWN.
			return StatusUnknown
		}
		if s.metrics != nil {
			s.metrics.StageSwitched(prev, next)
		}
	}

	if s.current.Type() != NoStage {
		return StatusProcessing
	}
	return StatusDone
}

// createStage builds a stage through the factory and publishes its type
// into the shared planning status. Construction failures log a warning and
// return nil; the caller maps that to StatusUnknown.
func (s *Scenario) createStage(ctx context.Context, cfg *StageConfig) Stage {
	stage, err := s.factory.CreateStage(cfg, s.injector)
	if err != nil || stage == nil {
		s.log.Warn(ctx, "stage construction failed",
			logging.String("scenario", s.name),
			logging.String("stage", cfg.Type.String()),
			logging.Any("error", err),
		)
		return nil
	}
	s.injector.PlanningStatus().StageType = stage.Type()
	return stage
}

// Name is the human-readable scenario name, derived from its type.
func (s *Scenario) Name() string { return s.name }

// Status is the status reported by the most recent Process call.
func (s *Scenario) Status() ScenarioStatus { return s.status }

// CurrentStage exposes the active stage, mainly for the outer loop's
// diagnostics and for tests. It may be nil before Init or after a
// construction failure at Init time.
func (s *Scenario) CurrentStage() Stage { return s.current }
