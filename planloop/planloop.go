// Package planloop drives a scenario state machine one planning tick at a
// time: it builds frames, delegates to Scenario.Process, and stops as soon
// as the scenario reports a terminal status. It is the outer scheduling
// loop the planning core expects: single goroutine, one Process call per
// tick, no re-entry.
package planloop

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/meridianautonomy/planner/core"
	"github.com/meridianautonomy/planner/internal/logging"
)

// Mode describes how the loop paces planning ticks.
type Mode int

const (
	// RealTime paces ticks on wall-clock time.
	RealTime Mode = iota
	// Accelerated runs ticks back to back as fast as the scenario allows.
	Accelerated
)

// ErrTickBudget is returned when the scenario is still processing after the
// configured maximum number of ticks.
var ErrTickBudget = errors.New("planloop: tick budget exhausted")

// Processor is the scenario surface the loop drives.
type Processor interface {
	Process(ctx context.Context, seed *core.TrajectoryPoint, frame *core.Frame) core.ScenarioStatus
	Name() string
}

// TickRecorder receives per-tick latency observations.
type TickRecorder interface {
	ObserveTickDuration(scenario string, seconds float64)
}

// Option customises Loop construction.
type Option func(*Loop)

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) Option {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}

// WithTickRecorder attaches a latency recorder.
func WithTickRecorder(r TickRecorder) Option {
	return func(l *Loop) { l.recorder = r }
}

// WithMaxTicks bounds the run; 0 means unbounded.
func WithMaxTicks(n int) Option {
	return func(l *Loop) { l.maxTicks = n }
}

// WithClock overrides the frame timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

// Loop runs one scenario to completion at a fixed tick cadence.
type Loop struct {
	tick     time.Duration
	mode     Mode
	maxTicks int
	log      logging.Logger
	recorder TickRecorder
	now      func() time.Time
}

// New constructs a loop. In RealTime mode tick is the planning cadence; in
// Accelerated mode it only stamps frame timestamps.
func New(tick time.Duration, mode Mode, opts ...Option) *Loop {
	l := &Loop{
		tick: tick,
		mode: mode,
		log:  logging.Noop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result summarises a completed run.
type Result struct {
	Ticks int
	Final core.ScenarioStatus
}

// Run ticks the scenario until it leaves PROCESSING, the context is
// cancelled, or the tick budget runs out. The returned Result is valid in
// every case, including on error.
func (l *Loop) Run(ctx context.Context, sc Processor, seed *core.TrajectoryPoint) (Result, error) {
	tracer := otel.Tracer("planloop")

	var ticker *time.Ticker
	if l.mode == RealTime {
		ticker = time.NewTicker(l.tick)
		defer ticker.Stop()
	}

	var (
		seq    uint32
		status core.ScenarioStatus
	)
	for {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return Result{Ticks: int(seq), Final: status}, ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return Result{Ticks: int(seq), Final: status}, err
		}

		seq++
		frame := &core.Frame{
			SequenceNum: seq,
			Timestamp:   l.now(),
		}

		status = l.runTick(ctx, tracer, sc, seed, frame)
		if status != core.StatusProcessing {
			l.log.Info(ctx, "scenario left processing",
				logging.String("scenario", sc.Name()),
				logging.String("status", status.String()),
				logging.Int("ticks", int(seq)),
			)
			return Result{Ticks: int(seq), Final: status}, nil
		}

		if l.maxTicks > 0 && int(seq) >= l.maxTicks {
			l.log.Warn(ctx, "tick budget exhausted",
				logging.String("scenario", sc.Name()),
				logging.Int("ticks", int(seq)),
			)
			return Result{Ticks: int(seq), Final: status}, ErrTickBudget
		}
	}
}

// runTick wraps one Process call in a span and a latency observation.
func (l *Loop) runTick(ctx context.Context, tracer trace.Tracer, sc Processor, seed *core.TrajectoryPoint, frame *core.Frame) core.ScenarioStatus {
	tickCtx, span := tracer.Start(ctx, "planner.tick",
		trace.WithAttributes(
			attribute.String("scenario", sc.Name()),
			attribute.Int64("frame.seq", int64(frame.SequenceNum)),
		),
	)
	defer span.End()

	start := time.Now()
	status := sc.Process(tickCtx, seed, frame)
	if l.recorder != nil {
		l.recorder.ObserveTickDuration(sc.Name(), time.Since(start).Seconds())
	}

	span.SetAttributes(attribute.String("scenario.status", status.String()))
	return status
}
