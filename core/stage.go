package core

import "context"

// StageType identifies one stage variant within a scenario. The value is
// whatever the scenario configuration names it; the state machine never
// interprets it beyond equality and map lookup.
type StageType string

// NoStage is the sentinel successor. A stage that declares NoStage after
// finishing ends the scenario.
const NoStage StageType = ""

// String renders NoStage readably for logs and metric labels.
func (t StageType) String() string {
	if t == NoStage {
		return "NO_STAGE"
	}
	return string(t)
}

// StageStatus is what a stage reports after one tick of work.
type StageStatus int

const (
	// StageStatusUnknown is the zero value; stages must never return it.
	StageStatusUnknown StageStatus = iota
	// StageRunning means the stage needs more ticks to finish its work.
	StageRunning
	// StageFinished means the stage is done and NextStage is now valid.
	StageFinished
	// StageError means the stage hit an unrecoverable problem.
	StageError
)

func (s StageStatus) String() string {
	switch s {
	case StageRunning:
		return "RUNNING"
	case StageFinished:
		return "FINISHED"
	case StageError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Stage is one bounded unit of planning work within a scenario.
//
// Process performs at most one tick's worth of work; a stage that has to
// wait on something slow must return StageRunning and pick the work up
// again on the next tick, never block inside the call. NextStage is only
// meaningful after Process has returned StageFinished. A stage must not
// touch state owned by another stage; succession is declared purely as a
// StageType and interpreted by the scenario.
type Stage interface {
	Type() StageType
	Name() string
	Process(ctx context.Context, seed *TrajectoryPoint, frame *Frame) StageStatus
	NextStage() StageType
}

// StageFactory constructs the concrete stage variant for a configuration
// block. Implementations must be deterministic: the same stage type always
// yields the same concrete variant. Returning a nil stage or an error
// signals a construction failure, which the scenario reports as
// StatusUnknown rather than crashing.
type StageFactory interface {
	CreateStage(cfg *StageConfig, injector *DependencyInjector) (Stage, error)
}
