package stages

import (
	"context"

	"github.com/meridianautonomy/planner/core"
	"google.golang.org/protobuf/types/known/structpb"
)

// baseStage carries the identity every catalog stage shares.
type baseStage struct {
	stageType core.StageType
	name      string
	next      core.StageType
}

func (b *baseStage) Type() core.StageType      { return b.stageType }
func (b *baseStage) Name() string              { return b.name }
func (b *baseStage) NextStage() core.StageType { return b.next }

// holdStage runs for a configured number of ticks, then finishes and
// declares its successor. It is the planning body behind the built-in
// catalog: real deployments replace these builders with stages that do
// trajectory work, but the lifecycle contract is identical.
//
// Params:
//
//	hold_ticks  number  ticks to report RUNNING before finishing
//	next_stage  string  successor override; "" means the scenario ends here
type holdStage struct {
	baseStage
	holdTicks int
	successor core.StageType
	processed int
}

func (s *holdStage) Process(ctx context.Context, seed *core.TrajectoryPoint, frame *core.Frame) core.StageStatus {
	if frame == nil {
		return core.StageError
	}
	s.processed++
	if s.processed <= s.holdTicks {
		return core.StageRunning
	}
	s.next = s.successor
	return core.StageFinished
}

func newHoldStage(stageType core.StageType, name string, defaultNext core.StageType, defaultHold int, cfg *core.StageConfig) *holdStage {
	return &holdStage{
		baseStage: baseStage{
			stageType: stageType,
			name:      name,
			// Until the stage finishes, it declares itself as successor.
			next: stageType,
		},
		holdTicks: paramInt(cfg.Params, "hold_ticks", defaultHold),
		successor: core.StageType(paramString(cfg.Params, "next_stage", string(defaultNext))),
	}
}

func newApproachStage(cfg *core.StageConfig, _ *core.DependencyInjector) (core.Stage, error) {
	return newHoldStage(TypeApproach, "Approach", TypeNegotiate, 3, cfg), nil
}

func newNegotiateStage(cfg *core.StageConfig, _ *core.DependencyInjector) (core.Stage, error) {
	return newHoldStage(TypeNegotiate, "Negotiate", TypeComplete, 2, cfg), nil
}

func newCompleteStage(cfg *core.StageConfig, _ *core.DependencyInjector) (core.Stage, error) {
	return newHoldStage(TypeComplete, "Complete", core.NoStage, 0, cfg), nil
}

// paramInt reads a numeric param, returning def when absent or mistyped.
func paramInt(params *structpb.Struct, key string, def int) int {
	if params == nil {
		return def
	}
	v, ok := params.Fields[key]
	if !ok {
		return def
	}
	if n, ok := v.Kind.(*structpb.Value_NumberValue); ok {
		return int(n.NumberValue)
	}
	return def
}

// paramString reads a string param, returning def when absent or mistyped.
func paramString(params *structpb.Struct, key string, def string) string {
	if params == nil {
		return def
	}
	v, ok := params.Fields[key]
	if !ok {
		return def
	}
	if s, ok := v.Kind.(*structpb.Value_StringValue); ok {
		return s.StringValue
	}
	return def
}
