// Package stages holds the concrete stage catalog and the registry-backed
// factory that builds stages from their configuration blocks. The planning
// core only sees the core.StageFactory interface; everything about which
// stage types exist lives here.
package stages

import (
	"fmt"

	"github.com/meridianautonomy/planner/core"
)

// Stage types understood by the built-in catalog.
const (
	TypeApproach  core.StageType = "APPROACH"
	TypeNegotiate core.StageType = "NEGOTIATE"
	TypeComplete  core.StageType = "COMPLETE"
)

// Builder constructs a concrete stage from its config block and the shared
// dependency injector.
type Builder func(cfg *core.StageConfig, injector *core.DependencyInjector) (core.Stage, error)

// Registry maps stage types to builders. It implements core.StageFactory
// deterministically: a given stage type always resolves to the same
// builder, so the same concrete variant.
type Registry struct {
	builders map[core.StageType]Builder
}

// NewRegistry returns a registry preloaded with the built-in catalog.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[core.StageType]Builder)}
	r.builders[TypeApproach] = newApproachStage
	r.builders[TypeNegotiate] = newNegotiateStage
	r.builders[TypeComplete] = newCompleteStage
	return r
}

// Register adds a builder for a stage type. Re-registering an existing type
// is an error; the catalog is meant to be assembled once at startup.
func (r *Registry) Register(stageType core.StageType, b Builder) error {
	if stageType == core.NoStage {
		return fmt.Errorf("cannot register a builder for the sentinel stage")
	}
	if b == nil {
		return fmt.Errorf("nil builder for stage type %q", stageType)
	}
	if _, exists := r.builders[stageType]; exists {
		return fmt.Errorf("builder for stage type %q already registered", stageType)
	}
	r.builders[stageType] = b
	return nil
}

// CreateStage implements core.StageFactory.
func (r *Registry) CreateStage(cfg *core.StageConfig, injector *core.DependencyInjector) (core.Stage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil stage config")
	}
	b, ok := r.builders[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("no builder registered for stage type %q", cfg.Type)
	}
	return b(cfg, injector)
}
