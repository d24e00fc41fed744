package core

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"google.golang.org/protobuf/types/known/structpb"
)

// StageConfig is one stage's declarative block in a scenario configuration.
// Params is opaque to the state machine; concrete stages pull their own
// settings out of it.
type StageConfig struct {
	Type   StageType
	Params *structpb.Struct
}

// ScenarioConfig is an already-parsed scenario definition: an ordered stage
// sequence that sets the initial traversal intent, plus one configuration
// block per stage type the scenario can reach.
//
// The config is consumed read-only and must outlive any Scenario built
// from it; the scenario's stage-config map holds references into it.
type ScenarioConfig struct {
	ScenarioType  string
	StageSequence []StageType
	Stages        []*StageConfig
}

// stageConfigMap indexes the config blocks by stage type. Later blocks with
// a duplicate type win, matching how the blocks would shadow each other in
// the source file.
func (c *ScenarioConfig) stageConfigMap() map[StageType]*StageConfig {
	m := make(map[StageType]*StageConfig, len(c.Stages))
	for _, block := range c.Stages {
		if block != nil {
			m[block.Type] = block
		}
	}
	return m
}

// Validate checks the configuration integrity rules a Scenario enforces
// fatally at Init: a non-empty stage sequence, and a config block for every
// stage type the sequence names. It reports every problem it finds, with a
// closest-match hint when a sequence entry looks like a typo of a
// configured block.
func Validate(cfg *ScenarioConfig) error {
	if cfg == nil {
		return fmt.Errorf("scenario config is nil")
	}

	var problems []string
	if len(cfg.StageSequence) == 0 {
		problems = append(problems, fmt.Sprintf("scenario %q has an empty stage sequence", cfg.ScenarioType))
	}

	blocks := cfg.stageConfigMap()
	for _, stageType := range cfg.StageSequence {
		if stageType == NoStage {
			problems = append(problems, fmt.Sprintf("scenario %q names the sentinel stage in its sequence", cfg.ScenarioType))
			continue
		}
		if _, ok := blocks[stageType]; ok {
			continue
		}
		msg := fmt.Sprintf("stage %q has no config block", stageType)
		if hint := closestStageType(stageType, blocks); hint != NoStage {
			msg += fmt.Sprintf(" (did you mean %q?)", hint)
		}
		problems = append(problems, msg)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid scenario config: %s", strings.Join(problems, "; "))
}

// closestStageType returns the configured stage type nearest to want by
// edit distance, or NoStage when nothing is plausibly close.
func closestStageType(want StageType, blocks map[StageType]*StageConfig) StageType {
	const maxDistance = 3

	best := NoStage
	bestDist := maxDistance + 1
	for have := range blocks {
		d := levenshtein.ComputeDistance(string(want), string(have))
		if d < bestDist {
			best = have
			bestDist = d
		}
	}
	return best
}
