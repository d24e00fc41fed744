package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

type scenarioFileJSON struct {
	ScenarioType  string           `json:"scenario_type"`
	StageSequence []string         `json:"stage_sequence"`
	Stages        []stageBlockJSON `json:"stages"`
}

type stageBlockJSON struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params"`
}

type scenarioFileYAML struct {
	ScenarioType  string           `yaml:"scenario_type"`
	StageSequence []string         `yaml:"stage_sequence"`
	Stages        []stageBlockYAML `yaml:"stages"`
}

type stageBlockYAML struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
}

// LoadScenarioConfig reads a JSON scenario definition from r. Stage
// parameter blocks stay opaque: they are decoded into structpb values that
// concrete stages interpret.
//
// It fails only on decoding errors. Integrity rules (non-empty sequence,
// every sequence entry configured) are enforced by Validate and, fatally,
// by Scenario.Init.
func LoadScenarioConfig(r io.Reader) (*ScenarioConfig, error) {
	var payload scenarioFileJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenarioConfig: decode failed: %w", err)
	}

	cfg := &ScenarioConfig{
		ScenarioType:  payload.ScenarioType,
		StageSequence: toStageTypes(payload.StageSequence),
		Stages:        make([]*StageConfig, 0, len(payload.Stages)),
	}
	for _, block := range payload.Stages {
		if block.Type == "" {
			return nil, fmt.Errorf("LoadScenarioConfig: stage block with empty type")
		}
		params, err := paramsFromJSON(block.Params)
		if err != nil {
			return nil, fmt.Errorf("LoadScenarioConfig: stage %q: %w", block.Type, err)
		}
		cfg.Stages = append(cfg.Stages, &StageConfig{
			Type:   StageType(block.Type),
			Params: params,
		})
	}
	return cfg, nil
}

// LoadScenarioConfigYAML is the YAML counterpart of LoadScenarioConfig.
func LoadScenarioConfigYAML(r io.Reader) (*ScenarioConfig, error) {
	var payload scenarioFileYAML
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenarioConfigYAML: decode failed: %w", err)
	}

	cfg := &ScenarioConfig{
		ScenarioType:  payload.ScenarioType,
		StageSequence: toStageTypes(payload.StageSequence),
		Stages:        make([]*StageConfig, 0, len(payload.Stages)),
	}
	for _, block := range payload.Stages {
		if block.Type == "" {
			return nil, fmt.Errorf("LoadScenarioConfigYAML: stage block with empty type")
		}
		var params *structpb.Struct
		if len(block.Params) > 0 {
			p, err := structpb.NewStruct(block.Params)
			if err != nil {
				return nil, fmt.Errorf("LoadScenarioConfigYAML: stage %q: %w", block.Type, err)
			}
			params = p
		}
		cfg.Stages = append(cfg.Stages, &StageConfig{
			Type:   StageType(block.Type),
			Params: params,
		})
	}
	return cfg, nil
}

// LoadScenarioFile opens path and dispatches on its extension: .yaml/.yml
// load as YAML, everything else as JSON.
func LoadScenarioFile(path string) (*ScenarioConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadScenarioFile: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadScenarioConfigYAML(f)
	default:
		return LoadScenarioConfig(f)
	}
}

func toStageTypes(names []string) []StageType {
	types := make([]StageType, 0, len(names))
	for _, n := range names {
		types = append(types, StageType(n))
	}
	return types
}

func paramsFromJSON(raw json.RawMessage) (*structpb.Struct, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, params); err != nil {
		return nil, fmt.Errorf("decode params: %w", err)
	}
	return params, nil
}
