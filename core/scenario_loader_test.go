package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadScenarioConfigJSON(t *testing.T) {
	jsonData := `
{
  "scenario_type": "INTERSECTION_DEMO",
  "stage_sequence": ["APPROACH", "COMPLETE"],
  "stages": [
    {
      "type": "APPROACH",
      "params": { "hold_ticks": 5, "next_stage": "COMPLETE" }
    },
    {
      "type": "COMPLETE"
    }
  ]
}
`

	cfg, err := LoadScenarioConfig(strings.NewReader(jsonData))
	if err != nil {
		t.Fatalf("LoadScenarioConfig returned error: %v", err)
	}
	if cfg.ScenarioType != "INTERSECTION_DEMO" {
		t.Errorf("scenario type = %q, want INTERSECTION_DEMO", cfg.ScenarioType)
	}
	if len(cfg.StageSequence) != 2 || cfg.StageSequence[0] != "APPROACH" || cfg.StageSequence[1] != "COMPLETE" {
		t.Fatalf("stage sequence = %v, want [APPROACH COMPLETE]", cfg.StageSequence)
	}
	if len(cfg.Stages) != 2 {
		t.Fatalf("expected 2 stage blocks, got %d", len(cfg.Stages))
	}

	approach := cfg.Stages[0]
	if approach.Type != "APPROACH" {
		t.Errorf("first block type = %q, want APPROACH", approach.Type)
	}
	if approach.Params == nil {
		t.Fatalf("expected params on the APPROACH block")
	}
	if got := approach.Params.Fields["hold_ticks"].GetNumberValue(); got != 5 {
		t.Errorf("hold_ticks = %v, want 5", got)
	}
	if got := approach.Params.Fields["next_stage"].GetStringValue(); got != "COMPLETE" {
		t.Errorf("next_stage = %q, want COMPLETE", got)
	}

	if cfg.Stages[1].Params != nil {
		t.Errorf("COMPLETE block should have nil params")
	}
}

func TestLoadScenarioConfigJSONRejectsGarbage(t *testing.T) {
	if _, err := LoadScenarioConfig(strings.NewReader("{not json")); err == nil {
		t.Fatalf("expected a decode error")
	}
}

func TestLoadScenarioConfigJSONRejectsEmptyType(t *testing.T) {
	jsonData := `{"scenario_type": "X", "stage_sequence": ["A"], "stages": [{"type": ""}]}`
	if _, err := LoadScenarioConfig(strings.NewReader(jsonData)); err == nil {
		t.Fatalf("expected an error for an empty stage type")
	}
}

func TestLoadScenarioConfigYAMLMatchesJSON(t *testing.T) {
	yamlData := `
scenario_type: INTERSECTION_DEMO
stage_sequence:
  - APPROACH
  - COMPLETE
stages:
  - type: APPROACH
    params:
      hold_ticks: 5
      next_stage: COMPLETE
  - type: COMPLETE
`

	cfg, err := LoadScenarioConfigYAML(strings.NewReader(yamlData))
	if err != nil {
		t.Fatalf("LoadScenarioConfigYAML returned error: %v", err)
	}
	if cfg.ScenarioType != "INTERSECTION_DEMO" {
		t.Errorf("scenario type = %q, want INTERSECTION_DEMO", cfg.ScenarioType)
	}
	if len(cfg.StageSequence) != 2 || cfg.StageSequence[0] != "APPROACH" {
		t.Fatalf("stage sequence = %v, want [APPROACH COMPLETE]", cfg.StageSequence)
	}
	approach := cfg.Stages[0]
	if approach.Params == nil {
		t.Fatalf("expected params on the APPROACH block")
	}
	if got := approach.Params.Fields["hold_ticks"].GetNumberValue(); got != 5 {
		t.Errorf("hold_ticks = %v, want 5", got)
	}
	if got := approach.Params.Fields["next_stage"].GetStringValue(); got != "COMPLETE" {
		t.Errorf("next_stage = %q, want COMPLETE", got)
	}
}

func TestLoadScenarioFileDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(yamlPath, []byte("scenario_type: Y\nstage_sequence: [A]\nstages:\n  - type: A\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	jsonPath := filepath.Join(dir, "scenario.json")
	if err := os.WriteFile(jsonPath, []byte(`{"scenario_type":"J","stage_sequence":["A"],"stages":[{"type":"A"}]}`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}

	ycfg, err := LoadScenarioFile(yamlPath)
	if err != nil {
		t.Fatalf("LoadScenarioFile(yaml): %v", err)
	}
	if ycfg.ScenarioType != "Y" {
		t.Errorf("yaml scenario type = %q, want Y", ycfg.ScenarioType)
	}

	jcfg, err := LoadScenarioFile(jsonPath)
	if err != nil {
		t.Fatalf("LoadScenarioFile(json): %v", err)
	}
	if jcfg.ScenarioType != "J" {
		t.Errorf("json scenario type = %q, want J", jcfg.ScenarioType)
	}

	if _, err := LoadScenarioFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
