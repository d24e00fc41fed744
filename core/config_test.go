package core

import (
	"strings"
	"testing"
)

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	cfg := configWithStages("TEST", []StageType{"A", "B", "A"}, "A", "B")
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidateRejectsNilConfig(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatalf("expected an error for a nil config")
	}
}

func TestValidateRejectsEmptySequence(t *testing.T) {
	cfg := configWithStages("TEST", nil, "A")
	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected an error for an empty stage sequence")
	}
	if !strings.Contains(err.Error(), "empty stage sequence") {
		t.Errorf("error %q should mention the empty sequence", err)
	}
}

func TestValidateRejectsSentinelInSequence(t *testing.T) {
	cfg := configWithStages("TEST", []StageType{"A", NoStage}, "A")
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected an error for the sentinel stage in the sequence")
	}
}

func TestValidateSuggestsClosestStage(t *testing.T) {
	cfg := configWithStages("TEST", []StageType{"APROACH"}, "APPROACH", "COMPLETE")
	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected an error for the misspelled stage")
	}
	if !strings.Contains(err.Error(), `did you mean "APPROACH"`) {
		t.Errorf("error %q should suggest APPROACH", err)
	}
}

func TestValidateNoSuggestionWhenNothingClose(t *testing.T) {
	cfg := configWithStages("TEST", []StageType{"ZZZZZZZZ"}, "APPROACH")
	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected an error for the unknown stage")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error %q should not suggest anything for a distant name", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := configWithStages("TEST", []StageType{"A", "MISSING1", "MISSING2"}, "A")
	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "MISSING1") || !strings.Contains(err.Error(), "MISSING2") {
		t.Errorf("error %q should list both missing stages", err)
	}
}
