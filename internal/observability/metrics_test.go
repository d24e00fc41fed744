package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/meridianautonomy/planner/core"
)

func TestTickProcessedIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPlannerCollector(reg)
	if err != nil {
		t.Fatalf("NewPlannerCollector: %v", err)
	}

	collector.TickProcessed("DEMO", core.StatusProcessing)
	collector.TickProcessed("DEMO", core.StatusProcessing)
	collector.TickProcessed("DEMO", core.StatusDone)

	processing := testutil.ToFloat64(collector.Ticks.WithLabelValues("DEMO", "PROCESSING"))
	if processing != 2 {
		t.Errorf("PROCESSING ticks = %v, want 2", processing)
	}
	done := testutil.ToFloat64(collector.Ticks.WithLabelValues("DEMO", "DONE"))
	if done != 1 {
		t.Errorf("DONE ticks = %v, want 1", done)
	}
}

func TestStageSwitchedLabelsEdges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPlannerCollector(reg)
	if err != nil {
		t.Fatalf("NewPlannerCollector: %v", err)
	}

	collector.StageSwitched(core.StageType("APPROACH"), core.StageType("NEGOTIATE"))
	collector.StageSwitched(core.StageType("NEGOTIATE"), core.NoStage)

	got := testutil.ToFloat64(collector.StageTransitions.WithLabelValues("APPROACH", "NEGOTIATE"))
	if got != 1 {
		t.Errorf("APPROACH->NEGOTIATE = %v, want 1", got)
	}
	got = testutil.ToFloat64(collector.StageTransitions.WithLabelValues("NEGOTIATE", "NO_STAGE"))
	if got != 1 {
		t.Errorf("NEGOTIATE->NO_STAGE = %v, want 1", got)
	}
}

func TestObserveTickDurationRecordsSamples(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPlannerCollector(reg)
	if err != nil {
		t.Fatalf("NewPlannerCollector: %v", err)
	}

	collector.ObserveTickDuration("DEMO", 0.002)
	collector.ObserveTickDuration("DEMO", 0.004)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != "planner_tick_duration_seconds" {
			continue
		}
		if len(fam.GetMetric()) != 1 {
			t.Fatalf("metric series = %d, want 1", len(fam.GetMetric()))
		}
		hist := fam.GetMetric()[0].GetHistogram()
		if hist.GetSampleCount() != 2 {
			t.Errorf("sample count = %d, want 2", hist.GetSampleCount())
		}
		return
	}
	t.Fatal("planner_tick_duration_seconds not gathered")
}

func TestDoubleRegistrationReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPlannerCollector(reg)
	if err != nil {
		t.Fatalf("first NewPlannerCollector: %v", err)
	}
	second, err := NewPlannerCollector(reg)
	if err != nil {
		t.Fatalf("second NewPlannerCollector: %v", err)
	}

	first.TickProcessed("DEMO", core.StatusDone)
	second.TickProcessed("DEMO", core.StatusDone)

	got := testutil.ToFloat64(first.Ticks.WithLabelValues("DEMO", "DONE"))
	if got != 2 {
		t.Errorf("shared counter = %v, want 2", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var collector *PlannerCollector
	collector.TickProcessed("DEMO", core.StatusDone)
	collector.StageSwitched(core.StageType("A"), core.StageType("B"))
	collector.ObserveTickDuration("DEMO", 0.001)
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPlannerCollector(reg)
	if err != nil {
		t.Fatalf("NewPlannerCollector: %v", err)
	}
	collector.TickProcessed("DEMO", core.StatusProcessing)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "planner_ticks_total") {
		t.Errorf("response missing planner_ticks_total:\n%s", body)
	}
}
