package core

// PlanningStatus is the shared record other subsystems read to see which
// scenario and stage are currently planning. The scenario owns the write
// side of its own fields only: it clears and repopulates ScenarioType and
// StageType at Init and overwrites StageType on every stage transition.
// If other subsystems read the record concurrently, synchronization is
// the owner's responsibility, not this package's.
type PlanningStatus struct {
	ScenarioType string
	StageType    StageType
}

// Clear resets the scenario-owned fields.
func (s *PlanningStatus) Clear() {
	s.ScenarioType = ""
	s.StageType = NoStage
}

// DependencyInjector bundles shared resources handed to a scenario and to
// every stage it creates. It is externally owned: the caller builds one
// per planning session and keeps it alive at least as long as the
// scenarios that reference it.
type DependencyInjector struct {
	status *PlanningStatus
}

// NewDependencyInjector returns an injector with a fresh planning status
// record.
func NewDependencyInjector() *DependencyInjector {
	return &DependencyInjector{status: &PlanningStatus{}}
}

// PlanningStatus exposes the shared status record.
func (d *DependencyInjector) PlanningStatus() *PlanningStatus {
	return d.status
}
