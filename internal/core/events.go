package core

// Event represents a state change from the controller
type Event interface {
	isEvent()
}

// PhaseChangedEvent is emitted on every session phase transition
type PhaseChangedEvent struct {
	Phase Phase
}

func (PhaseChangedEvent) isEvent() {}

// ScanCompletedEvent is emitted once per session, after cleanup
type ScanCompletedEvent struct {
	ISBN      string
	Err       error
	Cancelled bool
}

func (ScanCompletedEvent) isEvent() {}
