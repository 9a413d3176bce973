package reconcile

// State is a step of the import state machine.
type State int

const (
	StateInit State = iota
	StateSuiteResolved
	StateSectionResolved
	StateCasesDiffed
	StateCasesApplied
	StateOrderApplied
	StatePersisted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateSuiteResolved:
		return "SuiteResolved"
	case StateSectionResolved:
		return "SectionResolved"
	case StateCasesDiffed:
		return "CasesDiffed"
	case StateCasesApplied:
		return "CasesApplied"
	case StateOrderApplied:
		return "OrderApplied"
	case StatePersisted:
		return "Persisted"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StatePersisted || s == StateFailed
}
