package reconcile

import "fmt"

// ReconciliationError reports a local tree the engine cannot reconcile, such
// as two scenarios sharing one composite identity.
type ReconciliationError struct {
	Scenario string
	Msg      string
	Err      error
}

func (e *ReconciliationError) Error() string {
	msg := "reconciliation error"
	if e.Scenario != "" {
		msg += fmt.Sprintf(" for %q", e.Scenario)
	}
	msg += ": " + e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}
