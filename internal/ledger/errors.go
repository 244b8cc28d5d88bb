package ledger

import "fmt"

// ValidationError reports malformed movement input. It is never retried; the
// caller must correct the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
