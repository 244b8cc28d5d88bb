package interfaces

import "errors"

var (
	// ErrAccountNotFound is returned when the referenced account does not
	// exist in the store.
	ErrAccountNotFound = errors.New("account not found")

	// ErrLimitExceeded is returned when a movement would push the balance
	// below -limit. The store guarantees no state changed.
	ErrLimitExceeded = errors.New("account limit exceeded")

	// ErrStoreUnavailable wraps transient infrastructure failures. Callers may
	// retry at their own risk; the service itself never does.
	ErrStoreUnavailable = errors.New("store unavailable")
)
