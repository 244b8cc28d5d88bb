package events

import "time"

// MovementApplied is published after a movement has been committed to the
// ledger store.
type MovementApplied struct {
	EventID     string    `json:"event_id"`
	AccountID   int64     `json:"account_id"`
	Value       int64     `json:"value"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Balance     int64     `json:"balance"`
	OccurredAt  time.Time `json:"occurred_at"`
}
