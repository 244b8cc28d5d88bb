package models

import "time"

// StatementLimit is the maximum number of transactions a snapshot carries.
const StatementLimit = 10

// Snapshot is a single-instant view of an account: balance, limit and up to
// StatementLimit most recent transactions, newest first. No transaction in the
// list was applied after the balance was captured, and none applied before it
// is missing from the recency window.
type Snapshot struct {
	Balance      int64
	Limit        int64
	Transactions []Transaction
}

// Statement is the externally visible account statement. AsOf is the wall
// clock at response time and is informational only; consistency comes from the
// snapshot itself.
type Statement struct {
	Balance      int64
	Limit        int64
	AsOf         time.Time
	Transactions []Transaction
}
