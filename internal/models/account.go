package models

// Account is a ledger account holding a balance in minor currency units.
// Balance may go negative but never below -Limit; Limit is immutable after
// the account is created.
type Account struct {
	ID      int64 `json:"id"`
	Balance int64 `json:"balance"`
	Limit   int64 `json:"limit"`
}

// AccountState is the balance/limit pair observed after a movement is applied.
type AccountState struct {
	Balance int64
	Limit   int64
}
