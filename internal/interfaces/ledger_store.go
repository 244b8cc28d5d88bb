package interfaces

import (
	"context"

	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// LedgerStore is the durable holder of accounts and transactions. It is the
// sole mutator of account balances: ApplyMovement serializes per account, and
// ReadSnapshot never observes a balance that does not correspond to a
// committed prefix of that account's movement history.
type LedgerStore interface {
	// CreateAccount registers an account with the given overdraft limit and a
	// zero balance.
	CreateAccount(ctx context.Context, id int64, limit int64) error

	// ApplyMovement atomically checks balance+delta >= -limit, updates the
	// balance and records the transaction. Returns ErrAccountNotFound,
	// ErrLimitExceeded, or an ErrStoreUnavailable-wrapped error.
	ApplyMovement(ctx context.Context, accountID int64, value int64, kind models.TransactionKind, description string) (models.AccountState, error)

	// ReadSnapshot returns balance, limit and the most recent transactions
	// (newest first, at most models.StatementLimit), all from one instant.
	ReadSnapshot(ctx context.Context, accountID int64) (models.Snapshot, error)

	// ListAccounts returns all accounts ordered by id.
	ListAccounts(ctx context.Context) ([]models.Account, error)

	Close() error
}
