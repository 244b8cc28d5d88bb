package ledger

import (
	"context"
	"time"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// Statements produces point-in-time account statements.
type Statements struct {
	store interfaces.LedgerStore
}

func NewStatements(store interfaces.LedgerStore) *Statements {
	return &Statements{store: store}
}

// Statement returns the account's balance, limit and up to its ten most
// recent movements, newest first. An account with no movements gets an empty
// list, not an error. AsOf is stamped at response time; the snapshot's
// consistency comes from the store, not from AsOf.
func (s *Statements) Statement(ctx context.Context, accountID int64) (models.Statement, error) {
	snap, err := s.store.ReadSnapshot(ctx, accountID)
	if err != nil {
		return models.Statement{}, err
	}

	return models.Statement{
		Balance:      snap.Balance,
		Limit:        snap.Limit,
		AsOf:         time.Now().UTC(),
		Transactions: snap.Transactions,
	}, nil
}
