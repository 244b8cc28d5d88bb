package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// Store is an in-memory implementation of interfaces.LedgerStore. Each account
// carries its own mutex, so movements on one account serialize against each
// other while different accounts proceed independently. Transactions are kept
// in application order per account.
type Store struct {
	mu       sync.Mutex // guards the accounts map, not the accounts themselves
	accounts map[int64]*account
	seq      atomic.Int64 // store-wide transaction sequence
}

type account struct {
	mu           sync.Mutex
	balance      int64
	limit        int64
	transactions []models.Transaction
	lastApplied  time.Time
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[int64]*account),
	}
}

func (s *Store) CreateAccount(ctx context.Context, id int64, limit int64) error {
	if limit < 0 {
		return fmt.Errorf("account %d: limit must be non-negative", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[id]; exists {
		return fmt.Errorf("account %d already exists", id)
	}
	s.accounts[id] = &account{limit: limit}
	return nil
}

// ApplyMovement holds the account mutex across the invariant check, the
// balance write and the transaction append, making the three one atomic unit.
func (s *Store) ApplyMovement(ctx context.Context, accountID int64, value int64, kind models.TransactionKind, description string) (models.AccountState, error) {
	acc, ok := s.lookup(accountID)
	if !ok {
		return models.AccountState{}, interfaces.ErrAccountNotFound
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return models.AccountState{}, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	delta := kind.Delta(value)
	if acc.balance+delta < -acc.limit {
		return models.AccountState{}, interfaces.ErrLimitExceeded
	}

	now := time.Now().UTC()
	if now.Before(acc.lastApplied) {
		// keep per-account timestamps non-decreasing
		now = acc.lastApplied
	}
	acc.lastApplied = now

	acc.balance += delta
	acc.transactions = append(acc.transactions, models.Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Value:       value,
		Kind:        kind,
		Description: description,
		CreatedAt:   now,
		Seq:         s.seq.Add(1),
	})

	return models.AccountState{Balance: acc.balance, Limit: acc.limit}, nil
}

// ReadSnapshot copies balance, limit and the most recent transactions under
// the account mutex, so the result always reflects a committed prefix of the
// account's movement history.
func (s *Store) ReadSnapshot(ctx context.Context, accountID int64) (models.Snapshot, error) {
	acc, ok := s.lookup(accountID)
	if !ok {
		return models.Snapshot{}, interfaces.ErrAccountNotFound
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()

	n := len(acc.transactions)
	count := n
	if count > models.StatementLimit {
		count = models.StatementLimit
	}
	recent := make([]models.Transaction, 0, count)
	for i := n - 1; i >= n-count; i-- {
		recent = append(recent, acc.transactions[i])
	}

	return models.Snapshot{
		Balance:      acc.balance,
		Limit:        acc.limit,
		Transactions: recent,
	}, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.accounts))
	byID := make(map[int64]*account, len(s.accounts))
	for id, acc := range s.accounts {
		ids = append(ids, id)
		byID[id] = acc
	}
	s.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]models.Account, 0, len(ids))
	for _, id := range ids {
		acc := byID[id]
		acc.mu.Lock()
		out = append(out, models.Account{ID: id, Balance: acc.balance, Limit: acc.limit})
		acc.mu.Unlock()
	}
	return out, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) lookup(accountID int64) (*account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	return acc, ok
}

// Compile-time check: Store implements the LedgerStore interface.
var _ interfaces.LedgerStore = (*Store)(nil)
