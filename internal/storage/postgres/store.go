package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// Store is the Postgres implementation of interfaces.LedgerStore. Per-account
// serialization comes from the row lock taken by SELECT ... FOR UPDATE; the
// lock scope is a single account row, so there is no lock ordering to worry
// about.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the tables if they do not exist yet. Safe to run at
// every boot.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            BIGINT PRIMARY KEY,
	balance       BIGINT NOT NULL DEFAULT 0,
	account_limit BIGINT NOT NULL,
	CONSTRAINT balance_within_limit CHECK (balance >= -account_limit)
);

CREATE TABLE IF NOT EXISTS transactions (
	seq         BIGSERIAL PRIMARY KEY,
	id          UUID NOT NULL,
	account_id  BIGINT NOT NULL REFERENCES accounts(id),
	value       BIGINT NOT NULL,
	kind        TEXT NOT NULL,
	description TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS transactions_account_recency
	ON transactions (account_id, created_at DESC, seq DESC);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) CreateAccount(ctx context.Context, id int64, limit int64) error {
	if limit < 0 {
		return fmt.Errorf("account %d: limit must be non-negative", id)
	}

	const query = `INSERT INTO accounts (id, balance, account_limit)
	VALUES ($1, 0, $2)
	ON CONFLICT (id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, id, limit); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) ApplyMovement(ctx context.Context, accountID int64, value int64, kind models.TransactionKind, description string) (models.AccountState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.AccountState{}, unavailable(err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var balance, limit int64
	err = tx.QueryRowContext(ctx,
		`SELECT balance, account_limit FROM accounts WHERE id = $1 FOR UPDATE`,
		accountID).Scan(&balance, &limit)
	if errors.Is(err, sql.ErrNoRows) {
		err = interfaces.ErrAccountNotFound
		return models.AccountState{}, err
	}
	if err != nil {
		err = unavailable(err)
		return models.AccountState{}, err
	}

	delta := kind.Delta(value)
	if balance+delta < -limit {
		err = interfaces.ErrLimitExceeded
		return models.AccountState{}, err
	}
	balance += delta

	_, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $2 WHERE id = $1`,
		accountID, balance)
	if err != nil {
		err = unavailable(err)
		return models.AccountState{}, err
	}

	// clock_timestamp(), not now(): the insert runs while the row lock is
	// held, which keeps per-account timestamps non-decreasing regardless of
	// when the blocked transaction began.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, value, kind, description, created_at)
		VALUES ($1, $2, $3, $4, $5, clock_timestamp())`,
		uuid.NewString(), accountID, value, kind.Code(), description)
	if err != nil {
		err = unavailable(err)
		return models.AccountState{}, err
	}

	if err = tx.Commit(); err != nil {
		err = unavailable(err)
		return models.AccountState{}, err
	}
	return models.AccountState{Balance: balance, Limit: limit}, nil
}

// ReadSnapshot runs both reads in one repeatable-read transaction, so the
// balance and the transaction list come from the same database snapshot.
func (s *Store) ReadSnapshot(ctx context.Context, accountID int64) (models.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return models.Snapshot{}, unavailable(err)
	}
	defer tx.Rollback()

	var snap models.Snapshot
	err = tx.QueryRowContext(ctx,
		`SELECT balance, account_limit FROM accounts WHERE id = $1`,
		accountID).Scan(&snap.Balance, &snap.Limit)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Snapshot{}, interfaces.ErrAccountNotFound
	}
	if err != nil {
		return models.Snapshot{}, unavailable(err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, value, kind, description, created_at, seq
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2`,
		accountID, models.StatementLimit)
	if err != nil {
		return models.Snapshot{}, unavailable(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry models.Transaction
			code  string
		)
		if err := rows.Scan(&entry.ID, &entry.Value, &code, &entry.Description, &entry.CreatedAt, &entry.Seq); err != nil {
			return models.Snapshot{}, unavailable(err)
		}
		kind, err := models.ParseKindCode(code)
		if err != nil {
			return models.Snapshot{}, err
		}
		entry.Kind = kind
		entry.AccountID = accountID
		snap.Transactions = append(snap.Transactions, entry)
	}
	if err := rows.Err(); err != nil {
		return models.Snapshot{}, unavailable(err)
	}

	if err := tx.Commit(); err != nil {
		return models.Snapshot{}, unavailable(err)
	}
	return snap, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	const query = `SELECT id, balance, account_limit FROM accounts ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var acc models.Account
		if err := rows.Scan(&acc.ID, &acc.Balance, &acc.Limit); err != nil {
			return nil, unavailable(err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return accounts, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
}

var _ interfaces.LedgerStore = (*Store)(nil)
