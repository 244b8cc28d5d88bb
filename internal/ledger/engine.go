package ledger

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
	"github.com/sheikh-saqib/account-ledger-service/internal/models/events"
)

const maxDescriptionLen = 10

// Engine validates incoming movements and applies them through the ledger
// store. It holds no state of its own; per-account serialization lives in the
// store.
type Engine struct {
	store  interfaces.LedgerStore
	events interfaces.EventPublisher
	log    zerolog.Logger
}

func NewEngine(store interfaces.LedgerStore, publisher interfaces.EventPublisher, log zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		events: publisher,
		log:    log,
	}
}

// Submit validates the raw movement and applies it to the account. The value
// must already be a whole number that fits in an int64: a fractional or
// out-of-range value is rejected, never rounded or wrapped.
// A limit breach is a business outcome, not a failure, and is never retried
// here.
func (e *Engine) Submit(ctx context.Context, accountID int64, value decimal.Decimal, kindCode, description string) (models.AccountState, error) {
	if n := utf8.RuneCountInString(description); n == 0 || n > maxDescriptionLen {
		return models.AccountState{}, &ValidationError{Field: "description", Reason: "length must be between 1 and 10"}
	}
	if !value.IsInteger() {
		return models.AccountState{}, &ValidationError{Field: "value", Reason: "must be a whole number"}
	}
	if !value.BigInt().IsInt64() {
		return models.AccountState{}, &ValidationError{Field: "value", Reason: "out of range"}
	}
	amount := value.IntPart()
	if amount <= 0 {
		return models.AccountState{}, &ValidationError{Field: "value", Reason: "must be positive"}
	}
	kind, err := models.ParseKindCode(kindCode)
	if err != nil {
		return models.AccountState{}, &ValidationError{Field: "kind", Reason: `must be "c" or "d"`}
	}

	state, err := e.store.ApplyMovement(ctx, accountID, amount, kind, description)
	if err != nil {
		return models.AccountState{}, err
	}

	// The movement is committed at this point; a broker failure must not
	// change its outcome.
	evt := events.MovementApplied{
		EventID:     uuid.NewString(),
		AccountID:   accountID,
		Value:       amount,
		Kind:        kind.Code(),
		Description: description,
		Balance:     state.Balance,
		OccurredAt:  time.Now().UTC(),
	}
	if err := e.events.Publish(ctx, evt); err != nil {
		e.log.Warn().Err(err).Int64("account_id", accountID).Msg("publish movement event")
	}

	return state, nil
}
