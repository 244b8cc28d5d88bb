package models

import (
	"fmt"
	"time"
)

// TransactionKind is the direction of a movement.
type TransactionKind int

const (
	KindCredit TransactionKind = iota
	KindDebit
)

// ParseKindCode maps the single-letter wire codes ("c"/"d") to a
// TransactionKind. The codes exist only at external boundaries; everything
// inside the service works with the enum.
func ParseKindCode(code string) (TransactionKind, error) {
	switch code {
	case "c":
		return KindCredit, nil
	case "d":
		return KindDebit, nil
	default:
		return 0, fmt.Errorf("unknown transaction kind %q", code)
	}
}

// Code returns the wire encoding of the kind.
func (k TransactionKind) Code() string {
	if k == KindDebit {
		return "d"
	}
	return "c"
}

// Delta returns the signed effect of a movement of the given value.
func (k TransactionKind) Delta(value int64) int64 {
	if k == KindDebit {
		return -value
	}
	return value
}

// Transaction is a single credit or debit applied to an account. It is
// written exactly once, atomically with the balance update it causes, and is
// never mutated afterwards. Seq is assigned by the store and breaks ties
// between transactions sharing a timestamp.
type Transaction struct {
	ID          string
	AccountID   int64
	Value       int64
	Kind        TransactionKind
	Description string
	CreatedAt   time.Time
	Seq         int64
}
