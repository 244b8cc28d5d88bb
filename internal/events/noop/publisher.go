package noop

import (
	"context"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
)

// Publisher discards every event. Used when no broker is configured.
type Publisher struct{}

func (Publisher) Publish(ctx context.Context, event any) error { return nil }

var _ interfaces.EventPublisher = Publisher{}
