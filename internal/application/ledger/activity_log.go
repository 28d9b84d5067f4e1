package ledger

import (
	"context"

	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogHandler consumes transaction lifecycle events and writes a
// structured activity trail. It is the default subscriber wired behind
// the idempotency guard, so redelivered events never produce duplicate
// trail entries.
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates a new ActivityLogHandler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLogHandler{logger: logger}
}

// EventTypes returns the transaction lifecycle event types
func (h *ActivityLogHandler) EventTypes() []string {
	return []string{
		ledger.EventTypeTransactionRegistered,
		ledger.EventTypeTransactionDeleted,
		ledger.EventTypeTransactionUpdated,
	}
}

// Handle records one activity entry per event
func (h *ActivityLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *ledger.TransactionRegisteredEvent:
		fields = append(fields,
			zap.String("user_id", e.UserID.String()),
			zap.String("amount", e.Amount.String()),
			zap.String("transaction_type", e.Type.String()),
		)
	case *ledger.TransactionDeletedEvent:
		fields = append(fields,
			zap.String("user_id", e.UserID.String()),
			zap.String("amount", e.Amount.String()),
		)
	}

	h.logger.Info("ledger activity", fields...)
	return nil
}
