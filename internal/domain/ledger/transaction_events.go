package ledger

import (
	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeTransaction = "Transaction"

// Event type constants. Consumed by external listeners (gamification,
// audit); delivery is best-effort and never participates in the ledger's
// atomic scope.
const (
	EventTypeTransactionRegistered = "transaction.registered"
	EventTypeTransactionDeleted    = "transaction.deleted"
	EventTypeTransactionUpdated    = "transaction.updated"
)

// TransactionRegisteredEvent is published after a transaction commits
type TransactionRegisteredEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	UserID        uuid.UUID       `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"transaction_type"`
}

// NewTransactionRegisteredEvent creates a new TransactionRegisteredEvent
func NewTransactionRegisteredEvent(tx *Transaction) *TransactionRegisteredEvent {
	return &TransactionRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionRegistered, AggregateTypeTransaction, tx.ID, tx.TenantID),
		TransactionID:   tx.ID,
		UserID:          tx.PaidByID,
		Amount:          tx.Amount,
		Type:            tx.Type,
	}
}

// TransactionDeletedEvent is published after a transaction deletion commits
type TransactionDeletedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	UserID        uuid.UUID       `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"transaction_type"`
}

// NewTransactionDeletedEvent creates a new TransactionDeletedEvent
func NewTransactionDeletedEvent(tx *Transaction) *TransactionDeletedEvent {
	return &TransactionDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionDeleted, AggregateTypeTransaction, tx.ID, tx.TenantID),
		TransactionID:   tx.ID,
		UserID:          tx.PaidByID,
		Amount:          tx.Amount,
		Type:            tx.Type,
	}
}

// TransactionUpdatedEvent is published after a scoped update commits
type TransactionUpdatedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID `json:"transaction_id"`
	UpdatedCount  int       `json:"updated_count"`
	AppliedScope  string    `json:"applied_scope"`
}

// NewTransactionUpdatedEvent creates a new TransactionUpdatedEvent
func NewTransactionUpdatedEvent(tx *Transaction, updatedCount int, appliedScope string) *TransactionUpdatedEvent {
	return &TransactionUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionUpdated, AggregateTypeTransaction, tx.ID, tx.TenantID),
		TransactionID:   tx.ID,
		UpdatedCount:    updatedCount,
		AppliedScope:    appliedScope,
	}
}
