package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	AccountID *uuid.UUID
	Type      *TransactionType
	PaidByID  *uuid.UUID
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

// AccountRepository defines persistence operations for accounts.
// Every operation is scoped by the tenant (couple) ID; this is the
// multi-tenant isolation boundary.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]*Account, error)
	Save(ctx context.Context, account *Account) error
	// AdjustBalance applies a signed delta to the account's running balance
	// as a single atomic update.
	AdjustBalance(ctx context.Context, tenantID, accountID uuid.UUID, delta decimal.Decimal) error
}

// TransactionRepository defines persistence operations for transactions
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	// CreateBatch inserts independent rows in one round trip; used by the
	// installment generator.
	CreateBatch(ctx context.Context, txs []*Transaction) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Transaction, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) ([]*Transaction, int64, error)
	Save(ctx context.Context, tx *Transaction) error
	SaveAll(ctx context.Context, txs []*Transaction) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// FindByInstallmentGroup returns every member of a group ordered by
	// installment number.
	FindByInstallmentGroup(ctx context.Context, tenantID, groupID uuid.UUID) ([]*Transaction, error)
	// FindInstallmentsFrom returns group members dated on or after the given
	// date, ordered by installment number.
	FindInstallmentsFrom(ctx context.Context, tenantID, groupID uuid.UUID, from time.Time) ([]*Transaction, error)
	// FindByRecurringTemplate returns transactions generated from a template.
	FindByRecurringTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]*Transaction, error)
}
