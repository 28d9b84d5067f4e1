package ledger

import (
	"time"

	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Visibility controls whether the other member of the couple sees a transaction
type Visibility string

const (
	VisibilityShared  Visibility = "SHARED"
	VisibilityPrivate Visibility = "PRIVATE"
)

// IsValid returns true if the visibility is valid
func (v Visibility) IsValid() bool {
	return v == VisibilityShared || v == VisibilityPrivate
}

// ErrTransactionNotFound is returned when a transaction is absent or outside the tenant
var ErrTransactionNotFound = shared.NewDomainError("TRANSACTION_NOT_FOUND", "Transaction not found")

// InsufficientFreeSpendingError is returned when a free-spending expense
// exceeds the payer's remaining budget. Remaining is carried for client display.
type InsufficientFreeSpendingError struct {
	Remaining decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientFreeSpendingError) Error() string {
	return "Insufficient free-spending budget remaining"
}

// Code returns the stable error code for boundary translation
func (e *InsufficientFreeSpendingError) Code() string {
	return "INSUFFICIENT_FREE_SPENDING"
}

// Transaction is a single money movement on one of the couple's accounts.
// A transaction is at most one of standalone, installment member, or
// recurring-generated; the linkage fields are mutually exclusive.
type Transaction struct {
	shared.BaseEntity
	TenantID        uuid.UUID
	AccountID       uuid.UUID
	Type            TransactionType
	Amount          decimal.Decimal // always positive, direction from Type
	PaidByID        uuid.UUID
	IsFreeSpending  bool // only meaningful for EXPENSE
	// QuotaConsumed records whether the amount was actually drawn from the
	// payer's free-spending budget. A recurring expense generated against
	// an exhausted budget keeps IsFreeSpending but never consumed anything,
	// so deletion must not give the amount back.
	QuotaConsumed   bool
	IsCoupleExpense bool
	Visibility      Visibility
	Category        *string
	Description     string
	TransactionDate time.Time

	// Installment linkage: set together or not at all
	InstallmentGroupID *uuid.UUID
	InstallmentNumber  *int
	TotalInstallments  *int

	// Recurring linkage
	RecurringTemplateID *uuid.UUID
}

// NewTransaction creates a standalone transaction
func NewTransaction(
	tenantID, accountID, paidByID uuid.UUID,
	txType TransactionType,
	amount decimal.Decimal,
	transactionDate time.Time,
) (*Transaction, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if paidByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYER", "Payer ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if transactionDate.IsZero() {
		transactionDate = time.Now()
	}

	return &Transaction{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        tenantID,
		AccountID:       accountID,
		Type:            txType,
		Amount:          amount,
		PaidByID:        paidByID,
		Visibility:      VisibilityShared,
		TransactionDate: transactionDate,
	}, nil
}

// WithFreeSpending marks the transaction as drawing on the payer's
// free-spending quota. Only expenses can draw on the quota.
func (t *Transaction) WithFreeSpending() (*Transaction, error) {
	if t.Type != TransactionTypeExpense {
		return nil, shared.NewDomainError("INVALID_FREE_SPENDING", "Only expenses can use the free-spending quota")
	}
	t.IsFreeSpending = true
	return t, nil
}

// WithVisibility sets the transaction visibility
func (t *Transaction) WithVisibility(v Visibility) (*Transaction, error) {
	if !v.IsValid() {
		return nil, shared.NewDomainError("INVALID_VISIBILITY", "Invalid visibility")
	}
	t.Visibility = v
	return t, nil
}

// WithCategory sets the transaction category
func (t *Transaction) WithCategory(category string) *Transaction {
	t.Category = &category
	return t
}

// WithDescription sets the transaction description
func (t *Transaction) WithDescription(description string) *Transaction {
	t.Description = description
	return t
}

// WithCoupleExpense marks the transaction as a shared couple expense
func (t *Transaction) WithCoupleExpense() *Transaction {
	t.IsCoupleExpense = true
	return t
}

// WithInstallment links the transaction into an installment group
func (t *Transaction) WithInstallment(info InstallmentInfo) (*Transaction, error) {
	if t.RecurringTemplateID != nil {
		return nil, shared.NewDomainError("INVALID_LINKAGE", "Transaction is already recurring-generated")
	}
	groupID := info.GroupID
	number := info.CurrentNumber
	total := info.TotalInstallments
	t.InstallmentGroupID = &groupID
	t.InstallmentNumber = &number
	t.TotalInstallments = &total
	return t, nil
}

// WithRecurringTemplate links the transaction to the template that generated it
func (t *Transaction) WithRecurringTemplate(templateID uuid.UUID) (*Transaction, error) {
	if t.InstallmentGroupID != nil {
		return nil, shared.NewDomainError("INVALID_LINKAGE", "Transaction is already an installment member")
	}
	if templateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEMPLATE", "Template ID cannot be empty")
	}
	t.RecurringTemplateID = &templateID
	return t, nil
}

// IsInstallment reports whether the transaction belongs to an installment group
func (t *Transaction) IsInstallment() bool {
	return t.InstallmentGroupID != nil
}

// IsRecurring reports whether the transaction was generated from a recurring template
func (t *Transaction) IsRecurring() bool {
	return t.RecurringTemplateID != nil
}

// IsStandalone reports whether the transaction has no group or template linkage
func (t *Transaction) IsStandalone() bool {
	return !t.IsInstallment() && !t.IsRecurring()
}

// AffectsFreeSpending reports whether the transaction draws on the payer's
// free-spending quota when registered. Whether a deletion restores the
// quota is decided by QuotaConsumed, not by this flag.
func (t *Transaction) AffectsFreeSpending() bool {
	return t.Type == TransactionTypeExpense && t.IsFreeSpending
}

// MarkQuotaConsumed records a successful quota decrement for this
// transaction, entitling a later deletion to restore the amount.
func (t *Transaction) MarkQuotaConsumed() {
	t.QuotaConsumed = true
}

// AffectsBalance reports whether the transaction was posted to its
// account's balance. Installment members are future obligations created
// without a balance movement, so neither deleting one nor changing its
// amount may touch the balance.
func (t *Transaction) AffectsBalance() bool {
	return !t.IsInstallment()
}

// SignedAmount returns the balance delta this transaction applies to its
// account: positive for income, negative for expense
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Installment returns the installment linkage as a value object, or nil for
// non-installment transactions
func (t *Transaction) Installment() *InstallmentInfo {
	if !t.IsInstallment() {
		return nil
	}
	info, err := NewInstallmentInfo(*t.InstallmentGroupID, *t.InstallmentNumber, *t.TotalInstallments)
	if err != nil {
		return nil
	}
	return &info
}

// DetachFromTemplate removes the recurring linkage, turning the row into a
// standalone transaction. Used by the this-and-future update scope.
func (t *Transaction) DetachFromTemplate() {
	t.RecurringTemplateID = nil
}
