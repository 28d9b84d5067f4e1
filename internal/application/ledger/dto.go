package ledger

import (
	"time"

	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterTransactionInput carries the data needed to register a transaction
type RegisterTransactionInput struct {
	TenantID        uuid.UUID
	UserID          uuid.UUID
	AccountID       uuid.UUID
	Type            ledger.TransactionType
	Amount          decimal.Decimal
	IsFreeSpending  bool
	IsCoupleExpense bool
	Visibility      ledger.Visibility // empty defaults to SHARED
	Category        *string
	Description     string
	TransactionDate time.Time // zero defaults to now
}

// CreateInstallmentInput carries the data needed to split a purchase into
// a group of dated installments
type CreateInstallmentInput struct {
	TenantID          uuid.UUID
	UserID            uuid.UUID
	AccountID         uuid.UUID
	Type              ledger.TransactionType
	TotalAmount       decimal.Decimal
	TotalInstallments int
	FirstDate         time.Time
	IsCoupleExpense   bool
	Visibility        ledger.Visibility
	Category          *string
	Description       string
}

// TransactionUpdates is the set of partial field changes a scoped update applies.
// Nil fields are left untouched.
type TransactionUpdates struct {
	Amount          *decimal.Decimal
	Description     *string
	Category        *string
	IsCoupleExpense *bool
	Visibility      *ledger.Visibility
	TransactionDate *time.Time
}

// IsEmpty reports whether the update carries no changes
func (u TransactionUpdates) IsEmpty() bool {
	return u.Amount == nil && u.Description == nil && u.Category == nil &&
		u.IsCoupleExpense == nil && u.Visibility == nil && u.TransactionDate == nil
}

// TransactionResponse is the application-level view of a transaction
type TransactionResponse struct {
	ID                  uuid.UUID              `json:"id"`
	AccountID           uuid.UUID              `json:"account_id"`
	Type                ledger.TransactionType `json:"type"`
	Amount              decimal.Decimal        `json:"amount"`
	PaidByID            uuid.UUID              `json:"paid_by_id"`
	IsFreeSpending      bool                   `json:"is_free_spending"`
	IsCoupleExpense     bool                   `json:"is_couple_expense"`
	Visibility          ledger.Visibility      `json:"visibility"`
	Category            *string                `json:"category,omitempty"`
	Description         string                 `json:"description,omitempty"`
	TransactionDate     time.Time              `json:"transaction_date"`
	InstallmentGroupID  *uuid.UUID             `json:"installment_group_id,omitempty"`
	InstallmentNumber   *int                   `json:"installment_number,omitempty"`
	TotalInstallments   *int                   `json:"total_installments,omitempty"`
	RecurringTemplateID *uuid.UUID             `json:"recurring_template_id,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
}

// ToTransactionResponse converts a domain transaction to its response form
func ToTransactionResponse(tx *ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                  tx.ID,
		AccountID:           tx.AccountID,
		Type:                tx.Type,
		Amount:              tx.Amount,
		PaidByID:            tx.PaidByID,
		IsFreeSpending:      tx.IsFreeSpending,
		IsCoupleExpense:     tx.IsCoupleExpense,
		Visibility:          tx.Visibility,
		Category:            tx.Category,
		Description:         tx.Description,
		TransactionDate:     tx.TransactionDate,
		InstallmentGroupID:  tx.InstallmentGroupID,
		InstallmentNumber:   tx.InstallmentNumber,
		TotalInstallments:   tx.TotalInstallments,
		RecurringTemplateID: tx.RecurringTemplateID,
		CreatedAt:           tx.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions
func ToTransactionResponses(txs []*ledger.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		responses[i] = ToTransactionResponse(tx)
	}
	return responses
}

// InstallmentGroupResponse is the result of creating an installment group
type InstallmentGroupResponse struct {
	GroupID      uuid.UUID             `json:"group_id"`
	Transactions []TransactionResponse `json:"transactions"`
}

// UpdateScope is the caller's stated intent when editing a transaction that
// belongs to an installment group or recurring template
type UpdateScope string

const (
	ScopeThisOnly      UpdateScope = "THIS_ONLY"
	ScopeThisAndFuture UpdateScope = "THIS_AND_FUTURE"
	ScopeAll           UpdateScope = "ALL"
)

// IsValid returns true if the scope is valid
func (s UpdateScope) IsValid() bool {
	return s == ScopeThisOnly || s == ScopeThisAndFuture || s == ScopeAll
}

// UpdateResult reports what a scoped update actually changed. AppliedScope
// may differ from the requested scope (ALL on a recurring transaction
// falls back to THIS_ONLY).
type UpdateResult struct {
	AppliedScope    UpdateScope           `json:"applied_scope"`
	Transactions    []TransactionResponse `json:"transactions"`
	TemplateUpdated bool                  `json:"template_updated"`
}
