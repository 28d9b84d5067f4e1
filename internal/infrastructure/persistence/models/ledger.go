package models

import (
	"time"

	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for the Account entity.
type AccountModel struct {
	BaseModel
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"type:varchar(100);not null"`
	OwnerID        *uuid.UUID      `gorm:"type:uuid;index"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		BaseEntity:     m.BaseModel.ToDomain(),
		TenantID:       m.TenantID,
		Name:           m.Name,
		OwnerID:        m.OwnerID,
		CurrentBalance: m.CurrentBalance,
	}
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(a *ledger.Account) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.TenantID = a.TenantID
	m.Name = a.Name
	m.OwnerID = a.OwnerID
	m.CurrentBalance = a.CurrentBalance
}

// AccountModelFromDomain creates a new persistence model from a domain Account entity.
func AccountModelFromDomain(a *ledger.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// TransactionModel is the persistence model for the Transaction entity.
// The installment and recurring linkage columns mirror the domain's
// mutual exclusivity; only one group of them is ever populated.
type TransactionModel struct {
	BaseModel
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_tenant_date,priority:1"`
	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type            string          `gorm:"type:varchar(10);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidByID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	IsFreeSpending  bool            `gorm:"not null;default:false"`
	QuotaConsumed   bool            `gorm:"not null;default:false"`
	IsCoupleExpense bool            `gorm:"not null;default:false"`
	Visibility      string          `gorm:"type:varchar(10);not null;default:'SHARED'"`
	Category        *string         `gorm:"type:varchar(100)"`
	Description     string          `gorm:"type:varchar(255);not null;default:''"`
	TransactionDate time.Time       `gorm:"type:date;not null;index:idx_transactions_tenant_date,priority:2"`

	InstallmentGroupID *uuid.UUID `gorm:"type:uuid;index"`
	InstallmentNumber  *int
	TotalInstallments  *int

	RecurringTemplateID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		BaseEntity:          m.BaseModel.ToDomain(),
		TenantID:            m.TenantID,
		AccountID:           m.AccountID,
		Type:                ledger.TransactionType(m.Type),
		Amount:              m.Amount,
		PaidByID:            m.PaidByID,
		IsFreeSpending:      m.IsFreeSpending,
		QuotaConsumed:       m.QuotaConsumed,
		IsCoupleExpense:     m.IsCoupleExpense,
		Visibility:          ledger.Visibility(m.Visibility),
		Category:            m.Category,
		Description:         m.Description,
		TransactionDate:     m.TransactionDate,
		InstallmentGroupID:  m.InstallmentGroupID,
		InstallmentNumber:   m.InstallmentNumber,
		TotalInstallments:   m.TotalInstallments,
		RecurringTemplateID: m.RecurringTemplateID,
	}
}

// FromDomain populates the persistence model from a domain Transaction entity.
func (m *TransactionModel) FromDomain(t *ledger.Transaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.TenantID = t.TenantID
	m.AccountID = t.AccountID
	m.Type = t.Type.String()
	m.Amount = t.Amount
	m.PaidByID = t.PaidByID
	m.IsFreeSpending = t.IsFreeSpending
	m.QuotaConsumed = t.QuotaConsumed
	m.IsCoupleExpense = t.IsCoupleExpense
	m.Visibility = string(t.Visibility)
	m.Category = t.Category
	m.Description = t.Description
	m.TransactionDate = t.TransactionDate
	m.InstallmentGroupID = t.InstallmentGroupID
	m.InstallmentNumber = t.InstallmentNumber
	m.TotalInstallments = t.TotalInstallments
	m.RecurringTemplateID = t.RecurringTemplateID
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction entity.
func TransactionModelFromDomain(t *ledger.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}
