package models

import (
	"time"

	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/recurrence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TemplateModel is the persistence model for the recurring transaction
// template. The interval column is renamed because INTERVAL is reserved
// in PostgreSQL and the repositories build raw WHERE clauses against it.
type TemplateModel struct {
	BaseModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`

	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaidByID        uuid.UUID       `gorm:"type:uuid;not null"`
	Type            string          `gorm:"type:varchar(10);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IsFreeSpending  bool            `gorm:"not null;default:false"`
	IsCoupleExpense bool            `gorm:"not null;default:false"`
	Visibility      string          `gorm:"type:varchar(10);not null;default:'SHARED'"`
	Category        *string         `gorm:"type:varchar(100)"`
	Description     string          `gorm:"type:varchar(255);not null;default:''"`

	Frequency      string     `gorm:"type:varchar(10);not null"`
	Interval       int        `gorm:"column:recurrence_interval;not null;default:1"`
	StartDate      time.Time  `gorm:"type:date;not null"`
	EndDate        *time.Time `gorm:"type:date"`
	NextOccurrence time.Time  `gorm:"type:date;not null;index"`
	IsActive       bool       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (TemplateModel) TableName() string {
	return "recurring_transaction_templates"
}

// ToDomain converts the persistence model to a domain Template entity.
func (m *TemplateModel) ToDomain() *recurrence.Template {
	return &recurrence.Template{
		BaseEntity:      m.BaseModel.ToDomain(),
		TenantID:        m.TenantID,
		AccountID:       m.AccountID,
		PaidByID:        m.PaidByID,
		Type:            ledger.TransactionType(m.Type),
		Amount:          m.Amount,
		IsFreeSpending:  m.IsFreeSpending,
		IsCoupleExpense: m.IsCoupleExpense,
		Visibility:      ledger.Visibility(m.Visibility),
		Category:        m.Category,
		Description:     m.Description,
		Frequency:       recurrence.Frequency(m.Frequency),
		Interval:        m.Interval,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		NextOccurrence:  m.NextOccurrence,
		IsActive:        m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Template entity.
func (m *TemplateModel) FromDomain(t *recurrence.Template) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.TenantID = t.TenantID
	m.AccountID = t.AccountID
	m.PaidByID = t.PaidByID
	m.Type = t.Type.String()
	m.Amount = t.Amount
	m.IsFreeSpending = t.IsFreeSpending
	m.IsCoupleExpense = t.IsCoupleExpense
	m.Visibility = string(t.Visibility)
	m.Category = t.Category
	m.Description = t.Description
	m.Frequency = t.Frequency.String()
	m.Interval = t.Interval
	m.StartDate = t.StartDate
	m.EndDate = t.EndDate
	m.NextOccurrence = t.NextOccurrence
	m.IsActive = t.IsActive
}

// TemplateModelFromDomain creates a new persistence model from a domain Template entity.
func TemplateModelFromDomain(t *recurrence.Template) *TemplateModel {
	m := &TemplateModel{}
	m.FromDomain(t)
	return m
}
