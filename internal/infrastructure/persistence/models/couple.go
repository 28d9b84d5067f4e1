package models

import (
	"github.com/coupleledger/backend/internal/domain/couple"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CoupleModel is the persistence model for the Couple tenant root.
// The two free-spending quotas are flattened into four columns so the
// conditional decrement can run as a single guarded UPDATE.
type CoupleModel struct {
	BaseModel
	UserAID                  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	UserBID                  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	QuotaAMonthly            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	QuotaARemaining          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	QuotaBMonthly            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	QuotaBRemaining          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ResetDay                 int             `gorm:"not null;index"`
	AllowPrivateTransactions bool            `gorm:"not null;default:true"`
	AllowPersonalAccounts    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CoupleModel) TableName() string {
	return "couples"
}

// ToDomain converts the persistence model to a domain Couple entity.
func (m *CoupleModel) ToDomain() *couple.Couple {
	return &couple.Couple{
		BaseEntity: m.BaseModel.ToDomain(),
		UserAID:    m.UserAID,
		UserBID:    m.UserBID,
		QuotaA: couple.FreeSpendingQuota{
			Monthly:   m.QuotaAMonthly,
			Remaining: m.QuotaARemaining,
		},
		QuotaB: couple.FreeSpendingQuota{
			Monthly:   m.QuotaBMonthly,
			Remaining: m.QuotaBRemaining,
		},
		ResetDay:                 m.ResetDay,
		AllowPrivateTransactions: m.AllowPrivateTransactions,
		AllowPersonalAccounts:    m.AllowPersonalAccounts,
	}
}

// FromDomain populates the persistence model from a domain Couple entity.
func (m *CoupleModel) FromDomain(c *couple.Couple) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.UserAID = c.UserAID
	m.UserBID = c.UserBID
	m.QuotaAMonthly = c.QuotaA.Monthly
	m.QuotaARemaining = c.QuotaA.Remaining
	m.QuotaBMonthly = c.QuotaB.Monthly
	m.QuotaBRemaining = c.QuotaB.Remaining
	m.ResetDay = c.ResetDay
	m.AllowPrivateTransactions = c.AllowPrivateTransactions
	m.AllowPersonalAccounts = c.AllowPersonalAccounts
}

// CoupleModelFromDomain creates a new persistence model from a domain Couple entity.
func CoupleModelFromDomain(c *couple.Couple) *CoupleModel {
	m := &CoupleModel{}
	m.FromDomain(c)
	return m
}
