package recurrence

import (
	"time"

	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/recurrence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTemplateInput is the input for setting up a recurring transaction
type CreateTemplateInput struct {
	AccountID       uuid.UUID       `json:"account_id" binding:"required"`
	Type            string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Frequency       string          `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	Interval        int             `json:"interval" binding:"required,min=1"`
	StartDate       time.Time       `json:"start_date" binding:"required"`
	EndDate         *time.Time      `json:"end_date"`
	IsFreeSpending  bool            `json:"is_free_spending"`
	IsCoupleExpense bool            `json:"is_couple_expense"`
	Visibility      string          `json:"visibility" binding:"omitempty,oneof=SHARED PRIVATE"`
	Category        *string         `json:"category"`
	Description     string          `json:"description"`
}

// TemplateResponse is the response form of a recurring template
type TemplateResponse struct {
	ID              uuid.UUID       `json:"id"`
	AccountID       uuid.UUID       `json:"account_id"`
	PaidByID        uuid.UUID       `json:"paid_by_id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	IsFreeSpending  bool            `json:"is_free_spending"`
	IsCoupleExpense bool            `json:"is_couple_expense"`
	Visibility      string          `json:"visibility"`
	Category        *string         `json:"category"`
	Description     string          `json:"description"`
	Frequency       string          `json:"frequency"`
	Interval        int             `json:"interval"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date"`
	NextOccurrence  time.Time       `json:"next_occurrence"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToTemplateResponse converts a domain template to its response form
func ToTemplateResponse(t *recurrence.Template) TemplateResponse {
	return TemplateResponse{
		ID:              t.ID,
		AccountID:       t.AccountID,
		PaidByID:        t.PaidByID,
		Type:            t.Type.String(),
		Amount:          t.Amount,
		IsFreeSpending:  t.IsFreeSpending,
		IsCoupleExpense: t.IsCoupleExpense,
		Visibility:      string(t.Visibility),
		Category:        t.Category,
		Description:     t.Description,
		Frequency:       string(t.Frequency),
		Interval:        t.Interval,
		StartDate:       t.StartDate,
		EndDate:         t.EndDate,
		NextOccurrence:  t.NextOccurrence,
		IsActive:        t.IsActive,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func visibilityOrDefault(v string) ledger.Visibility {
	if v == "" {
		return ledger.VisibilityShared
	}
	return ledger.Visibility(v)
}
