package recurrence

import (
	"time"

	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency is the unit of a recurrence schedule
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// String returns the string representation of Frequency
func (f Frequency) String() string {
	return string(f)
}

// IsValid returns true if the frequency is valid
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// ErrTemplateNotFound is returned when a template is absent or outside the tenant
var ErrTemplateNotFound = shared.NewDomainError("TEMPLATE_NOT_FOUND", "Recurring transaction template not found")

// Template is a reusable definition the recurrence engine stamps into new
// transactions. NextOccurrence always advances from the last scheduled
// point, never from wall-clock time, so missed runs catch up
// deterministically. Ended templates are deactivated, not deleted.
type Template struct {
	shared.BaseEntity
	TenantID uuid.UUID

	// Stamp fields inherited by every generated transaction
	AccountID       uuid.UUID
	PaidByID        uuid.UUID
	Type            ledger.TransactionType
	Amount          decimal.Decimal
	IsFreeSpending  bool
	IsCoupleExpense bool
	Visibility      ledger.Visibility
	Category        *string
	Description     string

	Frequency      Frequency
	Interval       int // every N frequency units, >= 1
	StartDate      time.Time
	EndDate        *time.Time
	NextOccurrence time.Time
	IsActive       bool
}

// NewTemplate creates a recurring transaction template
func NewTemplate(
	tenantID, accountID, paidByID uuid.UUID,
	txType ledger.TransactionType,
	amount decimal.Decimal,
	frequency Frequency,
	interval int,
	startDate time.Time,
) (*Template, error) {
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
	if !frequency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONFIGURATION", "Invalid frequency")
	}
	if interval < 1 {
		return nil, shared.NewDomainError("INVALID_CONFIGURATION", "Interval must be at least 1")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_CONFIGURATION", "Start date is required")
	}

	return &Template{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       tenantID,
		AccountID:      accountID,
		PaidByID:       paidByID,
		Type:           txType,
		Amount:         amount,
		Visibility:     ledger.VisibilityShared,
		Frequency:      frequency,
		Interval:       interval,
		StartDate:      startDate,
		NextOccurrence: startDate,
		IsActive:       true,
	}, nil
}

// WithEndDate bounds the template; the end date must be after the start date
func (t *Template) WithEndDate(endDate time.Time) (*Template, error) {
	if !endDate.After(t.StartDate) {
		return nil, shared.NewDomainError("INVALID_CONFIGURATION", "End date must be after start date")
	}
	t.EndDate = &endDate
	return t, nil
}

// WithFreeSpending marks generated expenses as drawing on the payer's quota
func (t *Template) WithFreeSpending() (*Template, error) {
	if t.Type != ledger.TransactionTypeExpense {
		return nil, shared.NewDomainError("INVALID_FREE_SPENDING", "Only expense templates can use the free-spending quota")
	}
	t.IsFreeSpending = true
	return t, nil
}

// WithVisibility sets the visibility stamped onto generated transactions
func (t *Template) WithVisibility(v ledger.Visibility) (*Template, error) {
	if !v.IsValid() {
		return nil, shared.NewDomainError("INVALID_VISIBILITY", "Invalid visibility")
	}
	t.Visibility = v
	return t, nil
}

// WithCategory sets the category stamped onto generated transactions
func (t *Template) WithCategory(category string) *Template {
	t.Category = &category
	return t
}

// WithDescription sets the description stamped onto generated transactions
func (t *Template) WithDescription(description string) *Template {
	t.Description = description
	return t
}

// WithCoupleExpense marks generated transactions as shared couple expenses
func (t *Template) WithCoupleExpense() *Template {
	t.IsCoupleExpense = true
	return t
}

// IsDue reports whether the template should generate on the given date
func (t *Template) IsDue(currentDate time.Time) bool {
	if !t.IsActive {
		return false
	}
	if t.NextOccurrence.After(currentDate) {
		return false
	}
	return t.EndDate == nil || !t.EndDate.Before(currentDate)
}

// HasEnded reports whether the template's end date has passed
func (t *Template) HasEnded(currentDate time.Time) bool {
	return t.EndDate != nil && t.EndDate.Before(currentDate)
}

// Advance moves NextOccurrence forward by one interval from its current
// value. The anchor is the last scheduled point, not the current date.
func (t *Template) Advance() {
	switch t.Frequency {
	case FrequencyDaily:
		t.NextOccurrence = t.NextOccurrence.AddDate(0, 0, t.Interval)
	case FrequencyWeekly:
		t.NextOccurrence = t.NextOccurrence.AddDate(0, 0, 7*t.Interval)
	case FrequencyMonthly:
		t.NextOccurrence = t.NextOccurrence.AddDate(0, t.Interval, 0)
	case FrequencyYearly:
		t.NextOccurrence = t.NextOccurrence.AddDate(t.Interval, 0, 0)
	}
}

// Deactivate stops the template from being considered due
func (t *Template) Deactivate() {
	t.IsActive = false
}

// Reactivate resumes a manually deactivated template
func (t *Template) Reactivate() {
	t.IsActive = true
}

// Stamp creates one transaction from the template, dated at the current
// NextOccurrence and linked back to the template.
func (t *Template) Stamp() (*ledger.Transaction, error) {
	tx, err := ledger.NewTransaction(t.TenantID, t.AccountID, t.PaidByID, t.Type, t.Amount, t.NextOccurrence)
	if err != nil {
		return nil, err
	}
	if _, err := tx.WithVisibility(t.Visibility); err != nil {
		return nil, err
	}
	if t.IsFreeSpending {
		if _, err := tx.WithFreeSpending(); err != nil {
			return nil, err
		}
	}
	if t.IsCoupleExpense {
		tx.WithCoupleExpense()
	}
	if t.Category != nil {
		tx.WithCategory(*t.Category)
	}
	tx.WithDescription(t.Description)
	if _, err := tx.WithRecurringTemplate(t.ID); err != nil {
		return nil, err
	}
	return tx, nil
}
