package ledger

import (
	"strings"

	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrAccountNotFound is returned when an account is absent or outside the tenant
var ErrAccountNotFound = shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")

// Account holds money for a couple. CurrentBalance is a derived running
// total: it is only mutated by transaction register/delete/update flows,
// never set directly to an arbitrary value.
type Account struct {
	shared.BaseEntity
	TenantID       uuid.UUID
	Name           string
	OwnerID        *uuid.UUID // nil = joint account
	CurrentBalance decimal.Decimal
}

// NewAccount creates a joint account for a couple
func NewAccount(tenantID uuid.UUID, name string) (*Account, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}

	return &Account{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       tenantID,
		Name:           strings.TrimSpace(name),
		CurrentBalance: decimal.Zero,
	}, nil
}

// NewPersonalAccount creates an account owned by a single member
func NewPersonalAccount(tenantID uuid.UUID, name string, ownerID uuid.UUID) (*Account, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	account, err := NewAccount(tenantID, name)
	if err != nil {
		return nil, err
	}
	account.OwnerID = &ownerID
	return account, nil
}

// IsJoint reports whether the account is shared by both members
func (a *Account) IsJoint() bool {
	return a.OwnerID == nil
}

// BelongsTo reports whether the account is visible to the given user
func (a *Account) BelongsTo(userID uuid.UUID) bool {
	return a.OwnerID == nil || *a.OwnerID == userID
}
