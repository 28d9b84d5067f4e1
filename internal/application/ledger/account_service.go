package ledger

import (
	"context"
	"time"

	"github.com/coupleledger/backend/internal/domain/couple"
	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateAccountInput is the input for creating an account
type CreateAccountInput struct {
	Name     string `json:"name" binding:"required"`
	Personal bool   `json:"personal"`
}

// AccountResponse is the response form of an account
type AccountResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	OwnerID        *uuid.UUID      `json:"owner_id,omitempty"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToAccountResponse converts a domain account to its response form
func ToAccountResponse(a *ledger.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		OwnerID:        a.OwnerID,
		CurrentBalance: a.CurrentBalance,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountService manages the couple's accounts. Balances are never set
// through this service; they move only with transaction flows.
type AccountService struct {
	accounts ledger.AccountRepository
	couples  couple.Repository
	logger   *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts ledger.AccountRepository, couples couple.Repository, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{accounts: accounts, couples: couples, logger: logger}
}

// Create opens a joint account, or a personal one owned by the acting user
// when the couple's policy allows personal accounts.
func (s *AccountService) Create(ctx context.Context, tenantID, userID uuid.UUID, input CreateAccountInput) (*AccountResponse, error) {
	var account *ledger.Account
	if input.Personal {
		cpl, err := s.couples.FindByID(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if !cpl.AllowPersonalAccounts {
			return nil, shared.ErrPolicyViolation
		}
		if _, err := cpl.SlotForUser(userID); err != nil {
			return nil, err
		}
		account, err = ledger.NewPersonalAccount(tenantID, input.Name, userID)
		if err != nil {
			return nil, err
		}
	} else {
		joint, err := ledger.NewAccount(tenantID, input.Name)
		if err != nil {
			return nil, err
		}
		account = joint
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		zap.String("account_id", account.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.Bool("personal", input.Personal),
	)

	response := ToAccountResponse(account)
	return &response, nil
}

// GetByID returns one of the tenant's accounts
func (s *AccountService) GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// List returns all of the tenant's accounts
func (s *AccountService) List(ctx context.Context, tenantID uuid.UUID) ([]AccountResponse, error) {
	accounts, err := s.accounts.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		responses[i] = ToAccountResponse(a)
	}
	return responses, nil
}
