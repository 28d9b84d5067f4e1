package ledger

import (
	"context"

	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionService implements the money-moving use cases: registering and
// deleting transactions while keeping account balance, free-spending quota
// and the transaction rows consistent within one atomic scope.
type TransactionService struct {
	scope  TransactionScope
	events shared.EventPublisher
	logger *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(scope TransactionScope, events shared.EventPublisher, logger *zap.Logger) *TransactionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionService{
		scope:  scope,
		events: events,
		logger: logger,
	}
}

// Register validates and persists a new transaction. Inside one atomic
// scope it inserts the row, adjusts the account balance, and decrements the
// payer's free-spending quota when the expense draws on it. The quota
// decrement is a conditional update issued by the repository, so two
// concurrent registrations cannot both pass the remaining check.
func (s *TransactionService) Register(ctx context.Context, in RegisterTransactionInput) (*TransactionResponse, error) {
	var created *ledger.Transaction

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.Accounts().FindByID(ctx, in.TenantID, in.AccountID)
		if err != nil {
			return err
		}

		cpl, err := repos.Couples().FindByID(ctx, in.TenantID)
		if err != nil {
			return err
		}

		if in.Visibility == ledger.VisibilityPrivate && !cpl.AllowPrivateTransactions {
			return shared.ErrPolicyViolation
		}

		tx, err := buildTransaction(in)
		if err != nil {
			return err
		}

		if tx.AffectsFreeSpending() {
			slot, err := cpl.SlotForUser(in.UserID)
			if err != nil {
				return err
			}
			ok, err := repos.Couples().TryDecrementFreeSpending(ctx, cpl.ID, slot, tx.Amount)
			if err != nil {
				return err
			}
			if !ok {
				return &ledger.InsufficientFreeSpendingError{Remaining: cpl.Quota(slot).Remaining}
			}
			tx.MarkQuotaConsumed()
		}

		if err := repos.Transactions().Create(ctx, tx); err != nil {
			return err
		}
		if err := repos.Accounts().AdjustBalance(ctx, in.TenantID, account.ID, tx.SignedAmount()); err != nil {
			return err
		}

		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ledger.NewTransactionRegisteredEvent(created))

	response := ToTransactionResponse(created)
	return &response, nil
}

// Delete reverses a transaction: the balance change is undone, a consumed
// free-spending amount is returned to the paying user, and the row is
// removed, all within one atomic scope. Register followed by Delete leaves
// balance and quota exactly at their prior values. Rows that never posted
// to the balance (installment members) or never drew on the quota are
// deleted without the corresponding reversal.
func (s *TransactionService) Delete(ctx context.Context, tenantID, transactionID uuid.UUID) error {
	var deleted *ledger.Transaction

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		tx, err := repos.Transactions().FindByID(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}

		if tx.AffectsBalance() {
			if err := repos.Accounts().AdjustBalance(ctx, tenantID, tx.AccountID, tx.SignedAmount().Neg()); err != nil {
				return err
			}
		}

		if tx.QuotaConsumed {
			cpl, err := repos.Couples().FindByID(ctx, tenantID)
			if err != nil {
				return err
			}
			slot, err := cpl.SlotForUser(tx.PaidByID)
			if err != nil {
				return err
			}
			if err := repos.Couples().RestoreFreeSpending(ctx, cpl.ID, slot, tx.Amount); err != nil {
				return err
			}
		}

		if err := repos.Transactions().Delete(ctx, tenantID, transactionID); err != nil {
			return err
		}

		deleted = tx
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, ledger.NewTransactionDeletedEvent(deleted))
	return nil
}

// GetByID retrieves a transaction within the tenant
func (s *TransactionService) GetByID(ctx context.Context, tenantID, transactionID uuid.UUID) (*TransactionResponse, error) {
	var response *TransactionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		tx, err := repos.Transactions().FindByID(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}
		r := ToTransactionResponse(tx)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// List retrieves transactions within the tenant
func (s *TransactionService) List(ctx context.Context, tenantID uuid.UUID, filter ledger.TransactionFilter) ([]TransactionResponse, int64, error) {
	var (
		responses []TransactionResponse
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		txs, count, err := repos.Transactions().FindAll(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		responses = ToTransactionResponses(txs)
		total = count
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// publish emits a domain event after commit. Delivery is fire-and-forget:
// a consumer failure must not undo the committed ledger operation.
func (s *TransactionService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish ledger event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}

// buildTransaction assembles and validates a transaction entity from input
func buildTransaction(in RegisterTransactionInput) (*ledger.Transaction, error) {
	tx, err := ledger.NewTransaction(in.TenantID, in.AccountID, in.UserID, in.Type, in.Amount, in.TransactionDate)
	if err != nil {
		return nil, err
	}
	if in.Visibility != "" {
		if _, err := tx.WithVisibility(in.Visibility); err != nil {
			return nil, err
		}
	}
	if in.IsFreeSpending {
		if _, err := tx.WithFreeSpending(); err != nil {
			return nil, err
		}
	}
	if in.IsCoupleExpense {
		tx.WithCoupleExpense()
	}
	if in.Category != nil {
		tx.WithCategory(*in.Category)
	}
	tx.WithDescription(in.Description)
	return tx, nil
}
