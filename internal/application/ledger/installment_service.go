package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// batchScopeTimeout bounds how long an installment batch may hold its
// transaction open; the batch touches no shared balance rows but should not
// hold locks indefinitely either.
const batchScopeTimeout = 30 * time.Second

// InstallmentService splits a purchase into a group of dated, linked
// transactions sharing one group ID.
type InstallmentService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewInstallmentService creates a new InstallmentService
func NewInstallmentService(scope TransactionScope, logger *zap.Logger) *InstallmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstallmentService{scope: scope, logger: logger}
}

// CreateInstallmentTransaction generates TotalInstallments transactions one
// calendar month apart. Each installment carries round(total/count, 2)
// except the last, which absorbs the rounding drift so the group always
// sums exactly to the requested total. The rows are persisted in one batch;
// account balances are not touched, installments are future obligations,
// not settled movements.
func (s *InstallmentService) CreateInstallmentTransaction(ctx context.Context, in CreateInstallmentInput) (*InstallmentGroupResponse, error) {
	if !in.TotalAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}
	if in.TotalInstallments < 2 {
		return nil, shared.NewDomainError("INVALID_CONFIGURATION", "An installment purchase requires at least 2 installments")
	}

	count := in.TotalInstallments
	perInstallment := in.TotalAmount.DivRound(decimal.NewFromInt(int64(count)), 2)
	lastInstallment := in.TotalAmount.Sub(perInstallment.Mul(decimal.NewFromInt(int64(count - 1))))

	firstDate := in.FirstDate
	if firstDate.IsZero() {
		firstDate = time.Now()
	}

	info, err := ledger.NewInstallmentGroup(count)
	if err != nil {
		return nil, err
	}

	transactions := make([]*ledger.Transaction, 0, count)
	current := &info
	installmentDate := firstDate
	for current != nil {
		amount := perInstallment
		if current.IsLast() {
			amount = lastInstallment
		}

		tx, err := ledger.NewTransaction(in.TenantID, in.AccountID, in.UserID, in.Type, amount, installmentDate)
		if err != nil {
			return nil, err
		}
		if in.Visibility != "" {
			if _, err := tx.WithVisibility(in.Visibility); err != nil {
				return nil, err
			}
		}
		if in.IsCoupleExpense {
			tx.WithCoupleExpense()
		}
		if in.Category != nil {
			tx.WithCategory(*in.Category)
		}
		tx.WithDescription(installmentDescription(in.Description, *current))
		if _, err := tx.WithInstallment(*current); err != nil {
			return nil, err
		}

		transactions = append(transactions, tx)
		current = current.Next()
		installmentDate = installmentDate.AddDate(0, 1, 0)
	}

	opts := ScopeOptions{Isolation: sql.LevelReadCommitted, Timeout: batchScopeTimeout}
	err = s.scope.ExecuteWithOptions(ctx, opts, func(repos TransactionalRepositories) error {
		// account existence check keeps the group inside the tenant
		if _, err := repos.Accounts().FindByID(ctx, in.TenantID, in.AccountID); err != nil {
			return err
		}
		if in.Visibility == ledger.VisibilityPrivate {
			cpl, err := repos.Couples().FindByID(ctx, in.TenantID)
			if err != nil {
				return err
			}
			if !cpl.AllowPrivateTransactions {
				return shared.ErrPolicyViolation
			}
		}
		return repos.Transactions().CreateBatch(ctx, transactions)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("installment group created",
		zap.String("group_id", info.GroupID.String()),
		zap.Int("installments", count),
		zap.String("total", in.TotalAmount.String()),
	)

	return &InstallmentGroupResponse{
		GroupID:      info.GroupID,
		Transactions: ToTransactionResponses(transactions),
	}, nil
}

// installmentDescription suffixes the shared description with the "k/count" label
func installmentDescription(description string, info ledger.InstallmentInfo) string {
	if strings.TrimSpace(description) == "" {
		return fmt.Sprintf("(%s)", info.Label())
	}
	return fmt.Sprintf("%s (%s)", description, info.Label())
}
