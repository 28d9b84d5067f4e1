package ledger

import (
	"context"

	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/recurrence"
	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// transactionKind classifies a transaction for scope resolution
type transactionKind int

const (
	kindStandalone transactionKind = iota
	kindInstallment
	kindRecurring
)

func classify(tx *ledger.Transaction) transactionKind {
	switch {
	case tx.IsInstallment():
		return kindInstallment
	case tx.IsRecurring():
		return kindRecurring
	default:
		return kindStandalone
	}
}

// UpdateScopeService resolves "edit this one / this and future / all"
// semantics for transactions that belong to an installment group or a
// recurring template. The (kind x scope) table is exhaustive:
//
//	standalone:   every scope updates only the target row
//	installment:  THIS_ONLY target row; THIS_AND_FUTURE rows dated on/after
//	              the target; ALL every group member
//	recurring:    THIS_ONLY target row; THIS_AND_FUTURE detaches the row and
//	              rewrites the template so future generations inherit the
//	              changes; ALL falls back to THIS_ONLY (already-generated
//	              recurring transactions are never rewritten retroactively)
type UpdateScopeService struct {
	scope  TransactionScope
	events shared.EventPublisher
	logger *zap.Logger
}

// NewUpdateScopeService creates a new UpdateScopeService
func NewUpdateScopeService(scope TransactionScope, events shared.EventPublisher, logger *zap.Logger) *UpdateScopeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateScopeService{
		scope:  scope,
		events: events,
		logger: logger,
	}
}

// UpdateWithScope looks the transaction up once, classifies it, dispatches
// to the matching mutation, and reports the rows actually changed together
// with the scope that was applied.
func (s *UpdateScopeService) UpdateWithScope(
	ctx context.Context,
	tenantID, transactionID uuid.UUID,
	requested UpdateScope,
	updates TransactionUpdates,
) (*UpdateResult, error) {
	if !requested.IsValid() {
		return nil, shared.NewDomainError("INVALID_SCOPE", "Invalid update scope")
	}
	if updates.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Update carries no changes")
	}
	if updates.Amount != nil && !updates.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	var (
		target *ledger.Transaction
		result *UpdateResult
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		tx, err := repos.Transactions().FindByID(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}
		target = tx

		if updates.Visibility != nil && *updates.Visibility == ledger.VisibilityPrivate {
			cpl, err := repos.Couples().FindByID(ctx, tenantID)
			if err != nil {
				return err
			}
			if !cpl.AllowPrivateTransactions {
				return shared.ErrPolicyViolation
			}
		}

		applied := requested
		templateUpdated := false
		var rows []*ledger.Transaction

		switch kind := classify(tx); {
		case kind == kindStandalone || requested == ScopeThisOnly:
			applied = ScopeThisOnly
			rows = []*ledger.Transaction{tx}

		case kind == kindInstallment && requested == ScopeThisAndFuture:
			rows, err = repos.Transactions().FindInstallmentsFrom(ctx, tenantID, *tx.InstallmentGroupID, tx.TransactionDate)
			if err != nil {
				return err
			}

		case kind == kindInstallment && requested == ScopeAll:
			rows, err = repos.Transactions().FindByInstallmentGroup(ctx, tenantID, *tx.InstallmentGroupID)
			if err != nil {
				return err
			}

		case kind == kindRecurring && requested == ScopeThisAndFuture:
			template, err := repos.Templates().FindByID(ctx, tenantID, *tx.RecurringTemplateID)
			if err != nil {
				return err
			}
			tx.DetachFromTemplate()
			applyTemplateUpdates(template, updates)
			if err := repos.Templates().Save(ctx, template); err != nil {
				return err
			}
			templateUpdated = true
			rows = []*ledger.Transaction{tx}

		default: // recurring + ALL: no retroactive rewrite of generated rows
			applied = ScopeThisOnly
			rows = []*ledger.Transaction{tx}
		}

		if err := s.applyToRows(ctx, repos, tenantID, rows, updates); err != nil {
			return err
		}

		result = &UpdateResult{
			AppliedScope:    applied,
			Transactions:    ToTransactionResponses(rows),
			TemplateUpdated: templateUpdated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, target, result)
	return result, nil
}

// applyToRows mutates each selected row and keeps account balances in step:
// an amount change applies the signed delta to the owning account within
// the same atomic scope. Rows that were never posted to the balance
// (installment members) are rewritten without a balance adjustment.
func (s *UpdateScopeService) applyToRows(
	ctx context.Context,
	repos TransactionalRepositories,
	tenantID uuid.UUID,
	rows []*ledger.Transaction,
	updates TransactionUpdates,
) error {
	for _, row := range rows {
		oldSigned := row.SignedAmount()
		applyTransactionUpdates(row, updates)

		if delta := row.SignedAmount().Sub(oldSigned); !delta.IsZero() && row.AffectsBalance() {
			if err := repos.Accounts().AdjustBalance(ctx, tenantID, row.AccountID, delta); err != nil {
				return err
			}
		}
	}
	return repos.Transactions().SaveAll(ctx, rows)
}

func applyTransactionUpdates(tx *ledger.Transaction, updates TransactionUpdates) {
	if updates.Amount != nil {
		tx.Amount = *updates.Amount
	}
	if updates.Description != nil {
		tx.Description = *updates.Description
	}
	if updates.Category != nil {
		tx.Category = updates.Category
	}
	if updates.IsCoupleExpense != nil {
		tx.IsCoupleExpense = *updates.IsCoupleExpense
	}
	if updates.Visibility != nil {
		tx.Visibility = *updates.Visibility
	}
	if updates.TransactionDate != nil {
		tx.TransactionDate = *updates.TransactionDate
	}
}

// applyTemplateUpdates rewrites the template's stamp fields so future
// generated transactions inherit the change. The transaction date does not
// apply; occurrence dates come from the schedule.
func applyTemplateUpdates(template *recurrence.Template, updates TransactionUpdates) {
	if updates.Amount != nil {
		template.Amount = *updates.Amount
	}
	if updates.Description != nil {
		template.Description = *updates.Description
	}
	if updates.Category != nil {
		template.Category = updates.Category
	}
	if updates.IsCoupleExpense != nil {
		template.IsCoupleExpense = *updates.IsCoupleExpense
	}
	if updates.Visibility != nil {
		template.Visibility = *updates.Visibility
	}
}

func (s *UpdateScopeService) publish(ctx context.Context, target *ledger.Transaction, result *UpdateResult) {
	if s.events == nil || target == nil || result == nil {
		return
	}
	event := ledger.NewTransactionUpdatedEvent(target, len(result.Transactions), string(result.AppliedScope))
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish ledger event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}
