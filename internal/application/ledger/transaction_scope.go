package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/coupleledger/backend/internal/domain/couple"
	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/recurrence"
)

// TransactionScope provides transactional access to the ledger repositories.
// All repository operations performed inside Execute share one database
// transaction: they commit together or roll back together, so no partial
// balance/quota/row update is ever observable.
type TransactionScope interface {
	// Execute runs fn within a database transaction. An error returned by fn
	// rolls everything back and propagates unchanged to the caller.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
	// ExecuteWithOptions is Execute with an explicit isolation level and
	// timeout, for longer-running batches such as installment inserts.
	ExecuteWithOptions(ctx context.Context, opts ScopeOptions, fn func(repos TransactionalRepositories) error) error
}

// ScopeOptions tunes a single transactional scope
type ScopeOptions struct {
	Isolation sql.IsolationLevel
	Timeout   time.Duration
}

// TransactionalRepositories provides access to the ledger repositories
// within one transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	Transactions() ledger.TransactionRepository
	Accounts() ledger.AccountRepository
	Couples() couple.Repository
	Templates() recurrence.TemplateRepository
}

// NoOpTransactionScope runs scope functions without a real transaction.
// Useful for tests and for callers that only perform a single operation.
type NoOpTransactionScope struct {
	transactions ledger.TransactionRepository
	accounts     ledger.AccountRepository
	couples      couple.Repository
	templates    recurrence.TemplateRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	transactions ledger.TransactionRepository,
	accounts ledger.AccountRepository,
	couples couple.Repository,
	templates recurrence.TemplateRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		transactions: transactions,
		accounts:     accounts,
		couples:      couples,
		templates:    templates,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ExecuteWithOptions ignores the options and runs the function directly.
func (s *NoOpTransactionScope) ExecuteWithOptions(ctx context.Context, _ ScopeOptions, fn func(repos TransactionalRepositories) error) error {
	return s.Execute(ctx, fn)
}

// Transactions returns the transaction repository.
func (s *NoOpTransactionScope) Transactions() ledger.TransactionRepository {
	return s.transactions
}

// Accounts returns the account repository.
func (s *NoOpTransactionScope) Accounts() ledger.AccountRepository {
	return s.accounts
}

// Couples returns the couple repository.
func (s *NoOpTransactionScope) Couples() couple.Repository {
	return s.couples
}

// Templates returns the recurring template repository.
func (s *NoOpTransactionScope) Templates() recurrence.TemplateRepository {
	return s.templates
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
