package persistence

import (
	"context"
	"database/sql"

	appledger "github.com/coupleledger/backend/internal/application/ledger"
	"github.com/coupleledger/backend/internal/domain/couple"
	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/recurrence"
	"gorm.io/gorm"
)

// GormLedgerTransactionScope implements TransactionScope using GORM
// transactions. Balance, quota, and row updates performed inside one
// Execute call commit or roll back together.
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope.
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx})
	})
}

// ExecuteWithOptions runs the function within a database transaction using
// an explicit isolation level and timeout. A zero timeout leaves the
// caller's context deadline in force.
func (s *GormLedgerTransactionScope) ExecuteWithOptions(ctx context.Context, opts appledger.ScopeOptions, fn func(repos appledger.TransactionalRepositories) error) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx})
	}, &sql.TxOptions{Isolation: opts.Isolation})
}

// gormLedgerRepositories provides access to all ledger repositories bound
// to a single transaction.
type gormLedgerRepositories struct {
	tx *gorm.DB
}

// Transactions returns the transaction repository scoped to the current transaction.
func (r *gormLedgerRepositories) Transactions() ledger.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// Accounts returns the account repository scoped to the current transaction.
func (r *gormLedgerRepositories) Accounts() ledger.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

// Couples returns the couple repository scoped to the current transaction.
func (r *gormLedgerRepositories) Couples() couple.Repository {
	return NewGormCoupleRepository(r.tx)
}

// Templates returns the recurring template repository scoped to the current transaction.
func (r *gormLedgerRepositories) Templates() recurrence.TemplateRepository {
	return NewGormTemplateRepository(r.tx)
}

// Ensure GormLedgerTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormLedgerTransactionScope)(nil)

// Ensure gormLedgerRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormLedgerRepositories)(nil)
