package handler

import (
	"context"
	"sort"
	"time"

	appcouple "github.com/coupleledger/backend/internal/application/couple"
	appledger "github.com/coupleledger/backend/internal/application/ledger"
	apprecurrence "github.com/coupleledger/backend/internal/application/recurrence"
	"github.com/coupleledger/backend/internal/domain/couple"
	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/recurrence"
	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// In-memory repositories backing the handler tests. State is shared
// across repositories so balance and quota effects survive a request.

type memoryCoupleRepo struct {
	couples map[uuid.UUID]*couple.Couple
}

func newMemoryCoupleRepo() *memoryCoupleRepo {
	return &memoryCoupleRepo{couples: make(map[uuid.UUID]*couple.Couple)}
}

func (r *memoryCoupleRepo) Create(_ context.Context, c *couple.Couple) error {
	r.couples[c.ID] = c
	return nil
}

func (r *memoryCoupleRepo) FindByID(_ context.Context, id uuid.UUID) (*couple.Couple, error) {
	c, ok := r.couples[id]
	if !ok {
		return nil, couple.ErrCoupleNotFound
	}
	return c, nil
}

func (r *memoryCoupleRepo) Save(_ context.Context, c *couple.Couple) error {
	r.couples[c.ID] = c
	return nil
}

func (r *memoryCoupleRepo) FindByResetDay(_ context.Context, day int) ([]*couple.Couple, error) {
	var out []*couple.Couple
	for _, c := range r.couples {
		if c.ResetDay == day {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryCoupleRepo) TryDecrementFreeSpending(_ context.Context, coupleID uuid.UUID, slot couple.UserSlot, amount decimal.Decimal) (bool, error) {
	c, ok := r.couples[coupleID]
	if !ok {
		return false, couple.ErrCoupleNotFound
	}
	quota := &c.QuotaA
	if slot == couple.UserSlotB {
		quota = &c.QuotaB
	}
	if quota.Remaining.LessThan(amount) {
		return false, nil
	}
	quota.Remaining = quota.Remaining.Sub(amount)
	return true, nil
}

func (r *memoryCoupleRepo) RestoreFreeSpending(_ context.Context, coupleID uuid.UUID, slot couple.UserSlot, amount decimal.Decimal) error {
	c, ok := r.couples[coupleID]
	if !ok {
		return couple.ErrCoupleNotFound
	}
	quota := &c.QuotaA
	if slot == couple.UserSlotB {
		quota = &c.QuotaB
	}
	quota.Remaining = quota.Remaining.Add(amount)
	return nil
}

type memoryAccountRepo struct {
	accounts map[uuid.UUID]*ledger.Account
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{accounts: make(map[uuid.UUID]*ledger.Account)}
}

func (r *memoryAccountRepo) Create(_ context.Context, a *ledger.Account) error {
	r.accounts[a.ID] = a
	return nil
}

func (r *memoryAccountRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	a, ok := r.accounts[id]
	if !ok || a.TenantID != tenantID {
		return nil, ledger.ErrAccountNotFound
	}
	return a, nil
}

func (r *memoryAccountRepo) FindAll(_ context.Context, tenantID uuid.UUID) ([]*ledger.Account, error) {
	var out []*ledger.Account
	for _, a := range r.accounts {
		if a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryAccountRepo) Save(_ context.Context, a *ledger.Account) error {
	r.accounts[a.ID] = a
	return nil
}

func (r *memoryAccountRepo) AdjustBalance(_ context.Context, tenantID, accountID uuid.UUID, delta decimal.Decimal) error {
	a, ok := r.accounts[accountID]
	if !ok || a.TenantID != tenantID {
		return ledger.ErrAccountNotFound
	}
	a.CurrentBalance = a.CurrentBalance.Add(delta)
	return nil
}

type memoryTransactionRepo struct {
	transactions map[uuid.UUID]*ledger.Transaction
}

func newMemoryTransactionRepo() *memoryTransactionRepo {
	return &memoryTransactionRepo{transactions: make(map[uuid.UUID]*ledger.Transaction)}
}

func (r *memoryTransactionRepo) Create(_ context.Context, tx *ledger.Transaction) error {
	r.transactions[tx.ID] = tx
	return nil
}

func (r *memoryTransactionRepo) CreateBatch(_ context.Context, txs []*ledger.Transaction) error {
	for _, tx := range txs {
		r.transactions[tx.ID] = tx
	}
	return nil
}

func (r *memoryTransactionRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*ledger.Transaction, error) {
	tx, ok := r.transactions[id]
	if !ok || tx.TenantID != tenantID {
		return nil, ledger.ErrTransactionNotFound
	}
	return tx, nil
}

func (r *memoryTransactionRepo) FindAll(_ context.Context, tenantID uuid.UUID, _ ledger.TransactionFilter) ([]*ledger.Transaction, int64, error) {
	var out []*ledger.Transaction
	for _, tx := range r.transactions {
		if tx.TenantID == tenantID {
			out = append(out, tx)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memoryTransactionRepo) Save(_ context.Context, tx *ledger.Transaction) error {
	r.transactions[tx.ID] = tx
	return nil
}

func (r *memoryTransactionRepo) SaveAll(_ context.Context, txs []*ledger.Transaction) error {
	for _, tx := range txs {
		r.transactions[tx.ID] = tx
	}
	return nil
}

func (r *memoryTransactionRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	tx, ok := r.transactions[id]
	if !ok || tx.TenantID != tenantID {
		return ledger.ErrTransactionNotFound
	}
	delete(r.transactions, id)
	return nil
}

func (r *memoryTransactionRepo) FindByInstallmentGroup(_ context.Context, tenantID, groupID uuid.UUID) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, tx := range r.transactions {
		if tx.TenantID == tenantID && tx.InstallmentGroupID != nil && *tx.InstallmentGroupID == groupID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return *out[i].InstallmentNumber < *out[j].InstallmentNumber
	})
	return out, nil
}

func (r *memoryTransactionRepo) FindInstallmentsFrom(_ context.Context, tenantID, groupID uuid.UUID, from time.Time) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, tx := range r.transactions {
		if tx.TenantID == tenantID && tx.InstallmentGroupID != nil && *tx.InstallmentGroupID == groupID && !tx.TransactionDate.Before(from) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *memoryTransactionRepo) FindByRecurringTemplate(_ context.Context, tenantID, templateID uuid.UUID) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, tx := range r.transactions {
		if tx.TenantID == tenantID && tx.RecurringTemplateID != nil && *tx.RecurringTemplateID == templateID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type memoryTemplateRepo struct {
	templates map[uuid.UUID]*recurrence.Template
}

func newMemoryTemplateRepo() *memoryTemplateRepo {
	return &memoryTemplateRepo{templates: make(map[uuid.UUID]*recurrence.Template)}
}

func (r *memoryTemplateRepo) Create(_ context.Context, t *recurrence.Template) error {
	r.templates[t.ID] = t
	return nil
}

func (r *memoryTemplateRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*recurrence.Template, error) {
	t, ok := r.templates[id]
	if !ok || t.TenantID != tenantID {
		return nil, recurrence.ErrTemplateNotFound
	}
	return t, nil
}

func (r *memoryTemplateRepo) FindAll(_ context.Context, tenantID uuid.UUID) ([]*recurrence.Template, error) {
	var out []*recurrence.Template
	for _, t := range r.templates {
		if t.TenantID == tenantID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memoryTemplateRepo) Save(_ context.Context, t *recurrence.Template) error {
	r.templates[t.ID] = t
	return nil
}

func (r *memoryTemplateRepo) FindDue(_ context.Context, currentDate time.Time) ([]*recurrence.Template, error) {
	var out []*recurrence.Template
	for _, t := range r.templates {
		if t.IsDue(currentDate) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memoryTemplateRepo) FindExpired(_ context.Context, currentDate time.Time) ([]*recurrence.Template, error) {
	var out []*recurrence.Template
	for _, t := range r.templates {
		if t.IsActive && t.HasEnded(currentDate) {
			out = append(out, t)
		}
	}
	return out, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ ...shared.DomainEvent) error { return nil }

// handlerFixture wires the handlers on top of in-memory repositories with
// one couple and one joint account already present.
type handlerFixture struct {
	couples   *memoryCoupleRepo
	accounts  *memoryAccountRepo
	txs       *memoryTransactionRepo
	templates *memoryTemplateRepo

	coupleHandler      *CoupleHandler
	accountHandler     *AccountHandler
	transactionHandler *TransactionHandler
	templateHandler    *TemplateHandler

	tenantID  uuid.UUID
	userAID   uuid.UUID
	userBID   uuid.UUID
	accountID uuid.UUID
}

func newHandlerFixture() *handlerFixture {
	gin.SetMode(gin.TestMode)

	f := &handlerFixture{
		couples:   newMemoryCoupleRepo(),
		accounts:  newMemoryAccountRepo(),
		txs:       newMemoryTransactionRepo(),
		templates: newMemoryTemplateRepo(),
		userAID:   uuid.New(),
		userBID:   uuid.New(),
	}

	scope := appledger.NewNoOpTransactionScope(f.txs, f.accounts, f.couples, f.templates)
	logger := zap.NewNop()
	publisher := noopPublisher{}

	coupleService := appcouple.NewCoupleService(f.couples, logger)
	accountService := appledger.NewAccountService(f.accounts, f.couples, logger)
	txService := appledger.NewTransactionService(scope, publisher, logger)
	installmentService := appledger.NewInstallmentService(scope, logger)
	updateService := appledger.NewUpdateScopeService(scope, publisher, logger)
	templateService := apprecurrence.NewTemplateService(f.templates, f.couples, logger)

	f.coupleHandler = NewCoupleHandler(coupleService)
	f.accountHandler = NewAccountHandler(accountService)
	f.transactionHandler = NewTransactionHandler(txService, installmentService, updateService)
	f.templateHandler = NewTemplateHandler(templateService)

	cpl, _ := couple.NewCouple(f.userAID, f.userBID, 1)
	cpl.QuotaA = couple.FreeSpendingQuota{
		Monthly:   decimal.NewFromInt(200),
		Remaining: decimal.NewFromInt(200),
	}
	cpl.QuotaB = couple.FreeSpendingQuota{
		Monthly:   decimal.NewFromInt(150),
		Remaining: decimal.NewFromInt(150),
	}
	f.couples.couples[cpl.ID] = cpl
	f.tenantID = cpl.ID

	account, _ := ledger.NewAccount(f.tenantID, "Joint Checking")
	f.accounts.accounts[account.ID] = account
	f.accountID = account.ID

	return f
}

func (f *handlerFixture) couple() *couple.Couple {
	return f.couples.couples[f.tenantID]
}

func (f *handlerFixture) account() *ledger.Account {
	return f.accounts.accounts[f.accountID]
}
