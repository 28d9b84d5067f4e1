package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create persists a new transaction
func (r *GormTransactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Create(model).Error
}

// CreateBatch inserts multiple transactions in one round trip
func (r *GormTransactionRepository) CreateBatch(ctx context.Context, txs []*ledger.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	rows := make([]models.TransactionModel, len(txs))
	for i, tx := range txs {
		rows[i].FromDomain(tx)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// FindByID finds a transaction by ID within a tenant
func (r *GormTransactionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrTransactionNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns transactions for a tenant matching the filter, newest
// first, along with the total count before pagination.
func (r *GormTransactionRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter ledger.TransactionFilter) ([]*ledger.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", filter.Type.String())
	}
	if filter.PaidByID != nil {
		query = query.Where("paid_by_id = ?", *filter.PaidByID)
	}
	if filter.DateFrom != nil {
		query = query.Where("transaction_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("transaction_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("transaction_date DESC, created_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []models.TransactionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toDomainTransactions(rows), total, nil
}

// Save updates an existing transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	model.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll updates multiple transactions
func (r *GormTransactionRepository) SaveAll(ctx context.Context, txs []*ledger.Transaction) error {
	for _, tx := range txs {
		if err := r.Save(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a transaction within a tenant
func (r *GormTransactionRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.TransactionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}

// FindByInstallmentGroup returns every member of an installment group
// ordered by installment number
func (r *GormTransactionRepository) FindByInstallmentGroup(ctx context.Context, tenantID, groupID uuid.UUID) ([]*ledger.Transaction, error) {
	var rows []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND installment_group_id = ?", tenantID, groupID).
		Order("installment_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(rows), nil
}

// FindInstallmentsFrom returns installment group members dated on or after
// the given date, ordered by installment number
func (r *GormTransactionRepository) FindInstallmentsFrom(ctx context.Context, tenantID, groupID uuid.UUID, from time.Time) ([]*ledger.Transaction, error) {
	var rows []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND installment_group_id = ? AND transaction_date >= ?", tenantID, groupID, from).
		Order("installment_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(rows), nil
}

// FindByRecurringTemplate returns transactions generated from a template,
// oldest first
func (r *GormTransactionRepository) FindByRecurringTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]*ledger.Transaction, error) {
	var rows []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND recurring_template_id = ?", tenantID, templateID).
		Order("transaction_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(rows), nil
}

func toDomainTransactions(rows []models.TransactionModel) []*ledger.Transaction {
	txs := make([]*ledger.Transaction, len(rows))
	for i := range rows {
		txs[i] = rows[i].ToDomain()
	}
	return txs
}

// Ensure GormTransactionRepository implements the repository interface
var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)
