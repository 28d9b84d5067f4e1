package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAccountRepository implements ledger.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// Create persists a new account
func (r *GormAccountRepository) Create(ctx context.Context, account *ledger.Account) error {
	model := models.AccountModelFromDomain(account)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds an account by ID within a tenant
func (r *GormAccountRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all accounts for a tenant
func (r *GormAccountRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]*ledger.Account, error) {
	var rows []models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	accounts := make([]*ledger.Account, len(rows))
	for i := range rows {
		accounts[i] = rows[i].ToDomain()
	}
	return accounts, nil
}

// Save updates an existing account
func (r *GormAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	model := models.AccountModelFromDomain(account)
	model.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(model).Error
}

// AdjustBalance applies a signed delta to the account's running balance
// as a single atomic update, avoiding a read-modify-write race between
// concurrent registrations on the same account.
func (r *GormAccountRepository) AdjustBalance(ctx context.Context, tenantID, accountID uuid.UUID, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Where("tenant_id = ? AND id = ?", tenantID, accountID).
		Updates(map[string]interface{}{
			"current_balance": gorm.Expr("current_balance + ?", delta),
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrAccountNotFound
	}
	return nil
}

// Ensure GormAccountRepository implements the repository interface
var _ ledger.AccountRepository = (*GormAccountRepository)(nil)
