package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/coupleledger/backend/internal/domain/couple"
	"github.com/coupleledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCoupleRepository implements couple.Repository using GORM
type GormCoupleRepository struct {
	db *gorm.DB
}

// NewGormCoupleRepository creates a new GormCoupleRepository
func NewGormCoupleRepository(db *gorm.DB) *GormCoupleRepository {
	return &GormCoupleRepository{db: db}
}

// Create persists a new couple
func (r *GormCoupleRepository) Create(ctx context.Context, c *couple.Couple) error {
	model := models.CoupleModelFromDomain(c)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a couple by its ID
func (r *GormCoupleRepository) FindByID(ctx context.Context, id uuid.UUID) (*couple.Couple, error) {
	var model models.CoupleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, couple.ErrCoupleNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save updates an existing couple
func (r *GormCoupleRepository) Save(ctx context.Context, c *couple.Couple) error {
	model := models.CoupleModelFromDomain(c)
	model.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByResetDay returns couples whose quota reset day matches the given day of month
func (r *GormCoupleRepository) FindByResetDay(ctx context.Context, day int) ([]*couple.Couple, error) {
	var rows []models.CoupleModel
	if err := r.db.WithContext(ctx).
		Where("reset_day = ?", day).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	couples := make([]*couple.Couple, len(rows))
	for i := range rows {
		couples[i] = rows[i].ToDomain()
	}
	return couples, nil
}

// quotaRemainingColumn maps a user slot to its remaining-budget column
func quotaRemainingColumn(slot couple.UserSlot) string {
	if slot == couple.UserSlotB {
		return "quota_b_remaining"
	}
	return "quota_a_remaining"
}

// TryDecrementFreeSpending atomically decrements a member's remaining
// free-spending budget. The guard lives in the WHERE clause, so two
// concurrent decrements can never both succeed against an insufficient
// remaining budget; the loser simply matches zero rows.
func (r *GormCoupleRepository) TryDecrementFreeSpending(ctx context.Context, coupleID uuid.UUID, slot couple.UserSlot, amount decimal.Decimal) (bool, error) {
	col := quotaRemainingColumn(slot)
	result := r.db.WithContext(ctx).Model(&models.CoupleModel{}).
		Where("id = ? AND "+col+" >= ?", coupleID, amount).
		Updates(map[string]interface{}{
			col:          gorm.Expr(col+" - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RestoreFreeSpending adds the amount back to a member's remaining budget
func (r *GormCoupleRepository) RestoreFreeSpending(ctx context.Context, coupleID uuid.UUID, slot couple.UserSlot, amount decimal.Decimal) error {
	col := quotaRemainingColumn(slot)
	result := r.db.WithContext(ctx).Model(&models.CoupleModel{}).
		Where("id = ?", coupleID).
		Updates(map[string]interface{}{
			col:          gorm.Expr(col+" + ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return couple.ErrCoupleNotFound
	}
	return nil
}

// Ensure GormCoupleRepository implements the repository interface
var _ couple.Repository = (*GormCoupleRepository)(nil)
