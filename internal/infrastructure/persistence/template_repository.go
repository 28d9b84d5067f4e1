package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/coupleledger/backend/internal/domain/recurrence"
	"github.com/coupleledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTemplateRepository implements recurrence.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// Create persists a new template
func (r *GormTemplateRepository) Create(ctx context.Context, template *recurrence.Template) error {
	model := models.TemplateModelFromDomain(template)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a template by ID within a tenant
func (r *GormTemplateRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*recurrence.Template, error) {
	var model models.TemplateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recurrence.ErrTemplateNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all templates for a tenant
func (r *GormTemplateRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]*recurrence.Template, error) {
	var rows []models.TemplateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTemplates(rows), nil
}

// Save updates an existing template
func (r *GormTemplateRepository) Save(ctx context.Context, template *recurrence.Template) error {
	model := models.TemplateModelFromDomain(template)
	model.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(model).Error
}

// FindDue returns active templates whose next occurrence is on or before
// the given date and whose end date has not passed. It deliberately crosses
// tenants: the daily generation run serves every couple at once.
func (r *GormTemplateRepository) FindDue(ctx context.Context, currentDate time.Time) ([]*recurrence.Template, error) {
	var rows []models.TemplateModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND next_occurrence <= ? AND (end_date IS NULL OR end_date >= ?)",
			true, currentDate, currentDate).
		Order("next_occurrence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTemplates(rows), nil
}

// FindExpired returns active templates whose end date has passed
func (r *GormTemplateRepository) FindExpired(ctx context.Context, currentDate time.Time) ([]*recurrence.Template, error) {
	var rows []models.TemplateModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND end_date IS NOT NULL AND end_date < ?", true, currentDate).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTemplates(rows), nil
}

func toDomainTemplates(rows []models.TemplateModel) []*recurrence.Template {
	templates := make([]*recurrence.Template, len(rows))
	for i := range rows {
		templates[i] = rows[i].ToDomain()
	}
	return templates
}

// Ensure GormTemplateRepository implements the repository interface
var _ recurrence.TemplateRepository = (*GormTemplateRepository)(nil)
